package exportsvc

import (
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/ratiba/core/timetable"
)

func testTimetable() *timetable.Timetable {
	return &timetable.Timetable{
		Name:         "My Week",
		Semester:     "Fall",
		AcademicYear: "2026",
		Subjects: []timetable.Subject{
			{Name: "Math", Type: timetable.TypeLecture, Teacher: "Dr. Ada"},
			{Name: "DBMS", Type: timetable.TypePractical, Room: "Lab_1"},
		},
		Schedule: []timetable.DaySchedule{
			{Day: "Monday", Periods: []timetable.Period{
				{Subject: "Math", StartTime: "09:00", EndTime: "10:00", Room: "S-101", Type: timetable.TypeLecture},
			}},
			{Day: "Tuesday", Periods: []timetable.Period{
				{Subject: "DBMS", StartTime: "09:00", Type: timetable.TypePractical},
			}},
		},
	}
}

func TestExcel(t *testing.T) {
	buf, filename, err := Excel(testTimetable())
	if err != nil {
		t.Fatalf("Excel() error = %v", err)
	}
	if filename != "My_Week.xlsx" {
		t.Errorf("Excel() filename = %q, want %q", filename, "My_Week.xlsx")
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("reading workbook back: %v", err)
	}
	defer f.Close()

	checks := []struct {
		cell string
		want string
	}{
		{"A1", "My Week (Fall 2026)"},
		{"A2", "Time"},
		{"B2", "Monday"},
		{"C2", "Tuesday"},
		{"A3", "09:00"},
		{"C3", "DBMS (Practical) @ Lab_1"},
		{"A4", "09:00 - 10:00"},
		{"B4", "Math @ S-101"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue("My Week", c.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", c.cell, err)
		}
		if got != c.want {
			t.Errorf("cell %s = %q, want %q", c.cell, got, c.want)
		}
	}
}

func TestExcelEmptySchedule(t *testing.T) {
	buf, _, err := Excel(&timetable.Timetable{Name: "Empty"})
	if err != nil {
		t.Fatalf("Excel() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Excel() returned an empty buffer")
	}
}

func TestICS(t *testing.T) {
	weekStart := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) // a Monday

	buf, filename, err := ICS(testTimetable(), weekStart)
	if err != nil {
		t.Fatalf("ICS() error = %v", err)
	}
	if filename != "My_Week.ics" {
		t.Errorf("ICS() filename = %q, want %q", filename, "My_Week.ics")
	}

	out := buf.String()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:Math",
		"DTSTART:20260907T090000Z",
		"DTEND:20260907T100000Z",
		"RRULE:FREQ=WEEKLY;BYDAY=MO",
		"SUMMARY:DBMS (Practical)",
		"LOCATION:Lab_1",
		"DTSTART:20260908T090000Z",
		"DTEND:20260908T100000Z", // one hour default
		"RRULE:FREQ=WEEKLY;BYDAY=TU",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS() output missing %q", want)
		}
	}
}

func TestICSSkipsUnparseableStart(t *testing.T) {
	tt := &timetable.Timetable{
		Name: "Odd",
		Schedule: []timetable.DaySchedule{
			{Day: "Monday", Periods: []timetable.Period{
				{Subject: "Mystery", StartTime: "whenever"},
			}},
		},
	}
	buf, _, err := ICS(tt, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ICS() error = %v", err)
	}
	if strings.Contains(buf.String(), "BEGIN:VEVENT") {
		t.Error("ICS() emitted an event for an unparseable start time")
	}
}
