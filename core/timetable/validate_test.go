package timetable

import (
	"reflect"
	"testing"
)

func validTimetable() *Timetable {
	return &Timetable{
		Name: "Semester 5",
		Subjects: []Subject{
			{Name: "Math", Type: TypeLecture, Color: "#FF6B6B"},
			{Name: "DBMS", Type: TypePractical, Color: "#4ECDC4"},
		},
		Schedule: []DaySchedule{
			{Day: "Monday", Periods: []Period{
				{Subject: "Math", StartTime: "09:00", EndTime: "10:00"},
				{Subject: "DBMS", StartTime: "10:00", EndTime: "12:00"},
			}},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(tt *Timetable)
		wantKinds []IssueKind
	}{
		{
			name:   "clean",
			mutate: func(tt *Timetable) {},
		},
		{
			name:      "no subjects",
			mutate:    func(tt *Timetable) { tt.Subjects = nil },
			wantKinds: []IssueKind{KindInvalidStructure, KindDanglingReference, KindDanglingReference},
		},
		{
			name:      "blank subject name",
			mutate:    func(tt *Timetable) { tt.Subjects[0].Name = "  " },
			wantKinds: []IssueKind{KindMissingField, KindDanglingReference},
		},
		{
			name:      "invalid subject type",
			mutate:    func(tt *Timetable) { tt.Subjects[0].Type = "Seminar" },
			wantKinds: []IssueKind{KindInvalidEnum},
		},
		{
			name:      "invalid color",
			mutate:    func(tt *Timetable) { tt.Subjects[0].Color = "red" },
			wantKinds: []IssueKind{KindInvalidEnum},
		},
		{
			name:      "invalid day",
			mutate:    func(tt *Timetable) { tt.Schedule[0].Day = "Moonday" },
			wantKinds: []IssueKind{KindInvalidEnum},
		},
		{
			name:      "unknown subject reference",
			mutate:    func(tt *Timetable) { tt.Schedule[0].Periods[0].Subject = "Physics" },
			wantKinds: []IssueKind{KindDanglingReference},
		},
		{
			name:      "missing period subject",
			mutate:    func(tt *Timetable) { tt.Schedule[0].Periods[0].Subject = "" },
			wantKinds: []IssueKind{KindMissingField},
		},
		{
			name:      "bad time format",
			mutate:    func(tt *Timetable) { tt.Schedule[0].Periods[0].StartTime = "9am" },
			wantKinds: []IssueKind{KindInvalidTimeFormat},
		},
		{
			name:      "end before start",
			mutate:    func(tt *Timetable) { tt.Schedule[0].Periods[0].StartTime = "10:00"; tt.Schedule[0].Periods[0].EndTime = "09:00" },
			wantKinds: []IssueKind{KindTimeOrderViolation},
		},
		{
			name:      "equal start and end",
			mutate:    func(tt *Timetable) { tt.Schedule[0].Periods[0].EndTime = "09:00" },
			wantKinds: []IssueKind{KindTimeOrderViolation},
		},
		{
			name: "multiple issues collected",
			mutate: func(tt *Timetable) {
				tt.Subjects[0].Type = "Seminar"
				tt.Schedule[0].Periods[0].Subject = "Physics"
				tt.Schedule[0].Periods[1].EndTime = "garbage"
			},
			wantKinds: []IssueKind{KindInvalidEnum, KindDanglingReference, KindInvalidTimeFormat},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := validTimetable()
			tc.mutate(tt)

			res := Validate(tt)

			kinds := make([]IssueKind, 0, len(res.Issues))
			for _, iss := range res.Issues {
				kinds = append(kinds, iss.Kind)
			}
			if !reflect.DeepEqual(kinds, tc.wantKinds) && !(len(kinds) == 0 && len(tc.wantKinds) == 0) {
				t.Errorf("issue kinds = %v, want %v (messages: %v)", kinds, tc.wantKinds, res.Messages())
			}

			wantValid := len(tc.wantKinds) == 0
			if res.Valid != wantValid {
				t.Errorf("Valid = %v, want %v", res.Valid, wantValid)
			}
			// sanitized output is all-or-nothing
			if wantValid && res.Sanitized == nil {
				t.Error("Sanitized = nil on a clean timetable")
			}
			if !wantValid && res.Sanitized != nil {
				t.Error("Sanitized set despite issues")
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	res := Validate(nil)
	if res.Valid || len(res.Issues) != 1 || res.Issues[0].Kind != KindInvalidStructure {
		t.Errorf("Validate(nil) = %+v", res)
	}
	if res.Issues[0].Message != "timetable is required" {
		t.Errorf("message = %q", res.Issues[0].Message)
	}
}

func TestSanitizeDefaults(t *testing.T) {
	prev := SetColorFunc(func() string { return "#85C1E9" })
	defer SetColorFunc(prev)

	tt := &Timetable{
		Name: "  My Week  ",
		Subjects: []Subject{
			{Name: "Design Thinking"},
		},
		Schedule: []DaySchedule{
			{Day: "Monday", Periods: []Period{
				{Subject: "Design Thinking", StartTime: "09:00", EndTime: "10:00", Section: " "},
			}},
		},
	}

	res := Validate(tt)
	if !res.Valid {
		t.Fatalf("unexpected issues: %v", res.Messages())
	}

	out := res.Sanitized
	if out.Name != "My Week" {
		t.Errorf("Name = %q", out.Name)
	}
	s := out.Subjects[0]
	if s.Code != "DESIGN_THINKING" || s.Type != TypeLecture || s.Color != "#85C1E9" {
		t.Errorf("subject defaults = %+v", s)
	}
	p := out.Schedule[0].Periods[0]
	if p.Type != TypeLecture || p.Section != "All" {
		t.Errorf("period defaults = %+v", p)
	}

	// input untouched
	if tt.Subjects[0].Code != "" || tt.Name != "  My Week  " {
		t.Error("sanitize mutated its input")
	}
}
