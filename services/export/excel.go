package exportsvc

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/ratiba/core/timetable"
)

// Excel renders the timetable as a weekly grid workbook: one row per time
// slot, one column per scheduled day. It returns the file contents and a
// suggested filename.
func Excel(tt *timetable.Timetable) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(tt.Name)
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", errors.Wrap(err, "creating sheet")
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	days := scheduledDays(tt)
	slots := timeSlots(tt)

	_ = f.SetColWidth(sheet, "A", "A", 14)
	for i := range days {
		col, _ := excelize.ColumnNumberToName(2 + i)
		_ = f.SetColWidth(sheet, col, col, 24)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// Title row, merged across the grid.
	title := tt.Name
	if tt.Semester != "" {
		title += fmt.Sprintf(" (%s %s)", tt.Semester, tt.AcademicYear)
	}
	_ = f.SetCellValue(sheet, "A1", strings.TrimSpace(title))
	lastCol, _ := excelize.ColumnNumberToName(1 + len(days))
	_ = f.MergeCell(sheet, "A1", lastCol+"1")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// Header row.
	_ = f.SetCellValue(sheet, "A2", "Time")
	for i, day := range days {
		col, _ := excelize.ColumnNumberToName(2 + i)
		_ = f.SetCellValue(sheet, col+"2", day)
	}
	_ = f.SetCellStyle(sheet, "A2", lastCol+"2", headerStyle)

	// Index periods by (day, slot). Clashing periods in the same slot are
	// stacked in one cell.
	cells := make(map[string][]string)
	for _, ds := range tt.Schedule {
		for _, p := range ds.Periods {
			key := ds.Day + "|" + slotLabel(p)
			cells[key] = append(cells[key], cellText(tt, p))
		}
	}

	row := 3
	for _, slot := range slots {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), slot)
		for i, day := range days {
			col, _ := excelize.ColumnNumberToName(2 + i)
			if texts, ok := cells[day+"|"+slot]; ok {
				_ = f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), strings.Join(texts, "\n"))
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", errors.Wrap(err, "writing workbook")
	}
	return buf, exportFilename(tt.Name, "xlsx"), nil
}

// sheetName clips the timetable name to Excel's 31-char sheet name limit.
func sheetName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Timetable"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// scheduledDays returns the days present in the schedule, in week order.
func scheduledDays(tt *timetable.Timetable) []string {
	seen := make(map[string]bool, len(tt.Schedule))
	for _, ds := range tt.Schedule {
		seen[ds.Day] = true
	}
	days := make([]string, 0, len(seen))
	for _, d := range timetable.Days {
		if seen[d] {
			days = append(days, d)
		}
	}
	return days
}

// timeSlots collects the unique period slots across all days, earliest first.
func timeSlots(tt *timetable.Timetable) []string {
	seen := make(map[string]bool)
	slots := make([]string, 0)
	for _, ds := range tt.Schedule {
		for _, p := range ds.Periods {
			if slot := slotLabel(p); !seen[slot] {
				seen[slot] = true
				slots = append(slots, slot)
			}
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		ti, iok := slotStart(slots[i])
		tj, jok := slotStart(slots[j])
		if iok != jok {
			return iok
		}
		if iok && !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return slots[i] < slots[j]
	})
	return slots
}

func slotLabel(p timetable.Period) string {
	if p.EndTime == "" {
		return p.StartTime
	}
	return p.StartTime + " - " + p.EndTime
}

func slotStart(slot string) (time.Time, bool) {
	start := slot
	if i := strings.Index(slot, " - "); i >= 0 {
		start = slot[:i]
	}
	t, err := time.Parse("15:04", start)
	return t, err == nil
}

func cellText(tt *timetable.Timetable, p timetable.Period) string {
	text := p.Subject
	if p.Type != "" && p.Type != timetable.TypeLecture {
		text += " (" + p.Type + ")"
	}
	room := p.Room
	if room == "" {
		if subj, ok := tt.FindSubject(p.Subject); ok {
			room = subj.Room
		}
	}
	if room != "" {
		text += " @ " + room
	}
	return text
}

func exportFilename(name, ext string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "timetable"
	}
	return strings.ReplaceAll(name, " ", "_") + "." + ext
}
