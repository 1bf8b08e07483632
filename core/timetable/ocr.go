package timetable

import (
	"regexp"
	"sort"
	"strings"
)

// The OCR path trades accuracy for resilience: whatever the text looks like,
// it returns *some* grid for the user to review and edit. It never fails.

type (
	// OCRCell is one recovered (day, time) assignment.
	OCRCell struct {
		Subject string `json:"subject"`
		Type    string `json:"type"`
		Faculty string `json:"faculty"`
		Room    string `json:"room"`
	}

	// OCRGrid maps day -> time -> cell.
	OCRGrid map[string]map[string]OCRCell

	ocrSubject struct {
		name string
		typ  string
	}
)

var (
	ocrTimeRegex = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)

	// WORD(S) followed by a single-letter class-type suffix, e.g. "DBMS L",
	// "SOFTWARE ENGINEERING P", "TOC (T)".
	ocrSuffixRegex = regexp.MustCompile(`\b([A-Z]{2,}(?:\s+[A-Z]{2,})*)\s*\(?([LPT])\)?(?:\s|$|[,.;])`)

	// compound all-caps name glued to an L/Lab suffix, e.g. "DBMS_Lab", "CN-L".
	ocrCompoundRegex = regexp.MustCompile(`\b([A-Z]{2,}(?:_[A-Z]+)*)[-_\s]?(?:Lab|LAB)\b`)

	ocrFacultyRegex = regexp.MustCompile(`\b(?:Pf|Dr)\.\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

	ocrRoomRegex = regexp.MustCompile(`\b(S-\d{3}|[A-Z]{1,3}-?\d{3}|[A-Za-z]+_Lab)\b`)

	// common OCR confusions: a lowercase l standing alone or glued to digits
	// is a 1, an O likewise a 0
	ocrLoneElRegex  = regexp.MustCompile(`\bl\b`)
	ocrLoneOhRegex  = regexp.MustCompile(`\bO\b`)
	ocrGluedElRegex = regexp.MustCompile(`\bl(\d)`)
	ocrGluedOhRegex = regexp.MustCompile(`(\d)O\b`)
	ocrDotTimeRegex = regexp.MustCompile(`\b(\d{1,2})\.(\d{2})\b`)
	ocrSpacesRegex  = regexp.MustCompile(`[ \t]+`)

	ocrTypeSuffixes = map[string]string{
		"L": TypeLecture,
		"P": TypePractical,
		"T": TypeTutorial,
	}

	// teacher-initial codes that the suffix pattern must not mistake for subjects
	ocrInitialDenylist = map[string]bool{
		"PF": true, "DR": true, "MR": true, "MS": true, "PROF": true,
	}

	// known subject abbreviations checked for literal presence
	ocrKnownSubjects = []string{"DBMS", "OOPS", "DSA", "TOC", "DAA", "CN", "OS", "ML", "AI", "SE"}

	// multi-word subject that no regex heuristic catches
	ocrSpecialSubject = "Design Thinking"
)

// ParseOCRText turns noisy OCR output into a day/time grid of best-effort
// cell assignments. Cells are not guaranteed correct, only populated; the
// caller always wants something editable back, never an error.
func ParseOCRText(raw string) OCRGrid {
	text := cleanOCRText(raw)

	// text sectioned by standalone day-header lines is parsed line by line;
	// anything else goes through the cyclic grid heuristic
	if hasDayHeaderLines(text) {
		if grid := parseOCRLines(text); len(grid) > 0 {
			return grid
		}
	}

	times := extractOCRTimes(text)
	subjects := extractOCRSubjects(text)
	faculty := ocrFacultyRegex.FindAllString(text, -1)
	rooms := extractOCRRooms(text)
	days := extractOCRDays(text)

	if len(days) == 0 {
		days = []string{"Monday"}
	}
	if len(times) == 0 {
		times = []string{"09:00"}
	}
	if len(subjects) == 0 {
		subjects = []ocrSubject{{name: "Class", typ: TypeLecture}}
	}

	grid := make(OCRGrid, len(days))
	assignments := 0
	for di, day := range days {
		row := make(map[string]OCRCell, len(times))
		for ti, tm := range times {
			subj := subjects[(di*len(times)+ti)%len(subjects)]

			cell := OCRCell{Subject: subj.name, Type: subj.typ, Faculty: "TBA", Room: "TBA"}
			if len(faculty) > 0 {
				cell.Faculty = faculty[(assignments/2)%len(faculty)]
			}
			if len(rooms) > 0 {
				cell.Room = rooms[(assignments/3)%len(rooms)]
			}
			row[tm] = cell
			assignments++
		}
		grid[day] = row
	}
	return grid
}

// cleanOCRText normalizes typography and common OCR confusions while keeping
// line structure for the fallback parser.
func cleanOCRText(raw string) string {
	r := strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
		"–", "-", "—", "-",
	)
	text := r.Replace(raw)
	text = ocrLoneElRegex.ReplaceAllString(text, "1")
	text = ocrLoneOhRegex.ReplaceAllString(text, "0")
	text = ocrGluedElRegex.ReplaceAllString(text, "1$1")
	text = ocrGluedOhRegex.ReplaceAllString(text, "${1}0")
	text = ocrDotTimeRegex.ReplaceAllString(text, "$1:$2")
	text = ocrSpacesRegex.ReplaceAllString(text, " ")
	return text
}

// extractOCRTimes collects all HH:MM tokens, deduplicated and sorted
// lexicographically (chronological only for zero-padded tokens).
func extractOCRTimes(text string) []string {
	seen := make(map[string]bool)
	var times []string
	for _, tok := range ocrTimeRegex.FindAllString(text, -1) {
		tok = NormalizeTime(tok)
		if !seen[tok] {
			seen[tok] = true
			times = append(times, tok)
		}
	}
	sort.Strings(times)
	return times
}

// extractOCRSubjects unions three independent heuristics into one subject
// set, preserving discovery order.
func extractOCRSubjects(text string) []ocrSubject {
	seen := make(map[string]bool)
	var subjects []ocrSubject
	add := func(name, typ string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		subjects = append(subjects, ocrSubject{name: name, typ: typ})
	}

	// (a) word(s) + single-letter type suffix, skipping teacher initials
	for _, m := range ocrSuffixRegex.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if ocrInitialDenylist[name] {
			continue
		}
		add(name, ocrTypeSuffixes[m[2]])
	}

	// (b) compound caps + Lab suffix
	for _, m := range ocrCompoundRegex.FindAllStringSubmatch(text, -1) {
		if !ocrInitialDenylist[m[1]] {
			add(m[1], TypePractical)
		}
	}

	// (c) known abbreviations by literal presence
	for _, known := range ocrKnownSubjects {
		if strings.Contains(text, known) {
			add(known, TypeLecture)
		}
	}
	if strings.Contains(text, ocrSpecialSubject) {
		add(ocrSpecialSubject, TypeLecture)
	}

	return subjects
}

func extractOCRRooms(text string) []string {
	seen := make(map[string]bool)
	var rooms []string
	for _, tok := range ocrRoomRegex.FindAllString(text, -1) {
		if !seen[tok] {
			seen[tok] = true
			rooms = append(rooms, tok)
		}
	}
	return rooms
}

// extractOCRDays checks the 7 canonical day names for substring presence.
func extractOCRDays(text string) []string {
	lower := strings.ToLower(text)
	var days []string
	for _, day := range Days {
		if strings.Contains(lower, strings.ToLower(day)) {
			days = append(days, day)
		}
	}
	return days
}

// hasDayHeaderLines reports whether any line consists of nothing but a
// canonical day name.
func hasDayHeaderLines(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, day := range Days {
			if strings.EqualFold(line, day) {
				return true
			}
		}
	}
	return false
}

// parseOCRLines handles day-sectioned text: a line containing a day name
// opens a day section, and each subsequent line with a time token becomes a
// data row. Type, room and faculty substrings are split off the remainder;
// whatever is left is the subject name.
func parseOCRLines(text string) OCRGrid {
	grid := make(OCRGrid)
	currentDay := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if day, ok := lineDay(line); ok {
			currentDay = day
			if _, ok := grid[currentDay]; !ok {
				grid[currentDay] = make(map[string]OCRCell)
			}
			continue
		}
		if currentDay == "" {
			continue
		}

		tok := ocrTimeRegex.FindString(line)
		if tok == "" {
			continue
		}
		rest := strings.Replace(line, tok, "", 1)

		cell := OCRCell{Type: TypeLecture, Faculty: "TBA", Room: "TBA"}
		if m := ocrFacultyRegex.FindString(rest); m != "" {
			cell.Faculty = m
			rest = strings.Replace(rest, m, "", 1)
		}
		if m := ocrRoomRegex.FindString(rest); m != "" {
			cell.Room = m
			rest = strings.Replace(rest, m, "", 1)
		}
		if m := ocrSuffixRegex.FindStringSubmatch(rest); m != nil && !ocrInitialDenylist[m[1]] {
			cell.Subject = m[1]
			cell.Type = ocrTypeSuffixes[m[2]]
			rest = strings.Replace(rest, m[0], "", 1)
		}
		if cell.Subject == "" {
			cell.Subject = strings.Trim(strings.TrimSpace(rest), "-–,.;|")
		}
		if cell.Subject == "" {
			cell.Subject = "Class"
		}
		grid[currentDay][NormalizeTime(tok)] = cell
	}

	// drop day headers that gathered no rows
	for day, row := range grid {
		if len(row) == 0 {
			delete(grid, day)
		}
	}
	return grid
}

func lineDay(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, day := range Days {
		if strings.Contains(lower, strings.ToLower(day)) {
			return day, true
		}
	}
	return "", false
}

// Timetable converts a grid into a draft canonical timetable for user review.
func (grid OCRGrid) Timetable(name string) *Timetable {
	tt := &Timetable{Name: name, Draft: true}
	if tt.Name == "" {
		tt.Name = "Scanned Timetable"
	}
	set := newSubjectSet()

	for _, day := range Days {
		row, ok := grid[day]
		if !ok || len(row) == 0 {
			continue
		}
		times := make([]string, 0, len(row))
		for tm := range row {
			times = append(times, tm)
		}
		sort.Strings(times)

		ds := DaySchedule{Day: day}
		for _, tm := range times {
			cell := row[tm]
			info := classInfo{name: cell.Subject, typ: cell.Type, faculty: cell.Faculty, room: cell.Room}
			set.add(info)
			ds.Periods = append(ds.Periods, newPeriod(info, tm, ""))
		}
		tt.Schedule = append(tt.Schedule, ds)
	}
	tt.Subjects = set.order
	return tt
}
