package timetable

import (
	"fmt"
	"strings"
)

// Candidate key names per attribute, tried in order; the first present,
// non-empty value wins and later candidates are ignored.
var (
	nameKeys    = []string{"subject", "name", "course", "courseName", "subjectName", "title"}
	typeKeys    = []string{"type", "classType", "category"}
	facultyKeys = []string{"faculty", "teacher", "instructor", "professor", "staff"}
	roomKeys    = []string{"room", "venue", "location", "hall", "classroom"}
	codeKeys    = []string{"code", "courseCode", "subjectCode"}
	sectionKeys = []string{"section", "batch", "group"}

	startKeys = []string{"startTime", "time", "start"}
	endKeys   = []string{"endTime", "end"}

	dayKeys = []string{"day", "name", "dayName"}
)

// typeAliases maps loose class-type spellings onto the canonical enum.
var typeAliases = map[string]string{
	"l":         TypeLecture,
	"lecture":   TypeLecture,
	"p":         TypePractical,
	"practical": TypePractical,
	"lab":       TypePractical,
	"t":         TypeTutorial,
	"tutorial":  TypeTutorial,
	"l+p":       TypeBoth,
	"both":      TypeBoth,
}

// classInfo is the canonical field set extracted from one class/period-like record.
type classInfo struct {
	name    string
	typ     string
	faculty string
	room    string
	code    string
	section string
}

// extractClassInfo pulls the canonical fields out of a record of unknown shape.
// Pure; absent attributes yield empty strings, never a crash.
func extractClassInfo(rec map[string]interface{}) classInfo {
	return classInfo{
		name:    firstString(rec, nameKeys),
		typ:     normalizeType(firstString(rec, typeKeys)),
		faculty: firstString(rec, facultyKeys),
		room:    firstString(rec, roomKeys),
		code:    firstString(rec, codeKeys),
		section: firstString(rec, sectionKeys),
	}
}

// normalizeType maps a raw class-type value onto the enum; unrecognized or
// absent values default to Lecture.
func normalizeType(raw string) string {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return TypeLecture
}

// firstString walks the candidate keys and returns the first present,
// non-empty string value.
func firstString(rec map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if s, ok := v.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// firstRaw is firstString for values that may also arrive as JSON numbers
// (time fields in particular).
func firstRaw(rec map[string]interface{}, keys []string) string {
	for _, k := range keys {
		switch v := rec[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strings.TrimSuffix(fmt.Sprintf("%v", v), ".0")
		}
	}
	return ""
}
