package timetable

import (
	"regexp"
	"strings"
)

var (
	hhmmRegex      = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	timeTokenRegex = regexp.MustCompile(`(\d{1,2})\D?(\d{2})?`)
)

// NormalizeTime coerces a raw time value into zero-padded 24-hour "HH:MM".
// Empty input yields empty output. Input that contains no digits at all is
// returned trimmed but otherwise verbatim; rejecting garbage is the
// validator's job, never this function's. No AM/PM disambiguation is done:
// 12-hour suffixes are ignored and hours taken literally.
func NormalizeTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if hhmmRegex.MatchString(s) {
		return s
	}

	m := timeTokenRegex.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	hh := m[1]
	if len(hh) == 1 {
		hh = "0" + hh
	}
	mm := m[2]
	if mm == "" {
		mm = "00"
	}
	return hh + ":" + mm
}

// minuteOfDay converts a strict "HH:MM" string to minutes since midnight.
// ok is false when the value is not a valid zero-padded 24-hour time.
func minuteOfDay(s string) (int, bool) {
	if !hhmmRegex.MatchString(s) {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m, true
}
