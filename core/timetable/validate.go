package timetable

import (
	"fmt"
	"regexp"
	"strings"
)

// IssueKind tags a structural validation issue; message text stays the
// user-facing contract.
type IssueKind string

const (
	KindInvalidStructure   IssueKind = "invalid_structure"
	KindMissingField       IssueKind = "missing_field"
	KindInvalidEnum        IssueKind = "invalid_enum"
	KindInvalidTimeFormat  IssueKind = "invalid_time_format"
	KindTimeOrderViolation IssueKind = "time_order_violation"
	KindDanglingReference  IssueKind = "dangling_reference"
)

type (
	Issue struct {
		Kind    IssueKind `json:"kind"`
		Message string    `json:"message"`
	}

	// ValidationResult aggregates all violations found in one pass.
	// Sanitized is populated only when Issues is empty: callers never get a
	// partially-sanitized timetable.
	ValidationResult struct {
		Valid     bool       `json:"valid"`
		Issues    []Issue    `json:"errors"`
		Sanitized *Timetable `json:"sanitized,omitempty"`
	}
)

// Messages flattens the issues to their display strings.
func (r ValidationResult) Messages() []string {
	msgs := make([]string, 0, len(r.Issues))
	for _, iss := range r.Issues {
		msgs = append(msgs, iss.Message)
	}
	return msgs
}

var colorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// Validate checks a canonical timetable for structural soundness,
// accumulating every violation instead of failing fast. It never errors;
// garbage in yields issues out.
func Validate(tt *Timetable) ValidationResult {
	res := ValidationResult{}
	report := func(kind IssueKind, format string, args ...interface{}) {
		res.Issues = append(res.Issues, Issue{Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	if tt == nil {
		report(KindInvalidStructure, "timetable is required")
		return res
	}
	if len(tt.Subjects) == 0 {
		report(KindInvalidStructure, "subjects must be a non-empty list")
	}

	names := make(map[string]bool, len(tt.Subjects))
	for i, s := range tt.Subjects {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			report(KindMissingField, "subject %d: name is required", i+1)
			continue
		}
		names[name] = true

		if s.Type != "" && !isClassType(s.Type) {
			report(KindInvalidEnum, "subject %q: invalid type %q", name, s.Type)
		}
		if s.Color != "" && !colorRegex.MatchString(s.Color) {
			report(KindInvalidEnum, "subject %q: invalid color %q", name, s.Color)
		}
	}

	for i, day := range tt.Schedule {
		if !IsDay(day.Day) {
			report(KindInvalidEnum, "schedule entry %d: invalid day %q", i+1, day.Day)
		}
		for j, p := range day.Periods {
			where := fmt.Sprintf("%s period %d", day.Day, j+1)

			subject := strings.TrimSpace(p.Subject)
			if subject == "" {
				report(KindMissingField, "%s: subject is required", where)
			} else if !names[subject] {
				// reported per-occurrence, not deduplicated
				report(KindDanglingReference, "%s: unknown subject %q", where, subject)
			}

			start, startOK := minuteOfDay(p.StartTime)
			if !startOK {
				report(KindInvalidTimeFormat, "%s: invalid start time %q", where, p.StartTime)
			}
			end, endOK := minuteOfDay(p.EndTime)
			if !endOK {
				report(KindInvalidTimeFormat, "%s: invalid end time %q", where, p.EndTime)
			}
			if startOK && endOK && end <= start {
				report(KindTimeOrderViolation, "%s: end time %q must be after start time %q", where, p.EndTime, p.StartTime)
			}
		}
	}

	if len(res.Issues) > 0 {
		return res
	}
	res.Valid = true
	res.Sanitized = sanitize(tt)
	return res
}

func isClassType(t string) bool {
	for _, ct := range ClassTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// sanitize returns a trimmed, defaults-filled deep copy. Only called on a
// timetable that validated clean.
func sanitize(tt *Timetable) *Timetable {
	out := &Timetable{
		ID:           tt.ID,
		OwnerID:      tt.OwnerID,
		Name:         strings.TrimSpace(tt.Name),
		Semester:     strings.TrimSpace(tt.Semester),
		AcademicYear: strings.TrimSpace(tt.AcademicYear),
		Draft:        tt.Draft,
		CreatedAt:    tt.CreatedAt,
		UpdatedAt:    tt.UpdatedAt,
	}
	if out.Name == "" {
		out.Name = "Imported Timetable"
	}

	out.Subjects = make([]Subject, 0, len(tt.Subjects))
	for _, s := range tt.Subjects {
		s.Name = strings.TrimSpace(s.Name)
		s.Code = strings.TrimSpace(s.Code)
		if s.Code == "" {
			s.Code = deriveCode(s.Name)
		}
		if s.Type == "" {
			s.Type = TypeLecture
		}
		if s.Color == "" {
			s.Color = colorFn()
		}
		s.Teacher = strings.TrimSpace(s.Teacher)
		s.Room = strings.TrimSpace(s.Room)
		out.Subjects = append(out.Subjects, s)
	}

	out.Schedule = make([]DaySchedule, 0, len(tt.Schedule))
	for _, day := range tt.Schedule {
		ds := DaySchedule{Day: day.Day, Periods: make([]Period, 0, len(day.Periods))}
		for _, p := range day.Periods {
			p.Subject = strings.TrimSpace(p.Subject)
			p.Room = strings.TrimSpace(p.Room)
			if p.Type == "" {
				p.Type = TypeLecture
			}
			if strings.TrimSpace(p.Section) == "" {
				p.Section = "All"
			}
			ds.Periods = append(ds.Periods, p)
		}
		out.Schedule = append(out.Schedule, ds)
	}
	return out
}
