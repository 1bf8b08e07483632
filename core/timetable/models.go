package timetable

import (
	"strings"
	"time"
)

// Class types
const (
	TypeLecture   = "Lecture"
	TypePractical = "Practical"
	TypeTutorial  = "Tutorial"
	TypeBoth      = "Both"
)

var ClassTypes = []string{TypeLecture, TypePractical, TypeTutorial, TypeBoth}

// Days are the canonical day names, in week order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// IsDay reports whether `s` is a canonical day name.
func IsDay(s string) bool {
	for _, d := range Days {
		if s == d {
			return true
		}
	}
	return false
}

// matchDay maps a free-form day value onto its canonical name; ok is false when it matches none.
func matchDay(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Days {
		if strings.EqualFold(s, d) {
			return d, true
		}
	}
	return "", false
}

type (
	// Subject is one teachable unit. Subjects are unique by (Name, Type):
	// the same name with two different types is two distinct subjects.
	Subject struct {
		Name    string `json:"name"`
		Code    string `json:"code,omitempty"`
		Type    string `json:"type"`
		Color   string `json:"color,omitempty"`
		Teacher string `json:"teacher,omitempty"`
		Room    string `json:"room,omitempty"`
	}

	// Period is one slot in a day; Subject references a Subject.Name.
	Period struct {
		Subject   string `json:"subject"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime,omitempty"`
		Room      string `json:"room,omitempty"`
		Type      string `json:"type,omitempty"`
		Section   string `json:"section,omitempty"`
	}

	// DaySchedule holds the periods of one day, in input order.
	// Days with zero periods are omitted from a Timetable, not zero-filled.
	DaySchedule struct {
		Day     string   `json:"day"`
		Periods []Period `json:"periods"`
	}

	Timetable struct {
		ID           string        `json:"id,omitempty"`
		OwnerID      string        `json:"owner_id,omitempty"`
		Name         string        `json:"name"`
		Semester     string        `json:"semester,omitempty"`
		AcademicYear string        `json:"academicYear,omitempty"`
		Subjects     []Subject     `json:"subjects"`
		Schedule     []DaySchedule `json:"schedule"`
		// Draft marks OCR-imported timetables awaiting user review.
		Draft     bool      `json:"draft,omitempty"`
		CreatedAt time.Time `json:"created_at,omitempty"` // UTC
		UpdatedAt time.Time `json:"updated_at,omitempty"` // UTC
	}
)

// subjectKey is the uniqueness key of a Subject within a Timetable.
func subjectKey(name, typ string) string {
	return name + "_" + typ
}

// deriveCode builds a subject code from its name: uppercased, spaces to underscores.
func deriveCode(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// FindSubject returns the subject with the given name, if any.
func (tt *Timetable) FindSubject(name string) (Subject, bool) {
	for _, s := range tt.Subjects {
		if s.Name == name {
			return s, true
		}
	}
	return Subject{}, false
}
