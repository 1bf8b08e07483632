package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/timetable"
)

type (
	// Record is one attendance mark: a user either attended or missed one
	// period of one timetable on a given date.
	Record struct {
		ID          string    `json:"id"`
		OwnerID     string    `json:"owner_id"`
		TimetableID string    `json:"timetable_id"`
		Subject     string    `json:"subject"`
		Day         string    `json:"day"`
		PeriodIndex int       `json:"period_index"`
		Date        time.Time `json:"date"` // UTC, date part only
		Present     bool      `json:"present"`
		CreatedAt   time.Time `json:"created_at"` // UTC
		UpdatedAt   time.Time `json:"updated_at"` // UTC
	}

	// SubjectStats aggregates a user's attendance for one subject.
	SubjectStats struct {
		Subject    string  `json:"subject"`
		Attended   int     `json:"attended"`
		Total      int     `json:"total"`
		Percentage float64 `json:"percentage"`
	}
)

// MarkAttendance contains information needed to record an attendance mark.
type MarkAttendance struct {
	TimetableID string `json:"timetable_id" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Day         string `json:"day" validate:"required"`
	PeriodIndex int    `json:"period_index" validate:"gte=0"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Present     bool   `json:"present"`
}

func (ma *MarkAttendance) Validate(validate *validator.Validate) error {
	ma.Subject = core.CleanString(ma.Subject)
	ma.Day = core.CleanString(ma.Day)

	if err := validate.Struct(ma); err != nil {
		return err
	}
	if !timetable.IsDay(ma.Day) {
		return core.NewValidationError(nil, core.FieldError{Field: "day", Error: "invalid day"})
	}
	return nil
}

// ParsedDate returns the mark's date, defaulting to today (UTC) when absent.
func (ma *MarkAttendance) ParsedDate() time.Time {
	if ma.Date == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	d, _ := time.Parse("2006-01-02", ma.Date)
	return d
}
