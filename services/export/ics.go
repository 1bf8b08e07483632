package exportsvc

import (
	"bytes"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core/timetable"
)

// mocked in tests
var nowFunc func() time.Time = time.Now

var byDayCodes = map[string]string{
	"Monday":    "MO",
	"Tuesday":   "TU",
	"Wednesday": "WE",
	"Thursday":  "TH",
	"Friday":    "FR",
	"Saturday":  "SA",
	"Sunday":    "SU",
}

// ICS renders the timetable as an iCalendar feed with one weekly-recurring
// event per period. weekStart anchors the recurrence: it must be the Monday
// of the first week the events apply to. Periods without an end time get a
// one hour default duration; periods whose start time cannot be parsed are
// skipped.
func ICS(tt *timetable.Timetable, weekStart time.Time) (*bytes.Buffer, string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	now := nowFunc().UTC()
	for _, ds := range tt.Schedule {
		offset := dayOffset(ds.Day)
		if offset < 0 {
			continue
		}
		date := weekStart.AddDate(0, 0, offset)

		for _, p := range ds.Periods {
			start, ok := periodTime(date, p.StartTime)
			if !ok {
				continue
			}
			end, ok := periodTime(date, p.EndTime)
			if !ok || !end.After(start) {
				end = start.Add(time.Hour)
			}

			evt := cal.AddEvent(uuid.New().String() + "@ratiba")
			evt.SetDtStampTime(now)
			evt.SetStartAt(start)
			evt.SetEndAt(end)
			evt.SetSummary(eventSummary(p))
			if room := eventRoom(tt, p); room != "" {
				evt.SetLocation(room)
			}
			if desc := eventDescription(tt, p); desc != "" {
				evt.SetDescription(desc)
			}
			evt.AddRrule("FREQ=WEEKLY;BYDAY=" + byDayCodes[ds.Day])
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, exportFilename(tt.Name, "ics"), nil
}

func dayOffset(day string) int {
	for i, d := range timetable.Days {
		if d == day {
			return i
		}
	}
	return -1
}

func periodTime(date time.Time, hhmm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), true
}

func eventSummary(p timetable.Period) string {
	if p.Type != "" && p.Type != timetable.TypeLecture {
		return p.Subject + " (" + p.Type + ")"
	}
	return p.Subject
}

func eventRoom(tt *timetable.Timetable, p timetable.Period) string {
	if p.Room != "" {
		return p.Room
	}
	if subj, ok := tt.FindSubject(p.Subject); ok {
		return subj.Room
	}
	return ""
}

func eventDescription(tt *timetable.Timetable, p timetable.Period) string {
	parts := make([]string, 0, 2)
	if subj, ok := tt.FindSubject(p.Subject); ok && subj.Teacher != "" {
		parts = append(parts, "Teacher: "+subj.Teacher)
	}
	if p.Section != "" && p.Section != "All" {
		parts = append(parts, "Section: "+p.Section)
	}
	return strings.Join(parts, "\\n")
}
