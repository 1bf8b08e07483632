package timetable

import (
	"sort"
	"strconv"
	"time"
)

// FormatError is returned when the dispatcher recognizes none of the
// supported input shapes. It is the one error callers of Parse must expect.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "unrecognized timetable format: " + e.Reason
}

// Parse coerces an arbitrary decoded-JSON value into a canonical Timetable.
//
// Detection priority:
//  1. a `timetable` wrapper key is unwrapped first;
//  2. `subjects`/`subject` present        -> standard format;
//  3. an array whose first element has a day and periods/classes -> array-of-days,
//     any other array                     -> flat list;
//  4. any canonical day name as a direct key -> time-slot format;
//  5. otherwise *FormatError.
//
// Detectors do not enforce referential integrity or time ordering; they may
// emit dangling subject references. That is the structural validator's job.
func Parse(data interface{}) (*Timetable, error) {
	outer, _ := data.(map[string]interface{})

	actual := data
	if outer != nil {
		switch wrapped := outer["timetable"].(type) {
		case map[string]interface{}:
			actual = wrapped
		case []interface{}:
			actual = wrapped
		}
	}

	tt := &Timetable{
		Name:         metaString(outer, actual, "name", "Imported Timetable"),
		Semester:     metaString(outer, actual, "semester", "Current"),
		AcademicYear: metaString(outer, actual, "academicYear", strconv.Itoa(time.Now().Year())),
	}
	set := newSubjectSet()

	switch v := actual.(type) {
	case map[string]interface{}:
		if subjects := rawList(v, "subjects", "subject"); subjects != nil {
			parseStandard(v, subjects, tt, set)
			return tt, nil
		}
		if hasDayKey(v) {
			parseTimeSlots(v, tt, set)
			return tt, nil
		}
		return nil, &FormatError{Reason: "object has neither subjects nor day-name keys"}

	case []interface{}:
		if isDayArray(v) {
			parseDayArray(v, tt, set)
		} else {
			parseFlatList(v, tt, set)
		}
		return tt, nil
	}

	return nil, &FormatError{Reason: "input is neither an object nor an array"}
}

// metaString reads a metadata field from the outer object first, then the
// unwrapped one, then falls back to a default.
func metaString(outer interface{}, actual interface{}, key, dflt string) string {
	if m, ok := outer.(map[string]interface{}); ok {
		if s := firstString(m, []string{key}); s != "" {
			return s
		}
	}
	if m, ok := actual.(map[string]interface{}); ok {
		if s := firstString(m, []string{key}); s != "" {
			return s
		}
	}
	return dflt
}

func hasDayKey(m map[string]interface{}) bool {
	for _, day := range Days {
		if _, ok := m[day]; ok {
			return true
		}
	}
	return false
}

func isDayArray(arr []interface{}) bool {
	if len(arr) == 0 {
		return false
	}
	first, ok := arr[0].(map[string]interface{})
	if !ok {
		return false
	}
	if _, ok := first["day"]; !ok {
		return false
	}
	return rawList(first, "periods", "classes") != nil
}

// rawList returns the first of the named keys holding an array.
func rawList(m map[string]interface{}, keys ...string) []interface{} {
	for _, k := range keys {
		if arr, ok := m[k].([]interface{}); ok {
			return arr
		}
	}
	return nil
}

// subjectSet accumulates subjects keyed by name+type; the first occurrence
// wins, later duplicates never overwrite already-set metadata.
type subjectSet struct {
	seen  map[string]bool
	order []Subject
}

func newSubjectSet() *subjectSet {
	return &subjectSet{seen: make(map[string]bool)}
}

func (set *subjectSet) add(info classInfo) {
	if info.name == "" {
		return
	}
	key := subjectKey(info.name, info.typ)
	if set.seen[key] {
		return
	}
	set.seen[key] = true

	code := info.code
	if code == "" {
		code = deriveCode(info.name)
	}
	set.order = append(set.order, Subject{
		Name:    info.name,
		Code:    code,
		Type:    info.typ,
		Color:   colorFn(),
		Teacher: info.faculty,
		Room:    info.room,
	})
}

// addRaw registers an already subject-shaped record (standard format path).
func (set *subjectSet) addRaw(rec map[string]interface{}) {
	info := extractClassInfo(rec)
	if info.name == "" {
		return
	}
	key := subjectKey(info.name, info.typ)
	if set.seen[key] {
		return
	}
	set.seen[key] = true

	code := info.code
	if code == "" {
		code = deriveCode(info.name)
	}
	color := firstString(rec, []string{"color"})
	if color == "" {
		color = colorFn()
	}
	set.order = append(set.order, Subject{
		Name:    info.name,
		Code:    code,
		Type:    info.typ,
		Color:   color,
		Teacher: info.faculty,
		Room:    info.room,
	})
}

// newPeriod builds a Period from extracted fields, applying defaults.
func newPeriod(info classInfo, start, end string) Period {
	section := info.section
	if section == "" {
		section = "All"
	}
	return Period{
		Subject:   info.name,
		StartTime: NormalizeTime(start),
		EndTime:   NormalizeTime(end),
		Room:      info.room,
		Type:      info.typ,
		Section:   section,
	}
}

// parseTimeSlots handles input keyed by day name, then by time-slot string.
// Days are walked in canonical week order, not input order. Slot keys are
// sorted lexicographically; for zero-padded keys this matches chronological
// order.
func parseTimeSlots(m map[string]interface{}, tt *Timetable, set *subjectSet) {
	for _, day := range Days {
		dayVal, ok := m[day].(map[string]interface{})
		if !ok {
			continue
		}

		slots := make([]string, 0, len(dayVal))
		for slot := range dayVal {
			slots = append(slots, slot)
		}
		sort.Strings(slots)

		var periods []Period
		for _, slot := range slots {
			for _, rec := range asRecords(dayVal[slot]) {
				info := extractClassInfo(rec)
				if info.name == "" {
					continue
				}
				set.add(info)
				periods = append(periods, newPeriod(info, slot, firstRaw(rec, endKeys)))
			}
		}
		if len(periods) > 0 {
			tt.Schedule = append(tt.Schedule, DaySchedule{Day: day, Periods: periods})
		}
	}
	tt.Subjects = set.order
}

// parseDayArray handles an array of {day, periods|classes} objects.
// Elements without a recognizable canonical day are skipped.
func parseDayArray(arr []interface{}, tt *Timetable, set *subjectSet) {
	for _, elem := range arr {
		rec, ok := elem.(map[string]interface{})
		if !ok {
			continue
		}
		day, ok := matchDay(firstString(rec, dayKeys))
		if !ok {
			continue
		}

		var periods []Period
		for _, p := range rawList(rec, "periods", "classes", "schedule") {
			prec, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			info := extractClassInfo(prec)
			if info.name == "" {
				continue
			}
			set.add(info)
			periods = append(periods, newPeriod(info, firstRaw(prec, startKeys), firstRaw(prec, endKeys)))
		}
		if len(periods) > 0 {
			tt.Schedule = append(tt.Schedule, DaySchedule{Day: day, Periods: periods})
		}
	}
	tt.Subjects = set.order
}

// parseFlatList handles an array of period-like records each carrying its own
// day field; days are grouped preserving first-seen order.
func parseFlatList(arr []interface{}, tt *Timetable, set *subjectSet) {
	byDay := make(map[string]int) // day -> index into tt.Schedule
	for _, elem := range arr {
		rec, ok := elem.(map[string]interface{})
		if !ok {
			continue
		}
		day, ok := matchDay(firstString(rec, []string{"day", "dayName"}))
		if !ok {
			continue
		}
		info := extractClassInfo(rec)
		if info.name == "" {
			continue
		}
		set.add(info)
		period := newPeriod(info, firstRaw(rec, startKeys), firstRaw(rec, endKeys))

		idx, ok := byDay[day]
		if !ok {
			idx = len(tt.Schedule)
			byDay[day] = idx
			tt.Schedule = append(tt.Schedule, DaySchedule{Day: day})
		}
		tt.Schedule[idx].Periods = append(tt.Schedule[idx].Periods, period)
	}
	tt.Subjects = set.order
}

// parseStandard handles input already close to canonical shape: it
// re-normalizes fields (defaults, time normalization) rather than
// restructuring.
func parseStandard(m map[string]interface{}, subjects []interface{}, tt *Timetable, set *subjectSet) {
	for _, s := range subjects {
		if rec, ok := s.(map[string]interface{}); ok {
			set.addRaw(rec)
		}
	}
	tt.Subjects = set.order

	for _, d := range rawList(m, "schedule") {
		rec, ok := d.(map[string]interface{})
		if !ok {
			continue
		}
		day := firstString(rec, []string{"day"})
		if day == "" {
			continue
		}

		var periods []Period
		for _, p := range rawList(rec, "periods", "classes") {
			prec, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			info := extractClassInfo(prec)
			if info.name == "" {
				continue
			}
			periods = append(periods, newPeriod(info, firstRaw(prec, startKeys), firstRaw(prec, endKeys)))
		}
		if len(periods) > 0 {
			tt.Schedule = append(tt.Schedule, DaySchedule{Day: day, Periods: periods})
		}
	}
}

// asRecords coerces a time-slot value (one class object or an array of them)
// into a flat record list.
func asRecords(v interface{}) []map[string]interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{val}
	case []interface{}:
		recs := make([]map[string]interface{}, 0, len(val))
		for _, e := range val {
			if rec, ok := e.(map[string]interface{}); ok {
				recs = append(recs, rec)
			}
		}
		return recs
	}
	return nil
}
