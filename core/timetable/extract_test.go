package timetable

import "testing"

func TestExtractClassInfo(t *testing.T) {
	tests := []struct {
		name string
		rec  map[string]interface{}
		want classInfo
	}{
		{
			name: "preferred keys",
			rec: map[string]interface{}{
				"subject": "Math", "type": "Lecture", "faculty": "Dr. Kim",
				"room": "S-101", "code": "MTH101", "section": "A",
			},
			want: classInfo{name: "Math", typ: TypeLecture, faculty: "Dr. Kim", room: "S-101", code: "MTH101", section: "A"},
		},
		{
			name: "alias keys",
			rec: map[string]interface{}{
				"courseName": "Physics", "classType": "P", "instructor": "Pf. Ona",
				"venue": "Lab 2", "batch": "B1",
			},
			want: classInfo{name: "Physics", typ: TypePractical, faculty: "Pf. Ona", room: "Lab 2", section: "B1"},
		},
		{
			name: "first key wins over alias",
			rec:  map[string]interface{}{"subject": "DBMS", "name": "ignored"},
			want: classInfo{name: "DBMS", typ: TypeLecture},
		},
		{
			name: "empty value falls through to next alias",
			rec:  map[string]interface{}{"subject": "  ", "name": "CN"},
			want: classInfo{name: "CN", typ: TypeLecture},
		},
		{
			name: "missing everything",
			rec:  map[string]interface{}{},
			want: classInfo{typ: TypeLecture},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractClassInfo(tt.rec); got != tt.want {
				t.Errorf("extractClassInfo() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "l", want: TypeLecture},
		{raw: "Lecture", want: TypeLecture},
		{raw: "P", want: TypePractical},
		{raw: "lab", want: TypePractical},
		{raw: "Tutorial", want: TypeTutorial},
		{raw: "L+P", want: TypeBoth},
		{raw: "both", want: TypeBoth},
		{raw: "", want: TypeLecture},
		{raw: "seminar", want: TypeLecture},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := normalizeType(tt.raw); got != tt.want {
				t.Errorf("normalizeType(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFirstRaw(t *testing.T) {
	rec := map[string]interface{}{"time": float64(9), "end": "10:00"}
	if got := firstRaw(rec, startKeys); got != "9" {
		t.Errorf("firstRaw(startKeys) = %q, want %q", got, "9")
	}
	if got := firstRaw(rec, endKeys); got != "10:00" {
		t.Errorf("firstRaw(endKeys) = %q, want %q", got, "10:00")
	}
}
