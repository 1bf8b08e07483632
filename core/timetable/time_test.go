package timetable

import "testing"

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "whitespace only", raw: "   ", want: ""},
		{name: "canonical unchanged", raw: "14:05", want: "14:05"},
		{name: "single digit hour", raw: "9:00", want: "09:00"},
		{name: "dot separator", raw: "9.30", want: "09:30"},
		{name: "bare hour", raw: "9", want: "09:00"},
		{name: "glued digits", raw: "1430", want: "14:30"},
		{name: "am suffix ignored", raw: "9 AM", want: "09:00"},
		{name: "padded input", raw: "  10:15  ", want: "10:15"},
		{name: "no digits passthrough", raw: "garbage", want: "garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTime(tt.raw); got != tt.want {
				t.Errorf("NormalizeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMinuteOfDay(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		want   int
		wantOK bool
	}{
		{name: "midnight", s: "00:00", want: 0, wantOK: true},
		{name: "morning", s: "09:30", want: 570, wantOK: true},
		{name: "last minute", s: "23:59", want: 1439, wantOK: true},
		{name: "not zero padded", s: "9:30"},
		{name: "hour out of range", s: "24:00"},
		{name: "garbage", s: "garbage"},
		{name: "empty", s: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := minuteOfDay(tt.s)
			if ok != tt.wantOK {
				t.Fatalf("minuteOfDay() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("minuteOfDay() = %d, want %d", got, tt.want)
			}
		})
	}
}
