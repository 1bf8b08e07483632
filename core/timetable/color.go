package timetable

import "math/rand"

// ColorFunc produces a display color (hex string) for a newly-seen subject.
type ColorFunc func() string

// palette holds the subject display colors. Colors are drawn at random and are
// NOT guaranteed distinct across subjects; that looseness is accepted.
var palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
}

// RandomColor draws uniformly at random from the palette.
func RandomColor() string {
	return palette[rand.Intn(len(palette))]
}

// colorFn is the color source used by parsing and sanitization; mockable.
var colorFn ColorFunc = RandomColor

// SetColorFunc overrides the subject color source; it returns the previous one
// so tests can restore it.
func SetColorFunc(fn ColorFunc) ColorFunc {
	prev := colorFn
	colorFn = fn
	return prev
}
