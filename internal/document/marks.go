package document

import "strings"

// Mark is a single text formatting flag.
type Mark uint8

// Supported marks. Bit order is also rendering order, outermost first.
const (
	MarkBold Mark = 1 << iota
	MarkItalic
	MarkCode
)

// allMarks lists marks in rendering order, outermost first.
var allMarks = []Mark{MarkBold, MarkItalic, MarkCode}

// String returns the TipTap name of m.
func (m Mark) String() string {
	switch m {
	case MarkBold:
		return "bold"
	case MarkItalic:
		return "italic"
	case MarkCode:
		return "code"
	default:
		return "unknown"
	}
}

// ParseMark maps a TipTap mark name to a Mark. Unknown names return false.
func ParseMark(name string) (Mark, bool) {
	switch strings.ToLower(name) {
	case "bold", "strong":
		return MarkBold, true
	case "italic", "em":
		return MarkItalic, true
	case "code":
		return MarkCode, true
	default:
		return 0, false
	}
}

// MarkSet is a set of marks applied to a text run.
type MarkSet uint8

// Has reports whether m is in the set.
func (s MarkSet) Has(m Mark) bool {
	return s&MarkSet(m) != 0
}

// With returns the set with m added.
func (s MarkSet) With(m Mark) MarkSet {
	return s | MarkSet(m)
}

// Without returns the set with m removed.
func (s MarkSet) Without(m Mark) MarkSet {
	return s &^ MarkSet(m)
}

// Toggle returns the set with m flipped.
func (s MarkSet) Toggle(m Mark) MarkSet {
	return s ^ MarkSet(m)
}

// List returns the marks in rendering order.
func (s MarkSet) List() []Mark {
	var out []Mark
	for _, m := range allMarks {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Marks builds a set from individual marks.
func Marks(ms ...Mark) MarkSet {
	var s MarkSet
	for _, m := range ms {
		s = s.With(m)
	}
	return s
}
