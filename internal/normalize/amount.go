package normalize

import "strconv"

// Amount is the tagged result of numeric normalization. When Parsed is
// true, Value holds the integer reading; otherwise Text carries the
// original input (stripped of separators) unchanged, so downstream
// consumers can tell a confident parse from a best-effort passthrough.
type Amount struct {
	Value  int64
	Text   string
	Parsed bool
}

// ParsedAmount wraps an integer as a confidently parsed Amount.
func ParsedAmount(v int64) Amount {
	return Amount{Value: v, Parsed: true}
}

// RawAmount wraps a string that failed numeric normalization.
func RawAmount(s string) Amount {
	return Amount{Text: s}
}

// Cell returns the value to write into a spreadsheet cell: the integer
// when parsed, the passthrough text otherwise.
func (a Amount) Cell() any {
	if a.Parsed {
		return a.Value
	}
	return a.Text
}

// String renders the amount for logs and JSON records.
func (a Amount) String() string {
	if a.Parsed {
		return strconv.FormatInt(a.Value, 10)
	}
	return a.Text
}
