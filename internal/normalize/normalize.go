// Package normalize corrects the inconsistent date, name and numeric
// representations the recognition model produces before rows reach the
// order table. Every normalizer is permissive: input that does not match
// the expected shape passes through unchanged rather than failing, so a
// single bad field never aborts an extraction run.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// reDatePhrase matches the natural-language date phrase the model emits,
// e.g. "ngày 5 tháng 3 năm 2024", anywhere in the field.
var reDatePhrase = regexp.MustCompile(`(\d{1,2})\s*tháng\s*(\d{1,2})\s*năm\s*(\d{4})`)

// DefaultPriceThreshold is the unit-price heuristic cutoff: parsed
// prices below it are assumed to be stated in thousands of đồng.
const DefaultPriceThreshold = 10000

// Normalizer applies the correction tables and numeric heuristics.
type Normalizer struct {
	corrections    *Corrections
	productIndex   map[string]string
	priceThreshold int64
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithPriceThreshold overrides the thousands heuristic cutoff.
func WithPriceThreshold(n int64) Option {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.priceThreshold = n
		}
	}
}

// New builds a Normalizer over the given correction tables. A nil
// corrections argument uses the built-in defaults.
func New(c *Corrections, opts ...Option) *Normalizer {
	if c == nil {
		c = DefaultCorrections()
	}
	nz := &Normalizer{
		corrections:    c,
		productIndex:   c.variantIndex(),
		priceThreshold: DefaultPriceThreshold,
	}
	for _, opt := range opts {
		opt(nz)
	}
	return nz
}

// Date extracts a day/month/year phrase from s and renders it as
// DD/MM/YYYY with zero-padded day and month. When no phrase is found
// the trimmed input is returned unchanged.
func (nz *Normalizer) Date(s string) string {
	m := reDatePhrase.FindStringSubmatch(s)
	if m == nil {
		return strings.TrimSpace(s)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%02d/%02d/%s", day, month, m[3])
}

// CustomerName drops any parenthetical annotation, trims whitespace and
// applies the customer correction table.
func (nz *Normalizer) CustomerName(s string) string {
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if fixed, ok := nz.corrections.Customers[s]; ok {
		return fixed
	}
	return s
}

// ProductName maps known spelling and casing variants back to the
// canonical product name. Unknown names pass through trimmed.
func (nz *Normalizer) ProductName(s string) string {
	s = strings.TrimSpace(s)
	if canonical, ok := nz.productIndex[s]; ok {
		return canonical
	}
	return s
}

// Number strips thousands separators ("." and ",") and whitespace and
// parses the result as an integer. JSON numbers arrive as float64 and
// are accepted directly when integral. On parse failure the stripped
// string is passed through unparsed.
func Number(v any) Amount {
	switch t := v.(type) {
	case nil:
		return RawAmount("")
	case int:
		return ParsedAmount(int64(t))
	case int64:
		return ParsedAmount(t)
	case float64:
		if t == float64(int64(t)) {
			return ParsedAmount(int64(t))
		}
		return RawAmount(strconv.FormatFloat(t, 'f', -1, 64))
	}

	s := fmt.Sprintf("%v", v)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return RawAmount(s)
	}
	return ParsedAmount(n)
}

// Price normalizes a unit price with Number, then multiplies by 1000
// when the parsed value sits under the threshold. Handwritten invoices
// habitually quote prices in thousands of đồng.
func (nz *Normalizer) Price(v any) Amount {
	a := Number(v)
	if a.Parsed && a.Value < nz.priceThreshold {
		a.Value *= 1000
	}
	return a
}
