// Package entity holds the value types shared across the extraction,
// export and stats layers.
package entity

import "github.com/joseph-ayodele/invoice-insights/internal/normalize"

// Row is one normalized order line: one item of one logical order.
// Rows deriving from header records with the same normalized (date,
// customer) pair share an OrderCode, even across separate blocks.
type Row struct {
	OrderCode string
	Date      string // DD/MM/YYYY after normalization, else passthrough
	Customer  string
	Product   string
	Unit      string
	Quantity  normalize.Amount
	UnitPrice normalize.Amount
	// LineTotal is recomputed as Quantity × UnitPrice when both parsed;
	// otherwise it is left blank rather than trusting the model's sum.
	LineTotal normalize.Amount
}
