// Package extract turns raw recognition-model output into normalized
// order rows. It scans the text stream for bracket-delimited record
// blocks, parses each into a header plus item records, applies the
// normalizers and groups rows into logical orders via derived codes.
package extract

import (
	"log/slog"

	"github.com/joseph-ayodele/invoice-insights/constants"
	"github.com/joseph-ayodele/invoice-insights/internal/entity"
	"github.com/joseph-ayodele/invoice-insights/internal/normalize"
)

// Extractor runs the text-to-row pipeline.
type Extractor struct {
	norm   *normalize.Normalizer
	logger *slog.Logger
}

// Result carries the rows of one extraction pass plus its counters.
type Result struct {
	Rows         []entity.Row
	BlocksFound  int
	BlocksFailed int
	Orders       int
}

// NewExtractor builds an Extractor over the given normalizer.
func NewExtractor(norm *normalize.Normalizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if norm == nil {
		norm = normalize.New(nil)
	}
	return &Extractor{norm: norm, logger: logger}
}

// Extract processes one raw text stream end to end. A malformed block is
// logged and skipped; it never aborts the pass. Row order follows block
// order in the text, then item order within each block.
func (e *Extractor) Extract(text string) Result {
	spans := ScanBlocks(CleanModelOutput(text))
	index := NewKeyIndex()

	res := Result{BlocksFound: len(spans)}
	for i, span := range spans {
		records, err := ParseBlock(span)
		if err != nil {
			res.BlocksFailed++
			e.logger.Warn("extract.block.skip", "block", i, "error", err)
			continue
		}
		res.Rows = append(res.Rows, e.blockRows(records, index)...)
	}
	res.Orders = index.Len()

	e.logger.Info("extract.pass.done",
		"blocks_found", res.BlocksFound,
		"blocks_failed", res.BlocksFailed,
		"rows", len(res.Rows),
		"orders", res.Orders,
	)
	return res
}

// blockRows emits one row per item record, all sharing the block's
// order code, date and customer from the header record.
func (e *Extractor) blockRows(records []Record, index *KeyIndex) []entity.Row {
	header := records[0]
	date := e.norm.Date(header.Str(constants.KeyDate))
	customer := e.norm.CustomerName(header.Str(constants.KeyCustomer))
	code := index.Resolve(date, customer)

	rows := make([]entity.Row, 0, len(records)-1)
	for _, item := range records[1:] {
		qty := normalize.Number(item[constants.KeyQuantity])
		price := e.norm.Price(item[constants.KeyUnitPrice])

		total := normalize.RawAmount("")
		if qty.Parsed && price.Parsed {
			total = normalize.ParsedAmount(qty.Value * price.Value)
		}

		rows = append(rows, entity.Row{
			OrderCode: code,
			Date:      date,
			Customer:  customer,
			Product:   e.norm.ProductName(item.Str(constants.KeyProduct)),
			Unit:      item.Str(constants.KeyUnit),
			Quantity:  qty,
			UnitPrice: price,
			LineTotal: total,
		})
	}
	return rows
}
