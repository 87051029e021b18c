// Package exporter persists normalized order rows as an XLSX workbook
// with a fixed column order, and reads the published table back for the
// aggregator. Writes are published atomically so a concurrent reader
// never observes a partially written table.
package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-insights/constants"
	"github.com/joseph-ayodele/invoice-insights/internal/entity"
)

// Exporter writes the order table.
type Exporter struct {
	logger *slog.Logger
}

// NewExporter builds an Exporter.
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

// Write assembles the rows into the 9-column order table and publishes
// it at path, fully replacing any previous version. An empty row set is
// a no-op with a diagnostic; an empty workbook is never written.
func (e *Exporter) Write(path string, rows []entity.Row) error {
	if len(rows) == 0 {
		e.logger.Info("export.xlsx.skip_empty", "path", path)
		return nil
	}
	start := time.Now()

	f := excelize.NewFile()
	sheet := constants.SheetName

	for i, h := range constants.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, r := range rows {
		rowNum := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, i+1) // 1-based sequence number
		write(2, r.OrderCode)
		write(3, r.Date)
		write(4, r.Customer)
		write(5, r.Product)
		write(6, r.Unit)
		write(7, r.Quantity.Cell())
		write(8, r.UnitPrice.Cell())
		write(9, r.LineTotal.Cell())
	}

	_ = f.SetColWidth(sheet, "B", "B", 14) // order code
	_ = f.SetColWidth(sheet, "C", "C", 12) // date
	_ = f.SetColWidth(sheet, "D", "E", 24) // customer, product
	_ = f.SetColWidth(sheet, "G", "I", 14) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx encode: %w", err)
	}
	if err := publish(path, buf.Bytes()); err != nil {
		return err
	}

	e.logger.Info("export.xlsx.ok",
		"path", path,
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// publish writes the serialized workbook to a temp file in the target
// directory and renames it over path, so readers only ever load a
// fully-written table.
func publish(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".orders-*.xlsx")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("publish table: %w", err)
	}
	return nil
}

// Read loads the published table and returns its data rows as raw cell
// strings in column order, header excluded. Short rows are padded so
// every returned row has the full column count.
func Read(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	raw, err := f.GetRows(constants.SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(raw) <= 1 {
		return nil, nil
	}

	rows := make([][]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		if len(r) < len(constants.Columns) {
			padded := make([]string, len(constants.Columns))
			copy(padded, r)
			r = padded
		}
		rows = append(rows, r[:len(constants.Columns)])
	}
	return rows, nil
}
