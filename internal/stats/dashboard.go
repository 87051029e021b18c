// Package stats recomputes the dashboard summary views from the
// published order table. Views are derived on demand, never mutated
// incrementally; the table is the single source of truth.
package stats

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-insights/internal/common"
	"github.com/joseph-ayodele/invoice-insights/internal/exporter"
)

// Entry is one (dimension value, metric value) pair of a ranked view.
type Entry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Dashboard is the full summary response.
type Dashboard struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	TotalCustomers    int     `json:"total_customers"`
	TotalProducts     int     `json:"total_products"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	RevenueByCustomer []Entry `json:"revenue_by_customer"`
	RevenueByProduct  []Entry `json:"revenue_by_product"`
	RevenueByMonth    []Entry `json:"revenue_by_month"`
	QuantityByProduct []Entry `json:"quantity_by_product"`
	OrdersByCustomer  []Entry `json:"orders_by_customer"`
}

// Table column offsets, matching constants.Columns.
const (
	colOrderCode = 1
	colDate      = 2
	colCustomer  = 3
	colProduct   = 4
	colQuantity  = 6
	colLineTotal = 8
)

// Service computes dashboards from the published table.
type Service struct {
	tablePath string
	logger    *slog.Logger
}

// NewService builds a stats Service over the table at tablePath.
func NewService(tablePath string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{tablePath: tablePath, logger: logger}
}

// Dashboard loads the current table and computes all six views.
// A missing table yields common.ErrNotReady rather than an I/O error.
func (s *Service) Dashboard() (*Dashboard, error) {
	if _, err := os.Stat(s.tablePath); errors.Is(err, os.ErrNotExist) {
		return nil, common.ErrNotReady
	}
	rows, err := exporter.Read(s.tablePath)
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	if len(rows) == 0 {
		return nil, common.ErrNotReady
	}

	start := time.Now()
	d := Compute(rows)
	s.logger.Info("stats.dashboard.ok",
		"rows", len(rows),
		"orders", d.TotalOrders,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return d, nil
}

// Compute derives the dashboard from raw table rows. Numeric cells that
// fail to parse count as zero; no row is dropped. Grouping is exact
// string equality on the normalized fields.
func Compute(rows [][]string) *Dashboard {
	revenueByCustomer := map[string]float64{}
	revenueByProduct := map[string]float64{}
	revenueByMonth := map[string]float64{}
	quantityByProduct := map[string]float64{}
	ordersByCustomer := map[string]map[string]bool{}
	orders := map[string]bool{}

	var totalRevenue float64
	for _, r := range rows {
		code := r[colOrderCode]
		customer := r[colCustomer]
		product := r[colProduct]
		total := coerce(r[colLineTotal])
		qty := coerce(r[colQuantity])

		totalRevenue += total
		revenueByCustomer[customer] += total
		revenueByProduct[product] += total
		quantityByProduct[product] += qty

		// Rows whose date fails to parse are excluded from the month
		// view only.
		if month, ok := monthOf(r[colDate]); ok {
			revenueByMonth[month] += total
		}

		orders[code] = true
		if ordersByCustomer[customer] == nil {
			ordersByCustomer[customer] = map[string]bool{}
		}
		ordersByCustomer[customer][code] = true
	}

	orderCounts := make(map[string]float64, len(ordersByCustomer))
	for customer, codes := range ordersByCustomer {
		orderCounts[customer] = float64(len(codes))
	}

	avg := 0.0
	if len(orders) > 0 {
		avg = totalRevenue / float64(len(orders))
	}

	return &Dashboard{
		TotalRevenue:      totalRevenue,
		TotalOrders:       len(orders),
		TotalCustomers:    len(revenueByCustomer),
		TotalProducts:     len(revenueByProduct),
		AvgOrderValue:     avg,
		RevenueByCustomer: rankedDesc(revenueByCustomer),
		RevenueByProduct:  rankedDesc(revenueByProduct),
		RevenueByMonth:    rankedAsc(revenueByMonth),
		QuantityByProduct: rankedDesc(quantityByProduct),
		OrdersByCustomer:  rankedDesc(orderCounts),
	}
}

// coerce parses a numeric cell, treating anything unparseable as zero.
func coerce(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// monthOf derives MM/YYYY from a DD/MM/YYYY date cell.
func monthOf(date string) (string, bool) {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(date))
	if err != nil {
		return "", false
	}
	return t.Format("01/2006"), true
}

// rankedDesc orders entries strictly descending by value, label
// ascending on ties for deterministic output.
func rankedDesc(m map[string]float64) []Entry {
	entries := collect(m)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// rankedAsc orders entries by label, which for MM/YYYY months matches
// the view the dashboard has always shown.
func rankedAsc(m map[string]float64) []Entry {
	entries := collect(m)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Label < entries[j].Label
	})
	return entries
}

func collect(m map[string]float64) []Entry {
	entries := make([]Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry{Label: k, Value: v})
	}
	return entries
}
