// extract runs the text-to-table pipeline offline: it reads a raw
// recognition output file, extracts normalized order rows, writes the
// order table and optionally prints the dashboard statistics.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/invoice-insights/internal/exporter"
	"github.com/joseph-ayodele/invoice-insights/internal/extract"
	"github.com/joseph-ayodele/invoice-insights/internal/normalize"
	"github.com/joseph-ayodele/invoice-insights/internal/stats"
)

func main() {
	var (
		inPath      = flag.String("in", "text.txt", "raw recognition output file")
		outPath     = flag.String("out", "output.xlsx", "order table to write")
		corrections = flag.String("corrections", "", "optional YAML correction tables")
		showStats   = flag.Bool("stats", false, "print dashboard statistics after extraction")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	tables := normalize.DefaultCorrections()
	if *corrections != "" {
		var err error
		tables, err = normalize.LoadCorrections(*corrections)
		if err != nil {
			logger.Error("load corrections", "error", err)
			os.Exit(1)
		}
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		logger.Error("read input", "path", *inPath, "error", err)
		os.Exit(1)
	}

	ex := extract.NewExtractor(normalize.New(tables), logger)
	res := ex.Extract(string(raw))

	if err := exporter.NewExporter(logger).Write(*outPath, res.Rows); err != nil {
		logger.Error("write table", "path", *outPath, "error", err)
		os.Exit(1)
	}

	fmt.Printf("blocks=%d failed=%d rows=%d orders=%d\n",
		res.BlocksFound, res.BlocksFailed, len(res.Rows), res.Orders)

	if *showStats && len(res.Rows) > 0 {
		d, err := stats.NewService(*outPath, logger).Dashboard()
		if err != nil {
			logger.Error("compute stats", "error", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(d)
	}
}
