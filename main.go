package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/ledger-extractor/internal/api"
	"github.com/insightdelivered/ledger-extractor/internal/driver"
	"github.com/insightdelivered/ledger-extractor/internal/logger"
	"github.com/insightdelivered/ledger-extractor/internal/models"
	"github.com/insightdelivered/ledger-extractor/internal/parser"
	"github.com/insightdelivered/ledger-extractor/internal/writer"
)

const version = "1.0.0"

func main() {
	dbFlag := flag.String("db", "ledger.db", "SQLite database path")
	startFlag := flag.Int("start", 0, "First page to process (1-based)")
	endFlag := flag.Int("end", 0, "Stop before this page (exclusive)")
	csvFlag := flag.String("csv", "", "Also export records to <path>_transactions.csv / <path>_payroll.csv")
	serveFlag := flag.String("serve", "", "Run the HTTP API on this address instead of extracting (e.g. :8080)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Ledger Statement Extractor
by Insight Delivered (QEA AutoLens)

Extracts general-ledger transactions and payroll expense line items from
financial statement PDFs into a queryable SQLite database.

Usage:
  ledger-extractor [flags] <statement.pdf>

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Extract a whole statement into ledger.db
  ledger-extractor statement.pdf

  # Custom database path
  ledger-extractor -db=fy24.db statement.pdf

  # Only pages 10 through 24
  ledger-extractor -start=10 -end=25 statement.pdf

  # Serve the HTTP extraction API
  ledger-extractor -serve=:8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("ledger-extractor v%s\n", version)
		os.Exit(0)
	}

	log := logger.New()

	if *serveFlag != "" {
		app := fiber.New(fiber.Config{BodyLimit: 64 << 20})
		h := &api.Handler{Log: log}
		h.Register(app)
		log.Info().Str("addr", *serveFlag).Msg("serving extraction API")
		if err := app.Listen(*serveFlag); err != nil {
			log.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
		return
	}

	if *helpFlag || flag.NArg() != 1 {
		flag.Usage()
		os.Exit(0)
	}

	inputPath := flag.Arg(0)
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		fatalf("input file not found: %s\n", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		fatalf("expected .pdf file, got %q\n", ext)
	}

	var txns, pay []models.Record
	var sink driver.Sink
	if *csvFlag != "" {
		sink = func(kind parser.SectionKind, rec models.Record) {
			if kind == parser.KindPayroll {
				pay = append(pay, rec)
				return
			}
			txns = append(txns, rec)
		}
	}

	sum, err := driver.Run(driver.Config{
		Input:     inputPath,
		DBPath:    *dbFlag,
		StartPage: *startFlag,
		EndPage:   *endFlag,
	}, log, sink)
	if err != nil {
		log.Error().Err(err).Msg("extraction failed")
		os.Exit(1)
	}

	if *csvFlag != "" {
		if err := exportCSV(*csvFlag, txns, pay); err != nil {
			log.Error().Err(err).Msg("CSV export failed")
			os.Exit(1)
		}
	}

	fmt.Printf("Done: %d page(s), %d section(s), %d record(s) -> %s\n",
		sum.Pages, sum.Sections, sum.Records, *dbFlag)
}

func exportCSV(base string, txns, pay []models.Record) error {
	tw := &writer.CSVWriter{Columns: parser.TransactionSection.Columns}
	if err := tw.WriteToFile(base+"_transactions.csv", txns); err != nil {
		return err
	}
	pw := &writer.CSVWriter{Columns: parser.PayrollSection.Columns}
	return pw.WriteToFile(base+"_payroll.csv", pay)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
