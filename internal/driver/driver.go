// Package driver runs the top-level extraction loop: it walks the page
// stream, classifies each page, resolves the account and fiscal scope,
// accumulates the section's rows across pages, reconciles descriptions and
// hands the finished records to the store.
package driver

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/ledger-extractor/internal/extractor"
	"github.com/insightdelivered/ledger-extractor/internal/models"
	"github.com/insightdelivered/ledger-extractor/internal/parser"
	"github.com/insightdelivered/ledger-extractor/internal/store"
)

// Config bounds one run. StartPage and EndPage are 1-based with EndPage
// exclusive; zero means unbounded on that side.
type Config struct {
	Input     string
	DBPath    string
	StartPage int
	EndPage   int
}

// Summary reports what a finished run did.
type Summary struct {
	RunID        string
	Pages        int
	Sections     int
	SkippedPages int
	Records      int
}

// Sink observes every record as it is persisted. The HTTP surface uses it to
// collect records without re-reading the store; it may be nil.
type Sink func(kind parser.SectionKind, rec models.Record)

// Run executes one full extraction against the configured store.
func Run(cfg Config, log zerolog.Logger, sink Sink) (Summary, error) {
	doc, err := extractor.Open(cfg.Input, extractor.DefaultOptions())
	if err != nil {
		return Summary{}, err
	}
	defer doc.Close()

	if cfg.StartPage > doc.PageCount() {
		return Summary{}, fmt.Errorf("driver: start page %d beyond last page %d", cfg.StartPage, doc.PageCount())
	}
	if cfg.EndPage > 0 && cfg.StartPage > 0 && cfg.EndPage <= cfg.StartPage {
		return Summary{}, fmt.Errorf("driver: empty page range [%d, %d)", cfg.StartPage, cfg.EndPage)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return Summary{}, err
	}
	defer st.Close()
	if err := st.EnsureSchema(); err != nil {
		return Summary{}, err
	}

	runID, err := st.BeginRun(cfg.Input)
	if err != nil {
		return Summary{}, err
	}
	log.Info().Str("run", runID).Str("input", cfg.Input).Int("pages", doc.PageCount()).Msg("extraction started")

	sum := Summary{RunID: runID}
	err = process(doc.Pages(cfg.StartPage, cfg.EndPage), st, log, sink, &sum)
	status := "SUCCESS"
	if err != nil {
		status = "FAILED"
	}
	if finErr := st.FinishRun(runID, status, sum.Pages, sum.Records); finErr != nil && err == nil {
		err = finErr
	}
	if err != nil {
		return sum, err
	}

	log.Info().Str("run", runID).
		Int("pages", sum.Pages).
		Int("sections", sum.Sections).
		Int("records", sum.Records).
		Msg("extraction finished")
	return sum, nil
}

// process consumes the page stream one section at a time. Only the
// empty-data-page condition is recoverable; every other failure aborts.
func process(pages *extractor.PageIterator, st *store.Store, log zerolog.Logger, sink Sink, sum *Summary) error {
	for !pages.Done() {
		pg, err := pages.Advance()
		if err != nil {
			return err
		}
		sum.Pages++

		cfg, err := parser.Classify(pg)
		if err != nil {
			return err
		}
		log.Info().Int("page", pg.Number).Str("kind", string(cfg.Kind)).Msg("page")

		fields, err := parser.ExtractAccountFields(pg, cfg)
		if err == parser.ErrEmptyDataPage {
			sum.SkippedPages++
			log.Info().Int("page", pg.Number).Msg("no account data, skipping")
			continue
		}
		if err != nil {
			return err
		}

		acct := models.Record{}
		for k, v := range fields {
			acct[k] = v
		}
		accountID, err := st.Write(store.AccountWriteSpec, acct)
		if err != nil {
			return err
		}

		fp, err := parser.ExtractPeriod(pg)
		if err != nil {
			return err
		}

		rows, err := accumulate(pg, pages, cfg, log, sum)
		if err != nil {
			return err
		}

		recs, err := parser.Reconcile(rows, cfg, accountID, fp)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if _, err := st.Write(store.WriteSpec{
				Table:      cfg.Table,
				Renames:    cfg.Renames,
				Converters: cfg.Converters,
			}, rec); err != nil {
				return err
			}
			if sink != nil {
				sink(cfg.Kind, rec)
			}
		}
		sum.Sections++
		sum.Records += len(recs)
		log.Info().Str("kind", string(cfg.Kind)).Int("records", len(recs)).Msg("section persisted")
	}
	return nil
}

// accumulate feeds pages to the section accumulator until the termination
// marker fires. Running out of pages mid-section means the statement was
// truncated, which is structural and fatal.
func accumulate(first models.Page, pages *extractor.PageIterator, cfg *parser.SectionConfig, log zerolog.Logger, sum *Summary) ([]models.Row, error) {
	acc := parser.NewAccumulator(cfg)
	pg := first
	for {
		done, err := acc.AddPage(pg)
		if err != nil {
			return nil, err
		}
		if done {
			return acc.Rows(), nil
		}
		if pages.Done() {
			return nil, fmt.Errorf("driver: page stream ended on page %d before the %s section terminated", pg.Number, cfg.Kind)
		}
		pg, err = pages.Advance()
		if err != nil {
			return nil, err
		}
		sum.Pages++
		log.Info().Int("page", pg.Number).Str("kind", string(cfg.Kind)).Msg("section continues")
	}
}
