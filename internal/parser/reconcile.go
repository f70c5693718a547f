package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

// RowClass tags what a table row is, decided purely from its fields and font
// attributes. Classification is separated from reconciliation so the font
// logic stays in one place.
type RowClass int

const (
	// RowDetail is an ordinary data row awaiting its description.
	RowDetail RowClass = iota
	// RowSummary is the bold row naming an account number; its description
	// belongs to every buffered detail row of that account.
	RowSummary
	// RowAggregate is a subtotal/total row. Never persisted.
	RowAggregate
	// RowNoise is print debris: a stray "Seq" token or the split-off tail
	// of a wrapped header. Discarded.
	RowNoise
)

// ClassifyRow decides the class of one assembled row. A row that is neither
// noise, a recognizable aggregate, a bold summary nor a complete detail row
// violates the report structure and is a fatal error.
func ClassifyRow(r models.Row, cfg *SectionConfig) (RowClass, error) {
	if isNoiseRow(r) {
		return RowNoise, nil
	}

	if !r.Has(cfg.RequiredField) {
		// Only aggregate/total rows may omit the required field.
		lab, present := r[cfg.LabelField]
		text := strings.TrimSpace(lab.Text)
		if present && lab.Bold() &&
			(strings.HasPrefix(text, "Total") || text == "Net Totals" || text == "Total Personnel Expense") {
			return RowAggregate, nil
		}
		return 0, &ReconciliationError{
			Msg: fmt.Sprintf("row missing %q is not an aggregate (label %q)", cfg.RequiredField, text),
		}
	}

	if key, present := r[cfg.KeyField]; present && key.Bold() {
		return RowSummary, nil
	}
	return RowDetail, nil
}

// isNoiseRow spots the two kinds of print debris the generator emits: a lone
// "Seq" token, and the split-off continuation of the wrapped "Order Code"
// header label.
func isNoiseRow(r models.Row) bool {
	if len(r) != 1 {
		return false
	}
	for _, t := range r {
		switch strings.TrimSpace(t.Text) {
		case "Seq", "Order Code", "Code":
			return true
		}
	}
	return false
}

// pendingBatch buffers detail rows until the bold summary row that names
// their shared account number arrives.
type pendingBatch struct {
	keyField string
	acct     string
	recs     []models.Record
}

func (b *pendingBatch) empty() bool { return len(b.recs) == 0 }

func (b *pendingBatch) add(acct string, rec models.Record) error {
	if b.empty() {
		b.acct = acct
	} else if acct != b.acct {
		return &ReconciliationError{
			Msg: fmt.Sprintf("detail row for account %q while batch holds account %q", acct, b.acct),
		}
	}
	b.recs = append(b.recs, rec)
	return nil
}

// flush verifies every buffered row shares the summary's account number,
// attaches the description, and returns the rows in original order.
func (b *pendingBatch) flush(acct, descr string) ([]models.Record, error) {
	for _, rec := range b.recs {
		if got, _ := rec[b.keyField].(string); got != acct {
			return nil, &ReconciliationError{
				Msg: fmt.Sprintf("summary for account %q but batch holds row for account %q", acct, got),
			}
		}
	}
	out := b.recs
	for _, rec := range out {
		rec["Acct Descr"] = descr
	}
	b.recs = nil
	b.acct = ""
	return out, nil
}

// Reconcile walks the accumulated rows of one section in order, attaches
// each bold summary row's description to the detail rows buffered before it,
// and returns the finished records. The pending batch must be empty when the
// section ends; a leftover batch means an account group never received its
// description and the run cannot be trusted.
func Reconcile(rows []models.Row, cfg *SectionConfig, accountID int64, fp models.FiscalPeriod) ([]models.Record, error) {
	var out []models.Record
	batch := &pendingBatch{keyField: cfg.KeyField}

	for _, r := range rows {
		class, err := ClassifyRow(r, cfg)
		if err != nil {
			return nil, err
		}
		switch class {
		case RowNoise, RowAggregate:
			continue

		case RowSummary:
			flushed, err := batch.flush(r.Text(cfg.KeyField), r.Text(cfg.DescrField))
			if err != nil {
				return nil, err
			}
			out = append(out, flushed...)

		case RowDetail:
			rec := rowToRecord(r, accountID, fp)
			if err := batch.add(r.Text(cfg.KeyField), rec); err != nil {
				return nil, err
			}
		}
	}

	if !batch.empty() {
		return nil, &ReconciliationError{
			Msg: fmt.Sprintf("%d detail rows for account %q never received a description", len(batch.recs), batch.acct),
		}
	}
	return out, nil
}

// rowToRecord flattens a row to field→text and attaches the account and
// fiscal scope every persisted record carries.
func rowToRecord(r models.Row, accountID int64, fp models.FiscalPeriod) models.Record {
	rec := models.Record{}
	for col := range r {
		rec[col] = r.Text(col)
	}
	rec["account_id"] = accountID
	rec["fiscal_year"] = fp.Year
	if fp.HasPeriod {
		rec["period"] = fp.Period
	}
	return rec
}
