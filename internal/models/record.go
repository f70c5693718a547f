package models

// FiscalPeriod identifies the fiscal scope a statement section reports on.
// Period is legitimately absent for the grant-style statement variant, which
// only carries a fiscal year.
type FiscalPeriod struct {
	Year      int
	Period    int
	HasPeriod bool
}

// Account is the chart-of-accounts identity a statement page reports under.
// The (Chart, Organization, Fund, Program) tuple is globally unique; the
// store deduplicates on it and hands back a stable id.
type Account struct {
	ID           int64
	Chart        string
	Organization string
	Fund         string
	Program      string
}

// Record is one normalized ledger row ready for persistence: raw column text
// keyed by source column name, plus typed fields attached during
// reconciliation (account_id, fiscal_year, period). Converters in the store
// turn the remaining strings into dates and numbers at write time.
type Record map[string]any

// Converter turns a raw column string into its typed value.
type Converter func(string) (any, error)
