package store

import "fmt"

// schema declares every destination table. Setup is idempotent so repeated
// runs against the same database file just append records.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	chart TEXT NOT NULL,
	chart_descr TEXT,
	organization TEXT,
	organization_descr TEXT,
	fund TEXT,
	fund_descr TEXT,
	program TEXT,
	program_descr TEXT,
	level_code TEXT,
	level_descr TEXT,
	fund_term_dt TEXT,
	fund_term_dt_descr TEXT,
	principal_investigator TEXT,
	principal_investigator_descr TEXT,
	grant_code TEXT,
	grant_code_descr TEXT,
	sponsor TEXT,
	sponsor_descr TEXT,
	fund_type TEXT,
	fund_type_descr TEXT,
	UNIQUE (chart, organization, fund, program)
);

CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id),
	fiscal_year INTEGER NOT NULL,
	period INTEGER,
	acct_nr TEXT,
	acct_descr TEXT,
	doc_type TEXT,
	seq_nr TEXT,
	document_nr TEXT,
	deposit_nr TEXT,
	purchase_order_code TEXT,
	descr TEXT,
	date TEXT,
	budget REAL,
	actual REAL,
	encumbrance REAL
);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);

CREATE TABLE IF NOT EXISTS payroll (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id),
	fiscal_year INTEGER NOT NULL,
	period INTEGER,
	acct_nr TEXT,
	acct_descr TEXT,
	name TEXT,
	posn TEXT,
	posn_suff TEXT,
	pay_period_code TEXT,
	pay_period_begin TEXT,
	pay_period_end TEXT,
	pay_cat TEXT,
	pay_seq TEXT,
	document_nr TEXT,
	hours REAL,
	fte REAL,
	fringe_rate REAL,
	amount REAL
);
CREATE INDEX IF NOT EXISTS idx_payroll_account ON payroll(account_id);

CREATE TABLE IF NOT EXISTS extraction_runs (
	run_id TEXT PRIMARY KEY,
	source_file TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	pages INTEGER,
	records INTEGER,
	status TEXT NOT NULL
);
`

// EnsureSchema creates any missing destination tables.
func (s *Store) EnsureSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: creating schema: %w", err)
	}
	return nil
}

// AccountRenames maps the metadata block's printed field labels to account
// columns. The label vocabulary is the union of both report families.
var AccountRenames = map[string]string{
	"Chart":                        "chart",
	"Chart_descr":                  "chart_descr",
	"Organization":                 "organization",
	"Organization_descr":           "organization_descr",
	"Fund":                         "fund",
	"Fund_descr":                   "fund_descr",
	"Program":                      "program",
	"Program_descr":                "program_descr",
	"Level":                        "level_code",
	"Level_descr":                  "level_descr",
	"Fund Term Dt":                 "fund_term_dt",
	"Fund Term Dt_descr":           "fund_term_dt_descr",
	"Principal Investigator":       "principal_investigator",
	"Principal Investigator_descr": "principal_investigator_descr",
	"Grant Code":                   "grant_code",
	"Grant Code_descr":             "grant_code_descr",
	"Sponsor":                      "sponsor",
	"Sponsor_descr":                "sponsor_descr",
	"Fund Type":                    "fund_type",
	"Fund Type_descr":              "fund_type_descr",
}

// AccountWriteSpec is the upsert specification for the accounts table. The
// four-part chart key is globally unique, so repeat occurrences across pages
// resolve to the same account id.
var AccountWriteSpec = WriteSpec{
	Table:      "accounts",
	Renames:    AccountRenames,
	UniqueCols: []string{"chart", "organization", "fund", "program"},
}
