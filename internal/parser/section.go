// Package parser implements the core state machine that turns pages of
// positioned tokens into typed ledger records: page classification,
// account/period extraction, multi-page row accumulation and description
// reconciliation.
package parser

import (
	"strings"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

// SectionKind names the two report families a page can belong to.
type SectionKind string

const (
	KindTransaction SectionKind = "transaction"
	KindPayroll     SectionKind = "payroll"
)

// SectionConfig parameterizes the shared section pipeline for one report
// family. The two families differ only in vocabulary: anchor label sets,
// termination marker, whether rows merge, and the rename/convert tables.
type SectionConfig struct {
	Kind SectionKind

	// Markers are the banner phrases that identify a page of this family.
	Markers []string

	// MetaUpperLabels and MetaLowerLabels bound the account metadata block.
	MetaUpperLabels []string
	MetaLowerLabels []string

	// HeaderLabels locate the table header row on each page.
	HeaderLabels []string

	// RequiredField must be present on every detail row; rows without it
	// have to be aggregate/total rows.
	RequiredField string

	// KeyField carries the account number. A bold KeyField token marks the
	// summary row for the preceding batch of detail rows.
	KeyField string

	// LabelField is the column whose text names aggregate rows and carries
	// the termination marker.
	LabelField string

	// DescrField is the summary-row column holding the description that
	// reconciliation attaches to the batched detail rows.
	DescrField string

	// TerminationText in a bold LabelField token ends the section.
	TerminationText string

	// RepairHeader enables the positional relabeling of the broken payroll
	// header before row assembly.
	RepairHeader bool

	// MergeAbuttingRows folds vertically touching rows into one logical row.
	MergeAbuttingRows bool

	// Columns is the table's column order, used for exports.
	Columns []string

	// Table is the destination store table, with Renames mapping source
	// columns to store columns and Converters typing the values.
	Table      string
	Renames    map[string]string
	Converters map[string]models.Converter
}

// TransactionSection describes the general-ledger transaction detail family.
var TransactionSection = &SectionConfig{
	Kind: KindTransaction,
	Markers: []string{
		"Detail Transaction Activity",
		"Organization Detail Activity",
		"Grant Detail Activity",
	},
	MetaUpperLabels:   []string{"Chart", "Level", "Fund Term Dt"},
	MetaLowerLabels:   []string{"Account", "Type", "Description"},
	HeaderLabels:      []string{"Account", "Type", "Description"},
	RequiredField:     "Description",
	KeyField:          "Account",
	LabelField:        "Account",
	DescrField:        "Description",
	TerminationText:   "Net Totals",
	RepairHeader:      false,
	MergeAbuttingRows: false,
	Columns: []string{
		"Account", "Acct Descr", "Type", "Seq", "Document #", "Deposit #",
		"Order Code", "Description", "Date", "Budget", "Actual", "Encumbrance",
	},
	Table: "transactions",
	Renames: map[string]string{
		"Account":    "acct_nr",
		"Acct Descr": "acct_descr",
		"Type":       "doc_type",
		"Seq":        "seq_nr",
		"Document #": "document_nr",
		"Document":   "document_nr",
		"Deposit #":  "deposit_nr",
		"Order Code": "purchase_order_code",
		"Description": "descr",
		"Date":        "date",
		"Budget":      "budget",
		"Actual":      "actual",
		"Encumbrance": "encumbrance",
	},
	Converters: map[string]models.Converter{
		"date":        ConvertDateDMY,
		"budget":      ConvertNumber,
		"actual":      ConvertNumber,
		"encumbrance": ConvertNumber,
	},
}

// PayrollSection describes the payroll expense detail family.
var PayrollSection = &SectionConfig{
	Kind: KindPayroll,
	Markers: []string{
		"Payroll Expense Detail",
		"Personnel Expense Detail",
		"Labor Distribution Detail",
	},
	MetaUpperLabels:   []string{"Chart", "Principal Investigator", "Grant Code"},
	MetaLowerLabels:   []string{"Name", "Posn", "Account"},
	HeaderLabels:      []string{"Name", "Account", "Fringe"},
	RequiredField:     "Account",
	KeyField:          "Account",
	LabelField:        "Name",
	DescrField:        "Name",
	TerminationText:   "Total Personnel Expense",
	RepairHeader:      true,
	MergeAbuttingRows: true,
	Columns: []string{
		"Name", "Posn", "Posn Suff", "Pay Period Code", "Pay Period Begin",
		"Pay Period End", "Pay Cat", "Pay Seq", "Account", "Acct Descr",
		"Doc Num", "Hours", "FTE", "Fringe", "Amount",
	},
	Table: "payroll",
	Renames: map[string]string{
		"Name":             "name",
		"Posn":             "posn",
		"Posn Suff":        "posn_suff",
		"Pay Period Code":  "pay_period_code",
		"Pay Period Begin": "pay_period_begin",
		"Pay Period End":   "pay_period_end",
		"Pay Cat":          "pay_cat",
		"Pay Seq":          "pay_seq",
		"Account":          "acct_nr",
		"Acct Descr":       "acct_descr",
		"Doc Num":          "document_nr",
		"Hours":            "hours",
		"FTE":              "fte",
		"Fringe":           "fringe_rate",
		"Amount":           "amount",
	},
	Converters: map[string]models.Converter{
		"pay_period_begin": ConvertDateMDY,
		"pay_period_end":   ConvertDateMDY,
		"hours":            ConvertNumber,
		"fte":              ConvertNumber,
		"fringe_rate":      ConvertNumber,
		"amount":           ConvertNumber,
	},
}

// Classify decides which report family a page belongs to by scanning for the
// fixed banner phrases. A page matching none of the six markers is fatal:
// there is no silent skip of unknown page types.
func Classify(pg models.Page) (*SectionConfig, error) {
	for _, cfg := range []*SectionConfig{TransactionSection, PayrollSection} {
		for _, marker := range cfg.Markers {
			if pageContainsPhrase(pg.Tokens, marker) {
				return cfg, nil
			}
		}
	}
	return nil, &UnknownPageTypeError{Page: pg.Number}
}

// pageContainsPhrase reports whether any token's text contains the phrase.
// Banner phrases survive glyph merging as single tokens.
func pageContainsPhrase(tokens []models.Token, phrase string) bool {
	for _, t := range tokens {
		if strings.Contains(t.Text, phrase) {
			return true
		}
	}
	return false
}
