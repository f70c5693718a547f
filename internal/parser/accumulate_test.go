package parser

import (
	"errors"
	"testing"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

func TestAccumulatorSpansPages(t *testing.T) {
	// The section continues onto page 2; only page 2 carries the bold
	// termination row.
	p1 := transactionPage(1,
		transactionDetail(120, "7100", "I0001", "INVOICE 1001", "05-JAN-2024", "100.00"),
		transactionDetail(132, "7100", "I0002", "INVOICE 1002", "06-JAN-2024", "200.00"),
		transactionSummary(144, "7100", "Lab Supplies"),
	)
	p2 := transactionPage(2,
		transactionDetail(120, "7200", "T0088", "TRAVEL 88", "09-JAN-2024", "300.00"),
		transactionSummary(132, "7200", "Domestic Travel"),
		netTotalsRow(144),
	)

	acc := NewAccumulator(TransactionSection)

	done, err := acc.AddPage(p1)
	if err != nil {
		t.Fatalf("page 1: unexpected error: %v", err)
	}
	if done {
		t.Fatal("page 1 has no termination row, section must continue")
	}

	done, err = acc.AddPage(p2)
	if err != nil {
		t.Fatalf("page 2: unexpected error: %v", err)
	}
	if !done {
		t.Fatal("page 2 carries the bold Net Totals row, section must end")
	}

	rows := acc.Rows()
	if len(rows) != 6 {
		t.Fatalf("rows: got %d, want 6", len(rows))
	}
	if rows[0].Text("Description") != "INVOICE 1001" {
		t.Errorf("rows[0] description: got %q", rows[0].Text("Description"))
	}
	if rows[3].Text("Description") != "TRAVEL 88" {
		t.Errorf("rows[3] description: got %q", rows[3].Text("Description"))
	}

	recs, err := Reconcile(rows, TransactionSection, 7, testPeriod)
	if err != nil {
		t.Fatalf("reconcile: unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records: got %d, want 3", len(recs))
	}
	if recs[2]["Acct Descr"] != "Domestic Travel" {
		t.Errorf("recs[2] acct descr: got %v", recs[2]["Acct Descr"])
	}
}

func TestAccumulatorRejectsUnknownFont(t *testing.T) {
	pg := transactionPage(1,
		transactionDetail(120, "7100", "I0001", "INVOICE 1001", "05-JAN-2024", "100.00"),
	)
	pg.Tokens = append(pg.Tokens, tok("stray", "Helvetica", 40, 300, 30))

	_, err := NewAccumulator(TransactionSection).AddPage(pg)
	if err == nil {
		t.Fatal("expected error for token outside the font whitelist")
	}
	var fontErr *UnknownFontError
	if !errors.As(err, &fontErr) {
		t.Fatalf("expected UnknownFontError, got %T", err)
	}
	if fontErr.Font != "Helvetica" {
		t.Errorf("font: got %q", fontErr.Font)
	}
}

func TestAccumulatorMissingFooterIsStructural(t *testing.T) {
	tokens := []models.Token{banner("Detail Transaction Activity", 20)}
	tokens = append(tokens, transactionHeader(100)...)
	tokens = append(tokens, transactionDetail(120, "7100", "I0001", "X", "05-JAN-2024", "1.00")...)
	pg := models.Page{Number: 1, Tokens: tokens}

	_, err := NewAccumulator(TransactionSection).AddPage(pg)
	if err == nil {
		t.Fatal("expected error for page without footer timestamp")
	}
	var structErr *StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructuralError, got %T", err)
	}
}

// payrollPage assembles a synthetic payroll page: broken header, a detail row
// wrapped onto a second band, the bold summary row and the termination row.
func payrollPage(number int) models.Page {
	tokens := []models.Token{banner("Payroll Expense Detail", 20)}
	tokens = append(tokens, payrollRawHeader(100)...)

	// Detail row.
	tokens = append(tokens,
		arial("SMITH, JANE", 40, 120, 60),
		arial("P01234", 120, 120, 30),
		arial("00", 150, 120, 12),
		arial("MN 5", 180, 120, 24),
		arial("01/05/2024", 230, 120, 44),
		arial("01/19/2024", 280, 120, 44),
		arial("R", 330, 120, 8),
		arial("1", 354, 120, 8),
		arial("6100", 380, 120, 24),
		arial("F0012345", 424, 120, 40),
		arial("80.00", 470, 120, 26),
		arial("1.00", 504, 120, 20),
		arial("32.50", 530, 120, 26),
		arial("3,250.00", 566, 120, 36),
	)
	// Wrapped continuation of the name, printed on the band directly below.
	tokens = append(tokens, arial("PROFESSOR", 40, 128, 48))

	tokens = append(tokens,
		arialBold("Salaries and Wages", 40, 140, 90),
		arialBold("6100", 380, 140, 24),
	)
	tokens = append(tokens,
		arialBold("Total Personnel Expense", 40, 152, 100),
		arialBold("3,250.00", 566, 152, 36),
	)
	tokens = append(tokens, footer(700))
	return models.Page{Number: number, Tokens: tokens}
}

func TestAccumulatorPayrollPage(t *testing.T) {
	acc := NewAccumulator(PayrollSection)

	done, err := acc.AddPage(payrollPage(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Fatal("page carries the bold Total Personnel Expense row, section must end")
	}

	rows := acc.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}

	// The wrapped band folded into the detail row.
	if got := rows[0].Text("Name"); got != "SMITH, JANE PROFESSOR" {
		t.Errorf("merged name: got %q", got)
	}
	// Header repair resolved the ambiguous labels into distinct columns.
	if got := rows[0].Text("Pay Period Begin"); got != "01/05/2024" {
		t.Errorf("pay period begin: got %q", got)
	}
	if got := rows[0].Text("Pay Period End"); got != "01/19/2024" {
		t.Errorf("pay period end: got %q", got)
	}
	if got := rows[0].Text("Posn Suff"); got != "00" {
		t.Errorf("posn suff: got %q", got)
	}

	recs, err := Reconcile(rows, PayrollSection, 9, testPeriod)
	if err != nil {
		t.Fatalf("reconcile: unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records: got %d, want 1", len(recs))
	}
	if recs[0]["Acct Descr"] != "Salaries and Wages" {
		t.Errorf("acct descr: got %v", recs[0]["Acct Descr"])
	}
}
