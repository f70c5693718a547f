package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

func TestWrite(t *testing.T) {
	w := &CSVWriter{Columns: []string{"Account", "Description", "Actual"}}
	records := []models.Record{
		{
			"Account":     "7100",
			"Description": "INVOICE 1001",
			"Actual":      1234.5,
			"fiscal_year": 2024,
			"period":      6,
			"account_id":  int64(42),
		},
		{
			"Account":     "7100",
			"Description": "INVOICE 1002",
			"Actual":      nil,
			"fiscal_year": 2024,
			"period":      6,
			"account_id":  int64(42),
		},
	}

	var buf bytes.Buffer
	if err := w.Write(&buf, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: got %d, want 3", len(lines))
	}
	if lines[0] != "Account,Description,Actual,fiscal_year,period,account_id" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "7100,INVOICE 1001,1234.5,2024,6,42" {
		t.Errorf("row 1: got %q", lines[1])
	}
	if lines[2] != "7100,INVOICE 1002,,2024,6,42" {
		t.Errorf("row 2: got %q", lines[2])
	}
}

func TestWriteEmpty(t *testing.T) {
	w := &CSVWriter{Columns: []string{"Account"}}

	var buf bytes.Buffer
	if err := w.Write(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "Account,fiscal_year,period,account_id" {
		t.Errorf("header only: got %q", got)
	}
}
