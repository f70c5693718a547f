package parser

import (
	"errors"
	"testing"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

func periodPage(texts ...string) models.Page {
	var tokens []models.Token
	y := 20.0
	for _, s := range texts {
		tokens = append(tokens, arial(s, 40, y, float64(8*len(s))))
		y += 12
	}
	return models.Page{Number: 1, Tokens: tokens}
}

func TestExtractPeriod(t *testing.T) {
	tests := []struct {
		name       string
		page       models.Page
		wantYear   int
		wantPeriod int
		hasPeriod  bool
		wantErr    bool
	}{
		{
			name:       "two digit year with period",
			page:       periodPage("FY 24 Period 6"),
			wantYear:   2024,
			wantPeriod: 6,
			hasPeriod:  true,
		},
		{
			name:       "four digit year with period",
			page:       periodPage("FY 2024 Period 12"),
			wantYear:   2024,
			wantPeriod: 12,
			hasPeriod:  true,
		},
		{
			name:      "grant variant without period",
			page:      periodPage("Fiscal Year: 2024 Start and End Dates"),
			wantYear:  2024,
			hasPeriod: false,
		},
		{
			name:    "no fiscal scope at all",
			page:    periodPage("nothing useful here"),
			wantErr: true,
		},
		{
			name:    "duplicate period line is ambiguous",
			page:    periodPage("FY 24 Period 6", "FY 24 Period 7"),
			wantErr: true,
		},
		{
			name:    "duplicate grant line is ambiguous",
			page:    periodPage("Fiscal Year: 2024 Start", "Fiscal Year: 2025 Start"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := ExtractPeriod(tt.page)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", fp)
				}
				var structErr *StructuralError
				if !errors.As(err, &structErr) {
					t.Errorf("expected StructuralError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fp.Year != tt.wantYear {
				t.Errorf("year: got %d, want %d", fp.Year, tt.wantYear)
			}
			if fp.HasPeriod != tt.hasPeriod {
				t.Errorf("hasPeriod: got %v, want %v", fp.HasPeriod, tt.hasPeriod)
			}
			if tt.hasPeriod && fp.Period != tt.wantPeriod {
				t.Errorf("period: got %d, want %d", fp.Period, tt.wantPeriod)
			}
		})
	}
}
