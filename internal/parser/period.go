package parser

import (
	"regexp"
	"strconv"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

var (
	// "FY 24 Period 6", the monthly statement variant.
	fyPeriodPattern = regexp.MustCompile(`FY (\d{2,4})\s+Period (\d{1,2})`)
	// "Fiscal Year: 2024 Start ...", the grant statement variant, no period.
	fiscalYearPattern = regexp.MustCompile(`Fiscal Year:\s+(\d{4})\s+Start`)
)

// ExtractPeriod finds the fiscal scope printed on a page. The monthly pattern
// is tried first; the grant pattern second, yielding a year with no period.
// Whichever pattern is attempted must match exactly once across the page:
// zero or multiple matches of it is a fatal ambiguity.
func ExtractPeriod(pg models.Page) (models.FiscalPeriod, error) {
	joined := joinTokenText(pg.Tokens)

	if ms := fyPeriodPattern.FindAllStringSubmatch(joined, -1); len(ms) > 0 {
		if len(ms) > 1 {
			return models.FiscalPeriod{}, &StructuralError{
				Page: pg.Number,
				Msg:  "fiscal year/period printed more than once",
			}
		}
		year, _ := strconv.Atoi(ms[0][1])
		period, _ := strconv.Atoi(ms[0][2])
		return models.FiscalPeriod{Year: expandYear(year), Period: period, HasPeriod: true}, nil
	}

	ms := fiscalYearPattern.FindAllStringSubmatch(joined, -1)
	switch len(ms) {
	case 0:
		return models.FiscalPeriod{}, &StructuralError{
			Page: pg.Number,
			Msg:  "no fiscal year/period found",
		}
	case 1:
		year, _ := strconv.Atoi(ms[0][1])
		return models.FiscalPeriod{Year: expandYear(year)}, nil
	default:
		return models.FiscalPeriod{}, &StructuralError{
			Page: pg.Number,
			Msg:  "fiscal year printed more than once",
		}
	}
}

// expandYear widens the two-digit fiscal years the monthly reports print.
// Known limitation: the expansion is unconditional, so years at or beyond
// 2100 and genuine pre-2000 years cannot be represented.
func expandYear(y int) int {
	if y < 100 {
		return y + 2000
	}
	return y
}

func joinTokenText(tokens []models.Token) string {
	buf := make([]byte, 0, 256)
	for _, t := range tokens {
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, t.Text...)
	}
	return string(buf)
}
