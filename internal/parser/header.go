package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

// headerRepairs lists the ambiguous payroll header labels and the column
// names they stand for, in ascending x order. The generator truncates the
// three pay-period columns to a bare "PayPeriod" and drops the suffixes of
// "Posn Suff", "Pay Cat" and "Pay Seq", so the raw header cannot key rows
// until these are relabeled.
var headerRepairs = []struct {
	label string
	names []string
}{
	{"PayPeriod", []string{"Pay Period Code", "Pay Period Begin", "Pay Period End"}},
	{"Posn", []string{"Posn", "Posn Suff"}},
	{"Pay", []string{"Pay Cat", "Pay Seq"}},
}

// RepairPayrollHeader relabels the ambiguous payroll header tokens by
// horizontal position: the duplicated labels are sorted by ascending x and
// assigned their full column names by fixed index. The token counts must
// match exactly; anything else means the header is not the one we know.
func RepairPayrollHeader(page int, header []models.Token) ([]models.Token, error) {
	out := make([]models.Token, len(header))
	copy(out, header)

	for _, rep := range headerRepairs {
		var idx []int
		for i, t := range out {
			if strings.TrimSpace(t.Text) == rep.label {
				idx = append(idx, i)
			}
		}
		if len(idx) != len(rep.names) {
			return nil, &StructuralError{
				Page: page,
				Msg:  fmt.Sprintf("payroll header has %d %q labels, want %d", len(idx), rep.label, len(rep.names)),
			}
		}
		sort.Slice(idx, func(a, b int) bool { return out[idx[a]].X0 < out[idx[b]].X0 })
		for i, j := range idx {
			out[j].Text = rep.names[i]
		}
	}
	return out, nil
}
