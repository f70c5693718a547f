package parser

import (
	"regexp"

	"github.com/insightdelivered/ledger-extractor/internal/layout"
	"github.com/insightdelivered/ledger-extractor/internal/models"
)

// footerPattern matches the run timestamp the generator prints at the bottom
// of every page. It bounds the table body from below.
var footerPattern = regexp.MustCompile(`\d{1,2}:\d{2}\s*[AP]M`)

// rowMergeTolerance is how close, in points, a row's top must be to the
// previous row's bottom for the two to count as one wrapped logical row.
const rowMergeTolerance = 1.0

// Accumulator collects the rows of one logical section across however many
// physical pages it spans. Feed it pages until AddPage reports done.
type Accumulator struct {
	cfg  *SectionConfig
	opts layout.Options
	rows []models.Row
}

// NewAccumulator starts an empty section for the given family.
func NewAccumulator(cfg *SectionConfig) *Accumulator {
	return &Accumulator{cfg: cfg, opts: layout.DefaultOptions()}
}

// Rows returns the rows accumulated so far, in reading order.
func (a *Accumulator) Rows() []models.Row { return a.rows }

// AddPage extracts the table rows of one page and appends them to the
// section. It reports done=true when the page carries the section's bold
// termination marker; that page's rows are still recorded.
func (a *Accumulator) AddPage(pg models.Page) (done bool, err error) {
	for _, t := range pg.Tokens {
		if !models.KnownFont(t.Font) {
			return false, &UnknownFontError{Page: pg.Number, Font: t.Font, Text: t.Text}
		}
	}

	headerTop, err := layout.FindRowAttr(pg.Tokens, a.cfg.HeaderLabels, "y0")
	if err != nil {
		return false, &StructuralError{Page: pg.Number, Msg: "table header", Err: err}
	}
	headerBottom, err := layout.FindRowAttr(pg.Tokens, a.cfg.HeaderLabels, "y1")
	if err != nil {
		return false, &StructuralError{Page: pg.Number, Msg: "table header", Err: err}
	}

	footerTop, ok := findFooter(pg.Tokens, headerBottom)
	if !ok {
		return false, &StructuralError{Page: pg.Number, Msg: "page footer timestamp missing"}
	}

	header := layout.TokensWithin(pg.Tokens, headerTop, headerBottom)
	if a.cfg.RepairHeader {
		header, err = RepairPayrollHeader(pg.Number, header)
		if err != nil {
			return false, err
		}
	}

	body := layout.TokensBetween(pg.Tokens, headerBottom, footerTop)
	rows := layout.AssembleRows(header, body, a.opts)
	if a.cfg.MergeAbuttingRows {
		rows = mergeAbuttingRows(rows)
	}
	a.rows = append(a.rows, rows...)

	for _, r := range rows {
		if t, present := r[a.cfg.LabelField]; present && t.Bold() && r.Text(a.cfg.LabelField) == a.cfg.TerminationText {
			return true, nil
		}
	}
	return false, nil
}

// findFooter returns the top edge of the bottom-most timestamp token below
// the table header.
func findFooter(tokens []models.Token, below float64) (float64, bool) {
	best := 0.0
	found := false
	for _, t := range tokens {
		if t.Y0 > below && footerPattern.MatchString(t.Text) {
			if !found || t.Y0 > best {
				best = t.Y0
				found = true
			}
		}
	}
	return best, found
}

// mergeAbuttingRows folds rows whose vertical bands touch into one logical
// row. The payroll report wraps long lines onto an immediately following
// band; transactions never wrap, so this only runs for payroll.
func mergeAbuttingRows(rows []models.Row) []models.Row {
	var out []models.Row
	for _, r := range rows {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if rowTop(r)-rowBottom(prev) <= rowMergeTolerance {
				out[len(out)-1] = mergeRows(prev, r)
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func mergeRows(a, b models.Row) models.Row {
	merged := models.Row{}
	for col, t := range a {
		merged[col] = t
	}
	for col, t := range b {
		if prev, ok := merged[col]; ok {
			joined := prev
			joined.Text = prev.Text + " " + t.Text
			if t.X1 > joined.X1 {
				joined.X1 = t.X1
			}
			if t.Y1 > joined.Y1 {
				joined.Y1 = t.Y1
			}
			merged[col] = joined
			continue
		}
		merged[col] = t
	}
	return merged
}

func rowTop(r models.Row) float64 {
	first := true
	top := 0.0
	for _, t := range r {
		if first || t.Y0 < top {
			top = t.Y0
			first = false
		}
	}
	return top
}

func rowBottom(r models.Row) float64 {
	first := true
	bottom := 0.0
	for _, t := range r {
		if first || t.Y1 > bottom {
			bottom = t.Y1
			first = false
		}
	}
	return bottom
}
