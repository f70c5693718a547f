// Package layout turns positioned tokens into table structure: it locates
// anchor rows by their label sets and assembles body tokens into column-keyed
// rows under a header. It knows nothing about statement semantics.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

// Options tunes row assembly.
type Options struct {
	// YTolerance is the maximum distance, in points, between a token's
	// vertical center and a line's center for the token to join that line.
	YTolerance float64
	// TieBreak biases assignment when a token's center sits between two
	// lines. Positive values favor the lower line, negative the upper.
	TieBreak float64
}

// DefaultOptions work for the 8pt Arial grid the statement generator emits.
func DefaultOptions() Options {
	return Options{YTolerance: 3.0, TieBreak: 0.0}
}

// line is a horizontal band of tokens built up during grouping.
type line struct {
	tokens []models.Token
	y0, y1 float64
}

func (l *line) center() float64 { return (l.y0 + l.y1) / 2 }

func (l *line) add(t models.Token) {
	l.tokens = append(l.tokens, t)
	if t.Y0 < l.y0 {
		l.y0 = t.Y0
	}
	if t.Y1 > l.y1 {
		l.y1 = t.Y1
	}
}

// groupLines clusters tokens into horizontal lines by vertical center.
// Lines come back in top-to-bottom order with tokens sorted left-to-right.
func groupLines(tokens []models.Token, opts Options) []*line {
	sorted := make([]models.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci := (sorted[i].Y0 + sorted[i].Y1) / 2
		cj := (sorted[j].Y0 + sorted[j].Y1) / 2
		if ci != cj {
			return ci < cj
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var lines []*line
	for _, t := range sorted {
		c := (t.Y0 + t.Y1) / 2
		var best *line
		bestDist := opts.YTolerance
		for _, ln := range lines {
			d := c - ln.center()
			if d < 0 {
				d = -d
			}
			// TieBreak shifts the effective distance so that a token
			// sitting exactly between two candidate lines lands on a
			// deterministic side.
			if ln.center() > c {
				d -= opts.TieBreak
			}
			if d <= bestDist {
				best = ln
				bestDist = d
			}
		}
		if best == nil {
			nl := &line{y0: t.Y0, y1: t.Y1}
			nl.tokens = []models.Token{t}
			lines = append(lines, nl)
			continue
		}
		best.add(t)
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].center() < lines[j].center() })
	for _, ln := range lines {
		sort.SliceStable(ln.tokens, func(i, j int) bool { return ln.tokens[i].X0 < ln.tokens[j].X0 })
	}
	return lines
}

// hasLabels reports whether the line's tokens jointly contain every label.
// A label matches a single token's trimmed text exactly.
func (l *line) hasLabels(labels []string) bool {
	for _, want := range labels {
		found := false
		for _, t := range l.tokens {
			if strings.TrimSpace(t.Text) == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FindRowAttr locates the unique line whose tokens jointly contain all of
// labels and returns the named bounding-box attribute of that line
// ("x0", "x1", "y0" or "y1"). Zero matches and multiple matches are distinct
// failures so callers can tell a missing anchor from an ambiguous one.
func FindRowAttr(tokens []models.Token, labels []string, attr string) (float64, error) {
	lines := groupLines(tokens, DefaultOptions())
	var matches []*line
	for _, ln := range lines {
		if ln.hasLabels(labels) {
			matches = append(matches, ln)
		}
	}
	switch len(matches) {
	case 0:
		return 0, &AnchorError{Labels: labels, Matches: 0}
	case 1:
	default:
		return 0, &AnchorError{Labels: labels, Matches: len(matches)}
	}

	m := matches[0]
	switch attr {
	case "y0":
		return m.y0, nil
	case "y1":
		return m.y1, nil
	case "x0":
		x := m.tokens[0].X0
		for _, t := range m.tokens {
			if t.X0 < x {
				x = t.X0
			}
		}
		return x, nil
	case "x1":
		x := m.tokens[0].X1
		for _, t := range m.tokens {
			if t.X1 > x {
				x = t.X1
			}
		}
		return x, nil
	}
	return 0, fmt.Errorf("layout: unknown row attribute %q", attr)
}

// AnchorError reports an anchor-row lookup that did not match exactly once.
type AnchorError struct {
	Labels  []string
	Matches int
}

func (e *AnchorError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("layout: no row matches labels %v", e.Labels)
	}
	return fmt.Sprintf("layout: %d rows match labels %v, expected exactly one", e.Matches, e.Labels)
}

// AssembleRows builds column-keyed rows from body tokens under the given
// header tokens. Each header token defines a column named by its text and
// spanning its horizontal extent; each body token is assigned to the column
// it overlaps most (nearest column center when it overlaps none). Tokens
// landing in the same column on the same line are joined left to right.
func AssembleRows(header []models.Token, body []models.Token, opts Options) []models.Row {
	cols := make([]models.Token, len(header))
	copy(cols, header)
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].X0 < cols[j].X0 })

	var rows []models.Row
	for _, ln := range groupLines(body, opts) {
		row := models.Row{}
		for _, t := range ln.tokens {
			name := columnFor(cols, t)
			if prev, ok := row[name]; ok {
				row[name] = joinTokens(prev, t)
				continue
			}
			row[name] = t
		}
		rows = append(rows, row)
	}
	return rows
}

// columnFor picks the header column a body token belongs to.
func columnFor(cols []models.Token, t models.Token) string {
	bestIdx := 0
	bestOverlap := 0.0
	for i, c := range cols {
		lo := t.X0
		if c.X0 > lo {
			lo = c.X0
		}
		hi := t.X1
		if c.X1 < hi {
			hi = c.X1
		}
		if ov := hi - lo; ov > bestOverlap {
			bestOverlap = ov
			bestIdx = i
		}
	}
	if bestOverlap > 0 {
		return strings.TrimSpace(cols[bestIdx].Text)
	}

	// No horizontal overlap with any column: fall back to nearest center.
	tc := (t.X0 + t.X1) / 2
	bestDist := -1.0
	for i, c := range cols {
		cc := (c.X0 + c.X1) / 2
		d := tc - cc
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return strings.TrimSpace(cols[bestIdx].Text)
}

func joinTokens(a, b models.Token) models.Token {
	if b.X0 < a.X0 {
		a, b = b, a
	}
	out := a
	out.Text = strings.TrimRight(a.Text, " ") + " " + strings.TrimLeft(b.Text, " ")
	if b.X1 > out.X1 {
		out.X1 = b.X1
	}
	if b.Y0 < out.Y0 {
		out.Y0 = b.Y0
	}
	if b.Y1 > out.Y1 {
		out.Y1 = b.Y1
	}
	return out
}

// TokensBetween returns the tokens whose vertical centers lie strictly
// between top and bottom.
func TokensBetween(tokens []models.Token, top, bottom float64) []models.Token {
	var out []models.Token
	for _, t := range tokens {
		c := (t.Y0 + t.Y1) / 2
		if c > top && c < bottom {
			out = append(out, t)
		}
	}
	return out
}

// TokensWithin returns the tokens whose vertical centers lie in [top, bottom].
func TokensWithin(tokens []models.Token, top, bottom float64) []models.Token {
	var out []models.Token
	for _, t := range tokens {
		c := (t.Y0 + t.Y1) / 2
		if c >= top && c <= bottom {
			out = append(out, t)
		}
	}
	return out
}
