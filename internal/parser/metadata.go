package parser

import (
	"errors"
	"sort"
	"strings"

	"github.com/insightdelivered/ledger-extractor/internal/layout"
	"github.com/insightdelivered/ledger-extractor/internal/models"
)

// ExtractAccountFields reads the account metadata block printed between the
// page's two anchor rows and returns a {field: value, field_descr:
// description} map ready for the account upsert.
//
// The block is a three-column listing: labels on the left, values next,
// descriptions rightmost. Columns are told apart purely by distinct
// horizontal start position.
//
// A page whose upper anchor is missing but which still prints a lone "Chart"
// label carries no account data for this run; that is the recoverable
// empty-data-page condition. A page with neither is structurally broken.
func ExtractAccountFields(pg models.Page, cfg *SectionConfig) (map[string]string, error) {
	top, err := layout.FindRowAttr(pg.Tokens, cfg.MetaUpperLabels, "y1")
	if err != nil {
		var anchorErr *layout.AnchorError
		if errors.As(err, &anchorErr) && anchorErr.Matches == 0 {
			if pageContainsPhrase(pg.Tokens, "Chart") {
				return nil, ErrEmptyDataPage
			}
			return nil, &StructuralError{Page: pg.Number, Msg: "account block upper anchor missing", Err: err}
		}
		return nil, &StructuralError{Page: pg.Number, Msg: "account block upper anchor", Err: err}
	}
	bottom, err := layout.FindRowAttr(pg.Tokens, cfg.MetaLowerLabels, "y0")
	if err != nil {
		return nil, &StructuralError{Page: pg.Number, Msg: "account block lower anchor", Err: err}
	}

	band := layout.TokensBetween(pg.Tokens, top, bottom)
	groups := groupByStartX(band)
	if len(groups) < 2 {
		return nil, &StructuralError{Page: pg.Number, Msg: "account block has no value column"}
	}

	labels := groups[0]
	values := groups[1]
	var descrs []models.Token
	if len(groups) > 2 {
		descrs = groups[2]
	}

	fields := make(map[string]string)
	for _, lab := range labels {
		name := strings.TrimSuffix(strings.TrimSpace(lab.Text), ":")
		if name == "" {
			continue
		}
		if v, ok := tokenOnSameLine(values, lab); ok {
			fields[name] = strings.TrimSpace(v.Text)
		}
		if d, ok := tokenOnSameLine(descrs, lab); ok {
			fields[name+"_descr"] = strings.TrimSpace(d.Text)
		}
	}
	if len(fields) == 0 {
		return nil, &StructuralError{Page: pg.Number, Msg: "account block is empty"}
	}
	return fields, nil
}

// groupByStartX partitions tokens into columns by distinct horizontal start
// position, left to right. Starts within a point of each other count as the
// same column.
func groupByStartX(tokens []models.Token) [][]models.Token {
	sorted := make([]models.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X0 < sorted[j].X0 })

	var groups [][]models.Token
	for _, t := range sorted {
		if n := len(groups); n > 0 {
			last := groups[n-1]
			if t.X0-last[0].X0 <= 1.0 {
				groups[n-1] = append(last, t)
				continue
			}
		}
		groups = append(groups, []models.Token{t})
	}
	return groups
}

// tokenOnSameLine finds the token vertically overlapping lab, if any.
func tokenOnSameLine(tokens []models.Token, lab models.Token) (models.Token, bool) {
	lc := (lab.Y0 + lab.Y1) / 2
	for _, t := range tokens {
		if lc >= t.Y0-0.5 && lc <= t.Y1+0.5 {
			return t, true
		}
	}
	return models.Token{}, false
}
