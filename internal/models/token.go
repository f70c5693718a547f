package models

import "strings"

// Token is a single positioned text unit decoded from a statement page.
// Coordinates are in PDF points with Y increasing downward, so Y0 is the top
// edge of the token and Y1 the bottom. Tokens are produced by the extractor
// and never mutated afterwards.
type Token struct {
	Text string
	Font string
	X0   float64
	X1   float64
	Y0   float64
	Y1   float64
}

// Bold reports whether the token is set in a bold face. The statement
// generator only ever emits Arial variants, so checking the face name is
// sufficient.
func (t Token) Bold() bool {
	return strings.Contains(t.Font, "Bold")
}

// knownFonts lists the four Arial variants the statement generator uses.
// Any other font on a page means the page was not produced by the generator
// we understand, and the run must stop.
var knownFonts = map[string]bool{
	"Arial":            true,
	"Arial,Bold":       true,
	"Arial,Italic":     true,
	"Arial,BoldItalic": true,
}

// KnownFont reports whether the font family is one of the accepted variants.
func KnownFont(name string) bool {
	return knownFonts[name]
}

// Page holds the decoded tokens of one physical page. Number is 1-based.
type Page struct {
	Number int
	Tokens []Token
}

// Row maps a table column name to the token occupying that column on one
// physical line. Rows are scoped to a single page-processing pass.
type Row map[string]Token

// Text returns the trimmed text of the named column, or "" when absent.
func (r Row) Text(col string) string {
	t, ok := r[col]
	if !ok {
		return ""
	}
	return strings.TrimSpace(t.Text)
}

// Has reports whether the row has a token in the named column.
func (r Row) Has(col string) bool {
	_, ok := r[col]
	return ok
}
