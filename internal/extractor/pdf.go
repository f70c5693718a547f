// Package extractor decodes a statement PDF into pages of positioned,
// font-attributed tokens. It is the only place the PDF libraries are touched;
// everything downstream works on models.Token values.
package extractor

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

// Options tunes token decoding.
type Options struct {
	// MergeSensitivity is the maximum horizontal gap, in points, between two
	// text pieces on the same baseline for them to be merged into one token.
	// The statement generator splits cell text into pieces mid-word, so some
	// merging is always required.
	MergeSensitivity float64
}

// DefaultOptions match the typesetting of the known report families.
func DefaultOptions() Options {
	return Options{MergeSensitivity: 1.0}
}

// Document is an open statement PDF.
type Document struct {
	path  string
	file  *os.File
	rdr   *pdf.Reader
	pages int
	opts  Options
}

// Open validates the file and prepares it for page iteration.
func Open(path string, opts Options) (doc *Document, err error) {
	// The PDF libraries panic on some malformed files; fold that into an
	// ordinary error.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("extractor: PDF library crashed opening %s: %v", path, r)
		}
	}()

	if err := api.ValidateFile(path, nil); err != nil {
		return nil, fmt.Errorf("extractor: %s is not a valid PDF: %w", path, err)
	}
	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("extractor: counting pages of %s: %w", path, err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("extractor: %s has no pages", path)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extractor: opening %s: %w", path, err)
	}
	if opts.MergeSensitivity <= 0 {
		opts.MergeSensitivity = DefaultOptions().MergeSensitivity
	}
	return &Document{path: path, file: f, rdr: r, pages: pages, opts: opts}, nil
}

// PageCount returns the number of physical pages in the document.
func (d *Document) PageCount() int { return d.pages }

// Close releases the underlying file.
func (d *Document) Close() error { return d.file.Close() }

// Pages returns a forward-only iterator over [start, end). Pages are 1-based;
// start <= 0 means the first page and end <= 0 means one past the last.
func (d *Document) Pages(start, end int) *PageIterator {
	if start <= 0 {
		start = 1
	}
	if end <= 0 || end > d.pages+1 {
		end = d.pages + 1
	}
	return &PageIterator{doc: d, next: start, end: end}
}

// PageIterator walks a document strictly forward, one page at a time.
type PageIterator struct {
	doc  *Document
	next int
	end  int
}

// Done reports whether the stream is exhausted.
func (it *PageIterator) Done() bool { return it.next >= it.end }

// Index returns the 1-based number of the page the next Advance will decode.
func (it *PageIterator) Index() int { return it.next }

// Advance decodes the next page and moves the iterator past it.
func (it *PageIterator) Advance() (pg models.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor: PDF library crashed on page %d: %v", pg.Number, r)
		}
	}()

	if it.Done() {
		return models.Page{}, fmt.Errorf("extractor: advance past end of page stream")
	}
	n := it.next
	it.next++
	pg.Number = n

	page := it.doc.rdr.Page(n)
	if page.V.IsNull() {
		return models.Page{}, fmt.Errorf("extractor: page %d is missing from the page tree", n)
	}
	pg.Tokens = decodeTokens(page, it.doc.opts)
	return pg, nil
}

// decodeTokens converts the page's raw text pieces into merged tokens with
// top-down Y coordinates.
func decodeTokens(page pdf.Page, opts Options) []models.Token {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}
	height := mediaBoxHeight(page)

	raw := make([]models.Token, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		raw = append(raw, models.Token{
			Text: t.S,
			Font: t.Font,
			X0:   t.X,
			X1:   t.X + t.W,
			Y0:   height - t.Y - t.FontSize,
			Y1:   height - t.Y,
		})
	}
	return mergeGlyphs(raw, opts.MergeSensitivity)
}

// mergeGlyphs joins adjacent same-font pieces on a shared baseline into one
// token when the horizontal gap between them is within the sensitivity.
func mergeGlyphs(raw []models.Token, sensitivity float64) []models.Token {
	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].Y1 != raw[j].Y1 {
			return raw[i].Y1 < raw[j].Y1
		}
		return raw[i].X0 < raw[j].X0
	})

	var out []models.Token
	for _, t := range raw {
		if len(out) > 0 {
			prev := &out[len(out)-1]
			sameBaseline := abs(prev.Y1-t.Y1) < 0.2
			gap := t.X0 - prev.X1
			if sameBaseline && prev.Font == t.Font && gap <= sensitivity && gap > -0.5 {
				if gap > 0.2 && !strings.HasSuffix(prev.Text, " ") && !strings.HasPrefix(t.Text, " ") {
					prev.Text += " "
				}
				prev.Text += t.Text
				if t.X1 > prev.X1 {
					prev.X1 = t.X1
				}
				if t.Y0 < prev.Y0 {
					prev.Y0 = t.Y0
				}
				continue
			}
		}
		out = append(out, t)
	}

	// Drop pieces that merged into pure whitespace.
	kept := out[:0]
	for _, t := range out {
		if strings.TrimSpace(t.Text) != "" {
			kept = append(kept, t)
		}
	}
	return kept
}

// mediaBoxHeight resolves the page height, walking up the page tree for an
// inherited MediaBox. US Letter is assumed when none is found.
func mediaBoxHeight(page pdf.Page) float64 {
	v := page.V
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			return mb.Index(3).Float64() - mb.Index(1).Float64()
		}
		v = v.Key("Parent")
	}
	return 792
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
