package parser

import (
	"errors"
	"fmt"
)

// ErrEmptyDataPage marks a page that carries the report banner but no account
// block, which the generator emits for accounts with no activity. It is the
// only recoverable condition in the parser: the caller skips the page.
var ErrEmptyDataPage = errors.New("page carries no account data")

// StructuralError reports a page whose anchors are absent or ambiguous where
// exactly one was expected. The input cannot be trusted, so the run stops.
type StructuralError struct {
	Page int
	Msg  string
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("structural mismatch on page %d: %s: %v", e.Page, e.Msg, e.Err)
	}
	return fmt.Sprintf("structural mismatch on page %d: %s", e.Page, e.Msg)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// UnknownFontError reports a token set in a font outside the accepted Arial
// variants. Foreign fonts mean the page was not typeset by the generator this
// parser understands.
type UnknownFontError struct {
	Page int
	Font string
	Text string
}

func (e *UnknownFontError) Error() string {
	return fmt.Sprintf("unknown font %q on page %d (token %q)", e.Font, e.Page, e.Text)
}

// UnknownPageTypeError reports a page matching none of the known report
// family markers. There is no silent skip for unrecognized pages.
type UnknownPageTypeError struct {
	Page int
}

func (e *UnknownPageTypeError) Error() string {
	return fmt.Sprintf("page %d matches no known report family", e.Page)
}

// ReconciliationError reports a violated invariant while attaching summary
// descriptions to detail rows: a batch/account mismatch, a non-aggregate row
// missing its required field, or a batch left unflushed at section end.
type ReconciliationError struct {
	Msg string
}

func (e *ReconciliationError) Error() string {
	return "reconciliation invariant violated: " + e.Msg
}
