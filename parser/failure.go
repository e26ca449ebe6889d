package parser

import (
	"container/heap"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ava12/peg"
	"github.com/ava12/peg/source"
)

// Match failure codes used by primitives and combinators:
const (
	// UnexpectedCharError indicates that a Char primitive did not match.
	UnexpectedCharError = peg.SyntaxErrors + iota

	// UnexpectedTextError indicates that a Lit primitive did not match.
	UnexpectedTextError

	// NoMatchError indicates that an Rx primitive did not match.
	NoMatchError

	// ExpectingEoiError indicates that input remained where end of input was required.
	ExpectingEoiError

	// SequenceError wraps a failure that crossed a rule boundary inside a sequence.
	SequenceError

	// ChoiceError indicates that every alternative of a choice failed.
	ChoiceError

	// EmptyListError indicates that a one-or-more repetition matched nothing.
	EmptyListError

	// BadValueError indicates that a user-supplied transform rejected a matched value.
	BadValueError

	// LeftRecursionError is the seed failure a left-recursive rule replays
	// while its first expansion is still being grown.
	LeftRecursionError
)

// Wiring error codes, reported when the grammar itself is unusable:
const (
	// UndefinedRuleError indicates a reference to a rule that was never defined.
	UndefinedRuleError = peg.ParserErrors + iota

	// NoRootError indicates that the grammar root rule was never defined.
	NoRootError

	// DepthError indicates that rule invocations nested deeper than the
	// configured limit, which usually means recursion that needs memoisation.
	DepthError
)

func unexpectedCharError(at source.Pos, rule string, c rune) *peg.Failure {
	return peg.FormatFailure(UnexpectedCharError, rule, at.Pos(), at.Line(), at.Col(), "expecting '%c'", c)
}

func unexpectedTextError(at source.Pos, rule, text string) *peg.Failure {
	return peg.FormatFailure(UnexpectedTextError, rule, at.Pos(), at.Line(), at.Col(), "expecting %q", text)
}

func noMatchError(at source.Pos, rule, expr string) *peg.Failure {
	return peg.FormatFailure(NoMatchError, rule, at.Pos(), at.Line(), at.Col(), "expecting match for /%s/", expr)
}

func expectingEoiError(at source.Pos, rule string) *peg.Failure {
	return peg.FormatFailure(ExpectingEoiError, rule, at.Pos(), at.Line(), at.Col(), "expecting end of input")
}

func sequenceError(at source.Pos, rule string, cause *peg.Failure) *peg.Failure {
	f := peg.FormatFailure(SequenceError, rule, at.Pos(), at.Line(), at.Col(), "error parsing sequence")
	f.Cause = cause
	return f
}

func choiceError(at source.Pos, rule string, alts []string, cause *peg.Failure) *peg.Failure {
	msg := "no matching alternative"
	if len(alts) > 0 {
		msg += ", expecting one of: " + strings.Join(alts, ", ")
	}
	f := peg.FormatFailure(ChoiceError, rule, at.Pos(), at.Line(), at.Col(), "%s", msg)
	f.Cause = cause
	return f
}

func emptyListError(at source.Pos, rule string, cause *peg.Failure) *peg.Failure {
	f := peg.FormatFailure(EmptyListError, rule, at.Pos(), at.Line(), at.Col(), "expecting at least one item")
	f.Cause = cause
	return f
}

func badValueError(at source.Pos, rule string, e error) *peg.Failure {
	return peg.FormatFailure(BadValueError, rule, at.Pos(), at.Line(), at.Col(), "%s", e.Error())
}

// leftRecursionError carries the sentinel position -1, ranking below any
// real failure so that a choice never reports the seed over an actual
// mismatch at the same position.
func leftRecursionError(rule string) *peg.Failure {
	return peg.FormatFailure(LeftRecursionError, rule, -1, 0, 0, "left-recursive rule '%s' has no expansion yet", rule)
}

func undefinedRuleError(at source.Pos, rule, name string) *peg.Failure {
	return peg.FormatFailure(UndefinedRuleError, rule, at.Pos(), at.Line(), at.Col(), "rule '%s' is not defined", name)
}

func noRootError(name string) *peg.Failure {
	return peg.FormatFailure(NoRootError, "", 0, 0, 0, "root rule '%s' is not defined", name)
}

func depthError(at source.Pos, rule string, limit int) *peg.Failure {
	return peg.FormatFailure(DepthError, rule, at.Pos(), at.Line(), at.Col(),
		"rule invocations nested deeper than %d, rule '%s' probably needs memoisation", limit, rule)
}

// asFailure coerces any error flowing through the engine to *peg.Failure.
// Errors returned by user transforms are converted at the raise site, so in
// practice everything already is one.
func asFailure(e error) *peg.Failure {
	if f, ok := e.(*peg.Failure); ok {
		return f
	}
	return &peg.Failure{Code: peg.SyntaxErrors, Message: e.Error()}
}

// failureHeap is a min-heap of failures ordered by rank, i.e. the failure
// that consumed the most input is at the top.
type failureHeap []*peg.Failure

func (h failureHeap) Len() int {
	return len(h)
}

func (h failureHeap) Less(i, j int) bool {
	return h[i].Rank() < h[j].Rank()
}

func (h failureHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *failureHeap) Push(x any) {
	*h = append(*h, x.(*peg.Failure))
}

func (h *failureHeap) Pop() any {
	old := *h
	last := len(old) - 1
	res := old[last]
	old[last] = nil
	*h = old[:last]
	return res
}

func (h *failureHeap) push(f *peg.Failure) {
	heap.Push(h, f)
}

// Explain renders a human-readable report for a failure: the input line it
// occurred on, a column marker, and the failure message. For example:
//
//	Error in rule 'num' at line 1: 12 + 01
//	                                    /\
//	Error: expecting match for /[1-9][0-9]*/
func Explain(f *peg.Failure, src *source.Source) string {
	header := fmt.Sprintf("Error in rule '%s' at line %d: ", f.Rule, f.Line)
	line := src.Line(f.Line)
	offset := utf8.RuneCountInString(header) + f.Col - 1
	if offset < 0 {
		offset = 0
	}
	return header + line + "\n" + strings.Repeat(" ", offset) + "/\\\n" + "Error: " + f.Message
}
