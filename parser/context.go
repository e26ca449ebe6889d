package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/ava12/peg"
	"github.com/ava12/peg/source"
)

// parseContext holds all mutable state of one Parse call: the cursor with
// its backtracking stack, the rule name stack used for diagnostics, memo
// tables, and the failure heap. A fresh context is created for every parse,
// so a Parser instance is reusable with different inputs.
type parseContext struct {
	parser   *Parser
	src      *source.Source
	content  []byte
	pos      int
	saves    []int
	names    []string
	memos    map[string]map[int]*memoEntry
	failures failureHeap
	depth    int
	log      *logrus.Logger
}

func newParseContext(p *Parser, src *source.Source) *parseContext {
	return &parseContext{
		parser:  p,
		src:     src,
		content: src.Content(),
		saves:   make([]int, 0, 16),
		names:   make([]string, 0, 16),
		memos:   make(map[string]map[int]*memoEntry),
		log:     p.log,
	}
}

// save pushes the current position onto the backtracking stack.
// Every save must be paired with exactly one restore or drop.
func (pc *parseContext) save() {
	pc.saves = append(pc.saves, pc.pos)
}

// restore pops the topmost saved position and rewinds the cursor to it.
func (pc *parseContext) restore() {
	last := len(pc.saves) - 1
	pc.pos = pc.saves[last]
	pc.saves = pc.saves[:last]
}

// drop pops the topmost saved position without moving the cursor.
func (pc *parseContext) drop() {
	pc.saves = pc.saves[:len(pc.saves)-1]
}

func (pc *parseContext) remaining() []byte {
	return pc.content[pc.pos:]
}

func (pc *parseContext) atEnd() bool {
	return pc.pos >= len(pc.content)
}

// at captures the current position with line and column information.
func (pc *parseContext) at() source.Pos {
	return source.NewPos(pc.src, pc.pos)
}

// rule returns the name of the innermost named rule being parsed,
// or empty string at top level.
func (pc *parseContext) rule() string {
	if len(pc.names) == 0 {
		return ""
	}
	return pc.names[len(pc.names)-1]
}

// raise records f in the failure heap and returns it. Every failure goes
// through here exactly once, at the moment of creation, so that failures
// recovered by a choice further up the stack still count for the final
// deepest-failure report.
func (pc *parseContext) raise(f *peg.Failure) *peg.Failure {
	pc.failures.push(f)
	return f
}

// best returns the failure to report: the propagated one, unless some
// failure recovered along the way ranks strictly deeper.
func (pc *parseContext) best(propagated *peg.Failure) *peg.Failure {
	if len(pc.failures) == 0 || propagated.Rank() <= pc.failures[0].Rank() {
		return propagated
	}
	return pc.failures[0]
}

// call invokes the named rule at the current position, dispatching on its
// memoisation mode. The rule name is exposed to failures created while the
// body runs.
func (pc *parseContext) call(name string) (any, error) {
	rec := pc.parser.rules[name]
	if rec == nil {
		return nil, pc.raise(undefinedRuleError(pc.at(), pc.rule(), name))
	}

	if pc.parser.maxDepth > 0 && pc.depth >= pc.parser.maxDepth {
		return nil, pc.raise(depthError(pc.at(), name, pc.parser.maxDepth))
	}

	pc.depth++
	pc.names = append(pc.names, name)
	if pc.log != nil {
		pc.log.WithFields(logrus.Fields{"rule": name, "pos": pc.pos}).Trace("rule enter")
	}

	var (
		v any
		e error
	)
	switch rec.memo {
	case plainMemo:
		v, e = pc.callMemo(name, rec)
	case leftMemo:
		v, e = pc.callMemoLeft(name, rec)
	default:
		v, e = rec.body.match(pc)
	}

	if pc.log != nil {
		pc.log.WithFields(logrus.Fields{"rule": name, "pos": pc.pos, "matched": e == nil}).Trace("rule leave")
	}
	pc.names = pc.names[:len(pc.names)-1]
	pc.depth--

	return v, e
}
