// Package parser implements a packrat PEG combinator engine with support
// for left-recursive rules.
//
// A grammar is a set of named rules composed from primitives (Char, Lit,
// Rx, End) and combinators (Seq, First, Opt, Many, Many1, Sep, Apply).
// Rules reference each other by name through Grammar.Ref, so definitions
// may come in any order. A Parser drives the grammar's root rule over an
// input and returns the value it produced, or the failure that reached
// furthest into the input.
package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/ava12/peg/source"
)

// DefaultMaxDepth is the rule nesting limit applied unless WithMaxDepth
// overrides it. Deep enough for any sane grammar and input, shallow enough
// to fail before the goroutine stack does.
const DefaultMaxDepth = 10000

// Option adjusts a Parser being created by New.
type Option = func(p *Parser)

// WithEndOfInput makes the parser require that the root rule consumes the
// whole input, without the grammar spelling out an End rule.
func WithEndOfInput() Option {
	return func(p *Parser) {
		p.eoi = true
	}
}

// WithLogger makes the parser emit a trace-level log line on every rule
// entry and exit. Meant for debugging grammars; expensive on large inputs.
func WithLogger(log *logrus.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithMaxDepth overrides DefaultMaxDepth. n <= 0 disables the check.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// Parser drives a grammar. The instance carries no per-parse state: every
// Parse call starts a fresh session (cursor, memo tables, failure heap),
// so one instance may be reused with different inputs. Concurrent Parse
// calls on one instance are not supported.
type Parser struct {
	rules    map[string]*ruleRec
	root     string
	eoi      bool
	maxDepth int
	log      *logrus.Logger
}

// New creates a parser for the grammar. The grammar must be complete by
// now: a missing root or a Ref to a rule that was never defined is
// reported as an error. Later changes to g do not affect the parser.
func New(g *Grammar, opts ...Option) (*Parser, error) {
	e := g.check()
	if e != nil {
		return nil, e
	}

	rules := make(map[string]*ruleRec, len(g.rules))
	for name, rec := range g.rules {
		rules[name] = rec
	}

	p := &Parser{rules: rules, root: g.root, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse runs the root rule against text and returns its value. On failure
// the returned error is the *peg.Failure that reached furthest into the
// input during the whole attempt, not necessarily the one the root rule
// propagated; its cause chain explains how it came about.
func (p *Parser) Parse(text string) (any, error) {
	return p.ParseSource(source.New("", []byte(text)))
}

// ParseSource is Parse for a prepared source; failure lines and columns
// then refer to that source's lines. The returned failure does not record
// the source name.
func (p *Parser) ParseSource(src *source.Source) (any, error) {
	pc := newParseContext(p, src)
	v, e := pc.call(p.root)
	if e == nil && p.eoi && !pc.atEnd() {
		e = pc.raise(expectingEoiError(pc.at(), ""))
	}
	if e != nil {
		return nil, pc.best(asFailure(e))
	}

	return v, nil
}
