package parser

import (
	"fmt"

	"github.com/ava12/peg/source"
)

type memoKind int

const (
	noMemo memoKind = iota
	plainMemo
	leftMemo
)

type ruleRec struct {
	body Rule
	memo memoKind
}

// Grammar is a name-keyed registry of rule bodies. Rules reference each
// other through Ref, by name, so a rule may be mentioned before it is
// defined; the whole set is resolved when a Parser is created.
//
// Grammar is a builder, not meant for concurrent use; misuse (defining the
// same name twice, mixing memoisation modes) panics at definition time.
type Grammar struct {
	root  string
	rules map[string]*ruleRec
	refs  map[string]bool
}

// NewGrammar creates a grammar whose parse entry point is the rule named
// root. The root rule itself may be defined later.
func NewGrammar(root string) *Grammar {
	g := &Grammar{
		root:  root,
		rules: make(map[string]*ruleRec),
		refs:  make(map[string]bool),
	}
	g.refs[root] = true
	return g
}

// Root returns the name of the grammar's entry rule.
func (g *Grammar) Root() string {
	return g.root
}

func (g *Grammar) define(name string, body Rule, memo memoKind) *Grammar {
	if g.rules[name] != nil {
		panic(fmt.Sprintf("rule '%s' is already defined", name))
	}

	g.rules[name] = &ruleRec{body, memo}
	return g
}

// Define binds body to name. Failures raised while body runs carry the
// name; Ref(name) invokes the body. Defining the same name twice panics.
func (g *Grammar) Define(name string, body Rule) *Grammar {
	return g.define(name, body, noMemo)
}

// DefineMemo is Define with packrat memoisation: the body runs at most
// once per input position, subsequent invocations replay the recorded
// result or failure. Must not be used for left-recursive rules.
func (g *Grammar) DefineMemo(name string, body Rule) *Grammar {
	return g.define(name, body, plainMemo)
}

// DefineMemoLeft is Define for rules that invoke themselves at their left
// edge. The body is re-run at the same position until its parse stops
// growing, each pass picking up the previous best expansion through the
// memo table. The right-hand side of a binary construct inside body must
// use a non-left-recursive rule: only the left spine grows.
//
// DefineMemo and DefineMemoLeft are mutually exclusive for a rule; the
// memo tables disagree on what an absent entry means.
func (g *Grammar) DefineMemoLeft(name string, body Rule) *Grammar {
	return g.define(name, body, leftMemo)
}

// Ref returns a rule that invokes the rule named name at match time.
// The reference is resolved late, so the definition may come after any
// number of Refs to it.
func (g *Grammar) Ref(name string) Rule {
	g.refs[name] = true
	return Rule{name: name, match: func(pc *parseContext) (any, error) {
		return pc.call(name)
	}}
}

// check verifies that every referenced rule is defined.
func (g *Grammar) check() error {
	if g.rules[g.root] == nil {
		return noRootError(g.root)
	}

	for name := range g.refs {
		if g.rules[name] == nil {
			return undefinedRuleError(source.Pos{}, "", name)
		}
	}
	return nil
}
