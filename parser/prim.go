package parser

import (
	"bytes"
	"regexp"
)

// TextFunc maps the text matched by a primitive to a value of the
// grammar author's choice. Returning an error fails the match at the
// position where the text started.
type TextFunc = func(text string) (any, error)

// Rule matches input at the current parse position and produces a value.
// Rules are created by the primitive and combinator constructors and by
// Grammar.Ref; the zero Rule is not usable.
type Rule struct {
	name  string
	match func(pc *parseContext) (any, error)
}

// Name returns the referenced rule name for rules created by Grammar.Ref,
// empty string for anonymous rules.
func (r Rule) Name() string {
	return r.name
}

// matchedText produces the rule value for matched text and advances the
// cursor past it. A transform error fails the match with the cursor still
// at the start of the text.
func matchedText(pc *parseContext, text string, fs []TextFunc) (any, error) {
	var res any = text
	if len(fs) > 0 && fs[0] != nil {
		var e error
		res, e = fs[0](text)
		if e != nil {
			return nil, pc.raise(badValueError(pc.at(), pc.rule(), e))
		}
	}
	pc.pos += len(text)
	return res, nil
}

// Char returns a rule matching the single character c.
// The value of the match is c as a string, or whatever f makes of it.
func Char(c rune, f ...TextFunc) Rule {
	text := string(c)
	return Rule{match: func(pc *parseContext) (any, error) {
		if !bytes.HasPrefix(pc.remaining(), []byte(text)) {
			return nil, pc.raise(unexpectedCharError(pc.at(), pc.rule(), c))
		}

		return matchedText(pc, text, f)
	}}
}

// Lit returns a rule matching the literal string text.
// The value of the match is text, or whatever f makes of it.
func Lit(text string, f ...TextFunc) Rule {
	return Rule{match: func(pc *parseContext) (any, error) {
		if !bytes.HasPrefix(pc.remaining(), []byte(text)) {
			return nil, pc.raise(unexpectedTextError(pc.at(), pc.rule(), text))
		}

		return matchedText(pc, text, f)
	}}
}

// Rx returns a rule matching the regular expression expr anchored at the
// current position: the match never scans forward. expr uses regexp syntax
// and is compiled once, at construction; a broken expression panics.
// The value of the match is the matched text, or whatever f makes of it.
func Rx(expr string, f ...TextFunc) Rule {
	re := regexp.MustCompile(`\A(?:` + expr + `)`)
	return Rule{match: func(pc *parseContext) (any, error) {
		loc := re.FindIndex(pc.remaining())
		if loc == nil {
			return nil, pc.raise(noMatchError(pc.at(), pc.rule(), expr))
		}

		return matchedText(pc, string(pc.remaining()[:loc[1]]), f)
	}}
}

// End returns a rule succeeding only at the end of input.
// The value of the match is nil.
func End() Rule {
	return Rule{match: func(pc *parseContext) (any, error) {
		if pc.atEnd() {
			return nil, nil
		}

		return nil, pc.raise(expectingEoiError(pc.at(), pc.rule()))
	}}
}
