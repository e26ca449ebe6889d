package parser

import (
	"github.com/ava12/peg"
)

// Seq returns a rule matching every item in order. A failure raised by an
// item is wrapped into a failure labelled with the enclosing rule, unless
// it already carries that rule's name; this keeps a rule failing on its own
// terminal precise while grouping failures that crossed a rule boundary.
// The value of the match is a []any of the item values.
func Seq(items ...Rule) Rule {
	return Rule{match: func(pc *parseContext) (any, error) {
		vals := make([]any, 0, len(items))
		for _, it := range items {
			v, e := it.match(pc)
			if e != nil {
				f := asFailure(e)
				if f.Rule == pc.rule() {
					return nil, f
				}
				return nil, pc.raise(sequenceError(pc.at(), pc.rule(), f))
			}

			vals = append(vals, v)
		}
		return vals, nil
	}}
}

// First returns a rule trying each alternative in order and yielding the
// value of the first one that matches; an alternative that fails is rolled
// back before the next one is tried. If all alternatives fail, the raised
// failure lists the names of the referenced alternatives and keeps the
// deepest-ranked sub-failure as its cause.
func First(alts ...Rule) Rule {
	names := make([]string, 0, len(alts))
	for _, alt := range alts {
		if alt.name != "" {
			names = append(names, alt.name)
		}
	}

	return Rule{match: func(pc *parseContext) (any, error) {
		var deepest *peg.Failure
		for _, alt := range alts {
			pc.save()
			v, e := alt.match(pc)
			if e == nil {
				pc.drop()
				return v, nil
			}

			pc.restore()
			f := asFailure(e)
			if deepest == nil || f.Rank() < deepest.Rank() {
				deepest = f
			}
		}
		return nil, pc.raise(choiceError(pc.at(), pc.rule(), names, deepest))
	}}
}

// Opt returns a rule that tries body and rolls back on failure.
// The value of the match is the body value, or nil if body did not match.
func Opt(body Rule) Rule {
	return Rule{match: func(pc *parseContext) (any, error) {
		pc.save()
		v, e := body.match(pc)
		if e != nil {
			pc.restore()
			return nil, nil
		}

		pc.drop()
		return v, nil
	}}
}

// Many returns a rule matching body zero or more times, stopping at the
// first failure or at an iteration that consumed no input.
// The value of the match is a []any of the body values, possibly empty.
func Many(body Rule) Rule {
	return Rule{match: func(pc *parseContext) (any, error) {
		vals := make([]any, 0)
		for {
			start := pc.pos
			pc.save()
			v, e := body.match(pc)
			if e != nil {
				pc.restore()
				return vals, nil
			}

			pc.drop()
			vals = append(vals, v)
			if pc.pos == start {
				return vals, nil
			}
		}
	}}
}

// Many1 returns a rule matching body one or more times. If the first
// attempt fails, the raised failure keeps that attempt's failure as its
// cause. The value of the match is a non-empty []any of the body values.
func Many1(body Rule) Rule {
	rest := Many(body)
	return Rule{match: func(pc *parseContext) (any, error) {
		pc.save()
		v, e := body.match(pc)
		if e != nil {
			pc.restore()
			return nil, pc.raise(emptyListError(pc.at(), pc.rule(), asFailure(e)))
		}

		pc.drop()
		vals := []any{v}
		more, _ := rest.match(pc)
		return append(vals, more.([]any)...), nil
	}}
}

// Sep returns a rule matching body occurrences separated by sep. With
// required set, at least one body must match; otherwise an empty input
// yields an empty list. Separator values are discarded.
// The value of the match is a []any of the body values.
func Sep(sep Rule, required bool, body Rule) Rule {
	return Rule{match: func(pc *parseContext) (any, error) {
		vals := make([]any, 0)
		pc.save()
		v, e := body.match(pc)
		if e != nil {
			pc.restore()
			if required {
				return nil, pc.raise(emptyListError(pc.at(), pc.rule(), asFailure(e)))
			}
			return vals, nil
		}

		pc.drop()
		vals = append(vals, v)
		for {
			start := pc.pos
			pc.save()
			_, e := sep.match(pc)
			if e == nil {
				v, e = body.match(pc)
			}
			if e != nil {
				pc.restore()
				return vals, nil
			}

			pc.drop()
			vals = append(vals, v)
			if pc.pos == start {
				return vals, nil
			}
		}
	}}
}

// Apply returns a rule yielding fn of the body value. An error returned by
// fn fails the match: the failure is positioned where body stopped
// matching, and the cursor is rolled back to where body started.
func Apply(body Rule, fn func(v any) (any, error)) Rule {
	return Rule{match: func(pc *parseContext) (any, error) {
		pc.save()
		v, e := body.match(pc)
		if e != nil {
			pc.drop()
			return nil, e
		}

		res, e := fn(v)
		if e != nil {
			f := pc.raise(badValueError(pc.at(), pc.rule(), e))
			pc.restore()
			return nil, f
		}

		pc.drop()
		return res, nil
	}}
}
