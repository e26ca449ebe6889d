package parser

import (
	"github.com/ava12/peg"
)

// memoEntry records the outcome of one rule invocation at one position.
// Exactly one of value/fail is meaningful: a recorded failure replays as a
// failure without re-running the body and leaves the cursor where it is
// (which is the entry's key position); a recorded value moves the cursor
// to end.
type memoEntry struct {
	value any
	fail  *peg.Failure
	end   int
}

func (pc *parseContext) memoTable(name string) map[int]*memoEntry {
	table := pc.memos[name]
	if table == nil {
		table = make(map[int]*memoEntry)
		pc.memos[name] = table
	}
	return table
}

func (pc *parseContext) replay(ent *memoEntry) (any, error) {
	if ent.fail != nil {
		return nil, ent.fail
	}

	pc.pos = ent.end
	return ent.value, nil
}

// callMemo runs a packrat-memoised rule: at most one body run per input
// position, every later invocation replays the recorded entry.
func (pc *parseContext) callMemo(name string, rec *ruleRec) (any, error) {
	table := pc.memoTable(name)
	p := pc.pos
	if ent, found := table[p]; found {
		return pc.replay(ent)
	}

	v, e := rec.body.match(pc)
	if e != nil {
		table[p] = &memoEntry{fail: asFailure(e), end: p}
		return nil, e
	}

	table[p] = &memoEntry{value: v, end: pc.pos}
	return v, nil
}

// callMemoLeft runs a left-recursive rule using seed-and-grow: the table
// is seeded with a failing entry so that the body's own leftmost
// self-invocation bottoms out immediately, then the body is re-run at the
// same position, each pass consuming the previous pass's expansion through
// the memo table, until the parse stops growing.
func (pc *parseContext) callMemoLeft(name string, rec *ruleRec) (any, error) {
	table := pc.memoTable(name)
	p := pc.pos
	if ent, found := table[p]; found {
		return pc.replay(ent)
	}

	seed := pc.raise(leftRecursionError(name))
	table[p] = &memoEntry{fail: seed, end: -1}

	var (
		lastVal  any
		lastFail = seed
		lastEnd  = -1
	)

	for {
		pc.pos = p
		v, e := rec.body.match(pc)
		endPos := pc.pos
		if e != nil {
			endPos = p
		}
		if endPos <= lastEnd {
			break
		}

		if e != nil {
			lastVal, lastFail = nil, asFailure(e)
			table[p] = &memoEntry{fail: lastFail, end: p}
		} else {
			lastVal, lastFail = v, nil
			table[p] = &memoEntry{value: v, end: endPos}
		}
		lastEnd = endPos
	}

	if lastFail != nil {
		pc.pos = p
		return nil, lastFail
	}

	pc.pos = lastEnd
	return lastVal, nil
}
