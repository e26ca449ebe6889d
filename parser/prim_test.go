package parser

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/ava12/peg"
)

func mustParser(t *testing.T, g *Grammar, opts ...Option) *Parser {
	t.Helper()
	p, e := New(g, opts...)
	if e != nil {
		t.Fatalf("unexpected parser error: %s", e.Error())
	}
	return p
}

func parse(t *testing.T, g *Grammar, input string, opts ...Option) (any, error) {
	t.Helper()
	return mustParser(t, g, opts...).Parse(input)
}

func failureCode(t *testing.T, e error) int {
	t.Helper()
	if e == nil {
		t.Fatal("expecting failure, got success")
	}
	f, ok := e.(*peg.Failure)
	if !ok {
		t.Fatalf("expecting *peg.Failure, got: %s", e.Error())
	}
	return f.Code
}

func singleRule(body Rule) *Grammar {
	return NewGrammar("root").Define("root", body)
}

func TestChar(t *testing.T) {
	samples := []struct {
		input string
		value string
		code  int
	}{
		{"x", "x", 0},
		{"xy", "x", 0},
		{"y", "", UnexpectedCharError},
		{"", "", UnexpectedCharError},
	}

	g := singleRule(Char('x'))
	p := mustParser(t, g)
	for i, sample := range samples {
		v, e := p.Parse(sample.input)
		if sample.code != 0 {
			if code := failureCode(t, e); code != sample.code {
				t.Errorf("sample #%d: expecting code %d, got %d", i, sample.code, code)
			}
			continue
		}

		if e != nil {
			t.Errorf("sample #%d: got error: %s", i, e.Error())
		} else if v != any(sample.value) {
			t.Errorf("sample #%d: expecting %q, got %v", i, sample.value, v)
		}
	}
}

func TestCharUnicode(t *testing.T) {
	v, e := parse(t, singleRule(Seq(Char('д'), Char('a'))), "дa")
	if e != nil {
		t.Fatalf("got error: %s", e.Error())
	}
	if fmt.Sprint(v.([]any)...) != "дa" {
		t.Errorf("expecting дa, got %v", v)
	}
}

func TestLit(t *testing.T) {
	g := singleRule(Lit("foo"))
	p := mustParser(t, g)

	v, e := p.Parse("foobar")
	if e != nil || v != any("foo") {
		t.Errorf("expecting foo, got %v (%v)", v, e)
	}

	_, e = p.Parse("fob")
	if code := failureCode(t, e); code != UnexpectedTextError {
		t.Errorf("expecting code %d, got %d", UnexpectedTextError, code)
	}
}

func TestRxAnchored(t *testing.T) {
	g := singleRule(Rx(`[0-9]+`))
	p := mustParser(t, g)

	v, e := p.Parse("42x")
	if e != nil || v != any("42") {
		t.Errorf("expecting 42, got %v (%v)", v, e)
	}

	// the regex must not scan forward to the digits
	_, e = p.Parse("x42")
	if code := failureCode(t, e); code != NoMatchError {
		t.Errorf("expecting code %d, got %d", NoMatchError, code)
	}
}

func TestRxEmptyMatch(t *testing.T) {
	v, e := parse(t, singleRule(Rx(`[0-9]*`)), "x")
	if e != nil || v != any("") {
		t.Errorf("expecting empty match, got %v (%v)", v, e)
	}
}

func TestPrimitiveTransforms(t *testing.T) {
	toInt := func(text string) (any, error) {
		return strconv.Atoi(text)
	}

	v, e := parse(t, singleRule(Rx(`[0-9]+`, toInt)), "42")
	if e != nil || v != any(42) {
		t.Errorf("expecting 42, got %v (%v)", v, e)
	}

	v, e = parse(t, singleRule(Lit("on", func(text string) (any, error) { return true, nil })), "on")
	if e != nil || v != any(true) {
		t.Errorf("expecting true, got %v (%v)", v, e)
	}

	reject := func(text string) (any, error) {
		return nil, fmt.Errorf("rejected %q", text)
	}
	_, e = parse(t, singleRule(Rx(`[0-9]+`, reject)), "42")
	if code := failureCode(t, e); code != BadValueError {
		t.Errorf("expecting code %d, got %d", BadValueError, code)
	}
	if !strings.Contains(e.Error(), `rejected "42"`) {
		t.Errorf("transform error lost: %s", e.Error())
	}
}

func TestEnd(t *testing.T) {
	g := singleRule(Seq(Lit("a"), End()))
	p := mustParser(t, g)

	_, e := p.Parse("a")
	if e != nil {
		t.Errorf("got error: %s", e.Error())
	}

	_, e = p.Parse("ab")
	if code := failureCode(t, e); code != ExpectingEoiError {
		t.Errorf("expecting code %d, got %d", ExpectingEoiError, code)
	}
}

func TestFailurePosition(t *testing.T) {
	g := singleRule(Seq(Lit("ab\nc"), Lit("d")))
	_, e := parse(t, g, "ab\ncx")
	f := e.(*peg.Failure)
	d := f.Deepest()
	if d.Pos != 4 || d.Line != 2 || d.Col != 2 {
		t.Errorf("expecting failure at pos 4 line 2 col 2, got pos %d line %d col %d", d.Pos, d.Line, d.Col)
	}
}
