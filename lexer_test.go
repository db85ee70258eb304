package ogex

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func lexAll(t *testing.T, src string) ([]token, []Diagnostic) {
	t.Helper()

	var diags []Diagnostic
	l := newLexer(strings.NewReader(src), &diags)

	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			t.Fatalf("lex %q: %v", src, err)
		}
		if tok.Type == tokEOF {
			return toks, diags
		}
		toks = append(toks, tok)
	}
}

func TestLexIntegerForms(t *testing.T) {
	tests := []struct {
		in    string
		mag   uint64
		neg   bool
		radix int
	}{
		{"255", 255, false, 10},
		{"-16", 16, true, 10},
		{"+42", 42, false, 10},
		{"0x7FFF", 0x7FFF, false, 16},
		{"0Xab", 0xAB, false, 16},
		{"-0x10", 0x10, true, 16},
		{"0o17", 15, false, 8},
		{"0b1010", 10, false, 2},
		{"'A'", 65, false, 10},
		{"'AB'", 0x4142, false, 10},
		{"'\\n'", 10, false, 10},
		{"18446744073709551615", 18446744073709551615, false, 10},
	}
	for _, tt := range tests {
		toks, diags := lexAll(t, tt.in)
		if len(diags) != 0 {
			t.Fatalf("%s: unexpected diagnostics: %v", tt.in, diags)
		}
		if len(toks) != 1 || toks[0].Type != tokInt {
			t.Fatalf("%s: expected one integer token, got %v", tt.in, toks)
		}
		tok := toks[0]
		if tok.Uint != tt.mag || tok.Neg != tt.neg || tok.Radix != tt.radix {
			t.Fatalf("%s: got mag=%d neg=%v radix=%d", tt.in, tok.Uint, tok.Neg, tok.Radix)
		}
	}
}

func TestLexFloatForms(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.0", 1},
		{"-2.5", -2.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"2.5E-2", 0.025},
		{"+1.25", 1.25},
		{"inf", math.Inf(1)},
		{"-inf", math.Inf(-1)},
		{"+inf", math.Inf(1)},
		{"nan", math.NaN()},
		{"-nan", math.NaN()},
	}
	for _, tt := range tests {
		toks, diags := lexAll(t, tt.in)
		if len(diags) != 0 {
			t.Fatalf("%s: unexpected diagnostics: %v", tt.in, diags)
		}
		if len(toks) != 1 || toks[0].Type != tokFloat {
			t.Fatalf("%s: expected one float token, got %v", tt.in, toks)
		}
		if !floatEqual(toks[0].Flt, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.in, toks[0].Flt, tt.want)
		}
	}
}

func TestLexStringEscapes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"hello"`, "hello"},
		{`"a\"b"`, `a"b`},
		{`"tab\there"`, "tab\there"},
		{`"back\\slash"`, `back\slash`},
		{`"\x41"`, "A"},
		{`"é"`, "é"},
		{`"\U01F600"`, "\U0001f600"},
		{`"bell\a"`, "bell\a"},
	}
	for _, tt := range tests {
		toks, diags := lexAll(t, tt.in)
		if len(diags) != 0 {
			t.Fatalf("%s: unexpected diagnostics: %v", tt.in, diags)
		}
		if len(toks) != 1 || toks[0].Type != tokString {
			t.Fatalf("%s: expected one string token, got %v", tt.in, toks)
		}
		if toks[0].Lit != tt.want {
			t.Fatalf("%s: got %q, want %q", tt.in, toks[0].Lit, tt.want)
		}
	}
}

func TestLexNames(t *testing.T) {
	toks, diags := lexAll(t, "%local $global")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(toks) != 2 {
		t.Fatalf("expected two tokens, got %v", toks)
	}
	if toks[0].Type != tokName || toks[0].Lit != "local" || toks[0].Global {
		t.Fatalf("unexpected local name token: %+v", toks[0])
	}
	if toks[1].Type != tokName || toks[1].Lit != "global" || !toks[1].Global {
		t.Fatalf("unexpected global name token: %+v", toks[1])
	}
}

func TestLexComments(t *testing.T) {
	src := "// line comment\nNode /* block\ncomment */ {"
	toks, diags := lexAll(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(toks) != 2 {
		t.Fatalf("expected two tokens, got %v", toks)
	}
	if toks[0].Type != tokIdent || toks[0].Lit != "Node" || toks[0].Line != 2 {
		t.Fatalf("unexpected first token: %+v", toks[0])
	}
	if toks[1].Type != tokLBrace || toks[1].Line != 3 {
		t.Fatalf("unexpected second token: %+v", toks[1])
	}
}

func TestLexPositions(t *testing.T) {
	toks, _ := lexAll(t, "Node %n")
	if toks[0].Line != 1 || toks[0].Col != 1 {
		t.Fatalf("unexpected position for Node: %d:%d", toks[0].Line, toks[0].Col)
	}
	if toks[1].Line != 1 || toks[1].Col != 6 {
		t.Fatalf("unexpected position for %%n: %d:%d", toks[1].Line, toks[1].Col)
	}
}

func TestLexFatal(t *testing.T) {
	srcs := []string{
		`"unterminated`,
		`"bad \`,
		"/* unterminated",
		"'unterminated",
	}
	for _, src := range srcs {
		var diags []Diagnostic
		l := newLexer(strings.NewReader(src), &diags)

		var err error
		for err == nil {
			var tok token
			tok, err = l.next()
			if err == nil && tok.Type == tokEOF {
				t.Fatalf("%q: expected fatal error, reached EOF", src)
			}
		}
		if !errors.Is(err, ErrLex) {
			t.Fatalf("%q: expected ErrLex, got %v", src, err)
		}
	}
}

func TestLexMalformedRecovers(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"dangling_exponent", "1.0e+ 2"},
		{"trailing_chars", "1abc 2"},
		{"empty_radix", "0x 2"},
		{"dangling_sign", "- 2"},
		{"bare_sigil", "% 2"},
		{"stray_char", "@ 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, diags := lexAll(t, tt.in)
			if len(diags) != 1 || diags[0].Kind != DiagLexical {
				t.Fatalf("expected one lexical diagnostic, got %v", diags)
			}
			if len(toks) != 2 || toks[0].Type != tokBad {
				t.Fatalf("expected bad marker and resumed token, got %v", toks)
			}
			if toks[1].Type != tokInt || toks[1].Uint != 2 {
				t.Fatalf("lexing did not resume at next token: %+v", toks[1])
			}
		})
	}
}
