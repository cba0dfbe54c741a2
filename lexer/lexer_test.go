package lexer

import "testing"

func kinds(toks []Token) []Kind {
	out := make([]Kind, 0, len(toks))
	for _, t := range toks {
		if t.Kind == NEWLINE || t.Kind == EOF {
			continue
		}
		out = append(out, t.Kind)
	}
	return out
}

func assertKinds(t *testing.T, toks []Token, want []Kind) {
	t.Helper()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %s, want %s\ngot:  %v\nwant: %v", i, got[i], want[i], got, want)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"decimal", "42", "42"},
		{"float", "3.14", "3.14"},
		{"hex", "0xFF", "0xFF"},
		{"octal", "0o17", "0o17"},
		{"binary", "0b1010", "0b1010"},
		{"separators", "1_000_000", "1_000_000"},
		{"exponent", "1e10", "1e10"},
		{"signed exponent", "1e-10", "1e-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.src, "t.tova")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if toks[0].Kind != NUMBER || toks[0].Value != tt.want {
				t.Errorf("got %v, want NUMBER(%q)", toks[0], tt.want)
			}
		})
	}
}

// Float-ness is a scanner decision, not a property of the raw text: the
// `e` in 0xBEEF is a hex digit, never an exponent.
func TestNumberFloatClassification(t *testing.T) {
	tests := []struct {
		src     string
		isFloat bool
	}{
		{"42", false},
		{"3.14", true},
		{"1e10", true},
		{"1e-10", true},
		{"0xBEEF", false},
		{"0xFACE", false},
		{"0xe5", false},
		{"0o17", false},
		{"0b1010", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := Tokenize(tt.src, "t.tova")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if toks[0].Kind != NUMBER || toks[0].IsFloat != tt.isFloat {
				t.Errorf("got %v IsFloat=%v, want IsFloat=%v", toks[0], toks[0].IsFloat, tt.isFloat)
			}
		})
	}
}

func TestMemberAccessOnNumberLiteral(t *testing.T) {
	toks, err := Tokenize("15.minutes", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{NUMBER, DOT, IDENT})
	if toks[0].Value != "15" {
		t.Errorf("NUMBER value = %q, want 15", toks[0].Value)
	}
}

func TestDivisionVsRegex(t *testing.T) {
	toks, err := Tokenize("a / b", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{IDENT, SLASH, IDENT})

	toks, err = Tokenize(`match(/ab+c/i)`, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{MATCH, LPAREN, REGEX, RPAREN})
	if toks[2].Value != "ab+c" || toks[2].RegexFlags != "i" {
		t.Errorf("regex = %+v", toks[2])
	}
}

func TestPlainStringNoInterpolation(t *testing.T) {
	toks, err := Tokenize(`"hello"`, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != STRING || toks[0].Value != "hello" {
		t.Errorf("got %v", toks[0])
	}
}

func TestStringInterpolation(t *testing.T) {
	toks, err := Tokenize(`"hi {name}!"`, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tok := toks[0]
	if tok.Kind != STRING_TEMPLATE {
		t.Fatalf("kind = %s, want STRING_TEMPLATE", tok.Kind)
	}
	if len(tok.Template) != 3 {
		t.Fatalf("parts = %d, want 3: %+v", len(tok.Template), tok.Template)
	}
	if tok.Template[0].Kind != TemplateText || tok.Template[0].Value != "hi " {
		t.Errorf("part[0] = %+v", tok.Template[0])
	}
	if tok.Template[1].Kind != TemplateExpr {
		t.Fatalf("part[1].Kind = %v, want TemplateExpr", tok.Template[1].Kind)
	}
	if len(tok.Template[1].Tokens) != 1 || tok.Template[1].Tokens[0].Kind != IDENT {
		t.Errorf("part[1].Tokens = %+v", tok.Template[1].Tokens)
	}
	if tok.Template[2].Kind != TemplateText || tok.Template[2].Value != "!" {
		t.Errorf("part[2] = %+v", tok.Template[2])
	}
}

func TestNestedInterpolation(t *testing.T) {
	toks, err := Tokenize(`"a {b + "c {d}"}"`, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tok := toks[0]
	if tok.Kind != STRING_TEMPLATE {
		t.Fatalf("kind = %s", tok.Kind)
	}
	inner := tok.Template[1].Tokens
	foundNested := false
	for _, it := range inner {
		if it.Kind == STRING_TEMPLATE {
			foundNested = true
		}
	}
	if !foundNested {
		t.Errorf("expected a nested STRING_TEMPLATE among %+v", inner)
	}
}

func TestInterpolationDepthExceeded(t *testing.T) {
	l := New("t.tova", `"{"{"{"{x}"}"}"}"`)
	l.maxInterpDepth = 2
	var last Token
	for {
		last = l.NextToken()
		if last.Kind == EOF || last.Kind == ERROR {
			break
		}
	}
	if last.Kind != ERROR {
		t.Fatalf("expected an ERROR token once depth cap is exceeded, got %v", last)
	}
}

func TestRawString(t *testing.T) {
	toks, err := Tokenize(`r"a\nb"`, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != STRING || toks[0].Value != `a\nb` {
		t.Errorf("got %+v", toks[0])
	}
}

func TestTripleQuotedDedent(t *testing.T) {
	src := "\"\"\"\n    line one\n    line two\n    \"\"\""
	toks, err := Tokenize(src, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != STRING || toks[0].Value != "line one\nline two" {
		t.Errorf("got %q", toks[0].Value)
	}
}

func TestTripleQuotedDedentStripsClosingLine(t *testing.T) {
	src := "\"\"\"\n  hello\n  world\n  \"\"\""
	toks, err := Tokenize(src, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != STRING || toks[0].Value != "hello\nworld" {
		t.Errorf("got %q, want %q", toks[0].Value, "hello\nworld")
	}
}

func TestDocstringToken(t *testing.T) {
	toks, err := Tokenize("/// Adds two numbers.\nfn add(a, b) { a + b }", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != DOCSTRING || toks[0].Value != "Adds two numbers." {
		t.Errorf("got %v, want DOCSTRING(%q)", toks[0], "Adds two numbers.")
	}
}

func TestStyleBlockToken(t *testing.T) {
	toks, err := Tokenize("style {\n  .btn { color: red }\n}", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != STYLE_BLOCK {
		t.Fatalf("kind = %s, want STYLE_BLOCK", toks[0].Kind)
	}
	if toks[0].Value != "\n  .btn { color: red }\n" {
		t.Errorf("raw CSS = %q", toks[0].Value)
	}
}

func TestStyleIdentifierWithoutBraceStaysIdent(t *testing.T) {
	toks, err := Tokenize("style = 1", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{IDENT, ASSIGN, NUMBER})
}

func TestShebangStripped(t *testing.T) {
	toks, err := Tokenize("#!/usr/bin/env tova\nlet x = 1", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{LET, IDENT, ASSIGN, NUMBER})
}

func TestLineComment(t *testing.T) {
	toks, err := Tokenize("let x = 1 // a comment\nlet y = 2", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{LET, IDENT, ASSIGN, NUMBER, LET, IDENT, ASSIGN, NUMBER})
}

func TestBlockCommentNested(t *testing.T) {
	toks, err := Tokenize("1 /* outer /* inner */ still outer */ 2", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{NUMBER, NUMBER})
}

func TestPipeAndOptionalChainOperators(t *testing.T) {
	toks, err := Tokenize("a |> b ?. c ?? d", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{IDENT, PIPE, IDENT, QUESTION_DOT, IDENT, QUESTION_QUESTION, IDENT})
}

func TestRangeOperators(t *testing.T) {
	toks, err := Tokenize("0..10 1..=5", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{NUMBER, RANGE_EXCL, NUMBER, NUMBER, RANGE_INCL, NUMBER})
}

func TestSpreadOperator(t *testing.T) {
	toks, err := Tokenize("[...xs, 1]", "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, []Kind{LBRACKET, SPREAD, IDENT, COMMA, NUMBER, RBRACKET})
}

func TestKeywordClassification(t *testing.T) {
	for word, want := range map[string]Kind{
		"server": SERVER, "browser": BROWSER, "shared": SHARED,
		"route": ROUTE, "state": STATE, "computed": COMPUTED,
		"match": MATCH, "fn": FN,
	} {
		if got := LookupIdent(word); got != want {
			t.Errorf("LookupIdent(%q) = %s, want %s", word, got, want)
		}
	}
	if got := LookupIdent("totallyUnknown"); got != IDENT {
		t.Errorf("LookupIdent(unknown) = %s, want IDENT", got)
	}
}
