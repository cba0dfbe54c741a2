package lexer

import "testing"

func TestEscapeSequences(t *testing.T) {
	toks, err := Tokenize(`"a\tb\nc\\d"`, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\tb\nc\\d"
	if toks[0].Value != want {
		t.Errorf("got %q, want %q", toks[0].Value, want)
	}
}

func TestExplicitFStringSigilBehavesLikePlainString(t *testing.T) {
	toks, err := Tokenize(`f"count: {n}"`, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != STRING_TEMPLATE {
		t.Fatalf("kind = %s, want STRING_TEMPLATE", toks[0].Kind)
	}
	if len(toks[0].Template) != 2 {
		t.Fatalf("parts = %d, want 2: %+v", len(toks[0].Template), toks[0].Template)
	}
}

func TestTripleQuotedWithInterpolationDedents(t *testing.T) {
	src := "\"\"\"\n  Hello {name},\n  welcome.\n  \"\"\""
	toks, err := Tokenize(src, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tok := toks[0]
	if tok.Kind != STRING_TEMPLATE {
		t.Fatalf("kind = %s", tok.Kind)
	}
	if tok.Template[0].Value != "Hello " {
		t.Errorf("first text part = %q, want %q", tok.Template[0].Value, "Hello ")
	}
	if tok.Template[2].Value != ",\nwelcome." {
		t.Errorf("second text part = %q, want %q", tok.Template[2].Value, ",\nwelcome.")
	}
}

func TestInterpolationRespectsNestedQuotesForBraceBalancing(t *testing.T) {
	toks, err := Tokenize(`"x {f("}")} y"`, "t.tova")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != STRING_TEMPLATE {
		t.Fatalf("kind = %s", toks[0].Kind)
	}
	exprTokens := toks[0].Template[1].Tokens
	assertKinds(t, exprTokens, []Kind{IDENT, LPAREN, STRING, RPAREN})
}
