package registry

import (
	"testing"

	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
)

func TestDetectKeyword(t *testing.T) {
	r := New(WithHooks(nil, nil, nil, nil)...)
	p, ok := r.DetectKeyword(lexer.FORM)
	if !ok || p.Name != "form" {
		t.Fatalf("expected form plugin for FORM token, got %+v ok=%v", p, ok)
	}
	if _, ok := r.DetectKeyword(lexer.IDENT); ok {
		t.Error("IDENT should not trigger any plugin")
	}
}

func TestVisitorForPluginBlockKinds(t *testing.T) {
	called := map[string]bool{}
	visit := map[string]VisitFunc{
		"cli":     func(a BlockAnalyzer, n ast.Node) { called["cli"] = true },
		"edge":    func(a BlockAnalyzer, n ast.Node) { called["edge"] = true },
		"form":    func(a BlockAnalyzer, n ast.Node) { called["form"] = true },
	}
	r := New(WithHooks(nil, visit, nil, nil)...)

	cliBlock := &ast.PluginBlock{Kind: KindCli}
	p, ok := r.VisitorFor(DispatchKeyFor(cliBlock))
	if !ok {
		t.Fatal("expected a visitor for the cli plugin block")
	}
	p.Visit(nil, cliBlock)
	if !called["cli"] {
		t.Error("cli visit hook should have run")
	}

	form := &ast.FormDeclaration{}
	p2, ok := r.VisitorFor(DispatchKeyFor(form))
	if !ok {
		t.Fatal("expected a visitor for FormDeclaration")
	}
	p2.Visit(nil, form)
	if !called["form"] {
		t.Error("form visit hook should have run")
	}
}

func TestIdentifierStrategyLookahead(t *testing.T) {
	plugins := []Plugin{
		{
			Name:        "widget",
			ASTNodeType: "Widget",
			Detection: Detection{
				Strategy:        StrategyIdentifier,
				IdentifierValue: "widget",
				Lookahead: func(p BlockParser) bool {
					return p.PeekAhead(1).Kind == lexer.LBRACE
				},
			},
		},
	}
	r := New(plugins...)
	fp := fakeParser{ahead: lexer.Token{Kind: lexer.LBRACE}}
	if _, ok := r.DetectIdentifier("widget", fp); !ok {
		t.Error("expected widget to match when followed by {")
	}
	fp2 := fakeParser{ahead: lexer.Token{Kind: lexer.LPAREN}}
	if _, ok := r.DetectIdentifier("widget", fp2); ok {
		t.Error("expected widget not to match when followed by (")
	}
	if _, ok := r.DetectIdentifier("gadget", fp); ok {
		t.Error("unregistered identifier should not match")
	}
}

// fakeParser is a minimal BlockParser stub for exercising Lookahead.
type fakeParser struct{ ahead lexer.Token }

func (fakeParser) Peek() lexer.Token                       { return lexer.Token{} }
func (f fakeParser) PeekAhead(int) lexer.Token              { return f.ahead }
func (fakeParser) Advance() lexer.Token                     { return lexer.Token{} }
func (fakeParser) Check(lexer.Kind) bool                    { return false }
func (fakeParser) Match(lexer.Kind) bool                    { return false }
func (fakeParser) Expect(lexer.Kind, string) lexer.Token    { return lexer.Token{} }
func (fakeParser) ParseExpression() ast.Node                { return nil }
func (fakeParser) ParseBlockStatement() *ast.BlockStatement { return nil }
func (fakeParser) ParseTypeAnnotation() ast.TypeAnnotation  { return nil }
func (fakeParser) Errorf(string, ...any)                    {}
func (fakeParser) StartRange() ast.Range                    { return ast.Range{} }
func (fakeParser) EndRange(ast.Range) ast.Range              { return ast.Range{} }
