package parser

import (
	"testing"

	"github.com/tova-lang/tova/ast"
)

// jsxOf parses src and returns the single top-level expression
// statement's expression as a JSX node.
func jsxOf(t *testing.T, src string) ast.Node {
	t.Helper()
	prog, err := Parse("test.tova", []byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(prog.Body))
	}
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", prog.Body[0])
	}
	return stmt.Expression
}

func TestParseSimpleElement(t *testing.T) {
	elem, ok := jsxOf(t, `<box></box>`).(*ast.JSXElement)
	if !ok {
		t.Fatalf("expected JSXElement, got %T", jsxOf(t, `<box></box>`))
	}

	if elem.Tag != "box" {
		t.Errorf("tag = %q, want %q", elem.Tag, "box")
	}
	if elem.SelfClosing {
		t.Error("expected non-self-closing element")
	}
}

func TestParseSelfClosingElement(t *testing.T) {
	elem := jsxOf(t, `<input />`).(*ast.JSXElement)

	if !elem.SelfClosing {
		t.Error("expected self-closing element")
	}
}

func TestParseElementWithStringAttribute(t *testing.T) {
	elem := jsxOf(t, `<box direction="row"></box>`).(*ast.JSXElement)

	if len(elem.Attributes) != 1 {
		t.Fatalf("attributes = %d, want 1", len(elem.Attributes))
	}
	attr, ok := elem.Attributes[0].(*ast.StringAttribute)
	if !ok {
		t.Fatalf("expected StringAttribute, got %T", elem.Attributes[0])
	}
	if attr.Key != "direction" || attr.Value != "row" {
		t.Errorf("unexpected attribute: %+v", attr)
	}
}

func TestParseElementWithExpressionAttribute(t *testing.T) {
	elem := jsxOf(t, `<box gap={1}></box>`).(*ast.JSXElement)

	if len(elem.Attributes) != 1 {
		t.Fatalf("attributes = %d, want 1", len(elem.Attributes))
	}
	attr, ok := elem.Attributes[0].(*ast.ExpressionAttribute)
	if !ok {
		t.Fatalf("expected ExpressionAttribute, got %T", elem.Attributes[0])
	}
	if attr.Key != "gap" {
		t.Errorf("key = %q, want %q", attr.Key, "gap")
	}
	num, ok := attr.Expression.(*ast.NumberLiteral)
	if !ok {
		t.Fatalf("expected NumberLiteral, got %T", attr.Expression)
	}
	if num.Raw != "1" {
		t.Errorf("expression = %q, want %q", num.Raw, "1")
	}
}

func TestParseElementWithShorthandBooleanAttribute(t *testing.T) {
	elem := jsxOf(t, `<box wrap></box>`).(*ast.JSXElement)

	attr, ok := elem.Attributes[0].(*ast.ExpressionAttribute)
	if !ok {
		t.Fatalf("expected ExpressionAttribute, got %T", elem.Attributes[0])
	}
	b, ok := attr.Expression.(*ast.BooleanLiteral)
	if !ok || !b.Value {
		t.Fatalf("expected boolean literal true, got %#v", attr.Expression)
	}
}

func TestParseElementWithTextChild(t *testing.T) {
	elem := jsxOf(t, `<text>Hello World</text>`).(*ast.JSXElement)

	if len(elem.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(elem.Children))
	}
	text, ok := elem.Children[0].(*ast.JSXText)
	if !ok {
		t.Fatalf("expected JSXText, got %T", elem.Children[0])
	}
	if text.Value != "Hello World" {
		t.Errorf("text = %q, want %q", text.Value, "Hello World")
	}
}

func TestParseElementWithExpressionChild(t *testing.T) {
	elem := jsxOf(t, `<text>Hello {name}</text>`).(*ast.JSXElement)

	if len(elem.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(elem.Children))
	}

	text, ok := elem.Children[0].(*ast.JSXText)
	if !ok {
		t.Fatalf("expected JSXText, got %T", elem.Children[0])
	}
	if text.Value != "Hello " {
		t.Errorf("text = %q, want %q", text.Value, "Hello ")
	}

	expr, ok := elem.Children[1].(*ast.JSXExpression)
	if !ok {
		t.Fatalf("expected JSXExpression, got %T", elem.Children[1])
	}
	ident, ok := expr.Expression.(*ast.Identifier)
	if !ok || ident.Name != "name" {
		t.Fatalf("expected identifier 'name', got %#v", expr.Expression)
	}
}

func TestParseNestedElements(t *testing.T) {
	box := jsxOf(t, `<box><text>Hi</text></box>`).(*ast.JSXElement)
	if box.Tag != "box" {
		t.Errorf("tag = %q, want %q", box.Tag, "box")
	}

	if len(box.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(box.Children))
	}
	text, ok := box.Children[0].(*ast.JSXElement)
	if !ok {
		t.Fatalf("expected JSXElement, got %T", box.Children[0])
	}
	if text.Tag != "text" {
		t.Errorf("tag = %q, want %q", text.Tag, "text")
	}
}

func TestParseFragment(t *testing.T) {
	frag, ok := jsxOf(t, `<>Hello</>`).(*ast.JSXFragment)
	if !ok {
		t.Fatalf("expected JSXFragment, got %T", jsxOf(t, `<>Hello</>`))
	}
	if len(frag.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(frag.Children))
	}
}

func TestParseSpreadAttribute(t *testing.T) {
	elem := jsxOf(t, `<box {...props}></box>`).(*ast.JSXElement)

	if len(elem.Attributes) != 1 {
		t.Fatalf("attributes = %d, want 1", len(elem.Attributes))
	}
	spread, ok := elem.Attributes[0].(*ast.JSXSpreadAttribute)
	if !ok {
		t.Fatalf("expected JSXSpreadAttribute, got %T", elem.Attributes[0])
	}
	ident, ok := spread.Argument.(*ast.Identifier)
	if !ok || ident.Name != "props" {
		t.Fatalf("expected identifier 'props', got %#v", spread.Argument)
	}
}

func TestParseMultipleAttributes(t *testing.T) {
	elem := jsxOf(t, `<box direction="row" gap={1} wrap></box>`).(*ast.JSXElement)

	if len(elem.Attributes) != 3 {
		t.Fatalf("attributes = %d, want 3", len(elem.Attributes))
	}

	attr1, ok := elem.Attributes[0].(*ast.StringAttribute)
	if !ok || attr1.Key != "direction" || attr1.Value != "row" {
		t.Errorf("unexpected first attribute: %#v", elem.Attributes[0])
	}

	attr2, ok := elem.Attributes[1].(*ast.ExpressionAttribute)
	if !ok || attr2.Key != "gap" {
		t.Errorf("unexpected second attribute: %#v", elem.Attributes[1])
	}

	attr3, ok := elem.Attributes[2].(*ast.ExpressionAttribute)
	if !ok || attr3.Key != "wrap" {
		t.Errorf("unexpected third attribute: %#v", elem.Attributes[2])
	}
	if b, ok := attr3.Expression.(*ast.BooleanLiteral); !ok || !b.Value {
		t.Errorf("expected shorthand wrap to be boolean true, got %#v", attr3.Expression)
	}
}

func TestParseComplexNestedStructure(t *testing.T) {
	src := `<box direction="row">
	<text>Hello</text>
	<text>{name}</text>
</box>`

	box := jsxOf(t, src).(*ast.JSXElement)
	if box.Tag != "box" {
		t.Errorf("tag = %q, want %q", box.Tag, "box")
	}

	textElements := 0
	for _, child := range box.Children {
		if elem, ok := child.(*ast.JSXElement); ok && elem.Tag == "text" {
			textElements++
		}
	}
	if textElements != 2 {
		t.Errorf("text elements = %d, want 2", textElements)
	}
}

func TestParseJSXIfElse(t *testing.T) {
	src := `<box>{if loggedIn {<text>Hi</text>} else {<text>Bye</text>}}</box>`

	box := jsxOf(t, src).(*ast.JSXElement)
	if len(box.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(box.Children))
	}
	cf, ok := box.Children[0].(*ast.JSXIf)
	if !ok {
		t.Fatalf("expected JSXIf, got %T", box.Children[0])
	}
	if len(cf.Branches) != 2 {
		t.Fatalf("branches = %d, want 2", len(cf.Branches))
	}
	if cf.Branches[0].Condition == nil {
		t.Error("expected a condition on the if branch")
	}
	if cf.Branches[1].Condition != nil {
		t.Error("expected no condition on the else branch")
	}
}

func TestParseJSXFor(t *testing.T) {
	src := `<box>{for item in items {<text>{item}</text>}}</box>`

	box := jsxOf(t, src).(*ast.JSXElement)
	cf, ok := box.Children[0].(*ast.JSXFor)
	if !ok {
		t.Fatalf("expected JSXFor, got %T", box.Children[0])
	}
	ident, ok := cf.Iterable.(*ast.Identifier)
	if !ok || ident.Name != "items" {
		t.Fatalf("expected iterable identifier 'items', got %#v", cf.Iterable)
	}
	if len(cf.Body) != 1 {
		t.Fatalf("body children = %d, want 1", len(cf.Body))
	}
}

func TestParseJSXMatch(t *testing.T) {
	src := `<box>{match status {
		"ok" => {<text>Ready</text>},
		_ => {<text>Loading</text>}
	}}</box>`

	box := jsxOf(t, src).(*ast.JSXElement)
	cf, ok := box.Children[0].(*ast.JSXMatch)
	if !ok {
		t.Fatalf("expected JSXMatch, got %T", box.Children[0])
	}
	if len(cf.Arms) != 2 {
		t.Fatalf("arms = %d, want 2", len(cf.Arms))
	}
}

func TestParseExpressionThenJSX(t *testing.T) {
	src := "let name = \"Ada\"\n<text>Hello {name}</text>"

	prog, err := Parse("test.tova", []byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(prog.Body))
	}

	if _, ok := prog.Body[0].(*ast.LetDestructure); !ok {
		t.Fatalf("expected LetDestructure, got %T", prog.Body[0])
	}

	stmt, ok := prog.Body[1].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", prog.Body[1])
	}
	if _, ok := stmt.Expression.(*ast.JSXElement); !ok {
		t.Fatalf("expected JSXElement, got %T", stmt.Expression)
	}
}
