package parser

import (
	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
)

// parseJSXPrimary dispatches a JSX_OPEN or JSX_FRAG_OPEN token in
// expression position to the element or fragment grammar (§4.2 "JSX").
func (p *Parser) parseJSXPrimary() ast.Node {
	if p.check(lexer.JSX_FRAG_OPEN) {
		return p.parseJSXFragment()
	}
	return p.parseJSXElement()
}

// parseJSXElement parses `<tag attrs...>children...</tag>` or the
// self-closing `<tag attrs... />` form. The lexer disambiguates a
// closing tag from an attribute-less open tag by emitting JSX_SLASH
// immediately after JSX_OPEN for a close, versus after the attribute
// list for a self-close.
func (p *Parser) parseJSXElement() *ast.JSXElement {
	start := p.StartRange()
	p.Expect(lexer.JSX_OPEN, "'<'")
	tag := p.Expect(lexer.JSX_TAG, "tag name").Value
	attrs := p.parseJSXAttributes()

	if p.Match(lexer.JSX_SLASH) {
		p.Expect(lexer.JSX_CLOSE, "'>'")
		return &ast.JSXElement{Meta: p.meta(start), Tag: tag, Attributes: attrs, SelfClosing: true}
	}
	p.Expect(lexer.JSX_CLOSE, "'>'")

	children := p.parseJSXChildren()

	p.Expect(lexer.JSX_OPEN, "'<'")
	p.Expect(lexer.JSX_SLASH, "'/'")
	closeTok := p.Expect(lexer.JSX_TAG, "closing tag name")
	if closeTok.Value != tag {
		p.Errorf("mismatched closing tag: expected </%s>, got </%s>", tag, closeTok.Value)
	}
	p.Expect(lexer.JSX_CLOSE, "'>'")

	return &ast.JSXElement{Meta: p.meta(start), Tag: tag, Attributes: attrs, Children: children}
}

func (p *Parser) parseJSXFragment() *ast.JSXFragment {
	start := p.StartRange()
	p.Expect(lexer.JSX_FRAG_OPEN, "'<>'")
	children := p.parseJSXChildren()
	p.Expect(lexer.JSX_FRAG_CLOSE, "'</>'")
	return &ast.JSXFragment{Meta: p.meta(start), Children: children}
}

// parseJSXAttributes parses `name`, `name="str"`, `name={expr}`, and
// `{...expr}` entries up to the tag header's `/` or `>` (§4.2).
func (p *Parser) parseJSXAttributes() []ast.JSXAttribute {
	var attrs []ast.JSXAttribute
	for {
		switch {
		case p.check(lexer.JSX_ATTR_NAME):
			attrs = append(attrs, p.parseJSXAttribute())
		case p.check(lexer.JSX_LBRACE):
			attrs = append(attrs, p.parseJSXSpreadAttribute())
		default:
			return attrs
		}
	}
}

func (p *Parser) parseJSXAttribute() ast.JSXAttribute {
	start := p.StartRange()
	name := p.Advance().Value // JSX_ATTR_NAME

	if !p.Match(lexer.JSX_EQUALS) {
		// shorthand boolean attribute, e.g. `disabled`
		return &ast.ExpressionAttribute{
			Meta:       p.meta(start),
			Key:        name,
			Expression: &ast.BooleanLiteral{Meta: p.meta(start), Value: true},
		}
	}

	if p.check(lexer.JSX_STRING) {
		value := p.Advance().Value
		return &ast.StringAttribute{Meta: p.meta(start), Key: name, Value: value}
	}

	p.Expect(lexer.JSX_LBRACE, "'{'")
	expr := p.parseExpression()
	p.Expect(lexer.JSX_RBRACE, "'}'")
	return &ast.ExpressionAttribute{Meta: p.meta(start), Key: name, Expression: expr}
}

func (p *Parser) parseJSXSpreadAttribute() ast.JSXAttribute {
	start := p.StartRange()
	p.Advance() // JSX_LBRACE
	p.Expect(lexer.SPREAD, "'...'")
	expr := p.parseExpression()
	p.Expect(lexer.JSX_RBRACE, "'}'")
	return &ast.JSXSpreadAttribute{Meta: p.meta(start), Argument: expr}
}

// parseJSXChildren parses element/fragment children until the lexer
// reports the enclosing closing tag or fragment close, without
// consuming it — the caller (parseJSXElement/parseJSXFragment) expects
// and consumes that terminator itself.
func (p *Parser) parseJSXChildren() []ast.JSXChild {
	var children []ast.JSXChild
	for {
		switch p.Peek().Kind {
		case lexer.JSX_TEXT:
			start := p.StartRange()
			tok := p.Advance()
			children = append(children, &ast.JSXText{Meta: p.meta(start), Value: tok.Value})
		case lexer.JSX_LBRACE:
			children = append(children, p.parseJSXExpressionChild())
		case lexer.JSX_FRAG_OPEN:
			children = append(children, p.parseJSXFragment())
		case lexer.JSX_FRAG_CLOSE:
			return children
		case lexer.JSX_CF_IF:
			children = append(children, p.parseJSXIf())
		case lexer.JSX_CF_FOR:
			children = append(children, p.parseJSXFor())
		case lexer.JSX_CF_MATCH:
			children = append(children, p.parseJSXMatch())
		case lexer.JSX_OPEN:
			if p.PeekAhead(1).Kind == lexer.JSX_SLASH {
				return children // closing tag of the enclosing element
			}
			children = append(children, p.parseJSXElement())
		default:
			return children
		}
	}
}

func (p *Parser) parseJSXExpressionChild() ast.JSXChild {
	start := p.StartRange()
	p.Advance() // JSX_LBRACE
	expr := p.parseExpression()
	p.Expect(lexer.JSX_RBRACE, "'}'")
	return &ast.JSXExpression{Meta: p.meta(start), Expression: expr}
}

// parseJSXArmBody parses a control-flow arm's `{ ...children... }` body.
// The lexer scans its contents as ordinary expression tokens up to the
// body's own opening `{` (the cfblock header, which the lexer entered
// when it emitted the construct's JSX_CF_* sentinel), then needs
// explicit forced-children mode to resume JSX scanning for the body —
// the parser drives that transition here since only it knows when the
// header ends and the body begins (§4.1 "Children mode").
func (p *Parser) parseJSXArmBody() []ast.JSXChild {
	p.Expect(lexer.LBRACE, "'{'")
	p.lex.PushJSXChildren()
	children := p.parseJSXChildren()
	p.lex.PopJSXChildren()
	p.Expect(lexer.JSX_RBRACE, "'}'")
	return children
}

// parseJSXIf parses the block-level `{if cond {...} elif cond {...}
// else {...}}` construct. The entire chain is wrapped in a single
// cfblock (opened by the lexer when it recognized the leading `{if`),
// so only the final `}` — not each arm's own body-closing brace —
// matches that outer header.
func (p *Parser) parseJSXIf() ast.JSXChild {
	start := p.StartRange()
	p.Advance() // JSX_CF_IF
	p.Expect(lexer.IF, "'if'")

	cond := p.parseExpression()
	body := p.parseJSXArmBody()
	branches := []ast.JSXIfBranch{{Condition: cond, Body: body, Range: p.loc(start)}}

	for p.check(lexer.ELIF) {
		estart := p.StartRange()
		p.Advance()
		econd := p.parseExpression()
		ebody := p.parseJSXArmBody()
		branches = append(branches, ast.JSXIfBranch{Condition: econd, Body: ebody, Range: p.loc(estart)})
	}
	if p.check(lexer.ELSE) {
		estart := p.StartRange()
		p.Advance()
		ebody := p.parseJSXArmBody()
		branches = append(branches, ast.JSXIfBranch{Body: ebody, Range: p.loc(estart)})
	}

	p.Expect(lexer.RBRACE, "'}'")
	p.lex.ExitCFHeader()
	return &ast.JSXIf{Meta: p.meta(start), Branches: branches}
}

// parseJSXFor parses the block-level `{for pattern in iterable {...}}`
// construct.
func (p *Parser) parseJSXFor() ast.JSXChild {
	start := p.StartRange()
	p.Advance() // JSX_CF_FOR
	p.Expect(lexer.FOR, "'for'")
	pattern := p.parsePattern()
	p.Expect(lexer.IN, "'in'")
	iterable := p.parseExpression()
	body := p.parseJSXArmBody()

	p.Expect(lexer.RBRACE, "'}'")
	p.lex.ExitCFHeader()
	return &ast.JSXFor{Meta: p.meta(start), Pattern: pattern, Iterable: iterable, Body: body}
}

// parseJSXMatch parses the block-level `{match expr { pattern [if
// guard] => {...}, ... }}` construct. The arm list's own brace pair is
// independent of the cfblock wrapper opened by the leading `{match`.
func (p *Parser) parseJSXMatch() ast.JSXChild {
	start := p.StartRange()
	p.Advance() // JSX_CF_MATCH
	p.Expect(lexer.MATCH, "'match'")
	subject := p.parseExpression()

	p.Expect(lexer.LBRACE, "'{'")
	var arms []ast.JSXMatchArm
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		astart := p.StartRange()
		pattern := p.parsePattern()
		var guard ast.Node
		if p.Match(lexer.IF) {
			guard = p.parseExpression()
		}
		p.Expect(lexer.ARROW, "'=>'")
		body := p.parseJSXArmBody()
		arms = append(arms, ast.JSXMatchArm{Pattern: pattern, Guard: guard, Body: body, Range: p.loc(astart)})
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.RBRACE, "'}'") // closes the arm list

	p.Expect(lexer.RBRACE, "'}'") // closes the outer cfblock
	p.lex.ExitCFHeader()
	return &ast.JSXMatch{Meta: p.meta(start), Subject: subject, Arms: arms}
}
