package parser

import (
	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
)

// parseArrayLiteralOrComprehension parses `[a, b, ...c]` or
// `[expr for pattern in iterable if cond]` (§3.2, §6.1).
func (p *Parser) parseArrayLiteralOrComprehension(start ast.Range) ast.Node {
	p.Advance() // [
	if p.check(lexer.RBRACKET) {
		p.Advance()
		return &ast.ArrayLiteral{Meta: p.meta(start)}
	}

	first := p.parseExpression()
	if p.check(lexer.FOR) {
		p.Advance()
		pattern := p.parsePattern()
		p.Expect(lexer.IN, "'in'")
		iterable := p.parseExpression()
		var cond ast.Node
		if p.Match(lexer.IF) {
			cond = p.parseExpression()
		}
		p.Expect(lexer.RBRACKET, "']'")
		return &ast.ListComprehension{Meta: p.meta(start), Result: first, Pattern: pattern, Iterable: iterable, Condition: cond}
	}

	elements := []ast.Node{first}
	for p.Match(lexer.COMMA) {
		if p.check(lexer.RBRACKET) {
			break
		}
		if p.Match(lexer.SPREAD) {
			sstart := p.StartRange()
			elements = append(elements, &ast.SpreadExpression{Meta: p.meta(sstart), Argument: p.parseExpression()})
			continue
		}
		elements = append(elements, p.parseExpression())
	}
	p.Expect(lexer.RBRACKET, "']'")
	return &ast.ArrayLiteral{Meta: p.meta(start), Elements: elements}
}

// parseObjectLiteralOrDictComprehension parses `{key: value, ...spread}`
// or `{key: value for pattern in iterable if cond}` (§3.2, §6.1).
func (p *Parser) parseObjectLiteralOrDictComprehension(start ast.Range) ast.Node {
	p.Advance() // {
	if p.check(lexer.RBRACE) {
		p.Advance()
		return &ast.ObjectLiteral{Meta: p.meta(start)}
	}

	if p.Match(lexer.SPREAD) {
		spread := p.parseExpression()
		props := []ast.ObjectProperty{{Spread: spread}}
		for p.Match(lexer.COMMA) {
			if p.check(lexer.RBRACE) {
				break
			}
			props = append(props, p.parseObjectProperty())
		}
		p.Expect(lexer.RBRACE, "'}'")
		return &ast.ObjectLiteral{Meta: p.meta(start), Properties: props}
	}

	firstProp := p.parseObjectProperty()

	if p.check(lexer.FOR) {
		p.Advance()
		pattern := p.parsePattern()
		p.Expect(lexer.IN, "'in'")
		iterable := p.parseExpression()
		var cond ast.Node
		if p.Match(lexer.IF) {
			cond = p.parseExpression()
		}
		p.Expect(lexer.RBRACE, "'}'")
		keyExpr := keyAsExpr(firstProp)
		return &ast.DictComprehension{Meta: p.meta(start), KeyResult: keyExpr, ValueResult: firstProp.Value, Pattern: pattern, Iterable: iterable, Condition: cond}
	}

	props := []ast.ObjectProperty{firstProp}
	for p.Match(lexer.COMMA) {
		if p.check(lexer.RBRACE) {
			break
		}
		props = append(props, p.parseObjectProperty())
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.ObjectLiteral{Meta: p.meta(start), Properties: props}
}

func keyAsExpr(prop ast.ObjectProperty) ast.Node {
	if prop.Computed != nil {
		return prop.Computed
	}
	return &ast.StringLiteral{Value: prop.Key}
}

func (p *Parser) parseObjectProperty() ast.ObjectProperty {
	start := p.StartRange()
	if p.Match(lexer.SPREAD) {
		return ast.ObjectProperty{Spread: p.parseExpression(), Range: p.loc(start)}
	}
	if p.check(lexer.LBRACKET) {
		p.Advance()
		keyExpr := p.parseExpression()
		p.Expect(lexer.RBRACKET, "']'")
		p.Expect(lexer.COLON, "':'")
		value := p.parseExpression()
		return ast.ObjectProperty{Computed: keyExpr, Value: value, Range: p.loc(start)}
	}
	name := p.Expect(lexer.IDENT, "property name").Value
	if !p.Match(lexer.COLON) {
		// shorthand `{name}`
		return ast.ObjectProperty{Key: name, Value: &ast.Identifier{Meta: p.meta(start), Name: name}, Range: p.loc(start)}
	}
	value := p.parseExpression()
	return ast.ObjectProperty{Key: name, Value: value, Range: p.loc(start)}
}

// parseLambda parses `fn(params) expr` or `fn(params) { ... }` in
// expression position (§3.2 LambdaExpression).
func (p *Parser) parseLambda(start ast.Range) ast.Node {
	p.Advance() // fn
	params := p.parseParameterList()
	var ret ast.TypeAnnotation
	if p.Match(lexer.ARROW) {
		ret = p.parseTypeAnnotation()
	}
	var body ast.Node
	if p.check(lexer.LBRACE) {
		body = p.parseBlockStatement()
	} else {
		body = p.parseExpression()
	}
	return &ast.LambdaExpression{Meta: p.meta(start), Params: params, Body: body, ReturnType: ret}
}

// parseMatchExpression parses `match expr { arm, arm, ... }`; arms are
// `pattern (if guard)? => body` separated by commas (NEWLINE is already
// filtered out by the token stream, so it doubles as the other legal
// separator from §4.2).
func (p *Parser) parseMatchExpression(start ast.Range) ast.Node {
	p.Advance() // match
	subject := p.parseExpression()
	p.Expect(lexer.LBRACE, "'{'")
	var arms []ast.MatchArm
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		astart := p.StartRange()
		pattern := p.parsePattern()
		var guard ast.Node
		if p.Match(lexer.IF) {
			guard = p.parseExpression()
		}
		p.Expect(lexer.ARROW, "'=>'")
		var body ast.Node
		if p.check(lexer.LBRACE) {
			body = p.parseBlockStatement()
		} else {
			body = p.parseExpression()
		}
		arms = append(arms, ast.MatchArm{Pattern: pattern, Guard: guard, Body: body, Range: p.loc(astart)})
		if !p.Match(lexer.COMMA) {
			continue
		}
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.MatchExpression{Meta: p.meta(start), Subject: subject, Arms: arms}
}

// parseIfExpression parses the value-producing `if cond { expr } else
// { expr }` form, distinct from the statement-level If (§3.2
// IfExpression). It is recognized the same way as the statement form;
// callers in expression position always want the expression node.
func (p *Parser) parseIfExpression(start ast.Range) ast.Node {
	p.Advance() // if
	cond := p.parseExpression()
	then := p.parseBlockOrExpr()
	n := &ast.IfExpression{Condition: cond, Then: then}
	if p.Match(lexer.ELIF) {
		n.Else = p.parseIfExpression(p.StartRange())
		n.Meta = p.meta(start)
		return n
	}
	if p.Match(lexer.ELSE) {
		n.Else = p.parseBlockOrExpr()
	}
	n.Meta = p.meta(start)
	return n
}

func (p *Parser) parseBlockOrExpr() ast.Node {
	if p.check(lexer.LBRACE) {
		return p.parseBlockStatement()
	}
	return p.parseExpression()
}
