package parser

import (
	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
)

// parsePattern parses the pattern grammar used by match arms, for-loop
// bindings, and destructuring: wildcard, literal, range, binding,
// variant destructure, tuple, and record field patterns (§4.2).
func (p *Parser) parsePattern() ast.Node {
	start := p.StartRange()

	switch p.Peek().Kind {
	case lexer.IDENT:
		if p.Peek().Value == "_" {
			p.Advance()
			return &ast.WildcardPattern{Meta: p.meta(start)}
		}
		name := p.Advance().Value
		if p.check(lexer.LPAREN) {
			return p.parseVariantPatternTail(start, name)
		}
		return p.parseRangeOrBindingPattern(start, &ast.BindingPattern{Meta: p.meta(start), Name: name})
	case lexer.NUMBER, lexer.STRING, lexer.TRUE, lexer.FALSE, lexer.NIL, lexer.MINUS:
		lit := p.parseUnary()
		return p.parseRangeOrBindingPattern(start, &ast.LiteralPattern{Meta: p.meta(start), Value: lit})
	case lexer.LBRACE:
		return p.parseRecordPattern(start)
	case lexer.LBRACKET:
		return p.parseArrayPattern(start)
	case lexer.LPAREN:
		return p.parseTuplePattern(start)
	default:
		p.Errorf("expected pattern, got %s", p.Peek())
		p.Advance()
		return &ast.WildcardPattern{Meta: p.meta(start)}
	}
}

// parseRangeOrBindingPattern turns `lo..hi` / `lo..=hi` following a
// literal or binding into a RangePattern, otherwise returns base as-is.
func (p *Parser) parseRangeOrBindingPattern(start ast.Range, base ast.Node) ast.Node {
	if p.check(lexer.RANGE_EXCL) || p.check(lexer.RANGE_INCL) {
		inclusive := p.check(lexer.RANGE_INCL)
		p.Advance()
		to := p.parseUnary()
		return &ast.RangePattern{Meta: p.meta(start), From: patternValue(base), To: to, Inclusive: inclusive}
	}
	return base
}

func patternValue(n ast.Node) ast.Node {
	if lp, ok := n.(*ast.LiteralPattern); ok {
		return lp.Value
	}
	return n
}

// parseVariantPatternTail parses `Name(arg, arg, ...)` after Name has
// already been consumed and `(` confirmed.
func (p *Parser) parseVariantPatternTail(start ast.Range, name string) ast.Node {
	p.Advance() // (
	var fields []ast.Node
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		fields = append(fields, p.parsePattern())
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.RPAREN, "')'")
	return &ast.VariantPattern{Meta: p.meta(start), Variant: name, Fields: fields}
}

func (p *Parser) parseRecordPattern(start ast.Range) ast.Node {
	p.Advance() // {
	var fields []ast.RecordPatternField
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		fstart := p.StartRange()
		name := p.Expect(lexer.IDENT, "field name").Value
		field := ast.RecordPatternField{Name: name}
		if p.Match(lexer.COLON) {
			field.Pattern = p.parsePattern()
		}
		field.Range = p.loc(fstart)
		fields = append(fields, field)
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.RecordPattern{Meta: p.meta(start), Fields: fields}
}

func (p *Parser) parseArrayPattern(start ast.Range) ast.Node {
	p.Advance() // [
	var elements []ast.Node
	rest := ""
	for !p.check(lexer.RBRACKET) && !p.check(lexer.EOF) {
		if p.Match(lexer.SPREAD) {
			rest = p.Expect(lexer.IDENT, "rest binding name").Value
			break
		}
		elements = append(elements, p.parsePattern())
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.RBRACKET, "']'")
	return &ast.ArrayPattern{Meta: p.meta(start), Elements: elements, Rest: rest}
}

func (p *Parser) parseTuplePattern(start ast.Range) ast.Node {
	p.Advance() // (
	var elements []ast.Node
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		elements = append(elements, p.parsePattern())
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.RPAREN, "')'")
	return &ast.TuplePattern{Meta: p.meta(start), Elements: elements}
}
