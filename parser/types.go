package parser

import (
	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
)

// parseTypeAnnotation parses the type annotation grammar: named
// (optionally generic), array, tuple, function, and nullable (§3.2).
func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	base := p.parseTypeAnnotationBase()
	for p.check(lexer.QUESTION) {
		start := p.StartRange()
		p.Advance()
		base = &ast.NullableTypeAnnotation{Meta: p.meta(start), Inner: base}
	}
	return base
}

func (p *Parser) parseTypeAnnotationBase() ast.TypeAnnotation {
	start := p.StartRange()

	if p.check(lexer.LPAREN) {
		p.Advance()
		var elements []ast.TypeAnnotation
		for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
			elements = append(elements, p.parseTypeAnnotation())
			if !p.Match(lexer.COMMA) {
				break
			}
		}
		p.Expect(lexer.RPAREN, "')'")
		if p.Match(lexer.ARROW) {
			ret := p.parseTypeAnnotation()
			return &ast.FunctionTypeAnnotation{Meta: p.meta(start), Params: elements, Return: ret}
		}
		return &ast.TupleTypeAnnotation{Meta: p.meta(start), Elements: elements}
	}

	name := p.Expect(lexer.IDENT, "type name").Value
	named := &ast.NamedTypeAnnotation{Name: name}
	if p.Match(lexer.LT) {
		for !p.check(lexer.GT) && !p.check(lexer.EOF) {
			named.Args = append(named.Args, p.parseTypeAnnotation())
			if !p.Match(lexer.COMMA) {
				break
			}
		}
		p.Expect(lexer.GT, "'>'")
	}
	named.Meta = p.meta(start)

	var result ast.TypeAnnotation = named
	for p.check(lexer.LBRACKET) && p.PeekAhead(1).Kind == lexer.RBRACKET {
		p.Advance()
		p.Advance()
		result = &ast.ArrayTypeAnnotation{Meta: p.meta(start), Element: result}
	}
	return result
}
