package parser

import (
	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
)

// parseExpression is the entry point into the operator grammar of §4.2,
// precedence lowest to highest: pipe |>, logical or, logical and,
// logical not, chained comparisons, membership in/not in, range,
// additive, multiplicative, power, unary, call/member/slice/optional-
// chain. `if`/`match`/blocks are value-producing and handled as primary
// expressions.
func (p *Parser) parseExpression() ast.Node {
	return p.parsePipe()
}

func (p *Parser) parsePipe() ast.Node {
	start := p.StartRange()
	left := p.parseOr()
	for p.check(lexer.PIPE) {
		p.Advance()
		right := p.parseOr()
		left = &ast.PipeExpression{Meta: p.meta(start), Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseOr() ast.Node {
	start := p.StartRange()
	left := p.parseAnd()
	for p.check(lexer.OR) {
		p.Advance()
		right := p.parseAnd()
		left = &ast.LogicalExpression{Meta: p.meta(start), Operator: "or", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Node {
	start := p.StartRange()
	left := p.parseNot()
	for p.check(lexer.AND) {
		p.Advance()
		right := p.parseNot()
		left = &ast.LogicalExpression{Meta: p.meta(start), Operator: "and", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseNot() ast.Node {
	if p.check(lexer.NOT) {
		start := p.StartRange()
		p.Advance()
		operand := p.parseNot()
		return &ast.UnaryExpression{Meta: p.meta(start), Operator: "not", Operand: operand}
	}
	return p.parseComparison()
}

var comparisonOps = map[lexer.Kind]string{
	lexer.EQ: "==", lexer.NEQ: "!=", lexer.LT: "<", lexer.LTE: "<=", lexer.GT: ">", lexer.GTE: ">=",
}

// parseComparison parses chained relational expressions (`a < x < b`)
// into a ChainedComparison, lowered semantically (not here) into a
// conjunction of pairs (§4.2).
func (p *Parser) parseComparison() ast.Node {
	start := p.StartRange()
	first := p.parseMembership()
	operands := []ast.Node{first}
	var operators []string

	for {
		op, ok := comparisonOps[p.Peek().Kind]
		if !ok {
			break
		}
		p.Advance()
		operators = append(operators, op)
		operands = append(operands, p.parseMembership())
	}

	if len(operators) == 0 {
		return first
	}
	return &ast.ChainedComparison{Meta: p.meta(start), Operands: operands, Operators: operators}
}

func (p *Parser) parseMembership() ast.Node {
	start := p.StartRange()
	left := p.parseRange()
	for {
		if p.check(lexer.IN) {
			p.Advance()
			right := p.parseRange()
			left = &ast.MembershipExpression{Meta: p.meta(start), Value: left, Iterable: right}
			continue
		}
		if p.check(lexer.NOT) && p.PeekAhead(1).Kind == lexer.IN {
			p.Advance()
			p.Advance()
			right := p.parseRange()
			left = &ast.MembershipExpression{Meta: p.meta(start), Negated: true, Value: left, Iterable: right}
			continue
		}
		break
	}
	return left
}

func (p *Parser) parseRange() ast.Node {
	start := p.StartRange()
	left := p.parseAdditive()
	if p.check(lexer.RANGE_EXCL) || p.check(lexer.RANGE_INCL) {
		inclusive := p.check(lexer.RANGE_INCL)
		p.Advance()
		right := p.parseAdditive()
		return &ast.RangeExpression{Meta: p.meta(start), From: left, To: right, Inclusive: inclusive}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Node {
	start := p.StartRange()
	left := p.parseMultiplicative()
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		op := p.Advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpression{Meta: p.meta(start), Operator: op.Value, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Node {
	start := p.StartRange()
	left := p.parsePower()
	for p.check(lexer.STAR) || p.check(lexer.SLASH) || p.check(lexer.PERCENT) {
		op := p.Advance()
		right := p.parsePower()
		left = &ast.BinaryExpression{Meta: p.meta(start), Operator: op.Value, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parsePower() ast.Node {
	start := p.StartRange()
	left := p.parseUnary()
	if p.check(lexer.POWER) {
		p.Advance()
		right := p.parsePower() // right-associative
		return &ast.BinaryExpression{Meta: p.meta(start), Operator: "**", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Node {
	start := p.StartRange()
	switch p.Peek().Kind {
	case lexer.MINUS, lexer.PLUS, lexer.BANG:
		op := p.Advance()
		operand := p.parseUnary()
		return &ast.UnaryExpression{Meta: p.meta(start), Operator: op.Value, Operand: operand}
	}
	return p.parsePostfix()
}

// parsePostfix handles call/member/slice/optional-chain/propagate
// suffixes, the highest-precedence tier (§4.2).
func (p *Parser) parsePostfix() ast.Node {
	start := p.StartRange()
	expr := p.parsePrimary()

	for {
		switch p.Peek().Kind {
		case lexer.DOT:
			p.Advance()
			nameTok := p.Expect(lexer.IDENT, "member name")
			prop := &ast.Identifier{Meta: p.meta(start), Name: nameTok.Value}
			expr = &ast.MemberExpression{Meta: p.meta(start), Object: expr, Property: prop}
		case lexer.QUESTION_DOT:
			p.Advance()
			if p.check(lexer.LPAREN) {
				args := p.parseArguments()
				expr = &ast.OptionalChain{Meta: p.meta(start), Object: expr, IsCall: true, CallArgs: args}
				continue
			}
			if p.Match(lexer.LBRACKET) {
				idx := p.parseExpression()
				p.Expect(lexer.RBRACKET, "']'")
				expr = &ast.OptionalChain{Meta: p.meta(start), Object: expr, Property: idx, Computed: true}
				continue
			}
			nameTok := p.Expect(lexer.IDENT, "member name")
			prop := &ast.Identifier{Meta: p.meta(start), Name: nameTok.Value}
			expr = &ast.OptionalChain{Meta: p.meta(start), Object: expr, Property: prop}
		case lexer.LBRACKET:
			p.Advance()
			expr = p.parseIndexOrSlice(start, expr)
		case lexer.LPAREN:
			args := p.parseArguments()
			expr = &ast.CallExpression{Meta: p.meta(start), Callee: expr, Args: args}
		case lexer.QUESTION:
			p.Advance()
			expr = &ast.PropagateExpression{Meta: p.meta(start), Argument: expr}
		default:
			return expr
		}
	}
}

// parseIndexOrSlice parses `arr[expr]` or `arr[a:b:c]` after the `[` has
// already been consumed.
func (p *Parser) parseIndexOrSlice(start ast.Range, target ast.Node) ast.Node {
	var from, to, step ast.Node
	isSlice := false

	if !p.check(lexer.COLON) {
		from = p.parseExpression()
	}
	if p.Match(lexer.COLON) {
		isSlice = true
		if !p.check(lexer.COLON) && !p.check(lexer.RBRACKET) {
			to = p.parseExpression()
		}
		if p.Match(lexer.COLON) {
			if !p.check(lexer.RBRACKET) {
				step = p.parseExpression()
			}
		}
	}
	p.Expect(lexer.RBRACKET, "']'")

	if isSlice {
		return &ast.SliceExpression{Meta: p.meta(start), Target: target, From: from, To: to, Step: step}
	}
	return &ast.MemberExpression{Meta: p.meta(start), Object: target, Property: from, Computed: true}
}

func (p *Parser) parseArguments() []ast.Argument {
	p.Expect(lexer.LPAREN, "'('")
	var args []ast.Argument
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		astart := p.StartRange()
		if p.check(lexer.SPREAD) {
			p.Advance()
			args = append(args, ast.Argument{Value: &ast.SpreadExpression{Meta: p.meta(astart), Argument: p.parseExpression()}, Range: p.loc(astart)})
		} else if p.check(lexer.IDENT) && p.PeekAhead(1).Kind == lexer.COLON {
			name := p.Advance().Value
			p.Advance() // colon
			args = append(args, ast.Argument{Name: name, Value: p.parseExpression(), Range: p.loc(astart)})
		} else {
			args = append(args, ast.Argument{Value: p.parseExpression(), Range: p.loc(astart)})
		}
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.RPAREN, "')'")
	return args
}

// parsePrimary parses literals, identifiers, grouped expressions,
// collection literals/comprehensions, lambdas, match/if expressions,
// and JSX (§3.2, §4.2).
func (p *Parser) parsePrimary() ast.Node {
	start := p.StartRange()
	tok := p.Peek()

	switch tok.Kind {
	case lexer.NUMBER:
		p.Advance()
		return &ast.NumberLiteral{Meta: p.meta(start), Raw: tok.Value, IsFloat: tok.IsFloat}
	case lexer.STRING:
		p.Advance()
		return &ast.StringLiteral{Meta: p.meta(start), Value: tok.Value}
	case lexer.STRING_TEMPLATE:
		p.Advance()
		return p.buildTemplateLiteral(start, tok)
	case lexer.REGEX:
		p.Advance()
		return &ast.RegexLiteral{Meta: p.meta(start), Pattern: tok.Value, Flags: tok.RegexFlags}
	case lexer.TRUE:
		p.Advance()
		return &ast.BooleanLiteral{Meta: p.meta(start), Value: true}
	case lexer.FALSE:
		p.Advance()
		return &ast.BooleanLiteral{Meta: p.meta(start), Value: false}
	case lexer.NIL:
		p.Advance()
		return &ast.NilLiteral{Meta: p.meta(start)}
	case lexer.IDENT:
		p.Advance()
		return &ast.Identifier{Meta: p.meta(start), Name: tok.Value}
	case lexer.LPAREN:
		return p.parseParenOrTuple(start)
	case lexer.LBRACKET:
		return p.parseArrayLiteralOrComprehension(start)
	case lexer.LBRACE:
		return p.parseObjectLiteralOrDictComprehension(start)
	case lexer.FN:
		return p.parseLambda(start)
	case lexer.MATCH:
		return p.parseMatchExpression(start)
	case lexer.IF:
		return p.parseIfExpression(start)
	case lexer.JSX_OPEN, lexer.JSX_FRAG_OPEN:
		return p.parseJSXPrimary()
	}

	p.Errorf("unexpected token %s", tok)
	p.Advance()
	return &ast.NilLiteral{Meta: p.meta(start)}
}

// buildTemplateLiteral converts the lexer's STRING_TEMPLATE payload
// (alternating text/expr parts, §3.1) into a TemplateLiteral AST node by
// recursively parsing each expression part's token slice.
func (p *Parser) buildTemplateLiteral(outer ast.Range, tok lexer.Token) ast.Node {
	lit := &ast.TemplateLiteral{Meta: p.meta(outer)}
	for _, part := range tok.Template {
		if part.Kind == lexer.TemplateText {
			lit.Parts = append(lit.Parts, ast.TemplatePart{Text: part.Value})
			continue
		}
		sub := parseSubExpression(p.filename, part.Tokens)
		lit.Parts = append(lit.Parts, ast.TemplatePart{IsExpr: true, Expr: sub})
	}
	return lit
}

// parseSubExpression parses the already-lexed token slice of one string
// interpolation span (§3.1) as a standalone expression.
func parseSubExpression(filename string, tokens []lexer.Token) ast.Node {
	sp := &Parser{filename: filename, buf: append(append([]lexer.Token{}, tokens...), lexer.Token{Kind: lexer.EOF})}
	sp.reg = nil // interpolated expressions don't introduce dialect blocks
	return sp.parseExpression()
}

// parseParenOrTuple parses `(expr)` grouping and `(a, b, ...)` tuple
// value literals. The AST has no dedicated tuple-literal node (§3.2
// only names TupleTypeAnnotation for the type grammar), so a tuple value
// is represented the same way a list literal is: an ArrayLiteral,
// distinguished from `[...]` only by how it was spelled in source.
func (p *Parser) parseParenOrTuple(start ast.Range) ast.Node {
	p.Advance() // (
	if p.check(lexer.RPAREN) {
		p.Advance()
		return &ast.ArrayLiteral{Meta: p.meta(start)}
	}
	first := p.parseExpression()
	if !p.check(lexer.COMMA) {
		p.Expect(lexer.RPAREN, "')'")
		return first
	}
	elements := []ast.Node{first}
	for p.Match(lexer.COMMA) {
		if p.check(lexer.RPAREN) {
			break
		}
		elements = append(elements, p.parseExpression())
	}
	p.Expect(lexer.RPAREN, "')'")
	return &ast.ArrayLiteral{Meta: p.meta(start), Elements: elements}
}
