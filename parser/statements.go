package parser

import (
	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
)

// parseStatement parses one general statement or declaration (§4.2,
// §6.1): imports/exports are handled by the caller at top level; this
// covers let/var/fn/type/control-flow/assignment and the contextual
// dialect keywords that are only legal inside the right enclosing block
// (the parser accepts them syntactically everywhere; the analyzer
// enforces context, §4.3).
func (p *Parser) parseStatement() ast.Node {
	switch p.Peek().Kind {
	case lexer.VAR:
		return p.parseVarDeclaration()
	case lexer.LET:
		return p.parseLetDestructure()
	case lexer.FN:
		// `fn name(...)` declares; `fn(...)` is a lambda in expression
		// position.
		if p.PeekAhead(1).Kind == lexer.LPAREN {
			return p.parseExpressionOrAssignment()
		}
		return p.parseFunctionDeclaration()
	case lexer.TYPE:
		return p.parseTypeDeclaration()
	case lexer.IF:
		return p.parseIf()
	case lexer.FOR:
		return p.parseFor()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.TRY:
		return p.parseTryCatch()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.STYLE_BLOCK:
		return p.parseStyleBlock()

	case lexer.ROUTE:
		return p.parseRouteDeclaration()
	case lexer.MIDDLEWARE:
		return p.parseMiddlewareDeclaration()
	case lexer.WS:
		return p.parseWebSocketDeclaration()
	case lexer.DB:
		return p.parseDbDeclaration()
	case lexer.CORS:
		return p.parseCorsDeclaration()
	case lexer.AUTH:
		return p.parseAuthDeclaration()
	case lexer.SCHEDULE:
		return p.parseScheduleDeclaration()
	case lexer.UPLOAD:
		return p.parseUploadDeclaration()
	case lexer.SESSION:
		return p.parseSessionDeclaration()
	case lexer.ENV:
		return p.parseEnvDeclarationStatement()
	case lexer.STATE:
		return p.parseStateDeclaration()
	case lexer.COMPUTED:
		return p.parseComputedDeclaration()
	case lexer.EFFECT:
		return p.parseEffectDeclaration()
	case lexer.COMPONENT:
		return p.parseComponentDeclaration()
	case lexer.STORE:
		return p.parseStoreDeclaration()

	default:
		return p.parseExpressionOrAssignment()
	}
}

func (p *Parser) parseImport() ast.Node {
	start := p.StartRange()
	p.Advance() // import
	imp := &ast.Import{}
	if p.check(lexer.IDENT) {
		imp.Alias = p.Advance().Value
	}
	tok := p.Expect(lexer.STRING, "import path")
	imp.Path = tok.Value
	imp.Meta = p.meta(start)
	return imp
}

func (p *Parser) parseExport() ast.Node {
	start := p.StartRange()
	p.Advance() // export
	exp := &ast.Export{}
	if p.check(lexer.IDENT) && !p.isDeclarationStart(p.PeekAhead(0)) {
		exp.Name = p.Advance().Value
	} else {
		exp.Decl = p.parseStatement()
	}
	exp.Meta = p.meta(start)
	return exp
}

func (p *Parser) isDeclarationStart(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.FN, lexer.TYPE, lexer.VAR, lexer.LET:
		return true
	}
	return false
}

func (p *Parser) parseVarDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // var
	name := p.Expect(lexer.IDENT, "identifier").Value
	decl := &ast.VarDeclaration{Name: name}
	if p.Match(lexer.COLON) {
		decl.DeclaredType = p.parseTypeAnnotation()
	}
	p.Expect(lexer.ASSIGN, "'='")
	decl.Value = p.parseExpression()
	decl.Meta = p.meta(start)
	return decl
}

func (p *Parser) parseLetDestructure() ast.Node {
	start := p.StartRange()
	p.Advance() // let
	pattern := p.parseDestructurePattern()
	p.Expect(lexer.ASSIGN, "'='")
	value := p.parseExpression()
	return &ast.LetDestructure{Meta: p.meta(start), Pattern: pattern, Value: value}
}

// parseDestructurePattern parses the `{a, b}` / `[x, y]` shapes legal on
// the left of a LetDestructure.
func (p *Parser) parseDestructurePattern() ast.Node {
	start := p.StartRange()
	switch {
	case p.check(lexer.LBRACE):
		p.Advance()
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
	case p.check(lexer.LBRACKET):
		p.Advance()
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
	default:
		name := p.Expect(lexer.IDENT, "identifier").Value
		return &ast.BindingPattern{Meta: p.meta(start), Name: name}
	}
}

func (p *Parser) parseParameterList() []ast.Parameter {
	p.Expect(lexer.LPAREN, "'('")
	var params []ast.Parameter
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		pstart := p.StartRange()
		name := p.Expect(lexer.IDENT, "parameter name").Value
		param := ast.Parameter{Name: name}
		if p.Match(lexer.COLON) {
			param.DeclaredType = p.parseTypeAnnotation()
		}
		if p.Match(lexer.ASSIGN) {
			param.Default = p.parseExpression()
		}
		param.Range = p.loc(pstart)
		params = append(params, param)
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.RPAREN, "')'")
	return params
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	start := p.StartRange()
	p.Advance() // fn
	name := p.Expect(lexer.IDENT, "function name").Value
	params := p.parseParameterList()
	var ret ast.TypeAnnotation
	if p.Match(lexer.ARROW) {
		ret = p.parseTypeAnnotation()
	}
	body := p.parseBlockStatement()
	return &ast.FunctionDeclaration{Meta: p.meta(start), Name: name, Params: params, ReturnType: ret, Body: body}
}

func (p *Parser) parseTypeDeclaration() *ast.TypeDeclaration {
	start := p.StartRange()
	p.Advance() // type
	name := p.Expect(lexer.IDENT, "type name").Value
	decl := &ast.TypeDeclaration{Name: name}
	if p.Match(lexer.LT) {
		for !p.check(lexer.GT) && !p.check(lexer.EOF) {
			decl.TypeParams = append(decl.TypeParams, p.Expect(lexer.IDENT, "type parameter").Value)
			if !p.Match(lexer.COMMA) {
				break
			}
		}
		p.Expect(lexer.GT, "'>'")
	}
	p.Expect(lexer.LBRACE, "'{'")
	decl.Variants = p.parseTypeVariants()
	p.Expect(lexer.RBRACE, "'}'")
	decl.Meta = p.meta(start)
	return decl
}

// parseTypeVariants parses either a plain record's field list or a
// tagged union's list of `Variant` / `Variant(field: T, ...)` entries
// (§6.1 "Types"); a record is represented as a single TypeVariant whose
// Name is "".
func (p *Parser) parseTypeVariants() []ast.TypeVariant {
	// A record body starts directly with `name: Type` fields; a union
	// body starts with a capitalized variant constructor name followed
	// by `(` or a separator. Disambiguate by peeking for a COLON right
	// after the first identifier.
	if p.check(lexer.IDENT) && p.PeekAhead(1).Kind == lexer.COLON {
		return []ast.TypeVariant{{Fields: p.parseFieldList()}}
	}

	var variants []ast.TypeVariant
	for p.check(lexer.IDENT) && !p.check(lexer.EOF) {
		vstart := p.StartRange()
		name := p.Advance().Value
		variant := ast.TypeVariant{Name: name}
		if p.Match(lexer.LPAREN) {
			for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
				fname := p.Expect(lexer.IDENT, "field name").Value
				p.Expect(lexer.COLON, "':'")
				ftype := p.parseTypeAnnotation()
				variant.Fields = append(variant.Fields, ast.FieldDef{Name: fname, Type: ftype})
				if !p.Match(lexer.COMMA) {
					break
				}
			}
			p.Expect(lexer.RPAREN, "')'")
		}
		variant.Range = p.loc(vstart)
		variants = append(variants, variant)
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	return variants
}

func (p *Parser) parseFieldList() []ast.FieldDef {
	var fields []ast.FieldDef
	for p.check(lexer.IDENT) && !p.check(lexer.EOF) {
		name := p.Advance().Value
		p.Expect(lexer.COLON, "':'")
		ftype := p.parseTypeAnnotation()
		fields = append(fields, ast.FieldDef{Name: name, Type: ftype})
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	return fields
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	start := p.StartRange()
	p.Expect(lexer.LBRACE, "'{'")
	var body []ast.Node
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		if len(p.errors) > 0 {
			break
		}
		body = append(body, p.parseStatement())
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.BlockStatement{Meta: p.meta(start), Body: body}
}

func (p *Parser) parseIf() ast.Node {
	start := p.StartRange()
	p.Advance() // if
	cond := p.parseExpression()
	then := p.parseBlockStatement()
	n := &ast.If{Condition: cond, Then: then}
	for p.check(lexer.ELIF) {
		p.Advance()
		ec := p.parseExpression()
		eb := p.parseBlockStatement()
		n.ElseIfs = append(n.ElseIfs, ast.ElseIf{Condition: ec, Body: eb})
	}
	if p.Match(lexer.ELSE) {
		n.Else = p.parseBlockStatement()
	}
	n.Meta = p.meta(start)
	return n
}

func (p *Parser) parseFor() ast.Node {
	start := p.StartRange()
	p.Advance() // for
	pattern := p.parsePattern()
	p.Expect(lexer.IN, "'in'")
	iterable := p.parseExpression()
	body := p.parseBlockStatement()
	return &ast.For{Meta: p.meta(start), Pattern: pattern, Iterable: iterable, Body: body}
}

func (p *Parser) parseWhile() ast.Node {
	start := p.StartRange()
	p.Advance() // while
	cond := p.parseExpression()
	body := p.parseBlockStatement()
	return &ast.While{Meta: p.meta(start), Condition: cond, Body: body}
}

func (p *Parser) parseTryCatch() ast.Node {
	start := p.StartRange()
	p.Advance() // try
	tryBlock := p.parseBlockStatement()
	n := &ast.TryCatch{Try: tryBlock}
	if p.Match(lexer.CATCH) {
		if p.Match(lexer.LPAREN) {
			n.CatchName = p.Expect(lexer.IDENT, "catch binding").Value
			p.Expect(lexer.RPAREN, "')'")
		}
		n.Catch = p.parseBlockStatement()
	}
	if p.Match(lexer.FINALLY) {
		n.Finally = p.parseBlockStatement()
	}
	n.Meta = p.meta(start)
	return n
}

func (p *Parser) parseReturn() ast.Node {
	start := p.StartRange()
	p.Advance() // return
	n := &ast.Return{}
	if !p.atStatementEnd() {
		n.Value = p.parseExpression()
	}
	n.Meta = p.meta(start)
	return n
}

func (p *Parser) atStatementEnd() bool {
	switch p.Peek().Kind {
	case lexer.RBRACE, lexer.EOF, lexer.SEMICOLON:
		return true
	}
	return false
}

func (p *Parser) parseStyleBlock() ast.Node {
	start := p.StartRange()
	tok := p.Advance() // STYLE_BLOCK
	return &ast.StyleBlock{Meta: p.meta(start), Raw: tok.Value}
}

// parseExpressionOrAssignment parses a bare expression statement, a
// `name = expr` Assignment (immutability is resolved later, by the
// analyzer, never here — §4.2), or a `name += expr` CompoundAssignment.
func (p *Parser) parseExpressionOrAssignment() ast.Node {
	start := p.StartRange()
	expr := p.parseExpression()

	switch p.Peek().Kind {
	case lexer.ASSIGN:
		p.Advance()
		value := p.parseExpression()
		return &ast.Assignment{Meta: p.meta(start), Target: expr, Value: value}
	case lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN, lexer.SLASH_ASSIGN:
		op := p.Advance()
		value := p.parseExpression()
		return &ast.CompoundAssignment{Meta: p.meta(start), Operator: op.Value, Target: expr, Value: value}
	}

	return &ast.ExpressionStatement{Meta: p.meta(start), Expression: expr}
}
