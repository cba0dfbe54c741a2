package parser

import (
	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
	"github.com/tova-lang/tova/registry"
)

// parseHooks builds the parse-side half of the plugin contract: a
// ParseFunc per dialect name in registry.BlockDescriptors, each a
// closure bound to this *Parser. The registry.BlockParser argument is
// ignored — every hook already has its owning Parser captured, so there
// is no need to type-assert it back (§4.4).
func (p *Parser) parseHooks() map[string]registry.ParseFunc {
	return map[string]registry.ParseFunc{
		"form":       func(registry.BlockParser) ast.Node { return p.parseFormDeclaration() },
		"security":   func(registry.BlockParser) ast.Node { return p.parsePluginBlock(registry.KindSecurity) },
		"deploy":     func(registry.BlockParser) ast.Node { return p.parseDeployDeclaration() },
		"cli":        func(registry.BlockParser) ast.Node { return p.parsePluginBlock(registry.KindCli) },
		"edge":       func(registry.BlockParser) ast.Node { return p.parsePluginBlock(registry.KindEdge) },
		"concurrent": func(registry.BlockParser) ast.Node { return p.parsePluginBlock(registry.KindConcurrent) },
		"bench":      func(registry.BlockParser) ast.Node { return p.parsePluginBlock(registry.KindBench) },
	}
}

// --- top-level dialect blocks (§3.2 "Block nodes") --------------------------

func (p *Parser) parseServerBlock() ast.Node {
	start := p.StartRange()
	p.Advance() // server
	var name string
	if p.check(lexer.IDENT) {
		name = p.Advance().Value
	}
	body := p.parseDialectBody()
	return &ast.ServerBlock{Meta: p.meta(start), Name: name, Body: body}
}

func (p *Parser) parseBrowserBlock(legacy bool) ast.Node {
	start := p.StartRange()
	p.Advance() // browser or client
	body := p.parseDialectBody()
	return &ast.BrowserBlock{Meta: p.meta(start), LegacyKeyword: legacy, Body: body}
}

func (p *Parser) parseSharedBlock() ast.Node {
	start := p.StartRange()
	p.Advance() // shared
	body := p.parseDialectBody()
	return &ast.SharedBlock{Meta: p.meta(start), Body: body}
}

// parseDialectBody parses a `{ ... }` body at top-level-statement
// granularity, re-running full top-level dispatch so a nested plugin
// block (e.g. `form` inside `browser`) is recognized exactly as it would
// be at the file's top level.
func (p *Parser) parseDialectBody() []ast.Node {
	p.Expect(lexer.LBRACE, "'{'")
	var body []ast.Node
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		if len(p.errors) > 0 {
			break
		}
		body = append(body, p.parseTopLevel())
	}
	p.Expect(lexer.RBRACE, "'}'")
	return body
}

// --- server-context declarations (§4.3 "valid only when context === server") --

// parseRouteDeclaration parses `route METHOD "/path" [: BodyType]
// [mw1, mw2, ...] => handler`.
func (p *Parser) parseRouteDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // route
	method := p.Expect(lexer.IDENT, "HTTP method").Value
	path := p.Expect(lexer.STRING, "route path").Value
	decl := &ast.RouteDeclaration{Method: method, Path: path}
	if p.Match(lexer.COLON) {
		decl.BodyType = p.parseTypeAnnotation()
	}
	for p.check(lexer.IDENT) {
		decl.Middleware = append(decl.Middleware, p.Advance().Value)
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.ARROW, "'=>'")
	decl.Handler = p.parseExpression()
	decl.Meta = p.meta(start)
	return decl
}

func (p *Parser) parseMiddlewareDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // middleware
	name := p.Expect(lexer.IDENT, "middleware name").Value
	params := p.parseParameterList()
	body := p.parseBlockStatement()
	return &ast.MiddlewareDeclaration{Meta: p.meta(start), Name: name, Params: params, Body: body}
}

func (p *Parser) parseWebSocketDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // ws
	path := p.Expect(lexer.STRING, "websocket path").Value
	p.Expect(lexer.ARROW, "'=>'")
	handler := p.parseExpression()
	return &ast.WebSocketDeclaration{Meta: p.meta(start), Path: path, Handler: handler}
}

func (p *Parser) parseDbDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // db
	name := p.Expect(lexer.IDENT, "db binding name").Value
	p.Expect(lexer.ASSIGN, "'='")
	value := p.parseExpression()
	return &ast.DbDeclaration{Meta: p.meta(start), Name: name, Value: value}
}

func (p *Parser) parseCorsDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // cors
	ostart := p.StartRange()
	options := p.parseObjectLiteralOrDictComprehension(ostart)
	return &ast.CorsDeclaration{Meta: p.meta(start), Options: options}
}

func (p *Parser) parseAuthDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // auth
	ostart := p.StartRange()
	options := p.parseObjectLiteralOrDictComprehension(ostart)
	return &ast.AuthDeclaration{Meta: p.meta(start), Options: options}
}

func (p *Parser) parseScheduleDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // schedule
	cron := p.Expect(lexer.STRING, "cron expression").Value
	p.Expect(lexer.ARROW, "'=>'")
	handler := p.parseExpression()
	return &ast.ScheduleDeclaration{Meta: p.meta(start), Cron: cron, Handler: handler}
}

func (p *Parser) parseUploadDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // upload
	name := p.Expect(lexer.IDENT, "upload name").Value
	ostart := p.StartRange()
	options := p.parseObjectLiteralOrDictComprehension(ostart)
	return &ast.UploadDeclaration{Meta: p.meta(start), Name: name, Options: options}
}

func (p *Parser) parseSessionDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // session
	ostart := p.StartRange()
	options := p.parseObjectLiteralOrDictComprehension(ostart)
	return &ast.SessionDeclaration{Meta: p.meta(start), Options: options}
}

func (p *Parser) parseEnvDeclarationStatement() ast.Node {
	start := p.StartRange()
	p.Advance() // env
	p.Expect(lexer.LPAREN, "'('")
	name := p.Expect(lexer.STRING, "env variable name").Value
	p.Expect(lexer.RPAREN, "')'")
	return &ast.EnvDeclaration{Meta: p.meta(start), Name: name}
}

// --- browser-context declarations (§4.3 "valid only when context === browser") -

func (p *Parser) parseStateDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // state
	name := p.Expect(lexer.IDENT, "state name").Value
	decl := &ast.StateDeclaration{Name: name}
	if p.Match(lexer.COLON) {
		decl.DeclaredType = p.parseTypeAnnotation()
	}
	p.Expect(lexer.ASSIGN, "'='")
	decl.Value = p.parseExpression()
	decl.Meta = p.meta(start)
	return decl
}

func (p *Parser) parseComputedDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // computed
	name := p.Expect(lexer.IDENT, "computed name").Value
	p.Expect(lexer.ASSIGN, "'='")
	value := p.parseExpression()
	return &ast.ComputedDeclaration{Meta: p.meta(start), Name: name, Value: value}
}

func (p *Parser) parseEffectDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // effect
	var deps []ast.Node
	if p.Match(lexer.LPAREN) {
		for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
			deps = append(deps, p.parseExpression())
			if !p.Match(lexer.COMMA) {
				break
			}
		}
		p.Expect(lexer.RPAREN, "')'")
	}
	body := p.parseBlockStatement()
	return &ast.EffectDeclaration{Meta: p.meta(start), Deps: deps, Body: body}
}

func (p *Parser) parseComponentDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // component
	name := p.Expect(lexer.IDENT, "component name").Value
	params := p.parseParameterList()
	body := p.parseBlockStatement()
	return &ast.ComponentDeclaration{Meta: p.meta(start), Name: name, Params: params, Body: body}
}

func (p *Parser) parseStoreDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // store
	name := p.Expect(lexer.IDENT, "store name").Value
	body := p.parseBlockStatement()
	return &ast.StoreDeclaration{Meta: p.meta(start), Name: name, Body: body}
}

// --- form plugin (§4.3 "Form blocks") ---------------------------------------

func (p *Parser) parseFormDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // form
	name := p.Expect(lexer.IDENT, "form name").Value
	p.Expect(lexer.LBRACE, "'{'")
	var body []ast.Node
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		body = append(body, p.parseFormBodyItem())
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.FormDeclaration{Meta: p.meta(start), Name: name, Body: body}
}

// parseFormBodyItem parses one member of a form/group/array body: a
// field, a nested group, a nested array, or a steps block.
func (p *Parser) parseFormBodyItem() ast.Node {
	switch p.Peek().Kind {
	case lexer.FIELD:
		return p.parseFormField()
	case lexer.GROUP:
		return p.parseFormGroup()
	case lexer.ARRAY:
		return p.parseFormArray()
	case lexer.STEPS:
		return p.parseFormSteps()
	default:
		p.Errorf("expected field, group, array, or steps in form body, got %s", p.Peek())
		p.Advance()
		return &ast.ExpressionStatement{Meta: p.meta(p.StartRange()), Expression: &ast.NilLiteral{}}
	}
}

// parseFormField parses `field name[: Type][= default][, validator(args), ...]`.
func (p *Parser) parseFormField() ast.Node {
	start := p.StartRange()
	p.Advance() // field
	name := p.Expect(lexer.IDENT, "field name").Value
	decl := &ast.FormFieldDeclaration{Name: name}
	if p.Match(lexer.COLON) {
		decl.DeclaredType = p.parseTypeAnnotation()
	}
	if p.Match(lexer.ASSIGN) {
		decl.Default = p.parseExpression()
	}
	for p.Match(lexer.COMMA) {
		vname := p.Expect(lexer.IDENT, "validator name").Value
		var args []ast.Node
		if p.Match(lexer.LPAREN) {
			for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
				args = append(args, p.parseExpression())
				if !p.Match(lexer.COMMA) {
					break
				}
			}
			p.Expect(lexer.RPAREN, "')'")
		}
		decl.Validators = append(decl.Validators, ast.ValidatorCall{Name: vname, Args: args})
	}
	decl.Meta = p.meta(start)
	return decl
}

func (p *Parser) parseFormGroup() ast.Node {
	start := p.StartRange()
	p.Advance() // group
	name := p.Expect(lexer.IDENT, "group name").Value
	p.Expect(lexer.LBRACE, "'{'")
	var body []ast.Node
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		body = append(body, p.parseFormBodyItem())
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.FormGroupDeclaration{Meta: p.meta(start), Name: name, Body: body}
}

func (p *Parser) parseFormArray() ast.Node {
	start := p.StartRange()
	p.Advance() // array
	name := p.Expect(lexer.IDENT, "array name").Value
	p.Expect(lexer.LBRACE, "'{'")
	var body []ast.Node
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		body = append(body, p.parseFormBodyItem())
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.FormArrayDeclaration{Meta: p.meta(start), Name: name, Body: body}
}

// parseFormSteps parses `steps { step "label" [when cond] { member, ... }, ... }`.
func (p *Parser) parseFormSteps() ast.Node {
	start := p.StartRange()
	p.Advance() // steps
	p.Expect(lexer.LBRACE, "'{'")
	var steps []ast.FormStep
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		sstart := p.StartRange()
		p.Expect(lexer.STEP, "'step'")
		label := p.Expect(lexer.STRING, "step label").Value
		var guard ast.Node
		if p.Match(lexer.WHEN) {
			guard = p.parseExpression()
		}
		p.Expect(lexer.LBRACE, "'{'")
		var members []string
		for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
			members = append(members, p.Expect(lexer.IDENT, "member name").Value)
			if !p.Match(lexer.COMMA) {
				break
			}
		}
		p.Expect(lexer.RBRACE, "'}'")
		steps = append(steps, ast.FormStep{Label: label, Guard: guard, Members: members, Range: p.loc(sstart)})
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.StepsDeclaration{Meta: p.meta(start), Steps: steps}
}

// --- deploy plugin (§4.3 "Deploy blocks") -----------------------------------

// parseDeployDeclaration parses `deploy [name] { field: value, ... }`. An
// optional block name is accepted for symmetry with the other dialect
// blocks but, since DeployDeclaration carries no Name field, it is
// recognized and discarded rather than threaded through (§4.3 only
// checks Fields).
func (p *Parser) parseDeployDeclaration() ast.Node {
	start := p.StartRange()
	p.Advance() // deploy
	if p.check(lexer.IDENT) {
		p.Advance()
	}
	p.Expect(lexer.LBRACE, "'{'")
	fields := map[string]ast.Node{}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		key, ok := p.deployFieldName()
		if !ok {
			p.Errorf("expected field name, got %s", p.Peek())
			break
		}
		p.Expect(lexer.COLON, "':'")
		fields[key] = p.parseExpression()
		if !p.Match(lexer.COMMA) {
			break
		}
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.DeployDeclaration{Meta: p.meta(start), Fields: fields}
}

// deployFieldName accepts a deploy field key: a plain identifier, or
// one of the dialect keywords the valid field set collides with
// ("server" and "env" are both reserved words and documented deploy
// fields), so that `deploy { server: "...", env: "prod" }` parses the
// same as any other field.
func (p *Parser) deployFieldName() (string, bool) {
	tok := p.Peek()
	switch tok.Kind {
	case lexer.IDENT, lexer.SERVER, lexer.ENV:
		p.Advance()
		return tok.Value, true
	}
	return "", false
}

// --- generic plugin blocks: security/cli/edge/concurrent/bench -------------

// parsePluginBlock parses `KEYWORD [name] { ...body... }` for the
// dialects that share the generic ast.PluginBlock wrapper rather than
// owning a dedicated node type.
func (p *Parser) parsePluginBlock(kind ast.BlockKind) ast.Node {
	start := p.StartRange()
	p.Advance() // keyword
	var name string
	if p.check(lexer.IDENT) {
		name = p.Advance().Value
	}
	p.Expect(lexer.LBRACE, "'{'")
	var body []ast.Node
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		if len(p.errors) > 0 {
			break
		}
		body = append(body, p.parsePluginBlockItem(kind))
	}
	p.Expect(lexer.RBRACE, "'}'")
	return &ast.PluginBlock{Meta: p.meta(start), Kind: kind, Name: name, Body: body}
}

// parsePluginBlockItem recognizes each dialect's own contextual
// declaration keyword, falling back to a general statement otherwise
// (e.g. a `fn` helper declared inside a `concurrent` block).
func (p *Parser) parsePluginBlockItem(kind ast.BlockKind) ast.Node {
	switch kind {
	case registry.KindCli:
		if p.check(lexer.COMMAND) {
			return p.parseCliCommand()
		}
	case registry.KindEdge:
		if p.check(lexer.PRODUCE) {
			return p.parseEdgeProducer()
		}
		if p.check(lexer.CONSUME) {
			return p.parseEdgeConsumer()
		}
	case registry.KindConcurrent:
		if p.check(lexer.TASK) {
			return p.parseConcurrentTask()
		}
	case registry.KindBench:
		if p.check(lexer.CASE) {
			return p.parseBenchCase()
		}
	}
	return p.parseStatement()
}

func (p *Parser) parseCliCommand() ast.Node {
	start := p.StartRange()
	p.Advance() // command
	name := p.Expect(lexer.STRING, "command name").Value
	params := p.parseParameterList()
	body := p.parseBlockStatement()
	return &ast.CliCommandDeclaration{Meta: p.meta(start), Name: name, Params: params, Body: body}
}

func (p *Parser) parseEdgeProducer() ast.Node {
	start := p.StartRange()
	p.Advance() // produce
	queue := p.Expect(lexer.STRING, "queue name").Value
	p.Expect(lexer.ARROW, "'=>'")
	value := p.parseExpression()
	return &ast.EdgeProducerDeclaration{Meta: p.meta(start), Queue: queue, Value: value}
}

func (p *Parser) parseEdgeConsumer() ast.Node {
	start := p.StartRange()
	p.Advance() // consume
	queue := p.Expect(lexer.STRING, "queue name").Value
	p.Expect(lexer.ARROW, "'=>'")
	handler := p.parseExpression()
	return &ast.EdgeConsumerDeclaration{Meta: p.meta(start), Queue: queue, Handler: handler}
}

func (p *Parser) parseConcurrentTask() ast.Node {
	start := p.StartRange()
	p.Advance() // task
	name := p.Expect(lexer.IDENT, "task name").Value
	body := p.parseBlockStatement()
	return &ast.ConcurrentTaskDeclaration{Meta: p.meta(start), Name: name, Body: body}
}

func (p *Parser) parseBenchCase() ast.Node {
	start := p.StartRange()
	p.Advance() // case
	name := p.Expect(lexer.STRING, "case name").Value
	body := p.parseBlockStatement()
	return &ast.BenchCaseDeclaration{Meta: p.meta(start), Name: name, Body: body}
}
