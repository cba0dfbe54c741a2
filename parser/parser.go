// Package parser implements the recursive-descent parser described in
// §4.2: tokens → Program AST, with block-specific grammars delegated to
// registry plugins so the core parser stays closed against the growing
// set of dialects.
package parser

import (
	"fmt"

	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
	"github.com/tova-lang/tova/registry"
)

// Parser parses a Tova source file into a Program AST.
type Parser struct {
	lex      *lexer.Lexer
	filename string
	buf      []lexer.Token // lookahead queue; buf[0] is the current token
	errors   []error
	reg      *registry.Registry
}

// New creates a Parser for filename's source. It builds its own
// parse-side Registry from the built-in plugin descriptors, binding
// each dialect's ParseFunc to this Parser instance.
func New(filename string, src []byte) *Parser {
	p := &Parser{
		lex:      lexer.New(filename, string(src)),
		filename: filename,
	}
	p.reg = registry.New(registry.WithHooks(p.parseHooks(), nil, nil, nil)...)
	p.fill(1)
	return p
}

// Parse parses filename's source and returns the Program AST. A fatal
// parse error halts compilation immediately (§4.2, §7): there is no
// token-level resynchronization.
func Parse(filename string, src []byte) (*ast.Program, error) {
	return New(filename, src).Parse()
}

// Parse runs the parser to completion.
func (p *Parser) Parse() (*ast.Program, error) {
	start := p.StartRange()
	prog := &ast.Program{Meta: ast.NewMeta(start)}

	for !p.check(lexer.EOF) {
		if len(p.errors) > 0 {
			break
		}
		node := p.parseTopLevel()
		if node != nil {
			prog.Body = append(prog.Body, node)
		}
	}
	prog.Loc = p.EndRange(start)

	if len(p.errors) > 0 {
		return prog, p.errors[0]
	}
	return prog, nil
}

// parseTopLevel dispatches the current token: first against the plugin
// registry's detection table, then against the core grammar (§4.2
// "Top-level dispatch is table-driven from the registry... unmatched
// statements are parsed as general module-level forms").
func (p *Parser) parseTopLevel() ast.Node {
	if plugin, ok := p.reg.DetectKeyword(p.Peek().Kind); ok && plugin.Parse != nil {
		return plugin.Parse(p)
	}
	if p.check(lexer.IDENT) {
		if plugin, ok := p.reg.DetectIdentifier(p.Peek().Value, p); ok && plugin.Parse != nil {
			return plugin.Parse(p)
		}
	}

	switch p.Peek().Kind {
	case lexer.SERVER:
		return p.parseServerBlock()
	case lexer.BROWSER:
		return p.parseBrowserBlock(false)
	case lexer.CLIENT:
		return p.parseBrowserBlock(true)
	case lexer.SHARED:
		return p.parseSharedBlock()
	case lexer.IMPORT:
		return p.parseImport()
	case lexer.EXPORT:
		return p.parseExport()
	default:
		return p.parseStatement()
	}
}

// --- token stream plumbing ---------------------------------------------------

// fill ensures the lookahead buffer holds at least n tokens, skipping
// NEWLINE: statement/expression boundaries in Tova are never sensitive
// to line breaks (match arms, for example, accept "newlines or commas"
// interchangeably per §4.2), so the parser treats NEWLINE as
// insignificant whitespace rather than threading it through every
// grammar rule.
func (p *Parser) fill(n int) {
	for len(p.buf) < n {
		if p.lex == nil {
			// A sub-parser over an interpolation's pre-lexed token slice
			// has no lexer to refill from; it pads with EOF instead.
			p.buf = append(p.buf, lexer.Token{Kind: lexer.EOF})
			continue
		}
		tok := p.lex.NextToken()
		if tok.Kind == lexer.NEWLINE || tok.Kind == lexer.DOCSTRING {
			// Docstrings are surfaced as tokens for documentation tooling
			// but carry no grammar of their own.
			continue
		}
		if tok.Kind == lexer.ERROR {
			p.errors = append(p.errors, fmt.Errorf("%s", tok.Value))
			tok.Kind = lexer.EOF
		}
		p.buf = append(p.buf, tok)
	}
}

// Peek returns the current token without consuming it.
func (p *Parser) Peek() lexer.Token {
	p.fill(1)
	return p.buf[0]
}

// PeekAhead returns the token n positions past the current one (n==0 is
// equivalent to Peek).
func (p *Parser) PeekAhead(n int) lexer.Token {
	p.fill(n + 1)
	return p.buf[n]
}

// Advance consumes and returns the current token.
func (p *Parser) Advance() lexer.Token {
	p.fill(1)
	tok := p.buf[0]
	p.buf = p.buf[1:]
	return tok
}

func (p *Parser) check(k lexer.Kind) bool { return p.Peek().Kind == k }

// Check reports whether the current token has kind k, without consuming.
func (p *Parser) Check(k lexer.Kind) bool { return p.check(k) }

// Match consumes and returns true if the current token has kind k;
// otherwise it leaves the stream untouched and returns false.
func (p *Parser) Match(k lexer.Kind) bool {
	if p.check(k) {
		p.Advance()
		return true
	}
	return false
}

// Expect consumes the current token if it has kind k, else records a
// fatal parse error ("file:line:column — expected X", §4.2).
func (p *Parser) Expect(k lexer.Kind, what string) lexer.Token {
	if p.check(k) {
		return p.Advance()
	}
	p.Errorf("expected %s, got %s", what, p.Peek())
	return p.Peek()
}

// Errorf records a fatal parse error at the current token's position.
func (p *Parser) Errorf(format string, args ...any) {
	tok := p.Peek()
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Errorf("%s:%d:%d — %s", p.filename, tok.Line, tok.Column, msg))
}

// StartRange returns a zero-width Range at the current token's start,
// the canonical way callers open a node's source range.
func (p *Parser) StartRange() ast.Range {
	tok := p.Peek()
	pos := ast.Position{Line: tok.Line, Column: tok.Column}
	return ast.Range{Start: pos, End: pos}
}

// EndRange closes start at the current token's start, i.e. the next
// unconsumed token (Advance always leaves p.buf[0] there), which may lie
// past whitespace or line breaks after the most recently consumed token.
func (p *Parser) EndRange(start ast.Range) ast.Range {
	tok := p.Peek()
	end := ast.Position{Line: tok.Line, Column: tok.Column}
	return ast.Range{Start: start.Start, End: end}
}

func (p *Parser) loc(start ast.Range) ast.Range { return p.EndRange(start) }

func (p *Parser) meta(start ast.Range) ast.Meta { return ast.NewMeta(p.loc(start)) }

// ParseExpression exposes the expression grammar to registry plugins.
func (p *Parser) ParseExpression() ast.Node { return p.parseExpression() }

// ParseBlockStatement exposes `{ ... }` body parsing to registry plugins.
func (p *Parser) ParseBlockStatement() *ast.BlockStatement { return p.parseBlockStatement() }

// ParseTypeAnnotation exposes the type grammar to registry plugins.
func (p *Parser) ParseTypeAnnotation() ast.TypeAnnotation { return p.parseTypeAnnotation() }
