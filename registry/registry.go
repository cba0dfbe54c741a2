// Package registry implements the plugin directory described in §4.4:
// the mechanism by which independent dialect grammars (form, security,
// deploy, cli, edge, concurrent, bench, ...) register their AST node
// type, parser trigger, and analyzer visitor without the core
// Parser/Analyzer ever naming them directly.
//
// §9's Design Note reframes the source's runtime prototype-mutation
// pattern as an explicit visitor table for a systems target: Registry
// holds Map<TokenTrigger, Plugin> and Map<ASTKind, Plugin> built once at
// construction, so registering a plugin nobody uses costs one map insert
// rather than a lazy-install check on every dispatch.
package registry

import (
	"github.com/samber/lo"

	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
)

// Strategy is how the parser recognizes that a plugin block is starting.
type Strategy int

const (
	// StrategyNone marks a plugin entry that is never dispatched
	// directly from the top-level token loop (e.g. FormFieldDeclaration,
	// which only ever appears nested inside a FormDeclaration body that
	// the "form" plugin's own Parse function walks).
	StrategyNone Strategy = iota
	// StrategyKeyword fires on a specific reserved lexer.Kind.
	StrategyKeyword
	// StrategyIdentifier fires on a bare identifier value (a
	// contextual keyword that isn't lexer-reserved), optionally
	// confirmed by Lookahead to disambiguate from a normal expression.
	StrategyIdentifier
)

// Detection describes how a plugin's block is recognized at the current
// token (§4.4 "detection").
type Detection struct {
	Strategy        Strategy
	TokenKind       lexer.Kind // set when Strategy == StrategyKeyword
	IdentifierValue string     // set when Strategy == StrategyIdentifier
	Lookahead       func(p BlockParser) bool
}

// BlockParser is the subset of parser.Parser a plugin's parse function
// needs. Defining it here (rather than importing package parser) avoids
// an import cycle: parser imports registry, not the reverse.
type BlockParser interface {
	Peek() lexer.Token
	PeekAhead(n int) lexer.Token
	Advance() lexer.Token
	Check(lexer.Kind) bool
	Match(lexer.Kind) bool
	Expect(lexer.Kind, string) lexer.Token
	ParseExpression() ast.Node
	ParseBlockStatement() *ast.BlockStatement
	ParseTypeAnnotation() ast.TypeAnnotation
	Errorf(format string, args ...any)
	StartRange() ast.Range
	EndRange(ast.Range) ast.Range
}

// BlockAnalyzer is the subset of analyzer.Analyzer a plugin's visitor
// and pre-pass functions need.
type BlockAnalyzer interface {
	VisitNode(ast.Node)
	CurrentScope() Scope
	Errorf(n ast.Node, code, format string, args ...any)
	Warnf(n ast.Node, code, hint string, format string, args ...any)
}

// Scope is the minimal surface of analyzer.Scope a plugin needs without
// importing package analyzer.
type Scope interface {
	Context() string
	Define(name string, kind string) bool
}

// ParseFunc parses one occurrence of a plugin's block, starting with the
// current token already confirmed to match Detection.
type ParseFunc func(p BlockParser) ast.Node

// VisitFunc dispatches analysis of a plugin-owned AST node.
type VisitFunc func(a BlockAnalyzer, n ast.Node)

// Plugin is one dialect grammar's registration (§4.4).
type Plugin struct {
	Name         string
	ASTNodeType  string
	Detection    Detection
	Parse        ParseFunc
	Visit        VisitFunc
	PrePass      func(a BlockAnalyzer)
	CrossBlock   func(a BlockAnalyzer)
}

// Registry is the read-only, load-time-initialized plugin directory
// (§5: "no process-wide state beyond the static plugin registry...
// initialized at load time and thereafter read-only").
type Registry struct {
	plugins    []Plugin
	byToken    map[lexer.Kind]*Plugin
	byIdent    map[string]*Plugin
	byNodeType map[string]*Plugin
}

// New builds a Registry from a static list of plugin descriptors,
// populating its dispatch tables up front.
func New(plugins ...Plugin) *Registry {
	r := &Registry{
		plugins:    plugins,
		byToken:    make(map[lexer.Kind]*Plugin),
		byIdent:    make(map[string]*Plugin),
		byNodeType: make(map[string]*Plugin),
	}

	keywordPlugins := lo.Filter(plugins, func(p Plugin, _ int) bool {
		return p.Detection.Strategy == StrategyKeyword
	})
	for i := range keywordPlugins {
		p := keywordPlugins[i]
		r.byToken[p.Detection.TokenKind] = r.ownedCopy(p)
	}

	identPlugins := lo.Filter(plugins, func(p Plugin, _ int) bool {
		return p.Detection.Strategy == StrategyIdentifier
	})
	for i := range identPlugins {
		p := identPlugins[i]
		r.byIdent[p.Detection.IdentifierValue] = r.ownedCopy(p)
	}

	byType := lo.KeyBy(plugins, func(p Plugin) string { return p.ASTNodeType })
	for nodeType, p := range byType {
		pCopy := p
		r.byNodeType[nodeType] = &pCopy
	}

	return r
}

// ownedCopy returns a stable pointer into r.plugins-equivalent storage;
// lo.Filter returns value copies so each dispatch table entry needs its
// own address.
func (r *Registry) ownedCopy(p Plugin) *Plugin {
	pCopy := p
	return &pCopy
}

// DetectKeyword returns the plugin triggered by a keyword-strategy
// token, if any.
func (r *Registry) DetectKeyword(k lexer.Kind) (*Plugin, bool) {
	p, ok := r.byToken[k]
	return p, ok
}

// DetectIdentifier returns the plugin triggered by an identifier-
// strategy token value, running its Lookahead predicate (if any) to
// disambiguate from a normal expression starting with the same word.
func (r *Registry) DetectIdentifier(value string, p BlockParser) (*Plugin, bool) {
	plugin, ok := r.byIdent[value]
	if !ok {
		return nil, false
	}
	if plugin.Detection.Lookahead != nil && !plugin.Detection.Lookahead(p) {
		return nil, false
	}
	return plugin, true
}

// VisitorFor returns the plugin owning nodeType, if any.
func (r *Registry) VisitorFor(nodeType string) (*Plugin, bool) {
	p, ok := r.byNodeType[nodeType]
	return p, ok
}

// PrePasses returns every plugin with a PrePass hook, in registration
// order (§4.3 "Pre-passes (one per active plugin, driven by the
// registry)").
func (r *Registry) PrePasses() []*Plugin {
	return r.hooksWhere(func(p Plugin) bool { return p.PrePass != nil })
}

// CrossBlockValidators returns every plugin with a CrossBlock hook.
func (r *Registry) CrossBlockValidators() []*Plugin {
	return r.hooksWhere(func(p Plugin) bool { return p.CrossBlock != nil })
}

func (r *Registry) hooksWhere(pred func(Plugin) bool) []*Plugin {
	matched := lo.Filter(r.plugins, func(p Plugin, _ int) bool { return pred(p) })
	out := make([]*Plugin, len(matched))
	for i := range matched {
		p := matched[i]
		out[i] = &p
	}
	return out
}

// Plugins returns every registered plugin, in registration order.
func (r *Registry) Plugins() []Plugin { return r.plugins }
