// Package analyzer implements the scope-and-symbol pass described in
// §4.3: a single walk over the parsed AST that builds the scope tree,
// enforces context rules and the other static checks §4.3/§6.3
// describe, and batches the results into Diagnostic values rather than
// aborting on the first problem.
package analyzer

import (
	"fmt"
	"log"
	"sort"

	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/registry"
	"github.com/tova-lang/tova/types"
)

// Options configures one Analyze call.
type Options struct {
	// Strict escalates type-mismatch findings from warnings to errors.
	// Numeric narrowing (Float->Int) is never escalated (§3.4).
	Strict bool
	// MaxDiagnostics caps the number of error diagnostics kept; errors
	// past the cap are dropped while the walk continues. Warnings are
	// not capped. 0 means unlimited.
	MaxDiagnostics int
	Logger         *log.Logger
}

// DefaultOptions returns the options used when a caller passes none.
func DefaultOptions() Options {
	return Options{Strict: false, MaxDiagnostics: 0}
}

// Analyzer walks one parsed Program, implementing registry.BlockAnalyzer
// so dialect plugins can recurse back into it.
type Analyzer struct {
	program  *ast.Program
	filename string
	options  Options
	reg      *registry.Registry

	root  *Scope
	scope *Scope

	errors   []Diagnostic
	warnings []Diagnostic

	// serverFunctions maps a named server block to the function names
	// declared inside it, collected by a pre-pass so inter-server RPC
	// calls can be validated regardless of declaration order (§4.3).
	serverFunctions map[string][]string
	serverStack     []string

	// producerQueues is populated by the edge plugin's pre-pass so
	// consumer declarations can flag queues with no producer.
	producerQueues map[string]bool

	// requiredSecrets collects every env("NAME") reference seen, for an
	// external deployment collaborator to cross-check (§4.3 "Security").
	requiredSecrets map[string]bool

	// formMembersStack holds, for the form currently being visited, the
	// set of field/group/array names declared directly inside it, so a
	// nested StepsDeclaration can validate its member references.
	formMembersStack []map[string]bool
}

// New builds an Analyzer for program, wiring its analyzer-side plugin
// registry the same way parser.New wires its parse-side one.
func New(program *ast.Program, filename string, opts Options) *Analyzer {
	a := &Analyzer{
		program:         program,
		filename:        filename,
		options:         opts,
		serverFunctions: map[string][]string{},
		producerQueues:  map[string]bool{},
		requiredSecrets: map[string]bool{},
	}
	a.reg = registry.New(registry.WithHooks(nil, a.visitHooks(), a.prePassHooks(), nil)...)
	return a
}

// Analyze runs the full analysis pass (§6.2 "analyze(program, filename,
// options?)"). It returns the warnings collected along the way, the
// root scope (for tooling that wants positional symbol lookup), and an
// error aggregating every Diagnostic of error severity, or nil.
func Analyze(program *ast.Program, filename string, options ...Options) ([]Diagnostic, *Scope, error) {
	opts := DefaultOptions()
	if len(options) > 0 {
		opts = options[0]
	}
	return New(program, filename, opts).Analyze()
}

// Analyze runs a's analysis pass. Internal invariant failures (an AST
// node type the visitor does not recognize) are fatal: they panic
// during the walk and are converted to the returned error here rather
// than left to crash the caller (§4.3 "fatal").
func (a *Analyzer) Analyze() (warnings []Diagnostic, rootScope *Scope, err error) {
	defer func() {
		if r := recover(); r != nil {
			if a.options.Logger != nil {
				a.options.Logger.Printf("analyzer: internal error: %v", r)
			}
			err = fmt.Errorf("internal analyzer error: %v", r)
		}
	}()

	a.root = NewScope(nil, "module")
	PopulateBuiltins(a.root)
	a.scope = a.root

	a.prePassServerFunctions()
	for _, p := range a.reg.PrePasses() {
		p.PrePass(a)
	}

	a.visitProgram(a.program)
	for _, p := range a.reg.CrossBlockValidators() {
		p.CrossBlock(a)
	}
	a.root.SortChildren()

	if len(a.errors) > 0 {
		return a.warnings, a.root, &BatchError{Diagnostics: a.errors}
	}
	return a.warnings, a.root, nil
}

// CurrentScope implements registry.BlockAnalyzer.
func (a *Analyzer) CurrentScope() registry.Scope { return a.scope }

// RequiredSecrets returns every env("NAME") reference collected during
// the walk, sorted, so a deployment collaborator can cross-check the
// secrets a program needs against what its target provides (§4.3).
func (a *Analyzer) RequiredSecrets() []string {
	names := make([]string, 0, len(a.requiredSecrets))
	for name := range a.requiredSecrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Errorf implements registry.BlockAnalyzer.
func (a *Analyzer) Errorf(n ast.Node, code, format string, args ...any) {
	a.errorAt(n, code, "", format, args...)
}

// Warnf implements registry.BlockAnalyzer.
func (a *Analyzer) Warnf(n ast.Node, code, hint, format string, args ...any) {
	a.warnAt(n, code, hint, format, args...)
}

func (a *Analyzer) errorAt(n ast.Node, code, hint, format string, args ...any) {
	if a.options.MaxDiagnostics > 0 && len(a.errors) >= a.options.MaxDiagnostics {
		return
	}
	pos := n.GetRange().Start
	a.errors = append(a.errors, Diagnostic{
		Code: code, Message: fmt.Sprintf(format, args...),
		File: a.filename, Line: pos.Line, Column: pos.Column, Hint: hint,
	})
}

func (a *Analyzer) warnAt(n ast.Node, code, hint, format string, args ...any) {
	pos := n.GetRange().Start
	a.warnings = append(a.warnings, Diagnostic{
		Code: code, Message: fmt.Sprintf(format, args...),
		File: a.filename, Line: pos.Line, Column: pos.Column, Hint: hint,
	})
}

func (a *Analyzer) pushScope(context string, r ast.Range) *Scope {
	child := NewScope(a.scope, context)
	child.start = r.Start
	child.end = r.End
	a.scope.addChild(child)
	a.scope = child
	return child
}

func (a *Analyzer) popScope() { a.scope = a.scope.parent }

func (a *Analyzer) currentServerName() string {
	if len(a.serverStack) == 0 {
		return ""
	}
	return a.serverStack[len(a.serverStack)-1]
}

// defineParams binds a function/lambda/component's parameter list in
// the (already-pushed) function scope, visiting each default expression
// before binding its own parameter, so a default sees the enclosing
// scopes and any earlier parameters but not the parameter it belongs to.
func (a *Analyzer) defineParams(params []ast.Parameter) {
	for _, p := range params {
		if p.Default != nil {
			a.VisitNode(p.Default)
		}
		a.scope.DefineSymbol(&Symbol{Name: p.Name, Kind: KindParameter, DeclaredType: p.DeclaredType, Loc: p.Range})
	}
}

// dispatchPlugin routes a plugin-owned node through the registry, the
// same way the parser dispatches a plugin-owned token (§4.4).
func (a *Analyzer) dispatchPlugin(n ast.Node) {
	key := registry.DispatchKeyFor(n)
	plugin, ok := a.reg.VisitorFor(key)
	if !ok || plugin.Visit == nil {
		panic(fmt.Sprintf("analyzer: no registered visitor for %s", key))
	}
	plugin.Visit(a, n)
}

// VisitNode implements registry.BlockAnalyzer and is the analyzer's
// single recursive entry point: every node type the grammar produces
// is either handled directly here or routed to a dialect plugin via
// dispatchPlugin. An unrecognized node type is an internal invariant
// failure (§4.3), not a user-facing diagnostic.
func (a *Analyzer) VisitNode(n ast.Node) {
	if n == nil {
		return
	}
	switch v := n.(type) {

	// --- module level ---------------------------------------------------
	case *ast.Program:
		a.visitProgram(v)
	case *ast.Import:
		a.visitImport(v)
	case *ast.Export:
		a.visitExport(v)
	case *ast.ServerBlock:
		a.visitServerBlock(v)
	case *ast.BrowserBlock:
		a.visitBrowserBlock(v)
	case *ast.SharedBlock:
		a.visitSharedBlock(v)
	case *ast.PluginBlock:
		a.dispatchPlugin(v)

	// --- server-context declarations ------------------------------------
	case *ast.RouteDeclaration:
		a.visitRouteDeclaration(v)
	case *ast.MiddlewareDeclaration:
		a.visitMiddlewareDeclaration(v)
	case *ast.WebSocketDeclaration:
		a.visitWebSocketDeclaration(v)
	case *ast.DbDeclaration:
		a.visitDbDeclaration(v)
	case *ast.CorsDeclaration:
		a.requireContext(v, "server", ERequiresServerContext, "cors")
		a.VisitNode(v.Options)
	case *ast.AuthDeclaration:
		a.requireContext(v, "server", ERequiresServerContext, "auth")
		a.VisitNode(v.Options)
	case *ast.ScheduleDeclaration:
		a.requireContext(v, "server", ERequiresServerContext, "schedule")
		a.VisitNode(v.Handler)
	case *ast.UploadDeclaration:
		a.requireContext(v, "server", ERequiresServerContext, "upload")
		a.VisitNode(v.Options)
	case *ast.SessionDeclaration:
		a.requireContext(v, "server", ERequiresServerContext, "session")
		a.VisitNode(v.Options)
	case *ast.EnvDeclaration:
		a.requireContext(v, "server", ERequiresServerContext, "env")
		a.requiredSecrets[v.Name] = true

	// --- browser-context declarations ------------------------------------
	case *ast.StateDeclaration:
		a.visitStateDeclaration(v)
	case *ast.ComputedDeclaration:
		a.visitComputedDeclaration(v)
	case *ast.EffectDeclaration:
		a.visitEffectDeclaration(v)
	case *ast.ComponentDeclaration:
		a.visitComponentDeclaration(v)
	case *ast.StoreDeclaration:
		a.visitStoreDeclaration(v)

	// --- plugin-owned declarations (form family, deploy) -----------------
	case *ast.FormDeclaration, *ast.FormFieldDeclaration, *ast.FormGroupDeclaration,
		*ast.FormArrayDeclaration, *ast.StepsDeclaration, *ast.DeployDeclaration:
		a.dispatchPlugin(v)

	// --- cli / edge / concurrent / bench nested declarations -------------
	case *ast.CliCommandDeclaration:
		a.visitCliCommandDeclaration(v)
	case *ast.EdgeProducerDeclaration:
		a.visitEdgeProducerDeclaration(v)
	case *ast.EdgeConsumerDeclaration:
		a.visitEdgeConsumerDeclaration(v)
	case *ast.ConcurrentTaskDeclaration:
		a.visitConcurrentTaskDeclaration(v)
	case *ast.BenchCaseDeclaration:
		a.visitBenchCaseDeclaration(v)

	// --- general statements ----------------------------------------------
	case *ast.Assignment:
		a.visitAssignment(v)
	case *ast.CompoundAssignment:
		a.visitCompoundAssignment(v)
	case *ast.VarDeclaration:
		a.visitVarDeclaration(v)
	case *ast.LetDestructure:
		a.visitLetDestructure(v)
	case *ast.FunctionDeclaration:
		a.visitFunctionDeclaration(v)
	case *ast.TypeDeclaration:
		a.visitTypeDeclaration(v)
	case *ast.If:
		a.visitIf(v)
	case *ast.For:
		a.visitFor(v)
	case *ast.While:
		a.visitWhile(v)
	case *ast.TryCatch:
		a.visitTryCatch(v)
	case *ast.Return:
		if v.Value != nil {
			a.VisitNode(v.Value)
		}
	case *ast.BlockStatement:
		a.visitBlockStatement(v)
	case *ast.ExpressionStatement:
		a.VisitNode(v.Expression)
	case *ast.StyleBlock:
		// opaque raw CSS, nothing to analyze

	// --- expressions -------------------------------------------------------
	case *ast.Identifier:
		a.visitIdentifier(v)
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NilLiteral, *ast.RegexLiteral:
		// literals carry no bindings to resolve
	case *ast.TemplateLiteral:
		for _, part := range v.Parts {
			if part.IsExpr {
				a.VisitNode(part.Expr)
			}
		}
	case *ast.BinaryExpression:
		a.VisitNode(v.Left)
		a.VisitNode(v.Right)
	case *ast.LogicalExpression:
		a.VisitNode(v.Left)
		a.VisitNode(v.Right)
	case *ast.UnaryExpression:
		a.VisitNode(v.Operand)
	case *ast.ChainedComparison:
		for _, o := range v.Operands {
			a.VisitNode(o)
		}
	case *ast.MembershipExpression:
		a.VisitNode(v.Value)
		a.VisitNode(v.Iterable)
	case *ast.RangeExpression:
		a.VisitNode(v.From)
		a.VisitNode(v.To)
	case *ast.SliceExpression:
		a.VisitNode(v.Target)
		a.VisitNode(v.From)
		a.VisitNode(v.To)
		a.VisitNode(v.Step)
	case *ast.CallExpression:
		a.visitCallExpression(v)
	case *ast.MemberExpression:
		a.VisitNode(v.Object)
		if v.Computed {
			a.VisitNode(v.Property)
		}
	case *ast.OptionalChain:
		a.VisitNode(v.Object)
		if v.Computed {
			a.VisitNode(v.Property)
		}
		for _, arg := range v.CallArgs {
			a.VisitNode(arg.Value)
		}
	case *ast.PipeExpression:
		a.VisitNode(v.Left)
		a.VisitNode(v.Right)
	case *ast.LambdaExpression:
		a.visitLambda(v)
	case *ast.MatchExpression:
		a.visitMatchExpression(v)
	case *ast.ArrayLiteral:
		for _, el := range v.Elements {
			a.VisitNode(el)
		}
	case *ast.ObjectLiteral:
		for _, p := range v.Properties {
			if p.Spread != nil {
				a.VisitNode(p.Spread)
				continue
			}
			if p.Computed != nil {
				a.VisitNode(p.Computed)
			}
			a.VisitNode(p.Value)
		}
	case *ast.ListComprehension:
		a.visitListComprehension(v)
	case *ast.DictComprehension:
		a.visitDictComprehension(v)
	case *ast.SpreadExpression:
		a.VisitNode(v.Argument)
	case *ast.PropagateExpression:
		a.VisitNode(v.Argument)
	case *ast.IfExpression:
		a.VisitNode(v.Condition)
		a.VisitNode(v.Then)
		if v.Else != nil {
			a.VisitNode(v.Else)
		}

	// --- patterns (reached only if a caller visits one directly; normal
	// traversal binds patterns via bindPattern) --------------------------
	case *ast.WildcardPattern, *ast.LiteralPattern, *ast.RangePattern,
		*ast.BindingPattern, *ast.ArrayPattern, *ast.RecordPattern,
		*ast.VariantPattern, *ast.TuplePattern:
		a.bindPattern(v, false)

	// --- JSX -----------------------------------------------------------
	case *ast.JSXElement:
		a.visitJSXElement(v)
	case *ast.JSXFragment:
		for _, c := range v.Children {
			a.VisitNode(c)
		}
	case *ast.JSXText:
		// raw text, nothing to analyze
	case *ast.JSXExpression:
		a.VisitNode(v.Expression)
	case *ast.JSXFor:
		a.visitJSXFor(v)
	case *ast.JSXIf:
		a.visitJSXIf(v)
	case *ast.JSXMatch:
		a.visitJSXMatch(v)
	case *ast.StringAttribute:
		// no expression to visit
	case *ast.ExpressionAttribute:
		a.VisitNode(v.Expression)
	case *ast.JSXSpreadAttribute:
		a.VisitNode(v.Argument)

	default:
		panic(fmt.Sprintf("analyzer: unhandled node type %T", n))
	}
}

func (a *Analyzer) visitProgram(n *ast.Program) {
	for _, item := range n.Body {
		a.VisitNode(item)
	}
}

func (a *Analyzer) visitImport(n *ast.Import) {
	if n.Alias != "" {
		a.scope.DefineSymbol(&Symbol{Name: n.Alias, Kind: KindBuiltin, Loc: n.GetRange()})
	}
}

func (a *Analyzer) visitExport(n *ast.Export) {
	if n.Decl != nil {
		a.VisitNode(n.Decl)
	}
}

func (a *Analyzer) visitIdentifier(n *ast.Identifier) {
	if sym, ok := a.scope.Lookup(n.Name); ok {
		sym.Used = true
	}
	// An identifier that resolves to nothing is silent by default
	// (§3.4's gradual typing extends to name resolution); see DESIGN.md
	// for the Open Question this decides.
}

func (a *Analyzer) visitCallExpression(n *ast.CallExpression) {
	a.VisitNode(n.Callee)
	for _, arg := range n.Args {
		a.VisitNode(arg.Value)
	}
	a.checkEnvCall(n)
	a.checkServerRPC(n)
}

func (a *Analyzer) checkEnvCall(n *ast.CallExpression) {
	ident, ok := n.Callee.(*ast.Identifier)
	if !ok || ident.Name != "env" || len(n.Args) == 0 {
		return
	}
	if lit, ok := n.Args[0].Value.(*ast.StringLiteral); ok {
		a.requiredSecrets[lit.Value] = true
	}
}

func (a *Analyzer) visitLambda(n *ast.LambdaExpression) {
	a.pushScope("function", n.GetRange())
	defer a.popScope()
	a.defineParams(n.Params)
	a.VisitNode(n.Body)
}

func (a *Analyzer) visitMatchExpression(n *ast.MatchExpression) {
	a.VisitNode(n.Subject)
	for _, arm := range n.Arms {
		a.pushScope("block", arm.Range)
		a.bindPattern(arm.Pattern, false)
		if arm.Guard != nil {
			a.VisitNode(arm.Guard)
		}
		a.VisitNode(arm.Body)
		a.popScope()
	}
}

func (a *Analyzer) visitListComprehension(n *ast.ListComprehension) {
	a.VisitNode(n.Iterable)
	a.pushScope("block", n.GetRange())
	defer a.popScope()
	a.bindPattern(n.Pattern, false)
	if n.Condition != nil {
		a.VisitNode(n.Condition)
	}
	a.VisitNode(n.Result)
}

func (a *Analyzer) visitDictComprehension(n *ast.DictComprehension) {
	a.VisitNode(n.Iterable)
	a.pushScope("block", n.GetRange())
	defer a.popScope()
	a.bindPattern(n.Pattern, false)
	if n.Condition != nil {
		a.VisitNode(n.Condition)
	}
	a.VisitNode(n.KeyResult)
	a.VisitNode(n.ValueResult)
}

// --- statements -----------------------------------------------------------

func (a *Analyzer) visitBlockStatement(n *ast.BlockStatement) {
	a.pushScope("block", n.GetRange())
	defer a.popScope()
	for _, stmt := range n.Body {
		a.VisitNode(stmt)
	}
}

func (a *Analyzer) visitIf(n *ast.If) {
	a.VisitNode(n.Condition)
	a.VisitNode(n.Then)
	for _, ei := range n.ElseIfs {
		a.VisitNode(ei.Condition)
		a.VisitNode(ei.Body)
	}
	if n.Else != nil {
		a.VisitNode(n.Else)
	}
}

func (a *Analyzer) visitFor(n *ast.For) {
	a.VisitNode(n.Iterable)
	a.pushScope("block", n.GetRange())
	defer a.popScope()
	a.bindPattern(n.Pattern, false)
	for _, stmt := range n.Body.Body {
		a.VisitNode(stmt)
	}
}

func (a *Analyzer) visitWhile(n *ast.While) {
	a.VisitNode(n.Condition)
	a.VisitNode(n.Body)
}

func (a *Analyzer) visitTryCatch(n *ast.TryCatch) {
	a.VisitNode(n.Try)
	if n.Catch != nil {
		a.pushScope("block", n.Catch.GetRange())
		if n.CatchName != "" {
			a.scope.DefineSymbol(&Symbol{Name: n.CatchName, Kind: KindVariable, Loc: n.GetRange()})
		}
		for _, stmt := range n.Catch.Body {
			a.VisitNode(stmt)
		}
		a.popScope()
	}
	if n.Finally != nil {
		a.VisitNode(n.Finally)
	}
}

func (a *Analyzer) visitAssignment(n *ast.Assignment) {
	a.VisitNode(n.Value)
	if ident, ok := n.Target.(*ast.Identifier); ok {
		a.assignIdentifier(ident, n.Value)
		return
	}
	a.VisitNode(n.Target)
}

// assignIdentifier implements §4.3/§8.2's reassignment rule: the first
// assignment to a name introduces an immutable binding; any later
// assignment to that name is only legal when the existing symbol is
// mutable (a `var`) or a builtin.
func (a *Analyzer) assignIdentifier(ident *ast.Identifier, value ast.Node) {
	if sym, ok := a.scope.Lookup(ident.Name); ok {
		if sym.Mutable || sym.Kind == KindBuiltin {
			sym.Used = true
			return
		}
		a.Errorf(ident, ECannotReassignImmutable,
			"Cannot reassign immutable variable '%s'. Use 'var' for mutable variables.", ident.Name)
		return
	}
	a.scope.DefineSymbol(&Symbol{Name: ident.Name, Kind: KindVariable, Mutable: false, Loc: ident.GetRange()})
}

func (a *Analyzer) visitCompoundAssignment(n *ast.CompoundAssignment) {
	a.VisitNode(n.Value)
	ident, ok := n.Target.(*ast.Identifier)
	if !ok {
		a.VisitNode(n.Target)
		return
	}
	sym, ok := a.scope.Lookup(ident.Name)
	if !ok {
		a.Errorf(ident, ECompoundAssignUndeclared,
			"Cannot use '%s' on undeclared variable '%s'.", n.Operator, ident.Name)
		return
	}
	if !sym.Mutable && sym.Kind != KindBuiltin {
		a.Errorf(ident, ECannotReassignImmutable,
			"Cannot reassign immutable variable '%s'. Use 'var' for mutable variables.", ident.Name)
		return
	}
	sym.Used = true
}

func (a *Analyzer) visitVarDeclaration(n *ast.VarDeclaration) {
	a.VisitNode(n.Value)
	if n.DeclaredType != nil {
		a.checkAssignable(n, n.DeclaredType, n.Value)
	}
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindVariable, Mutable: true, DeclaredType: n.DeclaredType, Loc: n.GetRange()})
}

func (a *Analyzer) visitLetDestructure(n *ast.LetDestructure) {
	a.VisitNode(n.Value)
	a.bindPattern(n.Pattern, false)
}

func (a *Analyzer) visitFunctionDeclaration(n *ast.FunctionDeclaration) {
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindFunction, Decl: n, Loc: n.GetRange()})
	a.pushScope("function", n.GetRange())
	defer a.popScope()
	a.defineParams(n.Params)
	a.VisitNode(n.Body)
}

func (a *Analyzer) visitTypeDeclaration(n *ast.TypeDeclaration) {
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindType, Decl: n, Loc: n.GetRange()})
	for _, variant := range n.Variants {
		if variant.Name == "" {
			continue // plain record: no separate constructor symbol
		}
		a.scope.DefineSymbol(&Symbol{Name: variant.Name, Kind: KindFunction, Decl: n, Loc: variant.Range})
	}
}

func (a *Analyzer) visitStateDeclaration(n *ast.StateDeclaration) {
	a.requireContext(n, "browser", ERequiresBrowserContext, "state")
	a.VisitNode(n.Value)
	if n.DeclaredType != nil {
		a.checkAssignable(n, n.DeclaredType, n.Value)
	}
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindState, Mutable: true, DeclaredType: n.DeclaredType, Loc: n.GetRange()})
}

func (a *Analyzer) visitComputedDeclaration(n *ast.ComputedDeclaration) {
	a.requireContext(n, "browser", ERequiresBrowserContext, "computed")
	a.VisitNode(n.Value)
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindComputed, Loc: n.GetRange()})
}

func (a *Analyzer) visitEffectDeclaration(n *ast.EffectDeclaration) {
	a.requireContext(n, "browser", ERequiresBrowserContext, "effect")
	for _, dep := range n.Deps {
		a.VisitNode(dep)
	}
	a.VisitNode(n.Body)
}

func (a *Analyzer) visitComponentDeclaration(n *ast.ComponentDeclaration) {
	a.requireContext(n, "browser", ERequiresBrowserContext, "component")
	a.checkPascalCase(n, n.Name, WComponentNaming, "component")
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindComponent, Decl: n, Loc: n.GetRange()})
	a.pushScope("function", n.GetRange())
	defer a.popScope()
	a.defineParams(n.Params)
	a.VisitNode(n.Body)
}

func (a *Analyzer) visitStoreDeclaration(n *ast.StoreDeclaration) {
	a.requireContext(n, "browser", ERequiresBrowserContext, "store")
	a.checkPascalCase(n, n.Name, WStoreNaming, "store")
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindStore, Decl: n, Loc: n.GetRange()})
	a.pushScope("function", n.GetRange())
	defer a.popScope()
	a.VisitNode(n.Body)
}

func (a *Analyzer) visitServerBlock(n *ast.ServerBlock) {
	a.serverStack = append(a.serverStack, n.Name)
	defer func() { a.serverStack = a.serverStack[:len(a.serverStack)-1] }()

	a.pushScope("server", n.GetRange())
	defer a.popScope()

	if n.Name != "" {
		for _, peer := range a.peerServerNames(n.Name) {
			a.scope.DefineSymbol(&Symbol{Name: peer, Kind: KindBuiltin})
		}
	}
	for _, item := range n.Body {
		a.VisitNode(item)
	}
}

func (a *Analyzer) visitBrowserBlock(n *ast.BrowserBlock) {
	a.pushScope("browser", n.GetRange())
	defer a.popScope()
	for _, item := range n.Body {
		a.VisitNode(item)
	}
}

func (a *Analyzer) visitSharedBlock(n *ast.SharedBlock) {
	a.pushScope("shared", n.GetRange())
	defer a.popScope()
	for _, item := range n.Body {
		a.VisitNode(item)
	}
}

func (a *Analyzer) visitMiddlewareDeclaration(n *ast.MiddlewareDeclaration) {
	a.requireContext(n, "server", ERequiresServerContext, "middleware")
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindFunction, Decl: n, Loc: n.GetRange()})
	a.pushScope("function", n.GetRange())
	defer a.popScope()
	a.defineParams(n.Params)
	a.VisitNode(n.Body)
}

func (a *Analyzer) visitWebSocketDeclaration(n *ast.WebSocketDeclaration) {
	a.requireContext(n, "server", ERequiresServerContext, "ws")
	a.VisitNode(n.Handler)
}

func (a *Analyzer) visitDbDeclaration(n *ast.DbDeclaration) {
	a.requireContext(n, "server", ERequiresServerContext, "db")
	a.VisitNode(n.Value)
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindVariable, Loc: n.GetRange()})
}

func (a *Analyzer) visitCliCommandDeclaration(n *ast.CliCommandDeclaration) {
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindFunction, Decl: n, Loc: n.GetRange()})
	a.pushScope("function", n.GetRange())
	defer a.popScope()
	a.defineParams(n.Params)
	a.VisitNode(n.Body)
}

func (a *Analyzer) visitEdgeProducerDeclaration(n *ast.EdgeProducerDeclaration) {
	a.VisitNode(n.Value)
}

func (a *Analyzer) visitEdgeConsumerDeclaration(n *ast.EdgeConsumerDeclaration) {
	if !a.producerQueues[n.Queue] {
		a.Warnf(n, WEdgeUnknownQueue, "", "consumer references queue %q with no matching producer", n.Queue)
	}
	a.VisitNode(n.Handler)
}

func (a *Analyzer) visitConcurrentTaskDeclaration(n *ast.ConcurrentTaskDeclaration) {
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindFunction, Decl: n, Loc: n.GetRange()})
	a.pushScope("function", n.GetRange())
	defer a.popScope()
	a.VisitNode(n.Body)
}

func (a *Analyzer) visitBenchCaseDeclaration(n *ast.BenchCaseDeclaration) {
	a.pushScope("function", n.GetRange())
	defer a.popScope()
	a.VisitNode(n.Body)
}

// --- pattern binding --------------------------------------------------------

// bindPattern recursively defines every name a pattern introduces,
// honoring mutable (false for match/for/destructure bindings, which
// are always immutable per §4.3).
func (a *Analyzer) bindPattern(n ast.Node, mutable bool) {
	switch v := n.(type) {
	case *ast.WildcardPattern, *ast.LiteralPattern, *ast.RangePattern:
		// bind nothing
	case *ast.BindingPattern:
		a.scope.DefineSymbol(&Symbol{Name: v.Name, Kind: KindVariable, Mutable: mutable, Loc: v.GetRange()})
		if v.Nested != nil {
			a.bindPattern(v.Nested, mutable)
		}
	case *ast.ArrayPattern:
		for _, el := range v.Elements {
			a.bindPattern(el, mutable)
		}
		if v.Rest != "" {
			a.scope.DefineSymbol(&Symbol{Name: v.Rest, Kind: KindVariable, Mutable: mutable, Loc: v.GetRange()})
		}
	case *ast.RecordPattern:
		for _, f := range v.Fields {
			if f.Pattern != nil {
				a.bindPattern(f.Pattern, mutable)
				continue
			}
			a.scope.DefineSymbol(&Symbol{Name: f.Name, Kind: KindVariable, Mutable: mutable, Loc: f.Range})
		}
	case *ast.VariantPattern:
		for _, f := range v.Fields {
			a.bindPattern(f, mutable)
		}
	case *ast.TuplePattern:
		for _, el := range v.Elements {
			a.bindPattern(el, mutable)
		}
	}
}

// --- JSX --------------------------------------------------------------------

func (a *Analyzer) visitJSXElement(n *ast.JSXElement) {
	for _, attr := range n.Attributes {
		a.VisitNode(attr)
	}
	for _, child := range n.Children {
		a.VisitNode(child)
	}
}

func (a *Analyzer) visitJSXFor(n *ast.JSXFor) {
	a.VisitNode(n.Iterable)
	a.pushScope("block", n.GetRange())
	defer a.popScope()
	a.bindPattern(n.Pattern, false)
	for _, c := range n.Body {
		a.VisitNode(c)
	}
}

func (a *Analyzer) visitJSXIf(n *ast.JSXIf) {
	for _, branch := range n.Branches {
		if branch.Condition != nil {
			a.VisitNode(branch.Condition)
		}
		a.pushScope("block", branch.Range)
		for _, c := range branch.Body {
			a.VisitNode(c)
		}
		a.popScope()
	}
}

func (a *Analyzer) visitJSXMatch(n *ast.JSXMatch) {
	a.VisitNode(n.Subject)
	for _, arm := range n.Arms {
		a.pushScope("block", arm.Range)
		a.bindPattern(arm.Pattern, false)
		if arm.Guard != nil {
			a.VisitNode(arm.Guard)
		}
		for _, c := range arm.Body {
			a.VisitNode(c)
		}
		a.popScope()
	}
}

// --- type checking -----------------------------------------------------------

// checkAssignable implements §3.4's "Assignment... is checked with
// typesCompatible; violations produce warnings unless strict mode is
// enabled" — except for Float->Int narrowing, which is always a
// warning regardless of strict mode (§3.4).
func (a *Analyzer) checkAssignable(n ast.Node, declared ast.TypeAnnotation, value ast.Node) {
	if declared == nil || value == nil {
		return
	}
	want := types.FromAnnotation(declared)
	got := a.inferExprType(value)
	if got == nil {
		return
	}

	if want.Kind == types.KindPrimitive && want.Name == types.Int &&
		got.Kind == types.KindPrimitive && got.Name == types.Float {
		literal := ""
		if lit, ok := value.(*ast.NumberLiteral); ok {
			literal = lit.Raw
		}
		if types.CheckNarrowing(got, want, literal) == types.NarrowingLossy {
			a.Warnf(n, WNarrowing, "", "narrowing conversion from Float to Int loses precision")
		} else {
			a.Warnf(n, WNarrowing, "", "narrowing conversion from Float to Int")
		}
		return
	}

	if !types.Compatible(got, want) {
		msg := fmt.Sprintf("type mismatch: cannot assign %s to %s", got, want)
		if a.options.Strict {
			a.Errorf(n, WTypeMismatch, "%s", msg)
		} else {
			a.Warnf(n, WTypeMismatch, "", "%s", msg)
		}
	}
}

// inferExprType performs the minimal static inference the analyzer
// needs for narrowing/compatibility checks: literals resolve to their
// concrete type, everything else stays Unknown and is therefore always
// compatible (§3.4's gradual typing).
func (a *Analyzer) inferExprType(n ast.Node) *types.Type {
	switch v := n.(type) {
	case *ast.NumberLiteral:
		if v.IsFloat {
			return types.TFloat
		}
		return types.TInt
	case *ast.StringLiteral, *ast.TemplateLiteral:
		return types.TString
	case *ast.BooleanLiteral:
		return types.TBool
	case *ast.NilLiteral:
		return types.TNil
	default:
		return types.TUnknown
	}
}

func (a *Analyzer) checkPascalCase(n ast.Node, name, code, what string) {
	if name != "" && isUpper(name[0]) {
		return
	}
	a.Warnf(n, code, "rename to start with an uppercase letter", "%s name '%s' should start with an uppercase letter", what, name)
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
