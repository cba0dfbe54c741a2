package analyzer

import (
	"sort"
	"strings"

	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/registry"
)

// requireContext enforces §4.3's context rules: a declaration legal
// only inside a given canonical context (browser/server) otherwise
// reports code with a fix-it hint naming the missing wrapper.
func (a *Analyzer) requireContext(n ast.Node, want, code, what string) {
	if a.scope.GetContext() == want {
		return
	}
	a.errorAt(n, code, "move this inside a "+want+" { } block",
		"'%s' requires a %s context", what, want)
}

// --- server pre-pass and inter-server RPC ----------------------------------

// prePassServerFunctions walks every top-level named ServerBlock and
// records the function names it declares, so cross-server RPC calls
// can be validated regardless of the order blocks appear in (§4.3
// "Pre-passes... Server").
func (a *Analyzer) prePassServerFunctions() {
	for _, item := range a.program.Body {
		sb, ok := item.(*ast.ServerBlock)
		if !ok || sb.Name == "" {
			continue
		}
		a.serverFunctions[sb.Name] = collectFunctionNames(sb.Body)
	}
}

// collectFunctionNames gathers every FunctionDeclaration name directly
// in body, descending into nested route groups (plain BlockStatements)
// so a function declared inside one is still discoverable.
func collectFunctionNames(body []ast.Node) []string {
	var names []string
	for _, item := range body {
		switch v := item.(type) {
		case *ast.FunctionDeclaration:
			names = append(names, v.Name)
		case *ast.BlockStatement:
			names = append(names, collectFunctionNames(v.Body)...)
		}
	}
	return names
}

// peerServerNames returns every other named server block, sorted, so
// injecting them as builtins into the current server's scope is
// deterministic.
func (a *Analyzer) peerServerNames(current string) []string {
	var peers []string
	for name := range a.serverFunctions {
		if name != current {
			peers = append(peers, name)
		}
	}
	sort.Strings(peers)
	return peers
}

// checkServerRPC implements §4.3's inter-server RPC rule: a call of the
// form `T.fn(...)` inside a named server block S is a self-call
// warning when T==S, an unknown-function error when T is another
// known server lacking fn, and passed through otherwise (T is not a
// known server name at all — an ordinary method call).
func (a *Analyzer) checkServerRPC(n *ast.CallExpression) {
	current := a.currentServerName()
	if current == "" {
		return
	}
	member, ok := n.Callee.(*ast.MemberExpression)
	if !ok || member.Computed {
		return
	}
	target, ok := member.Object.(*ast.Identifier)
	if !ok {
		return
	}
	fnName, ok := member.Property.(*ast.Identifier)
	if !ok {
		return
	}

	if target.Name == current {
		a.Warnf(n, WRPCSelfCall, "", "server %q calling itself via RPC", current)
		return
	}

	fns, known := a.serverFunctions[target.Name]
	if !known {
		return // not a recognized server name; ordinary call
	}
	found := false
	for _, name := range fns {
		if name == fnName.Name {
			found = true
			break
		}
	}
	if !found {
		a.Errorf(n, EUnknownServerFunction, "server %q has no function %q", target.Name, fnName.Name)
	}
}

// --- route / handler signature ---------------------------------------------

func (a *Analyzer) visitRouteDeclaration(n *ast.RouteDeclaration) {
	a.requireContext(n, "server", ERequiresServerContext, "route")
	a.VisitNode(n.Handler)
	a.checkRouteHandler(n)
}

// checkRouteHandler implements §4.3's route/handler signature check.
func (a *Analyzer) checkRouteHandler(n *ast.RouteDeclaration) {
	ident, ok := n.Handler.(*ast.Identifier)
	if !ok {
		return
	}
	sym, ok := a.scope.Lookup(ident.Name)
	if !ok || sym.Kind != KindFunction {
		return
	}
	fn, ok := sym.Decl.(*ast.FunctionDeclaration)
	if !ok {
		return
	}

	pathParams := extractPathParams(n.Path)
	if n.Method == "GET" {
		for _, p := range fn.Params {
			if p.Name == "req" {
				continue
			}
			if !pathParams[p.Name] {
				a.Warnf(n, WRouteQueryParam, "",
					"handler parameter %q will be extracted from the query string, not the path", p.Name)
			}
		}
	}

	if n.BodyType != nil {
		switch n.Method {
		case "POST", "PUT", "PATCH":
		default:
			a.Warnf(n, WRouteBodyType, "", "bodyType is only meaningful on POST/PUT/PATCH routes")
		}
	}
}

// extractPathParams collects the `:name` segments of a route path.
func extractPathParams(path string) map[string]bool {
	params := map[string]bool{}
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, ":") {
			params[strings.TrimPrefix(seg, ":")] = true
		}
	}
	return params
}

// --- form family ------------------------------------------------------------

var knownValidators = map[string]bool{
	"required": true, "minLength": true, "maxLength": true, "min": true,
	"max": true, "pattern": true, "email": true, "matches": true,
	"oneOf": true, "validate": true,
}

func (a *Analyzer) visitFormDeclaration(n *ast.FormDeclaration) {
	a.requireContext(n, "browser", EFormOutsideBrowser, "form")
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindForm, Decl: n, Loc: n.GetRange()})

	a.pushScope("form", n.GetRange())
	defer a.popScope()

	members := map[string]bool{}
	a.formMembersStack = append(a.formMembersStack, members)
	defer func() { a.formMembersStack = a.formMembersStack[:len(a.formMembersStack)-1] }()

	for _, item := range n.Body {
		a.visitFormMember(item, members)
	}
}

// visitFormMember dispatches one direct child of a form/group/array
// body and records its name in members so a sibling `steps` block can
// validate cross-references.
func (a *Analyzer) visitFormMember(item ast.Node, members map[string]bool) {
	switch v := item.(type) {
	case *ast.FormFieldDeclaration:
		members[v.Name] = true
		a.visitFormFieldDeclaration(v)
	case *ast.FormGroupDeclaration:
		members[v.Name] = true
		a.visitFormGroupDeclaration(v)
	case *ast.FormArrayDeclaration:
		members[v.Name] = true
		a.visitFormArrayDeclaration(v)
	case *ast.StepsDeclaration:
		a.visitStepsDeclaration(v)
	default:
		a.VisitNode(item)
	}
}

func (a *Analyzer) visitFormFieldDeclaration(n *ast.FormFieldDeclaration) {
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindFormField, DeclaredType: n.DeclaredType, Loc: n.GetRange()})
	if n.Default != nil {
		a.VisitNode(n.Default)
	}
	for _, v := range n.Validators {
		if !knownValidators[v.Name] {
			a.Warnf(n, WUnknownValidator, "", "unknown validator %q", v.Name)
		}
		for _, arg := range v.Args {
			a.VisitNode(arg)
		}
	}
}

func (a *Analyzer) visitFormGroupDeclaration(n *ast.FormGroupDeclaration) {
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindFormGroup, Loc: n.GetRange()})
	a.pushScope("form", n.GetRange())
	defer a.popScope()

	members := map[string]bool{}
	a.formMembersStack = append(a.formMembersStack, members)
	defer func() { a.formMembersStack = a.formMembersStack[:len(a.formMembersStack)-1] }()

	for _, item := range n.Body {
		a.visitFormMember(item, members)
	}
}

func (a *Analyzer) visitFormArrayDeclaration(n *ast.FormArrayDeclaration) {
	a.scope.DefineSymbol(&Symbol{Name: n.Name, Kind: KindFormArray, Loc: n.GetRange()})
	a.pushScope("form", n.GetRange())
	defer a.popScope()

	members := map[string]bool{}
	a.formMembersStack = append(a.formMembersStack, members)
	defer func() { a.formMembersStack = a.formMembersStack[:len(a.formMembersStack)-1] }()

	for _, item := range n.Body {
		a.visitFormMember(item, members)
	}
}

func (a *Analyzer) visitStepsDeclaration(n *ast.StepsDeclaration) {
	var known map[string]bool
	if len(a.formMembersStack) > 0 {
		known = a.formMembersStack[len(a.formMembersStack)-1]
	}
	for _, step := range n.Steps {
		if step.Guard != nil {
			a.VisitNode(step.Guard)
		}
		for _, member := range step.Members {
			if known != nil && !known[member] {
				a.Warnf(n, WStepUnknownMember, "", "step %q references unknown member %q", step.Label, member)
			}
		}
	}
}

// --- deploy ------------------------------------------------------------------

var requiredDeployFields = []string{"server", "domain"}

var validDeployFields = map[string]bool{
	"server": true, "domain": true, "port": true, "region": true,
	"env": true, "replicas": true, "build": true, "start": true,
}

func (a *Analyzer) visitDeployDeclaration(n *ast.DeployDeclaration) {
	for _, required := range requiredDeployFields {
		if _, ok := n.Fields[required]; !ok {
			a.Errorf(n, EDeployMissingField, "deploy block is missing required field %q", required)
		}
	}

	names := make([]string, 0, len(n.Fields))
	for name := range n.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	valid := make([]string, 0, len(validDeployFields))
	for name := range validDeployFields {
		valid = append(valid, name)
	}
	sort.Strings(valid)

	for _, name := range names {
		if !validDeployFields[name] {
			a.Errorf(n, EDeployUnknownField, "unknown deploy field %q (valid fields: %s)", name, strings.Join(valid, ", "))
			continue
		}
		a.VisitNode(n.Fields[name])
	}
}

// --- generic plugin blocks (security/cli/edge/concurrent/bench) -----------

func (a *Analyzer) visitPluginBlock(n *ast.PluginBlock) {
	a.pushScope(string(n.Kind), n.GetRange())
	defer a.popScope()
	for _, item := range n.Body {
		a.VisitNode(item)
	}
}

// prePassEdgeQueues records every producer's queue name before the
// main walk, so a consumer anywhere in the file can be checked against
// the full set regardless of declaration order (§4.3 "Pre-passes...
// Edge").
func (a *Analyzer) prePassEdgeQueues(registry.BlockAnalyzer) {
	for _, item := range a.program.Body {
		block, ok := item.(*ast.PluginBlock)
		if !ok || block.Kind != registry.KindEdge {
			continue
		}
		for _, child := range block.Body {
			if p, ok := child.(*ast.EdgeProducerDeclaration); ok {
				a.producerQueues[p.Queue] = true
			}
		}
	}
}

// --- registry wiring ---------------------------------------------------------

func (a *Analyzer) visitHooks() map[string]registry.VisitFunc {
	return map[string]registry.VisitFunc{
		"form":        func(_ registry.BlockAnalyzer, n ast.Node) { a.visitFormDeclaration(n.(*ast.FormDeclaration)) },
		"form-field":  func(_ registry.BlockAnalyzer, n ast.Node) { a.visitFormFieldDeclaration(n.(*ast.FormFieldDeclaration)) },
		"form-group":  func(_ registry.BlockAnalyzer, n ast.Node) { a.visitFormGroupDeclaration(n.(*ast.FormGroupDeclaration)) },
		"form-array":  func(_ registry.BlockAnalyzer, n ast.Node) { a.visitFormArrayDeclaration(n.(*ast.FormArrayDeclaration)) },
		"form-steps":  func(_ registry.BlockAnalyzer, n ast.Node) { a.visitStepsDeclaration(n.(*ast.StepsDeclaration)) },
		"deploy":      func(_ registry.BlockAnalyzer, n ast.Node) { a.visitDeployDeclaration(n.(*ast.DeployDeclaration)) },
		"security":    func(_ registry.BlockAnalyzer, n ast.Node) { a.visitPluginBlock(n.(*ast.PluginBlock)) },
		"cli":         func(_ registry.BlockAnalyzer, n ast.Node) { a.visitPluginBlock(n.(*ast.PluginBlock)) },
		"edge":        func(_ registry.BlockAnalyzer, n ast.Node) { a.visitPluginBlock(n.(*ast.PluginBlock)) },
		"concurrent":  func(_ registry.BlockAnalyzer, n ast.Node) { a.visitPluginBlock(n.(*ast.PluginBlock)) },
		"bench":       func(_ registry.BlockAnalyzer, n ast.Node) { a.visitPluginBlock(n.(*ast.PluginBlock)) },
	}
}

func (a *Analyzer) prePassHooks() map[string]func(registry.BlockAnalyzer) {
	return map[string]func(registry.BlockAnalyzer){
		"edge": a.prePassEdgeQueues,
	}
}
