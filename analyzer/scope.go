package analyzer

import (
	"sort"

	"github.com/samber/lo"

	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/types"
)

// SymbolKind discriminates the different bindings a scope can hold (§3.3).
type SymbolKind string

const (
	KindVariable  SymbolKind = "variable"
	KindParameter SymbolKind = "parameter"
	KindFunction  SymbolKind = "function"
	KindType      SymbolKind = "type"
	KindState     SymbolKind = "state"
	KindComputed  SymbolKind = "computed"
	KindComponent SymbolKind = "component"
	KindStore     SymbolKind = "store"
	KindForm      SymbolKind = "form"
	KindFormField SymbolKind = "formField"
	KindFormGroup SymbolKind = "formGroup"
	KindFormArray SymbolKind = "formArray"
	KindBuiltin   SymbolKind = "builtin"
)

// Symbol is one binding inside a Scope (§3.3).
type Symbol struct {
	Name         string
	Kind         SymbolKind
	Type         *types.Type
	Mutable      bool
	Loc          ast.Range
	Used         bool
	DeclaredType ast.TypeAnnotation
	// Decl carries the originating declaration node for bindings whose
	// shape later lookups need (a FunctionDeclaration's parameter list
	// for route/handler checks, a TypeDeclaration for variant lookup).
	Decl ast.Node
}

// Scope is one node of the scope tree (§3.3): a parent pointer, a
// context tag, a name table, and its children in source order (sorted
// once analysis finishes so FindScopeAtPosition can binary-search).
type Scope struct {
	parent   *Scope
	context  string
	symbols  map[string]*Symbol
	children []*Scope
	start    ast.Position
	end      ast.Position
}

// NewScope creates a scope with the given context tag, linked to parent
// (nil for the module root).
func NewScope(parent *Scope, context string) *Scope {
	return &Scope{parent: parent, context: context, symbols: map[string]*Symbol{}}
}

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// DefineSymbol installs sym in s, honoring the single redefinition
// exception in §3.3: a user binding may shadow a builtin of the same
// name, but two user bindings of the same name in one scope may not
// coexist.
func (s *Scope) DefineSymbol(sym *Symbol) bool {
	if existing, ok := s.symbols[sym.Name]; ok && existing.Kind != KindBuiltin {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// Define implements registry.Scope's plugin-facing surface: dialect
// plugins only ever need to declare a name and a coarse kind, not the
// full Symbol payload core declarations carry.
func (s *Scope) Define(name, kind string) bool {
	return s.DefineSymbol(&Symbol{Name: name, Kind: SymbolKind(kind)})
}

// LookupLocal resolves name in s only, without walking parents (§3.3).
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Lookup resolves name by walking s and its ancestors (§3.3).
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// GetContext walks s and its ancestors and returns the innermost
// canonical context tag (server/browser/shared); "module" otherwise
// (§3.3 "getContext()").
func (s *Scope) GetContext() string {
	for sc := s; sc != nil; sc = sc.parent {
		switch sc.context {
		case "server", "browser", "shared":
			return sc.context
		}
	}
	return "module"
}

// Context implements registry.Scope. Plugins only ever need to ask
// "am I inside server/browser/shared", never a scope's raw local tag
// (a form/block/function scope reports whatever canonical context
// encloses it).
func (s *Scope) Context() string { return s.GetContext() }

func (s *Scope) addChild(c *Scope) { s.children = append(s.children, c) }

// SortChildren orders every scope's children by start position so
// FindScopeAtPosition can binary-search instead of scanning (§3.3).
func (s *Scope) SortChildren() {
	sort.Slice(s.children, func(i, j int) bool {
		return s.children[i].start.Before(s.children[j].start)
	})
	lo.ForEach(s.children, func(c *Scope, _ int) { c.SortChildren() })
}

// FindScopeAtPosition resolves the innermost scope containing (line,
// col), assuming SortChildren has already run (§3.3).
func (s *Scope) FindScopeAtPosition(line, col int) *Scope {
	pos := ast.Position{Line: line, Column: col}
	i := sort.Search(len(s.children), func(i int) bool {
		return pos.Before(s.children[i].start)
	})
	if i > 0 {
		cand := s.children[i-1]
		if !cand.end.Before(pos) {
			return cand.FindScopeAtPosition(line, col)
		}
	}
	return s
}

// Names returns every symbol name defined directly in s, sorted for
// deterministic reporting.
func (s *Scope) Names() []string {
	names := lo.Keys(s.symbols)
	sort.Strings(names)
	return names
}
