package analyzer

import (
	"github.com/samber/lo"

	"github.com/tova-lang/tova/types"
)

// Primitive type names seeded into the module scope (§4.3 "Built-ins").
var builtinTypeNames = []string{types.Int, types.Float, types.String, types.Bool, "Nil", "Any"}

// Stdlib functions available everywhere without an import (§4.3).
var builtinFunctions = []string{
	"print", "len", "range", "map", "filter", "sum", "sorted", "reversed",
	"enumerate", "zip", "min", "max", "type_of", "fetch", "db",
}

// Constructors of the built-in tagged-union types Result/Option (§4.3).
var builtinConstructors = []string{"Ok", "Err", "Some", "None", "Result", "Option"}

// PopulateBuiltins seeds root with the primitive type names, stdlib
// functions, and tagged-union constructors every program starts with,
// before any user code is visited.
func PopulateBuiltins(root *Scope) {
	lo.ForEach(builtinTypeNames, func(name string, _ int) {
		root.DefineSymbol(&Symbol{Name: name, Kind: KindType})
	})
	lo.ForEach(builtinFunctions, func(name string, _ int) {
		root.DefineSymbol(&Symbol{Name: name, Kind: KindBuiltin})
	})
	lo.ForEach(builtinConstructors, func(name string, _ int) {
		root.DefineSymbol(&Symbol{Name: name, Kind: KindBuiltin})
	})
}
