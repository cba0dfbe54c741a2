package types

import "github.com/spf13/cast"

// Compatible implements the assignability rules of §3.4: whether a value
// of type from may be assigned to a binding of type to.
func Compatible(from, to *Type) bool {
	if from == nil || to == nil {
		return true
	}
	if from.Kind == KindAny || to.Kind == KindAny {
		return true
	}
	if from.Kind == KindUnknown || to.Kind == KindUnknown {
		return true
	}
	if from.Kind == KindNil && to.IsOptionShaped() {
		return true
	}
	if from.Kind == KindNil && to.Kind == KindNil {
		return true
	}

	switch to.Kind {
	case KindArray:
		return from.Kind == KindArray && Compatible(from.Elem, to.Elem)
	case KindTuple:
		if from.Kind != KindTuple || len(from.Elements) != len(to.Elements) {
			return false
		}
		for i := range to.Elements {
			if !Compatible(from.Elements[i], to.Elements[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		if from.Kind != KindFunction || len(from.Params) != len(to.Params) {
			return false
		}
		for i := range to.Params {
			// Parameters are checked contravariantly: each of to's
			// parameter types must be assignable to from's.
			if !Compatible(to.Params[i], from.Params[i]) {
				return false
			}
		}
		return Compatible(from.Return, to.Return)
	case KindRecord, KindADT:
		// Records and ADTs are nominal by name (§3.4).
		return (from.Kind == KindRecord || from.Kind == KindADT) && from.RecordName == to.RecordName
	case KindGeneric:
		if from.Kind != KindGeneric || from.Base != to.Base {
			return false
		}
		// A zero-arg instantiation of the same base is gradually
		// compatible with any parameterization (§3.4).
		if len(to.Args) == 0 || len(from.Args) == 0 {
			return true
		}
		if len(from.Args) != len(to.Args) {
			return false
		}
		for i := range to.Args {
			if !Compatible(from.Args[i], to.Args[i]) {
				return false
			}
		}
		return true
	case KindUnion:
		for _, m := range to.Members {
			if Compatible(from, m) {
				return true
			}
		}
		return false
	case KindPrimitive:
		if from.Kind != KindPrimitive {
			return false
		}
		if from.Name == to.Name {
			return true
		}
		// Int widens to Float.
		if from.Name == Int && to.Name == Float {
			return true
		}
		return false
	case KindTypeVariable:
		return true
	}
	return false
}

// NarrowingKind classifies the numeric-narrowing check requested by
// §3.4 ("Float→Int is allowed outside strict mode but flagged as
// narrowing").
type NarrowingKind int

const (
	NoNarrowing NarrowingKind = iota
	NarrowingLossless
	NarrowingLossy
)

// CheckNarrowing reports whether assigning a Float-typed literal value
// to an Int-typed binding narrows exactly or loses precision. literal is
// the constant's textual value as lexed (ast.NumberLiteral.Raw); when it
// cannot be parsed as a float (non-constant expressions), the result is
// NarrowingLossy.
func CheckNarrowing(from, to *Type, literal string) NarrowingKind {
	if from == nil || to == nil {
		return NoNarrowing
	}
	if !(from.Kind == KindPrimitive && from.Name == Float && to.Kind == KindPrimitive && to.Name == Int) {
		return NoNarrowing
	}
	f, err := cast.ToFloat64E(literal)
	if err != nil {
		return NarrowingLossy
	}
	asInt := int64(f)
	if float64(asInt) == f {
		return NarrowingLossless
	}
	return NarrowingLossy
}
