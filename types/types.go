// Package types implements the Tova type algebra (§3.4): primitives,
// Nil, Any, Unknown (gradual), Array, Tuple, Function, Record, ADT,
// Generic, TypeVariable, and Union, plus the assignability rules that
// relate them.
package types

import (
	"fmt"
	"strings"

	"github.com/tova-lang/tova/ast"
)

// Kind discriminates the members of the type algebra.
type Kind int

const (
	KindPrimitive Kind = iota
	KindNil
	KindAny
	KindUnknown
	KindArray
	KindTuple
	KindFunction
	KindRecord
	KindADT
	KindGeneric
	KindTypeVariable
	KindUnion
)

// Primitive names recognized by the built-in module scope (§4.3).
const (
	Int    = "Int"
	Float  = "Float"
	String = "String"
	Bool   = "Bool"
)

// Type is a single member of the closed type algebra described in §3.4.
// It is intentionally a flat struct rather than an interface hierarchy:
// every variant's payload lives in one of the fields below, selected by
// Kind, which keeps assignability checks (compat.go) a single exhaustive
// switch instead of a type-switch over a dozen concrete types.
type Type struct {
	Kind Kind

	// KindPrimitive
	Name string

	// KindArray
	Elem *Type

	// KindTuple
	Elements []*Type

	// KindFunction
	Params []*Type
	Return *Type

	// KindRecord / KindADT
	RecordName string
	Fields     map[string]*Type          // KindRecord
	Variants   map[string]map[string]*Type // KindADT: variant -> field -> type
	TypeParams []string                     // KindADT / KindGeneric base definition

	// KindGeneric
	Base string
	Args []*Type

	// KindTypeVariable
	VarName string

	// KindUnion
	Members []*Type
}

func Primitive(name string) *Type { return &Type{Kind: KindPrimitive, Name: name} }

var (
	TInt     = Primitive(Int)
	TFloat   = Primitive(Float)
	TString  = Primitive(String)
	TBool    = Primitive(Bool)
	TNil     = &Type{Kind: KindNil}
	TAny     = &Type{Kind: KindAny}
	TUnknown = &Type{Kind: KindUnknown}
)

func Array(elem *Type) *Type { return &Type{Kind: KindArray, Elem: elem} }

func Tuple(elements ...*Type) *Type { return &Type{Kind: KindTuple, Elements: elements} }

func Function(params []*Type, ret *Type) *Type {
	return &Type{Kind: KindFunction, Params: params, Return: ret}
}

func Record(name string, fields map[string]*Type) *Type {
	return &Type{Kind: KindRecord, RecordName: name, Fields: fields}
}

func ADT(name string, typeParams []string, variants map[string]map[string]*Type) *Type {
	return &Type{Kind: KindADT, RecordName: name, TypeParams: typeParams, Variants: variants}
}

// Generic is a parameterized instantiation such as `Array<Int>` or the
// zero-arg `Option` which is gradually compatible with any instantiation
// of the same base (§3.4).
func Generic(base string, args ...*Type) *Type {
	return &Type{Kind: KindGeneric, Base: base, Args: args}
}

func TypeVariable(name string) *Type { return &Type{Kind: KindTypeVariable, VarName: name} }

func Union(members ...*Type) *Type { return &Type{Kind: KindUnion, Members: members} }

// IsOptionShaped reports whether t is an `Option`/`Result` generic (with
// any number of type arguments) or an ADT of that name, the family that
// `Nil` widens into (§3.4 "Nil is assignable to an Option-shaped generic").
func (t *Type) IsOptionShaped() bool {
	if t == nil {
		return false
	}
	if t.Kind == KindGeneric && (t.Base == "Option" || t.Base == "Result") {
		return true
	}
	if t.Kind == KindADT && (t.RecordName == "Option" || t.RecordName == "Result") {
		return true
	}
	return false
}

// String renders a Type the way a diagnostic message would.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Name
	case KindNil:
		return "Nil"
	case KindAny:
		return "Any"
	case KindUnknown:
		return "Unknown"
	case KindArray:
		return fmt.Sprintf("Array<%s>", t.Elem)
	case KindTuple:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Return)
	case KindRecord:
		return t.RecordName
	case KindADT:
		return t.RecordName
	case KindGeneric:
		if len(t.Args) == 0 {
			return t.Base
		}
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s<%s>", t.Base, strings.Join(parts, ", "))
	case KindTypeVariable:
		return t.VarName
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	}
	return "?"
}

// FromAnnotation deterministically maps a parsed ast.TypeAnnotation to a
// Type instance (§4.3 "Type annotations"). Unknown named types become
// zero-arg Generic instances, which Compatible matches against any
// Generic of the same base name; it does not match them against Record
// or ADT types.
func FromAnnotation(ann ast.TypeAnnotation) *Type {
	if ann == nil {
		return TUnknown
	}
	switch n := ann.(type) {
	case *ast.NamedTypeAnnotation:
		if len(n.Args) == 0 {
			switch n.Name {
			case Int, Float, String, Bool:
				return Primitive(n.Name)
			case "Nil":
				return TNil
			case "Any":
				return TAny
			}
			return Generic(n.Name)
		}
		args := make([]*Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = FromAnnotation(a)
		}
		return Generic(n.Name, args...)
	case *ast.ArrayTypeAnnotation:
		return Array(FromAnnotation(n.Element))
	case *ast.TupleTypeAnnotation:
		elems := make([]*Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = FromAnnotation(e)
		}
		return Tuple(elems...)
	case *ast.FunctionTypeAnnotation:
		params := make([]*Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = FromAnnotation(p)
		}
		return Function(params, FromAnnotation(n.Return))
	case *ast.NullableTypeAnnotation:
		inner := FromAnnotation(n.Inner)
		return Union(inner, TNil)
	}
	return TUnknown
}
