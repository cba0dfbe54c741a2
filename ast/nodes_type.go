package ast

// TypeAnnotation is the interface for parsed type annotations (§3.2
// "Type annotations"). These are syntax; the analyzer converts them to
// types.Type instances via a deterministic mapping (§3.4, types.FromAnnotation).
type TypeAnnotation interface {
	Node
	typeAnnotationNode()
}

// NamedTypeAnnotation is `Name` or `Name<Arg1, Arg2>`.
type NamedTypeAnnotation struct {
	Meta
	Name string
	Args []TypeAnnotation // generic arguments, possibly empty
}

func (*NamedTypeAnnotation) node()                {}
func (*NamedTypeAnnotation) typeAnnotationNode()   {}

// ArrayTypeAnnotation is `T[]`. `Array<T>` parses as a
// NamedTypeAnnotation named "Array", not as this node.
type ArrayTypeAnnotation struct {
	Meta
	Element TypeAnnotation
}

func (*ArrayTypeAnnotation) node()              {}
func (*ArrayTypeAnnotation) typeAnnotationNode() {}

// TupleTypeAnnotation is `(T1, T2, ...)`.
type TupleTypeAnnotation struct {
	Meta
	Elements []TypeAnnotation
}

func (*TupleTypeAnnotation) node()              {}
func (*TupleTypeAnnotation) typeAnnotationNode() {}

// FunctionTypeAnnotation is `(P1, P2) -> R`.
type FunctionTypeAnnotation struct {
	Meta
	Params []TypeAnnotation
	Return TypeAnnotation
}

func (*FunctionTypeAnnotation) node()              {}
func (*FunctionTypeAnnotation) typeAnnotationNode() {}

// NullableTypeAnnotation is `T?`.
type NullableTypeAnnotation struct {
	Meta
	Inner TypeAnnotation
}

func (*NullableTypeAnnotation) node()              {}
func (*NullableTypeAnnotation) typeAnnotationNode() {}
