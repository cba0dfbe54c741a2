package types

import (
	"testing"

	"github.com/tova-lang/tova/ast"
)

func TestCompatibleAnyAndUnknown(t *testing.T) {
	if !Compatible(TAny, TInt) {
		t.Error("Any should be assignable to Int")
	}
	if !Compatible(TInt, TUnknown) {
		t.Error("Int should be assignable to Unknown")
	}
	if !Compatible(TUnknown, TAny) {
		t.Error("Unknown and Any should be bidirectionally compatible")
	}
}

func TestIntWidensToFloat(t *testing.T) {
	if !Compatible(TInt, TFloat) {
		t.Error("Int should widen to Float")
	}
	if Compatible(TFloat, TInt) {
		t.Error("Float should not narrow to Int under plain Compatible (that's CheckNarrowing's job)")
	}
}

func TestNilAssignableToOptionShaped(t *testing.T) {
	option := Generic("Option", TInt)
	if !Compatible(TNil, option) {
		t.Error("Nil should be assignable to an Option-shaped generic")
	}
	if Compatible(TNil, TInt) {
		t.Error("Nil should not be assignable to a bare Int")
	}
}

func TestArrayPointwiseCompat(t *testing.T) {
	if !Compatible(Array(TInt), Array(TFloat)) {
		t.Error("Array<Int> should be compatible with Array<Float>")
	}
	if Compatible(Array(TFloat), Array(TInt)) {
		t.Error("Array<Float> should not be compatible with Array<Int>")
	}
}

func TestTuplePointwiseCompat(t *testing.T) {
	a := Tuple(TInt, TString)
	b := Tuple(TFloat, TString)
	if !Compatible(a, b) {
		t.Error("matching-arity tuples should compare pointwise")
	}
	if Compatible(a, Tuple(TInt)) {
		t.Error("mismatched arity should not be compatible")
	}
}

func TestGenericZeroArgGradualCompat(t *testing.T) {
	bare := Generic("Option")
	instantiated := Generic("Option", TInt)
	if !Compatible(bare, instantiated) {
		t.Error("zero-arg generic should be compatible with any instantiation of the same base")
	}
	if !Compatible(instantiated, bare) {
		t.Error("instantiated generic should be compatible with the zero-arg form")
	}
}

func TestRecordsNominal(t *testing.T) {
	a := Record("Point", map[string]*Type{"x": TInt, "y": TInt})
	b := Record("Point", map[string]*Type{"x": TInt, "y": TInt})
	c := Record("Vector", map[string]*Type{"x": TInt, "y": TInt})
	if !Compatible(a, b) {
		t.Error("records with the same name should be compatible")
	}
	if Compatible(a, c) {
		t.Error("records with different names should not be compatible")
	}
}

func TestFromAnnotationPrimitives(t *testing.T) {
	got := FromAnnotation(&ast.NamedTypeAnnotation{Name: "Int"})
	if got.Kind != KindPrimitive || got.Name != Int {
		t.Errorf("got %v, want Int primitive", got)
	}
}

func TestFromAnnotationNullableIsUnion(t *testing.T) {
	got := FromAnnotation(&ast.NullableTypeAnnotation{Inner: &ast.NamedTypeAnnotation{Name: "String"}})
	if got.Kind != KindUnion || len(got.Members) != 2 {
		t.Fatalf("got %v, want a 2-member union", got)
	}
}

func TestCheckNarrowingLosslessVsLossy(t *testing.T) {
	if CheckNarrowing(TFloat, TInt, "3.0") != NarrowingLossless {
		t.Error("3.0 -> Int should be lossless")
	}
	if CheckNarrowing(TFloat, TInt, "3.5") != NarrowingLossy {
		t.Error("3.5 -> Int should be lossy")
	}
	if CheckNarrowing(TInt, TFloat, "3") != NoNarrowing {
		t.Error("Int -> Float is widening, not narrowing")
	}
}
