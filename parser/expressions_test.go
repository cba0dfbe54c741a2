package parser

import (
	"testing"

	"github.com/tova-lang/tova/ast"
)

// exprOf parses src and returns the single top-level expression
// statement's expression node.
func exprOf(t *testing.T, src string) ast.Node {
	t.Helper()
	prog, err := Parse("test.tova", []byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(prog.Body))
	}
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", prog.Body[0])
	}
	return stmt.Expression
}

// §4.2: multiplicative binds tighter than additive.
func TestPrecedenceMultiplicativeOverAdditive(t *testing.T) {
	bin, ok := exprOf(t, "1 + 2 * 3").(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected BinaryExpression, got %T", exprOf(t, "1 + 2 * 3"))
	}
	if bin.Operator != "+" {
		t.Fatalf("outer operator = %q, want +", bin.Operator)
	}
	right, ok := bin.Right.(*ast.BinaryExpression)
	if !ok || right.Operator != "*" {
		t.Fatalf("expected 2 * 3 nested on the right, got %+v", bin.Right)
	}
}

// §4.2: `**` is right-associative.
func TestPowerIsRightAssociative(t *testing.T) {
	bin, ok := exprOf(t, "2 ** 3 ** 2").(*ast.BinaryExpression)
	if !ok || bin.Operator != "**" {
		t.Fatalf("expected outer **, got %+v", exprOf(t, "2 ** 3 ** 2"))
	}
	left, ok := bin.Left.(*ast.NumberLiteral)
	if !ok || left.Raw != "2" {
		t.Fatalf("expected left operand to be the literal 2, got %+v", bin.Left)
	}
	right, ok := bin.Right.(*ast.BinaryExpression)
	if !ok || right.Operator != "**" {
		t.Fatalf("expected 3 ** 2 nested on the right, got %+v", bin.Right)
	}
}

// `a < b < c` lowers to a single ChainedComparison, not nested binaries.
func TestChainedComparison(t *testing.T) {
	chain, ok := exprOf(t, "a < b < c").(*ast.ChainedComparison)
	if !ok {
		t.Fatalf("expected ChainedComparison, got %T", exprOf(t, "a < b < c"))
	}
	if len(chain.Operands) != 3 {
		t.Fatalf("Operands len = %d, want 3", len(chain.Operands))
	}
	if len(chain.Operators) != 2 || chain.Operators[0] != "<" || chain.Operators[1] != "<" {
		t.Fatalf("Operators = %+v, want [< <]", chain.Operators)
	}
}

// `not` has its own precedence tier between and/or and comparisons: it
// binds tighter than and/or, looser than comparisons.
func TestLogicalAndOrNotPrecedence(t *testing.T) {
	logical, ok := exprOf(t, "a and not b or c").(*ast.LogicalExpression)
	if !ok || logical.Operator != "or" {
		t.Fatalf("expected top-level or, got %+v", exprOf(t, "a and not b or c"))
	}
	left, ok := logical.Left.(*ast.LogicalExpression)
	if !ok || left.Operator != "and" {
		t.Fatalf("expected left side to be an and-expression, got %+v", logical.Left)
	}
	if _, ok := left.Right.(*ast.UnaryExpression); !ok {
		t.Fatalf("expected `not b` as a UnaryExpression, got %+v", left.Right)
	}
}

func TestMembershipExpression(t *testing.T) {
	mem, ok := exprOf(t, "x in xs").(*ast.MembershipExpression)
	if !ok {
		t.Fatalf("expected MembershipExpression, got %T", exprOf(t, "x in xs"))
	}
	if mem.Negated {
		t.Error("`in` should not be negated")
	}

	negated, ok := exprOf(t, "x not in xs").(*ast.MembershipExpression)
	if !ok || !negated.Negated {
		t.Fatalf("expected a negated MembershipExpression, got %+v", exprOf(t, "x not in xs"))
	}
}

func TestRangeExpressionInclusiveExclusive(t *testing.T) {
	excl, ok := exprOf(t, "0..10").(*ast.RangeExpression)
	if !ok || excl.Inclusive {
		t.Fatalf("expected an exclusive range, got %+v", exprOf(t, "0..10"))
	}

	incl, ok := exprOf(t, "0..=10").(*ast.RangeExpression)
	if !ok || !incl.Inclusive {
		t.Fatalf("expected an inclusive range, got %+v", exprOf(t, "0..=10"))
	}
}

// `|>` is the lowest-precedence operator: `a |> f(b)` should not bind
// tighter than a surrounding `or`.
func TestPipeExpressionLowestPrecedence(t *testing.T) {
	pipe, ok := exprOf(t, "a or b |> f()").(*ast.PipeExpression)
	if !ok {
		t.Fatalf("expected a top-level PipeExpression, got %T", exprOf(t, "a or b |> f()"))
	}
	if _, ok := pipe.Left.(*ast.LogicalExpression); !ok {
		t.Fatalf("expected `a or b` on the pipe's left, got %+v", pipe.Left)
	}
	if _, ok := pipe.Right.(*ast.CallExpression); !ok {
		t.Fatalf("expected `f()` on the pipe's right, got %+v", pipe.Right)
	}
}

func TestPostfixCallMemberChain(t *testing.T) {
	call, ok := exprOf(t, "a.b.c(1, 2)").(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression, got %T", exprOf(t, "a.b.c(1, 2)"))
	}
	callee, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected callee to be a MemberExpression, got %T", call.Callee)
	}
	prop, ok := callee.Property.(*ast.Identifier)
	if !ok || prop.Name != "c" {
		t.Fatalf("expected callee property 'c', got %+v", callee.Property)
	}
	if len(call.Args) != 2 {
		t.Fatalf("Args len = %d, want 2", len(call.Args))
	}
}

func TestNamedArguments(t *testing.T) {
	call, ok := exprOf(t, `f(x: 1, y: 2)`).(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression, got %T", exprOf(t, "f(x: 1, y: 2)"))
	}
	if len(call.Args) != 2 || call.Args[0].Name != "x" || call.Args[1].Name != "y" {
		t.Fatalf("unexpected named args: %+v", call.Args)
	}
}

func TestOptionalChainMemberAndCall(t *testing.T) {
	chain, ok := exprOf(t, "a?.b").(*ast.OptionalChain)
	if !ok || chain.IsCall {
		t.Fatalf("expected a non-call OptionalChain, got %+v", exprOf(t, "a?.b"))
	}

	called, ok := exprOf(t, "a?.(1)").(*ast.OptionalChain)
	if !ok || !called.IsCall {
		t.Fatalf("expected a call-form OptionalChain, got %+v", exprOf(t, "a?.(1)"))
	}
}

func TestPropagateExpression(t *testing.T) {
	prop, ok := exprOf(t, "mayFail()?").(*ast.PropagateExpression)
	if !ok {
		t.Fatalf("expected PropagateExpression, got %T", exprOf(t, "mayFail()?"))
	}
	if _, ok := prop.Argument.(*ast.CallExpression); !ok {
		t.Fatalf("expected propagated argument to be a call, got %+v", prop.Argument)
	}
}

func TestIndexAndSliceExpressions(t *testing.T) {
	idx, ok := exprOf(t, "xs[0]").(*ast.MemberExpression)
	if !ok || !idx.Computed {
		t.Fatalf("expected a computed MemberExpression, got %+v", exprOf(t, "xs[0]"))
	}

	slice, ok := exprOf(t, "xs[1:5:2]").(*ast.SliceExpression)
	if !ok {
		t.Fatalf("expected SliceExpression, got %T", exprOf(t, "xs[1:5:2]"))
	}
	if slice.From == nil || slice.To == nil || slice.Step == nil {
		t.Fatalf("expected all three slice bounds set, got %+v", slice)
	}

	openEnded, ok := exprOf(t, "xs[1:]").(*ast.SliceExpression)
	if !ok || openEnded.From == nil || openEnded.To != nil {
		t.Fatalf("expected an open-ended slice, got %+v", exprOf(t, "xs[1:]"))
	}
}

func TestArrayLiteralWithSpread(t *testing.T) {
	arr, ok := exprOf(t, "[1, 2, ...rest]").(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expected ArrayLiteral, got %T", exprOf(t, "[1, 2, ...rest]"))
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("Elements len = %d, want 3", len(arr.Elements))
	}
	if _, ok := arr.Elements[2].(*ast.SpreadExpression); !ok {
		t.Fatalf("expected last element to be a SpreadExpression, got %+v", arr.Elements[2])
	}
}

func TestParenthesizedGroupingVsTupleLiteral(t *testing.T) {
	if _, ok := exprOf(t, "(1 + 2) * 3").(*ast.BinaryExpression); !ok {
		t.Fatalf("expected the outer expression to stay a BinaryExpression, got %T", exprOf(t, "(1 + 2) * 3"))
	}

	tuple, ok := exprOf(t, "(1, 2, 3)").(*ast.ArrayLiteral)
	if !ok || len(tuple.Elements) != 3 {
		t.Fatalf("expected a 3-element tuple ArrayLiteral, got %+v", exprOf(t, "(1, 2, 3)"))
	}
}

func TestObjectLiteralWithSpreadAndComputedKey(t *testing.T) {
	obj, ok := exprOf(t, `{ name: "a", [k]: v, ...rest }`).(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("expected ObjectLiteral, got %T", exprOf(t, `{ name: "a", [k]: v, ...rest }`))
	}
	if len(obj.Properties) != 3 {
		t.Fatalf("Properties len = %d, want 3", len(obj.Properties))
	}
	if obj.Properties[0].Key != "name" {
		t.Errorf("Properties[0].Key = %q, want name", obj.Properties[0].Key)
	}
	if obj.Properties[1].Computed == nil {
		t.Error("Properties[1] should have a Computed key expression")
	}
	if obj.Properties[2].Spread == nil {
		t.Error("Properties[2] should be a spread entry")
	}
}

func TestListComprehension(t *testing.T) {
	comp, ok := exprOf(t, "[x * 2 for x in xs if x > 0]").(*ast.ListComprehension)
	if !ok {
		t.Fatalf("expected ListComprehension, got %T", exprOf(t, "[x * 2 for x in xs if x > 0]"))
	}
	if comp.Condition == nil {
		t.Error("expected a condition from the `if` clause")
	}
}

func TestLambdaExpressionBlockAndExpressionBody(t *testing.T) {
	exprBody, ok := exprOf(t, "fn(x) x + 1").(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("expected LambdaExpression, got %T", exprOf(t, "fn(x) x + 1"))
	}
	if _, ok := exprBody.Body.(*ast.BlockStatement); ok {
		t.Error("expected an expression body, not a block")
	}

	blockBody, ok := exprOf(t, "fn(x) { x + 1 }").(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("expected LambdaExpression, got %T", exprOf(t, "fn(x) { x + 1 }"))
	}
	if _, ok := blockBody.Body.(*ast.BlockStatement); !ok {
		t.Error("expected a block body")
	}
}

func TestMatchExpressionArms(t *testing.T) {
	src := `match x {
  0 => "zero",
  n if n > 0 => "positive",
  _ => "negative"
}`
	m, ok := exprOf(t, src).(*ast.MatchExpression)
	if !ok {
		t.Fatalf("expected MatchExpression, got %T", exprOf(t, src))
	}
	if len(m.Arms) != 3 {
		t.Fatalf("Arms len = %d, want 3", len(m.Arms))
	}
	if m.Arms[1].Guard == nil {
		t.Error("expected the second arm to carry a guard")
	}
}

func TestIfExpressionValueProducing(t *testing.T) {
	prog, err := Parse("test.tova", []byte(`label = if x > 0 { "pos" } else { "nonpos" }`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	assign, ok := prog.Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", prog.Body[0])
	}
	ifExpr, ok := assign.Value.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected IfExpression value, got %T", assign.Value)
	}
	if ifExpr.Then == nil || ifExpr.Else == nil {
		t.Fatalf("expected both branches populated, got %+v", ifExpr)
	}
}

func TestNumberLiteralFloatDetection(t *testing.T) {
	intLit, ok := exprOf(t, "42").(*ast.NumberLiteral)
	if !ok || intLit.IsFloat {
		t.Fatalf("expected an integer literal, got %+v", exprOf(t, "42"))
	}

	floatLit, ok := exprOf(t, "3.14").(*ast.NumberLiteral)
	if !ok || !floatLit.IsFloat {
		t.Fatalf("expected a float literal, got %+v", exprOf(t, "3.14"))
	}

	hexLit, ok := exprOf(t, "0xBEEF").(*ast.NumberLiteral)
	if !ok || hexLit.IsFloat {
		t.Fatalf("expected a hex integer literal, got %+v", exprOf(t, "0xBEEF"))
	}
}

func TestUnaryOperators(t *testing.T) {
	neg, ok := exprOf(t, "-x").(*ast.UnaryExpression)
	if !ok || neg.Operator != "-" {
		t.Fatalf("expected unary -, got %+v", exprOf(t, "-x"))
	}

	bang, ok := exprOf(t, "!x").(*ast.UnaryExpression)
	if !ok || bang.Operator != "!" {
		t.Fatalf("expected unary !, got %+v", exprOf(t, "!x"))
	}
}
