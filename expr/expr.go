// Package expr implements the expression compiler and evaluator from spec
// §4.3/§4.4: arithmetic, bitwise, and comparison operators over natural,
// integer, and real numbers, plus variable references resolved at eval
// time. Grounded on the original engine's QExpression design (flat
// operand/operator stream, promote-on-mix numeric typing) reworked as a
// direct precedence-climbing Go evaluator instead of a manual operator
// stack.
package expr

import "github.com/qentem-go/qentem/numconv"

// Op identifies a binary operator.
type Op int

const (
	NoOp Op = iota
	Or       // ||
	And      // &&
	Eq       // ==
	Ne       // !=
	Ge       // >=
	Le       // <=
	Gt       // >
	Lt       // <
	BitOr    // |
	BitAnd   // &
	Add      // +
	Sub      // -
	Mul      // *
	Div      // /
	Rem      // %
	Pow      // ^
)

// precedence gives each operator's binding strength; higher binds tighter.
// Mirrors the original engine's dedicated QOperation ordering, generalized
// into a table a precedence-climbing evaluator can walk directly.
var precedence = map[Op]int{
	Or: 1, And: 2,
	Eq: 3, Ne: 3,
	Ge: 4, Le: 4, Gt: 4, Lt: 4,
	BitOr: 5, BitAnd: 6,
	Add: 7, Sub: 7,
	Mul: 8, Div: 8, Rem: 8,
	Pow: 9,
}

// OperandKind distinguishes the three things an operand in the flat stream
// can be: a literal number, a variable reference (resolved at eval time),
// or a parenthesized sub-expression compiled into its own Program.
type OperandKind int

const (
	OperandNumber OperandKind = iota
	OperandVariable
	OperandGroup
)

// Operand is one term of the flat operand/operator alternation.
type Operand struct {
	Kind  OperandKind
	Num   numconv.Number
	Path  string
	Group *Program
}

// step pairs an operand with the operator that follows it; the last step
// of a Program has Op == NoOp.
type step struct {
	Operand Operand
	Op      Op
}

// Program is a compiled expression: a flat operand/operator stream, with
// parenthesized groups nested as their own Programs rather than re-parsed
// at eval time.
type Program struct {
	steps []step
}

// Empty reports whether the program has no operands (e.g. an inline-if
// with an empty condition, treated as always-true per this engine's
// handling of a trailing bare <else>).
func (p *Program) Empty() bool {
	return p == nil || len(p.steps) == 0
}
