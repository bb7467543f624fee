package expr

import (
	"fmt"

	"github.com/qentem-go/qentem/numconv"
	"github.com/qentem-go/qentem/value"
)

// Resolver resolves a variable path (as it appears inside a {var:...}
// reference nested in an expression) to its current value. The renderer
// supplies one backed by the active loop-item stack and the root data.
type Resolver func(path string) (value.Value, bool)

// Result is the outcome of evaluating a Program: either a typed number or
// a boolean, matching the two shapes a template expression can produce
// (arithmetic for {math:}, boolean for <if case="...">).
type Result struct {
	IsBool bool
	Bool   bool
	Num    numconv.Number
}

// IsNumber reports whether the result is a numeric value.
func (r Result) IsNumber() bool { return !r.IsBool }

// Truthy converts a Result to a boolean the way <if>/inline-if branch
// selection does: booleans pass through, numbers are truthy when nonzero.
func (r Result) Truthy() bool {
	if r.IsBool {
		return r.Bool
	}
	switch r.Num.Kind {
	case numconv.Natural:
		return r.Num.Natural != 0
	case numconv.Integer:
		return r.Num.Integer != 0
	case numconv.Real:
		return r.Num.Real != 0
	default:
		return false
	}
}

// Float returns the result as a float64, for rendering and for feeding
// back into further arithmetic.
func (r Result) Float() float64 {
	if r.IsBool {
		if r.Bool {
			return 1
		}
		return 0
	}
	switch r.Num.Kind {
	case numconv.Natural:
		return float64(r.Num.Natural)
	case numconv.Integer:
		return float64(r.Num.Integer)
	default:
		return r.Num.Real
	}
}

func numberResult(n numconv.Number) Result { return Result{Num: n} }
func boolResult(b bool) Result             { return Result{IsBool: true, Bool: b} }

// Eval evaluates a compiled Program against resolve, precedence-climbing
// over the flat operand/operator stream (generalized from the original
// engine's manual operator/operand stacks into recursion over Go slices).
func Eval(p *Program, resolve Resolver) (Result, error) {
	if p.Empty() {
		return boolResult(true), nil
	}
	if path, ok := p.soleVariable(); ok {
		v, ok := resolve(path)
		if !ok {
			return Result{}, fmt.Errorf("qentem: unresolved variable %q", path)
		}
		return wholeConditionResult(v)
	}
	e := &evaluator{steps: p.steps, resolve: resolve}
	res, err := e.climb(0)
	return res, err
}

// soleVariable reports whether p is nothing but a single bare variable
// operand with no trailing operator (e.g. a whole {math:} or <if case=...>
// that is just "{var:name}"), per §4.4's dedicated rule for that shape.
func (p *Program) soleVariable() (string, bool) {
	if len(p.steps) != 1 {
		return "", false
	}
	step := p.steps[0]
	if step.Op != NoOp || step.Operand.Kind != OperandVariable {
		return "", false
	}
	return step.Operand.Path, true
}

// wholeConditionResult implements §4.4's rule for a variable used as an
// entire condition/expression with no operator: a string resolves to
// natural 1 iff non-empty, any other resolvable type returns its value
// directly (the same conversion valueResult already applies elsewhere).
func wholeConditionResult(v value.Value) (Result, error) {
	if v.Kind() == value.KindString {
		s, _ := v.String()
		if s != "" {
			return numberResult(numconv.Number{Kind: numconv.Natural, Natural: 1}), nil
		}
		return numberResult(numconv.Number{Kind: numconv.Natural, Natural: 0}), nil
	}
	return valueResult(v)
}

type evaluator struct {
	steps   []step
	pos     int
	resolve Resolver
}

func (e *evaluator) climb(minPrec int) (Result, error) {
	left, err := e.operandResult(e.steps[e.pos].Operand)
	if err != nil {
		return Result{}, err
	}

	for e.pos < len(e.steps) {
		op := e.steps[e.pos].Op
		if op == NoOp {
			break
		}
		prec, ok := precedence[op]
		if !ok || prec < minPrec {
			break
		}
		e.pos++

		right, err := e.climb(prec + 1)
		if err != nil {
			return Result{}, err
		}
		left, err = apply(op, left, right)
		if err != nil {
			return Result{}, err
		}
	}
	return left, nil
}

func (e *evaluator) operandResult(o Operand) (Result, error) {
	switch o.Kind {
	case OperandNumber:
		return numberResult(o.Num), nil
	case OperandGroup:
		return Eval(o.Group, e.resolve)
	case OperandVariable:
		v, ok := e.resolve(o.Path)
		if !ok {
			return Result{}, fmt.Errorf("qentem: unresolved variable %q", o.Path)
		}
		return valueResult(v)
	default:
		return Result{}, fmt.Errorf("qentem: unknown operand kind")
	}
}

func valueResult(v value.Value) (Result, error) {
	switch v.Kind() {
	case value.KindTrue:
		return boolResult(true), nil
	case value.KindFalse:
		return boolResult(false), nil
	case value.KindUInt64, value.KindInt64, value.KindDouble:
		n, _ := v.NumericNumber()
		return numberResult(n), nil
	case value.KindString:
		s, _ := v.String()
		num := numconv.ParseNumber(s)
		if num.Kind == numconv.NaN {
			return Result{}, fmt.Errorf("qentem: %q is not a number", s)
		}
		return numberResult(num), nil
	default:
		return Result{}, fmt.Errorf("qentem: value is not usable in an expression")
	}
}

// apply evaluates a single binary step. Arithmetic promotes Natural ->
// Integer -> Real on mixed operands, matching the original engine's
// operator+=/-=/ etc. promotion rules; comparisons and logical operators
// always yield a boolean.
func apply(op Op, l, r Result) (Result, error) {
	switch op {
	case Or:
		return boolResult(l.Truthy() || r.Truthy()), nil
	case And:
		return boolResult(l.Truthy() && r.Truthy()), nil
	case Eq:
		return boolResult(l.Float() == r.Float()), nil
	case Ne:
		return boolResult(l.Float() != r.Float()), nil
	case Ge:
		return boolResult(l.Float() >= r.Float()), nil
	case Le:
		return boolResult(l.Float() <= r.Float()), nil
	case Gt:
		return boolResult(l.Float() > r.Float()), nil
	case Lt:
		return boolResult(l.Float() < r.Float()), nil
	case BitOr:
		return numberResult(numconv.Number{Kind: numconv.Integer, Integer: toInt(l) | toInt(r)}), nil
	case BitAnd:
		return numberResult(numconv.Number{Kind: numconv.Integer, Integer: toInt(l) & toInt(r)}), nil
	case Add:
		return numberResult(promote(l, r, func(a, b float64) float64 { return a + b },
			func(a, b int64) int64 { return a + b }, func(a, b uint64) uint64 { return a + b })), nil
	case Sub:
		return numberResult(subNumbers(l, r)), nil
	case Mul:
		return numberResult(promote(l, r, func(a, b float64) float64 { return a * b },
			func(a, b int64) int64 { return a * b }, func(a, b uint64) uint64 { return a * b })), nil
	case Div:
		if r.Float() == 0 {
			return Result{}, fmt.Errorf("qentem: division by zero")
		}
		return numberResult(numconv.Number{Kind: numconv.Real, Real: l.Float() / r.Float()}), nil
	case Rem:
		if int64(r.Float()) == 0 {
			return Result{}, fmt.Errorf("qentem: remainder by zero")
		}
		return numberResult(numconv.Number{Kind: numconv.Integer, Integer: int64(l.Float()) % int64(r.Float())}), nil
	case Pow:
		return power(l, r)
	default:
		return Result{}, fmt.Errorf("qentem: unknown operator")
	}
}

func toInt(r Result) int64 {
	return int64(r.Float())
}

// promote applies fn across l and r, picking the narrowest representation
// (Natural if both are non-negative naturals, Integer if both are whole
// and either is signed, Real otherwise) the way the original engine's
// in-place operators do.
func promote(l, r Result, realFn func(a, b float64) float64, intFn func(a, b int64) int64, natFn func(a, b uint64) uint64) numconv.Number {
	if l.IsNumber() && r.IsNumber() && l.Num.Kind == numconv.Natural && r.Num.Kind == numconv.Natural {
		return numconv.Number{Kind: numconv.Natural, Natural: natFn(l.Num.Natural, r.Num.Natural)}
	}
	if isWhole(l) && isWhole(r) {
		return numconv.Number{Kind: numconv.Integer, Integer: intFn(toInt(l), toInt(r))}
	}
	return numconv.Number{Kind: numconv.Real, Real: realFn(l.Float(), r.Float())}
}

func subNumbers(l, r Result) numconv.Number {
	if l.IsNumber() && r.IsNumber() && l.Num.Kind == numconv.Natural && r.Num.Kind == numconv.Natural {
		if l.Num.Natural >= r.Num.Natural {
			return numconv.Number{Kind: numconv.Natural, Natural: l.Num.Natural - r.Num.Natural}
		}
		return numconv.Number{Kind: numconv.Integer, Integer: int64(l.Num.Natural) - int64(r.Num.Natural)}
	}
	if isWhole(l) && isWhole(r) {
		return numconv.Number{Kind: numconv.Integer, Integer: toInt(l) - toInt(r)}
	}
	return numconv.Number{Kind: numconv.Real, Real: l.Float() - r.Float()}
}

func isWhole(r Result) bool {
	if r.IsBool {
		return true
	}
	return r.Num.Kind == numconv.Natural || r.Num.Kind == numconv.Integer
}

// power implements the original engine's integer-exponent fast path, with
// a negative exponent producing a reciprocal real and a fractional base
// or exponent reported as an error (no fractional powers, per §4.4).
func power(base, exp Result) (Result, error) {
	if !isWhole(exp) {
		return Result{}, fmt.Errorf("qentem: fractional exponent is not supported")
	}
	e := toInt(exp)
	negExp := e < 0
	if negExp {
		e = -e
	}

	if base.IsNumber() && base.Num.Kind == numconv.Real {
		frac := base.Num.Real - float64(int64(base.Num.Real))
		if frac != 0 {
			return Result{}, fmt.Errorf("qentem: fractional base with exponent is not supported")
		}
	}

	neg := toInt(base) < 0
	var acc uint64 = 1
	b := uint64(abs64(toInt(base)))
	for i := int64(0); i < e; i++ {
		acc *= b
	}

	if negExp {
		val := 1.0 / float64(acc)
		if neg && e%2 == 1 {
			val = -val
		}
		return numberResult(numconv.Number{Kind: numconv.Real, Real: val}), nil
	}
	if neg && e%2 == 1 {
		return numberResult(numconv.Number{Kind: numconv.Integer, Integer: -int64(acc)}), nil
	}
	return numberResult(numconv.Number{Kind: numconv.Natural, Natural: acc}), nil
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
