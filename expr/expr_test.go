package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qentem-go/qentem/value"
)

func noVars(string) (value.Value, bool) { return value.Undefined(), false }

func evalExpr(t *testing.T, src string, resolve Resolver) Result {
	t.Helper()
	p, err := Compile(src)
	require.NoError(t, err)
	r, err := Eval(p, resolve)
	require.NoError(t, err)
	return r
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	r := evalExpr(t, "2 + 3 * 4", noVars)
	assert.Equal(t, float64(14), r.Float())
}

func TestEvalParens(t *testing.T) {
	r := evalExpr(t, "(2 + 3) * 4", noVars)
	assert.Equal(t, float64(20), r.Float())
}

func TestEvalCompoundBoolean(t *testing.T) {
	r := evalExpr(t, "1 == 1 && 2 < 3", noVars)
	assert.True(t, r.IsBool)
	assert.True(t, r.Bool)
}

func TestEvalVariableReference(t *testing.T) {
	resolve := func(path string) (value.Value, bool) {
		if path == "n" {
			return value.Int64(5), true
		}
		return value.Undefined(), false
	}
	r := evalExpr(t, "{var:n} > 1", resolve)
	assert.True(t, r.Bool)
}

func TestEvalDivisionByZero(t *testing.T) {
	p, err := Compile("1 / 0")
	require.NoError(t, err)
	_, err = Eval(p, noVars)
	assert.Error(t, err)
}

func TestEvalFractionalExponent(t *testing.T) {
	p, err := Compile("2 ^ 0.5")
	require.NoError(t, err)
	_, err = Eval(p, noVars)
	assert.Error(t, err)
}

func TestEvalNegativeExponent(t *testing.T) {
	r := evalExpr(t, "2 ^ -1", noVars)
	assert.InDelta(t, 0.5, r.Float(), 1e-9)
}

func TestEvalEmptyExpressionIsAlwaysTrue(t *testing.T) {
	p, err := Compile("")
	require.NoError(t, err)
	r, err := Eval(p, noVars)
	require.NoError(t, err)
	assert.True(t, r.Truthy())
}

func TestCompileUnterminatedVariableFails(t *testing.T) {
	_, err := Compile("{var:x")
	assert.Error(t, err)
}

func TestCompileUnbalancedParenFails(t *testing.T) {
	_, err := Compile("(1 + 2")
	assert.Error(t, err)
}

func TestEvalSoleVariableNonEmptyStringIsTruthy(t *testing.T) {
	resolve := func(path string) (value.Value, bool) {
		if path == "name" {
			return value.String("hello"), true
		}
		return value.Undefined(), false
	}
	r := evalExpr(t, "{var:name}", resolve)
	assert.False(t, r.IsBool)
	assert.True(t, r.Truthy())
}

func TestEvalSoleVariableEmptyStringIsFalsy(t *testing.T) {
	resolve := func(path string) (value.Value, bool) {
		if path == "name" {
			return value.String(""), true
		}
		return value.Undefined(), false
	}
	r := evalExpr(t, "{var:name}", resolve)
	assert.False(t, r.Truthy())
}

func TestEvalSoleVariableNumberPassesThroughUnchanged(t *testing.T) {
	resolve := func(path string) (value.Value, bool) {
		if path == "n" {
			return value.Int64(0), true
		}
		return value.Undefined(), false
	}
	r := evalExpr(t, "{var:n}", resolve)
	assert.False(t, r.Truthy())
}

func TestEvalSoleVariableInParensAppliesSameRule(t *testing.T) {
	resolve := func(path string) (value.Value, bool) {
		if path == "name" {
			return value.String("hello"), true
		}
		return value.Undefined(), false
	}
	r := evalExpr(t, "({var:name})", resolve)
	assert.True(t, r.Truthy())
}

func TestEvalComparisonResultConvertsToNaturalZeroOrOne(t *testing.T) {
	r := evalExpr(t, "3 > 1", noVars)
	assert.True(t, r.IsBool)
	assert.Equal(t, float64(1), r.Float())

	r2 := evalExpr(t, "3 < 1", noVars)
	assert.True(t, r2.IsBool)
	assert.Equal(t, float64(0), r2.Float())
}
