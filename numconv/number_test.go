package numconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberIntegers(t *testing.T) {
	n := ParseNumber("123")
	assert.Equal(t, Natural, n.Kind)
	assert.Equal(t, uint64(123), n.Natural)

	n = ParseNumber("-123")
	assert.Equal(t, Integer, n.Kind)
	assert.Equal(t, int64(-123), n.Integer)

	n = ParseNumber("0x1F")
	assert.Equal(t, Natural, n.Kind)
	assert.Equal(t, uint64(31), n.Natural)

	n = ParseNumber("0000")
	assert.Equal(t, NaN, n.Kind)

	n = ParseNumber("0")
	assert.Equal(t, Natural, n.Kind)
	assert.Equal(t, uint64(0), n.Natural)
}

func TestParseNumberReals(t *testing.T) {
	n := ParseNumber("3.14")
	assert.Equal(t, Real, n.Kind)
	assert.InDelta(t, 3.14, n.Real, 1e-12)

	n = ParseNumber("1e400")
	assert.Equal(t, NaN, n.Kind)

	n = ParseNumber("-0.0")
	assert.Equal(t, Real, n.Kind)
	assert.True(t, math.Signbit(n.Real))
	assert.Equal(t, float64(0), n.Real)
}

func TestFormatRealDefault(t *testing.T) {
	assert.Equal(t, "14", FormatReal(14, 15, FormatDefault))
	assert.Equal(t, "3.14", FormatReal(3.14, 15, FormatDefault))
	assert.Equal(t, "0", FormatReal(0, 15, FormatDefault))
	assert.Equal(t, "-0", FormatReal(negZero(), 15, FormatDefault))
}

func TestFormatRealRoundTrip(t *testing.T) {
	vals := []float64{1, 2.5, 0.1, 123456.789, 1e-5, 1e20}
	for _, v := range vals {
		s := FormatReal(v, 15, FormatDefault)
		got := ParseNumber(s)
		if v == 1 {
			// "1" has no dot or exponent, so it lexes back as a natural.
			assert.Equal(t, Natural, got.Kind, "value %v formatted as %q", v, s)
			assert.Equal(t, uint64(1), got.Natural)
			continue
		}
		assert.Equal(t, Real, got.Kind, "value %v formatted as %q", v, s)
		assert.InEpsilon(t, v, got.Real, 1e-9, "round trip of %v via %q", v, s)
	}
}

func TestFormatRealFixed(t *testing.T) {
	assert.Equal(t, "3.140", FormatReal(3.14, 3, FormatFixed))
	assert.Equal(t, "3.14", FormatReal(3.14, 3, FormatSemiFixed))
	assert.Equal(t, "3", FormatReal(3, 3, FormatSemiFixed))
}
