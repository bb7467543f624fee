package numconv

import (
	"math"
	"strconv"
)

// maxPowerOfFive is the largest power of five (5^27 = 7450580596923828125)
// that still fits in a uint64 limb, used to chunk big-integer scaling the
// way Digit.hpp's MaxPowerOfFive constant does.
const maxPowerOfFive = 27

var powerOfFiveTable = [maxPowerOfFive + 1]uint64{}

func init() {
	v := uint64(1)
	for i := 0; i <= maxPowerOfFive; i++ {
		powerOfFiveTable[i] = v
		v *= 5
	}
}

func powerOfFive(n int) uint64 {
	return powerOfFiveTable[n]
}

func negZero() float64 { return math.Copysign(0, -1) }
func isNaNf(f float64) bool { return math.IsNaN(f) }

// decimalToDouble converts mantissa * 10^exp10 to the nearest IEEE-754
// binary64, via the fixed-width BigInt: scale the mantissa by the needed
// power of five (the power-of-two factor is absorbed directly into the
// binary exponent), normalise to 53 significant bits with round-to-nearest-
// even on the discarded guard/sticky bits, and assemble the result bit
// pattern. Subnormal results are truncated, not rounded. Returns NaN when
// the net power of ten is out of the double range, per spec.
func decimalToDouble(mantissa uint64, exp10 int) float64 {
	if mantissa == 0 {
		return 0
	}
	if exp10 > 309 {
		return math.NaN()
	}
	if exp10 < -324 {
		return math.NaN()
	}

	big := NewBigInt(mantissa)
	binExp := 0
	sticky := false

	switch {
	case exp10 > 0:
		e := exp10
		for e > 0 {
			chunk := e
			if chunk > maxPowerOfFive {
				chunk = maxPowerOfFive
			}
			big.MulLimb(powerOfFive(chunk))
			e -= chunk
		}
		binExp += exp10

	case exp10 < 0:
		e := -exp10
		// Guard precision through repeated division: 5^e takes just under
		// 3*e bits, so the quotient keeps at least 64 significant bits.
		extraBits := 64 + 3*e
		big.ShiftLeft(uint(extraBits))
		binExp -= extraBits
		for e > 0 {
			chunk := e
			if chunk > maxPowerOfFive {
				chunk = maxPowerOfFive
			}
			if rem := big.DivLimb(powerOfFive(chunk)); rem != 0 {
				sticky = true
			}
			e -= chunk
		}
		binExp += exp10
	}

	const mantBits = 53
	top := big.FindLastBit()
	if top < 0 {
		return 0
	}
	shift := top - (mantBits - 1)

	var mant64 uint64
	if shift > 0 {
		guard := big.TestBit(shift - 1)
		stickyBits := sticky || big.AnyBitBelow(shift-1)
		big.ShiftRight(uint(shift))
		mant64 = big.Low64()
		if guard && (stickyBits || mant64&1 == 1) {
			mant64++
			if mant64 == (uint64(1) << mantBits) {
				mant64 >>= 1
				shift++
			}
		}
		binExp += shift
	} else if shift < 0 {
		big.ShiftLeft(uint(-shift))
		mant64 = big.Low64()
		binExp += shift
	} else {
		mant64 = big.Low64()
	}

	unbiasedExp := binExp + (mantBits - 1)
	biasedExp := unbiasedExp + 1023

	if biasedExp >= 2047 {
		return math.NaN()
	}
	if biasedExp <= 0 {
		denormShift := 1 - biasedExp
		if denormShift >= 64 {
			return 0
		}
		mant64 >>= uint(denormShift)
		biasedExp = 0
	}

	const fracMask = uint64(1)<<(mantBits-1) - 1
	bits64 := (uint64(biasedExp) << (mantBits - 1)) | (mant64 & fracMask)
	return math.Float64frombits(bits64)
}

// Format selects the real-number formatting style described in spec §4.5.
type Format uint8

const (
	// FormatDefault emits up to precision significant digits, strips
	// trailing zeros, and falls back to scientific notation outside
	// [1e-3, 10^precision).
	FormatDefault Format = iota
	// FormatFixed always emits precision digits after the decimal point,
	// zero-padded.
	FormatFixed
	// FormatSemiFixed is like FormatFixed but never pads with trailing
	// zeros.
	FormatSemiFixed
)

// FormatReal renders f as decimal text per the requested Format and
// precision (significant digits for Default, fractional digits for
// Fixed/SemiFixed). Digit extraction for round-to-nearest digits is
// delegated to strconv's correctly-rounded shortest/precision algorithm;
// the Default/Fixed/SemiFixed presentation rules themselves (trailing-zero
// policy, scientific-notation threshold, padding) are this package's own,
// per spec.
func FormatReal(f float64, precision int, format Format) string {
	if math.IsNaN(f) {
		return "nan"
	}
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if precision <= 0 {
		precision = 1
	}

	neg := math.Signbit(f)
	af := math.Abs(f)

	switch format {
	case FormatFixed, FormatSemiFixed:
		s := strconv.FormatFloat(af, 'f', precision, 64)
		if format == FormatSemiFixed {
			s = trimTrailingZerosAfterDot(s)
		}
		if neg {
			s = "-" + s
		}
		return s
	default:
		return formatDefault(neg, af, precision)
	}
}

func trimTrailingZerosAfterDot(s string) string {
	if dot := indexByte(s, '.'); dot >= 0 {
		end := len(s)
		for end > dot+1 && s[end-1] == '0' {
			end--
		}
		if end == dot+1 {
			end = dot // drop a bare trailing dot
		}
		return s[:end]
	}
	return s
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// formatDefault emits significant-digit rounding, strips trailing zeros,
// and chooses scientific notation when the decimal exponent is <= -4 or
// >= precision, per spec.
func formatDefault(neg bool, af float64, precision int) string {
	if af == 0 {
		if neg {
			return "-0"
		}
		return "0"
	}

	mant := strconv.FormatFloat(af, 'e', precision-1, 64)
	digits, exp := splitSci(mant)
	digits = trimTrailingZeroDigits(digits)
	if digits == "" {
		digits = "0"
	}

	var out string
	if exp <= -4 || exp >= precision {
		out = sciString(digits, exp)
	} else if exp >= 0 {
		if exp+1 >= len(digits) {
			out = digits + zeros(exp+1-len(digits))
		} else {
			out = digits[:exp+1] + "." + digits[exp+1:]
		}
	} else {
		out = "0." + zeros(-exp-1) + digits
	}
	if neg {
		out = "-" + out
	}
	return out
}

// splitSci parses strconv's "d.ddde±dd" form into a pure digit string and
// its base-10 exponent (exponent of the leading digit).
func splitSci(s string) (digits string, exp int) {
	eIdx := indexByte(s, 'e')
	mantissa := s[:eIdx]
	expPart := s[eIdx+1:]

	e, _ := strconv.Atoi(expPart)

	dot := indexByte(mantissa, '.')
	if dot < 0 {
		return mantissa, e
	}
	return mantissa[:dot] + mantissa[dot+1:], e
}

func trimTrailingZeroDigits(digits string) string {
	end := len(digits)
	for end > 1 && digits[end-1] == '0' {
		end--
	}
	return digits[:end]
}

func zeros(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func sciString(digits string, exp int) string {
	lead := digits[:1]
	rest := digits[1:]
	var out string
	if rest == "" {
		out = lead
	} else {
		out = lead + "." + rest
	}
	if exp >= 0 {
		out += "e+" + strconv.Itoa(exp)
	} else {
		out += "e-" + strconv.Itoa(-exp)
	}
	return out
}
