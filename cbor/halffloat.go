package cbor

import "math"

// decodeHalf converts an IEEE-754 half-precision bit pattern to float64,
// per spec: sign from bit 15, exponent from bits 14..10, mantissa from bits
// 9..0. Subnormals (exponent 0) scale the mantissa by 2^-24; an all-ones
// exponent yields NaN (nonzero mantissa) or signed infinity; otherwise the
// normal form is sign * 2^(exp-25) * (1024 + mantissa).
func decodeHalf(bits uint16) float64 {
	sign := 1.0
	if bits&0x8000 != 0 {
		sign = -1.0
	}
	exp := (bits >> 10) & 0x1f
	mant := bits & 0x3ff

	switch {
	case exp == 0:
		if mant == 0 {
			return sign * 0
		}
		return sign * math.Ldexp(float64(mant), -24)
	case exp == 0x1f:
		if mant != 0 {
			return math.NaN()
		}
		return sign * math.Inf(1)
	default:
		return sign * math.Ldexp(float64(1024+int(mant)), int(exp)-25)
	}
}
