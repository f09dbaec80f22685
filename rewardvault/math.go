package reward_vault

import "math/bits"

// mulDiv64 computes a*b/den with a 128-bit intermediate, failing when the
// quotient does not fit in 64 bits.
func mulDiv64(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrMathOverflow
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		return 0, ErrMathOverflow
	}
	q, _ := bits.Div64(hi, lo, den)
	return q, nil
}

// bpsOf computes amount*bps/10_000, rounding down.
func bpsOf(amount uint64, bps uint16) (uint64, error) {
	return mulDiv64(amount, uint64(bps), 10_000)
}

func pow10u64(n int) (uint64, bool) {
	if n < 0 || n > 19 {
		return 0, false
	}
	out := uint64(1)
	for i := 0; i < n; i++ {
		out *= 10
	}
	return out, true
}
