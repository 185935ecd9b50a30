// Package conv provides overflow-checked integer helpers for the regex engine.
//
// Address and cursor arithmetic in the code generator and the evaluators goes
// through these helpers so that overflow is reported to the caller instead of
// silently wrapping around. The Add/Inc helpers report overflow through a
// boolean; the narrowing conversions panic, since they are only used on
// values whose range is already established by the caller.
package conv

import "math"

// AddUint32 returns a+b and true, or 0 and false if the sum does not fit
// in a uint32.
//
// Example:
//
//	next, ok := conv.AddUint32(pc, 1)
//	if !ok {
//	    return &EvalError{Kind: ErrProgramCounterOverflow}
//	}
//
//go:inline
func AddUint32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// IncUint32 increments *n by one in place.
// It reports false and leaves *n unchanged if the increment would overflow.
func IncUint32(n *uint32) bool {
	next, ok := AddUint32(*n, 1)
	if !ok {
		return false
	}
	*n = next
	return true
}

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToUint32Checked converts an int to uint32, reporting false if n is
// negative or does not fit.
func IntToUint32Checked(n int) (uint32, bool) {
	if n < 0 || uint(n) > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}
