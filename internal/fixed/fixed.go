// Package fixed provides the Q.15/Q.30 fixed-point primitives shared by the
// convolution kernel and the derotator: rounding, and the two flavors of
// complex multiply the filter needs (full-precision Q.30 for tap*sample
// accumulation, and round-to-Q.15 for phase rotation/update).
package fixed

// RoundShift is the number of fractional bits dropped when converting a
// Q.30 accumulator down to a Q.15 value.
const RoundShift = 15

// roundBias is added before the arithmetic right shift to get round-half-up:
// ties round toward positive infinity, so a positive tie rounds away from
// zero and a negative tie such as -(1<<14) rounds toward zero, to 0.
const roundBias = 1 << (RoundShift - 1)

// RoundQ30ToQ15 rounds a Q.30 accumulator to Q.15 using (x + 1<<14) >> 15.
// The result is returned widened to int32; callers that need the Q.15
// container narrow it with int16(), which truncates rather than saturates:
// overflow is a tap-scaling error on the caller's part, not something this
// function guards against.
func RoundQ30ToQ15(x int32) int32 {
	return (x + roundBias) >> RoundShift
}

// MulQ15Full computes the Q.30 complex product of two Q.15 complex values
// without rounding: (cRe + j*cIm) * (sRe + j*sIm). Used for the tap*sample
// term inside the convolution accumulator, where the Q.30 partial products
// are summed before any rounding happens.
func MulQ15Full(cRe, cIm, sRe, sIm int32) (outRe, outIm int32) {
	outRe = cRe*sRe - cIm*sIm
	outIm = cRe*sIm + cIm*sRe
	return
}

// MulQ15Round computes the Q.15 complex product of two Q.15 complex values,
// rounding the Q.30 intermediate back down to Q.15. Used both to rotate an
// output sample by the current derotator phase and to advance the phase by
// its per-sample increment.
func MulQ15Round(aRe, aIm, bRe, bIm int32) (outRe, outIm int32) {
	re, im := MulQ15Full(aRe, aIm, bRe, bIm)
	return RoundQ30ToQ15(re), RoundQ30ToQ15(im)
}
