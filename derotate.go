package dfir

import (
	"math"

	"github.com/skywave-dsp/dfir/internal/fixed"
)

// derotator holds the carrier-shift phase accumulator. A zero-valued
// derotator (both increments zero) is disabled and apply is a no-op
// passthrough.
type derotator struct {
	rotRe, rotIm         int32 // current phase, Q.15 magnitude in a 32-bit container
	rotIncrRe, rotIncrIm int32 // per-output-sample increment, same format
}

// enabled reports whether derotation should run: a zero increment vector
// disables the feature regardless of phase.
func (d *derotator) enabled() bool {
	return d.rotIncrRe != 0 || d.rotIncrIm != 0
}

// newDerotator computes the per-decimated-output-sample phase increment for
// a frequency shift of freqShift Hz at sampling rate fs, folding in the
// decimation factor so that exactly one complex multiply is spent per
// output sample.
func newDerotator(decimation int, fs float64, freqShift float64) derotator {
	if freqShift == 0 {
		return derotator{}
	}

	fwt0 := 2.0 * math.Pi * freqShift / fs
	angle := -fwt0 * float64(decimation)
	const q15 = float64(int32(1) << 15)

	d := derotator{
		rotRe:     1 << 15,
		rotIm:     0,
		rotIncrRe: int32(math.Cos(angle) * q15),
		rotIncrIm: int32(math.Sin(angle) * q15),
	}
	return d
}

// apply rotates one Q.15 complex sample by the current phase and then
// advances the phase by the increment. The phase's unit-circle norm is
// allowed to drift slowly from Q.15 rounding over the operational horizon;
// this is accepted rather than renormalized.
func (d *derotator) apply(sampleRe, sampleIm int32) (outRe, outIm int32) {
	outRe, outIm = fixed.MulQ15Round(sampleRe, sampleIm, d.rotRe, d.rotIm)
	d.rotRe, d.rotIm = fixed.MulQ15Round(d.rotRe, d.rotIm, d.rotIncrRe, d.rotIncrIm)
	return
}
