package dfir

import "github.com/skywave-dsp/dfir/util"

// PeakTracker reports the largest-magnitude sample seen across a run of
// Process output: a cheap, allocation-free signal a caller can sample
// periodically to notice clipping or a derotation that has pushed the
// signal toward full scale, without the core Filter itself doing any
// logging.
type PeakTracker struct {
	peak int16
}

// Observe updates the tracker with one complex output sample.
func (p *PeakTracker) Observe(re, im int16) {
	for _, v := range [2]int16{re, im} {
		m := util.Abs(v)
		if m < 0 { // Abs(-32768) wraps; count it as full scale
			m = 32767
		}
		if m > p.peak {
			p.peak = m
		}
	}
}

// Peak returns the largest-magnitude component observed so far, with
// -32768 counted as 32767.
func (p *PeakTracker) Peak() int16 {
	return p.peak
}

// Reset clears the tracker back to zero.
func (p *PeakTracker) Reset() {
	p.peak = 0
}
