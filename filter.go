package dfir

import (
	"fmt"

	"github.com/skywave-dsp/dfir/internal/fixed"
)

// Filter is a direct-form complex FIR filter with integer decimation and
// optional carrier derotation. See the package doc for the processing
// model and fixed-point conventions.
//
// A Filter is single-threaded and not safe for concurrent use.
type Filter struct {
	tapsRe, tapsIm []int16
	n              int
	decimation     int

	active SampleBuffer
	next   SampleBuffer

	sampleOffset    int
	nrSamplesQueued int

	derot derotator
}

// Option configures optional Filter behavior at construction time.
type Option func(*Filter)

// WithDerotation enables carrier derotation: the output stream is
// multiplied by a complex exponential that shifts freqShiftHz of the input
// spectrum (sampled at sampleRateHz) down to baseband. The phase increment
// is pre-computed at the decimated output rate, so exactly one complex
// multiply is spent per output sample regardless of decimation.
func WithDerotation(sampleRateHz, freqShiftHz float64) Option {
	return func(f *Filter) {
		f.derot = newDerotator(f.decimation, sampleRateHz, freqShiftHz)
	}
}

// New constructs a Filter from a complex tap vector (tapsRe/tapsIm, Q.15,
// equal non-zero length) and a decimation factor, applying any Options.
// The tap slices are copied; the caller retains ownership of the slices
// passed in.
func New(tapsRe, tapsIm []int16, decimation int, opts ...Option) (*Filter, error) {
	if len(tapsRe) == 0 {
		return nil, fmt.Errorf("%w: tap vector must be non-empty", ErrInvalidArgument)
	}
	if len(tapsRe) != len(tapsIm) {
		return nil, fmt.Errorf("%w: tapsRe and tapsIm must have equal length", ErrInvalidArgument)
	}
	if decimation <= 0 {
		return nil, fmt.Errorf("%w: decimation factor must be positive", ErrInvalidArgument)
	}

	f := &Filter{
		tapsRe:     append([]int16(nil), tapsRe...),
		tapsIm:     append([]int16(nil), tapsIm...),
		n:          len(tapsRe),
		decimation: decimation,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Push hands ownership of buf to the filter. It is adopted as the active
// buffer if none is queued, as the next buffer if one is, and rejected with
// ErrBusy if both slots are already occupied; on ErrBusy the caller keeps
// its reference. Pushing a buffer already held in either slot is a
// programmer error reported as ErrInvalidArgument.
func (f *Filter) Push(buf SampleBuffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidArgument)
	}
	if buf == f.active || buf == f.next {
		return fmt.Errorf("%w: buffer already queued", ErrInvalidArgument)
	}

	switch {
	case f.active == nil:
		f.active = buf
	case f.next == nil:
		f.next = buf
	default:
		return ErrBusy
	}

	f.nrSamplesQueued += buf.NrSamples()
	return nil
}

// Process writes up to n interleaved complex Q.15 samples into out (which
// must have length >= 2*n) and returns the number of samples actually
// produced. If no buffers are queued it returns (0, nil) immediately.
// Running out of input mid-request is not an error: Process stops and
// reports a short count.
func (f *Filter) Process(out []int16, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: n must be positive", ErrInvalidArgument)
	}
	if len(out) < 2*n {
		return 0, fmt.Errorf("%w: out must have length >= 2*n", ErrInvalidArgument)
	}

	if f.active == nil && f.next == nil {
		return 0, nil
	}

	for i := 0; i < n; i++ {
		re, im, err := f.step()
		if err != nil {
			return i, nil
		}
		out[2*i] = re
		out[2*i+1] = im
	}
	return n, nil
}

// CanProcess reports whether at least one output sample can be produced
// from the currently queued input, and a lower-bound advisory estimate of
// how many outputs the queue could yield ignoring decimation.
func (f *Filter) CanProcess() (can bool, estimate int) {
	can = f.nrSamplesQueued >= f.n
	estimate = f.nrSamplesQueued / f.n
	return can, estimate
}

// Full reports whether both buffer slots are occupied, for back-pressure
// signaling to the upstream producer.
func (f *Filter) Full() bool {
	return f.next != nil
}

// Close releases any buffers still held by the filter. It must be called
// exactly once; the filter must not be used afterward.
func (f *Filter) Close() error {
	if f.active != nil {
		f.active.Release()
		f.active = nil
	}
	if f.next != nil {
		f.next.Release()
		f.next = nil
	}
	f.sampleOffset = 0
	f.nrSamplesQueued = 0
	return nil
}

// step produces exactly one output sample from the current cursor
// position, walking across the active buffer and, if the tap window
// overflows it, the next buffer. It returns errExhausted, never a public
// error, when fewer than N samples remain queued.
func (f *Filter) step() (int16, int16, error) {
	if f.active == nil || f.nrSamplesQueued < f.n {
		return 0, 0, errExhausted
	}

	activeLen := f.active.NrSamples()
	if f.sampleOffset+f.n > activeLen && f.next == nil {
		return 0, 0, errExhausted
	}

	var accRe, accIm int32
	remaining := f.n
	cur := f.active
	off := f.sampleOffset
	tapBase := 0

	for remaining > 0 {
		avail := cur.NrSamples() - off
		take := remaining
		if avail < take {
			take = avail
		}

		accRe, accIm = accumulateSpan(accRe, accIm, f.tapsRe, f.tapsIm, cur.Data(), off, tapBase, take)

		tapBase += take
		remaining -= take
		if remaining == 0 {
			break
		}
		// f.next is guaranteed present here: the span check above already
		// rejected the only case where it would not be.
		cur = f.next
		off = 0
	}

	// Retire the active buffer as soon as its last overlapping sample has
	// been consumed, using >= rather than a strict > (a strict > would
	// hold a fully-drained buffer open for one extra step).
	newOff := f.sampleOffset + f.decimation
	for f.active != nil && newOff >= f.active.NrSamples() {
		newOff -= f.active.NrSamples()
		f.active.Release()
		f.active = f.next
		f.next = nil
	}
	f.sampleOffset = newOff
	f.nrSamplesQueued -= f.decimation

	outRe, outIm := fixed.RoundQ30ToQ15(accRe), fixed.RoundQ30ToQ15(accIm)
	if f.derot.enabled() {
		outRe, outIm = f.derot.apply(outRe, outIm)
	}
	return int16(outRe), int16(outIm), nil
}
