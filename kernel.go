package dfir

import "golang.org/x/sys/cpu"

// accumulateSpan walks count complex samples starting at sampleOffset in the
// interleaved data slice against taps[tapOffset:tapOffset+count], adding the
// Q.30 complex products into the caller-supplied accumulator and returning
// the updated totals. It is the inner loop of the convolution kernel and is
// the one primitive that has a build-tag-selected implementation
// (kernel_generic.go / kernel_unrolled.go): both variants perform the
// identical sequence of 32-bit signed multiply-accumulates, so they are
// bit-exact for any input, overflow-with-wraparound included, regardless of
// which is compiled in.
//
// accumulateSpan never allocates and never errors: out-of-range offsets are
// a programmer error caught by the caller (filter.go) before this is
// reached.

// ActiveKernel reports which accumulateSpan implementation was compiled into
// this binary, and whether the CPU it is running on exposes the vector
// extensions that implementation targets. This is diagnostic only: both
// kernels are numerically identical, so nothing about filter behavior
// depends on this value.
func ActiveKernel() string {
	suffix := ""
	switch {
	case cpu.X86.HasAVX2:
		suffix = " (AVX2 available)"
	case cpu.ARM64.HasASIMD:
		suffix = " (ASIMD available)"
	}
	return kernelName + suffix
}
