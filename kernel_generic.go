//go:build !amd64 && !arm64

package dfir

import "github.com/skywave-dsp/dfir/internal/fixed"

// kernelName identifies this build's accumulateSpan implementation; see
// ActiveKernel in kernel.go.
const kernelName = "generic"

// accumulateSpan is the straightforward scalar loop, used on architectures
// where the manually-unrolled form in kernel_unrolled.go is not known to
// pay for itself.
func accumulateSpan(accRe, accIm int32, tapsRe, tapsIm []int16, data []int16, sampleOffset, tapOffset, count int) (int32, int32) {
	for k := 0; k < count; k++ {
		si := sampleOffset + k
		sRe := int32(data[2*si])
		sIm := int32(data[2*si+1])
		cRe := int32(tapsRe[tapOffset+k])
		cIm := int32(tapsIm[tapOffset+k])

		pRe, pIm := fixed.MulQ15Full(cRe, cIm, sRe, sIm)
		accRe += pRe
		accIm += pIm
	}
	return accRe, accIm
}
