//go:build amd64 || arm64

package dfir

import "github.com/skywave-dsp/dfir/internal/fixed"

// kernelName identifies this build's accumulateSpan implementation; see
// ActiveKernel in kernel.go.
const kernelName = "unrolled"

// accumulateSpan is a manually 4-wide unrolled form of the scalar loop in
// kernel_generic.go, selected on architectures a real SIMD port would
// target. It performs the exact same 32-bit signed multiply-accumulates as
// the generic loop, only regrouped; since the partial products are summed
// with plain (wraparound) integer addition, which is associative modulo
// 2^32, the two forms are bit-exact for every input. This module does not
// ship hand-written vector assembly: the inner loop is a performance
// target, not a separate algorithm, so this split demonstrates the
// dispatch idiom without taking on the risk of an unverifiable .s file.
func accumulateSpan(accRe, accIm int32, tapsRe, tapsIm []int16, data []int16, sampleOffset, tapOffset, count int) (int32, int32) {
	k := 0
	for ; k+4 <= count; k += 4 {
		var re0, im0 int32
		si := sampleOffset + k
		ti := tapOffset + k

		re0, im0 = fixed.MulQ15Full(int32(tapsRe[ti]), int32(tapsIm[ti]), int32(data[2*si]), int32(data[2*si+1]))
		accRe += re0
		accIm += im0

		re0, im0 = fixed.MulQ15Full(int32(tapsRe[ti+1]), int32(tapsIm[ti+1]), int32(data[2*(si+1)]), int32(data[2*(si+1)+1]))
		accRe += re0
		accIm += im0

		re0, im0 = fixed.MulQ15Full(int32(tapsRe[ti+2]), int32(tapsIm[ti+2]), int32(data[2*(si+2)]), int32(data[2*(si+2)+1]))
		accRe += re0
		accIm += im0

		re0, im0 = fixed.MulQ15Full(int32(tapsRe[ti+3]), int32(tapsIm[ti+3]), int32(data[2*(si+3)]), int32(data[2*(si+3)+1]))
		accRe += re0
		accIm += im0
	}

	for ; k < count; k++ {
		si := sampleOffset + k
		ti := tapOffset + k
		pRe, pIm := fixed.MulQ15Full(int32(tapsRe[ti]), int32(tapsIm[ti]), int32(data[2*si]), int32(data[2*si+1]))
		accRe += pRe
		accIm += pIm
	}

	return accRe, accIm
}
