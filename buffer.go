package dfir

import (
	"sync"
	"sync/atomic"
)

// SampleBuffer is the contract the filter requires of an upstream-owned
// buffer of interleaved complex Q.15 samples: a count of complex samples, a
// contiguous interleaved real/imag data slice of length 2*NrSamples, and a
// hook to release one reference when the filter is done with it.
//
// The filter never introspects any other field of a buffer and never
// retains a Data() slice past the call in which the buffer is released;
// concrete implementations are free to pool and reuse backing storage.
type SampleBuffer interface {
	// NrSamples returns the number of complex samples held.
	NrSamples() int
	// Data returns the interleaved real,imag Q.15 storage, length 2*NrSamples().
	Data() []int16
	// Release decrements the buffer's reference count, returning its
	// backing storage to the allocator once the count reaches zero.
	Release()
}

// bufferPool recycles RefCountedBuffer structs (not their data slices, which
// the caller supplies and owns) so that wrapping a buffer performs no
// further heap allocation once the pool is warmed up.
var bufferPool = sync.Pool{
	New: func() any { return new(RefCountedBuffer) },
}

// RefCountedBuffer is a reference implementation of SampleBuffer, shipped so
// the filter is runnable end-to-end without requiring every caller to bring
// their own ref-counted allocator.
//
// RefCountedBuffer is safe to Retain/Release from multiple goroutines (the
// refcount is atomic), but Data() access itself is not synchronized: callers
// must still ensure only one goroutine reads/writes a given buffer's data
// at a time, same as any shared-ownership value.
type RefCountedBuffer struct {
	nrSamples int
	data      []int16
	refs      int32
}

// NewRefCountedBuffer wraps data (interleaved real/imag Q.15, length
// 2*nrSamples) in a buffer with an initial reference count of 1.
func NewRefCountedBuffer(nrSamples int, data []int16) *RefCountedBuffer {
	if len(data) != 2*nrSamples {
		panic("dfir: RefCountedBuffer: data length must be 2*nrSamples")
	}
	b, _ := bufferPool.Get().(*RefCountedBuffer)
	b.nrSamples = nrSamples
	b.data = data
	b.refs = 1
	return b
}

// NrSamples implements SampleBuffer.
func (b *RefCountedBuffer) NrSamples() int { return b.nrSamples }

// Data implements SampleBuffer.
func (b *RefCountedBuffer) Data() []int16 { return b.data }

// Retain adds one reference, for producers that hand the same buffer to
// more than one consumer.
func (b *RefCountedBuffer) Retain() {
	atomic.AddInt32(&b.refs, 1)
}

// Release implements SampleBuffer. Once the reference count reaches zero the
// buffer struct (not the backing data slice, which the caller owns) is
// returned to the pool.
func (b *RefCountedBuffer) Release() {
	if atomic.AddInt32(&b.refs, -1) == 0 {
		b.data = nil
		b.nrSamples = 0
		bufferPool.Put(b)
	}
}
