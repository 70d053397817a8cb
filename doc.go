// Package dfir implements a direct-form complex FIR filter with integer
// decimation and optional carrier derotation.
//
// It is a building block for software-defined radio front-ends: it consumes
// ref-counted, externally owned sample buffers from an upstream producer and
// emits decimated, optionally frequency-shifted complex samples to a
// downstream consumer. The filter never copies an input buffer on intake and
// never blocks; it is pulled by the consumer through Process.
//
// # Fixed-point conventions
//
// Samples and taps are Q.15 signed 16-bit values (range [-1, 1-2^-15]).
// Accumulators and the derotator phase are Q.30 / Q.15 signed 32-bit values.
// Every Q.30 -> Q.15 conversion rounds half up (ties toward positive
// infinity) via (x + 1<<14) >> 15.
//
// # Processing model
//
// A Filter holds at most two queued sample buffers ("active" and "next").
// Push adopts ownership of a buffer; Process walks the convolution kernel
// across the two-buffer window, releasing "active" the moment its last
// overlapping sample has been consumed. Process is a short-write API: it
// never errors on exhausted input, it simply returns fewer samples than
// requested.
//
// A Filter is single-threaded and not safe for concurrent use; callers that
// share one across goroutines must serialize their own calls.
package dfir
