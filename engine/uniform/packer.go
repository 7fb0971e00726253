package uniform

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/pendulum/engine/parameter"
)

// FloatSize is the byte size of one packed value.
const FloatSize = 4

// bufferAlignment is the size multiple used for uniform buffer allocations.
const bufferAlignment = 16

// Pack returns the current value of every parameter in registry order, hidden ones included.
// Values are passed through without clamping.
//
// Parameters:
//   - r: the registry to read
//
// Returns:
//   - []float32: one value per parameter
func Pack(r parameter.Registry) []float32 {
	return PackInto(nil, r)
}

// PackInto is Pack reusing dst's backing array when it is large enough.
//
// Parameters:
//   - dst: a buffer to reuse, may be nil
//   - r: the registry to read
//
// Returns:
//   - []float32: dst resliced (or reallocated) to r.Len() values
func PackInto(dst []float32, r parameter.Registry) []float32 {
	n := r.Len()
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i := range n {
		dst[i] = r.At(i).Value()
	}
	return dst
}

// Marshal encodes values as consecutive little-endian IEEE-754 float32s.
//
// Parameters:
//   - values: the packed values
//
// Returns:
//   - []byte: exactly len(values)*FloatSize bytes
func Marshal(values []float32) []byte {
	return MarshalInto(nil, values)
}

// MarshalInto is Marshal reusing dst's backing array when it is large enough.
//
// Parameters:
//   - dst: a buffer to reuse, may be nil
//   - values: the packed values
//
// Returns:
//   - []byte: dst resliced (or reallocated) to len(values)*FloatSize bytes
func MarshalInto(dst []byte, values []float32) []byte {
	n := len(values) * FloatSize
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[i*FloatSize:], math.Float32bits(v))
	}
	return dst
}

// BufferSize returns the GPU allocation size for count packed values, rounded up to 16 bytes.
//
// Parameters:
//   - count: the number of values
//
// Returns:
//   - uint64: the allocation size in bytes
func BufferSize(count int) uint64 {
	size := uint64(count) * FloatSize
	if size == 0 {
		return bufferAlignment
	}
	return (size + bufferAlignment - 1) &^ (bufferAlignment - 1)
}
