// Copyright 2024 The LUCI Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package buffer

import "math"

// A Sink is a growable write buffer with its logical length tracked
// independently of its physical capacity. Writes never fail; when a write
// would exceed capacity, capacity at least doubles, so the amortized cost per
// appended byte is O(1).
//
// The zero value is an empty Sink ready for use. A Sink is not safe for
// concurrent use; independent Sinks may be used concurrently.
type Sink struct {
	buf []byte
}

// NewSink returns a Sink preallocated to the given capacity, or to
// DefaultCapacity if capacity is not positive.
func NewSink(capacity int) *Sink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Sink{buf: make([]byte, 0, capacity)}
}

// Grow ensures there is room for at least n more bytes without another
// allocation. If growth is required, the new capacity is at least double the
// old one.
func (s *Sink) Grow(n int) {
	need := len(s.buf) + n
	if need <= cap(s.buf) {
		return
	}
	newCap := 2 * cap(s.buf)
	if newCap < need {
		newCap = need
	}
	grown := make([]byte, len(s.buf), newCap)
	copy(grown, s.buf)
	s.buf = grown
}

// Byte appends a single byte.
func (s *Sink) Byte(b byte) {
	s.Grow(1)
	s.buf = append(s.buf, b)
}

// Bytes appends a raw byte run with no length prefix or terminator.
func (s *Sink) Bytes(p []byte) {
	s.Grow(len(p))
	s.buf = append(s.buf, p...)
}

// String appends the raw bytes of str with no length prefix or terminator.
func (s *Sink) String(str string) {
	s.Grow(len(str))
	s.buf = append(s.buf, str...)
}

// Uint8 appends v as one byte.
func (s *Sink) Uint8(v uint8) {
	s.Byte(v)
}

// Uint16 appends v as two little-endian bytes.
func (s *Sink) Uint16(v uint16) {
	s.Grow(2)
	s.buf = append(s.buf, byte(v), byte(v>>8))
}

// Uint32 appends v as four little-endian bytes.
func (s *Sink) Uint32(v uint32) {
	s.Grow(4)
	s.buf = append(s.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// Uint64 appends v as eight little-endian bytes.
func (s *Sink) Uint64(v uint64) {
	s.Grow(8)
	s.buf = append(s.buf,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

// Int8 appends v as one two's-complement byte.
func (s *Sink) Int8(v int8) {
	s.Uint8(uint8(v))
}

// Int16 appends v as two little-endian two's-complement bytes.
func (s *Sink) Int16(v int16) {
	s.Uint16(uint16(v))
}

// Int32 appends v as four little-endian two's-complement bytes.
func (s *Sink) Int32(v int32) {
	s.Uint32(uint32(v))
}

// Float64 appends v as an 8-byte little-endian IEEE754 binary64.
func (s *Sink) Float64(v float64) {
	s.Uint64(math.Float64bits(v))
}

// Len returns the logical length: the number of bytes written so far.
func (s *Sink) Len() int {
	return len(s.buf)
}

// Cap returns the current physical capacity.
func (s *Sink) Cap() int {
	return cap(s.buf)
}

// Finalize returns a copy of exactly the bytes written so far. The snapshot
// is independent of the Sink's spare capacity and unaffected by later writes
// or Reset.
func (s *Sink) Finalize() []byte {
	out := make([]byte, len(s.buf))
	copy(out, s.buf)
	return out
}

// Reset rewinds the logical length to zero without releasing capacity,
// allowing zero-allocation reuse between messages.
func (s *Sink) Reset() {
	s.buf = s.buf[:0]
}
