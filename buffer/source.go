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

// A Source is a bounded read cursor over a fixed byte slice. The cursor is
// monotonic: it only moves forward, and never past the end of the data. Every
// read validates its bounds first and returns ErrOutOfBounds, without
// advancing, when the data is exhausted.
//
// A Source does not copy or own its data; the caller must not mutate the
// slice while reads are in flight. A Source is not safe for concurrent use.
type Source struct {
	buf []byte
	pos int
}

// NewSource returns a Source reading from data.
func NewSource(data []byte) *Source {
	return &Source{buf: data}
}

// Reset rebinds the Source to a new input slice and rewinds the cursor.
func (r *Source) Reset(data []byte) {
	r.buf = data
	r.pos = 0
}

// Len returns the total length of the bound data.
func (r *Source) Len() int {
	return len(r.buf)
}

// Offset returns the current cursor position.
func (r *Source) Offset() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Source) Remaining() int {
	return len(r.buf) - r.pos
}

func (r *Source) require(n int) error {
	if n < 0 || n > len(r.buf)-r.pos {
		return ErrOutOfBounds
	}
	return nil
}

// Byte reads one byte.
func (r *Source) Byte() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// Bytes reads a raw run of n bytes. The returned slice aliases the bound
// data; the caller must copy it if it needs to outlive the data.
func (r *Source) Bytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	p := r.buf[r.pos : r.pos+n]
	r.pos += n
	return p, nil
}

// Skip advances the cursor n bytes without reading.
func (r *Source) Skip(n int) error {
	if err := r.require(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Uint8 reads one byte as an unsigned integer.
func (r *Source) Uint8() (uint8, error) {
	return r.Byte()
}

// Uint16 reads two little-endian bytes as an unsigned integer.
func (r *Source) Uint16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	p := r.buf[r.pos:]
	r.pos += 2
	return uint16(p[0]) | uint16(p[1])<<8, nil
}

// Uint32 reads four little-endian bytes as an unsigned integer.
func (r *Source) Uint32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	p := r.buf[r.pos:]
	r.pos += 4
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24, nil
}

// Uint64 reads eight little-endian bytes as an unsigned integer.
func (r *Source) Uint64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	p := r.buf[r.pos:]
	r.pos += 8
	return uint64(p[0]) | uint64(p[1])<<8 | uint64(p[2])<<16 | uint64(p[3])<<24 |
		uint64(p[4])<<32 | uint64(p[5])<<40 | uint64(p[6])<<48 | uint64(p[7])<<56, nil
}

// Int8 reads one byte as a two's-complement signed integer.
func (r *Source) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

// Int16 reads two little-endian bytes as a two's-complement signed integer.
func (r *Source) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Int32 reads four little-endian bytes as a two's-complement signed integer.
func (r *Source) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Float64 reads an 8-byte little-endian IEEE754 binary64.
func (r *Source) Float64() (float64, error) {
	v, err := r.Uint64()
	return math.Float64frombits(v), err
}
