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

// Package varint implements the treewire variable-length integer codec.
//
// Unsigned values are encoded LEB128-style: 7 payload bits per byte in
// little-endian group order, with the high bit of each byte set when another
// group follows. Values 0..127 take one byte; a full 32-bit value takes five.
//
// Signed values are zigzag-mapped onto the unsigned codec, so small
// magnitudes of either sign stay small on the wire:
//
//	encode(n) = (n << 1) ^ (n >> 31)
//	decode(v) = (v >> 1) ^ -(v & 1)
//
// The codec is fixed at a 32-bit range. Decoding caps accumulation at
// MaxUintLen32 bytes and returns ErrMalformed if the continuation bit
// persists past that, bounding decode time on corrupt input.
package varint

import (
	"errors"

	"go.chromium.org/treewire/buffer"
)

// MaxUintLen32 is the maximum encoded length of a 32-bit unsigned varint:
// ceil(32/7) bytes.
const MaxUintLen32 = 5

// ErrMalformed is returned when a varint's continuation bit persists beyond
// MaxUintLen32 bytes, or its final group carries bits past the 32-bit range.
// Such input is corrupt; the decode must be abandoned.
var ErrMalformed = errors.New("varint: malformed 32-bit varint")

// PutUint appends v to s as an unsigned varint. It writes at most
// MaxUintLen32 bytes and cannot fail.
func PutUint(s *buffer.Sink, v uint32) {
	for v >= 0x80 {
		s.Byte(byte(v) | 0x80)
		v >>= 7
	}
	s.Byte(byte(v))
}

// ReadUint reads an unsigned varint from r. It returns
// buffer.ErrOutOfBounds if the data ends mid-varint and ErrMalformed if the
// encoding exceeds the 32-bit range.
func ReadUint(r *buffer.Source) (uint32, error) {
	var v uint32
	var shift uint
	for i := 0; i < MaxUintLen32; i++ {
		b, err := r.Byte()
		if err != nil {
			return 0, err
		}
		if b < 0x80 {
			// The fifth group has only 32-7*4 = 4 usable bits.
			if i == MaxUintLen32-1 && b > 0x0f {
				return 0, ErrMalformed
			}
			return v | uint32(b)<<shift, nil
		}
		v |= uint32(b&0x7f) << shift
		shift += 7
	}
	return 0, ErrMalformed
}

// PutInt appends v to s as a zigzag-encoded signed varint.
func PutInt(s *buffer.Sink, v int32) {
	PutUint(s, uint32((v<<1)^(v>>31)))
}

// ReadInt reads a zigzag-encoded signed varint from r.
func ReadInt(r *buffer.Source) (int32, error) {
	v, err := ReadUint(r)
	if err != nil {
		return 0, err
	}
	return int32(v>>1) ^ -int32(v&1), nil
}

// UintLen returns the number of bytes PutUint writes for v.
func UintLen(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
