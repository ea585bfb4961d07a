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

// Package textenc implements the treewire text codec.
//
// Every string is written as an unsigned-varint BYTE length (not character
// count) followed by the encoded bytes, never null-terminated, so encoded
// text may contain any byte value including zero.
//
// In ModeUTF8 each code point is written as a 1, 2, 3 or 4-byte UTF-8
// sequence chosen by code-point range; supplementary-plane characters take
// one 4-byte sequence. In ModeSingleByte each character is written as one
// byte holding its low 8 bits — lossy above U+00FF, with no detection. The
// mode is shared out of band and must match between writer and reader, or
// decoded text is silently corrupted.
package textenc

import (
	"errors"

	"go.chromium.org/treewire/buffer"
	"go.chromium.org/treewire/varint"
)

// Mode selects how characters map to bytes on the wire.
type Mode int

const (
	// ModeUTF8 writes standard 1-4 byte UTF-8 sequences.
	ModeUTF8 Mode = iota
	// ModeSingleByte writes one byte per character, low 8 bits only.
	ModeSingleByte
)

// ErrInvalidSequence is returned when decoded text contains a byte pattern
// that is not a recognized UTF-8 sequence: a leading byte with the
// continuation pattern (10xxxxxx) or an out-of-range prefix (11111xxx), a
// continuation byte without the 10 high bits, or a sequence cut short by the
// declared byte length.
var ErrInvalidSequence = errors.New("textenc: invalid text sequence")

// Put appends str to s: an unsigned-varint byte length, then the encoded
// bytes. It cannot fail; in ModeSingleByte, characters above U+00FF are
// silently truncated to their low 8 bits. Bytes of str that are not valid
// UTF-8 are encoded as U+FFFD.
func Put(s *buffer.Sink, str string, m Mode) {
	if m == ModeSingleByte {
		n := 0
		for range str {
			n++
		}
		varint.PutUint(s, uint32(n))
		s.Grow(n)
		for _, r := range str {
			s.Byte(byte(r))
		}
		return
	}

	n := 0
	for _, r := range str {
		n += runeLen(r)
	}
	varint.PutUint(s, uint32(n))
	s.Grow(n)
	for _, r := range str {
		putRune(s, r)
	}
}

// Read reads one length-prefixed string from r. It returns
// buffer.ErrOutOfBounds if the data ends before the declared byte length,
// and ErrInvalidSequence if the payload is not well-formed for the mode.
func Read(r *buffer.Source, m Mode) (string, error) {
	n, err := varint.ReadUint(r)
	if err != nil {
		return "", err
	}
	p, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	if m == ModeSingleByte {
		return decodeSingleByte(p), nil
	}
	if err := validateUTF8(p); err != nil {
		return "", err
	}
	return string(p), nil
}

// runeLen returns the encoded size of r in ModeUTF8.
func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// putRune appends the ModeUTF8 encoding of r.
func putRune(s *buffer.Sink, r rune) {
	switch {
	case r < 0x80:
		s.Byte(byte(r))
	case r < 0x800:
		s.Byte(0xc0 | byte(r>>6))
		s.Byte(0x80 | byte(r)&0x3f)
	case r < 0x10000:
		s.Byte(0xe0 | byte(r>>12))
		s.Byte(0x80 | byte(r>>6)&0x3f)
		s.Byte(0x80 | byte(r)&0x3f)
	default:
		s.Byte(0xf0 | byte(r>>18))
		s.Byte(0x80 | byte(r>>12)&0x3f)
		s.Byte(0x80 | byte(r>>6)&0x3f)
		s.Byte(0x80 | byte(r)&0x3f)
	}
}

// validateUTF8 walks p sequence by sequence, classifying each leading byte
// by its high bits and checking that the continuation bytes follow with the
// 10xxxxxx pattern inside the declared length.
func validateUTF8(p []byte) error {
	for i := 0; i < len(p); {
		lead := p[i]
		var size int
		switch {
		case lead < 0x80:
			size = 1
		case lead&0xe0 == 0xc0:
			size = 2
		case lead&0xf0 == 0xe0:
			size = 3
		case lead&0xf8 == 0xf0:
			size = 4
		default:
			// A bare continuation byte or 11111xxx prefix.
			return ErrInvalidSequence
		}
		if i+size > len(p) {
			return ErrInvalidSequence
		}
		for j := i + 1; j < i+size; j++ {
			if p[j]&0xc0 != 0x80 {
				return ErrInvalidSequence
			}
		}
		i += size
	}
	return nil
}

// decodeSingleByte maps each payload byte to the code point U+0000..U+00FF.
func decodeSingleByte(p []byte) string {
	// Bytes >= 0x80 widen to two-byte code points in the host string.
	out := make([]byte, 0, len(p))
	for _, b := range p {
		if b < 0x80 {
			out = append(out, b)
		} else {
			out = append(out, 0xc0|b>>6, 0x80|b&0x3f)
		}
	}
	return string(out)
}
