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

package treewire

import (
	"fmt"

	"go.chromium.org/treewire/buffer"
	"go.chromium.org/treewire/keydict"
	"go.chromium.org/treewire/textenc"
	"go.chromium.org/treewire/varint"
)

// Containers declare their element counts up front, so a corrupt count could
// demand an absurd allocation before any element fails to parse. Initial
// allocations are capped here and grown by append past that.
const maxPrealloc = uint32(4096)

// DecoderOptions configures a Decoder. Dict and SingleByteText must match
// the settings the producing Encoder used; the format does not detect a
// mismatch, it just yields silently wrong data.
type DecoderOptions struct {
	// Dict is the shared key dictionary. Nil means no key compression; any
	// indexed key then fails with ErrMalformedKeyReference.
	Dict *keydict.Dict

	// SingleByteText selects the one-byte-per-character text fast path.
	SingleByteText bool

	// MaxDepth bounds value nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// A Decoder decodes values from a fixed buffer. Any error it returns is
// fatal to the decode in progress: the buffer is not decodable under the
// current configuration and the Decoder's cursor is no longer meaningful
// until Reset. A Decoder is a single-goroutine object.
type Decoder struct {
	src      *buffer.Source
	dict     *keydict.Dict
	mode     textenc.Mode
	maxDepth int
}

// NewDecoder returns a Decoder reading data, configured by opts.
func NewDecoder(data []byte, opts DecoderOptions) *Decoder {
	mode := textenc.ModeUTF8
	if opts.SingleByteText {
		mode = textenc.ModeSingleByte
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Decoder{
		src:      buffer.NewSource(data),
		dict:     opts.Dict,
		mode:     mode,
		maxDepth: maxDepth,
	}
}

// Reset rebinds the Decoder to a new input buffer and rewinds its cursor,
// keeping the configuration.
func (d *Decoder) Reset(data []byte) {
	d.src.Reset(data)
}

// Value decodes one value, recursively.
func (d *Decoder) Value() (Value, error) {
	return d.decodeValue(0)
}

func (d *Decoder) decodeValue(depth int) (Value, error) {
	if depth >= d.maxDepth {
		return nil, fmt.Errorf("%w (limit %d)", ErrDepthExceeded, d.maxDepth)
	}
	tag, err := d.src.Byte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagTrue:
		return Bool(true), nil
	case tagFalse:
		return Bool(false), nil
	case tagNull:
		return Null{}, nil
	case tagPosInt:
		mag, err := varint.ReadUint(d.src)
		if err != nil {
			return nil, err
		}
		return Int(mag), nil
	case tagNegInt:
		mag, err := varint.ReadUint(d.src)
		if err != nil {
			return nil, err
		}
		return Int(-int64(mag)), nil
	case tagFloat:
		f, err := d.src.Float64()
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	case tagText:
		s, err := textenc.Read(d.src, d.mode)
		if err != nil {
			return nil, err
		}
		return Text(s), nil
	case tagArray:
		n, err := varint.ReadUint(d.src)
		if err != nil {
			return nil, err
		}
		arr := make(Array, 0, min(n, maxPrealloc))
		for i := uint32(0); i < n; i++ {
			el, err := d.decodeValue(depth + 1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, el)
		}
		return arr, nil
	case tagMap:
		n, err := varint.ReadUint(d.src)
		if err != nil {
			return nil, err
		}
		m := make(Map, 0, min(n, maxPrealloc))
		for i := uint32(0); i < n; i++ {
			key, err := d.decodeKey()
			if err != nil {
				return nil, err
			}
			val, err := d.decodeValue(depth + 1)
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: key, Value: val})
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownTag, tag)
	}
}

func (d *Decoder) decodeKey() (string, error) {
	kt, err := d.src.Byte()
	if err != nil {
		return "", err
	}
	switch kt {
	case keyInline:
		return textenc.Read(d.src, d.mode)
	case keyIndexed:
		i, err := varint.ReadUint(d.src)
		if err != nil {
			return "", err
		}
		key, ok := d.dict.Key(i)
		if !ok {
			return "", fmt.Errorf("%w: index %d of %d", ErrMalformedKeyReference, i, d.dict.Len())
		}
		return key, nil
	default:
		return "", fmt.Errorf("%w: map key tag 0x%02x", ErrUnknownTag, kt)
	}
}

// The primitive reads below bypass the value protocol, mirroring the
// Encoder's primitive writes.

// Uint8 reads a fixed-width unsigned byte.
func (d *Decoder) Uint8() (uint8, error) { return d.src.Uint8() }

// Uint16 reads a fixed-width little-endian unsigned 16-bit integer.
func (d *Decoder) Uint16() (uint16, error) { return d.src.Uint16() }

// Uint32 reads a fixed-width little-endian unsigned 32-bit integer.
func (d *Decoder) Uint32() (uint32, error) { return d.src.Uint32() }

// Int8 reads a fixed-width signed byte.
func (d *Decoder) Int8() (int8, error) { return d.src.Int8() }

// Int16 reads a fixed-width little-endian signed 16-bit integer.
func (d *Decoder) Int16() (int16, error) { return d.src.Int16() }

// Int32 reads a fixed-width little-endian signed 32-bit integer.
func (d *Decoder) Int32() (int32, error) { return d.src.Int32() }

// Float64 reads an 8-byte little-endian IEEE754 double.
func (d *Decoder) Float64() (float64, error) { return d.src.Float64() }

// UVarint reads an unsigned varint.
func (d *Decoder) UVarint() (uint32, error) { return varint.ReadUint(d.src) }

// SVarint reads a zigzag-encoded signed varint.
func (d *Decoder) SVarint() (int32, error) { return varint.ReadInt(d.src) }

// Text reads a length-prefixed string in the Decoder's text mode.
func (d *Decoder) Text() (string, error) { return textenc.Read(d.src, d.mode) }

// Bytes reads a length-prefixed byte run. The result is a copy, safe to
// keep after the input buffer changes.
func (d *Decoder) Bytes() ([]byte, error) {
	n, err := varint.ReadUint(d.src)
	if err != nil {
		return nil, err
	}
	p, err := d.src.Bytes(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out, nil
}

// Raw reads n bytes verbatim. The result aliases the input buffer.
func (d *Decoder) Raw(n int) ([]byte, error) { return d.src.Bytes(n) }

// Offset returns the cursor position in the input buffer.
func (d *Decoder) Offset() int { return d.src.Offset() }

// Remaining returns the number of unread input bytes.
func (d *Decoder) Remaining() int { return d.src.Remaining() }
