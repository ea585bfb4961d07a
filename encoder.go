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
	"math"

	"go.chromium.org/treewire/buffer"
	"go.chromium.org/treewire/keydict"
	"go.chromium.org/treewire/logging"
	"go.chromium.org/treewire/textenc"
	"go.chromium.org/treewire/varint"
)

// DefaultMaxDepth is the value-nesting limit applied when options leave
// MaxDepth zero.
const DefaultMaxDepth = 1000

// EncoderOptions configures an Encoder. The Dict and SingleByteText settings
// must match the decoding side exactly; the format does not detect a
// mismatch.
type EncoderOptions struct {
	// Dict is the shared key dictionary. Nil means no key compression.
	Dict *keydict.Dict

	// InitialCapacity presizes the write buffer. Zero means
	// buffer.DefaultCapacity.
	InitialCapacity int

	// SingleByteText switches text to the one-byte-per-character fast path,
	// which is lossy above U+00FF.
	SingleByteText bool

	// MaxDepth bounds value nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// Logger receives non-fatal diagnostics, such as a map key missing from
	// a non-empty dictionary. Nil means logging.Null.
	Logger logging.Logger
}

// An Encoder encodes values into a growable buffer. It is a
// single-goroutine object; independent Encoders may run concurrently.
type Encoder struct {
	sink     *buffer.Sink
	dict     *keydict.Dict
	mode     textenc.Mode
	maxDepth int
	log      logging.Logger
}

// NewEncoder returns an Encoder configured by opts.
func NewEncoder(opts EncoderOptions) *Encoder {
	mode := textenc.ModeUTF8
	if opts.SingleByteText {
		mode = textenc.ModeSingleByte
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	log := opts.Logger
	if log == nil {
		log = logging.Null
	}
	return &Encoder{
		sink:     buffer.NewSink(opts.InitialCapacity),
		dict:     opts.Dict,
		mode:     mode,
		maxDepth: maxDepth,
		log:      log,
	}
}

// Value encodes one value, recursively. On error nothing past the last
// successful write is appended; scalar rejections (ErrUnrepresentable)
// append nothing at all.
func (e *Encoder) Value(v Value) error {
	return e.encodeValue(v, 0)
}

// Native is shorthand for FromNative followed by Value.
func (e *Encoder) Native(v any) error {
	val, err := FromNative(v)
	if err != nil {
		return err
	}
	return e.encodeValue(val, 0)
}

func (e *Encoder) encodeValue(v Value, depth int) error {
	if depth >= e.maxDepth {
		return fmt.Errorf("%w (limit %d)", ErrDepthExceeded, e.maxDepth)
	}
	switch x := v.(type) {
	case Null:
		e.sink.Byte(tagNull)
	case Bool:
		if x {
			e.sink.Byte(tagTrue)
		} else {
			e.sink.Byte(tagFalse)
		}
	case Int:
		return e.encodeInt(int64(x))
	case Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite float %v", ErrUnrepresentable, f)
		}
		e.sink.Byte(tagFloat)
		e.sink.Float64(f)
	case Text:
		e.sink.Byte(tagText)
		textenc.Put(e.sink, string(x), e.mode)
	case Array:
		e.sink.Byte(tagArray)
		varint.PutUint(e.sink, uint32(len(x)))
		for _, el := range x {
			if err := e.encodeValue(el, depth+1); err != nil {
				return err
			}
		}
	case Map:
		e.sink.Byte(tagMap)
		varint.PutUint(e.sink, uint32(len(x)))
		for _, ent := range x {
			e.encodeKey(ent.Key)
			if err := e.encodeValue(ent.Value, depth+1); err != nil {
				return err
			}
		}
	default:
		// The variant set is closed; only a nil Value lands here.
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	return nil
}

func (e *Encoder) encodeInt(n int64) error {
	tag, mag := tagPosInt, uint64(n)
	if n < 0 {
		tag, mag = tagNegInt, uint64(-n)
	}
	if mag > math.MaxUint32 {
		return fmt.Errorf("%w: integer magnitude %d exceeds 32 bits", ErrUnrepresentable, mag)
	}
	e.sink.Byte(tag)
	varint.PutUint(e.sink, uint32(mag))
	return nil
}

func (e *Encoder) encodeKey(key string) {
	if i, ok := e.dict.Index(key); ok {
		e.sink.Byte(keyIndexed)
		varint.PutUint(e.sink, i)
		return
	}
	if e.dict.Len() > 0 {
		e.log.Warningf("treewire: map key %q not in shared dictionary, inlining", key)
	}
	e.sink.Byte(keyInline)
	textenc.Put(e.sink, key, e.mode)
}

// The primitive writes below bypass the value protocol for hand-rolled
// formats. They share the Encoder's buffer and text mode and never fail.

// Uint8 appends a fixed-width unsigned byte.
func (e *Encoder) Uint8(v uint8) { e.sink.Uint8(v) }

// Uint16 appends a fixed-width little-endian unsigned 16-bit integer.
func (e *Encoder) Uint16(v uint16) { e.sink.Uint16(v) }

// Uint32 appends a fixed-width little-endian unsigned 32-bit integer.
func (e *Encoder) Uint32(v uint32) { e.sink.Uint32(v) }

// Int8 appends a fixed-width signed byte.
func (e *Encoder) Int8(v int8) { e.sink.Int8(v) }

// Int16 appends a fixed-width little-endian signed 16-bit integer.
func (e *Encoder) Int16(v int16) { e.sink.Int16(v) }

// Int32 appends a fixed-width little-endian signed 32-bit integer.
func (e *Encoder) Int32(v int32) { e.sink.Int32(v) }

// Float64 appends an 8-byte little-endian IEEE754 double.
func (e *Encoder) Float64(v float64) { e.sink.Float64(v) }

// UVarint appends an unsigned varint.
func (e *Encoder) UVarint(v uint32) { varint.PutUint(e.sink, v) }

// SVarint appends a zigzag-encoded signed varint.
func (e *Encoder) SVarint(v int32) { varint.PutInt(e.sink, v) }

// Text appends a length-prefixed string in the Encoder's text mode.
func (e *Encoder) Text(s string) { textenc.Put(e.sink, s, e.mode) }

// Bytes appends a length-prefixed byte run: an unsigned varint length
// followed by the raw bytes.
func (e *Encoder) Bytes(p []byte) {
	varint.PutUint(e.sink, uint32(len(p)))
	e.sink.Bytes(p)
}

// Raw appends bytes verbatim, with no length prefix.
func (e *Encoder) Raw(p []byte) { e.sink.Bytes(p) }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return e.sink.Len() }

// Finalize returns an immutable snapshot of exactly the bytes written so
// far. The Encoder remains usable afterwards.
func (e *Encoder) Finalize() []byte { return e.sink.Finalize() }

// Reset rewinds the Encoder for reuse, keeping its buffer capacity.
func (e *Encoder) Reset() { e.sink.Reset() }
