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

import "errors"

// Errors reported by the value codec. Lower layers contribute their own:
// buffer.ErrOutOfBounds for truncated data, varint.ErrMalformed for overlong
// varints and textenc.ErrInvalidSequence for malformed text. All of them are
// fatal to the operation that hit them; none is retried internally.
var (
	// ErrUnknownTag is returned when a decoded tag byte is not in the value
	// table: a corrupted stream, or a writer speaking a different version.
	ErrUnknownTag = errors.New("treewire: unknown value tag")

	// ErrMalformedKeyReference is returned when an indexed map key has no
	// entry in the shared dictionary. It aborts the entire decode, not just
	// the enclosing map.
	ErrMalformedKeyReference = errors.New("treewire: map key index not in dictionary")

	// ErrUnsupportedType is returned by FromNative for runtime kinds outside
	// the value union. Kinds that merely resemble null (typed nil pointers,
	// for example) are rejected, never silently mapped to Null.
	ErrUnsupportedType = errors.New("treewire: unsupported value type")

	// ErrUnrepresentable is returned when encoding a non-finite float or an
	// integer whose magnitude exceeds 32 bits. The value is rejected before
	// anything is written; it is never silently coerced.
	ErrUnrepresentable = errors.New("treewire: unrepresentable numeric value")

	// ErrDepthExceeded is returned when value nesting passes the configured
	// depth limit, bounding stack use on pathological trees.
	ErrDepthExceeded = errors.New("treewire: value nesting too deep")
)
