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

// Package treewire implements a compact binary encoding for tree-shaped
// data: null, booleans, numbers, text, ordered sequences and string-keyed
// maps.
//
// Every encoded value is one tag byte followed by a tag-determined payload:
//
//	tag  value     payload
//	 1   true      (none)
//	 2   false     (none)
//	 3   null      (none)
//	 4   int >= 0  unsigned varint magnitude
//	 5   int < 0   unsigned varint absolute magnitude
//	 6   float     8-byte little-endian IEEE754 double
//	 7   text      unsigned varint byte length + encoded bytes
//	 8   array     unsigned varint count + that many encoded values
//	 9   map       unsigned varint count + (key tag, key, value) triples
//
// Map keys are written either inline (key tag 1: length-prefixed text) or,
// when the key is present in the shared dictionary, as a dictionary index
// (key tag 2: unsigned varint). The dictionary is exchanged out of band; see
// package keydict. Both ends of an exchange must be configured with
// byte-identical dictionaries and the same text mode, or decoded data is
// silently wrong — the wire format carries no check for either.
//
// An Encoder writes values into a growable buffer and snapshots the result
// with Finalize; a Decoder walks a fixed buffer and rejects anything
// malformed or truncated with a synchronous error. Neither retries, resumes,
// nor continues past corruption: any decode error means the buffer is not
// decodable under the current configuration.
//
// Encoders and Decoders are single-goroutine objects. Independent instances,
// each owning its own buffer, may run concurrently, and a dictionary may be
// shared read-only between any number of them.
//
// The byte-level primitives (packages buffer, varint and textenc, and the
// primitive methods on Encoder and Decoder) are usable standalone for
// hand-rolled formats.
package treewire

// Value tags, one leading byte per encoded value.
const (
	tagTrue   byte = 1
	tagFalse  byte = 2
	tagNull   byte = 3
	tagPosInt byte = 4
	tagNegInt byte = 5
	tagFloat  byte = 6
	tagText   byte = 7
	tagArray  byte = 8
	tagMap    byte = 9
)

// Map key tags.
const (
	keyInline  byte = 1
	keyIndexed byte = 2
)
