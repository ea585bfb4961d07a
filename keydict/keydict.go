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

// Package keydict implements the shared key dictionary used by the treewire
// map-key compression: an ordered table of distinct strings where a key's
// index is its position, plus the writer-side inverse lookup.
package keydict

import "fmt"

// A Dict is an immutable ordered table of distinct key strings. It is built
// once, shared out of band between a communicating writer/reader pair, and
// never mutated afterwards, which makes it safe for concurrent read-only use
// by any number of encoders and decoders.
//
// The wire format carries no identity or checksum for the dictionary: both
// ends must supply byte-identical key sequences. A mismatch is not detected
// and produces silently wrong decoded keys.
//
// A nil *Dict behaves as an empty dictionary.
type Dict struct {
	keys  []string
	index map[string]uint32
}

// New builds a Dict from keys, in order. It returns an error if any key
// appears more than once.
func New(keys ...string) (*Dict, error) {
	d := &Dict{
		keys:  make([]string, len(keys)),
		index: make(map[string]uint32, len(keys)),
	}
	copy(d.keys, keys)
	for i, k := range keys {
		if _, ok := d.index[k]; ok {
			return nil, fmt.Errorf("keydict: duplicate key %q at index %d", k, i)
		}
		d.index[k] = uint32(i)
	}
	return d, nil
}

// MustNew is New, panicking on error. For dictionaries built from literals.
func MustNew(keys ...string) *Dict {
	d, err := New(keys...)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Key returns the key at index i, or false if i is out of range.
func (d *Dict) Key(i uint32) (string, bool) {
	if d == nil || int64(i) >= int64(len(d.keys)) {
		return "", false
	}
	return d.keys[i], true
}

// Index returns the index of key via the inverse map, or false if the key is
// not in the dictionary.
func (d *Dict) Index(key string) (uint32, bool) {
	if d == nil {
		return 0, false
	}
	i, ok := d.index[key]
	return i, ok
}

// Keys returns a copy of the ordered key sequence.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}
