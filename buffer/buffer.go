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

// Package buffer provides the byte-level primitives underneath the treewire
// codec: a growable little-endian write buffer (Sink) and a bounds-checked
// read cursor over a fixed byte slice (Source).
//
// Sink and Source are deliberately symmetrical; every fixed-width write on
// one has a matching read on the other with bit-exact wire compatibility.
// All multi-byte quantities are little-endian.
package buffer

import "errors"

// ErrOutOfBounds is returned when a read would advance past the end of the
// Source data. It is fatal to the decode in progress: the caller must abandon
// the current structure rather than resume mid-stream. The cursor does not
// advance past a failed read.
var ErrOutOfBounds = errors.New("buffer: read past end of data")

// DefaultCapacity is the initial Sink capacity used when none is given.
const DefaultCapacity = 1024
