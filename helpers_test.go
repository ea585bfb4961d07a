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
	"flag"
	"fmt"
	"math/rand"
)

var seed = flag.Int64("treewire.seed", 0, "Seed to use for randomized tests")

const randomTestSize = 200

// randomText builds a string mixing ASCII with 2, 3 and 4-byte sequences.
func randomText(r *rand.Rand) string {
	runes := make([]rune, r.Intn(20))
	for i := range runes {
		switch r.Intn(4) {
		case 0:
			runes[i] = rune(r.Intn(0x80))
		case 1:
			runes[i] = rune(0x80 + r.Intn(0x800-0x80))
		case 2:
			// Stay below the surrogate block.
			runes[i] = rune(0x800 + r.Intn(0xd800-0x800))
		default:
			runes[i] = rune(0x10000 + r.Intn(0x10ffff-0x10000))
		}
	}
	return string(runes)
}

// randomValue builds an arbitrary representable value tree.
func randomValue(r *rand.Rand, depth int) Value {
	top := 7
	if depth <= 0 {
		top = 5 // leaves only
	}
	switch r.Intn(top) {
	case 0:
		return Null{}
	case 1:
		return Bool(r.Intn(2) == 0)
	case 2:
		v := int64(r.Uint32())
		if r.Intn(2) == 0 {
			v = -v
		}
		return Int(v)
	case 3:
		return Float(r.NormFloat64() * 1e6)
	case 4:
		return Text(randomText(r))
	case 5:
		arr := make(Array, r.Intn(4))
		for i := range arr {
			arr[i] = randomValue(r, depth-1)
		}
		return arr
	default:
		n := r.Intn(4)
		m := make(Map, 0, n)
		for i := 0; i < n; i++ {
			m = append(m, Entry{
				Key:   fmt.Sprintf("k%d_%s", i, randomText(r)),
				Value: randomValue(r, depth-1),
			})
		}
		return m
	}
}

// recordingLogger captures diagnostics emitted by an Encoder.
type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {}
func (l *recordingLogger) Infof(format string, args ...any)  {}
func (l *recordingLogger) Errorf(format string, args ...any) {}
func (l *recordingLogger) Warningf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}
