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
	"sort"
)

// Value is one node of a data tree. It is a closed union: the only variants
// are Null, Bool, Int, Float, Text, Array and Map, so a type switch over a
// Value is exhaustive at compile time.
type Value interface {
	isValue()
}

// Null is the explicit null value.
type Null struct{}

// Bool is a boolean value.
type Bool bool

// Int is an integer value. The wire format carries a sign and a 32-bit
// magnitude, so encoding rejects values outside ±(2^32 − 1) with
// ErrUnrepresentable. Zero always encodes as non-negative.
type Int int64

// Float is a 64-bit IEEE754 value. NaN and the infinities are rejected at
// encode time with ErrUnrepresentable.
type Float float64

// Text is a string value.
type Text string

// Array is an ordered sequence of values.
type Array []Value

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

// Map is a string-keyed mapping with insertion order preserved. Keys are
// expected to be unique; the codec does not deduplicate them.
type Map []Entry

func (Null) isValue()  {}
func (Bool) isValue()  {}
func (Int) isValue()   {}
func (Float) isValue() {}
func (Text) isValue()  {}
func (Array) isValue() {}
func (Map) isValue()   {}

// Get returns the value for key in m, or false if the key is absent.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// FromNative converts ordinary Go data to a Value.
//
// Accepted kinds: nil, bool, all fixed-size and platform int/uint types,
// float32/float64, string, []any, map[string]any, and anything that is
// already a Value. Everything else returns ErrUnsupportedType.
//
// A float with a zero fractional part whose magnitude fits the wire format's
// 32-bit integer range converts to Int, matching how the format classifies
// numbers at encode time. Non-finite floats convert to Float and are then
// rejected by the encoder.
//
// Go maps carry no insertion order, so map[string]any entries are sorted by
// key for deterministic output. Build a Map directly to control entry order.
func FromNative(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, fmt.Errorf("%w: uint %d", ErrUnrepresentable, x)
		}
		return Int(x), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("%w: uint64 %d", ErrUnrepresentable, x)
		}
		return Int(x), nil
	case float32:
		return fromFloat(float64(x)), nil
	case float64:
		return fromFloat(x), nil
	case string:
		return Text(x), nil
	case []any:
		arr := make(Array, len(x))
		for i, el := range x {
			val, err := FromNative(el)
			if err != nil {
				return nil, err
			}
			arr[i] = val
		}
		return arr, nil
	case []Value:
		return Array(x), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(Map, 0, len(keys))
		for _, k := range keys {
			val, err := FromNative(x[k])
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: k, Value: val})
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

func fromFloat(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) <= math.MaxUint32 {
		return Int(f)
	}
	return Float(f)
}

// Native converts a Value back to ordinary Go data: nil, bool, int64,
// float64, string, []any and map[string]any. Map entry order is lost in the
// conversion; duplicate keys keep the last value.
func Native(v Value) any {
	switch x := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case Text:
		return string(x)
	case Array:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = Native(el)
		}
		return out
	case Map:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = Native(e.Value)
		}
		return out
	default:
		return nil
	}
}
