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
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"go.chromium.org/treewire/buffer"
	"go.chromium.org/treewire/keydict"
	"go.chromium.org/treewire/varint"
)

func encode(v Value, opts EncoderOptions) ([]byte, error) {
	e := NewEncoder(opts)
	if err := e.Value(v); err != nil {
		return nil, err
	}
	return e.Finalize(), nil
}

func decode(data []byte, opts DecoderOptions) (Value, error) {
	return NewDecoder(data, opts).Value()
}

func TestScalars(t *testing.T) {
	t.Parallel()

	Convey("scalar wire forms", t, func() {
		cases := []struct {
			v    Value
			wire []byte
		}{
			{Bool(true), []byte{1}},
			{Bool(false), []byte{2}},
			{Null{}, []byte{3}},
			{Int(0), []byte{4, 0}},
			{Int(123), []byte{4, 123}},
			{Int(-123), []byte{5, 123}},
			{Int(300), []byte{4, 0xac, 0x02}},
			{Float(1.0), []byte{6, 0, 0, 0, 0, 0, 0, 0xf0, 0x3f}},
			{Text("Hi"), []byte{7, 2, 'H', 'i'}},
		}
		for _, c := range cases {
			data, err := encode(c.v, EncoderOptions{})
			So(err, ShouldBeNil)
			So(data, ShouldResemble, c.wire)

			got, err := decode(data, DecoderOptions{})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, c.v)
		}

		Convey("integer magnitude uses the full unsigned 32-bit range", func() {
			for _, v := range []Int{math.MaxUint32, -math.MaxUint32, math.MaxInt32, math.MinInt32} {
				data, err := encode(v, EncoderOptions{})
				So(err, ShouldBeNil)
				got, err := decode(data, DecoderOptions{})
				So(err, ShouldBeNil)
				So(got, ShouldResemble, v)
			}
		})
	})
}

func TestContainers(t *testing.T) {
	t.Parallel()

	Convey("containers", t, func() {
		Convey("empty array", func() {
			data, err := encode(Array{}, EncoderOptions{})
			So(err, ShouldBeNil)
			So(data, ShouldResemble, []byte{8, 0})
			got, err := decode(data, DecoderOptions{})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Array{})
		})

		Convey("empty map", func() {
			data, err := encode(Map{}, EncoderOptions{})
			So(err, ShouldBeNil)
			So(data, ShouldResemble, []byte{9, 0})
			got, err := decode(data, DecoderOptions{})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Map{})
		})

		Convey("map entries keep insertion order", func() {
			m := Map{
				{Key: "zz", Value: Int(1)},
				{Key: "aa", Value: Int(2)},
			}
			data, err := encode(m, EncoderOptions{})
			So(err, ShouldBeNil)
			got, err := decode(data, DecoderOptions{})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, m)
		})

		Convey("deep nesting round-trips", func() {
			v := Value(Int(1))
			for i := 0; i < 100; i++ {
				v = Array{v, Text("pad")}
			}
			data, err := encode(v, EncoderOptions{})
			So(err, ShouldBeNil)
			got, err := decode(data, DecoderOptions{})
			So(err, ShouldBeNil)
			So(cmp.Diff(v, got), ShouldBeBlank)
		})
	})
}

func TestRandomRoundTrips(t *testing.T) {
	t.Parallel()

	Convey("random value trees round-trip", t, func() {
		r := rand.New(rand.NewSource(*seed))
		enc := NewEncoder(EncoderOptions{})
		dec := NewDecoder(nil, DecoderOptions{})

		for i := 0; i < randomTestSize; i++ {
			v := randomValue(r, 4)
			enc.Reset()
			So(enc.Value(v), ShouldBeNil)

			dec.Reset(enc.Finalize())
			got, err := dec.Value()
			So(err, ShouldBeNil)
			So(cmp.Diff(v, got), ShouldBeBlank)
		}
	})
}

func TestKeyDictionary(t *testing.T) {
	t.Parallel()

	Convey("key dictionary compression", t, func() {
		dict := keydict.MustNew("username")

		Convey("a dictionary key becomes key-tag 2 plus its index", func() {
			data, err := encode(Map{{Key: "username", Value: Null{}}},
				EncoderOptions{Dict: dict})
			So(err, ShouldBeNil)
			So(data, ShouldResemble, []byte{
				9, 1, // map, one entry
				2, 0, // indexed key, index 0
				3,    // null value
			})

			got, err := decode(data, DecoderOptions{Dict: dict})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Map{{Key: "username", Value: Null{}}})
		})

		Convey("an absent key falls back to key-tag 1 inline", func() {
			log := &recordingLogger{}
			data, err := encode(Map{{Key: "species", Value: Null{}}},
				EncoderOptions{Dict: dict, Logger: log})
			So(err, ShouldBeNil)
			So(data, ShouldResemble, []byte{
				9, 1,
				1, 7, 's', 'p', 'e', 'c', 'i', 'e', 's',
				3,
			})

			Convey("with a non-fatal diagnostic", func() {
				So(log.warnings, ShouldHaveLength, 1)
				So(log.warnings[0], ShouldContainSubstring, `"species"`)
			})

			got, err := decode(data, DecoderOptions{Dict: dict})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Map{{Key: "species", Value: Null{}}})
		})

		Convey("no diagnostic without a dictionary", func() {
			log := &recordingLogger{}
			_, err := encode(Map{{Key: "species", Value: Null{}}},
				EncoderOptions{Logger: log})
			So(err, ShouldBeNil)
			So(log.warnings, ShouldBeEmpty)
		})

		Convey("an out-of-range index aborts the whole decode", func() {
			data, err := encode(
				Array{Map{{Key: "username", Value: Null{}}}, Int(5)},
				EncoderOptions{Dict: dict})
			So(err, ShouldBeNil)

			// The reader was configured without the shared dictionary.
			_, err = decode(data, DecoderOptions{})
			So(err, ShouldWrap, ErrMalformedKeyReference)
		})

		Convey("an unknown key tag is rejected", func() {
			_, err := decode([]byte{9, 1, 3, 0, 3}, DecoderOptions{})
			So(err, ShouldWrap, ErrUnknownTag)
		})
	})
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	Convey("decode errors", t, func() {
		Convey("empty input", func() {
			_, err := decode(nil, DecoderOptions{})
			So(err, ShouldEqual, buffer.ErrOutOfBounds)
		})

		Convey("unknown tags", func() {
			for _, data := range [][]byte{{0}, {10}, {0xff}} {
				_, err := decode(data, DecoderOptions{})
				So(err, ShouldWrap, ErrUnknownTag)
			}
		})

		Convey("float tag with fewer than 8 payload bytes", func() {
			_, err := decode([]byte{6, 1, 2, 3}, DecoderOptions{})
			So(err, ShouldEqual, buffer.ErrOutOfBounds)
		})

		Convey("text truncated mid-payload", func() {
			_, err := decode([]byte{7, 5, 'a', 'b'}, DecoderOptions{})
			So(err, ShouldEqual, buffer.ErrOutOfBounds)
		})

		Convey("array truncated mid-elements", func() {
			_, err := decode([]byte{8, 2, 4, 1}, DecoderOptions{})
			So(err, ShouldEqual, buffer.ErrOutOfBounds)
		})

		Convey("malformed count varint", func() {
			_, err := decode([]byte{8, 0x80, 0x80, 0x80, 0x80, 0x80}, DecoderOptions{})
			So(err, ShouldEqual, varint.ErrMalformed)
		})

		Convey("huge declared count fails cleanly", func() {
			// Count says ~4 billion elements; the data ends immediately.
			_, err := decode([]byte{8, 0xff, 0xff, 0xff, 0xff, 0x0f}, DecoderOptions{})
			So(err, ShouldEqual, buffer.ErrOutOfBounds)
		})

		Convey("nesting past the depth limit", func() {
			data := make([]byte, 0, 2*DefaultMaxDepth+4)
			for i := 0; i < DefaultMaxDepth+1; i++ {
				data = append(data, 8, 1) // array of one...
			}
			data = append(data, 3) // ...eventually null
			_, err := decode(data, DecoderOptions{})
			So(err, ShouldWrap, ErrDepthExceeded)

			Convey("with a configurable limit", func() {
				_, err := decode([]byte{8, 1, 8, 1, 3}, DecoderOptions{MaxDepth: 2})
				So(err, ShouldWrap, ErrDepthExceeded)

				got, err := decode([]byte{8, 1, 8, 1, 3}, DecoderOptions{MaxDepth: 3})
				So(err, ShouldBeNil)
				So(got, ShouldResemble, Array{Array{Null{}}})
			})
		})
	})
}

func TestEncodeErrors(t *testing.T) {
	t.Parallel()

	Convey("encode-time rejection", t, func() {
		enc := NewEncoder(EncoderOptions{})
		So(enc.Value(Int(1)), ShouldBeNil)
		mark := enc.Len()

		Convey("NaN", func() {
			So(enc.Value(Float(math.NaN())), ShouldWrap, ErrUnrepresentable)
			So(enc.Len(), ShouldEqual, mark)
		})

		Convey("infinities", func() {
			So(enc.Value(Float(math.Inf(1))), ShouldWrap, ErrUnrepresentable)
			So(enc.Value(Float(math.Inf(-1))), ShouldWrap, ErrUnrepresentable)
			So(enc.Len(), ShouldEqual, mark)
		})

		Convey("integer magnitude past 32 bits", func() {
			So(enc.Value(Int(1)<<32), ShouldWrap, ErrUnrepresentable)
			So(enc.Value(Int(math.MinInt64)), ShouldWrap, ErrUnrepresentable)
			So(enc.Len(), ShouldEqual, mark)
		})

		Convey("unsupported native kinds", func() {
			So(enc.Native(struct{ X int }{1}), ShouldWrap, ErrUnsupportedType)
			So(enc.Len(), ShouldEqual, mark)
		})

		Convey("nil Value", func() {
			So(enc.Value(nil), ShouldWrap, ErrUnsupportedType)
			So(enc.Len(), ShouldEqual, mark)
		})

		Convey("nesting past the depth limit", func() {
			v := Value(Int(1))
			for i := 0; i < DefaultMaxDepth+1; i++ {
				v = Array{v}
			}
			So(enc.Value(v), ShouldWrap, ErrDepthExceeded)
		})

		Convey("prior output stays decodable", func() {
			_ = enc.Value(Float(math.NaN()))
			got, err := decode(enc.Finalize(), DecoderOptions{})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Int(1))
		})
	})
}

func TestReuse(t *testing.T) {
	t.Parallel()

	Convey("Reset reuse", t, func() {
		enc := NewEncoder(EncoderOptions{InitialCapacity: 16})

		So(enc.Value(Text("first message")), ShouldBeNil)
		first := enc.Finalize()

		enc.Reset()
		So(enc.Len(), ShouldEqual, 0)
		So(enc.Value(Int(2)), ShouldBeNil)
		second := enc.Finalize()

		Convey("snapshots are independent of later use", func() {
			got, err := decode(first, DecoderOptions{})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Text("first message"))
		})

		Convey("decoder rebinds across messages", func() {
			dec := NewDecoder(first, DecoderOptions{})
			got, err := dec.Value()
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Text("first message"))

			dec.Reset(second)
			got, err = dec.Value()
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Int(2))
		})
	})
}

func BenchmarkRoundTrip(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	v := randomValue(r, 5)
	enc := NewEncoder(EncoderOptions{})
	if err := enc.Value(v); err != nil {
		b.Fatal(err)
	}
	data := enc.Finalize()
	dec := NewDecoder(data, DecoderOptions{})
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		enc.Reset()
		if err := enc.Value(v); err != nil {
			b.Fatal(err)
		}
		dec.Reset(data)
		if _, err := dec.Value(); err != nil {
			b.Fatal(err)
		}
	}
}

func TestSingleByteTextMode(t *testing.T) {
	t.Parallel()

	Convey("single-byte text mode end to end", t, func() {
		enc := NewEncoder(EncoderOptions{SingleByteText: true})
		So(enc.Value(Map{{Key: "café", Value: Text("au lait")}}), ShouldBeNil)

		got, err := decode(enc.Finalize(), DecoderOptions{SingleByteText: true})
		So(err, ShouldBeNil)
		So(got, ShouldResemble, Map{{Key: "café", Value: Text("au lait")}})

		Convey("a mismatched reader sees corrupt text, not an error", func() {
			utf8Enc := NewEncoder(EncoderOptions{})
			So(utf8Enc.Value(Text("café")), ShouldBeNil)

			wrong, err := decode(utf8Enc.Finalize(), DecoderOptions{SingleByteText: true})
			So(err, ShouldBeNil)
			So(wrong, ShouldNotResemble, Text("café"))
		})
	})
}
