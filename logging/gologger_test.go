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

package logging

import (
	"bytes"
	"testing"

	gol "github.com/op/go-logging"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGoLogger(t *testing.T) {
	Convey("go-logging backed Logger", t, func() {
		buf := &bytes.Buffer{}
		l := New(buf, gol.WARNING)

		Convey("logs at or above the configured level", func() {
			l.Warningf("key %q missing", "username")
			So(buf.String(), ShouldContainSubstring, `key "username" missing`)
			So(buf.String(), ShouldContainSubstring, "WARN")
		})

		Convey("drops messages below it", func() {
			l.Debugf("noise")
			l.Infof("more noise")
			So(buf.String(), ShouldBeEmpty)
		})
	})
}

func TestNull(t *testing.T) {
	t.Parallel()

	Convey("Null logger discards silently", t, func() {
		So(func() {
			Null.Debugf("a")
			Null.Infof("b %d", 1)
			Null.Warningf("c")
			Null.Errorf("d")
		}, ShouldNotPanic)
	})
}
