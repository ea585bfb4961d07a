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
	"io"

	gol "github.com/op/go-logging"
)

// StandardFormat prefixes each message with time, level and source location.
const StandardFormat = `%{time:15:04:05.000} %{shortfile} %{level:.4s} %{message}`

// New returns a Logger backed by the go-logging library, writing messages of
// the given level or above to w.
func New(w io.Writer, level gol.Level) Logger {
	backend := gol.NewLogBackend(w, "", 0)
	formatted := gol.NewBackendFormatter(backend, gol.MustStringFormatter(StandardFormat))
	leveled := gol.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")

	l := gol.MustGetLogger("treewire")
	l.SetBackend(leveled)
	return &goLogger{l}
}

type goLogger struct {
	l *gol.Logger
}

func (g *goLogger) Debugf(format string, args ...any)   { g.l.Debugf(format, args...) }
func (g *goLogger) Infof(format string, args ...any)    { g.l.Infof(format, args...) }
func (g *goLogger) Warningf(format string, args ...any) { g.l.Warningf(format, args...) }
func (g *goLogger) Errorf(format string, args ...any)   { g.l.Errorf(format, args...) }
