// Copyright 2025 The Lattice Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package timeout bounds how long the rest of the fang chain (and the
// handler) may run: the wrapped procedure runs on its own goroutine
// and its result channel is raced against a timer; whichever finishes
// first wins, and a timeout yields a 500 "timeout" response.
//
// The handler goroutine is not forcibly killed on timeout (Go provides
// no such primitive short of the process exiting); it is abandoned to
// finish and be garbage collected once it returns.
package timeout

import (
	"time"

	"github.com/lattice-http/lattice"
)

// Option configures Wrap.
type Option func(*config)

type config struct {
	duration time.Duration
}

func defaultConfig() *config { return &config{duration: 30 * time.Second} }

// WithDuration overrides the default 30s budget.
func WithDuration(d time.Duration) Option { return func(c *config) { c.duration = d } }

// racingFang runs the remainder of the chain itself rather than
// through the ordinary Fore/Back split, which is why the package
// exposes Wrap instead of a Fang value.
type racingFang struct {
	cfg  *config
	next lattice.Procedure
}

// Wrap races inner against the configured duration, returning a
// Procedure that yields a 500 "timeout" body if inner doesn't finish
// in time. Install it by composing routes through this instead of
// registering an ordinary Fang: a plain Fore/Back pair has no way to
// run the rest of the chain on its own goroutine.
func Wrap(inner lattice.Procedure, opts ...Option) lattice.Procedure {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	rf := racingFang{cfg: cfg, next: inner}
	return rf.run
}

func (f racingFang) run(req *lattice.Request) *lattice.Response {
	done := make(chan *lattice.Response, 1)
	go func() {
		done <- f.next(req)
	}()
	select {
	case resp := <-done:
		return resp
	case <-time.After(f.cfg.duration):
		return lattice.Text(lattice.StatusInternalServerError, "timeout")
	}
}
