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

// Package requestid attaches a unique id to every request, echoing a
// client-supplied id when present and otherwise generating a new UUIDv7
// (time-ordered, lexicographically sortable).
package requestid

import (
	"github.com/google/uuid"

	"github.com/lattice-http/lattice"
)

// ID is the context-store type requestid stores its value under.
// The context store is keyed by Go type (see lattice.SetContext), so a
// distinct named type, rather than a bare string, keeps this fang
// from colliding with any other string a later fang might store.
type ID string

// Option configures New.
type Option func(*config)

type config struct {
	header        string
	allowClientID bool
	generator     func() string
}

func defaultConfig() *config {
	return &config{
		header:        "X-Request-Id",
		allowClientID: true,
		generator:     func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// WithHeader overrides the header name ("X-Request-Id" by default).
func WithHeader(name string) Option { return func(c *config) { c.header = name } }

// WithAllowClientID controls whether an incoming header value is
// trusted as-is (the default) instead of always generating a fresh id.
func WithAllowClientID(allow bool) Option { return func(c *config) { c.allowClientID = allow } }

// WithGenerator overrides the id generator function.
func WithGenerator(gen func() string) Option { return func(c *config) { c.generator = gen } }

// Fang is the compiled requestid middleware: a Fore that assigns the
// id into the request's context store, and a Back that copies it into
// the response header.
type Fang struct {
	lattice.BaseFang
	cfg *config
}

// New builds a requestid Fang.
func New(opts ...Option) Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return Fang{cfg: cfg}
}

func (f Fang) Fore(req *lattice.Request) *lattice.Response {
	id := ""
	if f.cfg.allowClientID {
		id, _ = req.Header(f.cfg.header)
	}
	if id == "" {
		id = f.cfg.generator()
	}
	lattice.SetContext(req, ID(id))
	return nil
}

func (f Fang) Back(req *lattice.Request, resp *lattice.Response) {
	id, ok := lattice.GetContext[ID](req)
	if !ok {
		return
	}
	resp.SetHeader(f.cfg.header, string(id))
}

// Get reads the id a requestid Fang stored on req's context store.
func Get(req *lattice.Request) (string, bool) {
	id, ok := lattice.GetContext[ID](req)
	return string(id), ok
}
