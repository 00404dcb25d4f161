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

// Package cors implements Cross-Origin Resource Sharing as a fang,
// answering preflight OPTIONS requests directly and annotating every
// other response with the matching Access-Control-* headers.
package cors

import (
	"strconv"
	"strings"

	"github.com/lattice-http/lattice"
)

// Option configures New.
type Option func(*config)

type config struct {
	allowedOrigins   []string
	allowAllOrigins  bool
	allowedMethods   []string
	allowedHeaders   []string
	exposedHeaders   []string
	allowCredentials bool
	maxAge           int
}

func defaultConfig() *config {
	return &config{
		allowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		allowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		maxAge:         600,
	}
}

// WithAllowedOrigins restricts allowed origins to an explicit list.
func WithAllowedOrigins(origins ...string) Option {
	return func(c *config) { c.allowedOrigins = origins; c.allowAllOrigins = false }
}

// WithAllowAllOrigins answers every origin with "*" (or, when
// credentials are allowed, echoes the request's Origin, since "*" is invalid
// alongside Access-Control-Allow-Credentials: true per the fetch spec).
func WithAllowAllOrigins(allow bool) Option { return func(c *config) { c.allowAllOrigins = allow } }

// WithAllowedMethods overrides the default method list.
func WithAllowedMethods(methods ...string) Option {
	return func(c *config) { c.allowedMethods = methods }
}

// WithAllowedHeaders overrides the default allowed request headers.
func WithAllowedHeaders(headers ...string) Option {
	return func(c *config) { c.allowedHeaders = headers }
}

// WithExposedHeaders sets Access-Control-Expose-Headers.
func WithExposedHeaders(headers ...string) Option {
	return func(c *config) { c.exposedHeaders = headers }
}

// WithAllowCredentials sets Access-Control-Allow-Credentials: true.
func WithAllowCredentials(allow bool) Option {
	return func(c *config) { c.allowCredentials = allow }
}

// WithMaxAge sets Access-Control-Max-Age, in seconds.
func WithMaxAge(seconds int) Option { return func(c *config) { c.maxAge = seconds } }

// Fang is the compiled CORS middleware.
type Fang struct {
	lattice.BaseFang
	cfg *config
}

// New builds a CORS Fang.
func New(opts ...Option) Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return Fang{cfg: cfg}
}

func (f Fang) originAllowed(origin string) (string, bool) {
	if origin == "" {
		return "", false
	}
	if f.cfg.allowAllOrigins {
		if f.cfg.allowCredentials {
			return origin, true
		}
		return "*", true
	}
	for _, o := range f.cfg.allowedOrigins {
		if o == origin {
			return origin, true
		}
	}
	return "", false
}

// Fore answers preflight OPTIONS requests directly and, for every other
// request, stashes the matched allow-origin value for Back to stamp
// onto the response headers once the handler's status is known.
func (f Fang) Fore(req *lattice.Request) *lattice.Response {
	origin, _ := req.Header("Origin")
	allowOrigin, ok := f.originAllowed(origin)

	if req.Method == lattice.OPTIONS {
		resp := lattice.NoContent()
		if ok {
			f.applyCommon(resp, allowOrigin)
			resp.SetHeader("Access-Control-Allow-Methods", strings.Join(f.cfg.allowedMethods, ", "))
			resp.SetHeader("Access-Control-Allow-Headers", strings.Join(f.cfg.allowedHeaders, ", "))
			resp.SetHeader("Access-Control-Max-Age", strconv.Itoa(f.cfg.maxAge))
		}
		return resp
	}

	if ok {
		lattice.SetContext(req, allowOriginHeader(allowOrigin))
	}
	return nil
}

func (f Fang) Back(req *lattice.Request, resp *lattice.Response) {
	allowOrigin, ok := lattice.GetContext[allowOriginHeader](req)
	if !ok {
		return
	}
	f.applyCommon(resp, string(allowOrigin))
}

func (f Fang) applyCommon(resp *lattice.Response, allowOrigin string) {
	resp.SetHeader("Access-Control-Allow-Origin", allowOrigin)
	if f.cfg.allowCredentials {
		resp.SetHeader("Access-Control-Allow-Credentials", "true")
	}
	if len(f.cfg.exposedHeaders) > 0 {
		resp.SetHeader("Access-Control-Expose-Headers", strings.Join(f.cfg.exposedHeaders, ", "))
	}
	resp.SetHeader("Vary", "Origin")
}

type allowOriginHeader string
