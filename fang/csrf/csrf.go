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

// Package csrf implements token-less cross-origin request protection,
// modeled on Go 1.25 net/http's CrossOriginProtection: state-changing
// requests must arrive with a Sec-Fetch-Site of "same-origin" or
// "none", falling back (for browsers that don't send that header) to
// comparing the Origin header against the request's Host. No cookie or
// hidden form token is involved. Requests from explicitly trusted
// origins pass either check.
//
// Safe methods (GET, HEAD, OPTIONS) are never blocked, and a request
// carrying neither Sec-Fetch-Site nor Origin is assumed to come from a
// non-browser client and passes.
package csrf

import (
	"fmt"
	"strings"

	"github.com/lattice-http/lattice"
)

// Option configures New.
type Option func(*config)

type config struct {
	trustedOrigins []string
}

func defaultConfig() *config { return &config{} }

// WithTrustedOrigins exempts the listed origins from the cross-origin
// check, for services legitimately called from other hosts. Each entry
// must be a bare origin: an http or https scheme plus host, with no
// path, query, or fragment. An invalid entry panics at construction.
func WithTrustedOrigins(origins ...string) Option {
	for _, origin := range origins {
		scheme, rest, ok := strings.Cut(origin, "://")
		if !ok {
			panic(fmt.Sprintf("csrf: invalid origin %q: scheme is required", origin))
		}
		if scheme != "http" && scheme != "https" {
			panic(fmt.Sprintf("csrf: invalid origin %q: scheme must be 'http' or 'https'", origin))
		}
		if strings.ContainsAny(rest, "/?#") {
			panic(fmt.Sprintf("csrf: invalid origin %q: path, query and fragment are not allowed", origin))
		}
		if rest == "" || !isASCIIAlphanumeric(rest[0]) {
			panic(fmt.Sprintf("csrf: invalid origin %q: host is required", origin))
		}
	}
	return func(c *config) { c.trustedOrigins = origins }
}

func isASCIIAlphanumeric(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// Fang is the compiled CSRF middleware: a Fore that rejects suspected
// cross-origin state changes with 403 before the handler runs.
type Fang struct {
	lattice.BaseFang
	cfg *config
}

// New builds a CSRF Fang.
func New(opts ...Option) Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return Fang{cfg: cfg}
}

func (f Fang) trusted(origin string) bool {
	for _, o := range f.cfg.trustedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func (f Fang) Fore(req *lattice.Request) *lattice.Response {
	if req.Method.IsSafe() {
		return nil
	}

	origin, _ := req.Header("Origin")

	if site, ok := req.Header("Sec-Fetch-Site"); ok {
		if site == "same-origin" || site == "none" || f.trusted(origin) {
			return nil
		}
		return lattice.Text(lattice.StatusForbidden,
			"cross-origin request detected from Sec-Fetch-Site header")
	}

	if origin == "" {
		// no Origin header: same-origin or not a browser request
		return nil
	}
	if req.Host == "" {
		return lattice.Text(lattice.StatusBadRequest, "bad request")
	}
	if origin == "http://"+req.Host || origin == "https://"+req.Host || f.trusted(origin) {
		return nil
	}
	return lattice.Text(lattice.StatusForbidden,
		"cross-origin request detected, and/or browser is out of date: "+
			"Sec-Fetch-Site is missing, and Origin does not match Host")
}
