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

// Package accesslog logs one structured line per request that passes
// through its Fang, using log/slog, matching the ambient logging stack
// the rest of the framework is built on. A request whose path matches
// no route gets its 404 from the router without running any fang, so
// it is not logged.
package accesslog

import (
	"log/slog"
	"time"

	"github.com/lattice-http/lattice"
)

// Option configures New.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

func defaultConfig() *config { return &config{logger: slog.Default()} }

// WithLogger overrides the default slog.Default().
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// Fang logs method, path, status, and latency for every request it
// wraps; unmatched paths are not wrapped.
type Fang struct {
	cfg *config
}

// New builds an accesslog Fang.
func New(opts ...Option) Fang {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return Fang{cfg: cfg}
}

type startedAt time.Time

func (f Fang) Fore(req *lattice.Request) *lattice.Response {
	lattice.SetContext(req, startedAt(time.Now()))
	return nil
}

func (f Fang) Back(req *lattice.Request, resp *lattice.Response) {
	start, ok := lattice.GetContext[startedAt](req)
	elapsed := time.Duration(0)
	if ok {
		elapsed = time.Since(time.Time(start))
	}
	f.cfg.logger.Info("request",
		"method", req.Method.String(),
		"path", req.Path(),
		"status", resp.Status,
		"elapsed", elapsed,
	)
}
