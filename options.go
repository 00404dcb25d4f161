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

package lattice

import (
	"crypto/tls"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Server at construction time.
type Option func(*Server)

// WithRequestBufsize sets the initial per-connection read buffer
// capacity. Headers that don't fit within WithMaxHeaderBytes yield 431.
func WithRequestBufsize(n int) Option {
	return func(s *Server) { s.requestBufsize = n }
}

// WithMaxHeaderBytes caps how large the request line + header block may
// grow before a 431 is returned.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) { s.maxHeaderBytes = n }
}

// WithMaxPayload caps the request body size; larger bodies yield 413.
func WithMaxPayload(n int) Option {
	return func(s *Server) { s.maxPayload = n }
}

// WithKeepAliveTimeout sets the idle timeout between requests on a
// keep-alive connection.
func WithKeepAliveTimeout(d time.Duration) Option {
	return func(s *Server) { s.keepAliveTimeout = d }
}

// WithGracefulShutdown controls whether Shutdown drains in-flight
// sessions (true, the default) or returns immediately after closing the
// listener.
func WithGracefulShutdown(enabled bool) Option {
	return func(s *Server) { s.gracefulShutdown = enabled }
}

// WithTLSConfig wraps accepted connections in TLS using cfg.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(s *Server) { s.tlsConfig = cfg }
}

// WithLogger sets the structured logger used for session-loop events
// (parse errors, panics). Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.slogger = l
		}
	}
}

// WithObservability installs a recorder for dispatch metrics; tracing
// is configured separately with WithTracer.
// Defaults to a no-op recorder.
func WithObservability(o ObservabilityRecorder) Option {
	return func(s *Server) {
		if o != nil {
			s.observability = o
		}
	}
}

// WithTracer starts a "METHOD path" span around every dispatch, using
// tracer. Unset, dispatch runs with no span.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		if tracer != nil {
			s.tracer = newDispatchTracer(tracer)
		}
	}
}

// WithMeter is shorthand for WithObservability(NewOTelObservability(meter)),
// panicking if the counters fail to register (only possible on a
// misconfigured meter provider).
func WithMeter(meter metric.Meter) Option {
	return func(s *Server) {
		rec, err := NewOTelObservability(meter)
		if err != nil {
			panic(err)
		}
		s.observability = rec
	}
}
