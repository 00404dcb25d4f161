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
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Server accepts connections and drives each through the session
// loop. A zero-value Server is not usable; build one with NewServer.
type Server struct {
	router *Router

	requestBufsize   int
	maxPayload       int
	maxHeaderBytes   int
	keepAliveTimeout time.Duration
	gracefulShutdown bool
	tlsConfig        *tls.Config

	slogger       *slog.Logger
	observability ObservabilityRecorder
	tracer        dispatchTracer // zero value (nil Tracer) means "no tracing"

	listener net.Listener
	wg       sync.WaitGroup
	closing  atomic.Bool
}

// NewServer builds a Server dispatching to router, applying opts over
// the defaults.
func NewServer(router *Router, opts ...Option) *Server {
	router.Build()
	s := &Server{
		router:           router,
		requestBufsize:   DefaultRequestBufsize,
		maxPayload:       DefaultMaxPayload,
		maxHeaderBytes:   DefaultRequestBufsize,
		keepAliveTimeout: 30 * time.Second,
		gracefulShutdown: true,
		slogger:          noopLogger,
		observability:    noopObservability{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) logger() *slog.Logger { return s.slogger }

func (s *Server) logPanic(r any) {
	s.slogger.Error("panic recovered in handler", "panic", r)
	s.observability.RecordPanic(r)
}

func (s *Server) recordStatus(status Status) {
	s.observability.RecordStatus(status)
}

func (s *Server) recordDuration(status Status, d time.Duration) {
	s.observability.RecordDuration(status, d)
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections from ln until Shutdown is called or ln
// returns a fatal error, spawning one session per connection.
func (s *Server) Serve(ln net.Listener) error {
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}
	s.listener = ln
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closing.Load() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			newSession(s, conn).serve()
		}()
	}
}

// Shutdown stops accepting new connections and waits for in-flight
// sessions to drain, or for ctx to be done, whichever comes first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closing.Store(true)
	if s.listener != nil {
		s.listener.Close()
	}
	if !s.gracefulShutdown {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
