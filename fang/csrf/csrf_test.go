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

package csrf_test

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-http/lattice"
	"github.com/lattice-http/lattice/fang/csrf"
)

// serveOnce starts srv on an ephemeral loopback port, sends raw over a
// fresh connection, and returns the parsed response. The server is shut
// down before returning.
func serveOnce(t *testing.T, srv *lattice.Server, raw string) *http.Response {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go srv.Serve(ln)
	defer srv.Shutdown(context.Background())

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(raw))
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	return resp
}

func newCsrfRouter(opts ...csrf.Option) *lattice.Router {
	r := lattice.NewRouter()
	r.Use(csrf.New(opts...))
	r.GET("/data", lattice.H0(func(req *lattice.Request) *lattice.Response {
		return lattice.Text(lattice.StatusOK, "ok")
	}))
	r.POST("/data", lattice.H0(func(req *lattice.Request) *lattice.Response {
		return lattice.Text(lattice.StatusOK, "written")
	}))
	return r
}

func TestCsrfSafeMethodAlwaysPasses(t *testing.T) {
	t.Parallel()

	srv := lattice.NewServer(newCsrfRouter())
	raw := "GET /data HTTP/1.1\r\nHost: x\r\nSec-Fetch-Site: cross-site\r\nConnection: close\r\n\r\n"

	resp := serveOnce(t, srv, raw)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCsrfSameOriginSecFetchSitePasses(t *testing.T) {
	t.Parallel()

	srv := lattice.NewServer(newCsrfRouter())
	raw := "POST /data HTTP/1.1\r\nHost: x\r\nContent-Length: 0\r\n" +
		"Sec-Fetch-Site: same-origin\r\nConnection: close\r\n\r\n"

	resp := serveOnce(t, srv, raw)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCsrfCrossSiteSecFetchSiteIs403(t *testing.T) {
	t.Parallel()

	srv := lattice.NewServer(newCsrfRouter())
	raw := "POST /data HTTP/1.1\r\nHost: x\r\nContent-Length: 0\r\n" +
		"Sec-Fetch-Site: cross-site\r\nConnection: close\r\n\r\n"

	resp := serveOnce(t, srv, raw)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestCsrfCrossSiteTrustedOriginPasses(t *testing.T) {
	t.Parallel()

	srv := lattice.NewServer(newCsrfRouter(csrf.WithTrustedOrigins("https://partner.example")))
	raw := "POST /data HTTP/1.1\r\nHost: x\r\nContent-Length: 0\r\n" +
		"Origin: https://partner.example\r\nSec-Fetch-Site: cross-site\r\nConnection: close\r\n\r\n"

	resp := serveOnce(t, srv, raw)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCsrfNoSecFetchSiteOriginMatchingHostPasses(t *testing.T) {
	t.Parallel()

	srv := lattice.NewServer(newCsrfRouter())
	raw := "POST /data HTTP/1.1\r\nHost: app.example\r\nContent-Length: 0\r\n" +
		"Origin: https://app.example\r\nConnection: close\r\n\r\n"

	resp := serveOnce(t, srv, raw)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCsrfNoSecFetchSiteMismatchedOriginIs403(t *testing.T) {
	t.Parallel()

	srv := lattice.NewServer(newCsrfRouter())
	raw := "POST /data HTTP/1.1\r\nHost: app.example\r\nContent-Length: 0\r\n" +
		"Origin: https://evil.example\r\nConnection: close\r\n\r\n"

	resp := serveOnce(t, srv, raw)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestCsrfNoSecFetchSiteTrustedOriginPasses(t *testing.T) {
	t.Parallel()

	srv := lattice.NewServer(newCsrfRouter(csrf.WithTrustedOrigins("https://partner.example")))
	raw := "POST /data HTTP/1.1\r\nHost: app.example\r\nContent-Length: 0\r\n" +
		"Origin: https://partner.example\r\nConnection: close\r\n\r\n"

	resp := serveOnce(t, srv, raw)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCsrfNoBrowserHeadersPasses(t *testing.T) {
	t.Parallel()

	srv := lattice.NewServer(newCsrfRouter())
	raw := "POST /data HTTP/1.1\r\nHost: x\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"

	resp := serveOnce(t, srv, raw)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCsrfWithTrustedOriginsValidatesEntries(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { csrf.WithTrustedOrigins("partner.example") })
	assert.Panics(t, func() { csrf.WithTrustedOrigins("ftp://partner.example") })
	assert.Panics(t, func() { csrf.WithTrustedOrigins("https://partner.example/path") })
	assert.Panics(t, func() { csrf.WithTrustedOrigins("https://") })
	assert.NotPanics(t, func() { csrf.WithTrustedOrigins("https://partner.example") })
}
