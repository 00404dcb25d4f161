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

package timeout_test

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
	"github.com/lattice-http/lattice/fang/timeout"
)

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

func TestTimeoutWrapLetsFastHandlerThrough(t *testing.T) {
	t.Parallel()

	fast := func(req *lattice.Request) *lattice.Response { return lattice.Text(lattice.StatusOK, "done") }
	r := lattice.NewRouter()
	r.GET("/fast", lattice.H0(timeout.Wrap(fast, timeout.WithDuration(time.Second))))
	srv := lattice.NewServer(r)

	resp := serveOnce(t, srv, "GET /fast HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")
	assert.Equal(t, 200, resp.StatusCode)
}

func TestTimeoutWrapReturns500WhenHandlerOverruns(t *testing.T) {
	t.Parallel()

	slow := func(req *lattice.Request) *lattice.Response {
		time.Sleep(200 * time.Millisecond)
		return lattice.Text(lattice.StatusOK, "too late")
	}
	r := lattice.NewRouter()
	r.GET("/slow", lattice.H0(timeout.Wrap(slow, timeout.WithDuration(20*time.Millisecond))))
	srv := lattice.NewServer(r)

	resp := serveOnce(t, srv, "GET /slow HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")
	assert.Equal(t, 500, resp.StatusCode)
}
