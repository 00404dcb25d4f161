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

package memory_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-http/lattice"
	"github.com/lattice-http/lattice/fang/memory"
)

type config struct{ greeting string }

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

func TestMemoryFangInjectsSharedValueIntoEveryRequest(t *testing.T) {
	t.Parallel()

	r := lattice.NewRouter()
	r.Use(memory.New(config{greeting: "hi"}))
	r.GET("/greet", lattice.H0(func(req *lattice.Request) *lattice.Response {
		cfg := lattice.MustGetContext[config](req)
		return lattice.Text(lattice.StatusOK, cfg.greeting)
	}))
	srv := lattice.NewServer(r)

	resp := serveOnce(t, srv, "GET /greet HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(body))
}
