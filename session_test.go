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
	"bufio"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSessionHarness starts a session for srv over one end of a
// net.Pipe and returns the client end, a reader for net/http's own
// response parser (chunked decoding included), and a channel closed
// when the session loop exits.
func newSessionHarness(t *testing.T, srv *Server) (client net.Conn, br *bufio.Reader, done <-chan struct{}) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	finished := make(chan struct{})
	go func() {
		newSession(srv, serverConn).serve()
		close(finished)
	}()
	return clientConn, bufio.NewReader(clientConn), finished
}

func sendAndRead(t *testing.T, client net.Conn, br *bufio.Reader, raw string) *http.Response {
	t.Helper()
	_, err := client.Write([]byte(raw))
	require.NoError(t, err)
	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	resp, err := http.ReadResponse(br, nil)
	require.NoError(t, err)
	return resp
}

func TestSessionServesGETAndClosesOnConnectionClose(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.GET("/hello", H0(func(req *Request) *Response { return Text(StatusOK, "Hello, world!") }))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)
	resp := sendAndRead(t, client, br, "GET /hello HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")

	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Hello, world!", string(body))

	client.Close()
	<-done
}

// A back fang sets Server: ohkami; a 204 route has no body and still
// carries the header.
func TestSessionBackFangSetsHeaderOnNoContent(t *testing.T) {
	t.Parallel()

	setServer := FangFunc{
		BackFunc: func(req *Request, resp *Response) { resp.SetHeader("Server", "ohkami") },
	}
	r := NewRouter()
	r.Use(setServer)
	r.GET("/hc", H0(func(req *Request) *Response { return NoContent() }))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)
	resp := sendAndRead(t, client, br, "GET /hc HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")

	assert.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, "ohkami", resp.Header.Get("Server"))
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)

	client.Close()
	<-done
}

// A JSON body extractor whose struct requires name, with age optional
// and defaulting to zero.
func TestSessionJSONBodyExtractorDefaultsOptionalField(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.POST("/users", H1(JSONBody[userCreate](), func(req *Request, u userCreate) *Response {
		if u.Name == "" {
			return Text(StatusBadRequest, "name required")
		}
		return JSON(StatusCreated, u)
	}))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)
	body := `{"name":"k"}`
	raw := "POST /users HTTP/1.1\r\nHost: x\r\nContent-Type: application/json\r\nContent-Length: " +
		strconv.Itoa(len(body)) + "\r\nConnection: close\r\n\r\n" + body
	resp := sendAndRead(t, client, br, raw)

	assert.Equal(t, 201, resp.StatusCode)
	respBody, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"name":"k","age":0}`, string(respBody))

	client.Close()
	<-done
}

func TestSessionJSONBodyExtractorRejectsMissingRequiredField(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.POST("/users", H1(JSONBody[userCreate](), func(req *Request, u userCreate) *Response {
		if u.Name == "" {
			return Text(StatusBadRequest, "name required")
		}
		return JSON(StatusCreated, u)
	}))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)
	raw := "POST /users HTTP/1.1\r\nHost: x\r\nContent-Type: application/json\r\nContent-Length: 2\r\nConnection: close\r\n\r\n{}"
	resp := sendAndRead(t, client, br, raw)

	assert.Equal(t, 400, resp.StatusCode)

	client.Close()
	<-done
}

func TestSessionKeepAliveServesMultipleRequests(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	count := 0
	r.GET("/ping", H0(func(req *Request) *Response {
		count++
		return Text(StatusOK, "pong")
	}))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)

	resp1 := sendAndRead(t, client, br, "GET /ping HTTP/1.1\r\nHost: x\r\n\r\n")
	io.ReadAll(resp1.Body)
	assert.Equal(t, 200, resp1.StatusCode)

	resp2 := sendAndRead(t, client, br, "GET /ping HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")
	io.ReadAll(resp2.Body)
	assert.Equal(t, 200, resp2.StatusCode)

	assert.Equal(t, 2, count)

	client.Close()
	<-done
}

func TestSessionUnknownRouteIs404(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.GET("/known", H0(func(req *Request) *Response { return NoContent() }))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)
	resp := sendAndRead(t, client, br, "GET /unknown HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")
	assert.Equal(t, 404, resp.StatusCode)

	client.Close()
	<-done
}

func TestSessionPanicRecoveredAs500(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.GET("/boom", H0(func(req *Request) *Response { panic("kaboom") }))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)
	resp := sendAndRead(t, client, br, "GET /boom HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")
	assert.Equal(t, 500, resp.StatusCode)

	client.Close()
	<-done
}

func TestSessionOversizedHeaderBlockIs431(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.GET("/x", H0(func(req *Request) *Response { return NoContent() }))
	srv := NewServer(r, WithMaxHeaderBytes(64))

	client, br, done := newSessionHarness(t, srv)
	raw := "GET /x HTTP/1.1\r\nHost: x\r\nX-Padding: " + strings.Repeat("a", 200) + "\r\n\r\n"
	resp := sendAndRead(t, client, br, raw)

	assert.Equal(t, 431, resp.StatusCode)

	client.Close()
	<-done
}

func TestSessionOversizedBodyIs413(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.POST("/x", H0(func(req *Request) *Response { return NoContent() }))
	srv := NewServer(r, WithMaxPayload(8))

	client, br, done := newSessionHarness(t, srv)
	body := strings.Repeat("a", 64)
	raw := "POST /x HTTP/1.1\r\nHost: x\r\nContent-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body
	resp := sendAndRead(t, client, br, raw)

	assert.Equal(t, 413, resp.StatusCode)

	client.Close()
	<-done
}

type userCreate struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestSessionUnsupportedVersionIs505(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.GET("/x", H0(func(req *Request) *Response { return NoContent() }))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)
	resp := sendAndRead(t, client, br, "GET /x HTTP/3.0\r\nHost: x\r\n\r\n")
	assert.Equal(t, 505, resp.StatusCode)

	client.Close()
	<-done
}

func TestSessionChunkedRequestBodyIs411(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.POST("/x", H0(func(req *Request) *Response { return NoContent() }))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)
	raw := "POST /x HTTP/1.1\r\nHost: x\r\nTransfer-Encoding: chunked\r\n\r\n"
	resp := sendAndRead(t, client, br, raw)
	assert.Equal(t, 411, resp.StatusCode)

	client.Close()
	<-done
}

func TestSessionConditionalGETAnswers304OnETagMatch(t *testing.T) {
	t.Parallel()

	const tag = "v1"
	r := NewRouter()
	r.GET("/doc", H0(func(req *Request) *Response {
		if req.NotModified(tag) {
			return NotModified().ETag(tag, false)
		}
		return Text(StatusOK, "full entity").ETag(tag, false)
	}))
	srv := NewServer(r)

	client, br, done := newSessionHarness(t, srv)

	resp1 := sendAndRead(t, client, br, "GET /doc HTTP/1.1\r\nHost: x\r\n\r\n")
	body, _ := io.ReadAll(resp1.Body)
	assert.Equal(t, 200, resp1.StatusCode)
	assert.Equal(t, "full entity", string(body))
	assert.Equal(t, `"v1"`, resp1.Header.Get("ETag"))

	resp2 := sendAndRead(t, client, br,
		"GET /doc HTTP/1.1\r\nHost: x\r\nIf-None-Match: \"v1\"\r\nConnection: close\r\n\r\n")
	assert.Equal(t, 304, resp2.StatusCode)
	body, _ = io.ReadAll(resp2.Body)
	assert.Empty(t, body)

	client.Close()
	<-done
}
