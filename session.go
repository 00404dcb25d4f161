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
	"bytes"
	"errors"
	"io"
	"net"
	"time"
)

// session is the per-connection state a Server drives through the
// read/parse/dispatch/write loop. One session is created per accepted
// connection and never shared across goroutines.
type session struct {
	conn net.Conn
	bw   *bufio.Writer
	srv  *Server
	buf  *readBuffer
	req  Request
}

func newSession(srv *Server, conn net.Conn) *session {
	return &session{
		conn: conn,
		bw:   bufio.NewWriter(conn),
		srv:  srv,
		buf:  newReadBuffer(srv.requestBufsize, srv.maxPayload),
	}
}

// serve runs the session loop until the connection closes, a parse
// error occurs, the peer asks to close, or an upgrade hands the
// connection off to its own handler.
func (s *session) serve() {
	defer s.conn.Close()
	for {
		keepAlive, upgraded := s.serveOne()
		if upgraded || !keepAlive {
			return
		}
		s.buf.reset()
		s.req.reset()
	}
}

// serveOne runs steps 1-4 of the session loop for a single request and
// reports whether the connection should loop back for another (step 5)
// and whether the connection was handed off to a WebSocket handler.
func (s *session) serveOne() (keepAlive, upgraded bool) {
	s.conn.SetReadDeadline(time.Now().Add(s.srv.keepAliveTimeout))

	headerEnd, ok := s.readHeaders()
	if !ok {
		s.logParseError(ErrHeaderTooLarge)
		s.writeAndFlush(Text(StatusRequestHeaderFields, "header block too large"))
		return false, false
	}
	if headerEnd < 0 {
		// connection closed or timed out before a complete request arrived
		return false, false
	}

	result, err := parseRequest(&s.req, s.buf, headerEnd)
	if err != nil {
		s.logParseError(err)
		if errors.Is(err, ErrUnsupportedVersion) {
			s.writeAndFlush(Text(StatusHTTPVersionNotSupp, "http version not supported"))
		} else {
			s.writeAndFlush(Text(StatusBadRequest, "bad request"))
		}
		return false, false
	}

	if result.chunked {
		// chunked request bodies are not decoded; the peer must send a
		// Content-Length it can live with
		s.writeAndFlush(Text(StatusLengthRequired, "length required"))
		return false, false
	}

	if err := s.readBody(result); err != nil {
		s.logParseError(err)
		s.writeAndFlush(Text(StatusPayloadTooLarge, "request body too large"))
		return false, false
	}

	dispatchStart := time.Now()
	resp := s.dispatchAndRecover()
	s.srv.recordDuration(resp.Status, time.Since(dispatchStart))

	if resp.kind == contentWebSocket {
		s.conn.SetReadDeadline(time.Time{})
		serializeResponse(s.bw, resp)
		resp.ws.Serve(UpgradedConn{Conn: s.conn, Reader: s.upgradedReader(), Writer: s.bw})
		return false, true
	}

	if err := serializeResponse(s.bw, resp); err != nil {
		return false, false
	}
	s.srv.recordStatus(resp.Status)

	return result.keepAlive, false
}

// readHeaders reads from the connection into buf until the \r\n\r\n
// terminator is found, returning its offset, or -1 if the connection
// closed with no (or a partial) request pending. ok is false when the
// header block would exceed the server's max header bytes.
func (s *session) readHeaders() (headerEnd int, ok bool) {
	for {
		if end := findHeaderEnd(s.buf.bytes()); end >= 0 {
			if end > s.srv.maxHeaderBytes {
				return 0, false
			}
			return end, true
		}
		if s.buf.filled >= s.srv.maxHeaderBytes {
			return 0, false
		}
		if s.buf.filled == len(s.buf.buf) {
			grow := len(s.buf.buf) * 2
			if grow > s.srv.maxHeaderBytes {
				grow = s.srv.maxHeaderBytes
			}
			s.buf.grow(grow)
		}
		n, err := s.conn.Read(s.buf.buf[s.buf.filled:])
		if n > 0 {
			s.buf.filled += n
		}
		if err != nil {
			return -1, true
		}
		if n == 0 {
			return -1, true
		}
	}
}

// readBody ensures buf holds the full request body, reading more from
// the connection if the header read didn't already pull it in.
func (s *session) readBody(result *parseResult) error {
	if result.contentLength <= 0 {
		s.req.bodyRange = byteRange{}
		return nil
	}
	if result.contentLength > s.srv.maxPayload {
		return ErrBodyTooLarge
	}
	need := result.headerEnd + result.contentLength
	if need > len(s.buf.buf) {
		s.buf.grow(need)
	}
	for s.buf.filled < need {
		n, err := s.conn.Read(s.buf.buf[s.buf.filled:need])
		if n > 0 {
			s.buf.filled += n
		}
		if err != nil {
			return err
		}
	}
	s.req.bodyRange = byteRange{result.headerEnd, need}
	return nil
}

// dispatchAndRecover calls the router, recovering a handler panic into
// a 500. Per-request timeouts are not enforced here: they are the job
// of the fang/timeout package, which races the handler against a timer
// from inside the fang chain rather than the session loop.
func (s *session) dispatchAndRecover() (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			s.srv.logPanic(r)
			resp = Text(StatusInternalServerError, "internal server error")
		}
	}()
	if s.srv.tracer.enabled() {
		return s.srv.tracer.around(&s.req, s.srv.router.Dispatch)
	}
	return s.srv.router.Dispatch(&s.req)
}

// upgradedReader hands an upgrade handler everything the client may
// already have pipelined behind the handshake request, followed by the
// live connection.
func (s *session) upgradedReader() *bufio.Reader {
	consumed := s.req.bodyRange.end
	if consumed == 0 {
		consumed = s.buf.filled
		if end := findHeaderEnd(s.buf.bytes()); end >= 0 {
			consumed = end
		}
	}
	leftover := s.buf.bytes()[consumed:]
	if len(leftover) == 0 {
		return bufio.NewReader(s.conn)
	}
	return bufio.NewReader(io.MultiReader(bytes.NewReader(leftover), s.conn))
}

func (s *session) writeAndFlush(resp *Response) {
	serializeResponse(s.bw, resp)
}

func (s *session) logParseError(err error) {
	s.srv.logger().Warn("request parse error", "error", err)
}
