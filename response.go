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

import "encoding/json"

// contentKind is Response's content variant discriminator.
type contentKind uint8

const (
	contentEmpty contentKind = iota
	contentPayload
	contentStream
	contentWebSocket
)

// StreamFunc produces a response body as a sequence of chunks. It is
// called once by the serializer with a yield callback; returning from
// StreamFunc (or yield returning false, meaning the peer went away)
// ends the stream. A non-nil error on any chunk aborts the stream: that
// chunk is not written, and neither is the terminating zero-length
// chunk.
type StreamFunc func(yield func(chunk []byte, err error) bool)

// WebSocketHandler is handed the raw, already-upgraded connection after
// the 101 response has been written. Framing (ping/pong, text/binary
// frames) is not this package's job; callers wire in their own codec
// (e.g. gorilla/websocket) here.
type WebSocketHandler interface {
	Serve(conn UpgradedConn)
}

// Response is status + headers + exactly one content variant. Status
// 204/304 must pair with contentEmpty; NoContent and NotModified
// enforce this; Payload/Stream/Upgrade helpers set the variant that
// matches their name.
type Response struct {
	Status  Status
	Headers Headers

	kind    contentKind
	payload CowSlice
	stream  StreamFunc
	ws      WebSocketHandler
}

// Empty builds a bodyless response, e.g. for 204 No Content.
func Empty(status Status) *Response {
	return &Response{Status: status, kind: contentEmpty}
}

// NoContent is Empty(204).
func NoContent() *Response { return Empty(StatusNoContent) }

// NotModified is Empty(304).
func NotModified() *Response { return Empty(StatusNotModified) }

// Bytes builds a payload response from raw bytes and an explicit
// Content-Type.
func Bytes(status Status, contentType string, body []byte) *Response {
	r := &Response{Status: status, kind: contentPayload, payload: Owned(body)}
	r.Headers.SetString("Content-Type", contentType)
	return r
}

// Text builds a "text/plain; charset=utf-8" payload response.
func Text(status Status, body string) *Response {
	return Bytes(status, "text/plain; charset=utf-8", []byte(body))
}

// HTML builds a "text/html; charset=utf-8" payload response.
func HTML(status Status, body string) *Response {
	return Bytes(status, "text/html; charset=utf-8", []byte(body))
}

// JSON marshals v and builds an "application/json" payload response.
// A marshal error becomes a 500 with the error text as body; handler-
// side failures surface as responses, not a distinct error channel.
func JSON(status Status, v any) *Response {
	b, err := json.Marshal(v)
	if err != nil {
		return Text(StatusInternalServerError, err.Error())
	}
	return Bytes(status, "application/json; charset=utf-8", b)
}

// Stream builds a chunked-transfer streaming response.
func Stream(status Status, contentType string, fn StreamFunc) *Response {
	r := &Response{Status: status, kind: contentStream, stream: fn}
	r.Headers.SetString("Content-Type", contentType)
	return r
}

// upgradeResponse builds the 101 Switching Protocols response for a WebSocket
// handshake; see ws.go for the full handshake helper that fills in
// Sec-WebSocket-Accept and calls this.
func upgradeResponse(acceptKey string, handler WebSocketHandler) *Response {
	r := &Response{Status: StatusSwitchingProtocols, kind: contentWebSocket, ws: handler}
	r.Headers.SetString("Upgrade", "websocket")
	r.Headers.SetString("Connection", "Upgrade")
	r.Headers.SetString("Sec-WebSocket-Accept", acceptKey)
	return r
}

// SetHeader is a chainable header setter for response builders.
func (r *Response) SetHeader(name, value string) *Response {
	r.Headers.SetString(name, value)
	return r
}

// ETag sets the ETag header; weak ETags are prefixed with W/ per RFC 7232.
func (r *Response) ETag(value string, weak bool) *Response {
	if weak {
		value = "W/\"" + value + "\""
	} else {
		value = "\"" + value + "\""
	}
	r.Headers.SetString("ETag", value)
	return r
}
