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
	"crypto/sha1"
	"encoding/base64"
	"net"
	"strings"
)

// websocketGUID is the fixed magic string RFC 6455 mixes into the
// handshake.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// UpgradedConn is the raw connection handed to a WebSocketHandler once
// the 101 response has been written. Reader/Writer are the session's
// buffered I/O (which may still hold bytes the client pipelined right
// after the handshake), so the handler must read through them rather
// than through Conn directly.
type UpgradedConn struct {
	net.Conn
	Reader *bufio.Reader
	Writer *bufio.Writer
}

// IsUpgradeRequest reports whether req carries the RFC 6455 handshake
// headers: Upgrade: websocket, Sec-WebSocket-Version: 13, and a
// present Sec-WebSocket-Key.
func IsUpgradeRequest(req *Request) bool {
	upgrade, _ := req.Header("Upgrade")
	version, _ := req.Header("Sec-WebSocket-Version")
	_, hasKey := req.Header("Sec-WebSocket-Key")
	return strings.EqualFold(upgrade, "websocket") && version == "13" && hasKey
}

// Upgrade builds the 101 Switching Protocols response that completes a
// WebSocket handshake, wiring handler as the session handle the
// connection is handed to once the response is flushed. Returns
// ErrNotUpgradeRequest if req does not carry a valid handshake.
func Upgrade(req *Request, handler WebSocketHandler) (*Response, error) {
	if !IsUpgradeRequest(req) {
		return nil, ErrNotUpgradeRequest
	}
	key, _ := req.Header("Sec-WebSocket-Key")
	return upgradeResponse(computeAcceptKey(key), handler), nil
}

// computeAcceptKey implements the Sec-WebSocket-Accept recipe:
// base64(SHA-1(key + websocketGUID)).
func computeAcceptKey(key string) string {
	h := sha1.New()
	h.Write([]byte(key))
	h.Write([]byte(websocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
