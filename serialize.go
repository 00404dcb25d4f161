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
	"fmt"
	"strconv"
	"time"
)

// writeStatusLine writes "HTTP/1.1 <code> <reason>\r\n".
func writeStatusLine(w *bufio.Writer, status Status) error {
	_, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", status, ReasonPhrase(status))
	return err
}

// writeHeaders writes every present header (known set first, in
// insertion order, then custom) as "Name: value\r\n" lines. When the
// handler set no Date, one is stamped here, at send time; a Date the
// handler set is written unchanged.
func writeHeaders(w *bufio.Writer, h *Headers) error {
	if !h.present[HDate] {
		h.SetString("Date", time.Now().UTC().Format(httpTimeFormat))
	}
	var writeErr error
	h.Each(func(name, value string) {
		if writeErr != nil {
			return
		}
		_, writeErr = fmt.Fprintf(w, "%s: %s\r\n", name, value)
	})
	return writeErr
}

const httpTimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// serializeResponse writes resp to w in full: status line, headers,
// blank line, then the body appropriate to resp's content variant.
// Returns the first write error, if any; whether the connection is
// kept alive afterward is decided by the caller.
func serializeResponse(w *bufio.Writer, resp *Response) error {
	switch resp.kind {
	case contentEmpty:
		// 1xx/204/304 must not carry Content-Length at all (RFC 7230 §3.3.2)
		if resp.Status >= 200 && resp.Status != StatusNoContent && resp.Status != StatusNotModified {
			resp.Headers.SetString("Content-Length", "0")
		} else {
			resp.Headers.Delete("Content-Length")
		}
	case contentPayload:
		resp.Headers.SetString("Content-Length", strconv.Itoa(len(resp.payload.Bytes())))
	case contentStream:
		resp.Headers.SetString("Transfer-Encoding", "chunked")
		resp.Headers.Delete("Content-Length")
	case contentWebSocket:
		resp.Headers.Delete("Content-Length")
	}

	if err := writeStatusLine(w, resp.Status); err != nil {
		return err
	}
	if err := writeHeaders(w, &resp.Headers); err != nil {
		return err
	}
	if _, err := w.WriteString("\r\n"); err != nil {
		return err
	}

	switch resp.kind {
	case contentPayload:
		if _, err := w.Write(resp.payload.Bytes()); err != nil {
			return err
		}
	case contentStream:
		if err := writeChunked(w, resp.stream); err != nil {
			return err
		}
	}
	return w.Flush()
}

// writeChunked drains fn, framing each chunk as "<hex-len>\r\n<bytes>\r\n"
// and terminating with the zero-size chunk.
func writeChunked(w *bufio.Writer, fn StreamFunc) error {
	if fn == nil {
		_, err := w.WriteString("0\r\n\r\n")
		return err
	}
	var writeErr error
	fn(func(chunk []byte, chunkErr error) bool {
		if chunkErr != nil {
			writeErr = chunkErr
			return false
		}
		if len(chunk) == 0 {
			return true
		}
		if _, err := fmt.Fprintf(w, "%x\r\n", len(chunk)); err != nil {
			writeErr = err
			return false
		}
		if _, err := w.Write(chunk); err != nil {
			writeErr = err
			return false
		}
		if _, err := w.WriteString("\r\n"); err != nil {
			writeErr = err
			return false
		}
		if err := w.Flush(); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	if writeErr != nil {
		return writeErr
	}
	_, err := w.WriteString("0\r\n\r\n")
	return err
}
