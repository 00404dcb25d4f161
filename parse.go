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
	"fmt"
	"strconv"
)

// parseResult is everything parseRequest discovers about the bytes
// already sitting in buf, before the session loop decides whether a
// body needs to be read.
type parseResult struct {
	req           *Request
	headerEnd     int // offset of the blank line's end ("\r\n\r\n")
	contentLength int // -1 if absent
	chunked       bool
	keepAlive     bool
}

// parseRequest scans buf.bytes()[:headerEnd] (the request line plus
// header block already known to be complete; the session loop found
// the \r\n\r\n terminator before calling this) and fills r in place.
// Request-line fields and known header values are recorded as
// (start,end) pairs into buf, not copies. It does allocate: the Host
// value is copied into a string, each custom header name is copied
// into a string (its value is borrowed from buf), and the custom-header
// and query lists grow as entries are added.
func parseRequest(r *Request, buf *readBuffer, headerEnd int) (*parseResult, error) {
	data := buf.bytes()
	r.buf = buf

	pos := 0

	// --- request line: METHOD SP PATH[?QUERY] SP VERSION CRLF ---
	sp1 := indexByte(data, pos, ' ')
	if sp1 < 0 {
		return nil, ErrMalformedRequestLine
	}
	method, ok := ParseMethod(data[pos:sp1])
	if !ok {
		return nil, fmt.Errorf("%w: unknown method", ErrMalformedRequestLine)
	}
	r.Method = method
	pos = sp1 + 1

	sp2 := indexByte(data, pos, ' ')
	if sp2 < 0 {
		return nil, ErrMalformedRequestLine
	}
	pathAndQuery := data[pos:sp2]
	if q := indexByteSlice(pathAndQuery, '?'); q >= 0 {
		r.pathRange = byteRange{pos, pos + q}
		parseQuery(r, pathAndQuery[q+1:], pos+q+1)
	} else {
		r.pathRange = byteRange{pos, sp2}
	}
	pos = sp2 + 1

	nl := indexByte(data, pos, '\n')
	if nl < 0 {
		return nil, ErrMalformedRequestLine
	}
	version := data[pos:nl]
	version = trimCR(version)
	if string(version) != "HTTP/1.1" && string(version) != "HTTP/1.0" {
		return nil, ErrUnsupportedVersion
	}
	http10 := string(version) == "HTTP/1.0"
	pos = nl + 1

	// --- header block ---
	contentLength := -1
	chunked := false
	connectionClose := false
	connectionKeepAlive := false

	for pos < headerEnd {
		if pos+1 < len(data) && data[pos] == '\r' && data[pos+1] == '\n' {
			pos += 2
			break
		}
		colon := indexByte(data, pos, ':')
		if colon < 0 {
			return nil, ErrMalformedHeader
		}
		name := data[pos:colon]
		vstart := colon + 1
		for vstart < len(data) && data[vstart] == ' ' {
			vstart++
		}
		lineEnd := indexByte(data, vstart, '\n')
		if lineEnd < 0 {
			return nil, ErrMalformedHeader
		}
		value := trimCR(data[vstart:lineEnd])
		valueRange := byteRange{vstart, vstart + len(value)}

		if k, isKnown := lookupKnownHeader(name); isKnown {
			r.Headers.SetKnown(k, Borrowed(valueRange.slice(data)))
			switch k {
			case HContentLength:
				if n, err := strconv.Atoi(string(value)); err == nil {
					contentLength = n
				}
			case HTransferEncoding:
				if string(value) == "chunked" {
					chunked = true
				}
			case HConnection:
				switch string(value) {
				case "close":
					connectionClose = true
				case "keep-alive", "Keep-Alive":
					connectionKeepAlive = true
				}
			case HHost:
				r.Host = string(value)
			}
		} else {
			r.Headers.Set(string(name), Borrowed(valueRange.slice(data)))
		}
		pos = lineEnd + 1
	}
	// keep-alive is the HTTP/1.1 default; HTTP/1.0 peers must opt in
	keepAlive := !connectionClose
	if http10 {
		keepAlive = connectionKeepAlive
	}

	return &parseResult{
		req:           r,
		headerEnd:     pos,
		contentLength: contentLength,
		chunked:       chunked,
		keepAlive:     keepAlive,
	}, nil
}

// parseQuery splits an already-isolated query string on '&' and '=',
// recording each pair as ranges relative to base (the query string's
// start offset within the buffer).
func parseQuery(r *Request, q []byte, base int) {
	start := 0
	for start <= len(q) {
		amp := indexByteSlice(q[start:], '&')
		var part []byte
		var partEnd int
		if amp < 0 {
			part = q[start:]
			partEnd = len(q)
		} else {
			part = q[start : start+amp]
			partEnd = start + amp
		}
		if len(part) > 0 {
			eq := indexByteSlice(part, '=')
			if eq < 0 {
				r.query = append(r.query, queryPair{
					key:   byteRange{base + start, base + start + len(part)},
					value: byteRange{base + start + len(part), base + start + len(part)},
				})
			} else {
				keyEnd := start + eq
				r.query = append(r.query, queryPair{
					key:   byteRange{base + start, base + keyEnd},
					value: byteRange{base + keyEnd + 1, base + partEnd},
				})
			}
		}
		if amp < 0 {
			break
		}
		start = partEnd + 1
	}
}

func indexByte(data []byte, from int, c byte) int {
	if from >= len(data) {
		return -1
	}
	i := indexByteSlice(data[from:], c)
	if i < 0 {
		return -1
	}
	return from + i
}

func indexByteSlice(data []byte, c byte) int {
	for i, b := range data {
		if b == c {
			return i
		}
	}
	return -1
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

// findHeaderEnd scans data for the blank-line terminator "\r\n\r\n" and
// returns the offset just past it, or -1 if not yet present.
func findHeaderEnd(data []byte) int {
	for i := 0; i+3 < len(data); i++ {
		if data[i] == '\r' && data[i+1] == '\n' && data[i+2] == '\r' && data[i+3] == '\n' {
			return i + 4
		}
	}
	return -1
}
