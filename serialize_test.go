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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serialize(t *testing.T, resp *Response) string {
	t.Helper()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, serializeResponse(w, resp))
	return buf.String()
}

func TestSerializeNoContentOmitsContentLength(t *testing.T) {
	t.Parallel()

	out := serialize(t, NoContent())
	assert.Contains(t, out, "HTTP/1.1 204 No Content\r\n")
	assert.NotContains(t, out, "Content-Length:")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\n"))
}

func TestSerializeEmptyOKHasZeroContentLength(t *testing.T) {
	t.Parallel()

	out := serialize(t, Empty(StatusOK))
	assert.Contains(t, out, "Content-Length: 0\r\n")
}

func TestSerializePayloadSetsContentLength(t *testing.T) {
	t.Parallel()

	out := serialize(t, Text(StatusOK, "hi"))
	assert.Contains(t, out, "Content-Length: 2\r\n")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nhi"))
}

func TestSerializeStampsDateWhenAbsent(t *testing.T) {
	t.Parallel()

	out := serialize(t, Text(StatusOK, "x"))
	assert.Contains(t, out, "Date: ")
}

func TestSerializeStreamUsesChunkedTransferEncoding(t *testing.T) {
	t.Parallel()

	resp := Stream(StatusOK, "text/event-stream", func(yield func([]byte, error) bool) {
		yield([]byte("a"), nil)
		yield([]byte("bb"), nil)
	})
	out := serialize(t, resp)

	assert.Contains(t, out, "Transfer-Encoding: chunked\r\n")
	assert.NotContains(t, out, "Content-Length")
	assert.True(t, strings.HasSuffix(out, "1\r\na\r\n2\r\nbb\r\n0\r\n\r\n"))
}

// Round-trip: a parsed request line/headers match what the
// serializer produced (modulo Date).
func TestSerializeThenParseRoundTripsStatusAndHeaders(t *testing.T) {
	t.Parallel()

	resp := Bytes(StatusCreated, "application/json", []byte(`{"ok":true}`))
	resp.SetHeader("X-Widget", "42")
	wire := serialize(t, resp)

	// Minimal re-parse of the status line + headers, mirroring what an
	// HTTP/1.1 client would do.
	lines := strings.Split(wire, "\r\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "HTTP/1.1 201 Created", lines[0])

	headers := map[string]string{}
	for _, line := range lines[1:] {
		if line == "" {
			break
		}
		parts := strings.SplitN(line, ": ", 2)
		require.Len(t, parts, 2)
		headers[parts[0]] = parts[1]
	}
	assert.Equal(t, "application/json", headers["Content-Type"])
	assert.Equal(t, "42", headers["X-Widget"])
	assert.Equal(t, "11", headers["Content-Length"])
}
