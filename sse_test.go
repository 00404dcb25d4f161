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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSSESingleLine(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "data: hello\n\n", formatSSE("hello"))
}

func TestFormatSSESplitsEmbeddedNewlines(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "data: line1\ndata: line2\n\n", formatSSE("line1\nline2"))
}

func TestSSEStreamYieldsSentEventsThenStopsOnClose(t *testing.T) {
	t.Parallel()

	s := NewSSE(4)
	s.Send("a")
	s.Send("b")
	s.Close()

	var chunks []string
	s.stream(func(chunk []byte, err error) bool {
		require.NoError(t, err)
		chunks = append(chunks, string(chunk))
		return true
	})

	assert.Equal(t, []string{"data: a\n\n", "data: b\n\n"}, chunks)
}

func TestSSEStreamSurfacesFailAndStops(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := NewSSE(4)
	s.Send("a")
	s.Fail(boom)

	var chunks []string
	var gotErr error
	s.stream(func(chunk []byte, err error) bool {
		if err != nil {
			gotErr = err
			return false
		}
		chunks = append(chunks, string(chunk))
		return true
	})

	assert.Equal(t, []string{"data: a\n\n"}, chunks)
	assert.Equal(t, boom, gotErr)
}

func TestSSEResponseIsEventStream(t *testing.T) {
	t.Parallel()

	s := NewSSE(1)
	s.Close()
	resp := s.Response()

	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, contentStream, resp.kind)
	ct, ok := resp.Headers.Get("Content-Type")
	require.True(t, ok)
	assert.Equal(t, "text/event-stream", ct)
}

func TestSSEStreamStopsEarlyWhenConsumerReturnsFalse(t *testing.T) {
	t.Parallel()

	s := NewSSE(4)
	s.Send("a")
	s.Send("b")
	s.Close()

	var chunks []string
	s.stream(func(chunk []byte, err error) bool {
		chunks = append(chunks, string(chunk))
		return false
	})

	assert.Equal(t, []string{"data: a\n\n"}, chunks)
}
