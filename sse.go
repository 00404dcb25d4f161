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

import "strings"

// sseItem is one queued Server-Sent Event.
type sseItem struct {
	data string
	err  error
	done bool
}

// SSE is a small producer/consumer bridge between a handler goroutine
// emitting events and the session loop's chunked-transfer writer. A
// handler calls Send, then Close, and returns sse.Response() as its
// result. Events are read only after the handler returns, so Send,
// Fail and Close block once buffer items are queued; a handler that
// sends more than that has to do so from another goroutine.
type SSE struct {
	items chan sseItem
}

// NewSSE creates an event source with the given buffering depth.
func NewSSE(buffer int) *SSE {
	return &SSE{items: make(chan sseItem, buffer)}
}

// Send enqueues text as one event. Embedded newlines are split into
// multiple "data:" lines per the SSE wire format.
func (s *SSE) Send(text string) { s.items <- sseItem{data: text} }

// Fail enqueues a terminal error, aborting the stream after any
// already-queued events are flushed.
func (s *SSE) Fail(err error) { s.items <- sseItem{err: err} }

// Close signals that no more events will be sent.
func (s *SSE) Close() { s.items <- sseItem{done: true} }

// Response builds the text/event-stream Response draining this source.
func (s *SSE) Response() *Response {
	return Stream(StatusOK, "text/event-stream", s.stream)
}

func (s *SSE) stream(yield func(chunk []byte, err error) bool) {
	for item := range s.items {
		if item.err != nil {
			yield(nil, item.err)
			return
		}
		if item.done {
			return
		}
		if !yield([]byte(formatSSE(item.data)), nil) {
			return
		}
	}
}

// formatSSE renders one event as "data: <line>\n" per embedded line,
// terminated by a blank line.
func formatSSE(text string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}
