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

// CowSlice is a copy-on-write byte slice: it starts out borrowed from a
// Request's read buffer and is promoted to an independently-owned copy
// the moment something tries to mutate or outlive it (e.g. a header
// value stashed in the context store across a fang boundary that later
// clears the buffer).
//
// The borrowed form simply keeps a slice header that aliases the
// buffer's backing array; the garbage collector keeps the array alive
// as long as something references it. What CowSlice adds is the
// promotion rule, so borrowed bytes are never mutated in place.
type CowSlice struct {
	b     []byte
	owned bool
}

// Borrowed wraps b (typically a sub-slice of a Request's read buffer)
// without copying.
func Borrowed(b []byte) CowSlice { return CowSlice{b: b} }

// Owned copies b into an independently-owned CowSlice.
func Owned(b []byte) CowSlice {
	cp := make([]byte, len(b))
	copy(cp, b)
	return CowSlice{b: cp, owned: true}
}

// Bytes returns the underlying bytes. Callers must not retain the
// result past the lifetime of the Request the slice may still be
// borrowing from unless IsOwned is true.
func (c CowSlice) Bytes() []byte { return c.b }

// String copies the slice into a Go string.
func (c CowSlice) String() string { return string(c.b) }

// IsOwned reports whether the slice has been promoted to an owned copy.
func (c CowSlice) IsOwned() bool { return c.owned }

// Promote returns a CowSlice guaranteed to be independently owned,
// copying the bytes once if c was still a borrow.
func (c CowSlice) Promote() CowSlice {
	if c.owned {
		return c
	}
	return Owned(c.b)
}

// Append appends extra to c, promoting a borrowed slice to owned first
// so the write never clobbers the shared read buffer.
func (c CowSlice) Append(extra []byte) CowSlice {
	owned := c.Promote()
	owned.b = append(owned.b, extra...)
	return owned
}
