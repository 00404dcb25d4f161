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

// customHeader is one entry of the associative half of Headers: a
// header name outside the closed KnownHeader set, keyed by its
// case-insensitive hash for a cheap short-circuit before the exact
// fold-compare.
type customHeader struct {
	hash  uint64
	name  CowSlice
	value CowSlice
}

// Headers is a two-tier header container: a
// fixed-size array indexed by KnownHeader ordinal for O(1) access to
// the ~40 well-known headers, plus a small associative list (linear
// scan, hash-assisted) for everything else. One Headers value is
// embedded in both Request and Response.
type Headers struct {
	known   [numKnownHeaders]CowSlice
	present [numKnownHeaders]bool
	order   []KnownHeader // insertion order, for present-only iteration
	custom  []customHeader
}

// Get returns the value for name (case-insensitive), checking the
// known-header slot array first and falling back to the custom list.
func (h *Headers) Get(name string) (string, bool) {
	nb := []byte(name)
	if k, ok := lookupKnownHeader(nb); ok {
		if h.present[k] {
			return h.known[k].String(), true
		}
		return "", false
	}
	hash := headerHash(nb)
	for i := range h.custom {
		if h.custom[i].hash == hash && headerNameEqualFold(h.custom[i].name.Bytes(), nb) {
			return h.custom[i].value.String(), true
		}
	}
	return "", false
}

// GetKnown is the fast path for code that already has the ordinal
// (the serializer, builtin fangs), skipping the hash/lookup entirely.
func (h *Headers) GetKnown(k KnownHeader) (CowSlice, bool) {
	if h.present[k] {
		return h.known[k], true
	}
	return CowSlice{}, false
}

// Set stores value under name, routing known headers into their
// dedicated slot and everything else into the associative list. A
// second Set for the same name overwrites the previous value in place
// (known slots always do; custom entries are rewritten in place when
// found, else appended).
func (h *Headers) Set(name string, value CowSlice) {
	nb := []byte(name)
	if k, ok := lookupKnownHeader(nb); ok {
		h.SetKnown(k, value)
		return
	}
	hash := headerHash(nb)
	for i := range h.custom {
		if h.custom[i].hash == hash && headerNameEqualFold(h.custom[i].name.Bytes(), nb) {
			h.custom[i].value = value
			return
		}
	}
	h.custom = append(h.custom, customHeader{hash: hash, name: Owned(nb), value: value})
}

// SetKnown stores value directly into ordinal k's slot.
func (h *Headers) SetKnown(k KnownHeader, value CowSlice) {
	if !h.present[k] {
		h.order = append(h.order, k)
	}
	h.known[k] = value
	h.present[k] = true
}

// SetString is a convenience wrapper that owns a copy of value.
func (h *Headers) SetString(name, value string) {
	h.Set(name, Owned([]byte(value)))
}

// Delete removes name, if present, from either half of the container.
func (h *Headers) Delete(name string) {
	nb := []byte(name)
	if k, ok := lookupKnownHeader(nb); ok {
		if h.present[k] {
			h.present[k] = false
			for i, o := range h.order {
				if o == k {
					h.order = append(h.order[:i], h.order[i+1:]...)
					break
				}
			}
		}
		return
	}
	hash := headerHash(nb)
	for i := range h.custom {
		if h.custom[i].hash == hash && headerNameEqualFold(h.custom[i].name.Bytes(), nb) {
			h.custom = append(h.custom[:i], h.custom[i+1:]...)
			return
		}
	}
}

// Each calls fn for every present header, known headers first in
// insertion order, then custom headers in insertion order. This visits
// only present entries, never scanning absent known slots.
func (h *Headers) Each(fn func(name, value string)) {
	for _, k := range h.order {
		fn(knownHeaderNames[k], h.known[k].String())
	}
	for _, c := range h.custom {
		fn(c.name.String(), c.value.String())
	}
}

// reset clears the container for reuse across a keep-alive connection's
// next request, without shrinking the backing slices.
func (h *Headers) reset() {
	for _, k := range h.order {
		h.present[k] = false
		h.known[k] = CowSlice{}
	}
	h.order = h.order[:0]
	h.custom = h.custom[:0]
}
