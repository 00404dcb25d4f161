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

// queryPair is one key=value entry of the query string, as byte ranges
// into the request buffer.
type queryPair struct {
	key, value byteRange
}

// paramCapture is one path-parameter capture: the segment's byte range
// plus the name it was declared with. The name is ergonomics only;
// dispatch never compares on it.
type paramCapture struct {
	name  string
	value byteRange
}

// Request is a parsed, mostly zero-copy view over a session's read
// buffer: method, path/query ranges, headers, an optional body range,
// captured path params, and a per-request context store.
//
// A Request must not be retained past the handler call that received
// it: its string/byte accessors alias the session's read buffer, which
// is cleared and reused for the connection's next request.
type Request struct {
	buf *readBuffer

	Method Method
	Host   string // from the Host header, copied eagerly (used by many fangs)

	pathRange byteRange
	query     []queryPair
	Headers   Headers
	bodyRange byteRange

	params    [DefaultMaxParams]paramCapture
	numParams int

	store contextStore
}

// Path returns the request path (no query string).
func (r *Request) Path() string { return string(r.pathRange.slice(r.buf.bytes())) }

// PathBytes is the zero-copy form of Path, valid only until the
// session clears its buffer.
func (r *Request) PathBytes() []byte { return r.pathRange.slice(r.buf.bytes()) }

// Query returns the first value for key in the query string.
func (r *Request) Query(key string) (string, bool) {
	buf := r.buf.bytes()
	for _, q := range r.query {
		if string(q.key.slice(buf)) == key {
			return string(q.value.slice(buf)), true
		}
	}
	return "", false
}

// QueryAll returns every value for key, in wire order.
func (r *Request) QueryAll(key string) []string {
	buf := r.buf.bytes()
	var out []string
	for _, q := range r.query {
		if string(q.key.slice(buf)) == key {
			out = append(out, string(q.value.slice(buf)))
		}
	}
	return out
}

// NumParams reports how many path segments were captured by :param
// patterns for the matched route.
func (r *Request) NumParams() int { return r.numParams }

// Param returns the k-th captured path segment (0-indexed, in
// left-to-right route order) and whether k was in range.
func (r *Request) Param(k int) (string, bool) {
	if k < 0 || k >= r.numParams {
		return "", false
	}
	return string(r.params[k].value.slice(r.buf.bytes())), true
}

// ParamNamed looks a captured segment up by the name it was declared
// with in the route pattern (e.g. ":id" -> "id"). Prefer Param(k) on
// any hot path; this does a linear scan of (at most DefaultMaxParams)
// entries.
func (r *Request) ParamNamed(name string) (string, bool) {
	buf := r.buf.bytes()
	for i := 0; i < r.numParams; i++ {
		if r.params[i].name == name {
			return string(r.params[i].value.slice(buf)), true
		}
	}
	return "", false
}

// Body returns the request body bytes, or nil if there was none. The
// slice aliases the read buffer; copy it before retaining.
func (r *Request) Body() []byte {
	return r.bodyRange.slice(r.buf.bytes())
}

// Header is shorthand for r.Headers.Get.
func (r *Request) Header(name string) (string, bool) { return r.Headers.Get(name) }

// Context returns the per-request context store, used by fangs to pass
// values (auth principal, trace span, request id) to inner fangs and
// the handler.
func (r *Request) Context() *contextStore { return &r.store }

// reset clears a Request for reuse across a keep-alive connection's
// next parse, without releasing the backing arrays.
func (r *Request) reset() {
	r.Method = 0
	r.Host = ""
	r.pathRange = byteRange{}
	r.query = r.query[:0]
	r.Headers.reset()
	r.bodyRange = byteRange{}
	r.numParams = 0
	r.store.reset()
}
