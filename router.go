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

// Router builds a route trie at configuration time and, once Build is
// called (or a Server starts serving it), compiles that trie into an
// immutable radix form for dispatch. Create one with NewRouter; a
// zero-value Router has no trie and panics on registration.
//
// Router is not safe for concurrent registration; register every route
// before handing it to a Server.
type Router struct {
	trie  *trieNode
	radix *radixNode // nil until Build
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{trie: newTrie()}
}

// Use attaches fangs that wrap every route registered anywhere in the
// router, as the outermost layer.
func (r *Router) Use(fangs ...Fang) *Router {
	r.trie.attachFangs(nil, fangs)
	return r
}

func (r *Router) handle(method Method, path string, handler Handler) *Router {
	segs, err := parsePattern(path)
	if err != nil {
		panic(err)
	}
	r.trie.insert(method, segs, handler)
	r.radix = nil
	return r
}

// GET registers a GET route.
func (r *Router) GET(path string, handler Handler) *Router { return r.handle(GET, path, handler) }

// HEAD registers a HEAD route.
func (r *Router) HEAD(path string, handler Handler) *Router { return r.handle(HEAD, path, handler) }

// POST registers a POST route.
func (r *Router) POST(path string, handler Handler) *Router { return r.handle(POST, path, handler) }

// PUT registers a PUT route.
func (r *Router) PUT(path string, handler Handler) *Router { return r.handle(PUT, path, handler) }

// PATCH registers a PATCH route.
func (r *Router) PATCH(path string, handler Handler) *Router {
	return r.handle(PATCH, path, handler)
}

// DELETE registers a DELETE route.
func (r *Router) DELETE(path string, handler Handler) *Router {
	return r.handle(DELETE, path, handler)
}

// OPTIONS registers an OPTIONS route.
func (r *Router) OPTIONS(path string, handler Handler) *Router {
	return r.handle(OPTIONS, path, handler)
}

// Group returns a Group rooted at prefix, with fangs attached to the
// whole subtree under it.
func (r *Router) Group(prefix string, fangs ...Fang) *Group {
	prefix = normalizeGroupPrefix(prefix)
	segs, err := parsePattern(prefix)
	if err != nil {
		panic(err)
	}
	r.trie.attachFangs(segs, fangs)
	return &Group{router: r, prefix: prefix, segs: segs}
}

// Mount grafts other's entire route tree under prefix, preserving
// other's own fang layers as an inner layer relative to whatever fangs
// already wrap prefix in r.
func (r *Router) Mount(prefix string, other *Router) *Router {
	segs, err := parsePattern(normalizeGroupPrefix(prefix))
	if err != nil {
		panic(err)
	}
	dst := r.trie.descend(segs)
	mergeInto(dst, other.trie)
	r.radix = nil
	return r
}

// Build finalizes the route trie into its dispatch form. It is called
// automatically the first time Dispatch or a Server runs, but can be
// called ahead of time to compose every route before accepting
// connections. Duplicate routes and arity mismatches panic earlier, at
// registration.
func (r *Router) Build() *Router {
	if r.radix == nil {
		r.radix = finalizeTrie(r.trie)
	}
	return r
}

// Dispatch routes req to its matched handler. Call Build once before
// the first concurrent Dispatch call (a Server does this automatically
// before it starts accepting connections); Dispatch itself does not
// re-check whether the radix form is stale.
func (r *Router) Dispatch(req *Request) *Response {
	if r.radix == nil {
		r.Build()
	}
	return dispatch(r.radix, req.Method, req)
}

// normalizeGroupPrefix maps the subtree spellings a fang prefix allows
// ("", "/", "/api/*") onto plain route patterns; a trailing "/*" is
// redundant here since fangs always cover the whole subtree.
func normalizeGroupPrefix(prefix string) string {
	if p, ok := strings.CutSuffix(prefix, "/*"); ok {
		prefix = p
	}
	if prefix == "" {
		return "/"
	}
	return prefix
}
