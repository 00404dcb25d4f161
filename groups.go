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

// Group is a path prefix plus the fangs attached to its whole subtree.
// Nested groups compose: a Group's fangs wrap everything registered
// through it or any group nested under it, outer to inner by
// declaration order.
//
//	api := router.Group("/api", RequestID{})
//	v1 := api.Group("/v1", Auth{})
//	v1.GET("/users/:id", h) // registered at /api/v1/users/:id
type Group struct {
	router *Router
	prefix string
	segs   []segment
}

// Group creates a nested group under g, with its own additional fangs
// layered inside g's.
func (g *Group) Group(prefix string, fangs ...Fang) *Group {
	full := joinPrefix(g.prefix, normalizeGroupPrefix(prefix))
	segs, err := parsePattern(normalizeGroupPrefix(full))
	if err != nil {
		panic(err)
	}
	g.router.trie.attachFangs(segs, fangs)
	return &Group{router: g.router, prefix: full, segs: segs}
}

// Use adds more fangs to g's subtree, layered after whatever Group
// already attached.
func (g *Group) Use(fangs ...Fang) *Group {
	g.router.trie.attachFangs(g.segs, fangs)
	return g
}

func (g *Group) handle(method Method, path string, handler Handler) *Group {
	g.router.handle(method, joinPrefix(g.prefix, path), handler)
	return g
}

// GET registers a GET route under the group's prefix.
func (g *Group) GET(path string, handler Handler) *Group { return g.handle(GET, path, handler) }

// HEAD registers a HEAD route under the group's prefix.
func (g *Group) HEAD(path string, handler Handler) *Group { return g.handle(HEAD, path, handler) }

// POST registers a POST route under the group's prefix.
func (g *Group) POST(path string, handler Handler) *Group { return g.handle(POST, path, handler) }

// PUT registers a PUT route under the group's prefix.
func (g *Group) PUT(path string, handler Handler) *Group { return g.handle(PUT, path, handler) }

// PATCH registers a PATCH route under the group's prefix.
func (g *Group) PATCH(path string, handler Handler) *Group {
	return g.handle(PATCH, path, handler)
}

// DELETE registers a DELETE route under the group's prefix.
func (g *Group) DELETE(path string, handler Handler) *Group {
	return g.handle(DELETE, path, handler)
}

// OPTIONS registers an OPTIONS route under the group's prefix.
func (g *Group) OPTIONS(path string, handler Handler) *Group {
	return g.handle(OPTIONS, path, handler)
}

func joinPrefix(prefix, path string) string {
	if prefix == "" || prefix == "/" {
		if path == "" {
			return "/"
		}
		return path
	}
	p := strings.TrimSuffix(prefix, "/")
	if path == "" || path == "/" {
		return p
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return p + path
}
