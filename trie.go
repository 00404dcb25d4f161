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

import "fmt"

// trieNode is one node of the build-time route tree. Routes are
// inserted into a trie while the Router is
// being configured; finalizeTrie compacts it into the immutable radix
// form used for dispatch once the server starts serving.
type trieNode struct {
	seg segment // zero value on the (unused) root node

	children []*trieNode // static children, insertion order
	param    *trieNode   // at most one param child per node

	handlers [numMethods]*Handler

	// fangLayers accumulates, in the order Use/mergeInto calls were
	// made, every fang list attached at exactly this node. Multiple
	// layers happen when a sub-router is mounted at a path that already
	// has its own group middleware: the mounting tree's layer comes
	// first (outer), the mounted tree's own root layer comes after
	// (inner).
	fangLayers [][]Fang
}

func newTrie() *trieNode { return &trieNode{} }

// childFor returns the child for seg, creating it if this is the first
// time it's been reached. Static siblings are matched by exact text;
// only one Param child may exist per node.
func (n *trieNode) childFor(seg segment) *trieNode {
	if seg.kind == segParam {
		if n.param == nil {
			n.param = &trieNode{seg: seg}
		}
		return n.param
	}
	for _, c := range n.children {
		if c.seg.kind == segStatic && c.seg.text == seg.text {
			return c
		}
	}
	child := &trieNode{seg: seg}
	n.children = append(n.children, child)
	return child
}

// descend walks (creating as needed) the chain of nodes for segs,
// starting at n, and returns the final node.
func (n *trieNode) descend(segs []segment) *trieNode {
	node := n
	for _, s := range segs {
		node = node.childFor(s)
	}
	return node
}

// insert registers handler for method at the node reached by segs,
// panicking if that (path, method) pair is already registered, or if
// the handler's declared path-param count doesn't match the number of
// :param segments in the pattern.
func (n *trieNode) insert(method Method, segs []segment, handler Handler) {
	node := n.descend(segs)
	if node.handlers[method] != nil {
		panic(fmt.Errorf("%w: %s", ErrDuplicateRoute, method))
	}
	paramCount := 0
	for _, s := range segs {
		if s.kind == segParam {
			paramCount++
		}
	}
	if handler.numParams != paramCount {
		panic(fmt.Errorf("%w: handler expects %d, route declares %d", ErrParamArityMismatch, handler.numParams, paramCount))
	}
	if paramCount > DefaultMaxParams {
		panic(fmt.Errorf("%w: %d", ErrTooManyParams, paramCount))
	}
	h := handler
	node.handlers[method] = &h
}

// attachFangs adds one more fang layer at the node reached by segs
// (the empty segs slice means "this trie's root").
func (n *trieNode) attachFangs(segs []segment, fangs []Fang) {
	if len(fangs) == 0 {
		return
	}
	node := n.descend(segs)
	layer := make([]Fang, len(fangs))
	copy(layer, fangs)
	node.fangLayers = append(node.fangLayers, layer)
}

// mergeInto grafts src (another trie's root, or any subtree) onto dst.
// The mounting tree's fangs compose outside the mounted tree's own
// fangs: dst's existing layers are kept first, src's layers are
// appended after.
func mergeInto(dst, src *trieNode) {
	dst.fangLayers = append(dst.fangLayers, src.fangLayers...)
	for m := Method(0); m < numMethods; m++ {
		if src.handlers[m] != nil {
			if dst.handlers[m] != nil {
				panic(fmt.Errorf("%w: %s", ErrDuplicateRoute, m))
			}
			dst.handlers[m] = src.handlers[m]
		}
	}
	for _, sc := range src.children {
		dc := dst.childFor(sc.seg)
		mergeInto(dc, sc)
	}
	if src.param != nil {
		dp := dst.childFor(src.param.seg)
		mergeInto(dp, src.param)
	}
}
