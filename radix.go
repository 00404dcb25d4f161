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

import "sort"

// radixNode is the immutable, finalized form of a trieNode. Every per-method Procedure here is already fully
// composed with its subtree's fangs, so dispatch never consults a fang
// list at request time; it only ever walks node pointers and, at the
// matched leaf, calls one function.
type radixNode struct {
	seg segment

	children []*radixNode // static children, insertion order; tried before param
	param    *radixNode

	procs   [numMethods]Procedure
	hasProc [numMethods]bool

	// allowed lists the methods actually registered at this node, sorted
	// alphabetically by name, precomputed for the 405 Allow header.
	allowed []string
}

func (n *radixNode) anyProc() bool {
	for _, ok := range n.hasProc {
		if ok {
			return true
		}
	}
	return false
}

// finalizeTrie compacts a build-time trie into its dispatch form,
// folding each node's inherited + own fang layers into the composed
// Procedure stored at every method slot that has a handler. The walk
// stays segment-by-segment; static runs are not fused into one string
// comparison.
func finalizeTrie(root *trieNode) *radixNode {
	return finalizeNode(root, nil)
}

func finalizeNode(n *trieNode, inherited []Fang) *radixNode {
	fangs := inherited
	for _, layer := range n.fangLayers {
		fangs = append(append([]Fang{}, fangs...), layer...)
	}

	rn := &radixNode{seg: n.seg}
	for m := Method(0); m < numMethods; m++ {
		if n.handlers[m] != nil {
			rn.hasProc[m] = true
			rn.procs[m] = compose(n.handlers[m].proc, fangs)
			rn.allowed = append(rn.allowed, m.String())
		}
	}
	sort.Strings(rn.allowed)
	if len(rn.allowed) > 0 {
		// methods with no handler here answer 405 through the same fang
		// layers, so a fang (e.g. a CORS preflight) still sees them
		allowed := rn.allowed
		notAllowed := compose(func(*Request) *Response { return methodNotAllowedResponse(allowed) }, fangs)
		for m := Method(0); m < numMethods; m++ {
			if !rn.hasProc[m] {
				rn.procs[m] = notAllowed
				rn.hasProc[m] = true
			}
		}
	}

	for _, c := range n.children {
		rn.children = append(rn.children, finalizeNode(c, fangs))
	}
	if n.param != nil {
		rn.param = finalizeNode(n.param, fangs)
	}
	return rn
}

// findStatic returns the static child matching seg, or nil.
func (n *radixNode) findStatic(seg []byte) *radixNode {
	for _, c := range n.children {
		if len(c.seg.text) == len(seg) && c.seg.text == string(seg) {
			return c
		}
	}
	return nil
}

// dispatch walks root along the request's path, capturing path params
// into req as it descends a param edge, and returns the Response the
// matched leaf's composed Procedure produces. A method with no handler
// at a matched leaf gets a 405 from a Procedure composed with that
// leaf's fangs; a path that matches no leaf gets a 404 built in-place,
// without running any fang.
func dispatch(root *radixNode, method Method, req *Request) *Response {
	buf := req.buf.bytes()
	start, end := req.pathRange.start, req.pathRange.end
	if start < end && buf[start] == '/' {
		start++
	}

	node := root
	if start >= end {
		return finishDispatch(node, method, req)
	}

	for {
		segEnd := start
		for segEnd < end && buf[segEnd] != '/' {
			segEnd++
		}
		seg := buf[start:segEnd]

		next := node.findStatic(seg)
		if next == nil && node.param != nil {
			if req.numParams >= DefaultMaxParams {
				return Text(StatusInternalServerError, "too many path parameters")
			}
			req.params[req.numParams] = paramCapture{
				name:  node.param.seg.text,
				value: byteRange{start, segEnd},
			}
			req.numParams++
			next = node.param
		}
		if next == nil {
			return notFoundResponse()
		}
		node = next

		if segEnd >= end {
			return finishDispatch(node, method, req)
		}
		nextStart := segEnd + 1
		if nextStart >= end {
			// trailing slash: canonicalize to the same node as without it
			return finishDispatch(node, method, req)
		}
		start = nextStart
	}
}

func finishDispatch(node *radixNode, method Method, req *Request) *Response {
	if node.hasProc[method] {
		return node.procs[method](req)
	}
	if node.anyProc() {
		return methodNotAllowedResponse(node.allowed)
	}
	return notFoundResponse()
}

// notFoundResponse builds a fresh 404. Response carries mutable header
// state, so a single shared instance can't safely be reused across
// concurrent connections.
func notFoundResponse() *Response {
	return Text(StatusNotFound, "not found")
}

// methodNotAllowedResponse builds a fresh 405 with its Allow header set
// to the node's registered methods.
func methodNotAllowedResponse(allowed []string) *Response {
	r := Text(StatusMethodNotAllowed, "method not allowed")
	allow := ""
	for i, m := range allowed {
		if i > 0 {
			allow += ", "
		}
		allow += m
	}
	r.SetHeader("Allow", allow)
	return r
}
