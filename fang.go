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

// Procedure is the fully composed Request -> Response dispatch
// function stored at a radix-router leaf. Calling it from the router is
// an indirect call, and so is each fang layer it wraps: every layer is
// a closure that calls the fang's Fore and Back through the Fang
// interface and the next layer through a function value.
type Procedure func(req *Request) *Response

// Fang is middleware: an optional pre-handler hook (Fore) and an
// optional post-handler hook (Back). Embed BaseFang to get no-op
// defaults for whichever side a concrete fang doesn't need.
//
//	type SetServer struct{ lattice.BaseFang }
//	func (SetServer) Back(_ *lattice.Request, r *lattice.Response) { r.SetHeader("Server", "lattice") }
//
// Fangs are ordinarily stateless values shared across concurrently
// dispatched requests, so Back also receives the originating Request
// read-only: a fang can read what its own Fore stashed in the
// request's context store without smuggling it through the fang's
// fields.
type Fang interface {
	// Fore runs before the wrapped procedure. Returning a non-nil
	// Response short-circuits: the wrapped procedure is never called,
	// and THIS fang's own Back is not invoked on the short-circuit
	// response (outer fangs' Back still run on it, since they wrap the
	// procedure that returned it).
	Fore(req *Request) *Response
	// Back runs after the wrapped procedure (or an inner fang's
	// short-circuit) produced a response. It may only mutate the
	// response in place; it has no error return.
	Back(req *Request, resp *Response)
}

// BaseFang gives a Fang implementation no-op Fore/Back so it only has
// to implement the side it cares about.
type BaseFang struct{}

func (BaseFang) Fore(*Request) *Response  { return nil }
func (BaseFang) Back(*Request, *Response) {}

// FangFunc adapts two plain functions into a Fang, for the common case
// of a one-off middleware that doesn't need its own type.
type FangFunc struct {
	ForeFunc func(req *Request) *Response
	BackFunc func(req *Request, resp *Response)
}

func (f FangFunc) Fore(req *Request) *Response {
	if f.ForeFunc == nil {
		return nil
	}
	return f.ForeFunc(req)
}

func (f FangFunc) Back(req *Request, resp *Response) {
	if f.BackFunc != nil {
		f.BackFunc(req, resp)
	}
}

// withFang wraps inner with a single fang:
//
//	bite(req) = match fang.fore(req) {
//	    Some(r) => r,                         // fang.back NOT called
//	    None    => { r := inner(req); fang.back(req, &r); r }
//	}
func withFang(inner Procedure, f Fang) Procedure {
	return func(req *Request) *Response {
		if short := f.Fore(req); short != nil {
			return short
		}
		resp := inner(req)
		f.Back(req, resp)
		return resp
	}
}

// compose folds fangs around inner, outermost first, so fangs[0] is
// the outermost layer: its Fore runs first and its Back runs last.
func compose(inner Procedure, fangs []Fang) Procedure {
	proc := inner
	for i := len(fangs) - 1; i >= 0; i-- {
		proc = withFang(proc, fangs[i])
	}
	return proc
}
