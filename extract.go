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
	"encoding/json"
	"mime/multipart"
	"net/url"
	"strconv"
)

// --- path parameters ---

type pathStringExtractor struct{ idx int }

func (p pathStringExtractor) Extract(req *Request) (string, *Response) {
	v, ok := req.Param(p.idx)
	if !ok {
		return "", Text(StatusBadRequest, "missing path parameter")
	}
	return v, nil
}
func (p pathStringExtractor) paramIndex() int { return p.idx }

// PathString extracts the k-th captured path segment as a string.
func PathString(k int) Extractor[string] { return pathStringExtractor{idx: k} }

type pathUintExtractor struct{ idx int }

func (p pathUintExtractor) Extract(req *Request) (uint64, *Response) {
	v, ok := req.Param(p.idx)
	if !ok {
		return 0, Text(StatusBadRequest, "missing path parameter")
	}
	// reject an empty value or a leading '+'/'-' outright, before
	// ParseUint (which rejects both signs as well) is called.
	if len(v) == 0 || v[0] == '+' || v[0] == '-' {
		return 0, Text(StatusBadRequest, "path parameter is not an unsigned integer")
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, Text(StatusBadRequest, "path parameter is not an unsigned integer")
	}
	return n, nil
}
func (p pathUintExtractor) paramIndex() int { return p.idx }

// PathUint extracts the k-th captured path segment as an unsigned
// integer, rejecting any sign character.
func PathUint(k int) Extractor[uint64] { return pathUintExtractor{idx: k} }

// --- query string ---

type queryExtractor struct {
	key      string
	required bool
}

func (q queryExtractor) Extract(req *Request) (string, *Response) {
	v, ok := req.Query(q.key)
	if !ok && q.required {
		return "", Text(StatusBadRequest, "missing query parameter: "+q.key)
	}
	return v, nil
}

// Query extracts an optional query parameter (empty string if absent).
func Query(key string) Extractor[string] { return queryExtractor{key: key} }

// RequiredQuery extracts a query parameter, failing with 400 if absent.
func RequiredQuery(key string) Extractor[string] { return queryExtractor{key: key, required: true} }

// --- headers ---

type headerExtractor struct {
	name     string
	required bool
}

func (h headerExtractor) Extract(req *Request) (string, *Response) {
	v, ok := req.Header(h.name)
	if !ok && h.required {
		return "", Text(StatusBadRequest, "missing header: "+h.name)
	}
	return v, nil
}

// Header extracts an optional request header.
func Header(name string) Extractor[string] { return headerExtractor{name: name} }

// RequiredHeader extracts a request header, failing with 400 if absent.
func RequiredHeader(name string) Extractor[string] {
	return headerExtractor{name: name, required: true}
}

// --- context store ---

type ctxExtractor[T any] struct{}

func (ctxExtractor[T]) Extract(req *Request) (T, *Response) {
	v, ok := GetContext[T](req)
	if !ok {
		var zero T
		return zero, Text(StatusInternalServerError, "missing context value")
	}
	return v, nil
}

// FromContext extracts a value a fang previously stored with
// SetContext. Returns 500 if missing: a handler declaring this
// extractor is asserting an earlier fang guarantees it.
func FromContext[T any]() Extractor[T] { return ctxExtractor[T]{} }

// --- body ---

// JSONBody decodes the request body as JSON into T. A decode failure
// or empty body is a 400.
func JSONBody[T any]() Extractor[T] {
	return jsonBodyExtractor[T]{}
}

type jsonBodyExtractor[T any] struct{}

func (jsonBodyExtractor[T]) Extract(req *Request) (T, *Response) {
	var v T
	body := req.Body()
	if len(body) == 0 {
		return v, Text(StatusBadRequest, "empty request body")
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, Text(StatusBadRequest, "malformed JSON body: "+err.Error())
	}
	return v, nil
}

// FormBody decodes an application/x-www-form-urlencoded body into a
// url.Values, delegating the urlencoded codec to net/url.
func FormBody() Extractor[url.Values] { return formBodyExtractor{} }

type formBodyExtractor struct{}

func (formBodyExtractor) Extract(req *Request) (url.Values, *Response) {
	ct, _ := req.Header("Content-Type")
	if ct != "" && ct != "application/x-www-form-urlencoded" {
		return nil, Text(StatusBadRequest, "expected application/x-www-form-urlencoded")
	}
	v, err := url.ParseQuery(string(req.Body()))
	if err != nil {
		return nil, Text(StatusBadRequest, "malformed form body: "+err.Error())
	}
	return v, nil
}

// TextBody reads the request body as a UTF-8 string.
func TextBody() Extractor[string] { return textBodyExtractor{} }

type textBodyExtractor struct{}

func (textBodyExtractor) Extract(req *Request) (string, *Response) {
	return string(req.Body()), nil
}

// MultipartBody is the extension point for multipart/form-data bodies.
// Spec §1 places body codecs beyond JSON/urlencoded/text out of scope
// for the core; this extractor exists so a route can declare the
// dependency and get a clear 501 today rather than silently ignoring
// the content type. A real implementation wires mime/multipart.Reader
// over req.Body() the same way jsonBodyExtractor wires encoding/json.
func MultipartBody() Extractor[*multipart.Form] { return multipartBodyExtractor{} }

type multipartBodyExtractor struct{}

func (multipartBodyExtractor) Extract(req *Request) (*multipart.Form, *Response) {
	return nil, Text(StatusNotImplemented, "multipart/form-data bodies are not implemented")
}
