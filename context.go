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

import "reflect"

// contextStore is the per-request, type-indexed map fangs use to pass
// values to later fangs and the handler. Go's runtime type descriptor
// is already a unique, stable identity per type, so the map key is
// just reflect.Type; no separate type-id hashing is needed.
type contextStore struct {
	values map[reflect.Type]any
}

// SetContext stores value, keyed by its dynamic type. A second call
// with the same type overwrites the previous value.
func SetContext[T any](r *Request, value T) {
	s := &r.store
	if s.values == nil {
		s.values = make(map[reflect.Type]any, 4)
	}
	s.values[reflect.TypeOf(value)] = value
}

// GetContext fetches the value of type T previously stored with
// SetContext, if any.
func GetContext[T any](r *Request) (T, bool) {
	var zero T
	s := &r.store
	if s.values == nil {
		return zero, false
	}
	v, ok := s.values[reflect.TypeOf(zero)]
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// MustGetContext fetches the value of type T, panicking if absent. Use
// only where an earlier fang is contractually guaranteed to have set it
// (e.g. a builtin auth fang ahead of a handler that requires it).
func MustGetContext[T any](r *Request) T {
	v, ok := GetContext[T](r)
	if !ok {
		panic(ErrContextValueNotFound)
	}
	return v
}

func (s *contextStore) reset() {
	clear(s.values)
}
