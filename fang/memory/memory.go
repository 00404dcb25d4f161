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

// Package memory is the simplest possible context-store fang: it
// clones one shared value of type T into every request's context
// store, so handlers and downstream fangs can pull application-wide
// state (a *sql.DB, a config struct, a feature-flag set) out with
// lattice.FromContext[T] instead of a global variable.
package memory

import "github.com/lattice-http/lattice"

// Fang stores value into every request's context store at Fore.
type Fang[T any] struct {
	lattice.BaseFang
	value T
}

// New builds a Fang that injects value into every request passing
// through its subtree.
func New[T any](value T) Fang[T] {
	return Fang[T]{value: value}
}

func (f Fang[T]) Fore(req *lattice.Request) *lattice.Response {
	lattice.SetContext(req, f.value)
	return nil
}
