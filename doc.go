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

// Package lattice is the core runtime of a small HTTP/1.1 server
// framework: a radix router compiled from a build-time trie, a
// middleware ("fang") composition layer, a zero-copy request parser,
// and the per-connection session loop that drives them.
//
// A minimal server:
//
//	r := lattice.NewRouter()
//	r.GET("/hello", lattice.H0(func(req *lattice.Request) *lattice.Response {
//	    return lattice.Text(lattice.StatusOK, "Hello, world!")
//	}))
//	srv := lattice.NewServer(r)
//	log.Fatal(srv.ListenAndServe(":8080"))
package lattice
