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

import "encoding/binary"

// headerHashSeed and headerHashMul are the FNV-style mixing constants.
// 64-bit everywhere keeps the fold arithmetic portable across 32/64-bit
// builds, unlike a native `uintptr`-sized multiplier.
const (
	headerHashSeed = 0xcbf29ce484222325
	headerHashMul  = 0x100000001b3
)

// toLowerByte lowercases a single ASCII letter; non-letters pass through.
func toLowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 0x20
	}
	return b
}

// headerHash computes a case-insensitive hash of a header name, folding
// 8 bytes at a time (then 4, then 2, then 1 for the tail) instead of a
// byte-at-a-time loop. Lowercasing happens inline so no allocation is
// needed to normalize the name first. Used both for the custom-header
// associative list and to probe the known-header table.
func headerHash(name []byte) uint64 {
	h := uint64(headerHashSeed)
	buf := make([]byte, 8)

	for len(name) >= 8 {
		for i := 0; i < 8; i++ {
			buf[i] = toLowerByte(name[i])
		}
		word := binary.LittleEndian.Uint64(buf)
		h = rotl64(h, 5) ^ word
		h *= headerHashMul
		name = name[8:]
	}
	if len(name) >= 4 {
		var b4 [4]byte
		for i := 0; i < 4; i++ {
			b4[i] = toLowerByte(name[i])
		}
		word := uint64(binary.LittleEndian.Uint32(b4[:]))
		h = rotl64(h, 5) ^ word
		h *= headerHashMul
		name = name[4:]
	}
	if len(name) >= 2 {
		var b2 [2]byte
		b2[0], b2[1] = toLowerByte(name[0]), toLowerByte(name[1])
		word := uint64(binary.LittleEndian.Uint16(b2[:]))
		h = rotl64(h, 5) ^ word
		h *= headerHashMul
		name = name[2:]
	}
	if len(name) == 1 {
		word := uint64(toLowerByte(name[0]))
		h = rotl64(h, 5) ^ word
		h *= headerHashMul
	}
	return h
}

func rotl64(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}

// headerNameEqualFold reports whether a and b are the same header name,
// ignoring ASCII case, without allocating.
func headerNameEqualFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if toLowerByte(a[i]) != toLowerByte(b[i]) {
			return false
		}
	}
	return true
}
