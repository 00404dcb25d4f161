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
	"fmt"
	"strings"
)

// segmentKind distinguishes the two shapes a path segment can take.
type segmentKind uint8

const (
	segStatic segmentKind = iota
	segParam
)

// segment is one '/'-separated piece of a route pattern.
type segment struct {
	kind segmentKind
	text string // literal for segStatic, param name (no ':') for segParam
}

// parsePattern splits an absolute path literal into its ordered
// segments, validating static segments against
// [a-zA-Z0-9._~-]+ and param names against [a-zA-Z][a-zA-Z0-9_]*.
func parsePattern(path string) ([]segment, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, ErrEmptyPattern
	}
	if path == "/" {
		return nil, nil
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if strings.HasPrefix(p, ":") {
			name := p[1:]
			if !isValidIdent(name) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidParamName, p)
			}
			segs = append(segs, segment{kind: segParam, text: name})
		} else {
			if !isValidStatic(p) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidStaticSegment, p)
			}
			segs = append(segs, segment{kind: segStatic, text: p})
		}
	}
	return segs, nil
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r == '_':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isValidStatic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '~', r == '-':
		default:
			return false
		}
	}
	return true
}
