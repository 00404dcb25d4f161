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
	"testing"

	"github.com/stretchr/testify/assert"
)

type principal struct{ name string }

func TestSetGetContextRoundTrips(t *testing.T) {
	t.Parallel()

	var req Request
	SetContext(&req, principal{name: "ama"})

	v, ok := GetContext[principal](&req)
	assert.True(t, ok)
	assert.Equal(t, "ama", v.name)
}

func TestGetContextMissingTypeReturnsZeroFalse(t *testing.T) {
	t.Parallel()

	var req Request
	_, ok := GetContext[principal](&req)
	assert.False(t, ok)
}

func TestSetContextOverwritesSameType(t *testing.T) {
	t.Parallel()

	var req Request
	SetContext(&req, principal{name: "first"})
	SetContext(&req, principal{name: "second"})

	v, _ := GetContext[principal](&req)
	assert.Equal(t, "second", v.name)
}

func TestMustGetContextPanicsWhenAbsent(t *testing.T) {
	t.Parallel()

	var req Request
	assert.Panics(t, func() { MustGetContext[principal](&req) })
}

func TestMustGetContextReturnsStoredValue(t *testing.T) {
	t.Parallel()

	var req Request
	SetContext(&req, principal{name: "zane"})
	assert.Equal(t, "zane", MustGetContext[principal](&req).name)
}

func TestContextStoreResetClearsValues(t *testing.T) {
	t.Parallel()

	var req Request
	SetContext(&req, principal{name: "ama"})
	req.store.reset()

	_, ok := GetContext[principal](&req)
	assert.False(t, ok)
}

// distinct types don't collide in the store, since the key is the
// dynamic type rather than an insertion slot.
func TestContextStoreDistinguishesTypes(t *testing.T) {
	t.Parallel()

	var req Request
	SetContext(&req, principal{name: "ama"})
	SetContext(&req, 42)

	p, ok := GetContext[principal](&req)
	assert.True(t, ok)
	assert.Equal(t, "ama", p.name)

	n, ok := GetContext[int](&req)
	assert.True(t, ok)
	assert.Equal(t, 42, n)
}
