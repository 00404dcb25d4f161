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

import "errors"

// Static errors for better error handling and testing. Wrap with
// fmt.Errorf and %w when context is needed.
var (
	// Route build errors
	ErrDuplicateRoute       = errors.New("lattice: handler already registered for this method and path")
	ErrInvalidStaticSegment = errors.New("lattice: static path segment contains characters outside [a-zA-Z0-9._~-]")
	ErrInvalidParamName     = errors.New("lattice: param segment name is not a valid identifier")
	ErrParamArityMismatch   = errors.New("lattice: handler's path-param count does not match the route pattern")
	ErrTooManyParams        = errors.New("lattice: route captures more path params than the configured maximum")
	ErrEmptyPattern         = errors.New("lattice: route pattern must start with '/'")

	// Parse errors (wire boundary)
	ErrMalformedRequestLine = errors.New("lattice: malformed request line")
	ErrMalformedHeader      = errors.New("lattice: malformed header field")
	ErrHeaderTooLarge       = errors.New("lattice: header block exceeds configured limit")
	ErrBodyTooLarge         = errors.New("lattice: request body exceeds configured limit")
	ErrUnsupportedVersion   = errors.New("lattice: unsupported HTTP version")

	// Context store
	ErrContextValueNotFound = errors.New("lattice: no value of the requested type in the request context store")

	// Upgrade
	ErrNotUpgradeRequest = errors.New("lattice: request is not a WebSocket upgrade")

	// Session / server
	ErrServerClosed = errors.New("lattice: server closed")
)
