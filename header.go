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

// KnownHeader is the closed enumeration of header names the container
// stores in its dense, ordinal-indexed slot array instead of the
// associative (hashed) half. Headers outside this set still work fine;
// they just live in the slower custom-header list.
type KnownHeader uint8

const (
	HAccept KnownHeader = iota
	HAcceptEncoding
	HAcceptLanguage
	HAuthorization
	HCacheControl
	HConnection
	HContentLength
	HContentType
	HCookie
	HDate
	HETag
	HHost
	HIfMatch
	HIfNoneMatch
	HIfModifiedSince
	HLocation
	HOrigin
	HReferer
	HServer
	HSetCookie
	HTransferEncoding
	HUpgrade
	HUserAgent
	HVary
	HAllow
	HAccessControlAllowOrigin
	HAccessControlAllowMethods
	HAccessControlAllowHeaders
	HAccessControlAllowCredentials
	HAccessControlMaxAge
	HAccessControlExposeHeaders
	HAccessControlRequestMethod
	HAccessControlRequestHeaders
	HSecWebSocketKey
	HSecWebSocketVersion
	HSecWebSocketAccept
	HSecWebSocketProtocol
	HXRequestID
	HRetryAfter

	numKnownHeaders // sentinel; keep last
)

// knownHeaderNames is the canonical wire-form spelling for each ordinal,
// used when serializing a response and when formatting error messages.
// Index must stay in lockstep with the KnownHeader const block above.
var knownHeaderNames = [numKnownHeaders]string{
	HAccept:                        "Accept",
	HAcceptEncoding:                "Accept-Encoding",
	HAcceptLanguage:                "Accept-Language",
	HAuthorization:                 "Authorization",
	HCacheControl:                  "Cache-Control",
	HConnection:                    "Connection",
	HContentLength:                 "Content-Length",
	HContentType:                   "Content-Type",
	HCookie:                        "Cookie",
	HDate:                          "Date",
	HETag:                          "ETag",
	HHost:                          "Host",
	HIfMatch:                       "If-Match",
	HIfNoneMatch:                   "If-None-Match",
	HIfModifiedSince:               "If-Modified-Since",
	HLocation:                      "Location",
	HOrigin:                        "Origin",
	HReferer:                       "Referer",
	HServer:                        "Server",
	HSetCookie:                     "Set-Cookie",
	HTransferEncoding:              "Transfer-Encoding",
	HUpgrade:                       "Upgrade",
	HUserAgent:                     "User-Agent",
	HVary:                          "Vary",
	HAllow:                         "Allow",
	HAccessControlAllowOrigin:      "Access-Control-Allow-Origin",
	HAccessControlAllowMethods:     "Access-Control-Allow-Methods",
	HAccessControlAllowHeaders:     "Access-Control-Allow-Headers",
	HAccessControlAllowCredentials: "Access-Control-Allow-Credentials",
	HAccessControlMaxAge:           "Access-Control-Max-Age",
	HAccessControlExposeHeaders:    "Access-Control-Expose-Headers",
	HAccessControlRequestMethod:    "Access-Control-Request-Method",
	HAccessControlRequestHeaders:   "Access-Control-Request-Headers",
	HSecWebSocketKey:               "Sec-WebSocket-Key",
	HSecWebSocketVersion:           "Sec-WebSocket-Version",
	HSecWebSocketAccept:            "Sec-WebSocket-Accept",
	HSecWebSocketProtocol:          "Sec-WebSocket-Protocol",
	HXRequestID:                    "X-Request-Id",
	HRetryAfter:                    "Retry-After",
}

// knownHeaderTable is the closed-set perfect-ish hash check: the
// case-insensitive hash of each known header's name, mapped back to its
// ordinal. Built once at init from knownHeaderNames so the two tables
// can never drift apart.
var knownHeaderTable = func() map[uint64]KnownHeader {
	t := make(map[uint64]KnownHeader, numKnownHeaders)
	for i, name := range knownHeaderNames {
		t[headerHash([]byte(name))] = KnownHeader(i)
	}
	return t
}()

// lookupKnownHeader returns the ordinal for a header name (any case),
// and whether it belongs to the closed set.
func lookupKnownHeader(name []byte) (KnownHeader, bool) {
	k, ok := knownHeaderTable[headerHash(name)]
	return k, ok
}
