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

// Status is an HTTP status code together with its reason phrase lookup.
// Kept as a plain int (matching net/http's convention, which every
// example router in the pack follows) rather than a closed enum, since
// status codes are an open-ended IANA registry, not a fixed set.
type Status = int

const (
	StatusOK                  Status = 200
	StatusCreated             Status = 201
	StatusNoContent           Status = 204
	StatusNotModified         Status = 304
	StatusBadRequest          Status = 400
	StatusUnauthorized        Status = 401
	StatusForbidden           Status = 403
	StatusNotFound            Status = 404
	StatusMethodNotAllowed    Status = 405
	StatusRequestTimeout      Status = 408
	StatusLengthRequired      Status = 411
	StatusPayloadTooLarge     Status = 413
	StatusUpgradeRequired     Status = 426
	StatusRequestHeaderFields Status = 431
	StatusInternalServerError Status = 500
	StatusNotImplemented      Status = 501
	StatusHTTPVersionNotSupp  Status = 505

	StatusSwitchingProtocols Status = 101
)

// reasonPhrases covers the subset of RFC 7231/7230 statuses this
// framework emits itself; handler-returned arbitrary codes fall back to
// a generic phrase.
var reasonPhrases = map[Status]string{
	100: "Continue",
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	206: "Partial Content",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	411: "Length Required",
	413: "Payload Too Large",
	414: "URI Too Long",
	415: "Unsupported Media Type",
	422: "Unprocessable Entity",
	426: "Upgrade Required",
	429: "Too Many Requests",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	505: "HTTP Version Not Supported",
}

// ReasonPhrase returns the standard reason phrase for code, or a
// generic "Status" fallback for codes outside the known table.
func ReasonPhrase(code Status) string {
	if p, ok := reasonPhrases[code]; ok {
		return p
	}
	return "Status"
}
