// Copyright 2025 The Rivaas Authors
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

package dispatch

import "net/http"

// HTTPError is returned by handlers, plugins, and the binder to indicate a
// request failure that should be mapped to a specific HTTP status. This
// mirrors the taxonomy of spec §7: BadRequest, Unauthorized, NotFound,
// TooManyRequests, a generic HttpException(code, msg), and anything else
// falling through to a masked 500.
type HTTPError interface {
	error
	StatusCode() int
}

type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string   { return e.message }
func (e *httpError) StatusCode() int { return e.status }

// NewHTTPError builds an HTTPError for the given status. When msg is empty
// the standard library's status text is used as the message.
func NewHTTPError(status int, msg ...string) HTTPError {
	m := http.StatusText(status)
	if len(msg) > 0 && msg[0] != "" {
		m = msg[0]
	}
	return &httpError{status: status, message: m}
}

// ErrBadRequest maps to 400 — missing/malformed argument or bad query syntax.
func ErrBadRequest(msg string) HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }

// ErrUnauthorized maps to 401, typically raised by a rejecting plugin.
func ErrUnauthorized(msg string) HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }

// ErrNotFound maps to 404 — no route matched, or a handler reports an
// explicit miss.
func ErrNotFound(msg string) HTTPError { return NewHTTPError(http.StatusNotFound, msg) }

// ErrTooManyRequests maps to 429.
func ErrTooManyRequests(msg string) HTTPError { return NewHTTPError(http.StatusTooManyRequests, msg) }

// ErrHTTPException wraps an arbitrary status code with a message, the
// escape hatch for handlers that want to return a specific HTTP status
// the taxonomy doesn't name directly.
func ErrHTTPException(code int, msg string) HTTPError { return NewHTTPError(code, msg) }

// IsHTTPError reports whether err already carries an HTTP status mapping.
func IsHTTPError(err error) bool {
	_, ok := err.(HTTPError)
	return ok
}

// ToHTTPError maps any error to an HTTPError for response purposes. Errors
// that do not already implement HTTPError become a masked 500: per spec §7
// the original message is not returned to the client (callers are expected
// to log the underlying err themselves before discarding it here).
func ToHTTPError(err error) HTTPError {
	if err == nil {
		return nil
	}
	if e, ok := err.(HTTPError); ok {
		return e
	}
	return NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
}
