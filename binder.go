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

import (
	"fmt"
	"net/url"
	"strings"
)

// bindArgs resolves every Arg on route from its wire form — path
// captures, query string, and body, in that order — per spec §4.3.
// params holds the matcher's post-order capture list. parseErrors
// records, per arg index, the most recent coercion failure a binder
// chose to swallow and continue past (see bindJSONBody), so checkArgs
// can report the cause if the arg turns out to be required.
func bindArgs(route *Route, req Request, params []string) ([]any, error) {
	slots := make([]any, len(route.Args))
	parseErrors := make([]error, len(route.Args))
	indexByName := make(map[string]int, len(route.Args))
	for i, a := range route.Args {
		indexByName[a.Name] = i
	}

	if err := bindPathArgs(route, params, slots); err != nil {
		return nil, err
	}

	uri := req.URI()
	if q := strings.IndexByte(uri, '?'); q >= 0 {
		if err := bindQuery(uri[q+1:], route.Args, indexByName, slots); err != nil {
			return nil, err
		}
	}

	if route.BodyArgIndex >= 0 {
		slots[route.BodyArgIndex] = req.Content().Bytes()
	}

	if err := bindBody(route, req, indexByName, slots, parseErrors); err != nil {
		return nil, err
	}

	if err := checkArgs(route, slots, parseErrors); err != nil {
		return nil, err
	}

	return slots, nil
}

// bindPathArgs rebinds the matcher's reverse-depth capture order back to
// route.CaptureSegments' left-to-right declaration order (spec §4.2/§4.3,
// the "capture order" invariant of §8).
func bindPathArgs(route *Route, params []string, slots []any) error {
	n := len(route.CaptureSegments)
	if len(params) != n {
		return ErrBadRequest("path capture count mismatch")
	}
	for i, seg := range route.CaptureSegments {
		raw := params[n-1-i]
		decoded, err := url.PathUnescape(raw)
		if err != nil {
			return ErrBadRequest(fmt.Sprintf("malformed path segment %q", raw))
		}
		arg := &route.Args[seg.ArgIndex]
		v, perr := readPrimitive(decoded, arg)
		if perr != nil {
			return perr
		}
		slots[seg.ArgIndex] = v
	}
	return nil
}

// bindBody binds body-carried args (excluding the raw BodyArgIndex slot,
// already filled by bindArgs) using the JSON binder when the request
// declares a JSON content type, and the form binder otherwise.
func bindBody(route *Route, req Request, indexByName map[string]int, slots []any, parseErrors []error) error {
	hasBodyArgs := false
	for i, a := range route.Args {
		if i == route.BodyArgIndex {
			continue
		}
		if !a.IsPath && a.Visibility == Public {
			hasBodyArgs = true
			break
		}
	}
	if !hasBodyArgs {
		return nil
	}

	buf := req.Content().Bytes()
	if len(buf) == 0 {
		return nil
	}

	contentType, _ := req.Header("Content-Type")
	if isJSONContentType(contentType) {
		return bindJSONBody(buf, route.Args, indexByName, slots, parseErrors)
	}
	return bindFormBody(buf, route.Args, indexByName, slots)
}

func isJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.Contains(ct, "json")
}

// checkArgs fills Optional defaults and fails BadRequest on the first
// unset required Public arg, per spec §4.3 step 5. Internal args are
// exempt — their owning Plugin populates them in ModifyCall, which runs
// after binding. Idempotent: slots already populated are left untouched.
func checkArgs(route *Route, slots []any, parseErrors []error) error {
	for i, a := range route.Args {
		if slots[i] != nil {
			continue
		}
		if a.Visibility == Internal {
			continue
		}
		if a.Optional {
			slots[i] = a.Default
			continue
		}
		msg := fmt.Sprintf("Request to %s is missing required query parameter %q of type %s",
			route.Name, a.Name, a.Type.SimpleName())
		if i < len(parseErrors) && parseErrors[i] != nil {
			msg = fmt.Sprintf("%s, because of %s", msg, parseErrors[i])
		}
		return ErrBadRequest(msg)
	}
	return nil
}
