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

// bindQuery parses query (the raw text after '?', if any) and binds
// matching Public, non-path args into slots. Per spec §4.3: a pair
// missing '=' is an immediate BadRequest; query keys with no matching arg
// are ignored.
func bindQuery(query string, args []Arg, indexByName map[string]int, slots []any) error {
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			return ErrBadRequest(fmt.Sprintf("malformed query parameter %q: missing '='", pair))
		}
		rawName, rawValue := pair[:eq], pair[eq+1:]

		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return ErrBadRequest(fmt.Sprintf("malformed query parameter name %q", rawName))
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return ErrBadRequest(fmt.Sprintf("malformed query parameter value for %q", name))
		}

		idx, ok := indexByName[name]
		if !ok {
			continue
		}
		arg := &args[idx]
		if arg.IsPath || arg.Visibility != Public || arg.Type == ArgBodyContent {
			continue
		}

		// Per spec §4.3 step 2: an empty value string leaves the slot
		// null rather than being coerced (e.g. "" is not a valid int32,
		// but it is also not a parse failure — it is simply absent).
		if value == "" {
			continue
		}

		v, perr := readPrimitive(value, arg)
		if perr == nil {
			slots[idx] = v
			continue
		}
		if arg.Reader != nil {
			if nv, nerr := readViaNestedJSON(value, arg); nerr == nil {
				slots[idx] = nv
				continue
			}
		}
		return perr
	}
	return nil
}
