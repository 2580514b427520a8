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
	"strconv"
	"strings"
	"time"
)

// readPrimitive coerces a decoded (percent-decoded, already-unescaped)
// string into the Go value an Arg's type demands. Failure is always a
// BadRequest per spec §4.3.
func readPrimitive(s string, arg *Arg) (any, error) {
	switch arg.Type {
	case ArgInt32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, badPrimitive(arg, s)
		}
		return int32(v), nil
	case ArgInt64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, badPrimitive(arg, s)
		}
		return v, nil
	case ArgUint32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, badPrimitive(arg, s)
		}
		return uint32(v), nil
	case ArgUint64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, badPrimitive(arg, s)
		}
		return v, nil
	case ArgFloat32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, badPrimitive(arg, s)
		}
		return float32(v), nil
	case ArgFloat64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, badPrimitive(arg, s)
		}
		return v, nil
	case ArgBool:
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, badPrimitive(arg, s)
		}
	case ArgChar:
		r := []rune(s)
		if len(r) != 1 {
			return nil, badPrimitive(arg, s)
		}
		return r[0], nil
	case ArgString:
		return s, nil
	case ArgDateTime:
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, badPrimitive(arg, s)
		}
		return t, nil
	case ArgEnum:
		for _, v := range arg.EnumValues {
			if v == s {
				return s, nil
			}
		}
		return nil, badPrimitive(arg, s)
	default:
		return nil, ErrBadRequest(fmt.Sprintf("parameter %q of type %s cannot be read from a primitive", arg.Name, arg.Type.SimpleName()))
	}
}

func badPrimitive(arg *Arg, s string) error {
	return ErrBadRequest(fmt.Sprintf("parameter %q: cannot parse %q as %s", arg.Name, s, arg.Type.SimpleName()))
}

// readViaNestedJSON is the fallback described in spec §4.3 step 2: when
// primitive coercion fails and the Arg carries a Reader, retry by treating
// s as URL-encoded JSON — a token stream over s's own bytes.
func readViaNestedJSON(s string, arg *Arg) (any, error) {
	if arg.Reader == nil {
		return nil, fmt.Errorf("dispatch: arg %q has no reader for nested JSON fallback", arg.Name)
	}
	dec := newJSONDecoder(strings.NewReader(s))
	return arg.Reader.FromJSON(dec)
}
