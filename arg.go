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

import "encoding/json"

// Visibility controls whether an Arg is ever read from the wire.
type Visibility int

const (
	// Public args are bound from the path, query string, or body.
	Public Visibility = iota
	// Internal args are injected by a Plugin and never read from the wire.
	Internal
)

// ArgType is a closed, tagged enum describing how an Arg's wire
// representation is coerced into a Go value. Spec design note §9.2 asks
// for exactly this shape in place of reflected Class<*> dispatch.
type ArgType int

const (
	ArgInt32 ArgType = iota
	ArgInt64
	ArgUint32
	ArgUint64
	ArgFloat32
	ArgFloat64
	ArgBool
	ArgChar
	ArgString
	ArgDateTime
	ArgEnum
	// ArgBodyContent args receive the raw, unparsed request body buffer.
	ArgBodyContent
	// ArgUserReader args are decoded exclusively through Arg.Reader.
	ArgUserReader
)

// SimpleName is the type name used in "missing required parameter" messages.
func (t ArgType) SimpleName() string {
	switch t {
	case ArgInt32:
		return "int32"
	case ArgInt64:
		return "int64"
	case ArgUint32:
		return "uint32"
	case ArgUint64:
		return "uint64"
	case ArgFloat32:
		return "float32"
	case ArgFloat64:
		return "float64"
	case ArgBool:
		return "bool"
	case ArgChar:
		return "char"
	case ArgString:
		return "string"
	case ArgDateTime:
		return "datetime"
	case ArgEnum:
		return "enum"
	case ArgBodyContent:
		return "body"
	case ArgUserReader:
		return "object"
	default:
		return "unknown"
	}
}

// Reader decodes one JSON value from a token-level stream positioned at
// the value's first token. Implementations read exactly one complete
// value and must not consume anything past it.
type Reader interface {
	FromJSON(dec *json.Decoder) (any, error)
}

// ReaderFunc adapts a plain function to the Reader interface.
type ReaderFunc func(dec *json.Decoder) (any, error)

func (f ReaderFunc) FromJSON(dec *json.Decoder) (any, error) { return f(dec) }

// Writer encodes a handler's result value into the response body. The
// default Writer (see codec.go) marshals via sonic, matching the JSON
// engine the teacher and the zeno reference repo both default to.
type Writer interface {
	Write(v any) ([]byte, error)
}

// WriterFunc adapts a plain function to the Writer interface.
type WriterFunc func(v any) ([]byte, error)

func (f WriterFunc) Write(v any) ([]byte, error) { return f(v) }

// Arg is one logical parameter of a Route: path-derived, query-derived,
// body-derived, or plugin-injected.
type Arg struct {
	Name       string
	Type       ArgType
	Reader     Reader
	Visibility Visibility
	Optional   bool
	Default    any
	IsPath     bool
	// EnumValues lists the accepted member names for ArgEnum args.
	EnumValues []string
}
