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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// newJSONDecoder wraps r for token-level JSON reading. encoding/json's
// Decoder is used deliberately over sonic here: only its documented
// Token()/Decode() interleaving lets the body binder inspect each field's
// raw bytes before deciding how to coerce them (see decodeFieldValue).
func newJSONDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}

// bindJSONBody decodes buf as a JSON object, binding each field against
// route args by name. Spec §4.3 step 3 and §9: an unknown field is
// skipped, and a field that fails to coerce is a parseError that does not
// abort the bind — the slot is left unset, its error recorded in
// parseErrors, and checkArgs reports it if the arg turns out to be
// required.
func bindJSONBody(buf []byte, args []Arg, indexByName map[string]int, slots []any, parseErrors []error) error {
	dec := newJSONDecoder(bytes.NewReader(buf))

	tok, err := dec.Token()
	if err != nil {
		return ErrBadRequest("request body is not valid JSON")
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return ErrBadRequest("request body must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return ErrBadRequest("malformed JSON body")
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return ErrBadRequest(fmt.Sprintf("malformed JSON value for field %q", key))
		}

		idx, ok := indexByName[key]
		if !ok {
			continue
		}
		arg := &args[idx]
		if arg.IsPath || arg.Visibility != Public {
			continue
		}

		v, perr := decodeFieldValue(raw, arg)
		if perr != nil {
			// parseError: leave the slot unset, record the cause, and
			// continue with the rest of the object rather than aborting
			// the whole bind.
			parseErrors[idx] = perr
			continue
		}
		slots[idx] = v
	}

	return nil
}

// decodeFieldValue decodes one field's raw JSON value for arg. It tries a
// direct decode first and, for ArgUserReader args whose raw value is
// itself a JSON string, retries against the unwrapped string — the
// string-wrapping fallback spec §9 calls out for clients that
// double-encode a nested object as a JSON string.
func decodeFieldValue(raw json.RawMessage, arg *Arg) (any, error) {
	if arg.Type == ArgBodyContent {
		return []byte(raw), nil
	}

	if arg.Type == ArgUserReader {
		if arg.Reader == nil {
			return nil, fmt.Errorf("dispatch: arg %q has no reader", arg.Name)
		}
		if v, err := arg.Reader.FromJSON(newJSONDecoder(bytes.NewReader(raw))); err == nil {
			return v, nil
		}
		var wrapped string
		if err := json.Unmarshal(raw, &wrapped); err == nil {
			if v, err := arg.Reader.FromJSON(newJSONDecoder(bytes.NewReader([]byte(wrapped)))); err == nil {
				return v, nil
			}
		}
		return nil, ErrBadRequest(fmt.Sprintf("field %q is not valid for its declared type", arg.Name))
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if v, err := readPrimitive(asString, arg); err == nil {
			return v, nil
		}
	}

	if v, err := readPrimitive(string(bytes.Trim(raw, `"`)), arg); err == nil {
		return v, nil
	}

	if arg.Reader != nil {
		if v, err := arg.Reader.FromJSON(newJSONDecoder(bytes.NewReader(raw))); err == nil {
			return v, nil
		}
	}

	return nil, ErrBadRequest(fmt.Sprintf("field %q: cannot parse", arg.Name))
}
