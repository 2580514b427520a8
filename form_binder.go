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

// bindFormBody treats buf as application/x-www-form-urlencoded and binds
// matching Public, non-path args. This is the fallback used for body args
// when the request's Content-Type is not JSON (spec §4.3 step 3); its pair
// and escaping rules are identical to the query string's, so it reuses
// bindQuery directly.
func bindFormBody(buf []byte, args []Arg, indexByName map[string]int, slots []any) error {
	return bindQuery(string(buf), args, indexByName, slots)
}
