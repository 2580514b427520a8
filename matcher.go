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

// match walks path one segment at a time starting at offset start,
// resolving the highest-version route at or below version whose shape
// fits path, per spec §4.2. Captured segment text is appended to
// outParams in post-order (deepest segment first); the binder rebinds
// this reversed list back to left-to-right declaration order.
func match(node *segmentTree, version int, path string, start int, outParams *[]string) *Route {
	for start < len(path) && path[start] == '/' {
		start++
	}

	segStart := start
	segEnd := segStart
	for segEnd < len(path) {
		c := path[segEnd]
		if c == '/' || c == '?' {
			break
		}
		segEnd++
	}
	segment := path[segStart:segEnd]
	h := hashName(segment)

	terminal := segEnd >= len(path) || path[segEnd] == '?'

	if terminal {
		for i, r := range node.localLiterals {
			if node.literalHashes[i] == h && node.literalNames[i] == segment && r.Version <= version {
				return r
			}
		}
		for _, r := range node.localWildcards {
			if r.Version <= version {
				*outParams = append(*outParams, segment)
				return r
			}
		}
		return nil
	}

	for i, childHash := range node.childHashes {
		if childHash == h && node.childNames[i] == segment {
			if r := match(node.children[i], version, path, segEnd+1, outParams); r != nil {
				return r
			}
			break
		}
	}

	if node.wildcardChild != nil {
		if r := match(node.wildcardChild, version, path, segEnd+1, outParams); r != nil {
			*outParams = append(*outParams, segment)
			return r
		}
	}

	return nil
}
