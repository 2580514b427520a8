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

import "sort"

// segmentTree is one node of the per-method trie described in spec §3/§4.1.
// It is built once from a Route list and is immutable afterwards.
type segmentTree struct {
	// localLiterals are routes terminating here with a literal final
	// segment, descending-sorted by Version so the first
	// version-compatible match wins.
	localLiterals []*Route
	literalHashes []uint64
	literalNames  []string

	// localWildcards are routes terminating here with a captured final
	// segment, same sort discipline as localLiterals.
	localWildcards []*Route

	// children are continuations keyed by the next literal segment's
	// name hash, kept as parallel slices for a fast linear scan.
	childHashes []uint64
	childNames  []string
	children    []*segmentTree

	// wildcardChild aggregates every route that continues past this
	// depth with a captured segment.
	wildcardChild *segmentTree
}

func sortByVersionDesc(routes []*Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Version > routes[j].Version
	})
}

// buildTree partitions routes at depth into endpoints (literal/wildcard)
// and continuations (grouped by next segment, or aggregated as wildcard),
// recursing on each group. See spec §4.1 for the exact algorithm.
func buildTree(routes []*Route, depth int) *segmentTree {
	var literalEndpoints, wildcardEndpoints []*Route
	type continuation struct {
		name   string
		routes []*Route
	}
	var order []string
	groups := map[string]*continuation{}
	var wildcardContinuing []*Route

	for _, r := range routes {
		if len(r.Segments) <= depth {
			// Malformed input (shorter than depth); ignore defensively.
			continue
		}
		seg := r.Segments[depth]
		isEndpoint := len(r.Segments) == depth+1

		if isEndpoint {
			if seg.IsCapture() {
				wildcardEndpoints = append(wildcardEndpoints, r)
			} else {
				literalEndpoints = append(literalEndpoints, r)
			}
			continue
		}

		if seg.IsCapture() {
			wildcardContinuing = append(wildcardContinuing, r)
			continue
		}
		g, ok := groups[seg.Name]
		if !ok {
			g = &continuation{name: seg.Name}
			groups[seg.Name] = g
			order = append(order, seg.Name)
		}
		g.routes = append(g.routes, r)
	}

	sortByVersionDesc(literalEndpoints)
	sortByVersionDesc(wildcardEndpoints)

	n := &segmentTree{
		localLiterals:  literalEndpoints,
		localWildcards: wildcardEndpoints,
	}
	for _, r := range literalEndpoints {
		name := r.Segments[depth].Name
		n.literalHashes = append(n.literalHashes, hashName(name))
		n.literalNames = append(n.literalNames, name)
	}

	for _, name := range order {
		g := groups[name]
		n.childNames = append(n.childNames, name)
		n.childHashes = append(n.childHashes, hashName(name))
		n.children = append(n.children, buildTree(g.routes, depth+1))
	}

	if len(wildcardContinuing) > 0 {
		n.wildcardChild = buildTree(wildcardContinuing, depth+1)
	}

	return n
}
