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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rivaas-dispatch/dispatch/task"
)

func noopHandler(ctx *RouteContext) *task.Task[any] {
	return task.Done[any](nil)
}

func mustRoute(t *testing.T, name string, method Method, version int, path string, args []Arg, bodyArg string) *Route {
	t.Helper()
	segments, err := parsePath(path, args)
	require.NoError(t, err)

	bodyIdx := -1
	if bodyArg != "" {
		for i, a := range args {
			if a.Name == bodyArg {
				bodyIdx = i
			}
		}
	}

	return &Route{
		Name:            name,
		Method:          method,
		Version:         version,
		Segments:        segments,
		Args:            args,
		Handler:         noopHandler,
		BodyArgIndex:    bodyIdx,
		Writer:          defaultWriter,
		CaptureSegments: captureSegmentsOf(segments),
	}
}

func TestMatchLiteralBeatsWildcardAtSameDepth(t *testing.T) {
	literal := mustRoute(t, "literalRoute", MethodGet, 1, "/users/me", nil, "")
	wildcard := mustRoute(t, "wildcardRoute", MethodGet, 1, "/users/{id}", []Arg{
		{Name: "id", Type: ArgString, Visibility: Public, IsPath: true},
	}, "")

	tree := buildTree([]*Route{literal, wildcard}, 0)

	var params []string
	got := match(tree, 1, "/users/me", 0, &params)
	require.Same(t, literal, got)
	require.Empty(t, params)

	params = nil
	got = match(tree, 1, "/users/42", 0, &params)
	require.Same(t, wildcard, got)
	require.Equal(t, []string{"42"}, params)
}

func TestMatchHighestVersionAtOrBelowRequested(t *testing.T) {
	v1 := mustRoute(t, "v1", MethodGet, 1, "/widgets", nil, "")
	v2 := mustRoute(t, "v2", MethodGet, 2, "/widgets", nil, "")
	v5 := mustRoute(t, "v5", MethodGet, 5, "/widgets", nil, "")

	tree := buildTree([]*Route{v1, v2, v5}, 0)

	var params []string
	require.Nil(t, match(tree, 0, "/widgets", 0, &params))
	require.Same(t, v1, match(tree, 1, "/widgets", 0, &params))
	require.Same(t, v2, match(tree, 2, "/widgets", 0, &params))
	require.Same(t, v2, match(tree, 4, "/widgets", 0, &params))
	require.Same(t, v5, match(tree, 5, "/widgets", 0, &params))
	require.Same(t, v5, match(tree, 99, "/widgets", 0, &params))
}

func TestMatchNoVersionBelowRequestedFails(t *testing.T) {
	v5 := mustRoute(t, "v5", MethodGet, 5, "/widgets", nil, "")
	tree := buildTree([]*Route{v5}, 0)

	var params []string
	require.Nil(t, match(tree, 4, "/widgets", 0, &params))
}

func TestMatchCaptureOrderIsPostOrder(t *testing.T) {
	args := []Arg{
		{Name: "a", Type: ArgString, Visibility: Public, IsPath: true},
		{Name: "b", Type: ArgString, Visibility: Public, IsPath: true},
		{Name: "c", Type: ArgString, Visibility: Public, IsPath: true},
	}
	route := mustRoute(t, "nested", MethodGet, 1, "/{a}/{b}/{c}", args, "")
	tree := buildTree([]*Route{route}, 0)

	var params []string
	got := match(tree, 1, "/1/2/3", 0, &params)
	require.Same(t, route, got)
	// Post-order: the deepest segment is appended first as the recursion
	// unwinds, so declaration order [a, b, c] comes back as [c, b, a].
	require.Equal(t, []string{"3", "2", "1"}, params)
}

func TestMatchStaticRouteOverWildcardContinuation(t *testing.T) {
	static := mustRoute(t, "static", MethodGet, 1, "/teams/acme/members", nil, "")
	wildcard := mustRoute(t, "wildcard", MethodGet, 1, "/teams/{team}/members", []Arg{
		{Name: "team", Type: ArgString, Visibility: Public, IsPath: true},
	}, "")

	tree := buildTree([]*Route{static, wildcard}, 0)

	var params []string
	require.Same(t, static, match(tree, 1, "/teams/acme/members", 0, &params))

	params = nil
	require.Same(t, wildcard, match(tree, 1, "/teams/other/members", 0, &params))
	require.Equal(t, []string{"other"}, params)
}
