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
	"strings"

	"github.com/rivaas-dispatch/dispatch/task"
)

// Segment is one slash-delimited component of a Route's path: either a
// literal (ArgIndex < 0) or a typed capture pointing into Route.Args.
type Segment struct {
	Name     string
	ArgIndex int
}

// IsCapture reports whether this segment captures a path parameter.
func (s Segment) IsCapture() bool { return s.ArgIndex >= 0 }

// HandlerFunc is a route handler. It returns a Task rather than a plain
// value so it may complete synchronously or suspend past the call that
// produced it (spec §5).
type HandlerFunc func(ctx *RouteContext) *task.Task[any]

// Route is a compiled route declaration: method, version, path segments,
// the full argument list (wire-bound and plugin-injected), its handler,
// and the Writer used to serialize a successful result.
type Route struct {
	Name         string
	Method       Method
	Version      int
	Segments     []Segment
	Args         []Arg
	Handler      HandlerFunc
	BodyArgIndex int
	Writer       Writer

	// CaptureSegments are the Segments with IsCapture() true, in
	// left-to-right path order. The binder uses this to rebind the
	// matcher's reverse-order capture list back to declaration order
	// (spec §4.2/§4.3, §8 "capture order" invariant).
	CaptureSegments []Segment

	plugins []Plugin
	// pluginCtxs holds each plugins[i]'s ModifyRoute return value, handed
	// back to that plugin's ModifyCall on every request (spec §4.4).
	pluginCtxs []any
}

// RouteSpec is the user-facing declaration passed to Router.Register. It
// is compiled into a Route, with path captures cross-checked against the
// declared Args and plugin-injected Internal args appended.
type RouteSpec struct {
	Name    string
	Method  Method
	Version int
	// Path uses "{name}" for captures, e.g. "/users/{id}/posts/{slug}".
	Path string
	// Args declares every wire-bound argument in Path-capture order for
	// IsPath entries; query/body args may appear in any order.
	Args []Arg
	// BodyArg names the Arg (if any) that receives the raw body buffer
	// instead of participating in body parsing.
	BodyArg string
	Handler HandlerFunc
	Writer  Writer
	// Plugins apply, in order, to this route only (spec §6.3: a plugin's
	// capability is opt-in per declared route, not implicitly global).
	Plugins []Plugin
}

// parsePath splits a "{name}"-templated path into Segments, matching each
// capture token against the next declared IsPath arg in order.
func parsePath(path string, args []Arg) ([]Segment, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}

	var pathArgIndices []int
	for i, a := range args {
		if a.IsPath {
			pathArgIndices = append(pathArgIndices, i)
		}
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]Segment, 0, len(parts))
	next := 0
	for _, raw := range parts {
		if len(raw) >= 2 && raw[0] == '{' && raw[len(raw)-1] == '}' {
			name := raw[1 : len(raw)-1]
			if next >= len(pathArgIndices) {
				return nil, fmt.Errorf("dispatch: path %q has more captures than declared path args", path)
			}
			idx := pathArgIndices[next]
			if args[idx].Name != name {
				return nil, fmt.Errorf("dispatch: path capture %q does not match declared arg %q at position %d", name, args[idx].Name, next)
			}
			segments = append(segments, Segment{Name: name, ArgIndex: idx})
			next++
			continue
		}
		segments = append(segments, Segment{Name: raw, ArgIndex: -1})
	}
	if next != len(pathArgIndices) {
		return nil, fmt.Errorf("dispatch: path %q declares fewer captures than its path args", path)
	}
	return segments, nil
}

// captureSegmentsOf returns the capture segments of segs in path order.
func captureSegmentsOf(segs []Segment) []Segment {
	var out []Segment
	for _, s := range segs {
		if s.IsCapture() {
			out = append(out, s)
		}
	}
	return out
}
