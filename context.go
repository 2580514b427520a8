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

// RouteContext is passed to a Route's Handler and to each attached
// Plugin's ModifyCall. Unlike the teacher's pooled request context,
// RouteContext is never recycled: spec §5 permits a handler's Task to
// complete after the call that produced it returns, possibly from a
// different goroutine, which is unsafe under pool-and-reset reuse.
type RouteContext struct {
	Route   *Route
	Request Request
	CallID  string

	args    []any
	headers map[string]string
}

// Arg returns the bound value at index i, or nil if it is unset (an
// Internal arg not yet populated by its owning Plugin).
func (c *RouteContext) Arg(i int) any {
	if i < 0 || i >= len(c.args) {
		return nil
	}
	return c.args[i]
}

// SetArg stores the value at index i. A Plugin calls this from
// ModifyCall to populate the Internal args it declared via RouteModifier.
func (c *RouteContext) SetArg(i int, v any) {
	if i < 0 || i >= len(c.args) {
		return
	}
	c.args[i] = v
}

// SetHeader stores a response header to include on the eventual
// response, per spec §3's mutable response-headers object. A Handler or
// Plugin may call this any number of times before the Task completes;
// the last value set for a given name wins.
func (c *RouteContext) SetHeader(name, value string) {
	if c.headers == nil {
		c.headers = make(map[string]string)
	}
	c.headers[name] = value
}

// Header returns a previously set response header.
func (c *RouteContext) Header(name string) (string, bool) {
	v, ok := c.headers[name]
	return v, ok
}
