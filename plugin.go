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

import "fmt"

// RouteModifier is the registration-time handle a Plugin uses to extend
// the route it has been attached to, per spec §4.4 / §6.3. Its only
// capability is appending Internal args: at registration time a plugin
// can never see or rewrite a Public, wire-bound arg.
type RouteModifier struct {
	spec *RouteSpec
}

// NewRouteModifier returns a RouteModifier bound to spec. It is exported
// chiefly so a Plugin's own tests can exercise ModifyRoute without going
// through a full Router.Register call.
func NewRouteModifier(spec *RouteSpec) *RouteModifier {
	return &RouteModifier{spec: spec}
}

// AddInternalArg appends an Internal arg to the route being registered
// and returns its index. The plugin populates this slot itself during
// ModifyCall, before the handler runs.
func (m *RouteModifier) AddInternalArg(name string, argType ArgType) int {
	m.spec.Args = append(m.spec.Args, Arg{
		Name:       name,
		Type:       argType,
		Visibility: Internal,
	})
	return len(m.spec.Args) - 1
}

// Plugin is the extension surface of spec §6.3 / §4.4. ModifyRoute runs
// once at registration, may grow the route's Internal arg list, and
// returns a per-route context value (e.g. the index of an arg it just
// injected) that the dispatcher hands back on every call. ModifyCall
// runs on every request routed through a route the plugin is attached to
// and must complete synchronously — it reports success or rejection via
// done rather than suspending, so the dispatcher can keep the pipeline
// free of goroutine hand-offs between plugins.
type Plugin interface {
	ModifyRoute(modifier *RouteModifier) any
	ModifyCall(pluginCtx any, ctx *RouteContext, done func(error))
}

// applyPluginsToRoute runs every attached plugin's ModifyRoute against
// spec, in attachment order, before the route's Segments/Args are
// finalized by the registry. It returns each plugin's registration-time
// ctx value, parallel to spec.Plugins, for the registry to carry forward
// on Route.pluginCtxs.
func applyPluginsToRoute(spec *RouteSpec) []any {
	modifier := &RouteModifier{spec: spec}
	ctxs := make([]any, len(spec.Plugins))
	for i, p := range spec.Plugins {
		ctxs[i] = p.ModifyRoute(modifier)
	}
	return ctxs
}

// runPlugins invokes each of route's plugins' ModifyCall in attachment
// order, passing back the ctx value that plugin's ModifyRoute produced at
// registration, and stopping at the first rejection. A plugin that fails
// to invoke done before returning is a programming error in the plugin
// itself — spec §5 forbids plugin suspension — and is reported as such
// rather than silently hanging the request. A panic inside ModifyCall is
// recovered and returned as an error.
func runPlugins(route *Route, ctx *RouteContext) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("dispatch: plugin on route %q panicked: %v", route.Name, rec)
		}
	}()
	for i, p := range route.plugins {
		var callErr error
		called := false
		p.ModifyCall(route.pluginCtxs[i], ctx, func(err error) {
			called = true
			callErr = err
		})
		if !called {
			return fmt.Errorf("dispatch: plugin %d on route %q did not complete synchronously", i, route.Name)
		}
		if callErr != nil {
			return callErr
		}
	}
	return nil
}
