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
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/rivaas-dispatch/dispatch/task"
)

// Router is the dispatch controller of spec §4.6: it owns one segment
// tree per HTTP method, resolves a request to a Route, binds its
// arguments, runs its plugins, invokes its handler, and delivers exactly
// one Response through the transport's Respond callback.
type Router struct {
	mu     sync.RWMutex
	trees  [methodCount]*segmentTree
	routes [methodCount][]*Route

	listener Listener
	logger   *slog.Logger
	notFound HandlerFunc
}

// Option configures a Router at construction time, the functional-options
// shape the teacher module uses throughout its own options.go.
type Option func(*Router)

// WithListener overrides the Router's Listener. The default is a no-op
// listener that still assigns a google/uuid call ID to every call.
func WithListener(l Listener) Option {
	return func(r *Router) { r.listener = l }
}

// WithLogger overrides the Router's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// WithNotFoundHandler overrides the handler invoked when no route matches
// a request. Its result is written through the default Writer.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(r *Router) { r.notFound = h }
}

// New builds a Router, applying opts over the defaults.
func New(opts ...Option) *Router {
	r := &Router{
		listener: noopListener{},
		logger:   slog.Default(),
		notFound: defaultNotFoundHandler,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultNotFoundHandler(ctx *RouteContext) *task.Task[any] {
	return task.Failed[any](ErrNotFound("no route matches this request"))
}

// Register compiles spec into a Route and adds it to the tree for its
// Method, per spec §4.1. Plugins attached to spec run their ModifyRoute
// hook first, so any Internal args they inject are present when captures
// are cross-checked against Args.
func (r *Router) Register(spec RouteSpec) error {
	pluginCtxs := applyPluginsToRoute(&spec)

	segments, err := parsePath(spec.Path, spec.Args)
	if err != nil {
		return err
	}

	bodyArgIndex := -1
	if spec.BodyArg != "" {
		for i, a := range spec.Args {
			if a.Name == spec.BodyArg {
				bodyArgIndex = i
				break
			}
		}
		if bodyArgIndex < 0 {
			return ErrBadRequest("route " + spec.Name + ": BodyArg " + spec.BodyArg + " is not a declared arg")
		}
	}

	writer := spec.Writer
	if writer == nil {
		writer = defaultWriter
	}

	route := &Route{
		Name:            spec.Name,
		Method:          spec.Method,
		Version:         spec.Version,
		Segments:        segments,
		Args:            spec.Args,
		Handler:         spec.Handler,
		BodyArgIndex:    bodyArgIndex,
		Writer:          writer,
		CaptureSegments: captureSegmentsOf(segments),
		plugins:         spec.Plugins,
		pluginCtxs:      pluginCtxs,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[spec.Method] = append(r.routes[spec.Method], route)
	r.trees[spec.Method] = buildTree(r.routes[spec.Method], 0)
	return nil
}

// HandleRequest resolves req to a Route, binds its arguments, runs its
// plugins, and invokes its handler, delivering the result through
// respond exactly once. It never panics: handler/plugin panics are
// recovered and mapped to a masked 500, per spec §7.
func (r *Router) HandleRequest(req Request, respond Respond) {
	method, ok := ParseMethod(req.Method())
	if !ok {
		r.respondNotFound(req, respond)
		return
	}

	path := req.URI()
	if q := strings.IndexByte(path, '?'); q >= 0 {
		path = path[:q]
	}
	version := detectVersion(req)

	r.mu.RLock()
	tree := r.trees[method]
	r.mu.RUnlock()
	if tree == nil {
		r.respondNotFound(req, respond)
		return
	}

	var params []string
	route := match(tree, version, path, 0, &params)
	if route == nil {
		r.respondNotFound(req, respond)
		return
	}

	r.dispatch(route, req, params, respond)
}

func (r *Router) respondNotFound(req Request, respond Respond) {
	notFoundRoute := &Route{Name: "notFound", Handler: r.notFound, Writer: defaultWriter, BodyArgIndex: -1}
	r.dispatch(notFoundRoute, req, nil, respond)
}

func (r *Router) dispatch(route *Route, req Request, params []string, respond Respond) {
	callID := r.listener.OnStart(route, req)

	args, err := bindArgs(route, req, params)
	if err != nil {
		r.fail(route, req, callID, nil, err, respond)
		return
	}

	ctx := &RouteContext{Route: route, Request: req, CallID: callID, args: args}

	if err := runPlugins(route, ctx); err != nil {
		r.fail(route, req, callID, ctx, err, respond)
		return
	}

	result := r.invokeHandler(route, ctx)
	result.OnComplete(func(v any, err error) {
		if err != nil {
			r.fail(route, req, callID, ctx, err, respond)
			return
		}
		r.succeed(route, callID, ctx, v, respond)
	})
}

// invokeHandler calls route.Handler, recovering a panic into a failed
// Task rather than letting it cross the dispatcher boundary.
func (r *Router) invokeHandler(route *Route, ctx *RouteContext) (result *task.Task[any]) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("dispatch: handler panic", "route", route.Name, "panic", rec)
			result = task.Failed[any](ErrHTTPException(500, "Internal Server Error"))
		}
	}()
	return route.Handler(ctx)
}

// succeed delivers a 200 response for v, per spec §4.6 step 7: a raw
// []byte result is used directly as the body; anything else is
// serialized through route.Writer.
func (r *Router) succeed(route *Route, callID string, ctx *RouteContext, v any, respond Respond) {
	r.listener.OnSucceed(callID, route, v)

	var body []byte
	if raw, ok := v.([]byte); ok {
		body = raw
	} else {
		written, err := route.Writer.Write(v)
		if err != nil {
			r.logger.Error("dispatch: write failed", "route", route.Name, "err", err)
			respond(Response{Status: 500, Body: []byte(`{"error":"Internal Server Error"}`)})
			return
		}
		body = written
	}

	respond(Response{
		Status:  200,
		Headers: responseHeaders(ctx),
		Body:    body,
	})
}

func (r *Router) fail(route *Route, req Request, callID string, ctx *RouteContext, err error, respond Respond) {
	r.listener.OnFail(callID, route, err)

	httpErr := ToHTTPError(err)
	if httpErr.StatusCode() >= 500 {
		r.logger.Error("dispatch: request failed", "route", route.Name, "err", err)
	}
	body, werr := defaultWriter.Write(map[string]string{"error": httpErr.Error()})
	if werr != nil {
		body = []byte(`{"error":"Internal Server Error"}`)
	}
	respond(Response{
		Status:  httpErr.StatusCode(),
		Headers: responseHeaders(ctx),
		Body:    body,
	})
}

// responseHeaders collects the mutable response headers a handler or
// plugin set on ctx via RouteContext.SetHeader (spec §3's "mutable
// response-headers object"), defaulting Content-Type only when the
// handler did not set one itself (spec §4.6 step 7). ctx may be nil for
// failures that occur before a RouteContext exists (e.g. a binder error).
func responseHeaders(ctx *RouteContext) map[string]string {
	headers := make(map[string]string)
	if ctx != nil {
		for k, v := range ctx.headers {
			headers[k] = v
		}
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}
	return headers
}

// detectVersion implements the header precedence of spec §4.6/§6.2:
// Accept first, then API-VERSION, defaulting to 0 when neither is
// present or parseable.
func detectVersion(req Request) int {
	if v, ok := req.Header("Accept"); ok {
		if version, ok := parseVersionHeader(v); ok {
			return version
		}
	}
	if v, ok := req.Header("API-VERSION"); ok {
		if version, ok := parseVersionHeader(v); ok {
			return version
		}
	}
	return 0
}

// parseVersionHeader extracts a "version=N" parameter from an Accept-style
// header value, or parses v outright as an integer for API-VERSION. Per
// spec §6.2 a version is a non-negative integer; anything else (including
// a negative number) is treated as absent.
func parseVersionHeader(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if idx := strings.Index(v, "version="); idx >= 0 {
		rest := v[idx+len("version="):]
		if end := strings.IndexAny(rest, "; \t"); end >= 0 {
			rest = rest[:end]
		}
		return parseNonNegativeInt(rest)
	}
	return parseNonNegativeInt(v)
}

func parseNonNegativeInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
