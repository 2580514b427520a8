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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rivaas-dispatch/dispatch/task"
)

// fakeRequest is a minimal dispatch.Request for exercising the dispatcher
// without a real transport.
type fakeRequest struct {
	method  string
	uri     string
	headers map[string]string
	body    *Buffer
}

func (r *fakeRequest) Method() string { return r.method }
func (r *fakeRequest) URI() string    { return r.uri }
func (r *fakeRequest) Header(name string) (string, bool) {
	for k, v := range r.headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
func (r *fakeRequest) Content() *Buffer {
	if r.body == nil {
		return NewBuffer(nil)
	}
	return r.body
}

func newRouterWithScenarioRoutes(t *testing.T) *Router {
	t.Helper()
	r := New()

	idArg := []Arg{{Name: "id", Type: ArgInt64, Visibility: Public, IsPath: true}}

	require.NoError(t, r.Register(RouteSpec{
		Name: "R1", Method: MethodGet, Version: 0, Path: "/users/{id}", Args: idArg,
		Handler: func(ctx *RouteContext) *task.Task[any] {
			return task.Done[any](map[string]any{"route": "R1", "id": ctx.Arg(0)})
		},
	}))
	require.NoError(t, r.Register(RouteSpec{
		Name: "R2", Method: MethodGet, Version: 2, Path: "/users/{id}", Args: idArg,
		Handler: func(ctx *RouteContext) *task.Task[any] {
			return task.Done[any](map[string]any{"route": "R2", "id": ctx.Arg(0)})
		},
	}))
	require.NoError(t, r.Register(RouteSpec{
		Name: "R3", Method: MethodGet, Version: 0, Path: "/users/me",
		Handler: func(ctx *RouteContext) *task.Task[any] {
			return task.Done[any](map[string]any{"route": "R3"})
		},
	}))
	require.NoError(t, r.Register(RouteSpec{
		Name: "R4", Method: MethodPost, Version: 0, Path: "/items",
		Args: []Arg{
			{Name: "name", Type: ArgString, Visibility: Public},
			{Name: "qty", Type: ArgInt64, Visibility: Public, Optional: true, Default: int64(1)},
		},
		Handler: func(ctx *RouteContext) *task.Task[any] {
			return task.Done[any](map[string]any{"name": ctx.Arg(0), "qty": ctx.Arg(1)})
		},
	}))

	return r
}

func doRequest(r *Router, req Request) Response {
	var resp Response
	r.HandleRequest(req, func(res Response) { resp = res })
	return resp
}

func TestScenario1And2VersionNegotiation(t *testing.T) {
	r := newRouterWithScenarioRoutes(t)

	resp := doRequest(r, &fakeRequest{method: "GET", uri: "/users/42", headers: map[string]string{"API-VERSION": "0"}})
	require.Equal(t, 200, resp.Status)
	require.Contains(t, string(resp.Body), `"R1"`)

	resp = doRequest(r, &fakeRequest{method: "GET", uri: "/users/42", headers: map[string]string{"API-VERSION": "3"}})
	require.Equal(t, 200, resp.Status)
	require.Contains(t, string(resp.Body), `"R2"`)
}

func TestScenario3And4LiteralBeatsWildcard(t *testing.T) {
	r := newRouterWithScenarioRoutes(t)

	resp := doRequest(r, &fakeRequest{method: "GET", uri: "/users/me", headers: map[string]string{"API-VERSION": "5"}})
	require.Equal(t, 200, resp.Status)
	require.Contains(t, string(resp.Body), `"R3"`)

	resp = doRequest(r, &fakeRequest{method: "GET", uri: "/users/me", headers: map[string]string{"API-VERSION": "3"}})
	require.Equal(t, 200, resp.Status)
	require.Contains(t, string(resp.Body), `"R3"`)
}

func TestScenario5OptionalBodyArgDefaults(t *testing.T) {
	r := newRouterWithScenarioRoutes(t)

	resp := doRequest(r, &fakeRequest{
		method:  "POST",
		uri:     "/items",
		headers: map[string]string{"Content-Type": "application/json"},
		body:    NewBuffer([]byte(`{"name":"x"}`)),
	})
	require.Equal(t, 200, resp.Status)
	require.Contains(t, string(resp.Body), `"qty":1`)
}

func TestScenario6MissingRequiredBodyArg(t *testing.T) {
	r := newRouterWithScenarioRoutes(t)

	resp := doRequest(r, &fakeRequest{
		method:  "POST",
		uri:     "/items",
		headers: map[string]string{"Content-Type": "application/json"},
		body:    NewBuffer([]byte(`{"qty":3}`)),
	})
	require.Equal(t, 400, resp.Status)
	require.Contains(t, string(resp.Body), "name")
}

func TestScenario8NoRouteDelegatesToNotFound(t *testing.T) {
	r := newRouterWithScenarioRoutes(t)

	resp := doRequest(r, &fakeRequest{method: "GET", uri: "/nope"})
	require.Equal(t, 404, resp.Status)
}

func TestListenerBalanceExactlyOneOutcomePerCall(t *testing.T) {
	r := newRouterWithScenarioRoutes(t)
	var starts, succeeds, fails int
	r = New(WithListener(countingListener{
		onStart:   func() { starts++ },
		onSucceed: func() { succeeds++ },
		onFail:    func() { fails++ },
	}))
	require.NoError(t, r.Register(RouteSpec{
		Name: "ok", Method: MethodGet, Version: 0, Path: "/ok",
		Handler: func(ctx *RouteContext) *task.Task[any] { return task.Done[any]("fine") },
	}))

	doRequest(r, &fakeRequest{method: "GET", uri: "/ok"})
	doRequest(r, &fakeRequest{method: "GET", uri: "/missing"})

	require.Equal(t, 2, starts)
	require.Equal(t, 1, succeeds)
	require.Equal(t, 1, fails)
}

type countingListener struct {
	onStart   func()
	onSucceed func()
	onFail    func()
}

func (c countingListener) OnStart(*Route, Request) string {
	c.onStart()
	return "call"
}
func (c countingListener) OnSucceed(string, *Route, any) { c.onSucceed() }
func (c countingListener) OnFail(string, *Route, error)  { c.onFail() }
