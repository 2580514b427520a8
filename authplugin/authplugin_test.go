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

package authplugin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rivaas-dispatch/dispatch"
)

type fakeRequest struct {
	uri string
}

func (r *fakeRequest) Method() string               { return "GET" }
func (r *fakeRequest) URI() string                  { return r.uri }
func (r *fakeRequest) Header(string) (string, bool) { return "", false }
func (r *fakeRequest) Content() *dispatch.Buffer    { return dispatch.NewBuffer(nil) }

func newRouteContext(t *testing.T, p *Plugin, uri string) (*dispatch.RouteContext, any) {
	t.Helper()
	spec := &dispatch.RouteSpec{Name: "R5", Args: nil, Plugins: []dispatch.Plugin{p}}
	modifier := dispatch.NewRouteModifier(spec)
	pluginCtx := p.ModifyRoute(modifier)

	route := &dispatch.Route{Name: spec.Name, Args: spec.Args}
	return &dispatch.RouteContext{
		Route:   route,
		Request: &fakeRequest{uri: uri},
	}, pluginCtx
}

func TestModifyCallAcceptsCorrectPassword(t *testing.T) {
	p := New("s3cr3t")
	ctx, pluginCtx := newRouteContext(t, p, "/auth/ping?password=s3cr3t")

	var gotErr error
	p.ModifyCall(pluginCtx, ctx, func(err error) { gotErr = err })
	require.NoError(t, gotErr)
}

func TestModifyCallRejectsWrongPassword(t *testing.T) {
	p := New("s3cr3t")
	ctx, pluginCtx := newRouteContext(t, p, "/auth/ping?password=wrong")

	var gotErr error
	p.ModifyCall(pluginCtx, ctx, func(err error) { gotErr = err })
	require.Error(t, gotErr)
	require.Equal(t, 401, dispatch.ToHTTPError(gotErr).StatusCode())
}

func TestModifyCallRejectsMissingPasswordArg(t *testing.T) {
	p := New("s3cr3t")
	ctx := &dispatch.RouteContext{
		Route:   &dispatch.Route{Name: "R5"},
		Request: &fakeRequest{uri: "/auth/ping?password=s3cr3t"},
	}

	var gotErr error
	p.ModifyCall("not-an-int", ctx, func(err error) { gotErr = err })
	require.Error(t, gotErr)
	require.Equal(t, 401, dispatch.ToHTTPError(gotErr).StatusCode())
}
