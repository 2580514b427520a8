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

// Package authplugin is a reference dispatch.Plugin: it injects an
// Internal password arg, reads a caller-supplied password off the
// request, and rejects any call whose value does not match a configured
// secret. It grounds the R5 scenario of spec.md §8 end-to-end and
// exercises the full plugin contract (ModifyRoute plus a synchronous,
// rejecting ModifyCall).
package authplugin

import (
	"net/url"
	"strings"

	"github.com/rivaas-dispatch/dispatch"
)

const passwordArgName = "password"

// Plugin rejects any call whose "password" query parameter does not
// equal the configured secret.
type Plugin struct {
	secret string
}

// New returns an authplugin.Plugin that requires secret.
func New(secret string) *Plugin {
	return &Plugin{secret: secret}
}

var _ dispatch.Plugin = (*Plugin)(nil)

// ModifyRoute injects the Internal "password" arg this plugin populates
// and reads back in ModifyCall, returning its index as the registration
// ctx so ModifyCall never has to re-scan Route.Args by name.
func (p *Plugin) ModifyRoute(modifier *dispatch.RouteModifier) any {
	return modifier.AddInternalArg(passwordArgName, dispatch.ArgString)
}

// ModifyCall reads "password" from the request's query string, stores it
// into the Internal arg it declared, and rejects with Unauthorized unless
// it equals the configured secret. It completes synchronously, as the
// plugin contract requires.
func (p *Plugin) ModifyCall(pluginCtx any, ctx *dispatch.RouteContext, done func(error)) {
	idx, ok := pluginCtx.(int)
	if !ok {
		done(dispatch.ErrUnauthorized("route is missing the password arg this plugin requires"))
		return
	}

	v := queryParam(ctx.Request.URI(), passwordArgName)
	ctx.SetArg(idx, v)

	if v != p.secret {
		done(dispatch.ErrUnauthorized("invalid password"))
		return
	}
	done(nil)
}

func queryParam(uri, name string) string {
	q := uri
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		q = uri[i+1:]
	} else {
		q = ""
	}
	values, err := url.ParseQuery(q)
	if err != nil {
		return ""
	}
	return values.Get(name)
}
