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

// Package httpserve adapts github.com/rivaas-dispatch/dispatch's
// transport-agnostic Request/Response contract onto net/http, the one
// concrete transport this module ships.
package httpserve

import (
	"io"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/rivaas-dispatch/dispatch"
)

// Server wraps a *dispatch.Router as an http.Handler.
type Server struct {
	router *dispatch.Router
	h2c    bool
}

// Option configures a Server.
type Option func(*Server)

// WithH2C enables HTTP/2 cleartext (prior-knowledge) support via
// golang.org/x/net/http2/h2c, mirroring the teacher's own opt-in gate.
//
// H2C serves HTTP/2 without TLS. Only enable this behind a trusted
// network boundary (a sidecar/proxy that terminates TLS, or a private
// service mesh) — exposing it directly to the public Internet forgoes
// transport encryption entirely.
func WithH2C() Option {
	return func(s *Server) { s.h2c = true }
}

// New builds a Server over router.
func New(router *dispatch.Router, opts ...Option) *Server {
	s := &Server{router: router}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the http.Handler to pass to http.Serve or http.ListenAndServe.
// When H2C is enabled, it is wrapped with h2c.NewHandler so prior-knowledge
// HTTP/2 requests are served without TLS.
func (s *Server) Handler() http.Handler {
	var h http.Handler = http.HandlerFunc(s.serveHTTP)
	if s.h2c {
		h = h2c.NewHandler(h, &http2.Server{})
	}
	return h
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"failed to read request body"}`))
		return
	}

	uri := r.URL.Path
	if r.URL.RawQuery != "" {
		uri += "?" + r.URL.RawQuery
	}

	req := &httpRequest{
		method: r.Method,
		uri:    uri,
		header: r.Header,
		body:   dispatch.NewBuffer(body),
	}

	s.router.HandleRequest(req, func(resp dispatch.Response) {
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.Status)
		_, _ = w.Write(resp.Body)
	})
}

// httpRequest adapts an *http.Request (plus its pre-buffered body) to
// dispatch.Request.
type httpRequest struct {
	method string
	uri    string
	header http.Header
	body   *dispatch.Buffer
}

func (r *httpRequest) Method() string { return r.method }
func (r *httpRequest) URI() string    { return r.uri }

func (r *httpRequest) Header(name string) (string, bool) {
	v := r.header.Get(name)
	if v == "" {
		// http.Header.Get returns "" both for absent and empty-valued
		// headers; disambiguate via the canonical key's presence.
		if _, ok := r.header[http.CanonicalHeaderKey(name)]; !ok {
			return "", false
		}
	}
	return v, true
}

func (r *httpRequest) Content() *dispatch.Buffer { return r.body }
