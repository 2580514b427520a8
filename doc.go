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

// Package dispatch implements the request routing and dispatch core of a
// lightweight RPC/HTTP framework: compiling route declarations into a
// method-indexed segment tree, matching requests against it (path, query,
// body arguments, and API versioning), marshalling arguments into handlers,
// and plumbing results or errors back through a pluggable Listener.
//
// The core is transport-agnostic: it is driven through the Request/Response
// contract in transport.go, which assumes a fully buffered request and a
// response sink invoked exactly once. See the httpserve subpackage for a
// concrete net/http adapter.
package dispatch
