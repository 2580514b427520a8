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

import "github.com/google/uuid"

// Listener observes the lifecycle of a dispatched call, per spec §5:
// OnStart happens-before exactly one of OnSucceed/OnFail, which in turn
// happens-before the response is delivered to the transport. Pre-handler
// failures (binder or plugin rejection) still produce exactly one OnFail.
type Listener interface {
	OnStart(route *Route, req Request) (callID string)
	OnSucceed(callID string, route *Route, result any)
	OnFail(callID string, route *Route, err error)
}

// noopListener is the default Listener: it assigns a call ID via
// google/uuid (so every call is traceable even with no Listener wired)
// and otherwise observes nothing.
type noopListener struct{}

func (noopListener) OnStart(*Route, Request) string { return uuid.NewString() }
func (noopListener) OnSucceed(string, *Route, any)   {}
func (noopListener) OnFail(string, *Route, error)    {}
