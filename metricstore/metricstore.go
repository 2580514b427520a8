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

// Package metricstore is an example external metrics consumer: a
// dispatch.Listener implementation that feeds Prometheus collectors,
// grounding spec.md's own "MetricStore" mention in a concrete, wireable
// component.
package metricstore

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rivaas-dispatch/dispatch"
)

// Store observes a Router's call lifecycle and exposes three Prometheus
// collectors: a start counter, a success counter, and a failure counter
// labeled by route name. Mutating operations are serialized under one
// coarse mutex, the "recommended, non-mandatory" discipline spec.md's
// concurrency model calls out for a store like this.
type Store struct {
	mu sync.Mutex

	started  *prometheus.CounterVec
	succeeded *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// New builds a Store and registers its collectors with reg. Pass
// prometheus.DefaultRegisterer to use the global registry.
func New(reg prometheus.Registerer) *Store {
	s := &Store{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_calls_started_total",
			Help: "Number of dispatched calls that have started.",
		}, []string{"route"}),
		succeeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_calls_succeeded_total",
			Help: "Number of dispatched calls that completed successfully.",
		}, []string{"route"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_calls_failed_total",
			Help: "Number of dispatched calls that failed.",
		}, []string{"route"}),
	}
	reg.MustRegister(s.started, s.succeeded, s.failed)
	return s
}

// OnStart implements dispatch.Listener.
func (s *Store) OnStart(route *dispatch.Route, req dispatch.Request) string {
	s.mu.Lock()
	s.started.WithLabelValues(route.Name).Inc()
	s.mu.Unlock()
	return ""
}

// OnSucceed implements dispatch.Listener.
func (s *Store) OnSucceed(callID string, route *dispatch.Route, result any) {
	s.mu.Lock()
	s.succeeded.WithLabelValues(route.Name).Inc()
	s.mu.Unlock()
}

// OnFail implements dispatch.Listener.
func (s *Store) OnFail(callID string, route *dispatch.Route, err error) {
	s.mu.Lock()
	s.failed.WithLabelValues(route.Name).Inc()
	s.mu.Unlock()
}
