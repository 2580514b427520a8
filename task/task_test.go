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

package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonotonicityAndRepeatedHandlerDelivery(t *testing.T) {
	tk := New[int]()
	tk.Finish(7)
	tk.Finish(9) // second terminal transition is a no-op

	var got []int
	tk.OnFinish(func(v int) { got = append(got, v) })
	tk.OnFinish(func(v int) { got = append(got, v) })
	require.Equal(t, []int{7, 7}, got)
}

func TestFailThenFinishIsNoOp(t *testing.T) {
	tk := New[int]()
	sentinel := errors.New("boom")
	tk.Fail(sentinel)
	tk.Finish(1)

	var gotErr error
	tk.OnFail(func(err error) { gotErr = err })
	require.Equal(t, sentinel, gotErr)
}

func TestMapIdentity(t *testing.T) {
	tk := Done[int](5)
	mapped := Map(tk, func(v int) int { return v })

	var got int
	mapped.OnFinish(func(v int) { got = v })
	require.Equal(t, 5, got)
}

func TestThenFinishedIdentity(t *testing.T) {
	tk := Done[int](5)
	chained := Then(tk, func(v int) *Task[int] { return Done(v) })

	var got int
	chained.OnFinish(func(v int) { got = v })
	require.Equal(t, 5, got)
}

func TestMapPropagatesFailure(t *testing.T) {
	sentinel := errors.New("nope")
	tk := Failed[int](sentinel)
	mapped := Map(tk, func(v int) string { return "unreachable" })

	var gotErr error
	mapped.OnFail(func(err error) { gotErr = err })
	require.Equal(t, sentinel, gotErr)
}

func TestMapRecoversPanicIntoFailure(t *testing.T) {
	tk := Done[int](1)
	mapped := Map(tk, func(v int) int { panic("boom") })

	var gotErr error
	mapped.OnFail(func(err error) { gotErr = err })
	require.ErrorContains(t, gotErr, "boom")
}

func TestCatchRecoversFailure(t *testing.T) {
	tk := Failed[int](errors.New("x"))
	recovered := Catch(tk, func(error) int { return 42 })

	var got int
	recovered.OnFinish(func(v int) { got = v })
	require.Equal(t, 42, got)
}

func TestAlwaysPassesOutcomeToHandlerAndForwardsIt(t *testing.T) {
	ok := Done[int](1)
	var sawV int
	var sawErr error
	always := Always(ok, func(v int, err error) { sawV, sawErr = v, err })
	require.Equal(t, 1, sawV)
	require.NoError(t, sawErr)

	var got int
	always.OnFinish(func(v int) { got = v })
	require.Equal(t, 1, got)

	sentinel := errors.New("e")
	failing := Failed[int](sentinel)
	always = Always(failing, func(v int, err error) { sawV, sawErr = v, err })
	require.Equal(t, sentinel, sawErr)

	var gotErr error
	always.OnFail(func(err error) { gotErr = err })
	require.Equal(t, sentinel, gotErr)
}

func TestAlwaysFailsOnPanicInsideHandler(t *testing.T) {
	ok := Done[int](1)
	always := Always(ok, func(int, error) { panic("boom") })

	var gotErr error
	always.OnFail(func(err error) { gotErr = err })
	require.ErrorContains(t, gotErr, "boom")
}

func TestThenChainsAcrossTwoTasks(t *testing.T) {
	first := Done[int](2)
	result := Then(first, func(v int) *Task[int] {
		return Done(v * 10)
	})

	var got int
	result.OnFinish(func(v int) { got = v })
	require.Equal(t, 20, got)
}
