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

// Go forbids a method from introducing type parameters the receiver does
// not already have, so Task's combinators are free functions rather than
// methods — the idiom the broader ecosystem (e.g. samber/lo) uses for the
// same restriction.

// Map transforms a successful result of t into a new Task, passing
// through failure unchanged. A panic inside fn fails the returned Task
// rather than propagating, matching the teacher's panic-recovery
// middleware idiom.
func Map[T, U any](t *Task[T], fn func(T) U) *Task[U] {
	out := New[U]()
	t.OnComplete(func(v T, err error) {
		if err != nil {
			out.Fail(err)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				out.Fail(panicToError(r))
			}
		}()
		out.Finish(fn(v))
	})
	return out
}

// MapBoth transforms both branches of t into a value of a (possibly
// different) type U.
func MapBoth[T, U any](t *Task[T], onValue func(T) U, onError func(error) U) *Task[U] {
	out := New[U]()
	t.OnComplete(func(v T, err error) {
		defer func() {
			if r := recover(); r != nil {
				out.Fail(panicToError(r))
			}
		}()
		if err != nil {
			out.Finish(onError(err))
		} else {
			out.Finish(onValue(v))
		}
	})
	return out
}

// Catch recovers a failed t into a successful value by invoking fn on the
// error. A successful t passes through unchanged.
func Catch[T any](t *Task[T], fn func(error) T) *Task[T] {
	out := New[T]()
	t.OnComplete(func(v T, err error) {
		if err == nil {
			out.Finish(v)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				out.Fail(panicToError(r))
			}
		}()
		out.Finish(fn(err))
	})
	return out
}

// Then chains a successful t into a second Task-returning step, failing
// the result if either step fails.
func Then[T, U any](t *Task[T], fn func(T) *Task[U]) *Task[U] {
	out := New[U]()
	t.OnComplete(func(v T, err error) {
		if err != nil {
			out.Fail(err)
			return
		}
		next, perr := safeCall(fn, v)
		if perr != nil {
			out.Fail(perr)
			return
		}
		next.OnComplete(func(nv U, nerr error) {
			if nerr != nil {
				out.Fail(nerr)
			} else {
				out.Finish(nv)
			}
		})
	})
	return out
}

// ThenBoth chains both branches of t into a second Task-returning step.
func ThenBoth[T, U any](t *Task[T], onValue func(T) *Task[U], onError func(error) *Task[U]) *Task[U] {
	out := New[U]()
	t.OnComplete(func(v T, err error) {
		var next *Task[U]
		var perr error
		if err != nil {
			next, perr = safeCall(onError, err)
		} else {
			next, perr = safeCall(onValue, v)
		}
		if perr != nil {
			out.Fail(perr)
			return
		}
		next.OnComplete(func(nv U, nerr error) {
			if nerr != nil {
				out.Fail(nerr)
			} else {
				out.Finish(nv)
			}
		})
	})
	return out
}

// Always runs fn once t reaches a terminal state, passing through t's
// outcome (v, err) — whichever branch t took. The returned Task carries
// t's own outcome forward, except that a panic inside fn fails it with
// that panic's error instead, per spec §4.5.
func Always[T any](t *Task[T], fn func(T, error)) *Task[T] {
	out := New[T]()
	t.OnComplete(func(v T, err error) {
		defer func() {
			if r := recover(); r != nil {
				out.Fail(panicToError(r))
			}
		}()
		fn(v, err)
		if err != nil {
			out.Fail(err)
		} else {
			out.Finish(v)
		}
	})
	return out
}

func safeCall[T, U any](fn func(T) *Task[U], v T) (next *Task[U], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	return fn(v), nil
}
