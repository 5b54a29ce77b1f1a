// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

import "github.com/b97tsk/async"

// ExecutorNotifier returns the token-based variant for the second
// cooperative runtime, [github.com/b97tsk/async.Executor]: the worker
// writes the result slot and readiness directly, then spawns a task on
// the executor that notifies the handle's signal. Coroutines watching
// [Handle.Event] resume on the executor's next pass.
//
// Capture e on the executor side at construction time, exactly as a
// Token is captured from a Sched. Returns nil if e is nil; New rejects
// a nil Notifier with ErrNoRuntime.
func ExecutorNotifier(e *async.Executor) Notifier {
	if e == nil {
		return nil
	}
	return executorNotifier{e: e}
}

type executorNotifier struct {
	e *async.Executor
}

func (n executorNotifier) Deliver(p *pending, v any, err error) {
	p.publish(v, err)
	n.e.Spawn(async.Do(p.sig.Notify))
}

// AwaitThen returns an async.Task that suspends its coroutine until h
// resolves, then transitions to the task produced by f with the outcome.
// The coroutine watches the handle's readiness event, so resumption
// costs one executor pass and no polling.
//
// h must belong to a controller built with ExecutorNotifier on the same
// executor the task runs on.
func AwaitThen[R any](h Handle[R], f func(R, error) async.Task) async.Task {
	return func(co *async.Coroutine) async.Result {
		if !h.Ready() {
			return co.Yield(h.Event())
		}
		v, err := h.TryResult()
		return co.Transition(f(v, err))
	}
}
