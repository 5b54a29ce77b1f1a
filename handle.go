// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"github.com/b97tsk/async"
)

// Handle is the awaitable view of a submitted call, typed with the
// call's result type. It is resolved exactly once, by the worker; every
// observation after resolution returns the same cached outcome without
// re-suspending or re-executing.
//
// A Handle is owned by the caller that created it. Abandoning a Handle
// is permitted: the worker still executes the call and resolves a result
// that nobody reads.
type Handle[R any] struct {
	p *pending
}

// Ready reports whether the call has resolved. Non-blocking; safe from
// any goroutine.
func (h Handle[R]) Ready() bool {
	return h.p.ready()
}

// TryResult returns the outcome if the call has resolved, or
// iox.ErrWouldBlock while it is still pending. Non-blocking; safe from
// any goroutine.
func (h Handle[R]) TryResult() (R, error) {
	if !h.p.ready() {
		var zero R
		return zero, iox.ErrWouldBlock
	}
	return h.outcome()
}

// Wait blocks the calling goroutine until the call resolves, with
// adaptive backoff. It is the escape hatch for non-cooperative callers;
// scheduler-bound code should suspend with Await or Event instead.
func (h Handle[R]) Wait() (R, error) {
	var bo iox.Backoff
	for !h.p.ready() {
		bo.Wait()
	}
	return h.outcome()
}

// Await suspends the calling fiber until the call resolves (Cont-world).
// Right carries the call's value; Left carries its error, including
// *PanicError for a call that panicked on the worker.
//
// Await must run on the Sched the controller's notifier is bound to.
func (h Handle[R]) Await() kont.Eff[kont.Either[error, R]] {
	return kont.Map(kont.Perform(awaitOp{p: h.p}), eitherOutcome[R])
}

// ExprAwait suspends the calling fiber until the call resolves
// (Expr-world). Right carries the call's value; Left carries its error.
//
// ExprAwait must run on the Sched the controller's notifier is bound to.
func (h Handle[R]) ExprAwait() kont.Expr[kont.Either[error, R]] {
	return kont.ExprMap(kont.ExprPerform(awaitOp{p: h.p}), eitherOutcome[R])
}

// Event returns the readiness event for coroutine awaiting on an
// async.Executor: watch it, yield, and poll TryResult when resumed.
// Only notified for controllers built with ExecutorNotifier.
func (h Handle[R]) Event() async.Event {
	return &h.p.sig
}

// eitherOutcome recovers the typed outcome from the erased await result.
func eitherOutcome[R any](o outcome) kont.Either[error, R] {
	if o.err != nil {
		return kont.Left[error, R](o.err)
	}
	v, _ := o.v.(R)
	return kont.Right[error](v)
}

// outcome unpacks the resolved slot. Callers must observe ready first.
func (h Handle[R]) outcome() (R, error) {
	if h.p.err != nil {
		var zero R
		return zero, h.p.err
	}
	v, _ := h.p.res.(R)
	return v, nil
}
