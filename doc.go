// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xcall bridges cooperative schedulers to a dedicated worker
// goroutine: calls submitted on the scheduler side run on the worker, and
// their results resolve back on the scheduler side without blocking it.
//
// Each [Controller] owns one unbounded FIFO work queue and exactly one
// worker goroutine. [Send] enqueues a call and returns a [Handle]
// immediately; the worker dequeues, executes, and delivers the outcome
// through a [Notifier] bound at construction time. [Controller.Close]
// enqueues a sentinel that drains the queue and stops the worker.
//
// # Architecture
//
//   - Transport: Unbounded multi-segment FIFO over lock-free bounded SPSC
//     rings via [code.hybscloud.com/lfq]. Enqueue never blocks; the worker
//     blocks on dequeue with [code.hybscloud.com/iox.Backoff].
//   - Resolution: A call's result slot is written exactly once; readiness is
//     published either by callback injection on the scheduler goroutine or
//     by an atomic flag followed by a deferred waker. Re-awaiting a resolved
//     [Handle] returns the cached outcome.
//   - Failure: Callable panics are captured on the worker and delivered as
//     [*PanicError] through the same notifier path; a failing call never
//     terminates the worker.
//
// # Notifier Variants
//
// A [Notifier] is the capability to wake a cooperative scheduler from the
// worker goroutine. Exactly one variant is selected per Controller:
//
//   - [LoopNotifier]: callback-queue injection into a [Sched]. The result
//     slot is settled by an injected callback on the scheduler goroutine.
//   - [TokenNotifier]: the worker writes the result slot directly, then
//     defers only the waker through a captured [Token].
//   - [ExecutorNotifier]: the token variant for a second cooperative
//     runtime, [github.com/b97tsk/async.Executor].
//
// # Awaiting
//
//   - Fibers on a [Sched] suspend with [Handle.Await] (Cont-world) or
//     [Handle.ExprAwait] (Expr-world), resolving to
//     [code.hybscloud.com/kont.Either] — Right on success, Left on failure.
//   - Coroutines on an async.Executor watch [Handle.Event] and poll
//     [Handle.TryResult]; [AwaitThen] packages the pattern as an async.Task.
//   - Plain goroutines may block on [Handle.Wait] using adaptive backoff.
//
// # Example
//
//	var sched xcall.Sched
//	sched.Autorun(func() { go sched.Run() })
//
//	ctl, _ := xcall.New(xcall.LoopNotifier(&sched))
//	h, _ := xcall.Send(ctl, func() (int, error) { return 5 + 2, nil })
//
//	xcall.Go(&sched, kont.Bind(h.Await(), func(r kont.Either[error, int]) kont.Eff[int] {
//		v, _ := r.GetRight()
//		return kont.Pure(v) // v == 7, resolved on the scheduler goroutine
//	}), nil)
package xcall
