// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

import (
	"code.hybscloud.com/atomix"
	"github.com/b97tsk/async"
)

// thunk is a boxed unit of work: arguments pre-bound at submission time,
// result type erased for queue transport.
type thunk func() (any, error)

// outcome is the resolved value/error pair flowing through the await
// effect back into a suspended fiber.
type outcome struct {
	v   any
	err error
}

// pending pairs a call with its write-once result slot. It is the unit of
// exchange on the work queue; a nil *pending is the shutdown sentinel.
//
// res and err are written exactly once. The writes happen before done is
// observed as nonzero — either directly (publish stores done after the
// slot) or through the scheduler injection queue (settle runs on the
// scheduler goroutine). This is the only happens-before edge readers of
// the slot rely on.
type pending struct {
	fn  thunk
	res any
	err error

	// done publishes readiness: 0 pending, 1 resolved.
	done atomix.Uint32

	// waiters are parked fibers. Scheduler goroutine only.
	waiters []func()

	// sig resumes coroutines watching the handle on an async.Executor.
	// Notified only on the executor's own scheduling turns.
	sig async.Signal
}

func (p *pending) ready() bool {
	return p.done.Load() != 0
}

// publish writes the result slot from the worker goroutine and marks it
// ready. Used by the token-based notifier variants, which defer only the
// waker to the scheduler.
func (p *pending) publish(v any, err error) {
	p.res = v
	p.err = err
	p.done.Store(1)
}

// settle resolves p on the scheduler goroutine. Used by the injection
// notifier variant. Resolving an already-resolved call is a no-op, which
// guards against double resolution.
func (p *pending) settle(v any, err error) {
	if p.done.Load() != 0 {
		return
	}
	p.res = v
	p.err = err
	p.done.Store(1)
	p.wake()
}

// wake reschedules every parked fiber. Scheduler goroutine only; p is
// ready by the time wake runs, so waiters read a stable slot.
func (p *pending) wake() {
	waiters := p.waiters
	p.waiters = nil
	for _, w := range waiters {
		w()
	}
}
