// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

import (
	"sync"

	"code.hybscloud.com/kont"
)

// Sched is a single-goroutine cooperative scheduler for kont fibers.
//
// A fiber is a kont computation driven one effect at a time via
// [code.hybscloud.com/kont.StepExpr]. Between fiber steps the scheduler
// executes callbacks injected from other goroutines with RunSoon; this
// injection queue is the only entry point a foreign goroutine has into
// the scheduler, so fiber and waiter state never needs locking.
//
// The Run method pops and runs work until both queues are emptied, in a
// single-threaded manner. Manually calling Run is usually not desired;
// use the Autorun method to set up an autorun function that calls Run
// whenever work arrives while the scheduler is idle. The Sched never
// calls the autorun function twice at the same time.
//
// The zero value is ready to use.
type Sched struct {
	mu      sync.Mutex
	inject  []func()
	runq    []runnable
	running bool
	autorun func()
}

// fiber is a suspended computation owned by a Sched.
type fiber struct {
	susp *kont.Suspension[kont.Resumed]
}

// runnable is a fiber together with the value that resumes it.
type runnable struct {
	f *fiber
	v kont.Resumed
}

// Autorun sets up an autorun function that calls the Run method
// automatically whenever work arrives while the scheduler is idle.
//
// One must pass a function that calls the Run method. If f blocks,
// RunSoon and Go may block too.
func (s *Sched) Autorun(f func()) {
	s.autorun = f
}

// RunSoon schedules f to run on the scheduler goroutine at the next
// opportunity. Safe for concurrent use from any goroutine; this is the
// thread-safe primitive a worker uses to reach the scheduler.
func (s *Sched) RunSoon(f func()) {
	var autorun func()

	s.mu.Lock()
	if !s.running && s.autorun != nil {
		s.running = true
		autorun = s.autorun
	}
	s.inject = append(s.inject, f)
	s.mu.Unlock()

	if autorun != nil {
		autorun()
	}
}

// push makes r runnable, triggering autorun if the scheduler is idle.
func (s *Sched) push(r runnable) {
	var autorun func()

	s.mu.Lock()
	if !s.running && s.autorun != nil {
		s.running = true
		autorun = s.autorun
	}
	s.runq = append(s.runq, r)
	s.mu.Unlock()

	if autorun != nil {
		autorun()
	}
}

// Run pops and runs injected callbacks and runnable fibers until both
// queues are emptied. Injected callbacks run before fibers in each pass,
// so a result delivered by a worker is visible to the fiber it wakes
// within the same pass.
//
// Run must not be called twice at the same time.
func (s *Sched) Run() {
	s.mu.Lock()
	s.running = true

	for len(s.inject) != 0 || len(s.runq) != 0 {
		inject := s.inject
		runq := s.runq
		s.inject = nil
		s.runq = nil
		s.mu.Unlock()

		for _, f := range inject {
			f()
		}
		for _, r := range runq {
			s.exec(r)
		}

		s.mu.Lock()
	}

	s.running = false
	s.mu.Unlock()
}

// Token is a capability to run callbacks on the scheduler goroutine of
// the Sched it was captured from. It is the deferred-callback primitive
// of the token-based notifier variants: capture it on the scheduler side
// at construction time, invoke it from any goroutine.
type Token struct {
	s *Sched
}

// Token captures a notification capability for s.
func (s *Sched) Token() Token {
	return Token{s: s}
}

// RunSoon schedules f on the captured scheduler's goroutine. Safe for
// concurrent use from any goroutine.
func (t Token) RunSoon(f func()) {
	t.s.RunSoon(f)
}

// Go spawns the Cont-world computation m as a fiber on s. If k is
// non-nil, it receives the final result on the scheduler goroutine when
// the fiber completes. Safe for concurrent use from any goroutine.
func Go[R any](s *Sched, m kont.Eff[R], k func(R)) {
	GoExpr(s, kont.Reify(m), k)
}

// GoExpr spawns the Expr-world computation m as a fiber on s. If k is
// non-nil, it receives the final result on the scheduler goroutine when
// the fiber completes. Safe for concurrent use from any goroutine.
func GoExpr[R any](s *Sched, m kont.Expr[R], k func(R)) {
	em := kont.ExprMap(m, fiberDone(k))
	s.RunSoon(func() {
		_, susp := kont.StepExpr(em)
		if susp == nil {
			return
		}
		s.drive(&fiber{susp: susp})
	})
}

// fiberDone wraps the completion callback into the type-erased tail of
// a fiber's frame chain. It runs on the scheduler goroutine.
func fiberDone[R any](k func(R)) func(R) kont.Resumed {
	return func(r R) kont.Resumed {
		if k != nil {
			k(r)
		}
		return nil
	}
}

// exec resumes a fiber with its pending value, then drives it to the
// next suspension point.
func (s *Sched) exec(r runnable) {
	_, susp := r.f.susp.Resume(r.v)
	if susp == nil {
		return
	}
	r.f.susp = susp
	s.drive(r.f)
}

// drive advances f until it completes or parks. An await on an
// already-resolved call resumes inline without a scheduling turn.
func (s *Sched) drive(f *fiber) {
	for {
		switch op := f.susp.Op().(type) {
		case awaitOp:
			p := op.p
			if !p.ready() {
				p.waiters = append(p.waiters, func() {
					s.push(runnable{f: f, v: outcome{v: p.res, err: p.err}})
				})
				return
			}
			_, susp := f.susp.Resume(outcome{v: p.res, err: p.err})
			if susp == nil {
				return
			}
			f.susp = susp
		case yieldOp:
			s.push(runnable{f: f, v: struct{}{}})
			return
		default:
			panic("xcall: unhandled effect in Sched")
		}
	}
}

// awaitOp is the effect operation suspending a fiber until a pending
// call resolves.
type awaitOp struct {
	kont.Phantom[outcome]
	p *pending
}

// yieldOp is the effect operation rescheduling a fiber behind other
// runnable work.
type yieldOp struct {
	kont.Phantom[struct{}]
}

// Yield suspends the calling fiber and reschedules it behind other
// runnable work on its scheduler (Cont-world).
func Yield() kont.Eff[struct{}] {
	return kont.Perform(yieldOp{})
}

// ExprYield suspends the calling fiber and reschedules it behind other
// runnable work on its scheduler (Expr-world).
func ExprYield() kont.Expr[struct{}] {
	return kont.ExprPerform(yieldOp{})
}
