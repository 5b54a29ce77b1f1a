// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

// Notifier is the capability to resolve a pending call and wake its
// owning cooperative scheduler from the worker goroutine. A scheduler's
// internal state is only ever mutated on its own goroutine; every
// variant exists solely to satisfy that constraint while being triggered
// from a foreign goroutine.
//
// Exactly one variant is selected per Controller, at construction time.
type Notifier interface {
	// Deliver publishes the outcome of p and wakes the owning
	// scheduler. Called from the worker goroutine only.
	Deliver(p *pending, v any, err error)
}

// LoopNotifier returns the callback-queue injection variant: the worker
// injects a callback into s, and the result slot is settled on the
// scheduler goroutine during its next pass. Settling an already-resolved
// call is a no-op.
//
// Returns nil if s is nil; New rejects a nil Notifier with ErrNoRuntime.
func LoopNotifier(s *Sched) Notifier {
	if s == nil {
		return nil
	}
	return loopNotifier{s: s}
}

type loopNotifier struct {
	s *Sched
}

func (n loopNotifier) Deliver(p *pending, v any, err error) {
	n.s.RunSoon(func() { p.settle(v, err) })
}

// TokenNotifier returns the token-based deferred-callback variant: the
// worker writes the result slot and readiness directly, then defers only
// the waker through the captured token. Handles become Ready before the
// scheduler's next pass, so non-cooperative observers (TryResult, Wait)
// see the result without a scheduling turn.
//
// Returns nil if t was not captured from a Sched; New rejects a nil
// Notifier with ErrNoRuntime.
func TokenNotifier(t Token) Notifier {
	if t.s == nil {
		return nil
	}
	return tokenNotifier{t: t}
}

type tokenNotifier struct {
	t Token
}

func (n tokenNotifier) Deliver(p *pending, v any, err error) {
	p.publish(v, err)
	n.t.RunSoon(p.wake)
}
