// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Controller owns one unbounded work queue and exactly one dedicated
// worker goroutine. Calls submitted with Send run on the worker in
// strict FIFO submission order; outcomes are delivered back through the
// Notifier selected at construction time.
type Controller struct {
	mu     sync.Mutex
	q      workQueue[*pending]
	n      Notifier
	closed bool
	exited atomix.Uint32
	serial Serial
}

// New creates a Controller bound to n and starts its worker goroutine.
// A nil Notifier is a configuration error: the caller selects the active
// scheduler runtime explicitly, and New returns ErrNoRuntime rather than
// guessing.
//
// New returns before the worker has necessarily started; no startup
// synchronization is required because the queue exists before any item
// is enqueued.
func New(n Notifier) (*Controller, error) {
	if n == nil {
		return nil, ErrNoRuntime
	}
	c := &Controller{n: n, serial: nextSerial()}
	c.q.init()
	go c.work()
	return c, nil
}

// Serial returns the serial number assigned to this controller.
func (c *Controller) Serial() Serial {
	return c.serial
}

// Send submits fn for execution on c's worker goroutine and returns a
// Handle immediately. Non-blocking; safe for concurrent use. Submission
// order among concurrent senders is the mutex acquisition order.
//
// After Close, Send returns ErrClosed: submission and close are ordered
// under the controller mutex, so a rejected call was never enqueued and
// an accepted call is guaranteed to run before the worker exits.
func Send[R any](c *Controller, fn func() (R, error)) (Handle[R], error) {
	p := &pending{fn: func() (any, error) { return fn() }}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Handle[R]{}, ErrClosed
	}
	c.q.enqueue(p)
	c.mu.Unlock()

	return Handle[R]{p: p}, nil
}

// Close enqueues the shutdown sentinel. Idempotent. Close does not wait
// for the worker to exit; use Join. Every call enqueued before Close is
// still executed before the worker exits.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		c.q.enqueue(nil)
	}
	c.mu.Unlock()
}

// Join blocks until the worker goroutine has processed the sentinel and
// exited, with adaptive backoff. Join without a prior Close does not
// return.
func (c *Controller) Join() {
	var bo iox.Backoff
	for c.exited.Load() == 0 {
		bo.Wait()
	}
}

// work is the worker loop: dequeue, execute, deliver, until the
// sentinel. It runs on the dedicated goroutine and never suspends
// cooperatively; its only blocking point is the queue dequeue.
func (c *Controller) work() {
	for {
		p := c.q.dequeue()
		if p == nil {
			c.exited.Store(1)
			return
		}
		v, err := runCall(p.fn)
		c.n.Deliver(p, v, err)
	}
}

// runCall executes fn, converting a panic into a *PanicError outcome so
// a failing call reaches its awaiter instead of killing the worker.
func runCall(fn thunk) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, &PanicError{Value: r}
		}
	}()
	return fn()
}
