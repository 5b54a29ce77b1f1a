// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

import (
	"sync/atomic"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// segmentCapacity is the ring capacity of one work queue segment.
// 128 keeps segment allocation off the common path: a new segment is
// allocated only when the worker falls this many items behind.
const segmentCapacity = 128

// segment is one bounded ring in the unbounded work queue chain.
// next is published by the producer after the ring has rejected an
// enqueue, and observed by the consumer once the ring is drained.
type segment[T any] struct {
	ring lfq.SPSC[T]
	next atomic.Pointer[segment[T]]
}

// workQueue is an unbounded FIFO built from chained lock-free bounded
// SPSC rings. Enqueue never blocks: a full ring grows the chain by one
// segment. Dequeue blocks with adaptive backoff until an item arrives.
//
// Single-producer single-consumer at this level; the Controller
// serializes its senders under a mutex, which is where multi-producer
// safety lives.
type workQueue[T any] struct {
	head *segment[T] // consumer side, worker goroutine only
	tail *segment[T] // producer side, serialized by the owner
}

func (q *workQueue[T]) init() {
	s := &segment[T]{}
	s.ring.Init(segmentCapacity)
	q.head = s
	q.tail = s
}

// enqueue appends v. Never blocks, never fails: on iox.ErrWouldBlock
// (ring full) the chain grows by a fresh segment.
func (q *workQueue[T]) enqueue(v T) {
	if err := q.tail.ring.Enqueue(&v); err == nil {
		return
	}
	s := &segment[T]{}
	s.ring.Init(segmentCapacity)
	_ = s.ring.Enqueue(&v)
	q.tail.next.Store(s)
	q.tail = s
}

// dequeue removes and returns the oldest item, blocking with iox.Backoff
// while the queue is empty.
//
// A segment's next pointer is stored after its final enqueue, so once
// next is observed, re-reading the ring yields everything the producer
// placed in it; an empty ring with a published next is truly drained.
func (q *workQueue[T]) dequeue() T {
	var bo iox.Backoff
	for {
		v, err := q.head.ring.Dequeue()
		if err == nil {
			return v
		}
		if next := q.head.next.Load(); next != nil {
			if v, err := q.head.ring.Dequeue(); err == nil {
				return v
			}
			q.head = next
			continue
		}
		bo.Wait()
	}
}
