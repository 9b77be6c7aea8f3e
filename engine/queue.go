// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"sync"

	"github.com/ik5/orbscape/sink"
)

type notification struct {
	v       *voice
	reason  sink.Reason
	barrier chan struct{} // closed when reached, v is nil
}

// notifyQueue is an unbounded FIFO. push never blocks, so it is safe to
// call from the render goroutine.
type notifyQueue struct {
	mtx    sync.Mutex
	items  []notification
	closed bool
	wake   chan struct{}
}

func newNotifyQueue() *notifyQueue {
	return &notifyQueue{wake: make(chan struct{}, 1)}
}

func (q *notifyQueue) push(n notification) bool {
	q.mtx.Lock()
	if q.closed {
		q.mtx.Unlock()
		return false
	}
	q.items = append(q.items, n)
	q.mtx.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// pop blocks until an item is available. It returns false once the queue is
// closed and empty.
func (q *notifyQueue) pop() (notification, bool) {
	for {
		q.mtx.Lock()
		if len(q.items) > 0 {
			n := q.items[0]
			q.items[0] = notification{}
			q.items = q.items[1:]
			q.mtx.Unlock()
			return n, true
		}
		if q.closed {
			q.mtx.Unlock()
			return notification{}, false
		}
		q.mtx.Unlock()

		<-q.wake
	}
}

func (q *notifyQueue) close() {
	q.mtx.Lock()
	q.closed = true
	q.mtx.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}
