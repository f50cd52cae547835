// File: pool/waitqueue.go
// License: Apache-2.0

package pool

import (
	"sync"

	"github.com/eapache/queue"
)

// Waiter is a wait-queue entry for an object starved of buffer storage.
// The target is not owned by the queue and must leave the queue before it
// is destroyed.
type Waiter struct {
	// Target is the waiting object to be woken up. It is compared against
	// the "from" argument of Offer so a releaser never wakes itself.
	Target any

	// Wakeup retries the stalled work. It returns false when the owner
	// still cannot proceed (e.g. it needs two buffers and got one), in
	// which case the entry is re-enqueued for a later free.
	Wakeup func() bool

	queued bool
}

// WaitQueue is the FIFO of buffer-starved waiters. The zero value is ready
// to use. It has its own lock, separate from the arena's, and the lock is
// never held across a Wakeup callback.
type WaitQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

// Enqueue registers w. Re-registering a queued entry is a no-op, so a
// Wakeup that fails and calls Enqueue again is harmless.
func (wq *WaitQueue) Enqueue(w *Waiter) {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	if w.queued {
		return
	}
	if wq.q == nil {
		wq.q = queue.New()
	}
	w.queued = true
	wq.q.Add(w)
}

// Leave withdraws w from the queue. It must be called before the waiting
// object is destroyed. The entry is dropped lazily on the next Offer pass.
func (wq *WaitQueue) Leave(w *Waiter) {
	wq.mu.Lock()
	w.queued = false
	wq.mu.Unlock()
}

// Len returns the number of live entries.
func (wq *WaitQueue) Len() int {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	n := 0
	if wq.q != nil {
		for i := 0; i < wq.q.Length(); i++ {
			if wq.q.Get(i).(*Waiter).queued {
				n++
			}
		}
	}
	return n
}

// Offer hands freed capacity to queued waiters, oldest first. avail is the
// number of buffers currently available; a waiter is only woken while the
// remaining budget satisfies threshold, and each successful wakeup is
// assumed to consume one buffer. Entries whose target is from are skipped
// (a releaser must not wake itself); entries whose Wakeup returns false are
// re-enqueued at the tail.
func (wq *WaitQueue) Offer(from any, avail, threshold int) {
	wq.mu.Lock()
	if wq.q == nil {
		wq.mu.Unlock()
		return
	}
	budget := avail
	n := wq.q.Length()
	for i := 0; i < n; i++ {
		if budget < threshold || wq.q.Length() == 0 {
			break
		}
		w := wq.q.Remove().(*Waiter)
		if !w.queued {
			continue // left the queue, drop lazily
		}
		if w.Target != nil && w.Target == from {
			wq.q.Add(w)
			continue
		}
		w.queued = false
		wq.mu.Unlock()
		ok := w.Wakeup()
		wq.mu.Lock()
		if ok {
			budget--
		} else if !w.queued {
			// still starved and did not re-enqueue itself
			w.queued = true
			wq.q.Add(w)
		}
	}
	wq.mu.Unlock()
}
