// File: pool/arena.go
// License: Apache-2.0

package pool

import (
	"sync"

	"github.com/vortexlb/conduit/buffer"
)

// Arena is an explicit, injected pool of equally-sized ring buffers. There
// is no process-wide singleton; every allocation site receives its arena by
// reference.
type Arena struct {
	mu        sync.Mutex
	bufSize   int
	limit     int
	free      []*buffer.Ring
	slabs     [][]byte
	allocated int
	used      int

	wq WaitQueue
}

// NewArena builds an arena handing out rings of bufSize bytes, growing up
// to limit rings. Storage is obtained lazily through the platform slab
// allocator.
func NewArena(bufSize, limit int) *Arena {
	if bufSize <= 0 || limit <= 0 {
		panic("pool: arena needs a positive buffer size and limit")
	}
	return &Arena{bufSize: bufSize, limit: limit}
}

// BufSize returns the per-buffer capacity in bytes.
func (a *Arena) BufSize() int { return a.bufSize }

// AllocMargin returns a reset ring from the arena, guaranteeing that at
// least margin rings remain available afterwards. cur, if it already holds
// real storage, is returned unchanged so the call is idempotent on a slot.
//
// On refusal (margin cannot be respected, or the arena is exhausted) the
// wanted sentinel is returned with ok=false; the caller stores it in its
// slot, enqueues a Waiter and retries on notification. It must never spin.
func (a *Arena) AllocMargin(cur *buffer.Ring, margin int) (b *buffer.Ring, ok bool) {
	if cur != nil && cur.Size() > 0 {
		return cur, true
	}

	a.mu.Lock()
	for len(a.free) <= margin && a.allocated < a.limit {
		storage, err := allocSlab(a.bufSize)
		if err != nil {
			break
		}
		a.slabs = append(a.slabs, storage)
		a.free = append(a.free, buffer.FromStorage(storage))
		a.allocated++
	}
	if len(a.free) <= margin {
		a.mu.Unlock()
		return buffer.Wanted, false
	}
	b = a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	a.used++
	a.mu.Unlock()

	b.Reset()
	return b, true
}

// Release returns b to the arena and offers the freed capacity to queued
// waiters. No-op on the shared sentinels.
func (a *Arena) Release(b *buffer.Ring) {
	if b == nil || b.Size() == 0 {
		return
	}
	a.mu.Lock()
	a.free = append(a.free, b)
	a.used--
	avail := len(a.free)
	a.mu.Unlock()

	a.wq.Offer(nil, avail, 1)
}

// Allocated returns the number of rings the arena has ever materialized.
func (a *Arena) Allocated() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocated
}

// Used returns the number of rings currently handed out.
func (a *Arena) Used() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.used
}

// Avail returns the number of rings immediately available.
func (a *Arena) Avail() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.free)
}

// WaitQueue exposes the arena's starvation queue.
func (a *Arena) WaitQueue() *WaitQueue { return &a.wq }

// Close releases all slab storage back to the platform. Outstanding rings
// must have been released first.
func (a *Arena) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.used != 0 {
		panic("pool: closing arena with buffers in use")
	}
	for _, s := range a.slabs {
		freeSlab(s)
	}
	a.slabs = nil
	a.free = nil
	a.allocated = 0
}
