// File: buffer/ring.go
// License: Apache-2.0

package buffer

// Ring is a fixed-capacity circular byte buffer. The head cursor marks the
// first pending byte; the pending bytes follow it and the sent bytes precede
// it, both wrapping at the capacity. Invariant: Pending()+Sent() <= Size().
//
// Ring operations are not safe for concurrent use. A ring is only ever
// touched by the single task currently owning its connector.
type Ring struct {
	data    []byte
	head    int // offset of the first pending byte
	pending int // bytes not yet scheduled for the peer
	sent    int // bytes already granted to the peer
}

// Two shared sentinel rings. Every field access must tolerate them without
// branching on nil: both report a zero capacity and every operation on them
// is a no-op.
var (
	// Empty is the placeholder carried by any slot that holds no storage.
	Empty = &Ring{}

	// Wanted marks a slot whose owner asked for storage and is queued
	// waiting for it.
	Wanted = &Ring{}
)

// New allocates a ring with its own storage of the given size.
func New(size int) *Ring {
	return &Ring{data: make([]byte, size)}
}

// FromStorage wraps an existing storage block, typically one handed out by
// a pool arena. The ring does not take ownership of the block's lifetime.
func FromStorage(storage []byte) *Ring {
	return &Ring{data: storage}
}

// Reset empties the ring. Storage is kept.
func (r *Ring) Reset() {
	r.head = 0
	r.pending = 0
	r.sent = 0
}

// Size returns the ring's capacity. Zero for the shared sentinels.
func (r *Ring) Size() int { return len(r.data) }

// Len returns the logical length, pending plus sent.
func (r *Ring) Len() int { return r.pending + r.sent }

// Pending returns the number of bytes not yet scheduled for the peer.
func (r *Ring) Pending() int { return r.pending }

// Sent returns the number of bytes already granted to the peer.
func (r *Ring) Sent() int { return r.sent }

// IsEmpty reports whether the ring holds no logical content.
func (r *Ring) IsEmpty() bool { return (r.pending | r.sent) == 0 }

// Space returns the number of bytes that can still be written.
func (r *Ring) Space() int { return len(r.data) - r.pending - r.sent }

// AlmostFull reports whether less than a quarter of the capacity is free.
// Always false for the shared sentinels.
func (r *Ring) AlmostFull() bool {
	if r.Size() == 0 {
		return false
	}
	return r.Space() < r.Size()/4
}

// ContigSpace returns the largest contiguous write that needs a single copy
// pass, i.e. the free run starting right after the pending region.
func (r *Ring) ContigSpace() int {
	free := r.Space()
	if free == 0 {
		return 0
	}
	tail := WrapAdd(r.head, r.pending, r.Size())
	if toEnd := r.Size() - tail; toEnd < free {
		return toEnd
	}
	return free
}

// PutInput appends bytes to the pending region. At most Space() bytes are
// copied, in up to two passes when the write straddles the wrap boundary.
// Returns the number of bytes actually copied; a truncated copy always
// leaves the ring in a valid state.
func (r *Ring) PutInput(p []byte) int {
	n := len(p)
	if max := r.Space(); n > max {
		n = max
	}
	if n == 0 {
		return 0
	}
	tail := WrapAdd(r.head, r.pending, r.Size())
	half := r.Size() - tail
	if half > n {
		half = n
	}
	copy(r.data[tail:], p[:half])
	if n > half {
		copy(r.data, p[half:n])
	}
	r.pending += n
	return n
}

// PutInputByte appends a single byte to the pending region. Returns false
// when the ring is full.
func (r *Ring) PutInputByte(c byte) bool {
	if r.Space() == 0 {
		return false
	}
	r.data[WrapAdd(r.head, r.pending, r.Size())] = c
	r.pending++
	return true
}

// PutOutput appends bytes directly to the sent region, advancing the head
// cursor past them. Pending data must not exist when this is used; the
// region layout assumes output precedes the cursor. Same truncation
// contract as PutInput.
func (r *Ring) PutOutput(p []byte) int {
	n := len(p)
	if max := r.Space(); n > max {
		n = max
	}
	if n == 0 {
		return 0
	}
	half := r.Size() - r.head
	if half > n {
		half = n
	}
	copy(r.data[r.head:], p[:half])
	if n > half {
		copy(r.data, p[half:n])
	}
	r.head = WrapAdd(r.head, n, r.Size())
	r.sent += n
	return n
}

// Inject copies p into the pending region only if it fits entirely.
// Returns len(p) on success, 0 if it temporarily does not fit, or -1 if it
// can never fit even in an empty ring. The ring is modified only on success.
func (r *Ring) Inject(p []byte) int {
	n := len(p)
	if n > r.Space() {
		if n < r.Size() {
			return 0
		}
		return -1
	}
	if n == 0 {
		return 0
	}
	r.PutInput(p)
	return n
}

// Match compares pat against the ring contents at offset off relative to
// the head cursor, over at most n readable bytes, without copying. Negative
// offsets address the sent region. Returns:
//
//	>0 : number of matching bytes (len(pat))
//	 0 : not enough data, including a match against an empty pattern
//	<0 : a non-matching byte was found
func (r *Ring) Match(off, n int, pat []byte) int {
	if n < len(pat) {
		return 0
	}
	p := norm(r.head+off, r.Size())
	for i := 0; i < len(pat); i++ {
		if r.data[p] != pat[i] {
			return -1
		}
		p++
		if p == r.Size() {
			p = 0
		}
	}
	return len(pat)
}

// Eat matches pat against the start of the pending region and, on success,
// consumes the matched bytes by advancing the head cursor. Return values
// follow Match.
func (r *Ring) Eat(pat []byte) int {
	ret := r.Match(0, r.pending, pat)
	if ret > 0 {
		r.head = WrapAdd(r.head, ret, r.Size())
		r.pending -= ret
	}
	return ret
}

// Flush reclassifies all pending bytes as sent, moving the head cursor past
// them. Used when a transfer completes.
func (r *Ring) Flush() {
	r.head = WrapAdd(r.head, r.pending, r.Size())
	r.sent += r.pending
	r.pending = 0
}

// GetOutput copies up to len(dst) bytes of the sent region into dst without
// consuming them. Returns the number of bytes copied.
func (r *Ring) GetOutput(dst []byte) int {
	n := len(dst)
	if n > r.sent {
		n = r.sent
	}
	if n == 0 {
		return 0
	}
	p := WrapSub(r.head, r.sent, r.Size())
	half := r.Size() - p
	if half > n {
		half = n
	}
	copy(dst[:half], r.data[p:p+half])
	if n > half {
		copy(dst[half:n], r.data)
	}
	return n
}

// AckOutput drops n bytes from the sent region once the peer no longer
// needs them for replay. n must not exceed Sent().
func (r *Ring) AckOutput(n int) {
	if n > r.sent {
		panic("buffer: ack beyond sent region")
	}
	r.sent -= n
}
