// File: buffer/arith.go
// License: Apache-2.0
//
// Modular cursor arithmetic over (offset, length, capacity) triples.
// Each function applies a single wrap correction, so callers must not pass
// offsets more than one full capacity away from a valid position.

package buffer

// WrapAdd returns off+n reduced modulo size. n must not exceed size.
func WrapAdd(off, n, size int) int {
	off += n
	if off >= size && size > 0 {
		off -= size
	}
	return off
}

// WrapSub returns off-n reduced modulo size. n must not exceed size.
func WrapSub(off, n, size int) int {
	off -= n
	if off < 0 {
		off += size
	}
	return off
}

// Dist returns the forward distance from one offset to another on a circle
// of the given size.
func Dist(from, to, size int) int {
	d := to - from
	if d < 0 {
		d += size
	}
	return d
}

// norm brings an offset computed from a valid position back into
// [0, size). It corrects exactly once in either direction.
func norm(off, size int) int {
	if off < 0 {
		off += size
	} else if off >= size && size > 0 {
		off -= size
	}
	return off
}
