//go:build !linux

// File: pool/slab_stub.go
// License: Apache-2.0
//
// Fallback slab storage on the Go heap for platforms without the mmap path.

package pool

func allocSlab(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func freeSlab(b []byte) {
	// GC handles memory
}
