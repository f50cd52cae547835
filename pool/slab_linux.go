//go:build linux

// File: pool/slab_linux.go
// License: Apache-2.0
//
// Linux slab storage via anonymous mmap, keeping ring storage off the Go
// heap the way the transport buffers are handled on this platform.

package pool

import "golang.org/x/sys/unix"

func allocSlab(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
}

func freeSlab(b []byte) {
	if len(b) == 0 {
		return
	}
	_ = unix.Munmap(b)
}
