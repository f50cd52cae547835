// File: pool/doc.go
// License: Apache-2.0

// Package pool manages the shared arena of ring-buffer storage. Allocation
// honors a margin policy: a caller that may need a second buffer within the
// same transaction asks for its first one with a positive margin, which
// guarantees that many buffers remain available afterwards and prevents the
// two legs of one stream from deadlocking each other on the last buffer.
// Exhaustion never blocks; starved callers queue on the wait queue and are
// retried oldest-first as buffers are released.
//
// The arena and the wait queue are the only state in the engine shared
// across worker threads, and the only state protected by locks. A lock is
// held only across pool bookkeeping, never across a caller's use of the
// buffer it obtained.
package pool
