// File: buffer/doc.go
// License: Apache-2.0

// Package buffer implements the fixed-capacity circular byte buffer backing
// every data transfer in the engine. A ring's logical content is split into a
// pending region (bytes not yet scheduled for the peer) and a sent region
// (bytes already granted to the peer, kept around for potential replay).
// Cursor arithmetic wraps modulo the capacity; the helpers in arith.go are
// the only place that correction happens.
package buffer
