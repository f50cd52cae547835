// File: control/doc.go
// License: Apache-2.0

// Package control holds the runtime configuration of the interconnect:
// buffer sizing, the pool's reserve margin and the I/O timeout. The store
// supports atomic snapshots and reload listeners so long-lived components
// can pick up changes without restarting.
package control
