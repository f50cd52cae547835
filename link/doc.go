// File: link/doc.go
// License: Apache-2.0

// Package link implements the junction between an application-level stream
// and a transport endpoint: a Connector on the application side paired with
// a Descriptor on the transport side. Neither side knows the other's
// concrete type; the only channel between them is the flag protocol, because
// no operation here is allowed to block.
//
// Ownership runs one way. The connector owns the descriptor's existence
// while attached; the descriptor keeps a non-owning back-reference; the
// transport object (mux stream or applet) is owned by whichever transport
// attached it and is torn down before the descriptor is dropped.
//
// Flag fields are plain bitsets, deliberately not atomic. A connector and
// its descriptor are only ever mutated by the single task currently
// scheduled for them; cross-thread wake-ups are coarse reschedule signals,
// never direct mutation. Build with -tags debugowner to have that ownership
// contract checked at run time.
package link
