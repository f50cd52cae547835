// File: api/transport.go
// License: Apache-2.0
//
// Transport-side capability contracts: the operations a multiplexer stream,
// an underlying connection, or an in-process applet must expose so a
// connector can drive them without knowing their concrete type.

package api

// ShutRMode selects how the read side of a junction is shut down.
type ShutRMode int

const (
	// ShutRDrain shuts the read side but lets already-buffered input be
	// consumed first.
	ShutRDrain ShutRMode = iota
	// ShutRReset shuts the read side and discards undelivered input.
	ShutRReset
)

// ShutWMode selects how the write side of a junction is shut down.
type ShutWMode int

const (
	// ShutWNormal performs a regular write shutdown, notifying the peer.
	ShutWNormal ShutWMode = iota
	// ShutWSilent shuts the write side without notifying the peer,
	// used when a full close is imminent.
	ShutWSilent
)

// EventMask identifies transport readiness events a caller may wait for.
type EventMask uint32

const (
	EventRecv EventMask = 1 << iota
	EventSend
)

// Waiter pairs an event interest with the callback waking its owner.
// Registration is in-memory only; there is no persisted state.
type Waiter struct {
	Events EventMask
	Wake   func()
}

// MuxStream is the per-stream handle a multiplexer hands out when it fans a
// physical connection into logical streams. All calls are non-blocking: an
// operation that cannot proceed records state and returns.
type MuxStream interface {
	// ShutRead shuts the read direction of the stream.
	ShutRead(mode ShutRMode)

	// ShutWrite shuts the write direction of the stream.
	ShutWrite(mode ShutWMode)

	// Detach releases the stream from its connector. The handle must not
	// be used afterwards.
	Detach()

	// Subscribe registers w for the given readiness events.
	Subscribe(events EventMask, w *Waiter) error

	// Unsubscribe cancels a previous registration.
	Unsubscribe(events EventMask, w *Waiter) error
}

// Conn is the underlying connection below a multiplexer. A connector only
// touches it directly during very early teardown, before a multiplexer was
// bound, when the connector is the connection's sole owner.
type Conn interface {
	// Context returns the owner context claimed on the connection, nil if
	// none has been set.
	Context() any

	// SetContext claims the connection for an owner.
	SetContext(ctx any)

	// StopTracking stops timeout tracking for the connection.
	StopTracking()

	// FullClose force-closes both directions.
	FullClose()

	// Release frees the connection object. It must not be used afterwards.
	Release()
}

// Applet is an in-process service behaving like a transport endpoint
// without a real network connection.
type Applet interface {
	// Release tears the applet down. Called exactly once, on endpoint
	// detach, before the applet reference is dropped.
	Release()
}
