// File: link/flags.go
// License: Apache-2.0

package link

// EndpointFlags is the transport-owned bitset on a descriptor. The
// transport sets them; the application side reads (and sometimes clears)
// them at its next scheduling pass.
type EndpointFlags uint32

const (
	// EPShutReadDrain: read shut, already-buffered input may still drain.
	EPShutReadDrain EndpointFlags = 1 << iota
	// EPShutReadReset: read shut, undelivered input discarded.
	EPShutReadReset
	// EPShutWriteNormal: write shut, peer notified.
	EPShutWriteNormal
	// EPShutWriteSilent: write shut without notifying the peer.
	EPShutWriteSilent
	// EPError: a hard failure was reported by the transport.
	EPError
	// EPErrPending: failure seen before end-of-stream/end-of-input;
	// promoted to EPError once those are observed.
	EPErrPending
	// EPEOS: end of stream was delivered to the data layer.
	EPEOS
	// EPEOI: end of input reached.
	EPEOI
	// EPHaveNoData: the transport does not expect more readable data.
	EPHaveNoData
	// EPWaitData: the transport wants more output data before being woken.
	EPWaitData
	// EPWontConsume: the transport is not willing to drain the
	// application's output buffer right now.
	EPWontConsume
	// EPAppletNeedConn: an applet endpoint blocks delivery until the
	// companion leg confirms connectivity.
	EPAppletNeedConn
	// EPExpNoData: read-readiness notifications are suppressed, the
	// caller knows no read will be attempted.
	EPExpNoData
)

const (
	// EPShutRead covers both read-shut sub-modes.
	EPShutRead = EPShutReadDrain | EPShutReadReset
	// EPShutWrite covers both write-shut sub-modes.
	EPShutWrite = EPShutWriteNormal | EPShutWriteSilent
)

// ConnectorFlags is the application-owned bitset on a connector.
type ConnectorFlags uint32

const (
	// SCNeedBuff: the read path stalled waiting for an input buffer.
	SCNeedBuff ConnectorFlags = 1 << iota
	// SCNeedRoom: the read path stalled purely on destination capacity,
	// as opposed to transport-level blocking.
	SCNeedRoom
	// SCWontRead: the application is not willing to read right now.
	SCWontRead
	// SCIndepTimers: read and write timeouts are tracked independently;
	// a successful send then no longer refreshes read activity.
	SCIndepTimers
)
