// File: link/shutdown.go
// License: Apache-2.0
//
// Half-close operations and the backpressure signaling pairs. Every
// operation here is idempotent: repeating a call in the same state changes
// nothing and invokes no transport hook twice.

package link

import "github.com/vortexlb/conduit/api"

// ShutRead shuts the read direction. The transport's hook, when present,
// runs before the flag is recorded, so a raised flag always reflects a
// completed action rather than an intended one. Calling it on a connector
// with no transport attached is a contract breach.
func (c *Connector) ShutRead(mode api.ShutRMode) {
	c.check()
	if c.ep.kind == KindNone {
		panic("link: read shutdown with no transport attached")
	}
	if c.EpTest(EPShutRead) {
		return
	}
	if ms := c.ep.MuxStream(); ms != nil {
		ms.ShutRead(mode)
	}
	if mode == api.ShutRDrain {
		c.EpSet(EPShutReadDrain)
	} else {
		c.EpSet(EPShutReadReset)
	}
}

// ShutWrite shuts the write direction. Same hook-before-flag and
// idempotency contract as ShutRead.
func (c *Connector) ShutWrite(mode api.ShutWMode) {
	c.check()
	if c.ep.kind == KindNone {
		panic("link: write shutdown with no transport attached")
	}
	if c.EpTest(EPShutWrite) {
		return
	}
	if ms := c.ep.MuxStream(); ms != nil {
		ms.ShutWrite(mode)
	}
	if mode == api.ShutWNormal {
		c.EpSet(EPShutWriteNormal)
	} else {
		c.EpSet(EPShutWriteSilent)
	}
}

// Shut fully aborts the junction: silent write shut, then read shut
// discarding undelivered input.
func (c *Connector) Shut() {
	c.ShutWrite(api.ShutWSilent)
	c.ShutRead(api.ShutRReset)
}

// DrainAndShut closes the junction gracefully: silent write shut, then read
// shut letting buffered input drain first.
func (c *Connector) DrainAndShut() {
	c.ShutWrite(api.ShutWSilent)
	c.ShutRead(api.ShutRDrain)
}

// WontRead records that the application will not read from the endpoint for
// now (flush in progress, bandwidth limit, ...).
func (c *Connector) WontRead() {
	c.check()
	c.fl |= SCWontRead
}

// WillRead records that the application is willing to read again. A read
// activity is reported on the clearing edge.
func (c *Connector) WillRead() {
	c.check()
	if c.fl&SCWontRead != 0 {
		c.fl &^= SCWontRead
		c.ep.ReportReadActivity()
	}
}

// NeedBuff records that the read path failed to get an input buffer and
// waits for one. Callers usually also clear EPHaveNoData so the endpoint
// retries as soon as the buffer arrives.
func (c *Connector) NeedBuff() {
	c.check()
	c.fl |= SCNeedBuff
}

// HaveBuff records that the awaited input buffer arrived. A read activity
// is reported on the clearing edge.
func (c *Connector) HaveBuff() {
	c.check()
	if c.fl&SCNeedBuff != 0 {
		c.fl &^= SCNeedBuff
		c.ep.ReportReadActivity()
	}
}

// NeedRoom records that the read path stalled purely on destination
// capacity. This is the flag distinguishing "input buffer full" from
// transport-level blocking.
func (c *Connector) NeedRoom() {
	c.check()
	c.fl |= SCNeedRoom
}

// HaveRoom records that room was made in the input buffer and failed
// delivery attempts may be retried. A read activity is reported on the
// clearing edge.
func (c *Connector) HaveRoom() {
	c.check()
	if c.fl&SCNeedRoom != 0 {
		c.fl &^= SCNeedRoom
		c.ep.ReportReadActivity()
	}
}

// WaitingRoom reports whether the read path is stalled on destination
// capacity.
func (c *Connector) WaitingRoom() bool { return c.fl&SCNeedRoom != 0 }
