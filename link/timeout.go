// File: link/timeout.go
// License: Apache-2.0

package link

import "github.com/vortexlb/conduit/tick"

// SetIOTimeout sets the connector's I/O timeout in milliseconds. Zero
// disables expiration.
func (c *Connector) SetIOTimeout(ms uint32) { c.ioto = ms }

// IOTimeout returns the configured I/O timeout in milliseconds.
func (c *Connector) IOTimeout() uint32 { return c.ioto }

// RcvDeadline returns the tick at which the read side expires: last read
// activity plus the I/O timeout, or Eternity when either is unset.
// Deadlines are only computed here; the scheduler checks them and drives
// the normal shutdown/detach path, there is no preemption.
func (c *Connector) RcvDeadline() tick.Tick {
	return tick.AddIfSet(c.ep.lra, c.ioto)
}

// SndDeadline returns the tick at which the write side expires: first
// blocked send plus the I/O timeout, or Eternity when either is unset.
func (c *Connector) SndDeadline() tick.Tick {
	return tick.AddIfSet(c.ep.fsb, c.ioto)
}
