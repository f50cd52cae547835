// File: link/attach.go
// License: Apache-2.0
//
// Attach/detach state machine. A connector may hold an endpoint, an
// application, or both; it is destroyed only when the last side detaches.

package link

import "github.com/vortexlb/conduit/api"

// AttachMux binds a multiplexer stream and its connection to the
// connector's endpoint. ms may be nil when the mux has not been selected
// yet (early outbound setup); the connector then solely owns conn. If the
// connection has no owner context yet, the connector claims it.
func (c *Connector) AttachMux(ms api.MuxStream, conn api.Conn) error {
	c.check()
	d := c.ep
	d.kind = KindMux
	d.ms = ms
	d.conn = conn
	if conn != nil && conn.Context() == nil {
		conn.SetContext(c)
	}
	switch c.appKind {
	case AppStream:
		c.appOps = opsConn
		c.dataCB = streamConnCB
	case AppCheck:
		c.dataCB = checkConnCB
	}
	return nil
}

// AttachApplet binds an in-process applet to the connector's endpoint. The
// applet-flavored dispatch table is wired only when an application is
// already attached.
func (c *Connector) AttachApplet(app api.Applet) error {
	if app == nil {
		return api.ErrInvalidArgument
	}
	c.check()
	d := c.ep
	d.kind = KindApplet
	d.applet = app
	if c.appKind != AppNone {
		c.appOps = opsApplet
		c.dataCB = nil
	}
	return nil
}

// AttachStream binds a stream application, selecting the dispatch table
// matching whatever transport is already attached: conn-flavored for a mux,
// applet-flavored for an applet, embedded when no transport is there yet.
func (c *Connector) AttachStream(strm api.Stream) error {
	if strm == nil {
		return api.ErrInvalidArgument
	}
	c.check()
	c.appKind = AppStream
	c.app = strm
	switch c.ep.kind {
	case KindMux:
		c.appOps = opsConn
		c.dataCB = streamConnCB
	case KindApplet:
		c.appOps = opsApplet
		c.dataCB = nil
	default:
		c.appOps = opsEmbedded
		c.dataCB = nil
	}
	return nil
}

// AttachCheck binds a health-check application.
func (c *Connector) AttachCheck(chk api.Check) error {
	if chk == nil {
		return api.ErrInvalidArgument
	}
	c.check()
	c.appKind = AppCheck
	c.app = chk
	if c.ep.kind == KindMux {
		c.dataCB = checkConnCB
	}
	return nil
}

// DetachEndpoint tears down the transport side. For a mux endpoint whose
// multiplexer is bound, any pending wait-event registration is cancelled
// and the mux's detach hook runs. When no mux is bound yet, the connector
// is the connection's sole owner and must stop timeout tracking,
// force-close and free it itself. For an applet, the release hook runs
// before the applet reference is dropped. Afterwards all flags are reset
// and, if no application is attached, the connector is destroyed.
func (c *Connector) DetachEndpoint() {
	c.check()
	d := c.ep
	switch d.kind {
	case KindMux:
		if d.ms != nil {
			if c.wait != nil && c.wait.Events != 0 {
				_ = d.ms.Unsubscribe(c.wait.Events, c.wait)
				c.wait.Events = 0
			}
			d.ms.Detach()
		} else if d.conn != nil {
			// too early to have a mux: the connection is ours alone
			d.conn.StopTracking()
			d.conn.FullClose()
			d.conn.Release()
		}
	case KindApplet:
		d.applet.Release()
	}

	d.Zero()
	d.kind = KindNone
	d.ms = nil
	d.conn = nil
	d.applet = nil

	c.fl = 0
	c.dataCB = nil
	if c.appKind != AppNone {
		c.appOps = opsEmbedded
		return
	}
	c.destroy()
}

// DetachApp tears down the application side. If no transport is attached at
// this point, the connector is destroyed.
func (c *Connector) DetachApp() {
	c.check()
	c.appKind = AppNone
	c.app = nil
	c.appOps = nil
	c.dataCB = nil
	c.wait = nil

	if c.ep == nil || c.ep.kind == KindNone {
		c.destroy()
	}
}

// Destroy detaches whatever is still attached, in endpoint-then-application
// order, and frees the connector.
func (c *Connector) Destroy() {
	c.DetachEndpoint()
	if !c.destroyed {
		c.DetachApp()
	}
}

// ResetEndpoint replaces the connector's descriptor with a fresh one so the
// transport side can be rebound, e.g. on a connection retry. The
// application side must still be attached; resetting an application-less
// connector is a contract breach.
func (c *Connector) ResetEndpoint() error {
	if c.appKind == AppNone {
		panic("link: endpoint reset on an application-less connector")
	}
	src := c.ep.src
	c.DetachEndpoint()
	ep := NewDescriptor(src)
	ep.sc = c
	c.ep = ep
	c.appOps = opsEmbedded
	return nil
}

func (c *Connector) destroy() {
	if c.ep != nil {
		c.ep.sc = nil
		c.ep = nil
	}
	c.app = nil
	c.appKind = AppNone
	c.appOps = nil
	c.dataCB = nil
	c.wait = nil
	c.destroyed = true
}
