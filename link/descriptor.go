// File: link/descriptor.go
// License: Apache-2.0

package link

import (
	"github.com/vortexlb/conduit/api"
	"github.com/vortexlb/conduit/tick"
)

// EndpointKind tags which transport variant currently owns a descriptor.
// The kind decides which transport accessor is legal; accessing the wrong
// one returns nil rather than a misread pointer.
type EndpointKind int

const (
	KindNone EndpointKind = iota
	KindMux
	KindApplet
)

// Descriptor is the transport-facing half of a junction: flags, transport
// identity and activity timestamps. It is created when a transport provider
// is instantiated for a connector and dropped when the transport detaches
// and no connector references it anymore.
type Descriptor struct {
	fl   EndpointFlags
	kind EndpointKind

	ms     api.MuxStream // valid when kind == KindMux; nil until the mux binds
	conn   api.Conn      // valid when kind == KindMux
	applet api.Applet    // valid when kind == KindApplet

	sc  *Connector // back-reference, not owned
	src *tick.Source

	lra tick.Tick // last read activity
	fsb tick.Tick // first send block
}

// NewDescriptor builds a detached descriptor stamping activity against src.
func NewDescriptor(src *tick.Source) *Descriptor {
	return &Descriptor{src: src, lra: tick.Eternity, fsb: tick.Eternity}
}

// Kind returns the transport variant attached to the descriptor.
func (d *Descriptor) Kind() EndpointKind { return d.kind }

// Connector returns the back-reference to the owning connector.
func (d *Descriptor) Connector() *Connector { return d.sc }

// MuxStream returns the multiplexer stream handle, nil unless a mux
// endpoint is attached.
func (d *Descriptor) MuxStream() api.MuxStream {
	if d.kind != KindMux {
		return nil
	}
	return d.ms
}

// Conn returns the underlying connection, nil unless a mux endpoint is
// attached.
func (d *Descriptor) Conn() api.Conn {
	if d.kind != KindMux {
		return nil
	}
	return d.conn
}

// Applet returns the applet instance, nil unless an applet endpoint is
// attached.
func (d *Descriptor) Applet() api.Applet {
	if d.kind != KindApplet {
		return nil
	}
	return d.applet
}

// Flag accessors. None of these is atomic; see the package comment for the
// ownership rules making that safe.

// Flags returns the exact flag bits.
func (d *Descriptor) Flags() EndpointFlags { return d.fl }

// Set raises the given flag bits.
func (d *Descriptor) Set(on EndpointFlags) { d.fl |= on }

// Clr lowers the given flag bits.
func (d *Descriptor) Clr(off EndpointFlags) { d.fl &^= off }

// Test reports whether any of the given bits is raised.
func (d *Descriptor) Test(f EndpointFlags) bool { return d.fl&f != 0 }

// Zero clears all flags.
func (d *Descriptor) Zero() { d.fl = 0 }

// SetError records a transport failure. While neither end-of-stream nor
// end-of-input has been seen the pending variant is used, so the error is
// never allowed to overtake data still owed to the application; once either
// is flagged, the error is firm. Error visibility is therefore independent
// of the order in which the transport reports conditions.
func (d *Descriptor) SetError() {
	if d.Test(EPEOS | EPEOI) {
		d.Set(EPError)
	} else {
		d.Set(EPErrPending)
	}
}

// ExpectNoData suppresses read-readiness notifications; the caller knows no
// read will be attempted.
func (d *Descriptor) ExpectNoData() { d.Set(EPExpNoData) }

// ExpectData re-enables read-readiness notifications.
func (d *Descriptor) ExpectData() { d.Clr(EPExpNoData) }

// HaveMoreData hints the application that further reads will deliver data
// without blocking.
func (d *Descriptor) HaveMoreData() { d.Clr(EPHaveNoData) }

// HaveNoMoreData hints the application not to expect further reads.
func (d *Descriptor) HaveNoMoreData() { d.Set(EPHaveNoData) }

// WillConsume announces the transport is ready to drain the application's
// output buffer again. A send activity is reported on the clearing edge.
func (d *Descriptor) WillConsume() {
	if d.Test(EPWontConsume) {
		d.Clr(EPWontConsume)
		d.ReportSendActivity()
	}
}

// WontConsume announces the transport will not drain the application's
// output buffer for now.
func (d *Descriptor) WontConsume() { d.Set(EPWontConsume) }

// NeedMoreData announces the transport is willing to consume but the output
// buffer holds too little; it does not want to be woken until more shows up.
func (d *Descriptor) NeedMoreData() {
	d.WillConsume()
	d.Set(EPWaitData)
}

// NeedRemoteConn blocks data delivery until the companion leg confirms
// connectivity. Only meaningful on applet endpoints.
func (d *Descriptor) NeedRemoteConn() { d.Set(EPAppletNeedConn) }

// Lra returns the last read activity stamp, possibly Eternity.
func (d *Descriptor) Lra() tick.Tick { return d.lra }

// Fsb returns the first send block stamp, possibly Eternity.
func (d *Descriptor) Fsb() tick.Tick { return d.fsb }

// ReportReadActivity stamps the current tick as the last read activity.
func (d *Descriptor) ReportReadActivity() { d.lra = d.src.Now() }

// ReportBlockedSend stamps the current tick as the first blocked send, only
// if not already stamped. The first-blocked time feeds the client-visible
// stall duration, so later blocks must not move it.
func (d *Descriptor) ReportBlockedSend() {
	if !tick.IsSet(d.fsb) {
		d.fsb = d.src.Now()
	}
}

// ReportSendActivity clears the blocked-send stamp. Unless the connector
// tracks read and write timeouts independently, read activity is refreshed
// too: on most transports a successful send implies the peer is alive.
func (d *Descriptor) ReportSendActivity() {
	d.fsb = tick.Eternity
	if d.sc == nil || !d.sc.Test(SCIndepTimers) {
		d.ReportReadActivity()
	}
}
