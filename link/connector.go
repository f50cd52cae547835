// File: link/connector.go
// License: Apache-2.0

package link

import (
	"github.com/vortexlb/conduit/api"
	"github.com/vortexlb/conduit/tick"
)

// AppKind tags the application variant attached to a connector.
type AppKind int

const (
	AppNone AppKind = iota
	AppStream
	AppCheck
)

// AppOps is the application-side dispatch table a connector selects when
// its attachment state changes. Three fixed tables exist: conn-flavored,
// applet-flavored and embedded (the null behavior used while neither a
// stream nor a check is attached to a transport).
type AppOps struct {
	Name string
}

var (
	opsConn     = &AppOps{Name: "conn"}
	opsApplet   = &AppOps{Name: "applet"}
	opsEmbedded = &AppOps{Name: "embedded"}
)

// DataCB relays transport activity to the attached application. It must be
// wired before the transport starts delivering events.
type DataCB struct {
	Name string
	Wake func(c *Connector) error
}

var (
	streamConnCB = &DataCB{Name: "strmconn", Wake: func(c *Connector) error {
		if s := c.Stream(); s != nil {
			return s.Wake()
		}
		return nil
	}}
	checkConnCB = &DataCB{Name: "chkconn", Wake: func(c *Connector) error {
		if k := c.Check(); k != nil {
			return k.Wake()
		}
		return nil
	}}
)

// Connector is the application-facing half of a junction. It owns its
// descriptor while attached and is only freed once both the endpoint side
// and the application side have detached.
type Connector struct {
	fl ConnectorFlags
	ep *Descriptor // owned while attached

	appKind AppKind
	app     any // api.Stream or api.Check; back-reference, not owned

	appOps *AppOps
	dataCB *DataCB

	ioto uint32      // I/O timeout in milliseconds, 0 means none
	wait *api.Waiter // pending transport event registration, if any

	owner     any    // single-owner token, checked under -tags debugowner
	ownerGid  uint64 // owning goroutine, tracked only in debug builds
	destroyed bool
}

// NewFromEndpoint builds a connector around an existing descriptor,
// typically on the frontend side where the transport side shows up first.
// The connector starts with the embedded dispatch table; the application
// layer attaches next.
func NewFromEndpoint(ep *Descriptor) *Connector {
	c := &Connector{ep: ep, appOps: opsEmbedded}
	ep.sc = c
	return c
}

// NewFromStream builds a connector for an outbound stream leg. A fresh
// descriptor is allocated and owned; the transport provider attaches to it
// later.
func NewFromStream(src *tick.Source, strm api.Stream, fl ConnectorFlags) (*Connector, error) {
	if strm == nil {
		return nil, api.ErrInvalidArgument
	}
	c := NewFromEndpoint(NewDescriptor(src))
	c.fl |= fl
	if err := c.AttachStream(strm); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromCheck builds a connector for a health-check leg.
func NewFromCheck(src *tick.Source, chk api.Check, fl ConnectorFlags) (*Connector, error) {
	if chk == nil {
		return nil, api.ErrInvalidArgument
	}
	c := NewFromEndpoint(NewDescriptor(src))
	c.fl |= fl
	if err := c.AttachCheck(chk); err != nil {
		return nil, err
	}
	return c, nil
}

// Endpoint returns the connector's descriptor, nil once destroyed.
func (c *Connector) Endpoint() *Descriptor { return c.ep }

// AppKind returns the attached application variant.
func (c *Connector) AppKind() AppKind { return c.appKind }

// Stream returns the attached stream, nil when the application is not one.
func (c *Connector) Stream() api.Stream {
	if c.appKind != AppStream {
		return nil
	}
	s, _ := c.app.(api.Stream)
	return s
}

// Check returns the attached health check, nil when the application is not
// one.
func (c *Connector) Check() api.Check {
	if c.appKind != AppCheck {
		return nil
	}
	k, _ := c.app.(api.Check)
	return k
}

// AppOpsName names the selected dispatch table, "NONE" when none is.
func (c *Connector) AppOpsName() string {
	if c.appOps == nil {
		return "NONE"
	}
	return c.appOps.Name
}

// DataCB returns the wired data callbacks, nil for applet and embedded
// setups.
func (c *Connector) DataCB() *DataCB { return c.dataCB }

// Destroyed reports whether both sides have detached and the connector must
// not be used anymore.
func (c *Connector) Destroyed() bool { return c.destroyed }

// Connector-side flag accessors, same non-atomic contract as the
// descriptor's.

// Flags returns the exact connector flag bits.
func (c *Connector) Flags() ConnectorFlags { return c.fl }

// SetFlags raises the given connector flag bits.
func (c *Connector) SetFlags(on ConnectorFlags) {
	c.check()
	c.fl |= on
}

// ClrFlags lowers the given connector flag bits.
func (c *Connector) ClrFlags(off ConnectorFlags) {
	c.check()
	c.fl &^= off
}

// Test reports whether any of the given connector bits is raised.
func (c *Connector) Test(f ConnectorFlags) bool { return c.fl&f != 0 }

// Endpoint flag views from the connector side.

// EpSet raises endpoint flag bits through the connector.
func (c *Connector) EpSet(on EndpointFlags) {
	c.check()
	c.ep.Set(on)
}

// EpClr lowers endpoint flag bits through the connector.
func (c *Connector) EpClr(off EndpointFlags) {
	c.check()
	c.ep.Clr(off)
}

// EpTest reports endpoint flag bits through the connector.
func (c *Connector) EpTest(f EndpointFlags) bool { return c.ep.Test(f) }

// WaitFor registers interest in transport readiness events, remembering the
// registration so a later endpoint detach can cancel it.
func (c *Connector) WaitFor(events api.EventMask, wake func()) error {
	c.check()
	ms := c.ep.MuxStream()
	if ms == nil {
		return api.ErrNotSupported
	}
	if c.wait == nil {
		c.wait = &api.Waiter{Wake: wake}
	}
	c.wait.Events |= events
	return ms.Subscribe(events, c.wait)
}
