package link_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/vortexlb/conduit/api"
	"github.com/vortexlb/conduit/link"
	"github.com/vortexlb/conduit/tick"
)

// fakeMux counts capability calls so hook invocation can be asserted.
type fakeMux struct {
	shutR, shutW int
	lastRMode    api.ShutRMode
	lastWMode    api.ShutWMode
	detached     int
	subscribed   api.EventMask
	unsubscribed api.EventMask
	subscribeErr error
}

func (m *fakeMux) ShutRead(mode api.ShutRMode) { m.shutR++; m.lastRMode = mode }

func (m *fakeMux) ShutWrite(mode api.ShutWMode) { m.shutW++; m.lastWMode = mode }

func (m *fakeMux) Detach() { m.detached++ }

func (m *fakeMux) Subscribe(ev api.EventMask, w *api.Waiter) error {
	m.subscribed |= ev
	return m.subscribeErr
}

func (m *fakeMux) Unsubscribe(ev api.EventMask, w *api.Waiter) error {
	m.unsubscribed |= ev
	return nil
}

// fakeConn records the teardown sequence of an ownerless connection.
type fakeConn struct {
	ctx      any
	stopped  int
	closed   int
	released int
}

func (c *fakeConn) Context() any       { return c.ctx }
func (c *fakeConn) SetContext(ctx any) { c.ctx = ctx }
func (c *fakeConn) StopTracking()      { c.stopped++ }
func (c *fakeConn) FullClose()         { c.closed++ }
func (c *fakeConn) Release()           { c.released++ }

type fakeApplet struct{ released int }

func (a *fakeApplet) Release() { a.released++ }

type fakeStream struct{ wakes int }

func (s *fakeStream) Wake() error { s.wakes++; return nil }

type fakeCheck struct{ wakes int }

func (k *fakeCheck) Wake() error { k.wakes++; return nil }

func newSource() (*tick.Source, *clock.Mock) {
	mock := clock.NewMock()
	return tick.NewSource(mock), mock
}

func TestNewFromStreamSelectsEmbeddedOps(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	require.Equal(t, link.AppStream, c.AppKind())
	require.Equal(t, link.KindNone, c.Endpoint().Kind())
	require.Equal(t, "embedded", c.AppOpsName())
	require.Nil(t, c.DataCB())
}

func TestNewFromStreamRejectsNil(t *testing.T) {
	src, _ := newSource()
	_, err := link.NewFromStream(src, nil, 0)
	require.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestAttachMuxWiresConnOps(t *testing.T) {
	src, _ := newSource()
	strm := &fakeStream{}
	c, err := link.NewFromStream(src, strm, 0)
	require.NoError(t, err)

	mux, conn := &fakeMux{}, &fakeConn{}
	require.NoError(t, c.AttachMux(mux, conn))

	require.Equal(t, link.KindMux, c.Endpoint().Kind())
	require.Equal(t, "conn", c.AppOpsName())
	require.NotNil(t, c.DataCB())
	require.Same(t, c, conn.ctx, "ownerless connection gets claimed")

	// the data callback relays activity to the stream
	require.NoError(t, c.DataCB().Wake(c))
	require.Equal(t, 1, strm.wakes)
}

func TestAttachMuxThenStream(t *testing.T) {
	src, _ := newSource()
	c := link.NewFromEndpoint(link.NewDescriptor(src))
	require.NoError(t, c.AttachMux(&fakeMux{}, &fakeConn{}))
	require.Equal(t, "embedded", c.AppOpsName(), "no app yet")

	require.NoError(t, c.AttachStream(&fakeStream{}))
	require.Equal(t, "conn", c.AppOpsName())
	require.NotNil(t, c.DataCB())
}

func TestAttachAppletWiresAppletOpsOnlyWithApp(t *testing.T) {
	src, _ := newSource()
	c := link.NewFromEndpoint(link.NewDescriptor(src))
	require.NoError(t, c.AttachApplet(&fakeApplet{}))
	require.Equal(t, "embedded", c.AppOpsName(), "applet ops need an app attached")

	require.NoError(t, c.AttachStream(&fakeStream{}))
	require.Equal(t, "applet", c.AppOpsName())
	require.Nil(t, c.DataCB())
}

func TestCheckAppUsesCheckCallbacks(t *testing.T) {
	src, _ := newSource()
	chk := &fakeCheck{}
	c, err := link.NewFromCheck(src, chk, 0)
	require.NoError(t, err)
	require.NoError(t, c.AttachMux(&fakeMux{}, &fakeConn{}))

	require.NotNil(t, c.DataCB())
	require.NoError(t, c.DataCB().Wake(c))
	require.Equal(t, 1, chk.wakes)
}

func TestShutIdempotent(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	mux := &fakeMux{}
	require.NoError(t, c.AttachMux(mux, &fakeConn{}))

	c.ShutRead(api.ShutRDrain)
	flags := c.Endpoint().Flags()
	c.ShutRead(api.ShutRDrain)
	c.ShutRead(api.ShutRReset) // other mode is also a no-op once shut

	require.Equal(t, flags, c.Endpoint().Flags())
	require.Equal(t, 1, mux.shutR, "transport hook invoked exactly once")
	require.Equal(t, api.ShutRDrain, mux.lastRMode)

	c.ShutWrite(api.ShutWNormal)
	c.ShutWrite(api.ShutWNormal)
	c.ShutWrite(api.ShutWSilent)
	require.Equal(t, 1, mux.shutW)
	require.Equal(t, api.ShutWNormal, mux.lastWMode)
}

func TestShutCombinations(t *testing.T) {
	src, _ := newSource()

	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	mux := &fakeMux{}
	require.NoError(t, c.AttachMux(mux, &fakeConn{}))
	c.Shut()
	require.True(t, c.EpTest(link.EPShutWriteSilent))
	require.True(t, c.EpTest(link.EPShutReadReset))

	c2, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	require.NoError(t, c2.AttachMux(&fakeMux{}, &fakeConn{}))
	c2.DrainAndShut()
	require.True(t, c2.EpTest(link.EPShutWriteSilent))
	require.True(t, c2.EpTest(link.EPShutReadDrain))
}

func TestShutWithoutTransportPanics(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	require.Panics(t, func() { c.ShutRead(api.ShutRReset) })
	require.Panics(t, func() { c.ShutWrite(api.ShutWSilent) })
}

func TestSetErrorPromotion(t *testing.T) {
	src, _ := newSource()
	d := link.NewDescriptor(src)

	d.SetError()
	require.True(t, d.Test(link.EPErrPending), "no EOS/EOI yet: pending variant")
	require.False(t, d.Test(link.EPError))

	d.Set(link.EPEOS)
	d.SetError()
	require.True(t, d.Test(link.EPError), "after end-of-stream the error is firm")
}

func TestActivityStamps(t *testing.T) {
	src, mock := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	d := c.Endpoint()

	require.Equal(t, tick.Eternity, d.Lra())
	require.Equal(t, tick.Eternity, d.Fsb())

	d.ReportBlockedSend()
	first := d.Fsb()
	require.True(t, tick.IsSet(first))

	mock.Add(100 * time.Millisecond)
	d.ReportBlockedSend()
	require.Equal(t, first, d.Fsb(), "first-blocked stamp must not move")

	d.ReportSendActivity()
	require.Equal(t, tick.Eternity, d.Fsb())
	require.True(t, tick.IsSet(d.Lra()), "send activity refreshes read activity")
}

func TestIndependentTimersSkipReadRefresh(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, link.SCIndepTimers)
	require.NoError(t, err)
	d := c.Endpoint()

	d.ReportBlockedSend()
	d.ReportSendActivity()
	require.Equal(t, tick.Eternity, d.Lra())
}

func TestDeadlines(t *testing.T) {
	src, mock := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	d := c.Endpoint()

	require.Equal(t, tick.Eternity, c.RcvDeadline(), "no activity, no deadline")

	c.SetIOTimeout(1000)
	d.ReportReadActivity()
	require.Equal(t, tick.Add(d.Lra(), 1000), c.RcvDeadline())

	mock.Add(2 * time.Second)
	require.True(t, tick.Expired(c.RcvDeadline(), src.Now()))

	c.SetIOTimeout(0)
	require.Equal(t, tick.Eternity, c.RcvDeadline(), "zero timeout disables expiration")
}

func TestBackpressurePairs(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	d := c.Endpoint()

	// clearing edges report read activity; setting edges do not
	c.WontRead()
	c.WontRead()
	require.True(t, c.Test(link.SCWontRead))
	require.Equal(t, tick.Eternity, d.Lra())
	c.WillRead()
	require.False(t, c.Test(link.SCWontRead))
	require.True(t, tick.IsSet(d.Lra()))

	c.NeedBuff()
	require.True(t, c.Test(link.SCNeedBuff))
	c.HaveBuff()
	require.False(t, c.Test(link.SCNeedBuff))

	c.NeedRoom()
	require.True(t, c.WaitingRoom())
	c.HaveRoom()
	require.False(t, c.WaitingRoom())
	c.HaveRoom() // idempotent on the cleared side too
}

func TestEndpointPressureSignals(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	d := c.Endpoint()

	d.WontConsume()
	require.True(t, d.Test(link.EPWontConsume))
	d.WillConsume()
	require.False(t, d.Test(link.EPWontConsume))
	require.Equal(t, tick.Eternity, d.Fsb())

	d.NeedMoreData()
	require.True(t, d.Test(link.EPWaitData))
	require.False(t, d.Test(link.EPWontConsume))

	d.HaveNoMoreData()
	require.True(t, d.Test(link.EPHaveNoData))
	d.HaveMoreData()
	require.False(t, d.Test(link.EPHaveNoData))

	d.ExpectNoData()
	require.True(t, d.Test(link.EPExpNoData))
	d.ExpectData()
	require.False(t, d.Test(link.EPExpNoData))

	d.NeedRemoteConn()
	require.True(t, d.Test(link.EPAppletNeedConn))
}

func TestDetachEndpointWithMux(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	mux := &fakeMux{}
	require.NoError(t, c.AttachMux(mux, &fakeConn{}))

	require.NoError(t, c.WaitFor(api.EventRecv, func() {}))
	require.Equal(t, api.EventRecv, mux.subscribed)

	c.DetachEndpoint()
	require.Equal(t, api.EventRecv, mux.unsubscribed, "pending registration cancelled")
	require.Equal(t, 1, mux.detached)
	require.False(t, c.Destroyed(), "application still attached")
	require.Equal(t, link.KindNone, c.Endpoint().Kind())
	require.Equal(t, "embedded", c.AppOpsName())

	c.DetachApp()
	require.True(t, c.Destroyed())
}

func TestDetachEndpointNoMuxOwnsConnection(t *testing.T) {
	// early teardown: no mux bound yet, the connector solely owns the
	// connection and no application is attached
	src, _ := newSource()
	c := link.NewFromEndpoint(link.NewDescriptor(src))
	conn := &fakeConn{}
	require.NoError(t, c.AttachMux(nil, conn))

	c.DetachEndpoint()
	require.Equal(t, 1, conn.stopped)
	require.Equal(t, 1, conn.closed)
	require.Equal(t, 1, conn.released)
	require.True(t, c.Destroyed(), "no app attached, connector destroyed")
}

func TestDetachEndpointReleasesApplet(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	app := &fakeApplet{}
	require.NoError(t, c.AttachApplet(app))

	c.DetachEndpoint()
	require.Equal(t, 1, app.released)
	require.False(t, c.Destroyed())
	c.DetachApp()
	require.True(t, c.Destroyed())
}

func TestDetachAppFirstThenEndpoint(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	require.NoError(t, c.AttachMux(&fakeMux{}, &fakeConn{}))

	c.DetachApp()
	require.False(t, c.Destroyed(), "endpoint still attached")
	require.Equal(t, link.AppNone, c.AppKind())

	c.DetachEndpoint()
	require.True(t, c.Destroyed())
}

func TestDetachResetsFlags(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	require.NoError(t, c.AttachMux(&fakeMux{}, &fakeConn{}))

	c.NeedRoom()
	c.EpSet(link.EPEOI)
	c.DetachEndpoint()
	require.Equal(t, link.ConnectorFlags(0), c.Flags())
	require.Equal(t, link.EndpointFlags(0), c.Endpoint().Flags())
}

func TestDestroy(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	mux := &fakeMux{}
	require.NoError(t, c.AttachMux(mux, &fakeConn{}))

	c.Destroy()
	require.True(t, c.Destroyed())
	require.Equal(t, 1, mux.detached)
}

func TestResetEndpoint(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	mux := &fakeMux{}
	require.NoError(t, c.AttachMux(mux, &fakeConn{}))
	old := c.Endpoint()

	require.NoError(t, c.ResetEndpoint())
	require.Equal(t, 1, mux.detached)
	require.NotSame(t, old, c.Endpoint())
	require.Equal(t, link.KindNone, c.Endpoint().Kind())
	require.Same(t, c, c.Endpoint().Connector())
	require.False(t, c.Destroyed(), "connector survives for the retry")

	// rebind succeeds on the fresh descriptor
	require.NoError(t, c.AttachMux(&fakeMux{}, &fakeConn{}))
	require.Equal(t, link.KindMux, c.Endpoint().Kind())
}

func TestResetEndpointWithoutAppPanics(t *testing.T) {
	src, _ := newSource()
	c := link.NewFromEndpoint(link.NewDescriptor(src))
	require.NoError(t, c.AttachMux(&fakeMux{}, &fakeConn{}))
	require.Panics(t, func() { _ = c.ResetEndpoint() })
}

func TestWaitForWithoutMux(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	require.ErrorIs(t, c.WaitFor(api.EventRecv, func() {}), api.ErrNotSupported)
}

func TestKindGuardsAccessors(t *testing.T) {
	src, _ := newSource()
	c, err := link.NewFromStream(src, &fakeStream{}, 0)
	require.NoError(t, err)
	require.NoError(t, c.AttachApplet(&fakeApplet{}))

	d := c.Endpoint()
	require.NotNil(t, d.Applet())
	require.Nil(t, d.MuxStream(), "wrong-kind accessor returns nil")
	require.Nil(t, d.Conn())
	require.Nil(t, c.Check(), "app is a stream, not a check")
	require.NotNil(t, c.Stream())
}
