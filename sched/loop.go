// File: sched/loop.go
// License: Apache-2.0

package sched

import (
	"sync"

	"github.com/eapache/queue"
	"go.uber.org/zap"

	"github.com/vortexlb/conduit/link"
	"github.com/vortexlb/conduit/tick"
)

// Task is a cooperatively scheduled unit of work, typically owning one
// connector pair. Run executes on the loop's owner goroutine only.
type Task struct {
	Name string
	Run  func(now tick.Tick)

	queued bool
}

// Loop is a single-owner run queue plus a deadline sweep. Poll and Sweep
// must be called from the one goroutine owning the loop; Wake may be called
// from anywhere.
type Loop struct {
	mu   sync.Mutex
	runq *queue.Queue

	src *tick.Source
	log *zap.Logger

	watched map[*link.Connector]func(*link.Connector)
}

// NewLoop builds a loop stamping time against src. A nil logger disables
// logging.
func NewLoop(src *tick.Source, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		runq:    queue.New(),
		src:     src,
		log:     log,
		watched: make(map[*link.Connector]func(*link.Connector)),
	}
}

// Wake schedules t for the next Poll. Waking an already queued task is a
// no-op, so redundant cross-thread signals are cheap.
func (l *Loop) Wake(t *Task) {
	l.mu.Lock()
	if !t.queued {
		t.queued = true
		l.runq.Add(t)
	}
	l.mu.Unlock()
}

// Poll runs up to max woken tasks on the calling goroutine and returns the
// number handled.
func (l *Loop) Poll(max int) int {
	now := l.src.Now()
	handled := 0
	for handled < max {
		l.mu.Lock()
		if l.runq.Length() == 0 {
			l.mu.Unlock()
			break
		}
		t := l.runq.Remove().(*Task)
		t.queued = false
		l.mu.Unlock()

		t.Run(now)
		handled++
	}
	return handled
}

// Watch registers c for deadline sweeps. onExpire runs on the loop
// goroutine when either the read or the send deadline passes; it is
// expected to drive the normal shutdown/detach path.
func (l *Loop) Watch(c *link.Connector, onExpire func(*link.Connector)) {
	l.watched[c] = onExpire
}

// Unwatch removes c from deadline sweeps. Must be called before the
// connector is destroyed.
func (l *Loop) Unwatch(c *link.Connector) {
	delete(l.watched, c)
}

// Sweep checks every watched connector's deadlines against the current
// tick and fires the expiration callback for those that passed. Returns the
// number of expirations.
func (l *Loop) Sweep() int {
	now := l.src.Now()
	expired := 0
	for c, onExpire := range l.watched {
		if c.Destroyed() {
			delete(l.watched, c)
			continue
		}
		rcv, snd := c.RcvDeadline(), c.SndDeadline()
		if tick.Expired(rcv, now) || tick.Expired(snd, now) {
			l.log.Debug("connector expired",
				zap.Uint32("now", uint32(now)),
				zap.Uint32("rcv_deadline", uint32(rcv)),
				zap.Uint32("snd_deadline", uint32(snd)),
			)
			delete(l.watched, c)
			onExpire(c)
			expired++
		}
	}
	return expired
}
