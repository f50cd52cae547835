// File: sched/doc.go
// License: Apache-2.0

// Package sched provides the cooperative, event-driven loop that owns
// connectors. Tasks never block: work that cannot proceed sets a flag and
// returns, relying on a later wake-up. Wake is the only operation safe to
// call from another thread, and it is a coarse reschedule signal, never a
// direct mutation of the woken task's state.
//
// The loop also owns expiration: read and send deadlines are computed by
// the connectors and checked here, and an expired connector is driven
// through the normal shutdown path. There is no preemption.
package sched
