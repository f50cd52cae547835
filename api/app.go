// File: api/app.go
// License: Apache-2.0

package api

// Stream is the application-side contract of a proxied stream leg. The
// connector never calls into it synchronously from transport code; activity
// is reported through Wake and picked up at the next scheduling pass.
type Stream interface {
	// Wake reports transport activity to the stream. Returning an error
	// asks the owner to tear the leg down.
	Wake() error
}

// Check is the application-side contract of a health check consumer.
type Check interface {
	Wake() error
}
