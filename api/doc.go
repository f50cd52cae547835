// File: api/doc.go
// License: Apache-2.0

// Package api defines the capability contracts every transport provider
// (multiplexer or applet) and every application layer (stream, health check)
// must satisfy to plug into a connector, along with the error types shared
// across the library. It contains no behavior of its own.
package api
