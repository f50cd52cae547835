//go:build debugowner

// File: link/owner_debug.go
// License: Apache-2.0
//
// Run-time enforcement of the single-owner contract. Mutating calls panic
// when a goroutine other than the claiming one touches the connector.

package link

import "runtime"

func gid() uint64 {
	var b [64]byte
	n := runtime.Stack(b[:], false)
	// "goroutine <id> [...": parse the id
	var id uint64
	for _, ch := range b[10:n] {
		if ch < '0' || ch > '9' {
			break
		}
		id = id*10 + uint64(ch-'0')
	}
	return id
}

// Claim records the calling goroutine as the task allowed to mutate the
// connector. A claim while another goroutine holds one is a contract
// breach.
func (c *Connector) Claim(tok any) {
	if c.owner != nil && c.owner != tok && c.ownerGid != gid() {
		panic("link: connector claimed while owned by another task")
	}
	c.owner = tok
	c.ownerGid = gid()
}

// Yield releases the ownership claim.
func (c *Connector) Yield() {
	c.owner = nil
	c.ownerGid = 0
}

func (c *Connector) check() {
	if c.owner == nil {
		return // ownership tracking not in use
	}
	if c.ownerGid != gid() {
		panic("link: connector mutated outside its owning task")
	}
}
