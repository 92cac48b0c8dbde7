// Package transport provides an in-memory, bidirectional byte-stream
// connection pair for exercising a requester and a responder against
// each other without a real network. SPDM itself is transport-agnostic:
// the engine only ever consumes and produces byte slices, so the only
// thing integrators (and these tests) need from a transport is
// something that moves those bytes between the two sides.
package transport

import (
	"net"

	"github.com/pion/transport/v3/test"
)

// Pipe is a virtual full-duplex connection between two endpoints,
// built on pion's test bridge. Writes to one side's net.Conn become
// available to read from the other's.
type Pipe struct {
	bridge *test.Bridge
}

// NewPipe creates a new Pipe. Written data is queued on the bridge and
// reaches the other end only when Process runs; callers either call it
// after each write or run it periodically on a goroutine of its own.
func NewPipe() *Pipe {
	return &Pipe{bridge: test.NewBridge()}
}

// Conn0 returns the connection for endpoint 0.
func (p *Pipe) Conn0() net.Conn { return p.bridge.GetConn0() }

// Conn1 returns the connection for endpoint 1.
func (p *Pipe) Conn1() net.Conn { return p.bridge.GetConn1() }

// Process delivers all queued packets in both directions, returning
// the number delivered. Tests that drive both sides synchronously from
// a single goroutine call this after every write.
func (p *Pipe) Process() int {
	count := 0
	for {
		n := p.bridge.Tick()
		if n == 0 {
			return count
		}
		count += n
	}
}

// Close closes both endpoints.
func (p *Pipe) Close() error {
	err0 := p.bridge.GetConn0().Close()
	err1 := p.bridge.GetConn1().Close()
	if err0 != nil {
		return err0
	}
	return err1
}
