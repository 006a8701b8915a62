// Package transport defines the L2 capability the DCP engine drives, and
// the two concrete platform backends: a raw AF_PACKET socket on Linux, and
// a libpcap/Npcap capture on Windows.
package transport

//go:generate mockgen -source=capability.go -destination=mock/capability_mock.go -package=mock_transport

import (
	"context"
	"errors"
)

// ErrTimeout is returned by Recv when no frame arrived before the per-call
// deadline. It is not a fatal error; callers translate it to "no packet
// this call" and keep polling until their own deadline elapses.
var ErrTimeout = errors.New("transport: receive timeout")

// FilterExpr is a BPF-style filter expression, e.g.
// "ether host 00:11:22:33:44:55 and ether proto 0x8892". Each backend
// compiles it to its native filter representation.
type FilterExpr string

// Capability is the L2 transport contract both backends implement.
// Implementations MUST NOT interpret payload bytes.
type Capability interface {
	// Send transmits a single raw Ethernet frame.
	Send(ctx context.Context, frame []byte) error

	// Recv returns the next raw Ethernet frame, or ErrTimeout if none
	// arrived before the backend's internal receive timeout.
	Recv(ctx context.Context) ([]byte, error)

	// SetFilter installs a BPF filter so unrelated traffic is dropped by
	// the backend before it reaches the engine.
	SetFilter(expr FilterExpr) error

	// Close releases the transport's underlying resources.
	Close() error
}
