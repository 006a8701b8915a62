//go:build linux

package dcp

import (
	"github.com/go-logr/logr"

	"github.com/elrosch/profi-dcp/transport"
)

// openTransport opens the Linux AF_PACKET/SOCK_RAW backend on the named
// interface.
func openTransport(interfaceName string, log logr.Logger) (transport.Capability, error) {
	return transport.OpenLinuxSocket(interfaceName, transport.DefaultRecvTimeout, log)
}
