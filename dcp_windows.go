//go:build windows

package dcp

import (
	"github.com/go-logr/logr"

	"github.com/elrosch/profi-dcp/transport"
)

// openTransport opens the Windows libpcap/Npcap backend on the named
// capture device.
func openTransport(device string, log logr.Logger) (transport.Capability, error) {
	return transport.OpenPcapSocket(device, log)
}
