//go:build windows

package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/gopacket/pcap"
)

// readTimeout is the pcap read timeout spec §4.2 Backend A mandates.
const readTimeout = 100 * time.Millisecond

// drainDeadline bounds how long Send spends emptying the capture buffer
// before giving up and transmitting anyway.
const drainDeadline = 500 * time.Millisecond

// PcapSocket is the Backend A transport: a libpcap/Npcap live capture on
// the adapter matching the configured host IP. Before every Send, the
// capture's already-queued packets are drained so the capture buffer has
// room for the paired response (Npcap buffers aggressively; without this,
// the response can be dropped under heavy unrelated traffic).
type PcapSocket struct {
	handle *pcap.Handle
	device string
	log    logr.Logger
}

// OpenPcapSocket opens a live capture on the named device.
func OpenPcapSocket(device string, log logr.Logger) (*PcapSocket, error) {
	handle, err := pcap.OpenLive(device, 65535, false, readTimeout)
	if err != nil {
		return nil, fmt.Errorf("transport: open pcap live capture on %s: %w", device, err)
	}
	// Surface packets without Npcap batching them for throughput, the
	// rough equivalent of pcap_setmintocopy(0).
	if err := handle.SetImmediateMode(true); err != nil {
		handle.Close()
		return nil, fmt.Errorf("transport: set immediate mode on %s: %w", device, err)
	}

	log.V(1).Info("opened pcap capture", "device", device)
	return &PcapSocket{handle: handle, device: device, log: log}, nil
}

// Send drains any packets already queued in the capture buffer, then
// transmits frame.
func (p *PcapSocket) Send(ctx context.Context, frame []byte) error {
	p.drain()
	if err := p.handle.WritePacketData(frame); err != nil {
		return fmt.Errorf("transport: send on %s: %w", p.device, err)
	}
	return nil
}

// drain reads and discards packets until the capture buffer is empty (a
// read times out) or drainDeadline elapses.
func (p *PcapSocket) drain() {
	deadline := time.Now().Add(drainDeadline)
	drained := 0
	for time.Now().Before(deadline) {
		_, _, err := p.handle.ReadPacketData()
		if err == pcap.NextErrorTimeoutExpired {
			return
		}
		if err != nil {
			return
		}
		drained++
	}
	p.log.V(1).Info("drain deadline reached", "device", p.device, "drained", drained)
}

// Recv returns the next captured frame, or ErrTimeout if the read timeout
// elapses first.
func (p *PcapSocket) Recv(ctx context.Context) ([]byte, error) {
	data, _, err := p.handle.ReadPacketData()
	if err == pcap.NextErrorTimeoutExpired {
		return nil, ErrTimeout
	}
	if err != nil {
		return nil, fmt.Errorf("transport: recv on %s: %w", p.device, err)
	}
	return data, nil
}

// SetFilter installs a BPF filter, delegating compilation to libpcap/Npcap.
func (p *PcapSocket) SetFilter(expr FilterExpr) error {
	if err := p.handle.SetBPFFilter(string(expr)); err != nil {
		return fmt.Errorf("transport: set bpf filter %q: %w", expr, err)
	}
	p.log.V(1).Info("installed bpf filter", "filter", string(expr))
	return nil
}

// Close releases the capture handle.
func (p *PcapSocket) Close() error {
	p.log.V(1).Info("closed pcap capture", "device", p.device)
	p.handle.Close()
	return nil
}

var _ Capability = (*PcapSocket)(nil)
