//go:build linux

package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"
)

// rawRecvBufferSize is the MTU used for a single receive call.
const rawRecvBufferSize = 65535

// DefaultRecvTimeout is the per-recv timeout spec §4.2 Backend B defaults
// to when none is supplied.
const DefaultRecvTimeout = 1 * time.Second

// LinuxSocket is the Backend B transport: a kernel AF_PACKET/SOCK_RAW
// socket bound to a named interface. The kernel applies the installed BPF
// filter before queueing, so no user-space drain is required before send.
type LinuxSocket struct {
	fd   int
	name string
	log  logr.Logger
}

// OpenLinuxSocket opens an AF_PACKET/SOCK_RAW socket bound to the named
// interface, with the given receive timeout (0 uses DefaultRecvTimeout).
func OpenLinuxSocket(interfaceName string, recvTimeout time.Duration, log logr.Logger) (*LinuxSocket, error) {
	if recvTimeout <= 0 {
		recvTimeout = DefaultRecvTimeout
	}

	ifi, err := net.InterfaceByName(interfaceName)
	if err != nil {
		return nil, fmt.Errorf("transport: lookup interface %s: %w", interfaceName, err)
	}

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(htons(unix.ETH_P_ALL)))
	if err != nil {
		return nil, fmt.Errorf("transport: open raw socket (requires CAP_NET_RAW): %w", err)
	}

	addr := &unix.SockaddrLinklayer{
		Protocol: htons(unix.ETH_P_ALL),
		Ifindex:  ifi.Index,
	}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: bind to interface %s: %w", interfaceName, err)
	}

	tv := unix.NsecToTimeval(recvTimeout.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: set recv timeout: %w", err)
	}

	log.V(1).Info("opened raw socket", "interface", interfaceName, "fd", fd)
	return &LinuxSocket{fd: fd, name: interfaceName, log: log}, nil
}

// htons converts a uint16 from host to network byte order.
func htons(v uint16) uint16 {
	return (v << 8) | (v >> 8)
}

// Send transmits a raw Ethernet frame. No pre-send drain is needed: the
// kernel queue isn't subject to the userspace buffering that motivates the
// Windows backend's drain.
func (s *LinuxSocket) Send(ctx context.Context, frame []byte) error {
	if err := unix.Write(s.fd, frame); err != nil {
		return fmt.Errorf("transport: send on %s: %w", s.name, err)
	}
	return nil
}

// Recv reads the next frame, or ErrTimeout if SO_RCVTIMEO elapses first.
func (s *LinuxSocket) Recv(ctx context.Context) ([]byte, error) {
	buf := make([]byte, rawRecvBufferSize)
	n, err := unix.Read(s.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("transport: recv on %s: %w", s.name, err)
	}
	return buf[:n], nil
}

// SetFilter compiles expr to classic BPF and attaches it with
// SO_ATTACH_FILTER, so the kernel drops unrelated traffic before it
// reaches this process.
func (s *LinuxSocket) SetFilter(expr FilterExpr) error {
	mac, etherType, err := parseFilter(expr)
	if err != nil {
		return err
	}
	filter, err := buildFilter(mac, etherType)
	if err != nil {
		return err
	}
	fprog := unix.SockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}
	if err := unix.SetsockoptSockFprog(s.fd, unix.SOL_SOCKET, unix.SO_ATTACH_FILTER, &fprog); err != nil {
		return fmt.Errorf("transport: attach bpf filter: %w", err)
	}
	s.log.V(1).Info("installed bpf filter", "filter", string(expr))
	return nil
}

// Close releases the socket.
func (s *LinuxSocket) Close() error {
	s.log.V(1).Info("closed raw socket", "interface", s.name)
	return unix.Close(s.fd)
}

var _ Capability = (*LinuxSocket)(nil)
