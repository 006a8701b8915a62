// Package iface resolves a host IP address to the network interface DCP
// should use: its hardware address and a platform interface handle. This is
// the narrow external collaborator spec §1/§6 describes; a concrete
// default implementation is included so the module is usable standalone.
package iface

import (
	"fmt"
	"net"
)

// InterfaceHandle names the platform interface to open the L2 transport
// on. On Linux this is the interface name (e.g. "eth0"); on Windows it's
// the pcap device name pcap.FindAllDevs returns.
type InterfaceHandle string

// MacAddress is a 6 octet Ethernet hardware address, duplicated here (not
// imported from the root dcp package) to keep this package free of a
// dependency on the API surface it's a collaborator for.
type MacAddress [6]byte

// Resolver maps a host IP address to the MAC address and interface handle
// DCP should open its transport on.
type Resolver interface {
	Resolve(hostIP string) (MacAddress, InterfaceHandle, error)
}

// DefaultResolver walks net.Interfaces(), matching each interface's
// addresses against hostIP — the same "walk adapters, match by IP" shape
// as a platform adapter-enumeration routine, built on the standard
// library's interface list instead of a driver-specific handle table.
type DefaultResolver struct{}

// Resolve implements Resolver.
func (DefaultResolver) Resolve(hostIP string) (MacAddress, InterfaceHandle, error) {
	var zero MacAddress
	want := net.ParseIP(hostIP)
	if want == nil {
		return zero, "", fmt.Errorf("iface: invalid host ip %q", hostIP)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return zero, "", fmt.Errorf("iface: list interfaces: %w", err)
	}

	for _, ifi := range ifaces {
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ipNet.IP.Equal(want) {
				if len(ifi.HardwareAddr) != 6 {
					return zero, "", fmt.Errorf("iface: interface %s has no 6-octet hardware address", ifi.Name)
				}
				var mac MacAddress
				copy(mac[:], ifi.HardwareAddr)
				return mac, InterfaceHandle(ifi.Name), nil
			}
		}
	}

	return zero, "", fmt.Errorf("iface: no interface found for host ip %q", hostIP)
}
