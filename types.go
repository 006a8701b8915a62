package dcp

import (
	"fmt"
	"strconv"
	"strings"
)

// IPConfig describes a device's IPv4 configuration: address, netmask and
// gateway, each a 4 octet big-endian dotted quad.
type IPConfig struct {
	Address [4]byte
	Netmask [4]byte
	Gateway [4]byte
}

// ParseIPOctets validates and converts a dotted-quad string ("10.0.0.1") into
// 4 big-endian octets. Each octet must be a decimal integer in [0, 255].
func ParseIPOctets(s string) ([4]byte, error) {
	var out [4]byte
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return out, fmt.Errorf("dcp: ip address %q must have 4 octets", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, fmt.Errorf("dcp: ip address %q has non-integer octet %q", s, p)
		}
		if n < 0 || n > 255 {
			return out, fmt.Errorf("dcp: ip address %q octet %q out of range 0-255", s, p)
		}
		out[i] = byte(n)
	}
	return out, nil
}

func formatIPOctets(b [4]byte) string {
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
}

// NewIPConfig validates and builds an IPConfig from dotted-quad strings.
func NewIPConfig(address, netmask, gateway string) (IPConfig, error) {
	var cfg IPConfig
	var err error
	if cfg.Address, err = ParseIPOctets(address); err != nil {
		return cfg, err
	}
	if cfg.Netmask, err = ParseIPOctets(netmask); err != nil {
		return cfg, err
	}
	if cfg.Gateway, err = ParseIPOctets(gateway); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Device is a DCP device record built from an identify or get response.
type Device struct {
	NameOfStation string
	MAC           MacAddress
	IP            string
	Netmask       string
	Gateway       string
	Family        string
}

// ResponseCode is the result of a SET/control DCP request. A code of 0
// indicates success.
type ResponseCode uint8

var responseMessages = map[ResponseCode]string{
	0: "Code 00: Set successful",
	1: "Code 01: Option unsupported",
	2: "Code 02: Suboption unsupported or no DataSet available",
	3: "Code 03: Suboption not set",
	4: "Code 04: Resource Error",
	5: "Code 05: SET not possible by local reasons",
	6: "Code 06: In operation, SET not possible",
}

// OK reports whether this response code indicates success.
func (r ResponseCode) OK() bool {
	return r == 0
}

// Message returns a human-readable description of the response code.
func (r ResponseCode) Message() string {
	if msg, ok := responseMessages[r]; ok {
		return msg
	}
	return fmt.Sprintf("Code %02d: unknown response code", uint8(r))
}
