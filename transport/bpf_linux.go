//go:build linux

package transport

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"
)

// parseFilter parses the one shape the engine ever installs:
//
//	"ether host aa:bb:cc:dd:ee:ff and ether proto 0x8892"
//
// and returns the destination MAC and EtherType it encodes.
func parseFilter(expr FilterExpr) (mac [6]byte, etherType uint16, err error) {
	fields := strings.Fields(string(expr))
	if len(fields) != 7 || fields[0] != "ether" || fields[1] != "host" ||
		fields[3] != "and" || fields[4] != "ether" || fields[5] != "proto" {
		return mac, 0, fmt.Errorf("transport: unsupported filter expression %q", expr)
	}

	macParts := strings.Split(fields[2], ":")
	if len(macParts) != 6 {
		return mac, 0, fmt.Errorf("transport: invalid mac in filter %q", expr)
	}
	for i, p := range macParts {
		v, perr := strconv.ParseUint(p, 16, 8)
		if perr != nil {
			return mac, 0, fmt.Errorf("transport: invalid mac octet %q in filter: %w", p, perr)
		}
		mac[i] = byte(v)
	}

	protoStr := strings.TrimPrefix(fields[6], "0x")
	proto, perr := strconv.ParseUint(protoStr, 16, 16)
	if perr != nil {
		return mac, 0, fmt.Errorf("transport: invalid ether proto %q in filter: %w", fields[6], perr)
	}
	return mac, uint16(proto), nil
}

// buildFilter compiles the fixed "ether host <mac> and ether proto
// <ethertype>" shape directly into classic BPF instructions, matching
// destination MAC (offset 0..5) and EtherType (offset 12..13).
func buildFilter(mac [6]byte, etherType uint16) ([]unix.SockFilter, error) {
	macHi := binary.BigEndian.Uint32(mac[0:4])
	macLo := uint32(binary.BigEndian.Uint16(mac[4:6]))

	insns := []bpf.Instruction{
		bpf.LoadAbsolute{Off: 0, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: macHi, SkipTrue: 0, SkipFalse: 5},
		bpf.LoadAbsolute{Off: 4, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: macLo, SkipTrue: 0, SkipFalse: 3},
		bpf.LoadAbsolute{Off: 12, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(etherType), SkipTrue: 0, SkipFalse: 1},
		bpf.RetConstant{Val: 0xffff},
		bpf.RetConstant{Val: 0},
	}

	raw, err := bpf.Assemble(insns)
	if err != nil {
		return nil, fmt.Errorf("transport: assemble bpf filter: %w", err)
	}

	filter := make([]unix.SockFilter, len(raw))
	for i, r := range raw {
		filter[i] = unix.SockFilter{Code: r.Op, Jt: r.Jt, Jf: r.Jf, K: r.K}
	}
	return filter, nil
}
