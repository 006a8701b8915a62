package engine

import (
	"bytes"
	"fmt"

	"github.com/elrosch/profi-dcp/wire"
)

// Device is a DCP device record decoded from an identify/get response.
type Device struct {
	NameOfStation string
	MAC           [6]byte
	IP            string
	Netmask       string
	Gateway       string
	Family        string
}

// ResponseCode is the result of a SET/control DCP request.
type ResponseCode uint8

func formatIP(b []byte) string {
	if len(b) != 4 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
}

// DecodeDevice walks the DCP blocks in payload (the response PDU's payload)
// and builds a Device, setting MAC to the Ethernet source of the response
// (never a MAC that may appear inside a block, per spec invariant (d)).
// It stops once fewer than 7 bytes of block data remain, matching the
// upstream block walk exactly.
func DecodeDevice(srcMAC [6]byte, payload []byte) Device {
	device := Device{MAC: srcMAC}

	data := payload
	for len(data) > 6 {
		blk, rest, err := wire.NextResponseBlock(data)
		if err != nil {
			break
		}
		switch {
		case blk.Option == wire.OptionNameOfStation[0] && blk.SubOption == wire.OptionNameOfStation[1]:
			device.NameOfStation = string(bytes.TrimRight(blk.Payload, "\x00"))
		case blk.Option == wire.OptionIPAddress[0] && blk.SubOption == wire.OptionIPAddress[1]:
			if len(blk.Payload) >= 12 {
				device.IP = formatIP(blk.Payload[0:4])
				device.Netmask = formatIP(blk.Payload[4:8])
				device.Gateway = formatIP(blk.Payload[8:12])
			}
		case blk.Option == wire.OptionDeviceFamily[0] && blk.SubOption == wire.OptionDeviceFamily[1]:
			device.Family = string(bytes.TrimRight(blk.Payload, "\x00"))
		}

		if len(rest) >= len(data) {
			break
		}
		data = rest
	}

	return device
}

// DecodeControlResponse inspects the first block of a SET/RESET response
// payload. It reports ok=false if the payload doesn't carry a control
// (option 5) block, e.g. because it's malformed or unrelated.
func DecodeControlResponse(payload []byte) (code ResponseCode, ok bool) {
	blk, _, err := wire.NextResponseBlock(payload)
	if err != nil {
		return 0, false
	}
	if blk.Option != wire.ControlOption {
		return 0, false
	}
	if len(blk.Payload) < 1 {
		return 0, false
	}
	return ResponseCode(blk.Payload[0]), true
}
