package wire

import (
	"encoding/binary"
	"errors"
)

// pduHeaderLen is frame_id(2) + service_id(1) + service_type(1) + xid(4) +
// response_delay(2) + data_length(2).
const pduHeaderLen = 2 + 1 + 1 + 4 + 2 + 2

// ErrShortPdu is returned when a buffer is too short to contain a DCP PDU
// header, or the header's DataLength claims more bytes than are present.
var ErrShortPdu = errors.New("dcp: pdu buffer too short")

// Pdu is a DCP protocol data unit: the fixed header followed by exactly
// DataLength bytes of block payload.
type Pdu struct {
	FrameID       uint16
	ServiceID     uint8
	ServiceType   uint8
	Xid           uint32
	ResponseDelay uint16
	DataLength    uint16
	Payload       []byte
}

// MarshalBinary encodes the PDU. The caller is responsible for ensuring
// DataLength matches len(Payload) (for a GET request both are 2: Payload
// carries only option+sub-option).
//
// MarshalBinary never returns an error.
func (p *Pdu) MarshalBinary() ([]byte, error) {
	b := make([]byte, pduHeaderLen+len(p.Payload))
	binary.BigEndian.PutUint16(b[0:2], p.FrameID)
	b[2] = p.ServiceID
	b[3] = p.ServiceType
	binary.BigEndian.PutUint32(b[4:8], p.Xid)
	binary.BigEndian.PutUint16(b[8:10], p.ResponseDelay)
	binary.BigEndian.PutUint16(b[10:12], p.DataLength)
	copy(b[pduHeaderLen:], p.Payload)
	return b, nil
}

// UnmarshalBinary decodes a PDU from b. Payload is exactly DataLength
// bytes and aliases b; any trailing bytes in b beyond the header and
// DataLength (e.g. Ethernet minimum-frame padding) are ignored.
func (p *Pdu) UnmarshalBinary(b []byte) error {
	if len(b) < pduHeaderLen {
		return ErrShortPdu
	}
	p.FrameID = binary.BigEndian.Uint16(b[0:2])
	p.ServiceID = b[2]
	p.ServiceType = b[3]
	p.Xid = binary.BigEndian.Uint32(b[4:8])
	p.ResponseDelay = binary.BigEndian.Uint16(b[8:10])
	p.DataLength = binary.BigEndian.Uint16(b[10:12])

	end := pduHeaderLen + int(p.DataLength)
	if len(b) < end {
		return ErrShortPdu
	}
	p.Payload = b[pduHeaderLen:end]
	return nil
}
