package wire

import (
	"encoding/binary"
	"errors"
)

// ErrShortBlock is returned when a buffer is too short to contain a
// complete DCP block.
var ErrShortBlock = errors.New("dcp: block buffer too short")

// requestBlockHeaderLen is option(1) + sub_option(1) + length(2).
const requestBlockHeaderLen = 1 + 1 + 2

// responseBlockHeaderLen is option(1) + sub_option(1) + length(2) + status(2).
const responseBlockHeaderLen = requestBlockHeaderLen + 2

// RequestBlock is a DCP block as carried in an outgoing SET/control
// request. The encoded length field reports the unpadded payload length;
// on the wire, an odd-length payload is zero-padded to the next even
// boundary, but that pad byte is not counted in the length field.
type RequestBlock struct {
	Option    uint8
	SubOption uint8
	Payload   []byte
}

// MarshalBinary encodes the block, padding Payload to even length on the
// wire without reflecting the pad byte in the Length field.
//
// MarshalBinary never returns an error.
func (r *RequestBlock) MarshalBinary() ([]byte, error) {
	length := len(r.Payload)
	wireLen := length
	if wireLen%2 != 0 {
		wireLen++
	}
	b := make([]byte, requestBlockHeaderLen+wireLen)
	b[0] = r.Option
	b[1] = r.SubOption
	binary.BigEndian.PutUint16(b[2:4], uint16(length))
	copy(b[requestBlockHeaderLen:], r.Payload)
	return b, nil
}

// EncodeGetBlock encodes a GET request's 2-byte body: just the option and
// sub-option, with no length field. Per the authoritative wire behaviour
// (spec §9), a GET PDU's DataLength is always 2.
func EncodeGetBlock(option, subOption uint8) []byte {
	return []byte{option, subOption}
}

// ResponseBlock is a DCP block as carried in an identify/get response.
// Length includes the 2-byte Status word; Payload is Length-2 bytes.
type ResponseBlock struct {
	Option    uint8
	SubOption uint8
	Length    uint16
	Status    uint16
	Payload   []byte
}

// NextResponseBlock parses the first response block from data and returns
// the remainder of data positioned at the start of the next block (the
// cursor advances by 4+Length rounded up to the next even boundary, per
// spec §4.1).
func NextResponseBlock(data []byte) (ResponseBlock, []byte, error) {
	var blk ResponseBlock
	if len(data) < responseBlockHeaderLen {
		return blk, nil, ErrShortBlock
	}
	blk.Option = data[0]
	blk.SubOption = data[1]
	blk.Length = binary.BigEndian.Uint16(data[2:4])
	blk.Status = binary.BigEndian.Uint16(data[4:6])

	if blk.Length < 2 {
		return blk, nil, ErrShortBlock
	}
	payloadLen := int(blk.Length) - 2
	payloadEnd := responseBlockHeaderLen + payloadLen
	if len(data) < payloadEnd {
		return blk, nil, ErrShortBlock
	}
	blk.Payload = data[responseBlockHeaderLen:payloadEnd]

	advance := requestBlockHeaderLen + int(blk.Length)
	if advance%2 != 0 {
		advance++
	}
	if advance > len(data) {
		advance = len(data)
	}
	return blk, data[advance:], nil
}

// DecodeBlocks parses every response block in data, stopping when fewer
// than responseBlockHeaderLen+1 bytes remain (matching the engine's "stop
// when fewer than 7 bytes remain" walk, spec §4.3) or a malformed block is
// encountered.
func DecodeBlocks(data []byte) ([]ResponseBlock, error) {
	var blocks []ResponseBlock
	for len(data) > 6 {
		blk, rest, err := NextResponseBlock(data)
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, blk)
		if len(rest) >= len(data) {
			break // guard against a zero-length advance looping forever
		}
		data = rest
	}
	return blocks, nil
}
