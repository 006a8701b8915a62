package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elrosch/profi-dcp/engine"
	"github.com/elrosch/profi-dcp/wire"
)

func buildResponseBlock(option, subOption uint8, status uint16, payload []byte) []byte {
	length := uint16(len(payload)) + 2
	b := []byte{option, subOption, byte(length >> 8), byte(length), byte(status >> 8), byte(status)}
	b = append(b, payload...)
	if len(b)%2 != 0 {
		b = append(b, 0x00)
	}
	return b
}

func TestDecodeDevice(t *testing.T) {
	var payload []byte
	payload = append(payload, buildResponseBlock(wire.OptionNameOfStation[0], wire.OptionNameOfStation[1], 0, []byte("plc-1\x00\x00\x00"))...)
	payload = append(payload, buildResponseBlock(wire.OptionIPAddress[0], wire.OptionIPAddress[1], 0,
		[]byte{10, 0, 0, 31, 255, 255, 240, 0, 10, 0, 0, 1})...)
	payload = append(payload, buildResponseBlock(wire.OptionDeviceFamily[0], wire.OptionDeviceFamily[1], 0, []byte("I/O\x00"))...)

	srcMAC := [6]byte{0x00, 0x0c, 0x29, 0x66, 0x47, 0xa5}
	device := engine.DecodeDevice(srcMAC, payload)

	assert.Equal(t, srcMAC, device.MAC)
	assert.Equal(t, "plc-1", device.NameOfStation)
	assert.Equal(t, "10.0.0.31", device.IP)
	assert.Equal(t, "255.255.240.0", device.Netmask)
	assert.Equal(t, "10.0.0.1", device.Gateway)
	assert.Equal(t, "I/O", device.Family)
}

func TestDecodeDevice_StopsOnMalformedTrailer(t *testing.T) {
	payload := buildResponseBlock(wire.OptionNameOfStation[0], wire.OptionNameOfStation[1], 0, []byte("ok"))
	payload = append(payload, 0x01, 0x02) // trailing garbage shorter than a block header

	srcMAC := [6]byte{1, 2, 3, 4, 5, 6}
	device := engine.DecodeDevice(srcMAC, payload)
	assert.Equal(t, "ok", device.NameOfStation)
}

func TestDecodeControlResponse_Success(t *testing.T) {
	payload := buildResponseBlock(wire.ControlOption, 4, 0x0202, []byte{0x00})
	code, ok := engine.DecodeControlResponse(payload)
	assert.True(t, ok)
	assert.Equal(t, engine.ResponseCode(0), code)
	assert.True(t, code == 0)
}

func TestDecodeControlResponse_NonControlBlock(t *testing.T) {
	payload := buildResponseBlock(wire.OptionNameOfStation[0], wire.OptionNameOfStation[1], 0, []byte("x"))
	_, ok := engine.DecodeControlResponse(payload)
	assert.False(t, ok)
}

func TestDecodeControlResponse_EmptyPayload(t *testing.T) {
	_, ok := engine.DecodeControlResponse(nil)
	assert.False(t, ok)
}
