package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elrosch/profi-dcp/wire"
)

func TestRequestBlock_MarshalBinary_EvenPayloadNoPad(t *testing.T) {
	b := wire.RequestBlock{Option: 5, SubOption: 3, Payload: []byte{0x00, 0x00, 0x01, 0x00}}
	encoded, err := b.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, 4+4, len(encoded))
	assert.Equal(t, uint16(4), uint16(encoded[2])<<8|uint16(encoded[3]))
}

func TestRequestBlock_MarshalBinary_OddPayloadPadded(t *testing.T) {
	b := wire.RequestBlock{Option: 2, SubOption: 2, Payload: []byte("abc")}
	encoded, err := b.MarshalBinary()
	require.NoError(t, err)
	// wire length is padded to 4 bytes, but the length field still reports 3.
	assert.Equal(t, 4+4, len(encoded))
	assert.Equal(t, uint16(3), uint16(encoded[2])<<8|uint16(encoded[3]))
	assert.Equal(t, byte(0), encoded[len(encoded)-1])
}

func TestEncodeGetBlock(t *testing.T) {
	got := wire.EncodeGetBlock(wire.OptionNameOfStation[0], wire.OptionNameOfStation[1])
	assert.Equal(t, []byte{2, 2}, got)
}

func TestNextResponseBlock(t *testing.T) {
	// option=1 suboption=2 length=0x000E (2-byte status + 12-byte payload) status=0x0000
	data := []byte{1, 2, 0x00, 0x0E, 0x00, 0x00}
	data = append(data, make([]byte, 12)...)
	data = append(data, 0xAA) // start of a following block

	blk, rest, err := wire.NextResponseBlock(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), blk.Option)
	assert.Equal(t, uint8(2), blk.SubOption)
	assert.Equal(t, uint16(0x000E), blk.Length)
	assert.Len(t, blk.Payload, 12)
	assert.Equal(t, byte(0xAA), rest[0])
}

func TestNextResponseBlock_OddLengthAdvancesPastPad(t *testing.T) {
	// length=5 (odd: 2-byte status + 3-byte payload), plus 1 pad byte not reflected in length.
	data := []byte{2, 2, 0x00, 0x05, 0x00, 0x00, 'a', 'b', 'c', 0x00, 0xFF}
	blk, rest, err := wire.NextResponseBlock(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(5), blk.Length)
	assert.Equal(t, []byte("abc"), blk.Payload)
	assert.Equal(t, byte(0xFF), rest[0])
}

func TestNextResponseBlock_ShortBuffer(t *testing.T) {
	_, _, err := wire.NextResponseBlock([]byte{1, 2, 3})
	assert.ErrorIs(t, err, wire.ErrShortBlock)
}

func TestDecodeBlocks_Multiple(t *testing.T) {
	var data []byte
	data = append(data, 2, 2, 0x00, 0x06, 0x00, 0x00) // name block, length 6 (4 payload + 2 status)
	data = append(data, []byte("name")...)
	data = append(data, 2, 1, 0x00, 0x06, 0x00, 0x00) // family block
	data = append(data, []byte("fam1")...)

	blocks, err := wire.DecodeBlocks(data)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "name", string(blocks[0].Payload))
	assert.Equal(t, "fam1", string(blocks[1].Payload))
}
