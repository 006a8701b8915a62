package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elrosch/profi-dcp/wire"
)

func TestFrame_RoundTrip(t *testing.T) {
	want := wire.Frame{
		Destination: [6]byte{0x01, 0x0e, 0xcf, 0x00, 0x00, 0x00},
		Source:      [6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		EtherType:   wire.EtherType,
		Payload:     []byte{0x01, 0x02, 0x03},
	}

	b, err := want.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, 14+3, len(b))

	var got wire.Frame
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, want.Destination, got.Destination)
	assert.Equal(t, want.Source, got.Source)
	assert.Equal(t, want.EtherType, got.EtherType)
	assert.Equal(t, want.Payload, got.Payload)
}

func TestFrame_UnmarshalBinary_ShortBuffer(t *testing.T) {
	var f wire.Frame
	err := f.UnmarshalBinary(make([]byte, 13))
	assert.ErrorIs(t, err, wire.ErrShortFrame)
}

func TestFrame_EtherTypeEncoding(t *testing.T) {
	f := wire.Frame{EtherType: 0x8892}
	b, err := f.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, byte(0x88), b[12])
	assert.Equal(t, byte(0x92), b[13])
}
