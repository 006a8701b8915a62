package dcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dcp "github.com/elrosch/profi-dcp"
	"github.com/elrosch/profi-dcp/iface"
)

// This suite covers the part of the root package's API that doesn't need
// a live transport: validation, formatting, and error mapping. The
// request-building and response-correlation behaviour the operations lean
// on is covered end to end by dcp/engine's own mock-transport tests, and
// by dcp_internal_test.go for the Client-level wiring that needs access
// to unexported fields.

type stubResolver struct {
	mac    iface.MacAddress
	handle iface.InterfaceHandle
	err    error
}

func (s stubResolver) Resolve(hostIP string) (iface.MacAddress, iface.InterfaceHandle, error) {
	return s.mac, s.handle, s.err
}

func TestParseMacAddress_RoundTrip(t *testing.T) {
	mac, err := dcp.ParseMacAddress("00:0C:29:66:47:A5")
	require.NoError(t, err)
	assert.Equal(t, "00:0c:29:66:47:a5", mac.String())
}

func TestParseMacAddress_InvalidOctetCount(t *testing.T) {
	_, err := dcp.ParseMacAddress("00:0C:29")
	assert.Error(t, err)
}

func TestNewIPConfig_RoundTrip(t *testing.T) {
	cfg, err := dcp.NewIPConfig("10.0.0.31", "255.255.240.0", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, [4]byte{10, 0, 0, 31}, cfg.Address)
	assert.Equal(t, [4]byte{255, 255, 240, 0}, cfg.Netmask)
	assert.Equal(t, [4]byte{10, 0, 0, 1}, cfg.Gateway)
}

func TestNewIPConfig_OctetOutOfRange(t *testing.T) {
	_, err := dcp.NewIPConfig("10.0.0.999", "255.255.240.0", "10.0.0.1")
	assert.Error(t, err)
}

func TestResponseCode_Message(t *testing.T) {
	assert.True(t, dcp.ResponseCode(0).OK())
	assert.False(t, dcp.ResponseCode(1).OK())
	assert.Contains(t, dcp.ResponseCode(2).Message(), "Suboption unsupported")
	assert.Contains(t, dcp.ResponseCode(99).Message(), "unknown")
}

func TestMacAddress_IsZero(t *testing.T) {
	var zero dcp.MacAddress
	assert.True(t, zero.IsZero())
	assert.False(t, dcp.Multicast.IsZero())
}

// TestOpen_ConfigErrorOnResolverFailure confirms a resolver failure
// surfaces as *dcp.ConfigError before any transport is opened, per the
// "validate before I/O" contract.
func TestOpen_ConfigErrorOnResolverFailure(t *testing.T) {
	wantErr := assert.AnError
	_, err := dcp.Open("10.0.0.5", dcp.WithResolver(stubResolver{err: wantErr}))
	require.Error(t, err)
	var configErr *dcp.ConfigError
	assert.ErrorAs(t, err, &configErr)
}
