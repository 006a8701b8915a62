// Package dcp implements the core of the PROFINET Discovery and basic
// Configuration Protocol: device discovery and configuration over raw
// Ethernet (EtherType 0x8892). It does not implement cyclic real-time
// PROFINET traffic or any server/device-side DCP behaviour.
package dcp

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/elrosch/profi-dcp/engine"
	"github.com/elrosch/profi-dcp/iface"
	"github.com/elrosch/profi-dcp/transport"
	"github.com/elrosch/profi-dcp/wire"
)

// nameOfStationPattern matches the station-name grammar DCP devices
// accept: a lowercase leading letter, then letters/digits/hyphen/dot.
var nameOfStationPattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9\-.]*$`)

// Option configures a Client at construction time.
type Option func(*config)

type config struct {
	log      logr.Logger
	resolver iface.Resolver
	timeout  time.Duration
}

// WithLogger installs a structured logger; by default the client is silent.
func WithLogger(log logr.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithResolver overrides the default host-IP-to-interface resolver, mainly
// for tests that don't want to touch real network interfaces.
func WithResolver(r iface.Resolver) Option {
	return func(c *config) { c.resolver = r }
}

// WithTimeout overrides the default per-call response-collection deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// Client is a bound DCP session on one local network interface.
type Client struct {
	eng       *engine.Engine
	log       logr.Logger
	closeOnce sync.Once
}

// Open resolves hostIP to a local interface, opens the platform L2
// transport on it, installs the interface's DCP traffic filter, and
// returns a ready-to-use Client.
func Open(hostIP string, opts ...Option) (*Client, error) {
	cfg := config{
		log:      logr.Discard(),
		resolver: iface.DefaultResolver{},
		timeout:  engine.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	mac, handle, err := cfg.resolver.Resolve(hostIP)
	if err != nil {
		return nil, newConfigError("Open", err)
	}

	t, err := openTransport(string(handle), cfg.log)
	if err != nil {
		return nil, newTransportError("Open", err)
	}

	filterExpr := transport.FilterExpr(fmt.Sprintf("ether host %s and ether proto 0x%04x", MacAddress(mac).String(), wire.EtherType))
	if err := t.SetFilter(filterExpr); err != nil {
		t.Close()
		return nil, newTransportError("Open", err)
	}

	eng, err := engine.New(mac, t, cfg.log)
	if err != nil {
		t.Close()
		return nil, newTransportError("Open", err)
	}
	eng.Timeout = cfg.timeout

	return &Client{eng: eng, log: cfg.log}, nil
}

// Close releases the client's transport. It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.eng.Close()
	})
	return err
}

func convertDevice(d engine.Device) Device {
	return Device{
		NameOfStation: d.NameOfStation,
		MAC:           MacAddress(d.MAC),
		IP:            d.IP,
		Netmask:       d.Netmask,
		Gateway:       d.Gateway,
		Family:        d.Family,
	}
}

// IdentifyAll multicasts an identify request to all devices on the segment
// and collects every response for the given timeout (0 uses the client's
// configured default). An empty result is a legitimate outcome, never an
// error: no TimeoutError is raised by this call.
func (c *Client) IdentifyAll(ctx context.Context, timeout time.Duration) ([]Device, error) {
	_, err := c.eng.Send(ctx, engine.Request{
		Destination:   [6]byte(Multicast),
		FrameID:       wire.FrameIDIdentifyRequest,
		ServiceID:     wire.ServiceIDIdentify,
		ResponseDelay: wire.ResponseDelayMulticast,
		Block: &wire.RequestBlock{
			Option:    wire.OptionAllSelector[0],
			SubOption: wire.OptionAllSelector[1],
		},
	})
	if err != nil {
		return nil, newTransportError("IdentifyAll", err)
	}

	devices, err := c.eng.CollectDevices(ctx, timeout)
	if err != nil {
		return nil, newTransportError("IdentifyAll", err)
	}
	out := make([]Device, len(devices))
	for i, d := range devices {
		out[i] = convertDevice(d)
	}
	return out, nil
}

// Identify sends a unicast identify request to mac and waits for its
// response, returning a TimeoutError if none arrives before the client's
// configured deadline.
func (c *Client) Identify(ctx context.Context, mac MacAddress) (Device, error) {
	_, err := c.eng.Send(ctx, engine.Request{
		Destination: [6]byte(mac),
		FrameID:     wire.FrameIDIdentifyRequest,
		ServiceID:   wire.ServiceIDIdentify,
		Block: &wire.RequestBlock{
			Option:    wire.OptionAllSelector[0],
			SubOption: wire.OptionAllSelector[1],
		},
	})
	if err != nil {
		return Device{}, newTransportError("Identify", err)
	}

	devices, err := c.eng.CollectDevices(ctx, 0)
	if err != nil {
		return Device{}, newTransportError("Identify", err)
	}
	if len(devices) == 0 {
		return Device{}, newTimeoutError("Identify", mac)
	}
	return convertDevice(devices[0]), nil
}

func (c *Client) get(ctx context.Context, op string, mac MacAddress, option, subOption uint8) (engine.Device, error) {
	_, err := c.eng.Send(ctx, engine.Request{
		Destination:  [6]byte(mac),
		FrameID:      wire.FrameIDGetSet,
		ServiceID:    wire.ServiceIDGet,
		IsGet:        true,
		GetOption:    option,
		GetSubOption: subOption,
	})
	if err != nil {
		return engine.Device{}, newTransportError(op, err)
	}

	devices, err := c.eng.CollectDevices(ctx, 0)
	if err != nil {
		return engine.Device{}, newTransportError(op, err)
	}
	if len(devices) == 0 {
		return engine.Device{}, newTimeoutError(op, mac)
	}
	return devices[0], nil
}

// GetIP reads a device's current IP configuration.
func (c *Client) GetIP(ctx context.Context, mac MacAddress) (string, error) {
	d, err := c.get(ctx, "GetIP", mac, wire.OptionIPAddress[0], wire.OptionIPAddress[1])
	if err != nil {
		return "", err
	}
	return d.IP, nil
}

// GetName reads a device's configured name of station.
func (c *Client) GetName(ctx context.Context, mac MacAddress) (string, error) {
	d, err := c.get(ctx, "GetName", mac, wire.OptionNameOfStation[0], wire.OptionNameOfStation[1])
	if err != nil {
		return "", err
	}
	return d.NameOfStation, nil
}

func (c *Client) set(ctx context.Context, op string, mac MacAddress, option, subOption uint8, payload []byte) (ResponseCode, error) {
	_, err := c.eng.Send(ctx, engine.Request{
		Destination: [6]byte(mac),
		FrameID:     wire.FrameIDGetSet,
		ServiceID:   wire.ServiceIDSet,
		Block: &wire.RequestBlock{
			Option:    option,
			SubOption: subOption,
			Payload:   payload,
		},
	})
	if err != nil {
		return 0, newTransportError(op, err)
	}

	time.Sleep(c.eng.SettleTime)

	code, err := c.eng.CollectControlResponse(ctx, 0)
	if err != nil {
		if err == engine.ErrNotFound {
			return 0, newTimeoutError(op, mac)
		}
		return 0, newTransportError(op, err)
	}
	return ResponseCode(code), nil
}

// SetIP configures a device's IP address, netmask and gateway. When
// permanent is true, the value survives a power cycle; otherwise it's
// volatile until the next reset.
func (c *Client) SetIP(ctx context.Context, mac MacAddress, cfg IPConfig, permanent bool) (ResponseCode, error) {
	qualifier := wire.QualifierStoreTemporary
	if permanent {
		qualifier = wire.QualifierStorePermanent
	}
	payload := wire.BuildSetIPPayload(qualifier, cfg.Address, cfg.Netmask, cfg.Gateway)
	return c.set(ctx, "SetIP", mac, wire.OptionIPAddress[0], wire.OptionIPAddress[1], payload)
}

// ErrInvalidName is returned by SetName when name doesn't match the DCP
// name-of-station grammar.
var ErrInvalidName = fmt.Errorf("dcp: name of station must match %s", nameOfStationPattern.String())

// SetName configures a device's name of station. The name is lowercased
// before validation and transmission, matching device-side normalization.
func (c *Client) SetName(ctx context.Context, mac MacAddress, name string, permanent bool) (ResponseCode, error) {
	lowered := toLowerASCII(name)
	if !nameOfStationPattern.MatchString(lowered) {
		return 0, newConfigError("SetName", ErrInvalidName)
	}

	qualifier := wire.QualifierStoreTemporary
	if permanent {
		qualifier = wire.QualifierStorePermanent
	}
	payload := wire.BuildSetNamePayload(qualifier, lowered)
	return c.set(ctx, "SetName", mac, wire.OptionNameOfStation[0], wire.OptionNameOfStation[1], payload)
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Blink asks a device to flash its identification LED once, used to
// confirm which physical device a MAC address belongs to.
func (c *Client) Blink(ctx context.Context, mac MacAddress) (ResponseCode, error) {
	payload := wire.BuildBlinkPayload()
	return c.set(ctx, "Blink", mac, wire.OptionBlinkLED[0], wire.OptionBlinkLED[1], payload)
}

// ResetToFactory resets mode's scope of configuration back to factory
// defaults (application data, communication parameters, engineering,
// all data, the whole device, or device-and-restore). mode defaults to
// wire.ResetModeCommunication when the zero value is passed.
func (c *Client) ResetToFactory(ctx context.Context, mac MacAddress, mode wire.ResetMode) (ResponseCode, error) {
	if mode == (wire.ResetMode{}) {
		mode = wire.ResetModeCommunication
	}
	payload := wire.BuildResetToFactoryPayload(mode)
	return c.set(ctx, "ResetToFactory", mac, wire.OptionResetToFactory[0], wire.OptionResetToFactory[1], payload)
}

// FactoryReset performs the distinct factory-reset control request
// ((5,5), separate from ResetToFactory's (5,6)).
func (c *Client) FactoryReset(ctx context.Context, mac MacAddress) (ResponseCode, error) {
	payload := wire.BuildFactoryResetPayload(wire.QualifierReserved)
	return c.set(ctx, "FactoryReset", mac, wire.OptionFactoryReset[0], wire.OptionFactoryReset[1], payload)
}
