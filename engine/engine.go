// Package engine implements the DCP transaction engine: transaction ID
// management, the send algorithm, and the unified deadline-bounded receive
// loop that correlates and decodes responses.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/elrosch/profi-dcp/transport"
	"github.com/elrosch/profi-dcp/wire"
)

// DefaultTimeout is the receive-loop deadline used when a call doesn't
// specify one.
const DefaultTimeout = 7 * time.Second

// SettleTime is how long SET/RESET operations wait between sending and
// starting their receive loop, giving the device time to commit.
const SettleTime = 2 * time.Second

// ErrNotFound is returned internally when a set/reset receive loop exits
// without a control response; engine callers map it to spec's TimeoutError.
var ErrNotFound = errors.New("engine: no matching response before deadline")

// Engine owns the transaction state for one DCP client: the current xid,
// the source MAC used to address responses to this host, and the open L2
// transport.
type Engine struct {
	SourceMAC  [6]byte
	Transport  transport.Capability
	Timeout    time.Duration
	SettleTime time.Duration
	Log        logr.Logger

	xid uint32
}

// New creates an engine bound to transport t, seeding xid from a random
// 32-bit value (spec §9: any PRNG with low same-segment collision odds is
// sufficient; cryptographic strength isn't required).
func New(sourceMAC [6]byte, t transport.Capability, log logr.Logger) (*Engine, error) {
	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("engine: seed xid: %w", err)
	}
	return &Engine{
		SourceMAC:  sourceMAC,
		Transport:  t,
		Timeout:    DefaultTimeout,
		SettleTime: SettleTime,
		Log:        log,
		xid:        binary.BigEndian.Uint32(seed[:]),
	}, nil
}

// nextXid increments xid (wrapping at 32 bits, spec §9) and returns it.
func (e *Engine) nextXid() uint32 {
	e.xid++ // uint32 wraps on overflow by definition
	return e.xid
}

// CurrentXid returns the xid of the most recently sent request.
func (e *Engine) CurrentXid() uint32 {
	return e.xid
}

// Request describes an outgoing DCP request. Exactly one of Block (a
// SET/IDENTIFY/control block) or GetOption/GetSubOption (a bare GET body)
// should be set, matching the two PDU shapes spec §4.1 defines.
type Request struct {
	Destination   [6]byte
	FrameID       uint16
	ServiceID     uint8
	ResponseDelay uint16

	// Block, when non-nil, is encoded as a full request block (used by
	// SET/IDENTIFY/control requests).
	Block *wire.RequestBlock

	// IsGet selects the 2-byte GET body instead of Block.
	IsGet        bool
	GetOption    uint8
	GetSubOption uint8
}

// Send increments xid and transmits the request, returning the xid used.
func (e *Engine) Send(ctx context.Context, req Request) (uint32, error) {
	xid := e.nextXid()

	var payload []byte
	var dataLength uint16
	if req.IsGet {
		payload = wire.EncodeGetBlock(req.GetOption, req.GetSubOption)
		dataLength = 2
	} else {
		encoded, err := req.Block.MarshalBinary()
		if err != nil {
			return xid, fmt.Errorf("engine: encode request block: %w", err)
		}
		payload = encoded
		dataLength = uint16(len(encoded))
	}

	pdu := wire.Pdu{
		FrameID:       req.FrameID,
		ServiceID:     req.ServiceID,
		ServiceType:   wire.ServiceTypeRequest,
		Xid:           xid,
		ResponseDelay: req.ResponseDelay,
		DataLength:    dataLength,
		Payload:       payload,
	}
	pduBytes, _ := pdu.MarshalBinary()

	frame := wire.Frame{
		Destination: req.Destination,
		Source:      e.SourceMAC,
		EtherType:   wire.EtherType,
		Payload:     pduBytes,
	}
	frameBytes, _ := frame.MarshalBinary()

	if err := e.Transport.Send(ctx, frameBytes); err != nil {
		return xid, fmt.Errorf("engine: send request: %w", err)
	}
	return xid, nil
}

// CollectDevices runs the unified receive loop for the full timeout,
// collecting every matching identify/get response into a Device. It never
// returns ErrNotFound: an empty slice is a legitimate result (used by
// identify_all; unicast callers treat an empty slice as a timeout).
func (e *Engine) CollectDevices(ctx context.Context, timeout time.Duration) ([]Device, error) {
	var found []Device
	err := e.collect(ctx, timeout, func(frame wire.Frame, pdu wire.Pdu) bool {
		found = append(found, DecodeDevice(frame.Source, pdu.Payload))
		return false // keep collecting until the deadline
	})
	return found, err
}

// CollectControlResponse runs the receive loop until the first control
// response arrives (returning immediately, per spec §4.3: "a set/reset
// request produces exactly one response") or the timeout elapses, in which
// case it returns ErrNotFound.
func (e *Engine) CollectControlResponse(ctx context.Context, timeout time.Duration) (ResponseCode, error) {
	var code ResponseCode
	found := false
	err := e.collect(ctx, timeout, func(frame wire.Frame, pdu wire.Pdu) bool {
		c, ok := DecodeControlResponse(pdu.Payload)
		if !ok {
			return false
		}
		code = c
		found = true
		return true // stop: exactly one response expected
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrNotFound
	}
	return code, nil
}

// collect polls the transport until timeout elapses, handing each
// correlated response to onResponse. onResponse returns true to stop
// early (used by CollectControlResponse's single-response short-circuit).
func (e *Engine) collect(ctx context.Context, timeout time.Duration, onResponse func(wire.Frame, wire.Pdu) bool) error {
	if timeout <= 0 {
		timeout = e.Timeout
	}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := e.Transport.Recv(ctx)
		if err != nil {
			if errors.Is(err, transport.ErrTimeout) {
				continue
			}
			return fmt.Errorf("engine: receive: %w", err)
		}
		if data == nil {
			continue
		}

		var frame wire.Frame
		if err := frame.UnmarshalBinary(data); err != nil {
			e.Log.V(1).Info("dropping malformed frame", "err", err)
			continue // doesn't count against deadline
		}
		if frame.Destination != e.SourceMAC || frame.EtherType != wire.EtherType {
			continue
		}

		var pdu wire.Pdu
		if err := pdu.UnmarshalBinary(frame.Payload); err != nil {
			e.Log.V(1).Info("dropping malformed pdu", "err", err)
			continue
		}
		if pdu.ServiceType != wire.ServiceTypeResponse {
			continue
		}
		if pdu.Xid != e.xid {
			e.Log.V(1).Info("dropping response with stale xid", "got", pdu.Xid, "want", e.xid)
			continue
		}

		if onResponse(frame, pdu) {
			return nil
		}
	}
	return nil
}

// Close closes the underlying transport.
func (e *Engine) Close() error {
	e.Log.V(1).Info("closing engine")
	return e.Transport.Close()
}
