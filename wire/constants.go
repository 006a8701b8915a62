// Package wire implements marshaling and unmarshaling of the Ethernet II
// frames and DCP PDUs carried by the PROFINET Discovery and basic
// Configuration Protocol. All multi-byte integers are big-endian.
package wire

// EtherType is the EtherType value carried by all DCP traffic.
const EtherType uint16 = 0x8892

// Frame IDs select the DCP service family.
const (
	FrameIDGetSet           uint16 = 0xFEFD
	FrameIDIdentifyRequest  uint16 = 0xFEFE
	FrameIDIdentifyResponse uint16 = 0xFEFF
)

// Service IDs.
const (
	ServiceIDGet      uint8 = 3
	ServiceIDSet      uint8 = 4
	ServiceIDIdentify uint8 = 5
)

// Service types.
const (
	ServiceTypeRequest  uint8 = 0
	ServiceTypeResponse uint8 = 1
)

// ResponseDelayMulticast is the response delay carried on identify-multicast requests;
// unicast requests use 0 (ignored by the device).
const ResponseDelayMulticast uint16 = 0x0080

// Option/sub-option pairs, spec.md §4.1.
var (
	OptionIPAddress      = [2]uint8{1, 2}
	OptionDeviceFamily   = [2]uint8{2, 1}
	OptionNameOfStation  = [2]uint8{2, 2}
	OptionDeviceID       = [2]uint8{2, 3}
	OptionBlinkLED       = [2]uint8{5, 3}
	OptionFactoryReset   = [2]uint8{5, 5}
	OptionResetToFactory = [2]uint8{5, 6}
	OptionAllSelector    = [2]uint8{0xFF, 0xFF}
)

// Block qualifiers (the first two payload bytes of a SET/control block).
var (
	QualifierStorePermanent = [2]byte{0x00, 0x01}
	QualifierStoreTemporary = [2]byte{0x00, 0x00}
	QualifierReserved       = [2]byte{0x00, 0x00}
)

// ResetMode selects the scope of a reset-to-factory request.
type ResetMode [2]byte

var (
	ResetModeApplicationData ResetMode = [2]byte{0x00, 0x02}
	ResetModeCommunication   ResetMode = [2]byte{0x00, 0x04}
	ResetModeEngineering     ResetMode = [2]byte{0x00, 0x06}
	ResetModeAllData         ResetMode = [2]byte{0x00, 0x08}
	ResetModeDevice          ResetMode = [2]byte{0x00, 0x10}
	ResetModeAndRestore      ResetMode = [2]byte{0x00, 0x12}
)

// BlinkSignalValue is the "flash once" value carried after the blink
// qualifier.
var BlinkSignalValue = [2]byte{0x01, 0x00}

// ControlOption is the option value (5) used by SET/control blocks whose
// response carries a ResponseCode.
const ControlOption uint8 = 5
