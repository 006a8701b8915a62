package wire

// BuildSetIPPayload builds the payload for a set-IP request: qualifier (2B)
// || address (4B) || netmask (4B) || gateway (4B).
func BuildSetIPPayload(qualifier [2]byte, address, netmask, gateway [4]byte) []byte {
	b := make([]byte, 0, 14)
	b = append(b, qualifier[:]...)
	b = append(b, address[:]...)
	b = append(b, netmask[:]...)
	b = append(b, gateway[:]...)
	return b
}

// BuildSetNamePayload builds the payload for a set-name request: qualifier
// (2B) || ASCII name bytes, with no terminator.
func BuildSetNamePayload(qualifier [2]byte, name string) []byte {
	b := make([]byte, 0, 2+len(name))
	b = append(b, qualifier[:]...)
	b = append(b, []byte(name)...)
	return b
}

// BuildBlinkPayload builds the payload for a blink-LED request: a reserved
// qualifier (0x0000) followed by the "flash once" signal value 0x0100.
func BuildBlinkPayload() []byte {
	b := make([]byte, 0, 4)
	b = append(b, QualifierReserved[:]...)
	b = append(b, BlinkSignalValue[:]...)
	return b
}

// BuildResetToFactoryPayload builds the payload for a reset-to-factory
// request: just the 2-byte qualifier selecting the reset mode.
func BuildResetToFactoryPayload(mode ResetMode) []byte {
	return []byte{mode[0], mode[1]}
}

// BuildFactoryResetPayload builds the payload for a factory-reset request:
// the 2-byte factory-reset-selector qualifier. The semantic of this
// qualifier for sub-option (5,5) isn't documented upstream (spec §9); it is
// left at 0x0000 unless the caller supplies one.
func BuildFactoryResetPayload(qualifier [2]byte) []byte {
	return []byte{qualifier[0], qualifier[1]}
}
