// Package card implements the MyEID-compatible cryptographic command
// processor: the APDU-level state machine that manages the current
// security environment, dispatches RSA/EC/symmetric operations with
// byte-exact padding, and produces status-word responses against a
// file-system boundary supplied by the caller.
package card

import "encoding/binary"

// Instruction bytes this processor dispatches on, per the wire format
// table.
const (
	InsManageSecurityEnv  byte = 0x22
	InsPerformSecurityOp  byte = 0x2A
	InsGenerateKey        byte = 0x46
	InsGeneralAuthenticate byte = 0x86
	InsGetData            byte = 0xCA
	InsPutData            byte = 0xDA
	InsActivateApplet     byte = 0x44
)

// ClaExperimental marks the "experimental" class used to gate the
// symmetric cipher path (§4.7).
const ClaExperimental byte = 0x80

// APDU is a parsed command: class, instruction, parameters, and an
// already-assembled command body (Lc/Le framing is handled by the
// transport; the core only ever sees the logical fields).
//
// Grounded on scard/scard.go's APDU struct; fields renamed Cla/Ins/P1/P2
// to match ISO 7816 naming used throughout spec.md, direction inverted
// (there it was a client-side request to transmit, here it is a
// server-side request to dispatch).
type APDU struct {
	Cla  byte
	Ins  byte
	P1   byte
	P2   byte
	Data []byte
}

// ParseAPDU decodes a raw byte-oriented command (CLA INS P1 P2 [Lc Data]
// [Le]) into an APDU. It accepts short-form APDUs only (Lc/Le ≤ 255),
// matching the length forms this processor's TLV and CRDO grammars support
// elsewhere.
func ParseAPDU(raw []byte) (APDU, *StatusError) {
	if len(raw) < 4 {
		return APDU{}, errf(SWWrongLength, "apdu shorter than header")
	}
	a := APDU{Cla: raw[0], Ins: raw[1], P1: raw[2], P2: raw[3]}
	rest := raw[4:]
	switch len(rest) {
	case 0:
		// Case 1: no data, no Le.
	case 1:
		// Case 2: Le only, no command data.
	default:
		lc := int(rest[0])
		if lc+1 > len(rest) {
			return APDU{}, errf(SWLcLeInconsistent, "lc %d exceeds remaining %d bytes", lc, len(rest)-1)
		}
		a.Data = rest[1 : 1+lc]
	}
	return a, nil
}

// Response is the (status_word, length, data) tuple handlers produce,
// before the transport frames it back onto the wire.
type Response struct {
	SW   StatusWord
	Data []byte
}

// Bytes renders the response as it would appear on the wire: data followed
// by the two-byte status word.
func (r Response) Bytes() []byte {
	out := make([]byte, 0, len(r.Data)+2)
	out = append(out, r.Data...)
	return binary.BigEndian.AppendUint16(out, uint16(r.SW))
}

// FileSystem is the `fs_*` boundary spec.md places out of scope (§6),
// consumed by Processor. keystore.Store is the concrete implementation
// shipped alongside this package.
type FileSystem interface {
	// SelectedFile returns the currently selected file id.
	SelectedFile() uint16
	// FileType returns one of {0x11, 0x22, 0x23, 0x19, 0x29} for file
	// fileID.
	FileType(fileID uint16) (byte, *StatusError)
	// FileSizeBits returns the declared key size in bits for file fileID.
	FileSizeBits(fileID uint16) (int, *StatusError)
	// ReadKeyPart returns the bytes stored under partID for file fileID,
	// or an error if absent/ACL-denied.
	ReadKeyPart(fileID uint16, partID byte) ([]byte, *StatusError)
	// WriteKeyPart stores (or replaces) the bytes under partID for file
	// fileID.
	WriteKeyPart(fileID uint16, partID byte, data []byte) *StatusError
	// AccessCondition returns the two-byte access-condition word for file
	// fileID.
	AccessCondition(fileID uint16) (uint16, *StatusError)
	// ListFiles renders a GET DATA file-listing response for selector p2
	// (0xA1..0xA6).
	ListFiles(p2 byte) ([]byte, *StatusError)
	// PINInfo renders a GET DATA PIN-info response for the given PIN id
	// (0x0..0xF).
	PINInfo(pinID byte) ([]byte, *StatusError)
	// InitializePIN provisions a PIN during PUT DATA initialization.
	InitializePIN(pinID byte, data []byte) *StatusError
	// InitializeApplet resets lifecycle to initialization state.
	InitializeApplet(data []byte) *StatusError
	// ActivateApplet transitions lifecycle from initialization to user
	// state (recovered feature, SPEC_FULL.md §4.10).
	ActivateApplet() *StatusError
}
