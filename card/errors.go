package card

import "fmt"

// StatusWord is an ISO 7816-4 two-byte response status.
type StatusWord uint16

// The exhaustive status-word taxonomy this processor emits, mirrored from
// the teacher's scard.errorCodes table and inverted from decode to encode.
const (
	SWOK                   StatusWord = 0x9000
	SWWrongLength          StatusWord = 0x6700
	SWIncorrectFileType    StatusWord = 0x6981
	SWInvalidData          StatusWord = 0x6984
	SWConditionsNotSat     StatusWord = 0x6985
	SWIncorrectParamsField StatusWord = 0x6A80
	SWFunctionNotSupported StatusWord = 0x6A81
	SWFileNotFound         StatusWord = 0x6A82
	SWIncorrectP1P2        StatusWord = 0x6A86
	SWLcLeInconsistent     StatusWord = 0x6A87
	SWReferencedDataNotFnd StatusWord = 0x6A88
)

// swDataReady builds the 0x61xx "response ready, xx bytes available" word;
// an xx of 0 signals 256 bytes, per spec.
func swDataReady(length int) StatusWord {
	return StatusWord(0x6100 | uint16(byte(length)))
}

var swNames = map[StatusWord]string{
	SWOK:                   "ok",
	SWWrongLength:          "wrong length",
	SWIncorrectFileType:    "incorrect file type",
	SWInvalidData:          "invalid data",
	SWConditionsNotSat:     "conditions not satisfied",
	SWIncorrectParamsField: "incorrect parameters in data field",
	SWFunctionNotSupported: "function not supported",
	SWFileNotFound:         "file not found",
	SWIncorrectP1P2:        "incorrect P1/P2",
	SWLcLeInconsistent:     "Lc/Le inconsistent",
	SWReferencedDataNotFnd: "referenced data not found",
}

func (sw StatusWord) String() string {
	if name, ok := swNames[sw]; ok {
		return name
	}
	if sw&0xFF00 == 0x6100 {
		return "data ready"
	}
	return fmt.Sprintf("unknown status word %#04x", uint16(sw))
}

// StatusError pairs a status word with context; used internally by
// components that can fail for more than one reason, so callers can
// errors.As instead of comparing sentinel values. The Processor boundary
// itself never returns a Go error — it returns (StatusWord, []byte) per
// spec.md §7 ("errors are reported, not thrown").
type StatusError struct {
	SW  StatusWord
	Msg string
}

func (e *StatusError) Error() string {
	if e.Msg == "" {
		return e.SW.String()
	}
	return fmt.Sprintf("%s: %s", e.SW, e.Msg)
}

func errf(sw StatusWord, format string, args ...any) *StatusError {
	return &StatusError{SW: sw, Msg: fmt.Sprintf(format, args...)}
}
