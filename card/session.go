package card

// Operation is the security-environment operation the next PERFORM
// SECURITY OPERATION is armed for, per §3.
type Operation byte

const (
	OpNone Operation = iota
	OpSign
	OpDecrypt
	OpEncrypt
	OpECDH
)

// SecurityEnvironment is the latched (operation, algorithm, key file id)
// tuple the next PSO consumes, modeled as an explicit value threaded
// through Processor rather than a package-global — per spec.md §9's
// "Session" re-architecture guidance.
type SecurityEnvironment struct {
	Valid     bool
	Operation Operation
	SignAlgo  byte
	KeyFileID uint16
	IVPresent bool
}

// manageSecurityEnvironment implements MANAGE SECURITY ENVIRONMENT
// (INS=0x22, §4.1). It always starts by invalidating env; only full
// success leaves it valid, matching "every entry begins by invalidating
// the environment."
func manageSecurityEnvironment(env *SecurityEnvironment, a APDU) StatusWord {
	*env = SecurityEnvironment{}

	p1, p2 := a.P1, a.P2

	if p1 == 0xF3 {
		// RESTORE: body MUST be empty; success, environment stays unset.
		// This is a known stub in the original — do not re-arm. §9 Open
		// Question: preserved verbatim.
		if len(a.Data) != 0 {
			return SWLcLeInconsistent
		}
		return SWOK
	}

	// MyEID manual says P1 must be 0xA4 for ECDH, but some clients
	// (opensc) send P1=0x41/P2=0xA4 — and some send the alias the other
	// way around (P1=0xA4). Tolerate the alias, per §4.1.
	if p1 == 0xA4 {
		p1, p2 = 0x41, 0xA4
	}

	if p1 != 0x41 && p1 != 0x81 {
		return SWFunctionNotSupported
	}

	var sawAlgo, sawKeyFile bool
	var algo byte
	var keyFileID uint16

	err := walkTLV(a.Data, func(tag byte, value []byte) *StatusError {
		switch tag {
		case 0x80:
			if len(value) != 1 {
				return errf(SWFunctionNotSupported, "tag 0x80 length != 1")
			}
			switch value[0] {
			case 0x00, 0x02, 0x12, 0x04:
			default:
				return errf(SWFunctionNotSupported, "unsupported algorithm id %#02x", value[0])
			}
			algo = value[0]
			sawAlgo = true

		case 0x81:
			if len(value) != 2 {
				return errf(SWFunctionNotSupported, "tag 0x81 length != 2")
			}
			keyFileID = uint16(value[0])<<8 | uint16(value[1])
			sawKeyFile = true

		case 0x83, 0x84:
			if len(value) != 1 {
				return errf(SWFunctionNotSupported, "tag %#02x length != 1", tag)
			}
			// MyEID supports one key per file; the reference must be 0.
			// See DESIGN.md: confirmed against the original source that
			// no tolerance for a non-zero value exists to preserve.
			if value[0] != 0x00 {
				return errf(SWFunctionNotSupported, "key reference must be 0")
			}

		case 0x87:
			env.IVPresent = true

		default:
			return errf(SWIncorrectParamsField, "unrecognized CRDO tag %#02x", tag)
		}
		return nil
	})
	if err != nil {
		*env = SecurityEnvironment{}
		return err.SW
	}

	if !sawAlgo || !sawKeyFile {
		*env = SecurityEnvironment{}
		return SWFunctionNotSupported
	}

	var op Operation
	switch p2 {
	case 0xB6:
		op = OpSign
	case 0xB8:
		if p1 == 0x81 {
			op = OpEncrypt
		} else {
			op = OpDecrypt
		}
	case 0xA4:
		op = OpECDH
	default:
		*env = SecurityEnvironment{}
		return SWFunctionNotSupported
	}

	env.Valid = true
	env.Operation = op
	env.SignAlgo = algo
	env.KeyFileID = keyFileID
	return SWOK
}
