package card

import "math/big"

// sha1DigestInfoPrefix is the 15-byte ASN.1 prefix
// `SEQUENCE { SEQUENCE { OID sha1, NULL }, OCTET STRING (20) }` minus the
// trailing digest bytes, prepended ahead of a raw SHA-1 hash before PKCS#1
// v1.5 type-1 padding. Recovered from `original_source/myeid_emu.c`'s
// `get_constant(..., N_PSHA1_prefix)` table (the value itself is a
// standard, publicly documented ASN.1 constant, not something the source
// invents).
var sha1DigestInfoPrefix = []byte{
	0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e,
	0x03, 0x02, 0x1a, 0x05, 0x00, 0x04, 0x14,
}

// RSA formatting flags, per §4.3.
const (
	RSAFlagRaw        byte = 0x00
	RSAFlagDigestInfo byte = 0x02
	RSAFlagSHA1       byte = 0x12 // wire sign_algo value; internally flag=1
)

func modulusSizeBytes(fs FileSystem, fileID uint16) (int, *StatusError) {
	p, err := fs.ReadKeyPart(fileID, KeyRSAPrimeP)
	if err != nil {
		return 0, err
	}
	return len(p) * 2, nil
}

// rsaRaw is the rsa_raw formatter (§4.3): pads/digest-wraps msg per flag,
// invokes the RSA kernel, and returns the big-endian result at exactly the
// modulus size. flag uses the internal {0,1,2} numbering spec.md assigns
// (sign_algo 0x00/0x12/0x02 map to flag 0/1/2 respectively at the call
// site in pso.go).
func rsaRaw(fs FileSystem, fileID uint16, msg []byte, flag byte) ([]byte, *StatusError) {
	modSize, err := modulusSizeBytes(fs, fileID)
	if err != nil {
		return nil, err
	}

	var padded []byte
	switch flag {
	case 0: // raw: length must equal modulus size exactly.
		if len(msg) != modSize {
			return nil, errf(SWConditionsNotSat, "raw message length %d != modulus size %d", len(msg), modSize)
		}
		padded = msg

	case 1: // SHA-1: length must be exactly 20, prepend DigestInfo, fall through to type-1 padding.
		if len(msg) != 20 {
			return nil, errf(SWConditionsNotSat, "sha1 message length %d != 20", len(msg))
		}
		digestInfo := append(append([]byte{}, sha1DigestInfoPrefix...), msg...)
		padded, err = pkcs1Type1Pad(digestInfo, modSize)
		if err != nil {
			return nil, err
		}

	case 2: // DigestInfo already present: apply type-1 padding directly.
		padded, err = pkcs1Type1Pad(msg, modSize)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errf(SWConditionsNotSat, "unsupported rsa formatting flag %d", flag)
	}

	result, kerr := rsaKernelRun(fs, fileID, padded, modSize)
	if kerr != nil {
		return nil, kerr
	}
	return result, nil
}

// pkcs1Type1Pad builds `00 01 FF...FF 00 <data>` with at least 8 FF bytes,
// failing when there isn't room (len(data)+11 > modSize).
func pkcs1Type1Pad(data []byte, modSize int) ([]byte, *StatusError) {
	if len(data)+11 > modSize {
		return nil, errf(SWConditionsNotSat, "data too long for type-1 padding: %d + 11 > %d", len(data), modSize)
	}
	out := make([]byte, modSize)
	out[0] = 0x00
	out[1] = 0x01
	ffEnd := modSize - len(data) - 1
	for i := 2; i < ffEnd; i++ {
		out[i] = 0xFF
	}
	out[ffEnd] = 0x00
	copy(out[ffEnd+1:], data)
	return out, nil
}

// rsaKernelRun invokes the CRT kernel against the selected file's key
// parts. Its only error is a missing key part, returned before any
// arithmetic runs; the CRT kernel itself has no failure path, so there is
// no partial result to zeroize. This function holds no long-lived
// sensitive buffers beyond its own stack.
func rsaKernelRun(fs FileSystem, fileID uint16, padded []byte, modSize int) ([]byte, *StatusError) {
	p, err := fs.ReadKeyPart(fileID, KeyRSAPrimeP)
	if err != nil {
		return nil, err
	}
	q, err := fs.ReadKeyPart(fileID, KeyRSAPrimeQ)
	if err != nil {
		return nil, err
	}
	dP, err := fs.ReadKeyPart(fileID, KeyRSADP)
	if err != nil {
		return nil, err
	}
	dQ, err := fs.ReadKeyPart(fileID, KeyRSADQ)
	if err != nil {
		return nil, err
	}
	qInv, err := fs.ReadKeyPart(fileID, KeyRSAQInv)
	if err != nil {
		return nil, err
	}

	c := new(big.Int).SetBytes(padded)
	m := rsaCRT(c,
		new(big.Int).SetBytes(p),
		new(big.Int).SetBytes(q),
		new(big.Int).SetBytes(dP),
		new(big.Int).SetBytes(dQ),
		new(big.Int).SetBytes(qInv))

	return FromInt(m, modSize).ToBEBytes(), nil
}

// pkcs1Type2Unpad validates and strips PKCS#1 v1.5 type-2 padding
// (`00 02 <>=8 non-zero random bytes> 00 <payload>`), per the decrypt
// post-pass (§4.3) that only runs when sign_algo=0x02.
func pkcs1Type2Unpad(block []byte) ([]byte, *StatusError) {
	if len(block) < 11 || block[0] != 0x00 || block[1] != 0x02 {
		return nil, errf(SWConditionsNotSat, "not a type-2 padded block")
	}
	for i := 2; i < len(block); i++ {
		if block[i] == 0x00 {
			if i < 10 {
				return nil, errf(SWConditionsNotSat, "fewer than 8 bytes of random padding before terminator")
			}
			return block[i+1:], nil
		}
	}
	return nil, errf(SWConditionsNotSat, "no 0x00 terminator found after padding")
}
