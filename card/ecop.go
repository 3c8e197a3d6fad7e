package card

import "math/big"

// signECRaw is the sign_ec_raw formatter (§4.4): binds curve parameters,
// invokes the ECDSA kernel, and DER-encodes (r, s).
//
// hash is truncated/zero-padded to the curve's scalar size before signing,
// per §4.4 step 2 — crypto/ecdsa truncates an over-length hash to the
// curve's bit size on its own, so only the zero-pad-when-short direction
// needs handling here explicitly.
func signECRaw(fs FileSystem, fileID uint16, hash []byte) ([]byte, *StatusError) {
	param, err := prepareECParam(fs, fileID)
	if err != nil {
		return nil, err
	}
	if len(hash) < param.ScalarSize {
		padded := make([]byte, param.ScalarSize)
		copy(padded[param.ScalarSize-len(hash):], hash)
		hash = padded
	}

	r, s, serr := ecdsaSignRaw(param.Curve, param.Private.Int(), hash)
	if serr != nil {
		return nil, serr
	}
	return encodeECDSASignature(r, s, param.ScalarSize), nil
}

// encodeECDSASignature renders (r, s) as DER `SEQUENCE { INTEGER, INTEGER }`.
//
// This preserves, verbatim, the quirk spec.md §4.4/§9 documents and
// explicitly forbids "fixing": for scalarSize > 60 (only secp521r1 in the
// supported set) the outer length ALWAYS uses the `81 LL` long form, even
// when the content length is small enough (126 or 127 bytes) that strict
// minimal DER would require the short form. Confirmed against
// original_source/myeid_emu.c's sign_ec_raw, which hard-codes this for
// scalarSize > 60 unconditionally.
func encodeECDSASignature(r, s *big.Int, scalarSize int) []byte {
	rEnc := encodeDERInteger(r, scalarSize)
	sEnc := encodeDERInteger(s, scalarSize)
	content := append(append([]byte{}, rEnc...), sEnc...)

	if scalarSize > 60 {
		out := make([]byte, 0, len(content)+3)
		out = append(out, 0x30, 0x81, byte(len(content)))
		out = append(out, content...)
		return out
	}
	out := make([]byte, 0, len(content)+2)
	out = append(out, 0x30, byte(len(content)))
	out = append(out, content...)
	return out
}

// encodeDERInteger renders a non-negative magnitude of scalarSize bytes as
// a DER INTEGER, inserting a leading 0x00 iff the high bit of the magnitude
// is set (minimal length otherwise: no other leading zero bytes survive,
// since big.Int.Bytes() never emits them).
func encodeDERInteger(v *big.Int, scalarSize int) []byte {
	raw := FromInt(v, scalarSize).ToBEBytes()
	// Trim accidental leading zero bytes from the fixed-width encoding
	// down to the value's true minimal magnitude, then re-add exactly one
	// if the top bit is set.
	i := 0
	for i < len(raw)-1 && raw[i] == 0x00 {
		i++
	}
	raw = raw[i:]
	if raw[0]&0x80 != 0 {
		padded := make([]byte, len(raw)+1)
		copy(padded[1:], raw)
		raw = padded
	}
	out := make([]byte, 0, len(raw)+2)
	out = append(out, 0x02, byte(len(raw)))
	out = append(out, raw...)
	return out
}
