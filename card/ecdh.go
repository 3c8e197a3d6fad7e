package card

// ecdhDeriveX implements GENERAL AUTHENTICATE (INS=0x86, §4.6): parses the
// Dynamic Authentication Template, derives d*P via the EC kernel, and
// returns the big-endian X-coordinate. Y is discarded, matching the
// X-coordinate-only ECDH variant spec.md names throughout.
//
// Grounded on original_source/myeid_emu.c's myeid_ecdh_derive for the
// exact TLV walk: outer tag 0x7C required, an optional 0x80 (key
// identifier) is skipped, and 0x85 must hold `04 || X || Y` with each
// coordinate exactly the curve's scalar length.
func ecdhDeriveX(fs FileSystem, fileID uint16, body []byte) ([]byte, *StatusError) {
	outer, err := nextTLV(body)
	if err != nil {
		return nil, err
	}
	if outer.Tag != 0x7C {
		return nil, errf(SWInvalidData, "expected Dynamic Authentication Template (0x7C), got %#02x", outer.Tag)
	}

	inner := outer.Value
	var point []byte
	for len(inner) > 0 {
		entry, terr := nextTLV(inner)
		if terr != nil {
			return nil, terr
		}
		switch entry.Tag {
		case 0x80:
			// Optional key identifier; skip.
		case 0x85:
			point = entry.Value
		default:
			return nil, errf(SWInvalidData, "unexpected tag %#02x inside Dynamic Authentication Template", entry.Tag)
		}
		inner = inner[entry.RawLen:]
	}
	if point == nil {
		return nil, errf(SWInvalidData, "Dynamic Authentication Template missing tag 0x85")
	}

	param, perr := prepareECParam(fs, fileID)
	if perr != nil {
		return nil, perr
	}
	coordLen := param.ScalarSize
	if len(point) != 1+2*coordLen || point[0] != 0x04 {
		return nil, errf(SWInvalidData, "peer point must be uncompressed and match curve scalar length %d", coordLen)
	}
	x := FromBEBytesSized(point[1:1+coordLen], coordLen)
	y := FromBEBytesSized(point[1+coordLen:1+2*coordLen], coordLen)

	rx, _ := ecdhDerive(param.Curve, param.Private.Int(), x.Int(), y.Int())
	return FromInt(rx, coordLen).ToBEBytes(), nil
}
