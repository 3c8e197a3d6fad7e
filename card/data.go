package card

import "math/big"

// GET DATA (INS=0xCA, §4.9) and PUT DATA (INS=0xDA, §4.9) dispatch, plus
// ACTIVATE APPLET (INS=0x44, recovered feature, SPEC_FULL.md §4.10).
//
// Grounded on original_source/myeid_emu.c's myeid_get_data/myeid_put_data
// P2 dispatch tables and ec_read_public_key's tag/length/escape byte
// layout (reused here for the P2=0x86 EC public-key response).

// cardCapabilities is the fixed 11-byte GET DATA 0xAA response, per §4.9.
var cardCapabilities = []byte{
	0x01, 0x00, // applet version
	0x20,       // max PINs
	0x00, 0x08, // max key files
	0x08, 0x00, // max RSA key size (2048)
	0x02, 0x09, // max EC key size (521)
	0x00, 0x00, // reserved
}

// cardID is the fixed 20-byte GET DATA 0xA0 response: a synthetic serial
// derived from the applet identity rather than a per-card unique value, per
// §4.9 (the file system boundary may override this by storing its own
// under the same selector in a future revision; spec.md leaves the exact
// value unspecified beyond "20 bytes").
var cardID = []byte{
	0x4D, 0x79, 0x45, 0x49, 0x44, 0x2D, 0x45, 0x6D,
	0x75, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

// getData implements GET DATA (INS=0xCA, P1=0x01, §4.9).
func getData(fs FileSystem, a APDU) (StatusWord, []byte) {
	if a.P1 != 0x01 {
		return SWIncorrectP1P2, nil
	}
	fileID := fs.SelectedFile()

	switch {
	case a.P2 == 0x00:
		return getRSADescriptor(fs, fileID)
	case a.P2 == 0x01:
		return getRSAModulus(fs, fileID)
	case a.P2 == 0x02:
		return getKeyPartAsIs(fs, fileID, KeyRSAExpPublic)
	case a.P2 == 0x86:
		return getECPublicKey(fs, fileID, 0x30)
	case a.P2 >= 0x81 && a.P2 <= 0x85:
		return getECCParam(fs, fileID, a.P2)
	case a.P2 == 0xA0:
		return SWOK, cardID
	case a.P2 >= 0xA1 && a.P2 <= 0xA6:
		data, err := fs.ListFiles(a.P2)
		if err != nil {
			return err.SW, nil
		}
		return SWOK, data
	case a.P2 == 0xAA:
		return SWOK, cardCapabilities
	case a.P2 == 0xAC:
		ac, err := fs.AccessCondition(fileID)
		if err != nil {
			return err.SW, nil
		}
		return SWOK, []byte{byte(ac >> 8), byte(ac)}
	case a.P2 >= 0xB0 && a.P2 <= 0xBF:
		data, err := fs.PINInfo(a.P2 & 0x0F)
		if err != nil {
			return err.SW, nil
		}
		return SWOK, data
	default:
		return SWReferencedDataNotFnd, nil
	}
}

// getRSADescriptor renders the 6-byte `algo(2) | modulusBits(2) |
// exponentBits(2)` descriptor (§4.9).
func getRSADescriptor(fs FileSystem, fileID uint16) (StatusWord, []byte) {
	bits, err := fs.FileSizeBits(fileID)
	if err != nil {
		return err.SW, nil
	}
	exp, err := fs.ReadKeyPart(fileID, KeyRSAExpPublic)
	if err != nil {
		return err.SW, nil
	}
	expBits := len(exp) * 8
	out := []byte{
		0x92, 0x00,
		byte(bits >> 8), byte(bits),
		byte(expBits >> 8), byte(expBits),
	}
	return SWOK, out
}

// getRSAModulus assembles the modulus, concatenating the 2048-bit split
// parts if present. The original's 0x61xx/GET RESPONSE chaining (swDataReady,
// errors.go) does not apply here: transport already frames the full data
// plus final SW in a single vpcd message, so there is never a second APDU
// to chain to; this returns SWOK directly, per DESIGN.md's Tests/transport
// note on the GET DATA response paths.
func getRSAModulus(fs FileSystem, fileID uint16) (StatusWord, []byte) {
	if p1, err := fs.ReadKeyPart(fileID, KeyRSAModulusP1); err == nil {
		p2, err2 := fs.ReadKeyPart(fileID, KeyRSAModulusP2)
		if err2 != nil {
			return err2.SW, nil
		}
		mod := append(append([]byte{}, p1...), p2...)
		return SWOK, mod
	}
	mod, err := fs.ReadKeyPart(fileID, KeyRSAModulus)
	if err != nil {
		return err.SW, nil
	}
	return SWOK, mod
}

func getKeyPartAsIs(fs FileSystem, fileID uint16, partID byte) (StatusWord, []byte) {
	data, err := fs.ReadKeyPart(fileID, partID)
	if err != nil {
		return err.SW, nil
	}
	return SWOK, data
}

// getECPublicKey renders `tag [81 LL | LL] 04 || X || Y`, per
// ec_read_public_key: long-form length when the point is 128 bytes or
// longer. GET DATA calls it with tag 0x30; GENERATE KEY (keygen.go)
// builds its own tag-0x86 response.
func getECPublicKey(fs FileSystem, fileID uint16, tag byte) (StatusWord, []byte) {
	point, err := fs.ReadKeyPart(fileID, KeyECPublic)
	if err != nil {
		return SWConditionsNotSat, nil
	}
	if len(point) == 0 {
		return SWConditionsNotSat, nil
	}
	out := newTLV(tag).appendBytes(point)
	return SWOK, out.bytes()
}

// getECCParam implements GET DATA's curve-parameter access (P2 0x81-0x85),
// grounded on myeid_emu.c's ecc_param table: 0x81 prime, 0x82 coefficient
// a, 0x83 coefficient b, 0x84 generator point (X||Y big-endian), 0x85
// order.
func getECCParam(fs FileSystem, fileID uint16, p2 byte) (StatusWord, []byte) {
	param, err := prepareECParam(fs, fileID)
	if err != nil {
		return err.SW, nil
	}
	n := param.Curve.Params()
	size := param.ScalarSize

	switch p2 {
	case 0x81:
		return SWOK, FromInt(n.P, size).ToBEBytes()
	case 0x82:
		// a = p - 3 for every supported curve except secp256k1 (a = 0).
		if param.ATag == "a=0" {
			return SWOK, make([]byte, size)
		}
		a := new(big.Int).Sub(n.P, big.NewInt(3))
		return SWOK, FromInt(a, size).ToBEBytes()
	case 0x83:
		return SWOK, FromInt(n.B, size).ToBEBytes()
	case 0x84:
		gen := make([]byte, 0, 2*size)
		gen = append(gen, FromInt(n.Gx, size).ToBEBytes()...)
		gen = append(gen, FromInt(n.Gy, size).ToBEBytes()...)
		return SWOK, gen
	case 0x85:
		return SWOK, FromInt(n.N, size).ToBEBytes()
	default:
		return SWReferencedDataNotFnd, nil
	}
}

// putData implements PUT DATA (INS=0xDA, P1=0x01, §4.9).
func putData(fs FileSystem, a APDU) StatusWord {
	if a.P1 != 0x01 {
		return SWIncorrectP1P2
	}
	fileID := fs.SelectedFile()

	switch {
	case a.P2 == 0xE0:
		if err := fs.InitializeApplet(a.Data); err != nil {
			return err.SW
		}
		return SWOK

	case a.P2 >= 0x01 && a.P2 <= 0x0E:
		if err := fs.InitializePIN(a.P2, a.Data); err != nil {
			return err.SW
		}
		return SWOK

	case (a.P2 >= 0x80 && a.P2 <= 0x8B) || a.P2 == 0xA0:
		return uploadKeyPart(fs, fileID, a.P2, a.Data)

	default:
		return SWReferencedDataNotFnd
	}
}

// uploadKeyPart implements PUT DATA's key-upload sub-routing (§4.9),
// grounded on myeid_emu.c's myeid_upload_keys: the selected file's type is
// consulted first, because the same P2 byte names a different part on an
// RSA file than on an EC file (0x86/0x87 are the RSA modulus halves on one
// and the EC public/private key on the other).
func uploadKeyPart(fs FileSystem, fileID uint16, p2 byte, data []byte) StatusWord {
	fileType, err := fs.FileType(fileID)
	if err != nil {
		return err.SW
	}

	switch fileType {
	case FileTypeDES, FileTypeAES:
		return uploadSymmetricKey(fs, fileID, fileType, data)
	case FileTypeECNIST, FileTypeECSecp256k:
		return uploadECKeyPart(fs, fileID, fileType, p2, data)
	case FileTypeRSA:
		return uploadRSAKeyPart(fs, fileID, p2, data)
	default:
		return SWIncorrectFileType
	}
}

// uploadSymmetricKey stores the single DES/AES key part under KeySymmetric,
// per myeid_upload_keys' DES/AES branch, which checks the file's declared
// bit size against the cipher's legal key lengths before writing.
func uploadSymmetricKey(fs FileSystem, fileID uint16, fileType byte, data []byte) StatusWord {
	bits, err := fs.FileSizeBits(fileID)
	if err != nil {
		return err.SW
	}
	switch fileType {
	case FileTypeDES:
		if bits != 56 && bits != 64 && bits != 128 && bits != 192 {
			return SWWrongLength
		}
	case FileTypeAES:
		if bits != 128 && bits != 192 && bits != 256 {
			return SWWrongLength
		}
	}
	if len(data)*8 != bits {
		return SWConditionsNotSat
	}
	if werr := fs.WriteKeyPart(fileID, KeySymmetric, data); werr != nil {
		return werr.SW
	}
	return SWOK
}

// uploadECKeyPart implements myeid_upload_ec_key: P2=0x87 uploads the
// private scalar, P2=0x86 the uncompressed public point (04 || X || Y);
// any other P2 is rejected, and each part's length is checked against the
// curve's scalar size for the file (§4.5), derived the same way
// generateECKey derives it.
func uploadECKeyPart(fs FileSystem, fileID uint16, fileType byte, p2 byte, data []byte) StatusWord {
	bits, err := fs.FileSizeBits(fileID)
	if err != nil {
		return err.SW
	}
	scalarSize, serr := scalarSizeForFileSize(fileType, bits)
	if serr != nil {
		return serr.SW
	}

	var partID byte
	var wantLen int
	switch p2 {
	case 0x87:
		partID, wantLen = KeyECPrivate, scalarSize
	case 0x86:
		partID, wantLen = KeyECPublic, 1+2*scalarSize
	default:
		return SWConditionsNotSat
	}
	if len(data) != wantLen {
		return SWConditionsNotSat
	}
	if werr := fs.WriteKeyPart(fileID, partID, data); werr != nil {
		return werr.SW
	}
	return SWOK
}

// uploadRSAKeyPart implements myeid_upload_rsa_key's test_size table: the
// CRT primes, dP/dQ/qInv, and the 2048-bit modulus halves are sized in
// units of 16 bits of modulus; the single-part modulus (<=1024-bit keys)
// in units of 8; the public exponent is accepted at any length.
func uploadRSAKeyPart(fs FileSystem, fileID uint16, p2 byte, data []byte) StatusWord {
	bits, err := fs.FileSizeBits(fileID)
	if err != nil {
		return err.SW
	}
	partID, ok := rsaUploadPartID(p2)
	if !ok {
		return SWConditionsNotSat
	}

	m := len(data)
	switch partID {
	case KeyRSAPrimeP, KeyRSAPrimeQ, KeyRSADP, KeyRSADQ, KeyRSAQInv, KeyRSAModulusP1, KeyRSAModulusP2:
		if 16*m != bits {
			return SWConditionsNotSat
		}
	case KeyRSAModulus:
		if 8*m != bits {
			return SWConditionsNotSat
		}
	case KeyRSAExpPublic:
		// Any length accepted; an oversized exponent fails later at use.
	}
	if werr := fs.WriteKeyPart(fileID, partID, data); werr != nil {
		return werr.SW
	}
	return SWOK
}

// rsaUploadPartID maps PUT DATA's RSA upload selector byte to the key-part
// id it writes, per §4.9's key-part upload table.
func rsaUploadPartID(p2 byte) (byte, bool) {
	switch p2 {
	case 0x80:
		return KeyRSAPrimeP, true
	case 0x81:
		return KeyRSAPrimeQ, true
	case 0x82:
		return KeyRSADP, true
	case 0x83:
		return KeyRSADQ, true
	case 0x84:
		return KeyRSAQInv, true
	case 0x85:
		return KeyRSAModulus, true
	case 0x86:
		return KeyRSAModulusP1, true
	case 0x87:
		return KeyRSAModulusP2, true
	case 0x88:
		return KeyRSAExpPublic, true
	default:
		return 0, false
	}
}

// activateApplet implements ACTIVATE APPLET (INS=0x44, SPEC_FULL.md §4.10):
// transitions lifecycle from initialization to user state. No data field,
// no P1/P2 constraints beyond what the file system enforces.
func activateApplet(fs FileSystem) StatusWord {
	if err := fs.ActivateApplet(); err != nil {
		return err.SW
	}
	return SWOK
}
