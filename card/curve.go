package card

import (
	"crypto/elliptic"
	"math/big"
)

// Curve parameter constants. spec.md §1 explicitly lists "constant tables
// (curve parameters, OID prefixes)" among the arithmetic-kernel
// collaborators whose correctness is assumed; crypto/elliptic supplies
// P-256/P-384/P-521 directly. P-192 and secp256k1 have no stdlib or
// pack-provided implementation, so they are declared here as literal
// elliptic.CurveParams tables (the well-known NIST/SECG constants) —
// see DESIGN.md for the stdlib/constant-table justification.

var curveP192 = &elliptic.CurveParams{
	P:       bigFromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFF"),
	N:       bigFromHex("FFFFFFFFFFFFFFFFFFFFFFFF99DEF836146BC9B1B4D22831"),
	B:       bigFromHex("64210519E59C80E70FA7E9AB72243049FEB8DEECC146B9B1"),
	Gx:      bigFromHex("188DA80EB03090F67CBF20EB43A18800F4FF0AFD82FF1012"),
	Gy:      bigFromHex("07192B95FFC8DA78631011ED6B24CDD573F977A11E794811"),
	BitSize: 192,
	Name:    "P-192",
}

var curveSecp256k1 = &elliptic.CurveParams{
	P:       bigFromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F"),
	N:       bigFromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"),
	B:       big.NewInt(7),
	Gx:      bigFromHex("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"),
	Gy:      bigFromHex("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8"),
	BitSize: 256,
	Name:    "secp256k1",
}

func bigFromHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid curve constant: " + s)
	}
	return v
}

// curveA reports whether the curve's `a` coefficient is 0 or -3 (mod p);
// both crypto/elliptic's NIST curves and secp256k1 share the two special
// cases the original's curve-tag encoding distinguishes (a=0 for
// secp256k1, a=-3 for every NIST curve including P-192). GET DATA's
// coefficient-a response (data.go's getECCParam, P2=0x82) branches on it;
// the EC kernel uses the generic elliptic.Curve interface for all
// arithmetic and does not.
func curveA(name string) string {
	if name == "secp256k1" {
		return "a=0"
	}
	return "a=-3"
}

// CurveParam is the working structure prepare_ec_param materializes:
// curve group, scalar size in bytes, the bound private scalar, and the
// special-a hint.
type CurveParam struct {
	Curve      elliptic.Curve
	ScalarSize int // bytes; one of 24, 32, 48, 66
	Private    BigNum
	ATag       string
}

// selectCurve picks the curve group for a given file type / scalar size,
// per §4.5: secp256k1 for file type 0x23, else by private-scalar length.
func selectCurve(fileType byte, scalarSize int) (elliptic.Curve, *StatusError) {
	if fileType == 0x23 {
		if scalarSize != 32 {
			return nil, errf(SWConditionsNotSat, "secp256k1 requires a 32-byte scalar, got %d", scalarSize)
		}
		return curveSecp256k1, nil
	}
	switch scalarSize {
	case 24:
		return curveP192, nil
	case 32:
		return elliptic.P256(), nil
	case 48:
		return elliptic.P384(), nil
	case 66:
		return elliptic.P521(), nil
	default:
		return nil, errf(SWConditionsNotSat, "unsupported EC scalar size %d", scalarSize)
	}
}

// prepareECParam binds curve parameters and the private scalar from the
// currently selected EC key file (§4.5).
func prepareECParam(fs FileSystem, fileID uint16) (*CurveParam, *StatusError) {
	fileType, err := fs.FileType(fileID)
	if err != nil {
		return nil, err
	}
	privBytes, err := fs.ReadKeyPart(fileID, KeyECPrivate)
	if err != nil {
		return nil, err
	}
	scalarSize := len(privBytes)
	curve, serr := selectCurve(fileType, scalarSize)
	if serr != nil {
		return nil, serr
	}
	return &CurveParam{
		Curve:      curve,
		ScalarSize: scalarSize,
		Private:    FromBEBytesSized(privBytes, scalarSize),
		ATag:       curveA(curve.Params().Name),
	}, nil
}

// scalarSizeForFileSize maps an EC key file's declared bit size to a
// scalar byte width, per the {192,256,384,521} taxonomy of §3.
func scalarSizeForFileSize(fileType byte, sizeBits int) (int, *StatusError) {
	if fileType == 0x23 {
		if sizeBits != 256 {
			return 0, errf(SWIncorrectFileType, "secp256k1 file must declare size 256, got %d", sizeBits)
		}
		return 32, nil
	}
	switch sizeBits {
	case 192:
		return 24, nil
	case 256:
		return 32, nil
	case 384:
		return 48, nil
	case 521:
		return 66, nil
	default:
		return 0, errf(SWIncorrectFileType, "unsupported EC key size %d", sizeBits)
	}
}
