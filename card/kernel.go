package card

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"math/big"
)

// The arithmetic kernels spec.md §1 explicitly places out of scope and
// assumes correct: RSA CRT modular exponentiation and EC scalar
// multiplication/signing. Built directly on math/big and the stdlib
// crypto/elliptic + crypto/ecdsa + crypto/rsa trio — see DESIGN.md for why
// this is the one place this module reaches for the standard library
// instead of a third-party package: no pack example ships a distinct
// bignum or generic-curve library, and fido-device-onboard-go-fdo's own
// ECDH (kex/ecdh.go) builds on the same stdlib trio.

// rsaCRT computes c^d mod n via the CRT decomposition (p, q, dP, dQ, qInv),
// the classical two-exponentiation-plus-recombination form every RSA smart
// card uses to avoid ever materializing the full private exponent.
func rsaCRT(c, p, q, dP, dQ, qInv *big.Int) *big.Int {
	m1 := new(big.Int).Exp(new(big.Int).Mod(c, p), dP, p)
	m2 := new(big.Int).Exp(new(big.Int).Mod(c, q), dQ, q)
	h := new(big.Int).Sub(m1, m2)
	h.Mod(h, p)
	h.Mul(h, qInv)
	h.Mod(h, p)
	m := new(big.Int).Mul(h, q)
	m.Add(m, m2)
	return m
}

// rsaGenerate produces a fresh RSA key pair with the fixed public exponent
// 65537 spec.md §4.8 requires. crypto/rsa.GenerateKey always uses E=65537,
// so no exponent handling is needed beyond verifying the result.
func rsaGenerate(bits int) (*rsa.PrivateKey, *StatusError) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, errf(SWConditionsNotSat, "rsa key generation failed: %v", err)
	}
	key.Precompute()
	if key.PublicKey.E != 65537 {
		return nil, errf(SWConditionsNotSat, "unexpected public exponent %d", key.PublicKey.E)
	}
	return key, nil
}

// ecdsaSignRaw invokes the ECDSA kernel, returning (r, s) as *big.Int. DER
// encoding is ecop.go's job, not the kernel's.
func ecdsaSignRaw(curve elliptic.Curve, priv *big.Int, hash []byte) (r, s *big.Int, serr *StatusError) {
	x, y := curve.Params().ScalarBaseMult(priv.Bytes())
	key := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         priv,
	}
	r, s, err := ecdsa.Sign(rand.Reader, key, hash)
	if err != nil {
		return nil, nil, errf(SWConditionsNotSat, "ecdsa sign failed: %v", err)
	}
	return r, s, nil
}

// ecdsaGenerate produces a fresh EC key pair on curve.
func ecdsaGenerate(curve elliptic.Curve) (priv *big.Int, x, y *big.Int, serr *StatusError) {
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, nil, nil, errf(SWConditionsNotSat, "ec key generation failed: %v", err)
	}
	return key.D, key.X, key.Y, nil
}

// ecdhDerive computes d*(X,Y) on curve and returns the resulting point.
// Used both by ecdh.go (X-coordinate-only ECDH) and, in principle, any
// future point-validation path (ECDH discards Y, per spec.md §4.6).
func ecdhDerive(curve elliptic.Curve, priv *big.Int, x, y *big.Int) (rx, ry *big.Int) {
	return curve.ScalarMult(x, y, priv.Bytes())
}
