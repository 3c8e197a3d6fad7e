package card

import "math/big"

// BigNum encapsulates the endian flip spec.md §9 asks to isolate in one
// abstraction: the wire and storage representation is always big-endian,
// arithmetic kernels (math/big, crypto/elliptic) are endian-agnostic on
// *big.Int, so in practice "the flip" collapses to a single
// left-pad/trim at the boundary. No other file in this package performs
// a manual byte reversal; everything routes through here.
type BigNum struct {
	size int // wire width in bytes (modulus size, curve scalar size, ...)
	v    *big.Int
}

// FromBEBytes builds a BigNum from a big-endian byte string, recording the
// width it was read at for symmetric round-tripping.
func FromBEBytes(b []byte) BigNum {
	return BigNum{size: len(b), v: new(big.Int).SetBytes(b)}
}

// FromBEBytesSized is like FromBEBytes but pins the wire width
// independently of the value's natural byte length (needed when zero
// bytes must be preserved, e.g. a left-padded EC coordinate).
func FromBEBytesSized(b []byte, size int) BigNum {
	return BigNum{size: size, v: new(big.Int).SetBytes(b)}
}

// FromInt wraps an existing *big.Int, fixing the output width.
func FromInt(v *big.Int, size int) BigNum {
	return BigNum{size: size, v: v}
}

// Int exposes the underlying value for kernel consumption.
func (b BigNum) Int() *big.Int { return b.v }

// Size is the fixed wire width in bytes.
func (b BigNum) Size() int { return b.size }

// ToBEBytes renders the value as a big-endian byte string, left-padded (or
// truncated from the left, which should never legitimately happen) to the
// fixed width.
func (b BigNum) ToBEBytes() []byte {
	out := make([]byte, b.size)
	raw := b.v.Bytes()
	if len(raw) > b.size {
		raw = raw[len(raw)-b.size:]
	}
	copy(out[b.size-len(raw):], raw)
	return out
}
