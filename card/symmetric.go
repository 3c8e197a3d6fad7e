package card

import (
	"crypto/aes"
	"crypto/des"
)

// Symmetric cipher path (§4.7): selects DES or AES by key-file type,
// enforces block size, runs exactly one block. crypto/des and crypto/aes
// are the block-cipher "arithmetic kernels" spec.md §1 places out of
// scope and assumes correct; no pack example ships an alternative.

// expandDES56to64 expands a 7-byte DES key to 8 bytes by distributing an
// odd-parity bit into the low bit of each output byte, recovered from
// original_source/myeid_emu.c's des_56to64 (SPEC_FULL.md §4.10) — spec.md
// §4.7 names the transform ("7 bytes, expanded to 8 by bit-distributing
// parity") without giving the bit layout.
func expandDES56to64(key7 []byte) []byte {
	out := make([]byte, 8)
	var carry byte
	for i := 0; i < 7; i++ {
		b := key7[i]
		out[i] = carry | (b >> uint(i))
		carry = (b << uint(7-i)) & 0xFF
	}
	out[7] = carry
	for i := range out {
		// Force odd parity in the low bit (DES key-parity convention).
		ones := 0
		for bit := 1; bit < 8; bit++ {
			if out[i]&(1<<uint(bit)) != 0 {
				ones++
			}
		}
		if ones%2 == 0 {
			out[i] |= 1
		} else {
			out[i] &^= 1
		}
	}
	return out
}

// thirdDESKey derives the third 8-byte sub-key for 2-key (16-byte) 3DES
// material: equal to the first sub-key, per §4.7 and confirmed in
// original_source/myeid_emu.c's keying path for a 16-byte key file.
func thirdDESKey(key16 []byte) []byte {
	third := make([]byte, 8)
	copy(third, key16[:8])
	return third
}

// symmetricKeyBytes normalizes the stored key-part bytes into the
// 8/16/24-byte form crypto/des.NewTripleDESCipher or crypto/des.NewCipher
// expects.
func symmetricKeyBytes(stored []byte) ([]byte, *StatusError) {
	switch len(stored) {
	case 7:
		return expandDES56to64(stored), nil
	case 8:
		return stored, nil
	case 16:
		return append(append([]byte{}, stored...), thirdDESKey(stored)...), nil
	case 24:
		return stored, nil
	default:
		return nil, errf(SWIncorrectFileType, "unsupported DES key length %d", len(stored))
	}
}

// runSymmetric performs one block operation (DES or AES, selected by the
// key file's declared type) on a single block of data. Only reachable
// when CLA=0x80, enforced by the caller (pso.go), per §4.7.
func runSymmetric(fileType byte, keyPart []byte, block []byte, decrypt bool) ([]byte, *StatusError) {
	switch fileType {
	case FileTypeDES:
		if len(block) != 8 {
			return nil, errf(SWWrongLength, "des block length %d != 8", len(block))
		}
		keyBytes, err := symmetricKeyBytes(keyPart)
		if err != nil {
			return nil, err
		}
		var blockCipher interface {
			Encrypt(dst, src []byte)
			Decrypt(dst, src []byte)
		}
		if len(keyBytes) == 8 {
			c, cerr := des.NewCipher(keyBytes)
			if cerr != nil {
				return nil, errf(SWConditionsNotSat, "des key setup failed: %v", cerr)
			}
			blockCipher = c
		} else {
			c, cerr := des.NewTripleDESCipher(keyBytes)
			if cerr != nil {
				return nil, errf(SWConditionsNotSat, "3des key setup failed: %v", cerr)
			}
			blockCipher = c
		}
		out := make([]byte, 8)
		if decrypt {
			blockCipher.Decrypt(out, block)
		} else {
			blockCipher.Encrypt(out, block)
		}
		return out, nil

	case FileTypeAES:
		if len(block) != 16 {
			return nil, errf(SWWrongLength, "aes block length %d != 16", len(block))
		}
		if l := len(keyPart); l != 16 && l != 24 && l != 32 {
			return nil, errf(SWIncorrectFileType, "unsupported AES key length %d", l)
		}
		blockCipher, cerr := aes.NewCipher(keyPart)
		if cerr != nil {
			return nil, errf(SWConditionsNotSat, "aes key setup failed: %v", cerr)
		}
		out := make([]byte, 16)
		if decrypt {
			blockCipher.Decrypt(out, block)
		} else {
			blockCipher.Encrypt(out, block)
		}
		return out, nil

	default:
		return nil, errf(SWIncorrectFileType, "key file type %#02x is not a symmetric key", fileType)
	}
}
