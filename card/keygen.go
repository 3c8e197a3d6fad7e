package card

import "math/big"

// validateRSAExponentBody checks the DER sequence MyEID clients send (or
// omit) to confirm the fixed public exponent, per §4.8: `30 05 02/81 03 01 00 01`.
// The tag byte at offset 2 varies between 0x02 (correct INTEGER tag) and
// 0x81 (an opensc workaround the original source explicitly tolerates).
func validateRSAExponentBody(body []byte) *StatusError {
	if len(body) == 0 {
		return nil
	}
	if len(body) != 7 {
		return errf(SWInvalidData, "rsa key-generation body must be 7 bytes, got %d", len(body))
	}
	if body[0] != 0x30 || body[1] != 0x05 {
		return errf(SWInvalidData, "expected DER sequence header 30 05")
	}
	if body[2] != 0x81 && body[2] != 0x02 {
		return errf(SWInvalidData, "unexpected exponent tag %#02x", body[2])
	}
	if body[3] != 0x03 || body[4] != 0x01 || body[5] != 0x00 || body[6] != 0x01 {
		return errf(SWInvalidData, "body does not encode public exponent 65537")
	}
	return nil
}

// isValidRSAKeySize enforces the {512..2048, step 64} taxonomy of §3.
func isValidRSAKeySize(bits int) bool {
	return bits >= 512 && bits <= 2048 && bits%64 == 0
}

// generateRSAKey implements the RSA half of GENERATE KEY (§4.8): validates
// the optional exponent body, generates a CRT key pair at the file's
// declared size, and persists p, q, dP, dQ, qInv, modulus (split across
// two part-files for 2048-bit), and the fixed public exponent.
func generateRSAKey(fs FileSystem, fileID uint16, body []byte, progress func()) (StatusWord, []byte) {
	if err := validateRSAExponentBody(body); err != nil {
		return err.SW, nil
	}
	bits, err := fs.FileSizeBits(fileID)
	if err != nil {
		return err.SW, nil
	}
	if !isValidRSAKeySize(bits) {
		return SWIncorrectFileType, nil
	}
	if progress != nil {
		progress()
	}

	key, kerr := rsaGenerate(bits)
	if kerr != nil {
		return kerr.SW, nil
	}
	key.Precompute()

	primeSize := bits / 8 / 2
	p := FromInt(key.Primes[0], primeSize).ToBEBytes()
	q := FromInt(key.Primes[1], primeSize).ToBEBytes()
	dP := FromInt(key.Precomputed.Dp, primeSize).ToBEBytes()
	dQ := FromInt(key.Precomputed.Dq, primeSize).ToBEBytes()
	qInv := FromInt(key.Precomputed.Qinv, primeSize).ToBEBytes()
	modulus := FromInt(key.N, bits/8).ToBEBytes()

	parts := []struct {
		id   byte
		data []byte
	}{
		{KeyRSAPrimeP, p},
		{KeyRSAPrimeQ, q},
		{KeyRSADP, dP},
		{KeyRSADQ, dQ},
		{KeyRSAQInv, qInv},
	}
	for _, part := range parts {
		if werr := fs.WriteKeyPart(fileID, part.id, part.data); werr != nil {
			return werr.SW, nil
		}
	}

	if bits == 2048 {
		if werr := fs.WriteKeyPart(fileID, KeyRSAModulusP1, modulus[:128]); werr != nil {
			return werr.SW, nil
		}
		if werr := fs.WriteKeyPart(fileID, KeyRSAModulusP2, modulus[128:]); werr != nil {
			return werr.SW, nil
		}
	} else {
		if werr := fs.WriteKeyPart(fileID, KeyRSAModulus, modulus); werr != nil {
			return werr.SW, nil
		}
	}

	exp := []byte{0x01, 0x00, 0x01}
	if werr := fs.WriteKeyPart(fileID, KeyRSAExpPublic, exp); werr != nil {
		return werr.SW, nil
	}

	return SWOK, modulus
}

// generateECKey implements the EC half of GENERATE KEY (§4.8): no input
// body permitted, curve chosen by (file type, file size), persists the
// private scalar and uncompressed public point, and returns the public
// point TLV tagged 0x86.
func generateECKey(fs FileSystem, fileID uint16, body []byte, progress func()) (StatusWord, []byte) {
	if len(body) != 0 {
		return SWConditionsNotSat, nil
	}
	fileType, err := fs.FileType(fileID)
	if err != nil {
		return err.SW, nil
	}
	bits, err := fs.FileSizeBits(fileID)
	if err != nil {
		return err.SW, nil
	}
	scalarSize, serr := scalarSizeForFileSize(fileType, bits)
	if serr != nil {
		return serr.SW, nil
	}
	curve, cerr := selectCurve(fileType, scalarSize)
	if cerr != nil {
		return cerr.SW, nil
	}
	if progress != nil {
		progress()
	}

	d, x, y, kerr := ecdsaGenerate(curve)
	if kerr != nil {
		return kerr.SW, nil
	}

	privBytes := FromInt(d, scalarSize).ToBEBytes()
	if werr := fs.WriteKeyPart(fileID, KeyECPrivate, privBytes); werr != nil {
		return werr.SW, nil
	}

	point := encodeUncompressedPoint(x, y, scalarSize)
	if werr := fs.WriteKeyPart(fileID, KeyECPublic, point); werr != nil {
		return werr.SW, nil
	}

	resp := newTLV(0x86).appendBytes(point)
	return SWOK, resp.bytes()
}

// encodeUncompressedPoint renders `04 || X || Y`, each coordinate
// left-padded to scalarSize bytes, per §6.
func encodeUncompressedPoint(x, y *big.Int, scalarSize int) []byte {
	out := make([]byte, 0, 1+2*scalarSize)
	out = append(out, 0x04)
	out = append(out, FromInt(x, scalarSize).ToBEBytes()...)
	out = append(out, FromInt(y, scalarSize).ToBEBytes()...)
	return out
}

// generateKey routes GENERATE KEY (INS=0x46, §4.8) to the RSA or EC path
// by the currently selected file's type. P1=P2=0x00 is required.
func generateKey(fs FileSystem, a APDU, selectedFile uint16, progress func()) (StatusWord, []byte) {
	if a.P1 != 0x00 || a.P2 != 0x00 {
		return SWIncorrectP1P2, nil
	}
	fileType, err := fs.FileType(selectedFile)
	if err != nil {
		return err.SW, nil
	}
	if fileType == FileTypeRSA {
		return generateRSAKey(fs, selectedFile, a.Data, progress)
	}
	return generateECKey(fs, selectedFile, a.Data, progress)
}
