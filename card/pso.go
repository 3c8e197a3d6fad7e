package card

// PERFORM SECURITY OPERATION dispatcher (INS=0x2A, §4.2).
//
// progress, if non-nil, is invoked before any long arithmetic path — the
// cooperative keep-alive hook of §4.2/§9; Processor wires it from the
// transport.
func performSecurityOperation(fs FileSystem, env *SecurityEnvironment, rb *ResponseBuffer, a APDU, selectedFile uint16, progress func()) (StatusWord, []byte) {
	if !env.Valid || selectedFile != env.KeyFileID {
		return SWConditionsNotSat, nil
	}

	switch {
	case a.P1 == 0x9E && a.P2 == 0x9A:
		return performSign(fs, env, a, progress)
	case a.P1 == 0x80:
		return performDecrypt(fs, env, rb, a, progress)
	case a.P1 == 0x84:
		return performEncrypt(fs, env, a, progress)
	default:
		return SWIncorrectP1P2, nil
	}
}

func performSign(fs FileSystem, env *SecurityEnvironment, a APDU, progress func()) (StatusWord, []byte) {
	if env.Operation != OpSign {
		return SWConditionsNotSat, nil
	}
	if len(a.Data) == 0 {
		return SWWrongLength, nil
	}
	if progress != nil {
		progress()
	}

	if env.SignAlgo == 0x04 {
		if len(a.Data) < 1 {
			return SWInvalidData, nil
		}
		h := int(a.Data[0])
		if 1+h > len(a.Data) {
			return SWInvalidData, nil
		}
		hash := a.Data[1 : 1+h]
		sig, err := signECRaw(fs, env.KeyFileID, hash)
		if err != nil {
			return err.SW, nil
		}
		return SWOK, sig
	}

	var flag byte
	switch env.SignAlgo {
	case 0x00:
		flag = 0
	case 0x02:
		flag = 2
	case 0x12:
		flag = 1
	default:
		return SWConditionsNotSat, nil
	}
	result, err := rsaRaw(fs, env.KeyFileID, a.Data, flag)
	if err != nil {
		return err.SW, nil
	}
	return SWOK, result
}

func performEncrypt(fs FileSystem, env *SecurityEnvironment, a APDU, progress func()) (StatusWord, []byte) {
	if env.Operation != OpEncrypt {
		return SWConditionsNotSat, nil
	}
	if a.P2 != 0x80 {
		return SWInvalidData, nil
	}
	if len(a.Data) == 0 {
		return SWInvalidData, nil
	}
	if a.Cla != ClaExperimental {
		return SWFunctionNotSupported, nil
	}
	if progress != nil {
		progress()
	}
	return runSymmetricForSelectedFile(fs, env.KeyFileID, a.Data, false)
}

// performDecrypt implements decipher, per §4.3: P2=0x84 takes the data
// as-is, P2=0x86 reads a leading byte that selects single-shot or two-part
// ENVELOPE staging. Either way the assembled ciphertext goes to the
// symmetric path when the key file holds a DES/AES key, and to RSA
// otherwise; there is no EC decrypt.
func performDecrypt(fs FileSystem, env *SecurityEnvironment, rb *ResponseBuffer, a APDU, progress func()) (StatusWord, []byte) {
	if env.Operation != OpDecrypt {
		return SWConditionsNotSat, nil
	}
	if len(a.Data) == 0 {
		return SWInvalidData, nil
	}

	var ciphertext []byte
	switch a.P2 {
	case 0x84:
		ciphertext = a.Data

	case 0x86:
		if len(a.Data) == 0 {
			return SWInvalidData, nil
		}
		switch a.Data[0] {
		case 0x00:
			ciphertext = a.Data[1:]
		case 0x81:
			rb.Data = append([]byte{}, a.Data[1:]...)
			rb.Flag = RTmp
			return SWOK, nil
		case 0x82:
			if rb.Flag != RTmp {
				return SWInvalidData, nil
			}
			total := len(rb.Data) + len(a.Data[1:])
			if total > 256 {
				rb.zeroize()
				return SWInvalidData, nil
			}
			ciphertext = append(append([]byte{}, rb.Data...), a.Data[1:]...)
			rb.Flag = RNoData
		default:
			return SWInvalidData, nil
		}

	default:
		return SWIncorrectP1P2, nil
	}

	// A DES/AES key selected behind this file id takes the symmetric
	// path, restricted to the experimental CLA, per §4.7.
	if hasSymmetricKey(fs, env.KeyFileID) {
		if a.Cla != ClaExperimental {
			return SWFunctionNotSupported, nil
		}
		if progress != nil {
			progress()
		}
		return runSymmetricForSelectedFile(fs, env.KeyFileID, ciphertext, true)
	}

	if progress != nil {
		progress()
	}
	result, err := rsaRaw(fs, env.KeyFileID, ciphertext, 0)
	if err != nil {
		return err.SW, nil
	}
	if env.SignAlgo == 0x02 {
		payload, uerr := pkcs1Type2Unpad(result)
		if uerr != nil {
			return uerr.SW, nil
		}
		return SWOK, payload
	}
	return SWOK, result
}

func hasSymmetricKey(fs FileSystem, fileID uint16) bool {
	_, err := fs.ReadKeyPart(fileID, KeySymmetric)
	return err == nil
}

func runSymmetricForSelectedFile(fs FileSystem, fileID uint16, data []byte, decrypt bool) (StatusWord, []byte) {
	keyPart, err := fs.ReadKeyPart(fileID, KeySymmetric)
	if err != nil {
		return err.SW, nil
	}
	fileType, err := fs.FileType(fileID)
	if err != nil {
		return err.SW, nil
	}
	out, serr := runSymmetric(fileType, keyPart, data, decrypt)
	if serr != nil {
		return serr.SW, nil
	}
	return SWOK, out
}
