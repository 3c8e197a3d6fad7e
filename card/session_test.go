package card

import "testing"

func crdo(entries ...[]byte) []byte {
	var out []byte
	for _, e := range entries {
		out = append(out, e...)
	}
	return out
}

func tlvBytes(tag byte, value ...byte) []byte {
	return append([]byte{tag, byte(len(value))}, value...)
}

func TestManageSecurityEnvironmentSign(t *testing.T) {
	var env SecurityEnvironment
	a := APDU{
		Ins: InsManageSecurityEnv,
		P1:  0x41,
		P2:  0xB6,
		Data: crdo(
			tlvBytes(0x80, 0x02),
			tlvBytes(0x81, 0x00, 0x10),
		),
	}
	sw := manageSecurityEnvironment(&env, a)
	if sw != SWOK {
		t.Fatalf("SW = %#04x, want SWOK", uint16(sw))
	}
	if !env.Valid || env.Operation != OpSign || env.SignAlgo != 0x02 || env.KeyFileID != 0x0010 {
		t.Fatalf("env = %+v, want valid sign env for key file 0x0010", env)
	}
}

func TestManageSecurityEnvironmentRestoreRequiresEmptyBody(t *testing.T) {
	var env SecurityEnvironment
	sw := manageSecurityEnvironment(&env, APDU{Ins: InsManageSecurityEnv, P1: 0xF3, Data: []byte{0x01}})
	if sw != SWLcLeInconsistent {
		t.Fatalf("SW = %#04x, want SWLcLeInconsistent", uint16(sw))
	}
}

func TestManageSecurityEnvironmentRestoreOK(t *testing.T) {
	env := SecurityEnvironment{Valid: true, Operation: OpSign}
	sw := manageSecurityEnvironment(&env, APDU{Ins: InsManageSecurityEnv, P1: 0xF3})
	if sw != SWOK {
		t.Fatalf("SW = %#04x, want SWOK", uint16(sw))
	}
	if env.Valid {
		t.Fatalf("env should be invalidated by RESTORE, got %+v", env)
	}
}

func TestManageSecurityEnvironmentECDHAliasP1(t *testing.T) {
	var env SecurityEnvironment
	a := APDU{
		Ins: InsManageSecurityEnv,
		P1:  0xA4, // alias: some clients send P1=0xA4 meaning P1=0x41/P2=0xA4
		Data: crdo(
			tlvBytes(0x80, 0x04),
			tlvBytes(0x81, 0x00, 0x20),
		),
	}
	sw := manageSecurityEnvironment(&env, a)
	if sw != SWOK {
		t.Fatalf("SW = %#04x, want SWOK", uint16(sw))
	}
	if env.Operation != OpECDH {
		t.Fatalf("Operation = %v, want OpECDH", env.Operation)
	}
}

func TestManageSecurityEnvironmentRejectsNonZeroKeyReference(t *testing.T) {
	var env SecurityEnvironment
	a := APDU{
		Ins: InsManageSecurityEnv,
		P1:  0x41,
		P2:  0xB6,
		Data: crdo(
			tlvBytes(0x80, 0x02),
			tlvBytes(0x81, 0x00, 0x10),
			tlvBytes(0x83, 0x01), // non-zero key reference: not tolerated
		),
	}
	sw := manageSecurityEnvironment(&env, a)
	if sw != SWFunctionNotSupported {
		t.Fatalf("SW = %#04x, want SWFunctionNotSupported", uint16(sw))
	}
	if env.Valid {
		t.Fatalf("env should remain invalid after rejected MSE, got %+v", env)
	}
}

func TestManageSecurityEnvironmentMissingRequiredTags(t *testing.T) {
	var env SecurityEnvironment
	a := APDU{Ins: InsManageSecurityEnv, P1: 0x41, P2: 0xB6, Data: crdo(tlvBytes(0x80, 0x02))}
	sw := manageSecurityEnvironment(&env, a)
	if sw != SWFunctionNotSupported {
		t.Fatalf("SW = %#04x, want SWFunctionNotSupported", uint16(sw))
	}
}

func TestManageSecurityEnvironmentUnknownP2(t *testing.T) {
	var env SecurityEnvironment
	a := APDU{
		Ins:  InsManageSecurityEnv,
		P1:   0x41,
		P2:   0xFF,
		Data: crdo(tlvBytes(0x80, 0x02), tlvBytes(0x81, 0x00, 0x10)),
	}
	sw := manageSecurityEnvironment(&env, a)
	if sw != SWFunctionNotSupported {
		t.Fatalf("SW = %#04x, want SWFunctionNotSupported", uint16(sw))
	}
}

func TestManageSecurityEnvironmentAlwaysInvalidatesFirst(t *testing.T) {
	env := SecurityEnvironment{Valid: true, Operation: OpDecrypt, KeyFileID: 0x0099}
	a := APDU{Ins: InsManageSecurityEnv, P1: 0xFF} // invalid P1: must fail
	sw := manageSecurityEnvironment(&env, a)
	if sw != SWFunctionNotSupported {
		t.Fatalf("SW = %#04x, want SWFunctionNotSupported", uint16(sw))
	}
	if env.Valid {
		t.Fatalf("env should have been invalidated even on failure, got %+v", env)
	}
}
