package card

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"math/big"
	"testing"
)

func TestProcessorEndToEndRSASign(t *testing.T) {
	fs := newFakeFS()
	const fileID = 0x10
	fs.selected = fileID
	pub := installRSAKey(t, fs, fileID, 1024)

	p := NewProcessor(fs)

	mseData := crdo(tlvBytes(0x80, 0x00), tlvBytes(0x81, byte(fileID>>8), byte(fileID)))
	resp := p.Handle(APDU{Ins: InsManageSecurityEnv, P1: 0x41, P2: 0xB6, Data: mseData})
	if resp.SW != SWOK {
		t.Fatalf("MSE: SW = %#04x, want SWOK", uint16(resp.SW))
	}

	msg := make([]byte, 128)
	msg[127] = 0x2A
	resp = p.Handle(APDU{Ins: InsPerformSecurityOp, P1: 0x9E, P2: 0x9A, Data: msg})
	if resp.SW != SWOK {
		t.Fatalf("PSO: SW = %#04x, want SWOK", uint16(resp.SW))
	}

	sig := new(big.Int).SetBytes(resp.Data)
	verified := new(big.Int).Exp(sig, big.NewInt(int64(pub.E)), pub.N)
	if verified.Cmp(new(big.Int).SetBytes(msg)) != 0 {
		t.Fatalf("signature did not verify")
	}
}

func TestProcessorPSOWithoutMSEFails(t *testing.T) {
	fs := newFakeFS()
	const fileID = 0x10
	fs.selected = fileID
	installRSAKey(t, fs, fileID, 1024)

	p := NewProcessor(fs)
	resp := p.Handle(APDU{Ins: InsPerformSecurityOp, P1: 0x9E, P2: 0x9A, Data: make([]byte, 128)})
	if resp.SW != SWConditionsNotSat {
		t.Fatalf("SW = %#04x, want SWConditionsNotSat", uint16(resp.SW))
	}
}

func TestProcessorGeneralAuthenticateECDH(t *testing.T) {
	fs := newFakeFS()
	const fileID = 0x20
	fs.selected = fileID
	fs.types[fileID] = FileTypeECNIST

	ourKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating card key: %v", err)
	}
	fs.WriteKeyPart(fileID, KeyECPrivate, FromInt(ourKey.D, 32).ToBEBytes())

	peerKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating peer key: %v", err)
	}

	p := NewProcessor(fs)
	mseData := crdo(tlvBytes(0x80, 0x04), tlvBytes(0x81, byte(fileID>>8), byte(fileID)))
	resp := p.Handle(APDU{Ins: InsManageSecurityEnv, P1: 0x41, P2: 0xA4, Data: mseData})
	if resp.SW != SWOK {
		t.Fatalf("MSE: SW = %#04x, want SWOK", uint16(resp.SW))
	}

	peerPoint := newTLV(0x85).appendBytes(encodeUncompressedPoint(peerKey.X, peerKey.Y, 32))
	template := newTLV(0x7C).appendChild(peerPoint)
	resp = p.Handle(APDU{Ins: InsGeneralAuthenticate, Data: template.bytes()})
	if resp.SW != SWOK {
		t.Fatalf("GENERAL AUTHENTICATE: SW = %#04x, want SWOK", uint16(resp.SW))
	}

	wantX, _ := elliptic.P256().ScalarMult(peerKey.X, peerKey.Y, ourKey.D.Bytes())
	want := FromInt(wantX, 32).ToBEBytes()
	if string(resp.Data) != string(want) {
		t.Fatalf("derived X = %x, want %x (response must be raw X bytes, not TLV-wrapped)", resp.Data, want)
	}
}

func TestProcessorUnknownInstruction(t *testing.T) {
	fs := newFakeFS()
	p := NewProcessor(fs)
	resp := p.Handle(APDU{Ins: 0xFF})
	if resp.SW != SWFunctionNotSupported {
		t.Fatalf("SW = %#04x, want SWFunctionNotSupported", uint16(resp.SW))
	}
}

func TestProcessorProgressHookInvokedDuringKeyGeneration(t *testing.T) {
	fs := newFakeFS()
	const fileID = 0x10
	fs.types[fileID] = FileTypeRSA
	fs.sizes[fileID] = 512
	fs.selected = fileID

	p := NewProcessor(fs)
	var calls int
	p.Progress = func() { calls++ }

	resp := p.Handle(APDU{Ins: InsGenerateKey})
	if resp.SW != SWOK {
		t.Fatalf("SW = %#04x, want SWOK", uint16(resp.SW))
	}
	if calls == 0 {
		t.Fatalf("Progress hook was never invoked during key generation")
	}
}
