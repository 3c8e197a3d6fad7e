package keystore

import (
	"testing"

	"github.com/oseidemu/myeid/card"
)

func TestStoreReadWriteKeyPart(t *testing.T) {
	s := New()
	s.AddFile(0x10, &File{Type: card.FileTypeRSA, SizeBits: 1024})

	if err := s.WriteKeyPart(0x10, card.KeyRSAPrimeP, []byte{0x01, 0x02}); err != nil {
		t.Fatalf("WriteKeyPart: %v", err)
	}
	got, err := s.ReadKeyPart(0x10, card.KeyRSAPrimeP)
	if err != nil {
		t.Fatalf("ReadKeyPart: %v", err)
	}
	if string(got) != "\x01\x02" {
		t.Fatalf("got %x, want 0102", got)
	}
}

func TestStoreReadUnprovisionedFile(t *testing.T) {
	s := New()
	_, err := s.ReadKeyPart(0xFFFF, card.KeyRSAPrimeP)
	if err == nil || err.SW != card.SWFileNotFound {
		t.Fatalf("err = %v, want SWFileNotFound", err)
	}
}

func TestStoreReadUnprovisionedPart(t *testing.T) {
	s := New()
	s.AddFile(0x10, &File{Type: card.FileTypeRSA})
	_, err := s.ReadKeyPart(0x10, card.KeyRSAPrimeP)
	if err == nil || err.SW != card.SWReferencedDataNotFnd {
		t.Fatalf("err = %v, want SWReferencedDataNotFnd", err)
	}
}

func TestStoreWriteKeyPartCopiesData(t *testing.T) {
	s := New()
	s.AddFile(0x10, &File{})
	data := []byte{0x01, 0x02}
	s.WriteKeyPart(0x10, card.KeyRSAPrimeP, data)
	data[0] = 0xFF // mutate caller's slice after the call

	got, _ := s.ReadKeyPart(0x10, card.KeyRSAPrimeP)
	if got[0] != 0x01 {
		t.Fatalf("stored key part shares backing array with caller's slice, got %x", got)
	}
}

func TestStoreSelectAndSelectedFile(t *testing.T) {
	s := New()
	s.Select(0x42)
	if got := s.SelectedFile(); got != 0x42 {
		t.Fatalf("SelectedFile() = %#04x, want 0x0042", got)
	}
}

func TestStoreFileTypeSizeAccessCondition(t *testing.T) {
	s := New()
	s.AddFile(0x10, &File{Type: card.FileTypeECNIST, SizeBits: 256, ACL: 0x1122})

	typ, err := s.FileType(0x10)
	if err != nil || typ != card.FileTypeECNIST {
		t.Fatalf("FileType() = %#02x, %v; want FileTypeECNIST, nil", typ, err)
	}
	bits, err := s.FileSizeBits(0x10)
	if err != nil || bits != 256 {
		t.Fatalf("FileSizeBits() = %d, %v; want 256, nil", bits, err)
	}
	ac, err := s.AccessCondition(0x10)
	if err != nil || ac != 0x1122 {
		t.Fatalf("AccessCondition() = %#04x, %v; want 0x1122, nil", ac, err)
	}
}
