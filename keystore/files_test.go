package keystore

import (
	"encoding/binary"
	"testing"

	"github.com/oseidemu/myeid/card"
)

func TestListFilesAllSortedAscending(t *testing.T) {
	s := New()
	s.AddFile(0x20, &File{Type: card.FileTypeECNIST})
	s.AddFile(0x10, &File{Type: card.FileTypeRSA})
	s.AddFile(0x15, &File{Type: card.FileTypeDES})

	data, err := s.ListFiles(0xA1)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(data) != 6 {
		t.Fatalf("len(data) = %d, want 6", len(data))
	}
	want := []uint16{0x10, 0x15, 0x20}
	for i, w := range want {
		got := binary.BigEndian.Uint16(data[i*2 : i*2+2])
		if got != w {
			t.Fatalf("entry %d = %#04x, want %#04x", i, got, w)
		}
	}
}

func TestListFilesScopedByType(t *testing.T) {
	s := New()
	s.AddFile(0x10, &File{Type: card.FileTypeRSA})
	s.AddFile(0x20, &File{Type: card.FileTypeECNIST})
	s.AddFile(0x30, &File{Type: card.FileTypeAES})

	data, err := s.ListFiles(0xA2)
	if err != nil {
		t.Fatalf("ListFiles(0xA2): %v", err)
	}
	if len(data) != 2 || binary.BigEndian.Uint16(data) != 0x10 {
		t.Fatalf("RSA-scoped listing = %x, want just file 0x0010", data)
	}

	data, err = s.ListFiles(0xA4)
	if err != nil {
		t.Fatalf("ListFiles(0xA4): %v", err)
	}
	if len(data) != 2 || binary.BigEndian.Uint16(data) != 0x30 {
		t.Fatalf("symmetric-scoped listing = %x, want just file 0x0030", data)
	}
}

func TestListFilesPublicAndPrivateScope(t *testing.T) {
	s := New()
	s.AddFile(0x10, &File{Type: card.FileTypeRSA, Parts: map[byte]KeyPart{
		card.KeyRSAExpPublic: {0x01, 0x00, 0x01},
		card.KeyRSAPrimeP:    {0x01},
	}})

	pub, err := s.ListFiles(0xA5)
	if err != nil {
		t.Fatalf("ListFiles(0xA5): %v", err)
	}
	if len(pub) != 2 {
		t.Fatalf("public listing = %x, want file 0x0010 present", pub)
	}

	priv, err := s.ListFiles(0xA6)
	if err != nil {
		t.Fatalf("ListFiles(0xA6): %v", err)
	}
	if len(priv) != 2 {
		t.Fatalf("private listing = %x, want file 0x0010 present", priv)
	}
}

func TestListFilesEmptyScope(t *testing.T) {
	s := New()
	s.AddFile(0x10, &File{Type: card.FileTypeRSA})
	data, err := s.ListFiles(0xA3) // EC scope, no EC files provisioned
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("len(data) = %d, want 0", len(data))
	}
}
