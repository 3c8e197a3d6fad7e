package keystore

import (
	"bytes"
	"testing"

	"github.com/oseidemu/myeid/card"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New()
	s.AddFile(0x10, &File{Type: card.FileTypeRSA, SizeBits: 1024, ACL: 0x1234})
	s.WriteKeyPart(0x10, card.KeyRSAPrimeP, []byte{0x01, 0x02, 0x03})
	s.InitializePIN(0x01, []byte("1234"))
	s.Select(0x10)
	s.InitializeApplet(nil)
	s.AddFile(0x10, &File{Type: card.FileTypeRSA, SizeBits: 1024, ACL: 0x1234})
	s.WriteKeyPart(0x10, card.KeyRSAPrimeP, []byte{0x01, 0x02, 0x03})

	var buf bytes.Buffer
	if err := s.SaveTo(&buf); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := New()
	if err := loaded.LoadFrom(&buf); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	got, err := loaded.ReadKeyPart(0x10, card.KeyRSAPrimeP)
	if err != nil {
		t.Fatalf("ReadKeyPart after reload: %v", err)
	}
	if string(got) != "\x01\x02\x03" {
		t.Fatalf("got %x, want 010203", got)
	}
	if loaded.lifecycle != LifecycleInitializing {
		t.Fatalf("lifecycle = %v, want LifecycleInitializing", loaded.lifecycle)
	}
	if loaded.SelectedFile() != 0x10 {
		t.Fatalf("selected file = %#04x, want 0x0010", loaded.SelectedFile())
	}
}

func TestInitializeAppletClearsStateAndSetsLifecycle(t *testing.T) {
	s := New()
	s.AddFile(0x10, &File{Type: card.FileTypeRSA})
	s.InitializePIN(0x01, []byte("1234"))

	if err := s.InitializeApplet(nil); err != nil {
		t.Fatalf("InitializeApplet: %v", err)
	}
	if _, err := s.FileType(0x10); err == nil {
		t.Fatalf("file 0x10 should have been cleared")
	}
	if _, tries := s.Verify(0x01, []byte("1234")); tries != 0 {
		t.Fatalf("PIN should have been cleared")
	}
	if s.lifecycle != LifecycleInitializing {
		t.Fatalf("lifecycle = %v, want LifecycleInitializing", s.lifecycle)
	}
}

func TestActivateAppletRequiresInitializingState(t *testing.T) {
	s := New()
	if err := s.ActivateApplet(); err == nil {
		t.Fatal("ActivateApplet should fail from Uninitialized state")
	}

	s.InitializeApplet(nil)
	if err := s.ActivateApplet(); err != nil {
		t.Fatalf("ActivateApplet from Initializing: %v", err)
	}
	if s.lifecycle != LifecycleActive {
		t.Fatalf("lifecycle = %v, want LifecycleActive", s.lifecycle)
	}

	if err := s.ActivateApplet(); err == nil {
		t.Fatal("ActivateApplet should fail when already Active")
	}
}
