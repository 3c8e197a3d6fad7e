// Package keystore implements card.FileSystem: an in-memory file/key-part/
// PIN store for the emulator, with optional gob-based persistence so a
// provisioned card survives a process restart.
//
// The teacher ships no file-system layer of its own; this package follows
// its habit of splitting one concern per small file (scard/scard.go vs
// data_object.go vs scard_unix.go) rather than any single teacher file.
package keystore

import (
	"sync"

	"github.com/oseidemu/myeid/card"
)

// KeyPart is one named slice of key material or auxiliary data attached to
// a File, keyed by the card package's part-id byte constants.
type KeyPart []byte

// File is one selectable key/data file: its declared type, declared size,
// access-condition word, and key-part storage.
type File struct {
	Type     byte
	SizeBits int
	ACL      uint16
	Parts    map[byte]KeyPart
}

// PIN is a stored PIN verifier: a PBKDF2-HMAC-SHA-256 hash plus the salt
// and try counter, never the PIN itself. See pin.go.
type PIN struct {
	Hash       []byte
	Salt       []byte
	Iterations int
	TriesLeft  int
	TriesMax   int
}

// Lifecycle mirrors the applet lifecycle SPEC_FULL.md §4.10 describes:
// a fresh card starts Uninitialized, PUT DATA 0xE0 moves it to
// Initializing, and ACTIVATE APPLET moves it to Active.
type Lifecycle byte

const (
	LifecycleUninitialized Lifecycle = iota
	LifecycleInitializing
	LifecycleActive
)

// Store is the in-memory card.FileSystem implementation. One Store backs
// one emulated card; concurrent access is guarded by mu since transport
// may serve a connection on its own goroutine.
type Store struct {
	mu sync.Mutex

	selected  uint16
	files     map[uint16]*File
	pins      map[byte]*PIN
	lifecycle Lifecycle
}

// New constructs an empty Store with no files and no PINs provisioned;
// callers typically follow with config.Apply (config/config.go) before
// serving traffic.
func New() *Store {
	return &Store{
		files: make(map[uint16]*File),
		pins:  make(map[byte]*PIN),
	}
}

// AddFile registers a file definition under fileID, replacing any existing
// definition. Used by provisioning (config package) and tests.
func (s *Store) AddFile(fileID uint16, f *File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Parts == nil {
		f.Parts = make(map[byte]KeyPart)
	}
	s.files[fileID] = f
}

// Select sets the currently selected file id, mirroring the SELECT FILE
// command spec.md places out of scope but whose post-condition (a current
// file id) every other operation depends on.
func (s *Store) Select(fileID uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = fileID
}

func (s *Store) SelectedFile() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Store) file(fileID uint16) (*File, *card.StatusError) {
	f, ok := s.files[fileID]
	if !ok {
		return nil, &card.StatusError{SW: card.SWFileNotFound, Msg: "file not provisioned"}
	}
	return f, nil
}

func (s *Store) FileType(fileID uint16) (byte, *card.StatusError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(fileID)
	if err != nil {
		return 0, err
	}
	return f.Type, nil
}

func (s *Store) FileSizeBits(fileID uint16) (int, *card.StatusError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(fileID)
	if err != nil {
		return 0, err
	}
	return f.SizeBits, nil
}

func (s *Store) AccessCondition(fileID uint16) (uint16, *card.StatusError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(fileID)
	if err != nil {
		return 0, err
	}
	return f.ACL, nil
}

func (s *Store) ReadKeyPart(fileID uint16, partID byte) ([]byte, *card.StatusError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(fileID)
	if err != nil {
		return nil, err
	}
	part, ok := f.Parts[partID]
	if !ok {
		return nil, &card.StatusError{SW: card.SWReferencedDataNotFnd, Msg: "key part not provisioned"}
	}
	return []byte(part), nil
}

func (s *Store) WriteKeyPart(fileID uint16, partID byte, data []byte) *card.StatusError {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(fileID)
	if err != nil {
		return err
	}
	cp := make(KeyPart, len(data))
	copy(cp, data)
	f.Parts[partID] = cp
	return nil
}
