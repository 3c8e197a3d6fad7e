package keystore

import (
	"encoding/gob"
	"io"

	"github.com/oseidemu/myeid/card"
)

// Persistence uses encoding/gob (stdlib): no pack example ships a
// serialization library beyond yaml.v3, which SPEC_FULL.md reserves for
// human-authored config rather than binary key material — see DESIGN.md.

// snapshot is the gob-serializable mirror of Store's private fields; gob
// cannot encode unexported fields directly, so SaveTo/LoadFrom copy through
// this exported shape.
type snapshot struct {
	Selected  uint16
	Files     map[uint16]*File
	Pins      map[byte]*PIN
	Lifecycle Lifecycle
}

// SaveTo gob-encodes the full store state (files, key parts, PIN
// verifiers, lifecycle) to w, for process-restart persistence.
func (s *Store) SaveTo(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		Selected:  s.selected,
		Files:     s.files,
		Pins:      s.pins,
		Lifecycle: s.lifecycle,
	}
	return gob.NewEncoder(w).Encode(snap)
}

// LoadFrom replaces the store's state with the gob-encoded snapshot read
// from r.
func (s *Store) LoadFrom(r io.Reader) error {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = snap.Selected
	s.files = snap.Files
	s.pins = snap.Pins
	s.lifecycle = snap.Lifecycle
	if s.files == nil {
		s.files = make(map[uint16]*File)
	}
	if s.pins == nil {
		s.pins = make(map[byte]*PIN)
	}
	return nil
}

// InitializeApplet implements PUT DATA P2=0xE0 (§4.9): clears every file
// and PIN and moves lifecycle to Initializing. data carries no fields this
// emulator interprets beyond triggering the reset.
func (s *Store) InitializeApplet(data []byte) *card.StatusError {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[uint16]*File)
	s.pins = make(map[byte]*PIN)
	s.lifecycle = LifecycleInitializing
	return nil
}

// ActivateApplet implements ACTIVATE APPLET (INS=0x44, SPEC_FULL.md §4.10):
// transitions Initializing -> Active. Activating a card that is already
// Active or still Uninitialized is a conditions-not-satisfied error,
// matching the original's lifecycle-guarded activation.
func (s *Store) ActivateApplet() *card.StatusError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lifecycle != LifecycleInitializing {
		return &card.StatusError{SW: card.SWConditionsNotSat, Msg: "applet not in initializing state"}
	}
	s.lifecycle = LifecycleActive
	return nil
}
