package keystore

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/oseidemu/myeid/card"
	"golang.org/x/crypto/pbkdf2"
)

// PIN hashing: golang.org/x/crypto/pbkdf2 is the teacher's own indirect
// dependency surface (golang.org/x/crypto); PBKDF2-HMAC-SHA-256 is the
// natural fit for a store that persists PIN verifiers instead of comparing
// cleartext, per SPEC_FULL.md's DOMAIN STACK.

const (
	pinSaltSize   = 16
	pinHashSize   = 32
	pinIterations = 100_000
	defaultTries  = 3
)

// InitializePIN provisions PIN pinID with the given cleartext data, per
// PUT DATA P2∈[0x01,0x0E] (§4.9). Hashes and discards the cleartext
// immediately.
func (s *Store) InitializePIN(pinID byte, data []byte) *card.StatusError {
	if len(data) == 0 {
		return &card.StatusError{SW: card.SWInvalidData, Msg: "empty PIN"}
	}
	salt := make([]byte, pinSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return &card.StatusError{SW: card.SWConditionsNotSat, Msg: "failed to generate PIN salt"}
	}
	hash := pbkdf2.Key(data, salt, pinIterations, pinHashSize, sha256.New)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins[pinID] = &PIN{
		Hash:       hash,
		Salt:       salt,
		Iterations: pinIterations,
		TriesLeft:  defaultTries,
		TriesMax:   defaultTries,
	}
	return nil
}

// Verify checks candidate against the stored PIN, decrementing the try
// counter on mismatch and resetting it on success. Returns
// SWAuthenticationBlocked-equivalent via the caller's own status mapping;
// here it returns a bool plus the remaining-tries count for the PIN-info
// response.
func (s *Store) Verify(pinID byte, candidate []byte) (ok bool, triesLeft int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.pins[pinID]
	if !exists || p.TriesLeft == 0 {
		return false, 0
	}
	hash := pbkdf2.Key(candidate, p.Salt, p.Iterations, pinHashSize, sha256.New)
	if subtle.ConstantTimeCompare(hash, p.Hash) == 1 {
		p.TriesLeft = p.TriesMax
		return true, p.TriesLeft
	}
	p.TriesLeft--
	return false, p.TriesLeft
}

// PINInfo renders the GET DATA 0xB0-0xBF response: try-counter and max-tries
// bytes, per §4.9.
func (s *Store) PINInfo(pinID byte) ([]byte, *card.StatusError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.pins[pinID]
	if !exists {
		return nil, &card.StatusError{SW: card.SWReferencedDataNotFnd, Msg: "PIN not provisioned"}
	}
	return []byte{byte(p.TriesLeft), byte(p.TriesMax)}, nil
}
