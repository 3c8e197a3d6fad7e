package keystore

import (
	"encoding/binary"

	"github.com/oseidemu/myeid/card"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ListFiles renders a GET DATA file-listing response for selector p2
// (0xA1..0xA6), per §4.9. The layout is a flat sequence of 2-byte
// big-endian file ids, sorted ascending for a deterministic wire response
// — golang.org/x/exp/maps/slices give the sort-a-map-by-key shape the
// teacher's own tooling uses for deterministic tag enumeration.
//
// p2 selects a listing scope:
//   - 0xA1: all file ids
//   - 0xA2: RSA key files only
//   - 0xA3: EC key files only
//   - 0xA4: symmetric key files only
//   - 0xA5: files currently holding a public key part
//   - 0xA6: files currently holding a private/secret key part
func (s *Store) ListFiles(p2 byte) ([]byte, *card.StatusError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := maps.Keys(s.files)
	slices.Sort(ids)

	out := make([]byte, 0, len(ids)*2)
	for _, id := range ids {
		f := s.files[id]
		if !matchesListingScope(f, p2) {
			continue
		}
		out = binary.BigEndian.AppendUint16(out, id)
	}
	return out, nil
}

func matchesListingScope(f *File, p2 byte) bool {
	switch p2 {
	case 0xA1:
		return true
	case 0xA2:
		return f.Type == card.FileTypeRSA
	case 0xA3:
		return f.Type == card.FileTypeECNIST || f.Type == card.FileTypeECSecp256k
	case 0xA4:
		return f.Type == card.FileTypeDES || f.Type == card.FileTypeAES
	case 0xA5:
		_, hasPub := f.Parts[card.KeyRSAExpPublic]
		_, hasECPub := f.Parts[card.KeyECPublic]
		return hasPub || hasECPub
	case 0xA6:
		_, hasRSAPriv := f.Parts[card.KeyRSAPrimeP]
		_, hasECPriv := f.Parts[card.KeyECPrivate]
		_, hasSym := f.Parts[card.KeySymmetric]
		return hasRSAPriv || hasECPriv || hasSym
	default:
		return false
	}
}
