// Package config loads applet provisioning (initial PINs, initial file
// layout, listen address) from a YAML file, so cmd/oseidcard init doesn't
// need a compiled-in card topology. The listen address is parsed but not
// read by cmd/oseidcard serve, which takes its own --listen flag.
//
// gopkg.in/yaml.v3 is the teacher's own indirect dependency, promoted to
// direct use here — no teacher file uses it directly, but it is already
// present in the teacher's dependency graph.
package config

import (
	"fmt"
	"os"

	"github.com/oseidemu/myeid/card"
	"github.com/oseidemu/myeid/keystore"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk provisioning format.
type Config struct {
	Listen string      `yaml:"listen"`
	Files  []FileEntry `yaml:"files"`
	PINs   []PINEntry  `yaml:"pins"`
}

// FileEntry declares one selectable key file and its declared size/type.
// KeyParts is optional: when omitted the file is created with no key
// material, and a key reaches it only through GENERATE KEY or PUT DATA.
type FileEntry struct {
	ID       uint16            `yaml:"id"`
	Type     string            `yaml:"type"` // "rsa", "ec", "ec-secp256k1", "des", "aes"
	SizeBits int               `yaml:"size_bits"`
	ACL      uint16            `yaml:"acl"`
	KeyParts map[string]string `yaml:"key_parts"` // part name -> hex bytes
}

// PINEntry declares one PIN to provision with its cleartext value (read
// once at provisioning time, hashed immediately by keystore.Store).
type PINEntry struct {
	ID    byte   `yaml:"id"`
	Value string `yaml:"value"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &c, nil
}

var fileTypeByName = map[string]byte{
	"rsa":          card.FileTypeRSA,
	"ec":           card.FileTypeECNIST,
	"ec-secp256k1": card.FileTypeECSecp256k,
	"des":          card.FileTypeDES,
	"aes":          card.FileTypeAES,
}

var keyPartByName = map[string]byte{
	"rsa_p":       card.KeyRSAPrimeP,
	"rsa_q":       card.KeyRSAPrimeQ,
	"rsa_dp":      card.KeyRSADP,
	"rsa_dq":      card.KeyRSADQ,
	"rsa_qinv":    card.KeyRSAQInv,
	"rsa_modulus": card.KeyRSAModulus,
	"rsa_exp_pub": card.KeyRSAExpPublic,
	"ec_private":  card.KeyECPrivate,
	"ec_public":   card.KeyECPublic,
	"symmetric":   card.KeySymmetric,
}

// Apply provisions store from c: registers every declared file (with any
// fixed key-part material) and every declared PIN. Files may then be
// populated further via GENERATE KEY / PUT DATA over the wire.
func Apply(store *keystore.Store, c *Config) error {
	for _, fe := range c.Files {
		fileType, ok := fileTypeByName[fe.Type]
		if !ok {
			return fmt.Errorf("config: unknown file type %q for file %#04x", fe.Type, fe.ID)
		}
		store.AddFile(fe.ID, &keystore.File{
			Type:     fileType,
			SizeBits: fe.SizeBits,
			ACL:      fe.ACL,
		})
		for partName, hexValue := range fe.KeyParts {
			partID, ok := keyPartByName[partName]
			if !ok {
				return fmt.Errorf("config: unknown key part %q for file %#04x", partName, fe.ID)
			}
			raw, err := decodeHex(hexValue)
			if err != nil {
				return fmt.Errorf("config: key part %q for file %#04x: %w", partName, fe.ID, err)
			}
			if serr := store.WriteKeyPart(fe.ID, partID, raw); serr != nil {
				return fmt.Errorf("config: writing key part %q for file %#04x: %w", partName, fe.ID, serr)
			}
		}
	}

	for _, pe := range c.PINs {
		if serr := store.InitializePIN(pe.ID, []byte(pe.Value)); serr != nil {
			return fmt.Errorf("config: provisioning PIN %#02x: %w", pe.ID, serr)
		}
	}
	return nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string %q", s)
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexDigit(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexDigit(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexDigit(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}
