package card

// Key-part identifiers (§3), the tag byte `fs_key_read_part`/
// `fs_key_write_part` key their storage by. Bit 5 (0x20) distinguishes the
// precomputed n' companions from their base part, per §3's footnote.
const (
	KeyRSAPrimeP     byte = 0x04 // KEY_RSA_p
	KeyRSAPrimeQ     byte = 0x05 // KEY_RSA_q
	KeyRSADP         byte = 0x06
	KeyRSADQ         byte = 0x07
	KeyRSAQInv       byte = 0x08
	KeyRSAModulus    byte = 0x01 // KEY_RSA_MOD (≤1024-bit, single part)
	KeyRSAModulusP1  byte = 0x02 // KEY_RSA_MOD_p1 (2048-bit split, high part)
	KeyRSAModulusP2  byte = 0x03 // KEY_RSA_MOD_p2 (2048-bit split, low part)
	KeyRSAExpPublic  byte = 0x00 // KEY_RSA_EXP_PUB
	KeyRSANPrimeP    byte = KeyRSAPrimeP | 0x20
	KeyRSANPrimeQ    byte = KeyRSAPrimeQ | 0x20

	KeyECPrivate byte = 0x10 // KEY_EC_PRIVATE
	KeyECPublic  byte = 0x11 // KEY_EC_PUBLIC

	KeySymmetric byte = 0xA0
)

// File type bytes, per §3.
const (
	FileTypeRSA        byte = 0x11
	FileTypeECNIST     byte = 0x22
	FileTypeECSecp256k byte = 0x23
	FileTypeDES        byte = 0x19
	FileTypeAES        byte = 0x29
)
