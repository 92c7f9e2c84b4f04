package crypto

import (
	"crypto/sha256"
)

// KeySize is the width of a derived key in bytes.
const KeySize = 32

// Key is a 256-bit symmetric key.
type Key [KeySize]byte

// DeriveKey maps a password to a key with a single unsalted SHA-256.
//
// The same password always yields the same key, and existing frames depend
// on exactly this derivation. It offers no resistance to offline guessing;
// use a long passphrase.
func DeriveKey(password string) Key {
	return Key(sha256.Sum256([]byte(password)))
}
