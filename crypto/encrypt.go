package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/opd-ai/airgapsync/limits"
)

// NonceSize is the width of an AEAD nonce in bytes.
const NonceSize = limits.NonceSize

// Overhead is the authentication tag length appended to every ciphertext.
const Overhead = limits.AEADOverhead

// Nonce is a 12-byte value used once per encryption.
type Nonce [NonceSize]byte

// GenerateNonce creates a cryptographically secure random nonce.
func GenerateNonce() (Nonce, error) {
	var nonce Nonce
	if _, err := rand.Read(nonce[:]); err != nil {
		return Nonce{}, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// Encrypt seals plaintext with the default suite. See Suite.Encrypt.
func Encrypt(plaintext []byte, password string) ([]byte, Nonce, error) {
	return SuiteAESGCM.Encrypt(plaintext, password)
}

// Encrypt seals plaintext under the key derived from password.
//
// A fresh nonce is drawn on every call and returned with the ciphertext;
// callers cannot supply their own. The ciphertext carries the tag at its end
// and is len(plaintext)+Overhead bytes long. Empty plaintext is valid.
func (s Suite) Encrypt(plaintext []byte, password string) ([]byte, Nonce, error) {
	logger := NewLogger("Encrypt").WithFields(map[string]interface{}{
		"suite":          s.String(),
		"plaintext_size": len(plaintext),
	})
	logger.Entry("sealing payload")

	key := DeriveKey(password)
	defer ZeroBytes(key[:])

	aead, err := s.newAEAD(&key)
	if err != nil {
		logger.WithError(err, "cipher_init", "newAEAD").Error("Failed to initialise AEAD")
		return nil, Nonce{}, err
	}

	nonce, err := GenerateNonce()
	if err != nil {
		logger.WithError(err, "entropy", "GenerateNonce").Error("Failed to generate nonce")
		return nil, Nonce{}, err
	}

	ciphertext := aead.Seal(nil, nonce[:], plaintext, nil)

	logger.WithFields(PreviewFields(nonce[:], "nonce")).
		WithField("ciphertext_size", len(ciphertext)).
		Debug("Payload sealed")
	return ciphertext, nonce, nil
}
