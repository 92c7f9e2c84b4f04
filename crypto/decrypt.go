package crypto

import (
	"errors"
	"fmt"
)

// ErrAuthentication indicates the ciphertext did not authenticate under the
// given password and nonce: the password is wrong, or the frame was corrupted
// or reassembled out of order.
var ErrAuthentication = errors.New("authentication failed")

// Decrypt opens ciphertext with the default suite. See Suite.Decrypt.
func Decrypt(ciphertext []byte, nonce Nonce, password string) ([]byte, error) {
	return SuiteAESGCM.Decrypt(ciphertext, nonce, password)
}

// Decrypt verifies and opens ciphertext under the key derived from password.
// Every failure, including ciphertext shorter than the tag, is
// ErrAuthentication and no plaintext is returned.
func (s Suite) Decrypt(ciphertext []byte, nonce Nonce, password string) ([]byte, error) {
	logger := NewLogger("Decrypt").WithFields(map[string]interface{}{
		"suite":           s.String(),
		"ciphertext_size": len(ciphertext),
	})
	logger.Entry("opening payload")

	if len(ciphertext) < Overhead {
		logger.Warn("Ciphertext shorter than authentication tag")
		return nil, fmt.Errorf("%w: ciphertext is %d bytes, shorter than the %d-byte tag",
			ErrAuthentication, len(ciphertext), Overhead)
	}

	key := DeriveKey(password)
	defer ZeroBytes(key[:])

	aead, err := s.newAEAD(&key)
	if err != nil {
		logger.WithError(err, "cipher_init", "newAEAD").Error("Failed to initialise AEAD")
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce[:], ciphertext, nil)
	if err != nil {
		logger.Warn("Authentication tag did not verify")
		return nil, fmt.Errorf("%w: wrong password or corrupted data", ErrAuthentication)
	}

	logger.WithField("plaintext_size", len(plaintext)).Debug("Payload opened")
	return plaintext, nil
}
