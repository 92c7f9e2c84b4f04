package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrUnknownSuite indicates a suite name that ParseSuite does not recognise.
var ErrUnknownSuite = errors.New("unknown cipher suite")

// Suite selects the AEAD used to seal frames. Every suite uses a 12-byte
// nonce and a 16-byte tag, so frames have the same layout whichever suite
// produced them. The frame does not record the suite; both sides must agree.
type Suite uint8

const (
	// SuiteAESGCM is AES-256-GCM. It is the default.
	SuiteAESGCM Suite = iota
	// SuiteChaCha20Poly1305 is ChaCha20-Poly1305 (RFC 8439).
	SuiteChaCha20Poly1305
)

// SuiteNames lists the names accepted by ParseSuite, default first.
var SuiteNames = []string{SuiteAESGCM.String(), SuiteChaCha20Poly1305.String()}

// String returns the suite name used on the command line.
func (s Suite) String() string {
	switch s {
	case SuiteAESGCM:
		return "aes-256-gcm"
	case SuiteChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return fmt.Sprintf("suite(%d)", uint8(s))
	}
}

// ParseSuite resolves a suite from its name. An empty name selects the default.
func ParseSuite(name string) (Suite, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "aes-256-gcm", "aes-gcm", "aesgcm":
		return SuiteAESGCM, nil
	case "chacha20-poly1305", "chacha20poly1305", "chachapoly":
		return SuiteChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownSuite, name, strings.Join(SuiteNames, ", "))
	}
}

// newAEAD builds the AEAD for the suite under key.
func (s Suite) newAEAD(key *Key) (cipher.AEAD, error) {
	switch s {
	case SuiteAESGCM:
		block, err := aes.NewCipher(key[:])
		if err != nil {
			return nil, fmt.Errorf("failed to create cipher: %w", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCM: %w", err)
		}
		return gcm, nil
	case SuiteChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key[:])
		if err != nil {
			return nil, fmt.Errorf("failed to create ChaCha20-Poly1305: %w", err)
		}
		return aead, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSuite, s)
	}
}
