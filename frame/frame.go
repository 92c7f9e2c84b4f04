// Package frame binds a nonce and its ciphertext into the single byte frame
// that is chunked for transport, and splits it back apart.
//
// Layout:
//
//	Frame := Nonce(12 bytes) || Ciphertext(sealed payload || 16-byte tag)
//
// The frame carries no version, length or chunk index. Its total length is
// whatever the receiver reassembled.
package frame

import (
	"errors"
	"fmt"

	"github.com/opd-ai/airgapsync/crypto"
	"github.com/sirupsen/logrus"
)

// MinSize is the shortest byte sequence Split accepts.
const MinSize = crypto.NonceSize

// ErrFormat indicates a buffer too short to hold a nonce.
var ErrFormat = errors.New("malformed frame")

// Combine returns nonce followed by ciphertext in a new slice.
func Combine(nonce crypto.Nonce, ciphertext []byte) []byte {
	out := make([]byte, crypto.NonceSize+len(ciphertext))
	copy(out, nonce[:])
	copy(out[crypto.NonceSize:], ciphertext)
	return out
}

// Split separates the nonce from the ciphertext. The returned ciphertext
// aliases frame.
func Split(frame []byte) (crypto.Nonce, []byte, error) {
	if len(frame) < MinSize {
		logrus.WithFields(logrus.Fields{
			"function":   "Split",
			"frame_size": len(frame),
			"min_size":   MinSize,
		}).Error("Frame shorter than nonce")
		return crypto.Nonce{}, nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrFormat, len(frame), MinSize)
	}

	var nonce crypto.Nonce
	copy(nonce[:], frame[:crypto.NonceSize])
	return nonce, frame[crypto.NonceSize:], nil
}
