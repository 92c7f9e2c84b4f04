// Package limits provides centralized size limits for airgapsync.
// This ensures consistent validation across the send and receive pipelines.
package limits

import (
	"errors"
	"fmt"
)

const (
	// DefaultChunkSize is the number of raw frame bytes carried by one chunk
	// before base64 encoding. It matches the chunk size of existing senders.
	DefaultChunkSize = 1000

	// MinChunkSize is the smallest accepted chunk size.
	MinChunkSize = 1

	// MaxChunkSize bounds the chunk size for text-only transfers.
	// QR output is further bounded by the symbol capacity of the chosen level.
	MaxChunkSize = 65536

	// NonceSize is the AEAD nonce width carried at the front of every frame.
	NonceSize = 12

	// AEADOverhead is the authentication tag appended by both supported AEADs.
	AEADOverhead = 16

	// MinSealedFrame is the size of a frame sealing an empty compressed payload.
	MinSealedFrame = NonceSize + AEADOverhead

	// MaxPayloadSize is the largest file accepted for sending, and the largest
	// decompressed output accepted when receiving. Transfers are fully
	// buffered in memory, so this also bounds memory use.
	MaxPayloadSize = 64 * 1024 * 1024
)

var (
	// ErrPayloadTooLarge indicates a payload exceeds MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrChunkSizeOutOfRange indicates a chunk size outside [MinChunkSize, MaxChunkSize].
	ErrChunkSizeOutOfRange = errors.New("chunk size out of range")
)

// ValidatePayloadSize validates a payload length against MaxPayloadSize.
// Empty payloads are valid.
func ValidatePayloadSize(n int) error {
	if n > MaxPayloadSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrPayloadTooLarge, n, MaxPayloadSize)
	}
	return nil
}

// ValidateChunkSize validates a chunk size against MinChunkSize and MaxChunkSize.
func ValidateChunkSize(size int) error {
	if size < MinChunkSize || size > MaxChunkSize {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrChunkSizeOutOfRange, size, MinChunkSize, MaxChunkSize)
	}
	return nil
}

// ChunkCount returns how many chunks a frame of frameLen bytes splits into.
func ChunkCount(frameLen, chunkSize int) int {
	if frameLen <= 0 || chunkSize <= 0 {
		return 0
	}
	return (frameLen + chunkSize - 1) / chunkSize
}
