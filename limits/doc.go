// Package limits provides centralized size constants and validation functions
// for airgapsync.
//
// # Size Hierarchy
//
//   - DefaultChunkSize (1000 bytes): raw frame bytes per chunk, before base64.
//   - MaxChunkSize (64 KiB): upper bound for text-only transfers. QR symbols
//     are bounded further by the capacity of the error-correction level.
//   - MinSealedFrame (28 bytes): nonce plus tag, the frame of an empty
//     compressed payload.
//   - MaxPayloadSize (64 MiB): the whole file is held in memory on both
//     sides, and decompression output is capped at the same size.
//
// # Validation Functions
//
//	if err := limits.ValidatePayloadSize(len(data)); err != nil {
//	    // errors.Is(err, limits.ErrPayloadTooLarge)
//	}
//
//	if err := limits.ValidateChunkSize(size); err != nil {
//	    // errors.Is(err, limits.ErrChunkSizeOutOfRange)
//	}
package limits
