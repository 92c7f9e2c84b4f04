package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/opd-ai/airgapsync/limits"
)

// ZstdName is the name of the zstd codec.
const ZstdName = "zstd"

// Zstd is Zstandard at the default encoder level.
type Zstd struct{}

// Name returns "zstd".
func (Zstd) Name() string { return ZstdName }

// Compress returns a single zstd frame for data.
func (Zstd) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer enc.Close()

	out := enc.EncodeAll(data, nil)
	logCompressed(ZstdName, len(data), len(out))
	return out, nil
}

// Decompress decodes every zstd frame in data.
func (Zstd) Decompress(data []byte) ([]byte, error) {
	dec, err := newZstdDecoder(limits.MaxPayloadSize)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, corrupt(ZstdName, len(data), err)
	}
	if err := limits.ValidatePayloadSize(len(out)); err != nil {
		return nil, corrupt(ZstdName, len(data), err)
	}
	return out, nil
}

// newZstdDecoder creates a single-threaded decoder that refuses to produce
// more than maxMemory bytes.
func newZstdDecoder(maxMemory uint64) (*zstd.Decoder, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxMemory))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return dec, nil
}
