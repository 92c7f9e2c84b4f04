package airgapsync

import (
	"context"
	"fmt"

	"github.com/opd-ai/airgapsync/chunk"
	"github.com/opd-ai/airgapsync/codec"
	"github.com/opd-ai/airgapsync/collector"
	"github.com/opd-ai/airgapsync/crypto"
	"github.com/opd-ai/airgapsync/emitter"
	"github.com/opd-ai/airgapsync/frame"
	"github.com/opd-ai/airgapsync/limits"
	"github.com/sirupsen/logrus"
)

// Options selects the codec, cipher suite and chunking of a transfer.
// Sender and receiver must agree on Codec and Suite: the frame does not
// record them.
type Options struct {
	Codec     codec.Codec
	Suite     crypto.Suite
	ChunkSize int
	Level     chunk.Level
}

// DefaultOptions returns gzip, AES-256-GCM, 1000-byte chunks and QR level M,
// the combination every receiver understands.
func DefaultOptions() Options {
	return Options{
		Codec:     codec.Default(),
		Suite:     crypto.SuiteAESGCM,
		ChunkSize: limits.DefaultChunkSize,
		Level:     chunk.DefaultLevel,
	}
}

// EmitterConfig returns the emitter configuration matching o.
// visual enables QR rendering.
func (o Options) EmitterConfig(visual bool) emitter.Config {
	cfg := emitter.DefaultConfig()
	cfg.ChunkSize = o.ChunkSize
	cfg.Level = o.Level
	cfg.Visual = visual
	return cfg
}

func (o Options) codec() codec.Codec {
	if o.Codec == nil {
		return codec.Default()
	}
	return o.Codec
}

// Seal compresses payload, encrypts it under password and returns the frame
// nonce || ciphertext.
func Seal(payload []byte, password string, opts Options) ([]byte, error) {
	if err := limits.ValidatePayloadSize(len(payload)); err != nil {
		return nil, err
	}

	c := opts.codec()
	compressed, err := c.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("compress with %s: %w", c.Name(), err)
	}

	ciphertext, nonce, err := opts.Suite.Encrypt(compressed, password)
	if err != nil {
		return nil, fmt.Errorf("encrypt with %s: %w", opts.Suite, err)
	}

	sealed := frame.Combine(nonce, ciphertext)

	logrus.WithFields(logrus.Fields{
		"function":     "Seal",
		"payload_size": len(payload),
		"compressed":   len(compressed),
		"frame_size":   len(sealed),
		"codec":        c.Name(),
		"suite":        opts.Suite.String(),
	}).Debug("Payload sealed")

	return sealed, nil
}

// Open reverses Seal. It fails with frame.ErrFormat, crypto.ErrAuthentication
// or codec.ErrCorruptStream and never returns partial output.
func Open(sealed []byte, password string, opts Options) ([]byte, error) {
	nonce, ciphertext, err := frame.Split(sealed)
	if err != nil {
		return nil, err
	}

	compressed, err := opts.Suite.Decrypt(ciphertext, nonce, password)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "Open",
			"frame_size": len(sealed),
			"suite":      opts.Suite.String(),
		}).Error("Frame failed authentication")
		return nil, err
	}

	c := opts.codec()
	payload, err := c.Decompress(compressed)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Open",
		"frame_size":   len(sealed),
		"payload_size": len(payload),
		"codec":        c.Name(),
	}).Debug("Frame opened")

	return payload, nil
}

// Send seals payload and emits the frame through e, returning the number of
// chunks the operator acknowledged. Chunking follows e.Config(); build it
// with opts.EmitterConfig to keep both in step.
func Send(ctx context.Context, payload []byte, password string, e *emitter.Emitter, opts Options) (int, error) {
	sealed, err := Seal(payload, password, opts)
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Send",
		"frame_size": len(sealed),
		"chunks":     limits.ChunkCount(len(sealed), e.Config().ChunkSize),
	}).Info("Sending frame")

	return e.Emit(ctx, sealed)
}

// Receive collects a frame through c and opens it. A frame that was
// misassembled, truncated or sealed under another password fails as a whole.
func Receive(ctx context.Context, c *collector.Collector, password string, opts Options) ([]byte, error) {
	sealed, err := c.Collect(ctx)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Receive",
		"frame_size": len(sealed),
		"chunks":     len(c.Lengths()),
	}).Info("Frame collected")

	return Open(sealed, password, opts)
}
