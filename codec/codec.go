// Package codec provides the lossless compression stage of the airgapsync
// pipeline. Gzip is the default and the only codec understood by older
// senders; zstd and xz are available when both sides agree on them.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/airgapsync/limits"
	"github.com/sirupsen/logrus"
)

// ErrCorruptStream indicates the input is not a valid compressed stream.
var ErrCorruptStream = errors.New("corrupt compressed stream")

// ErrUnknownCodec indicates a codec name that ByName does not recognise.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec compresses and decompresses whole buffers.
//
// Decompress(Compress(x)) must equal x for every x, including the empty slice.
type Codec interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Names lists the codec names accepted by ByName, default first.
var Names = []string{GzipName, ZstdName, XZName}

// Default returns the gzip codec.
func Default() Codec {
	return Gzip{}
}

// ByName resolves a codec from its name. Matching is case-insensitive.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case GzipName, "":
		return Gzip{}, nil
	case ZstdName:
		return Zstd{}, nil
	case XZName:
		return XZ{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownCodec, name, strings.Join(Names, ", "))
	}
}

// readBounded drains r, failing once more than limits.MaxPayloadSize bytes
// have been produced.
func readBounded(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, limits.MaxPayloadSize+1))
	if err != nil {
		return nil, err
	}
	if err := limits.ValidatePayloadSize(len(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// corrupt wraps a decoder failure as ErrCorruptStream and logs it.
func corrupt(codec string, inputSize int, cause error) error {
	logrus.WithFields(logrus.Fields{
		"function":   "Decompress",
		"codec":      codec,
		"input_size": inputSize,
		"error":      cause.Error(),
	}).Warn("Decompression failed")
	return fmt.Errorf("%w: %s: %w", ErrCorruptStream, codec, cause)
}

func logCompressed(codec string, in, out int) {
	logrus.WithFields(logrus.Fields{
		"function":        "Compress",
		"codec":           codec,
		"original_size":   in,
		"compressed_size": out,
	}).Debug("Payload compressed")
}
