package codec

import (
	"bytes"

	"github.com/klauspost/compress/gzip"
)

// GzipName is the name of the gzip codec.
const GzipName = "gzip"

// Gzip is RFC 1952 gzip at the default compression level.
type Gzip struct{}

// Name returns "gzip".
func (Gzip) Name() string { return GzipName }

// Compress returns a complete gzip stream for data.
func (Gzip) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	logCompressed(GzipName, len(data), buf.Len())
	return buf.Bytes(), nil
}

// Decompress reads a complete gzip stream. Trailing garbage, a bad checksum
// or a truncated stream fail with ErrCorruptStream.
func (Gzip) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, corrupt(GzipName, len(data), err)
	}
	defer r.Close()

	out, err := readBounded(r)
	if err != nil {
		return nil, corrupt(GzipName, len(data), err)
	}
	return out, nil
}
