package codec

import (
	"bytes"

	"github.com/ulikunitz/xz"
)

// XZName is the name of the xz codec.
const XZName = "xz"

// XZ is the .xz container with LZMA2. It is slower than gzip but usually
// yields fewer chunks for text payloads.
type XZ struct{}

// Name returns "xz".
func (XZ) Name() string { return XZName }

// Compress returns a complete xz stream for data.
func (XZ) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	logCompressed(XZName, len(data), buf.Len())
	return buf.Bytes(), nil
}

// Decompress reads a complete xz stream.
func (XZ) Decompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, corrupt(XZName, len(data), err)
	}

	out, err := readBounded(r)
	if err != nil {
		return nil, corrupt(XZName, len(data), err)
	}
	return out, nil
}
