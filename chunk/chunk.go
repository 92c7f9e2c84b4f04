// Package chunk slices a frame into fixed-size windows and renders each
// window as transport text and, optionally, as a QR symbol.
//
// Chunks are numbered for display only. Neither the index nor the total is
// part of the transported text, so the receiver relies on the operator
// relaying chunks in order.
package chunk

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/airgapsync/limits"
	"github.com/sirupsen/logrus"
)

// ErrInvalidChunkSize indicates a chunk size below one byte.
var ErrInvalidChunkSize = errors.New("invalid chunk size")

// ErrEncoding indicates chunk text that is not valid base64.
var ErrEncoding = errors.New("invalid chunk encoding")

// Chunk is one window of a frame.
type Chunk struct {
	// Index is the 1-based position of the chunk.
	Index int
	// Total is the number of chunks in the frame.
	Total int
	// Data is the raw frame slice carried by this chunk.
	Data []byte
	// Text is Data in standard padded base64.
	Text string
}

// Label returns the operator-facing "i/n" label.
func (c Chunk) Label() string {
	return fmt.Sprintf("%d/%d", c.Index, c.Total)
}

// Split slices frame left to right into windows of size bytes. Every chunk
// except possibly the last is exactly size bytes. An empty frame yields no
// chunks. Chunk data is copied out of frame.
func Split(frame []byte, size int) ([]Chunk, error) {
	if size < limits.MinChunkSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, size)
	}

	total := limits.ChunkCount(len(frame), size)
	chunks := make([]Chunk, 0, total)
	for i := 0; i < total; i++ {
		start := i * size
		end := min(start+size, len(frame))

		data := make([]byte, end-start)
		copy(data, frame[start:end])
		c := Chunk{Index: i + 1, Total: total, Data: data}
		c.Text = RenderText(c)
		chunks = append(chunks, c)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Split",
		"frame_size": len(frame),
		"chunk_size": size,
		"chunks":     total,
	}).Debug("Frame split into chunks")

	return chunks, nil
}

// RenderText encodes the chunk data as standard padded base64.
func RenderText(c Chunk) string {
	return base64.StdEncoding.EncodeToString(c.Data)
}

// ParseText decodes chunk text produced by RenderText. Surrounding
// whitespace is ignored. Empty text is rejected: no chunk of a valid frame
// is ever empty.
func ParseText(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", ErrEncoding)
	}

	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return data, nil
}

// Join concatenates the data of chunks in slice order.
func Join(chunks []Chunk) []byte {
	n := 0
	for _, c := range chunks {
		n += len(c.Data)
	}
	out := make([]byte, 0, n)
	for _, c := range chunks {
		out = append(out, c.Data...)
	}
	return out
}
