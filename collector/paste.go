package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// PasteSource reads one base64 line per chunk, as pasted or typed by the
// operator.
type PasteSource struct {
	console
}

// NewPasteSource creates a source reading lines from in and writing prompts
// to out.
func NewPasteSource(in io.Reader, out io.Writer) *PasteSource {
	return &PasteSource{console: newConsole(in, out)}
}

// Name returns "paste".
func (s *PasteSource) Name() string {
	return "paste"
}

// Acquire prompts for chunk req.Index and returns the line read. End of
// input is returned as the sentinel.
func (s *PasteSource) Acquire(ctx context.Context, req Request) (string, error) {
	line, err := s.ask(ctx, fmt.Sprintf("Paste chunk %d (or '%s' to finish): ", req.Index, Sentinel))
	if errors.Is(err, io.EOF) {
		return Sentinel, nil
	}
	if err != nil {
		return "", fmt.Errorf("read chunk %d: %w", req.Index, err)
	}
	return line, nil
}
