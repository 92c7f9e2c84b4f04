package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/airgapsync/qrscan"
	"github.com/sirupsen/logrus"
)

// FileScanner decodes the QR symbol in an image file.
type FileScanner interface {
	ScanFile(path string) (qrscan.Result, error)
}

// ImageSource asks the operator for the path of a captured image and decodes
// the QR symbol in it.
type ImageSource struct {
	console
	scanner FileScanner

	decodeCallback func(index int, res qrscan.Result)
}

// NewImageSource creates a source reading paths from in, writing prompts to
// out and decoding with scanner. A nil scanner uses qrscan.NewScanner.
func NewImageSource(in io.Reader, out io.Writer, scanner FileScanner) *ImageSource {
	if scanner == nil {
		scanner = qrscan.NewScanner()
	}
	return &ImageSource{console: newConsole(in, out), scanner: scanner}
}

// OnDecode sets a callback invoked with the scan result of every chunk
// decoded from an image.
func (s *ImageSource) OnDecode(callback func(index int, res qrscan.Result)) {
	s.decodeCallback = callback
}

// Name returns "image".
func (s *ImageSource) Name() string {
	return "image"
}

// Acquire prompts for the image of chunk req.Index and returns the decoded
// text. Entering the sentinel, or ending the input, finishes collection.
func (s *ImageSource) Acquire(ctx context.Context, req Request) (string, error) {
	path, err := s.ask(ctx, fmt.Sprintf("Image path for chunk %d (or '%s' to finish): ", req.Index, Sentinel))
	if errors.Is(err, io.EOF) {
		return Sentinel, nil
	}
	if err != nil {
		return "", fmt.Errorf("read image path for chunk %d: %w", req.Index, err)
	}
	if IsSentinel(path) {
		return path, nil
	}

	// Terminals quote dropped files.
	path = strings.Trim(path, `"'`)

	res, err := s.scanner.ScanFile(path)
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"function": "Acquire",
		"chunk":    req.Index,
		"path":     path,
		"pass":     res.Pass,
		"grid":     res.Grid,
	}).Debug("Decoded chunk from image")

	if s.decodeCallback != nil {
		s.decodeCallback(req.Index, res)
	}
	return res.Text, nil
}
