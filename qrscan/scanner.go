// Package qrscan recovers chunk text from a photographed or scanned QR code.
//
// Captures are often dim, blurred or inverted, so a Scanner tries a short
// ordered list of preprocessing passes and stops at the first grid that
// decodes.
package qrscan

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// ErrDetection indicates no pass produced a decodable QR grid.
var ErrDetection = errors.New("no decodable QR code found")

// ErrImageLoad indicates the image file could not be opened or decoded.
var ErrImageLoad = errors.New("failed to load image")

// Result describes a successful decode.
type Result struct {
	// Text is the decoded symbol content.
	Text string
	// Pass is the name of the pass that succeeded.
	Pass string
	// Grid is the 1-based position of the decoded grid within that pass.
	Grid int
}

// Scanner runs its passes in order against one image.
type Scanner struct {
	passes   []Pass
	detector Detector
}

// NewScanner creates a Scanner with DefaultPasses and the ZXing detector.
func NewScanner() *Scanner {
	return NewScannerWith(NewZXingDetector(), DefaultPasses())
}

// NewScannerWith creates a Scanner with a custom detector and pass list.
func NewScannerWith(d Detector, passes []Pass) *Scanner {
	return &Scanner{passes: passes, detector: d}
}

// Passes returns the pass names in the order they are tried.
func (s *Scanner) Passes() []string {
	names := make([]string, len(s.passes))
	for i, p := range s.passes {
		names[i] = p.Name
	}
	return names
}

// ScanFile loads path and scans it. A missing or undecodable file fails
// with ErrImageLoad; an image without a readable code fails with
// ErrDetection.
func (s *Scanner) ScanFile(path string) (Result, error) {
	img, err := LoadImage(path)
	if err != nil {
		return Result{}, err
	}
	return s.Scan(img)
}

// LoadImage opens an image file, applying any EXIF orientation.
func LoadImage(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "LoadImage",
			"path":     path,
			"error":    err.Error(),
		}).Warn("Failed to open image")
		return nil, fmt.Errorf("%w: %s: %w", ErrImageLoad, path, err)
	}

	b := img.Bounds()
	logrus.WithFields(logrus.Fields{
		"function": "LoadImage",
		"path":     path,
		"width":    b.Dx(),
		"height":   b.Dy(),
	}).Debug("Image loaded")

	return img, nil
}

// Scan converts img to grayscale and runs each pass in order. Within a pass
// every detected grid is decoded in order. The first successful decode is
// returned and the remaining grids and passes are skipped.
func (s *Scanner) Scan(img image.Image) (Result, error) {
	gray := Grayscale(img)
	var failures []string

	for _, pass := range s.passes {
		prepared := pass.Transform(gray)

		grids, err := s.detector.Detect(prepared)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Scan",
				"pass":     pass.Name,
				"error":    err.Error(),
			}).Debug("Detection failed")
			failures = append(failures, fmt.Sprintf("%s: %v", pass.Name, err))
			continue
		}

		logrus.WithFields(logrus.Fields{
			"function": "Scan",
			"pass":     pass.Name,
			"grids":    len(grids),
		}).Debug("Detection finished")

		if len(grids) == 0 {
			failures = append(failures, pass.Name+": no grids")
			continue
		}

		for i, grid := range grids {
			text, err := grid.Decode()
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "Scan",
					"pass":     pass.Name,
					"grid":     i + 1,
					"error":    err.Error(),
				}).Debug("Grid decode failed")
				failures = append(failures, fmt.Sprintf("%s grid %d: %v", pass.Name, i+1, err))
				continue
			}

			logrus.WithFields(logrus.Fields{
				"function":  "Scan",
				"pass":      pass.Name,
				"grid":      i + 1,
				"text_size": len(text),
			}).Info("QR code decoded")
			return Result{Text: text, Pass: pass.Name, Grid: i + 1}, nil
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Scan",
		"passes":   len(s.passes),
	}).Warn("No QR code could be decoded with any preprocessing pass")

	return Result{}, fmt.Errorf("%w (%s)", ErrDetection, strings.Join(failures, "; "))
}
