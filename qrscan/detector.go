package qrscan

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	multidetector "github.com/makiuchi-d/gozxing/multi/qrcode/detector"
	qrdecoder "github.com/makiuchi-d/gozxing/qrcode/decoder"
	qrdetector "github.com/makiuchi-d/gozxing/qrcode/detector"
	"github.com/sirupsen/logrus"
)

// Grid is a candidate QR symbol located in an image, not yet decoded.
type Grid interface {
	Decode() (string, error)
}

// Detector locates candidate QR grids in an image. Finding nothing is not
// an error: it returns an empty slice.
type Detector interface {
	Detect(img image.Image) ([]Grid, error)
}

// ZXingDetector finds QR grids with the ZXing finder-pattern detectors and
// decodes them with the ZXing QR decoder.
type ZXingDetector struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewZXingDetector creates a detector that spends extra effort on each image.
func NewZXingDetector() *ZXingDetector {
	return &ZXingDetector{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Detect binarizes img and returns every grid the multi-symbol detector
// finds, falling back to the single-symbol detector when that finds none.
func (d *ZXingDetector) Detect(img image.Image) ([]Grid, error) {
	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
	if err != nil {
		return nil, err
	}
	matrix, matrixErr := bitmap.GetBlackMatrix()
	if matrixErr != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Detect",
			"error":    matrixErr.Error(),
		}).Debug("Binarization produced no usable matrix")
		return nil, nil
	}

	var grids []Grid
	results, multiErr := multidetector.NewMultiDetector(matrix).DetectMulti(d.hints)
	if multiErr == nil {
		for _, r := range results {
			grids = append(grids, &zxingGrid{bits: r.GetBits(), hints: d.hints})
		}
	}
	if len(grids) > 0 {
		return grids, nil
	}

	single, singleErr := qrdetector.NewDetector(matrix).Detect(d.hints)
	if singleErr != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Detect",
			"error":    singleErr.Error(),
		}).Debug("No finder patterns located")
		return nil, nil
	}
	return []Grid{&zxingGrid{bits: single.GetBits(), hints: d.hints}}, nil
}

type zxingGrid struct {
	bits  *gozxing.BitMatrix
	hints map[gozxing.DecodeHintType]interface{}
}

func (g *zxingGrid) Decode() (string, error) {
	result, err := qrdecoder.NewDecoder().Decode(g.bits, g.hints)
	if err != nil {
		return "", err
	}
	return result.GetText(), nil
}
