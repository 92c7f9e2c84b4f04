package qrscan

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Pass is one preprocessing attempt. Transform receives the grayscale
// rendition of the loaded image and must not modify it.
type Pass struct {
	Name      string
	Transform func(gray image.Image) image.Image
}

// Pass names, in the order DefaultPasses tries them.
const (
	PassGrayscale = "grayscale"
	PassContrast  = "contrast"
	PassInverted  = "inverted"
)

// DefaultPasses returns the fixed fallback chain: unmodified grayscale,
// contrast-stretched grayscale, then inverted grayscale.
func DefaultPasses() []Pass {
	return []Pass{
		{Name: PassGrayscale, Transform: identity},
		{Name: PassContrast, Transform: ContrastStretch},
		{Name: PassInverted, Transform: Invert},
	}
}

// Grayscale converts img to grayscale. Every pass starts from its output.
func Grayscale(img image.Image) image.Image {
	return imaging.Grayscale(img)
}

// ContrastStretch pushes dark values toward black and light values toward
// white around the 128 midpoint: v/2 below it, (v-128)*1.5+128 capped at
// 255 from it upward.
func ContrastStretch(gray image.Image) image.Image {
	return imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: stretch(c.R), G: stretch(c.G), B: stretch(c.B), A: c.A}
	})
}

// Invert maps every value v to 255-v.
func Invert(gray image.Image) image.Image {
	return imaging.Invert(gray)
}

func identity(gray image.Image) image.Image {
	return gray
}

func stretch(v uint8) uint8 {
	if v < 128 {
		return uint8(float64(v) * 0.5)
	}
	s := (float64(v)-128)*1.5 + 128
	if s > 255 {
		return 255
	}
	return uint8(s)
}
