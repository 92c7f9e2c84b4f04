package chunk

import (
	"errors"
	"fmt"
	"image"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrSymbolTooLarge indicates chunk text that does not fit in a QR symbol at
// the requested error-correction level.
var ErrSymbolTooLarge = errors.New("chunk too large for QR symbol")

// ErrUnknownLevel indicates an error-correction level name that ParseLevel
// does not recognise.
var ErrUnknownLevel = errors.New("unknown error-correction level")

// Level is a QR error-correction level.
type Level uint8

const (
	// LevelLow recovers about 7% damage.
	LevelLow Level = iota
	// LevelMedium recovers about 15% damage. It is the default.
	LevelMedium
	// LevelQuartile recovers about 25% damage.
	LevelQuartile
	// LevelHigh recovers about 30% damage.
	LevelHigh
)

// DefaultLevel is the level used when none is configured.
const DefaultLevel = LevelMedium

// byteCapacity is the byte-mode capacity of a version 40 symbol per level.
var byteCapacity = [...]int{
	LevelLow:      2953,
	LevelMedium:   2331,
	LevelQuartile: 1663,
	LevelHigh:     1273,
}

// String returns the single-letter level name.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelMedium:
		return "M"
	case LevelQuartile:
		return "Q"
	case LevelHigh:
		return "H"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// ParseLevel resolves "L", "M", "Q" or "H" (case-insensitive). An empty name
// selects DefaultLevel.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "L", "LOW":
		return LevelLow, nil
	case "", "M", "MEDIUM":
		return LevelMedium, nil
	case "Q", "QUARTILE":
		return LevelQuartile, nil
	case "H", "HIGH":
		return LevelHigh, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// TextCapacity returns the longest chunk text that fits in one symbol.
func (l Level) TextCapacity() int {
	if int(l) >= len(byteCapacity) {
		return 0
	}
	return byteCapacity[l]
}

// MaxChunkSize returns the largest raw chunk size whose base64 text fits in
// one symbol at this level.
func (l Level) MaxChunkSize() int {
	return l.TextCapacity() / 4 * 3
}

func (l Level) recoveryLevel() qrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return qrcode.Low
	case LevelQuartile:
		return qrcode.High
	case LevelHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// Symbol is a QR rendering of one chunk.
type Symbol struct {
	Level Level
	Text  string
	code  *qrcode.QRCode
}

// RenderVisual encodes the chunk text as a QR symbol at level.
func RenderVisual(c Chunk, level Level) (*Symbol, error) {
	text := c.Text
	if text == "" {
		text = RenderText(c)
	}
	if capacity := level.TextCapacity(); len(text) > capacity {
		return nil, fmt.Errorf("%w: chunk %s is %d characters, level %s holds %d",
			ErrSymbolTooLarge, c.Label(), len(text), level, capacity)
	}

	code, err := qrcode.New(text, level.recoveryLevel())
	if err != nil {
		return nil, fmt.Errorf("failed to encode chunk %s: %w", c.Label(), err)
	}
	return &Symbol{Level: level, Text: text, code: code}, nil
}

// Terminal renders the symbol with half-block characters, two modules per
// character cell, dark modules on a light terminal background.
func (s *Symbol) Terminal() string {
	return s.code.ToSmallString(false)
}

// Image renders the symbol with scale pixels per module, including the quiet
// zone.
func (s *Symbol) Image(scale int) image.Image {
	return s.code.Image(-scale)
}

// PNG renders the symbol as PNG with scale pixels per module.
func (s *Symbol) PNG(scale int) ([]byte, error) {
	return s.code.PNG(-scale)
}
