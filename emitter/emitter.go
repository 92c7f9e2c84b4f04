// Package emitter presents the chunks of a frame to the operator one at a
// time and waits for the operator before moving on.
package emitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opd-ai/airgapsync/chunk"
	"github.com/opd-ai/airgapsync/file"
	"github.com/opd-ai/airgapsync/limits"
	"github.com/sirupsen/logrus"
)

// ErrAborted indicates the operator declined to continue emission.
var ErrAborted = errors.New("emission aborted by operator")

// DefaultPNGScale is the number of pixels per QR module in written PNG files.
const DefaultPNGScale = 6

// Presenter shows chunks to the operator.
type Presenter interface {
	// Present displays one chunk. sym is nil when visual output is disabled.
	Present(ctx context.Context, c chunk.Chunk, sym *chunk.Symbol) error
	// AwaitNext blocks until the operator is ready for the next chunk.
	// Returning false stops emission.
	AwaitNext(ctx context.Context, c chunk.Chunk) (bool, error)
}

// Config controls how chunks are produced and rendered.
type Config struct {
	// ChunkSize is the raw frame bytes per chunk.
	ChunkSize int
	// Level is the QR error-correction level.
	Level chunk.Level
	// Visual enables QR rendering.
	Visual bool
	// PNGDir, when set, receives one chunk-NNNN.png per chunk.
	// Requires Visual.
	PNGDir string
	// PNGScale is pixels per module for PNG output; DefaultPNGScale if zero.
	PNGScale int
}

// DefaultConfig returns 1000-byte chunks rendered as level M QR symbols.
func DefaultConfig() Config {
	return Config{
		ChunkSize: limits.DefaultChunkSize,
		Level:     chunk.DefaultLevel,
		Visual:    true,
		PNGScale:  DefaultPNGScale,
	}
}

// Validate checks the chunk size against limits and, with Visual set,
// against the symbol capacity of Level.
func (c Config) Validate() error {
	if err := limits.ValidateChunkSize(c.ChunkSize); err != nil {
		return err
	}
	if c.Visual && c.ChunkSize > c.Level.MaxChunkSize() {
		return fmt.Errorf("%w: chunk size %d exceeds %d for level %s",
			chunk.ErrSymbolTooLarge, c.ChunkSize, c.Level.MaxChunkSize(), c.Level)
	}
	if c.PNGDir != "" && !c.Visual {
		return errors.New("PNG output requires QR rendering")
	}
	return nil
}

// Emitter drives a Presenter through the chunks of a frame.
type Emitter struct {
	cfg       Config
	presenter Presenter

	progressCallback func(index, total int)
}

// New creates an Emitter. The config is validated.
func New(p Presenter, cfg Config) (*Emitter, error) {
	if p == nil {
		return nil, errors.New("presenter is required")
	}
	if cfg.PNGScale <= 0 {
		cfg.PNGScale = DefaultPNGScale
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Emitter{cfg: cfg, presenter: p}, nil
}

// OnProgress sets a callback invoked after each chunk is acknowledged.
func (e *Emitter) OnProgress(callback func(index, total int)) {
	e.progressCallback = callback
}

// Config returns the emitter configuration.
func (e *Emitter) Config() Config {
	return e.cfg
}

// Emit splits frame and presents each chunk in order, blocking on the
// operator after each one. It returns the number of chunks acknowledged.
func (e *Emitter) Emit(ctx context.Context, frame []byte) (int, error) {
	chunks, err := chunk.Split(frame, e.cfg.ChunkSize)
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Emit",
		"frame_size": len(frame),
		"chunks":     len(chunks),
		"visual":     e.cfg.Visual,
		"level":      e.cfg.Level.String(),
	}).Info("Starting chunk emission")

	if e.cfg.PNGDir != "" {
		if err := os.MkdirAll(e.cfg.PNGDir, 0o700); err != nil {
			return 0, fmt.Errorf("%w: %w", file.ErrIO, err)
		}
	}

	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		sym, err := e.render(c)
		if err != nil {
			return i, err
		}

		if err := e.presenter.Present(ctx, c, sym); err != nil {
			return i, fmt.Errorf("present chunk %s: %w", c.Label(), err)
		}

		next, err := e.presenter.AwaitNext(ctx, c)
		if err != nil {
			return i, fmt.Errorf("await operator after chunk %s: %w", c.Label(), err)
		}

		if e.progressCallback != nil {
			e.progressCallback(c.Index, c.Total)
		}

		if !next && c.Index < c.Total {
			logrus.WithFields(logrus.Fields{
				"function": "Emit",
				"chunk":    c.Label(),
			}).Warn("Operator stopped emission")
			return i + 1, fmt.Errorf("%w after chunk %s", ErrAborted, c.Label())
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Emit",
		"chunks":   len(chunks),
	}).Info("Chunk emission complete")

	return len(chunks), nil
}

// render builds the QR symbol for c and writes its PNG when configured.
func (e *Emitter) render(c chunk.Chunk) (*chunk.Symbol, error) {
	if !e.cfg.Visual {
		return nil, nil
	}

	sym, err := chunk.RenderVisual(c, e.cfg.Level)
	if err != nil {
		return nil, err
	}

	if e.cfg.PNGDir != "" {
		data, err := sym.PNG(e.cfg.PNGScale)
		if err != nil {
			return nil, fmt.Errorf("render PNG for chunk %s: %w", c.Label(), err)
		}
		path := filepath.Join(e.cfg.PNGDir, PNGName(c.Index))
		if err := file.WriteAtomic(path, data, file.DefaultPerm); err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"function": "render",
			"chunk":    c.Label(),
			"path":     path,
		}).Debug("Wrote chunk PNG")
	}

	return sym, nil
}

// PNGName returns the file name used for chunk index in PNGDir.
func PNGName(index int) string {
	return fmt.Sprintf("chunk-%04d.png", index)
}
