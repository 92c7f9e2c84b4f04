package emitter

import (
	"context"

	"github.com/opd-ai/airgapsync/chunk"
)

// mockPresenter records presented chunks and answers AwaitNext from a script.
type mockPresenter struct {
	presented  []chunk.Chunk
	symbols    []*chunk.Symbol
	awaited    []int
	presentErr error

	// stopAfter makes AwaitNext return false for that chunk index.
	stopAfter int
}

func (m *mockPresenter) Present(_ context.Context, c chunk.Chunk, sym *chunk.Symbol) error {
	if m.presentErr != nil {
		return m.presentErr
	}
	m.presented = append(m.presented, c)
	m.symbols = append(m.symbols, sym)
	return nil
}

func (m *mockPresenter) AwaitNext(_ context.Context, c chunk.Chunk) (bool, error) {
	m.awaited = append(m.awaited, c.Index)
	return c.Index != m.stopAfter, nil
}
