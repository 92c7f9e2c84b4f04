package airgapsync

import (
	"context"

	"github.com/opd-ai/airgapsync/chunk"
	"github.com/opd-ai/airgapsync/collector"
)

// capturePresenter records every presented chunk and always continues.
type capturePresenter struct {
	chunks  []chunk.Chunk
	symbols int
}

func (p *capturePresenter) Present(_ context.Context, c chunk.Chunk, sym *chunk.Symbol) error {
	p.chunks = append(p.chunks, c)
	if sym != nil {
		p.symbols++
	}
	return nil
}

func (p *capturePresenter) AwaitNext(context.Context, chunk.Chunk) (bool, error) {
	return true, nil
}

// texts returns the pasteable text of each captured chunk in order.
func (p *capturePresenter) texts() []string {
	out := make([]string, len(p.chunks))
	for i, c := range p.chunks {
		out[i] = c.Text
	}
	return out
}

// pasteOperator never expects to be asked anything.
type pasteOperator struct{}

func (pasteOperator) Continue(context.Context, int) (bool, error) { return true, nil }

func (pasteOperator) Recover(context.Context, int, error) (collector.Recovery, error) {
	return collector.RecoveryStop, nil
}

// stoppingPresenter declines after the first chunk.
type stoppingPresenter struct{}

func (stoppingPresenter) Present(context.Context, chunk.Chunk, *chunk.Symbol) error { return nil }

func (stoppingPresenter) AwaitNext(context.Context, chunk.Chunk) (bool, error) { return false, nil }
