package collector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/airgapsync/qrscan"
)

// step is one scripted answer of a source.
type step struct {
	text string
	err  error
}

type scriptedSource struct {
	name     string
	steps    []step
	requests []int
}

func (s *scriptedSource) Name() string { return s.name }

func (s *scriptedSource) Acquire(_ context.Context, req Request) (string, error) {
	s.requests = append(s.requests, req.Index)
	if len(s.steps) == 0 {
		return Sentinel, nil
	}
	next := s.steps[0]
	s.steps = s.steps[1:]
	return next.text, next.err
}

type scriptedOperator struct {
	continues  []bool
	recoveries []Recovery
	err        error

	continueCalls []int
	recoverCalls  []error
}

func (o *scriptedOperator) Continue(_ context.Context, index int) (bool, error) {
	o.continueCalls = append(o.continueCalls, index)
	if o.err != nil {
		return false, o.err
	}
	if len(o.continues) == 0 {
		return true, nil
	}
	next := o.continues[0]
	o.continues = o.continues[1:]
	return next, nil
}

func (o *scriptedOperator) Recover(_ context.Context, _ int, err error) (Recovery, error) {
	o.recoverCalls = append(o.recoverCalls, err)
	if o.err != nil {
		return RecoveryStop, o.err
	}
	if len(o.recoveries) == 0 {
		return RecoveryStop, nil
	}
	next := o.recoveries[0]
	o.recoveries = o.recoveries[1:]
	return next, nil
}

// cancelingSource cancels the collection context on its first request.
type cancelingSource struct {
	cancel context.CancelFunc
}

func (s *cancelingSource) Name() string { return "canceling" }

func (s *cancelingSource) Acquire(ctx context.Context, _ Request) (string, error) {
	s.cancel()
	return "", ctx.Err()
}

type fakeScanner struct {
	results map[string]string
	paths   []string
}

func (f *fakeScanner) ScanFile(path string) (qrscan.Result, error) {
	f.paths = append(f.paths, path)
	text, ok := f.results[path]
	if !ok {
		return qrscan.Result{}, fmt.Errorf("%w: %s", qrscan.ErrImageLoad, path)
	}
	return qrscan.Result{Text: text, Pass: qrscan.PassGrayscale}, nil
}

var errOperatorGone = errors.New("operator input closed")

func bufioReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}
