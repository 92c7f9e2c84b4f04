package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/airgapsync/chunk"
	"github.com/sirupsen/logrus"
)

// Sentinel ends collection when entered in place of a chunk.
// It is matched case-insensitively.
const Sentinel = "done"

// ErrEncoding indicates chunk text that is not valid base64.
var ErrEncoding = chunk.ErrEncoding

// State is a state of the collection loop.
type State uint8

const (
	// StateAwaitingInput waits for the next chunk from the source.
	StateAwaitingInput State = iota
	// StateDecoding decodes acquired chunk text.
	StateDecoding
	// StateAppended has appended a decoded chunk to the buffer.
	StateAppended
	// StateDone is terminal: the operator finished collection.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "AwaitingInput"
	case StateDecoding:
		return "Decoding"
	case StateAppended:
		return "Appended"
	case StateDone:
		return "Done"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Request asks a Source for one chunk.
type Request struct {
	// Index is the 1-based number of the chunk being collected.
	Index int
}

// Source acquires the text of one chunk per request.
type Source interface {
	Name() string
	Acquire(ctx context.Context, req Request) (string, error)
}

// Recovery is the operator's answer to an acquisition failure.
type Recovery uint8

const (
	// RecoveryRetry asks the same source again.
	RecoveryRetry Recovery = iota
	// RecoverySwitch moves to the fallback source and asks it.
	RecoverySwitch
	// RecoveryStop ends collection.
	RecoveryStop
)

// String returns the recovery name.
func (r Recovery) String() string {
	switch r {
	case RecoveryRetry:
		return "retry"
	case RecoverySwitch:
		return "switch"
	case RecoveryStop:
		return "stop"
	default:
		return fmt.Sprintf("Recovery(%d)", uint8(r))
	}
}

// Operator answers the questions the loop asks between acquisitions.
type Operator interface {
	// Continue is asked after chunk index was appended, when
	// Config.ConfirmEachChunk is set. false ends collection.
	Continue(ctx context.Context, index int) (bool, error)
	// Recover is asked after the source failed to acquire chunk index.
	Recover(ctx context.Context, index int, err error) (Recovery, error)
}

// Config controls the collection loop.
type Config struct {
	// ConfirmEachChunk asks the operator whether to continue after every
	// appended chunk.
	ConfirmEachChunk bool
	// Fallback is the source used after the operator chooses RecoverySwitch.
	// Usually a PasteSource.
	Fallback Source
}

// Collector runs the acquisition loop. A Collector is not safe for
// concurrent use; Collect owns its buffer for the duration of the call.
type Collector struct {
	initial  Source
	source   Source
	operator Operator
	cfg      Config

	state State
	buf   Buffer

	appendCallback     func(index, n int)
	errorCallback      func(index int, err error)
	transitionCallback func(from, to State)
}

// New creates a Collector reading from source and consulting operator.
func New(source Source, operator Operator, cfg Config) (*Collector, error) {
	if source == nil {
		return nil, errors.New("source is required")
	}
	if operator == nil {
		return nil, errors.New("operator is required")
	}
	return &Collector{initial: source, source: source, operator: operator, cfg: cfg}, nil
}

// OnAppend sets a callback invoked after chunk index of n bytes was appended.
func (c *Collector) OnAppend(callback func(index, n int)) {
	c.appendCallback = callback
}

// OnError sets a callback invoked for every acquisition or decoding failure.
func (c *Collector) OnError(callback func(index int, err error)) {
	c.errorCallback = callback
}

// OnTransition sets a callback invoked on every state change.
func (c *Collector) OnTransition(callback func(from, to State)) {
	c.transitionCallback = callback
}

// State returns the current loop state.
func (c *Collector) State() State {
	return c.state
}

// Source returns the source currently in use. It is the source given to New
// until the operator switches to the fallback.
func (c *Collector) Source() Source {
	return c.source
}

// Lengths returns the decoded length of each chunk collected so far.
func (c *Collector) Lengths() []int {
	return c.buf.Lengths()
}

// Collect runs the loop, starting from the source given to New, until the operator enters the sentinel, declines to
// continue, or stops after a failure, and returns the reassembled bytes.
//
// Failures never end the loop on their own: a chunk that does not decode is
// reported and requested again, and an acquisition failure is handed to the
// operator. Collect only returns an error when ctx is done or the operator
// cannot be asked.
func (c *Collector) Collect(ctx context.Context) ([]byte, error) {
	c.buf.Reset()
	c.source = c.initial
	c.state = StateAwaitingInput
	index := 1

	logrus.WithFields(logrus.Fields{
		"function": "Collect",
		"source":   c.source.Name(),
	}).Info("Starting chunk collection")

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := c.source.Acquire(ctx, Request{Index: index})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			stop, opErr := c.handleAcquireFailure(ctx, index, err)
			if opErr != nil {
				return nil, opErr
			}
			if stop {
				break
			}
			continue
		}

		if IsSentinel(text) {
			break
		}

		c.transition(StateDecoding)
		data, err := chunk.ParseText(text)
		if err != nil {
			c.report(index, fmt.Errorf("chunk %d: %w", index, err))
			c.transition(StateAwaitingInput)
			continue
		}

		c.buf.Append(data)
		c.transition(StateAppended)

		logrus.WithFields(logrus.Fields{
			"function":  "Collect",
			"chunk":     index,
			"size":      len(data),
			"collected": c.buf.Len(),
		}).Info("Chunk appended")

		if c.appendCallback != nil {
			c.appendCallback(index, len(data))
		}

		if c.cfg.ConfirmEachChunk {
			more, err := c.operator.Continue(ctx, index)
			if err != nil {
				return nil, fmt.Errorf("ask operator after chunk %d: %w", index, err)
			}
			if !more {
				break
			}
		}

		index++
		c.transition(StateAwaitingInput)
	}

	c.transition(StateDone)

	logrus.WithFields(logrus.Fields{
		"function": "Collect",
		"chunks":   c.buf.Chunks(),
		"bytes":    c.buf.Len(),
	}).Info("Chunk collection finished")

	return c.buf.Bytes(), nil
}

// handleAcquireFailure reports err and applies the operator's recovery.
// It returns true when collection should stop.
func (c *Collector) handleAcquireFailure(ctx context.Context, index int, err error) (bool, error) {
	c.report(index, fmt.Errorf("chunk %d via %s: %w", index, c.source.Name(), err))

	recovery, opErr := c.operator.Recover(ctx, index, err)
	if opErr != nil {
		return false, fmt.Errorf("ask operator after failed chunk %d: %w", index, opErr)
	}

	logrus.WithFields(logrus.Fields{
		"function": "handleAcquireFailure",
		"chunk":    index,
		"recovery": recovery.String(),
	}).Debug("Operator chose recovery")

	switch recovery {
	case RecoveryStop:
		return true, nil
	case RecoverySwitch:
		if c.cfg.Fallback != nil && c.cfg.Fallback != c.source {
			logrus.WithFields(logrus.Fields{
				"function": "handleAcquireFailure",
				"from":     c.source.Name(),
				"to":       c.cfg.Fallback.Name(),
			}).Info("Switching acquisition source")
			c.source = c.cfg.Fallback
		}
	}
	return false, nil
}

func (c *Collector) report(index int, err error) {
	logrus.WithFields(logrus.Fields{
		"function": "Collect",
		"chunk":    index,
		"state":    c.state.String(),
		"error":    err.Error(),
	}).Warn("Chunk attempt discarded")

	if c.errorCallback != nil {
		c.errorCallback(index, err)
	}
}

func (c *Collector) transition(to State) {
	from := c.state
	c.state = to

	logrus.WithFields(logrus.Fields{
		"function": "transition",
		"from":     from.String(),
		"to":       to.String(),
	}).Debug("Collector state change")

	if c.transitionCallback != nil {
		c.transitionCallback(from, to)
	}
}

// IsSentinel reports whether text is the end-of-collection sentinel.
func IsSentinel(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), Sentinel)
}
