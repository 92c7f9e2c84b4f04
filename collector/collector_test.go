package collector

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/opd-ai/airgapsync/chunk"
	"github.com/opd-ai/airgapsync/qrscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestNewRequiresSourceAndOperator(t *testing.T) {
	_, err := New(nil, &scriptedOperator{}, Config{})
	assert.Error(t, err)

	_, err = New(&scriptedSource{name: "s"}, nil, Config{})
	assert.Error(t, err)
}

func TestCollectAppendsInOrder(t *testing.T) {
	src := &scriptedSource{name: "paste", steps: []step{
		{text: b64("first-")},
		{text: b64("second-")},
		{text: "  " + b64("third") + "\n"},
		{text: " DoNe "},
	}}
	c, err := New(src, &scriptedOperator{}, Config{})
	require.NoError(t, err)

	var appended []int
	c.OnAppend(func(index, n int) { appended = append(appended, index, n) })

	got, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []byte("first-second-third"), got)
	assert.Equal(t, []int{6, 7, 5}, c.Lengths())
	assert.Equal(t, []int{1, 6, 2, 7, 3, 5}, appended)
	assert.Equal(t, []int{1, 2, 3, 4}, src.requests)
	assert.Equal(t, StateDone, c.State())
}

func TestCollectImmediateSentinel(t *testing.T) {
	c, err := New(&scriptedSource{name: "paste", steps: []step{{text: "done"}}}, &scriptedOperator{}, Config{})
	require.NoError(t, err)

	got, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestCollectDiscardsUndecodableText(t *testing.T) {
	tests := []struct {
		name string
		bad  string
	}{
		{"not base64", "!!!not base64!!!"},
		{"missing padding", "aGk"},
		{"empty", ""},
		{"whitespace", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{name: "paste", steps: []step{
				{text: b64("A")},
				{text: tt.bad},
				{text: b64("B")},
				{text: "done"},
			}}
			c, err := New(src, &scriptedOperator{}, Config{})
			require.NoError(t, err)

			var reported []error
			var reportedAt []int
			c.OnError(func(index int, err error) {
				reportedAt = append(reportedAt, index)
				reported = append(reported, err)
			})

			got, err := c.Collect(context.Background())
			require.NoError(t, err)

			assert.Equal(t, []byte("AB"), got)
			require.Len(t, reported, 1)
			assert.ErrorIs(t, reported[0], ErrEncoding)
			// The failed chunk is requested again under the same number.
			assert.Equal(t, []int{2}, reportedAt)
			assert.Equal(t, []int{1, 2, 2, 3}, src.requests)
		})
	}
}

func TestCollectTransitions(t *testing.T) {
	src := &scriptedSource{name: "paste", steps: []step{
		{text: b64("x")},
		{text: "%%%"},
		{text: "done"},
	}}
	c, err := New(src, &scriptedOperator{}, Config{})
	require.NoError(t, err)

	var seen []string
	c.OnTransition(func(from, to State) { seen = append(seen, from.String()+">"+to.String()) })

	_, err = c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"AwaitingInput>Decoding",
		"Decoding>Appended",
		"Appended>AwaitingInput",
		"AwaitingInput>Decoding",
		"Decoding>AwaitingInput",
		"AwaitingInput>Done",
	}, seen)
}

func TestCollectConfirmEachChunk(t *testing.T) {
	src := &scriptedSource{name: "paste", steps: []step{
		{text: b64("one")},
		{text: b64("two")},
		{text: b64("never read")},
	}}
	op := &scriptedOperator{continues: []bool{true, false}}
	c, err := New(src, op, Config{ConfirmEachChunk: true})
	require.NoError(t, err)

	got, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []byte("onetwo"), got)
	assert.Equal(t, []int{1, 2}, op.continueCalls)
	assert.Equal(t, []int{1, 2}, src.requests)
}

func TestCollectRecovery(t *testing.T) {
	detectErr := qrscan.ErrDetection

	t.Run("retry same source", func(t *testing.T) {
		src := &scriptedSource{name: "image", steps: []step{
			{err: detectErr},
			{text: b64("ok")},
			{text: "done"},
		}}
		op := &scriptedOperator{recoveries: []Recovery{RecoveryRetry}}
		c, err := New(src, op, Config{})
		require.NoError(t, err)

		got, err := c.Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte("ok"), got)
		require.Len(t, op.recoverCalls, 1)
		assert.ErrorIs(t, op.recoverCalls[0], qrscan.ErrDetection)
		assert.Equal(t, []int{1, 1, 2}, src.requests)
	})

	t.Run("switch to fallback", func(t *testing.T) {
		primary := &scriptedSource{name: "image", steps: []step{
			{text: b64("via image ")},
			{err: detectErr},
		}}
		fallback := &scriptedSource{name: "paste", steps: []step{
			{text: b64("via paste")},
			{text: "done"},
		}}
		op := &scriptedOperator{recoveries: []Recovery{RecoverySwitch}}
		c, err := New(primary, op, Config{Fallback: fallback})
		require.NoError(t, err)

		var reported []error
		c.OnError(func(_ int, err error) { reported = append(reported, err) })

		got, err := c.Collect(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []byte("via image via paste"), got)
		assert.Equal(t, "paste", c.Source().Name())
		assert.Equal(t, []int{2, 3}, fallback.requests)
		require.Len(t, reported, 1)
		assert.ErrorIs(t, reported[0], qrscan.ErrDetection)
		assert.Contains(t, reported[0].Error(), "chunk 2 via image")
	})

	t.Run("switch without fallback retries", func(t *testing.T) {
		src := &scriptedSource{name: "image", steps: []step{
			{err: detectErr},
			{text: "done"},
		}}
		op := &scriptedOperator{recoveries: []Recovery{RecoverySwitch}}
		c, err := New(src, op, Config{})
		require.NoError(t, err)

		_, err = c.Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "image", c.Source().Name())
		assert.Equal(t, []int{1, 1}, src.requests)
	})

	t.Run("stop keeps collected chunks", func(t *testing.T) {
		src := &scriptedSource{name: "image", steps: []step{
			{text: b64("kept")},
			{err: qrscan.ErrImageLoad},
			{text: b64("never read")},
		}}
		op := &scriptedOperator{recoveries: []Recovery{RecoveryStop}}
		c, err := New(src, op, Config{})
		require.NoError(t, err)

		got, err := c.Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte("kept"), got)
		assert.Equal(t, StateDone, c.State())
	})
}

func TestCollectRestartsOnInitialSource(t *testing.T) {
	primary := &scriptedSource{name: "image", steps: []step{
		{err: qrscan.ErrDetection},
		{text: b64("second run")},
		{text: "done"},
	}}
	fallback := &scriptedSource{name: "paste", steps: []step{
		{text: b64("first run")},
		{text: "done"},
	}}
	op := &scriptedOperator{recoveries: []Recovery{RecoverySwitch}}
	c, err := New(primary, op, Config{Fallback: fallback})
	require.NoError(t, err)

	first, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("first run"), first)
	assert.Equal(t, "paste", c.Source().Name())

	second, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("second run"), second)
	assert.Equal(t, "image", c.Source().Name())
	assert.Equal(t, []int{1, 1, 2}, primary.requests)
	assert.Equal(t, []int{1, 2}, fallback.requests)
}

func TestCollectOperatorError(t *testing.T) {
	src := &scriptedSource{name: "image", steps: []step{{err: qrscan.ErrDetection}}}
	c, err := New(src, &scriptedOperator{err: errOperatorGone}, Config{})
	require.NoError(t, err)

	got, err := c.Collect(context.Background())
	assert.ErrorIs(t, err, errOperatorGone)
	assert.Nil(t, got)

	src = &scriptedSource{name: "paste", steps: []step{{text: b64("a")}}}
	c, err = New(src, &scriptedOperator{err: errOperatorGone}, Config{ConfirmEachChunk: true})
	require.NoError(t, err)

	_, err = c.Collect(context.Background())
	assert.ErrorIs(t, err, errOperatorGone)
}

func TestCollectContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &scriptedOperator{}
	c, err := New(&cancelingSource{cancel: cancel}, op, Config{})
	require.NoError(t, err)

	got, err := c.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
	assert.Empty(t, op.recoverCalls)
}

func TestCollectResetsBetweenRuns(t *testing.T) {
	src := &scriptedSource{name: "paste", steps: []step{
		{text: b64("run1")},
		{text: "done"},
		{text: b64("run2")},
		{text: "done"},
	}}
	c, err := New(src, &scriptedOperator{}, Config{})
	require.NoError(t, err)

	first, err := c.Collect(context.Background())
	require.NoError(t, err)
	second, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []byte("run1"), first)
	assert.Equal(t, []byte("run2"), second)
	assert.Equal(t, []int{4}, c.Lengths())
}

func TestIsSentinel(t *testing.T) {
	for _, s := range []string{"done", "DONE", " Done\n", "\tdone "} {
		assert.True(t, IsSentinel(s), s)
	}
	for _, s := range []string{"", "don", "done!", "d one", "ZG9uZQ=="} {
		assert.False(t, IsSentinel(s), s)
	}
}

func TestStateAndRecoveryStrings(t *testing.T) {
	assert.Equal(t, "AwaitingInput", StateAwaitingInput.String())
	assert.Equal(t, "Done", StateDone.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.Equal(t, "switch", RecoverySwitch.String())
	assert.Equal(t, "Recovery(7)", Recovery(7).String())
}

func TestBuffer(t *testing.T) {
	var b Buffer
	b.Append([]byte("abc"))
	b.Append(nil)
	b.Append([]byte("de"))

	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 3, b.Chunks())
	assert.Equal(t, []int{3, 0, 2}, b.Lengths())

	out := b.Bytes()
	out[0] = 'X'
	assert.Equal(t, []byte("abcde"), b.Bytes())

	b.Reset()
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Lengths())
}

func TestPasteSourceEndToEnd(t *testing.T) {
	input := strings.Join([]string{b64("hello "), "garbage", b64("world")}, "\n")
	var prompts strings.Builder

	src := NewPasteSource(strings.NewReader(input), &prompts)
	c, err := New(src, &scriptedOperator{}, Config{})
	require.NoError(t, err)

	got, err := c.Collect(context.Background())
	require.NoError(t, err)

	// End of input counts as the sentinel.
	assert.Equal(t, []byte("hello world"), got)
	assert.Contains(t, prompts.String(), "Paste chunk 1")
	assert.Contains(t, prompts.String(), "Paste chunk 3")
}

func TestImageSource(t *testing.T) {
	scanner := &fakeScanner{results: map[string]string{
		"/tmp/a.png":          b64("A"),
		"/tmp/with space.png": b64("B"),
	}}
	input := "/tmp/a.png\n\"/tmp/with space.png\"\nDone\n"

	src := NewImageSource(strings.NewReader(input), nil, scanner)
	assert.Equal(t, "image", src.Name())

	ctx := context.Background()
	text, err := src.Acquire(ctx, Request{Index: 1})
	require.NoError(t, err)
	assert.Equal(t, b64("A"), text)

	text, err = src.Acquire(ctx, Request{Index: 2})
	require.NoError(t, err)
	assert.Equal(t, b64("B"), text)

	text, err = src.Acquire(ctx, Request{Index: 3})
	require.NoError(t, err)
	assert.True(t, IsSentinel(text))

	text, err = src.Acquire(ctx, Request{Index: 4})
	require.NoError(t, err)
	assert.Equal(t, Sentinel, text)

	assert.Equal(t, []string{"/tmp/a.png", "/tmp/with space.png"}, scanner.paths)
}

func TestImageSourceFallsBackToPaste(t *testing.T) {
	dir := t.TempDir()
	frame := []byte("frame bytes that span two chunks")
	chunks, err := chunk.Split(frame, 20)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	sym, err := chunk.RenderVisual(chunks[0], chunk.DefaultLevel)
	require.NoError(t, err)
	png, err := sym.PNG(6)
	require.NoError(t, err)
	good := filepath.Join(dir, "chunk-0001.png")
	require.NoError(t, os.WriteFile(good, png, 0o600))

	missing := filepath.Join(dir, "chunk-0002.png")

	// One reader shared by every source and the operator, as on a terminal.
	input := strings.Join([]string{
		good,
		missing,
		"m",
		chunks[1].Text,
		"done",
	}, "\n") + "\n"
	in := bufioReader(input)
	var out strings.Builder

	c, err := New(
		NewImageSource(in, &out, nil),
		NewConsoleOperator(in, &out),
		Config{Fallback: NewPasteSource(in, &out)},
	)
	require.NoError(t, err)

	var reported []error
	c.OnError(func(_ int, err error) { reported = append(reported, err) })

	got, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, frame, got)
	require.Len(t, reported, 1)
	assert.True(t, errors.Is(reported[0], qrscan.ErrImageLoad))
	assert.Contains(t, out.String(), "Could not read chunk 2")
	assert.Equal(t, "paste", c.Source().Name())
}

func TestConsoleOperator(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		input string
		more  bool
		rec   Recovery
	}{
		{"\n", true, RecoveryRetry},
		{"y\n", true, RecoveryRetry},
		{"n\n", false, RecoveryStop},
		{"DONE\n", false, RecoveryStop},
		{"m\n", true, RecoverySwitch},
		{"", false, RecoveryStop},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			op := NewConsoleOperator(strings.NewReader(tt.input), nil)
			more, err := op.Continue(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.more, more)

			op = NewConsoleOperator(strings.NewReader(tt.input), nil)
			rec, err := op.Recover(ctx, 1, qrscan.ErrDetection)
			require.NoError(t, err)
			assert.Equal(t, tt.rec, rec)
		})
	}
}

func TestConsoleHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPasteSource(strings.NewReader("x\n"), nil).Acquire(ctx, Request{Index: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImageSourceRecoversInvertedCapture(t *testing.T) {
	dir := t.TempDir()
	frame := []byte("an inverted capture followed by a plain one")
	chunks, err := chunk.Split(frame, 24)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	paths := make([]string, len(chunks))
	for i, c := range chunks {
		sym, err := chunk.RenderVisual(c, chunk.DefaultLevel)
		require.NoError(t, err)
		img := sym.Image(6)
		if i == 0 {
			img = imaging.Invert(img)
		}
		paths[i] = filepath.Join(dir, fmt.Sprintf("chunk-%04d.png", c.Index))
		require.NoError(t, imaging.Save(img, paths[i]))
	}

	in := bufioReader(strings.Join(append(paths, "done"), "\n") + "\n")
	src := NewImageSource(in, nil, nil)

	passes := map[int]string{}
	src.OnDecode(func(index int, res qrscan.Result) { passes[index] = res.Pass })

	op := &scriptedOperator{}
	c, err := New(src, op, Config{})
	require.NoError(t, err)

	got, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, frame, got)
	assert.Equal(t, map[int]string{1: qrscan.PassInverted, 2: qrscan.PassGrayscale}, passes)
	assert.Empty(t, op.recoverCalls)
}
