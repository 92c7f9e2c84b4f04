package emitter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/airgapsync/chunk"
)

// ConsolePresenter prints chunks to a terminal and waits for Enter.
// Typing "q" stops emission.
type ConsolePresenter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePresenter creates a presenter reading operator input from in
// and writing chunks to out.
func NewConsolePresenter(in io.Reader, out io.Writer) *ConsolePresenter {
	return &ConsolePresenter{in: bufio.NewReader(in), out: out}
}

// Present prints the chunk label, its pasteable base64 text and, when
// present, the terminal QR symbol.
func (p *ConsolePresenter) Present(_ context.Context, c chunk.Chunk, sym *chunk.Symbol) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nQR %s (%d bytes)\n", c.Label(), len(c.Data))
	fmt.Fprintf(&b, "\nPasteable base64 (for QR %d):\n%s\n", c.Index, c.Text)
	if sym != nil {
		fmt.Fprintf(&b, "\n%s\n", sym.Terminal())
	}
	_, err := io.WriteString(p.out, b.String())
	return err
}

// AwaitNext waits for one line of input. An empty line continues; "q",
// "quit", "n" or end of input stops.
func (p *ConsolePresenter) AwaitNext(ctx context.Context, c chunk.Chunk) (bool, error) {
	if c.Index == c.Total {
		fmt.Fprintln(p.out, "Last QR shown. Press Enter when it has been captured...")
	} else {
		fmt.Fprintln(p.out, "Press Enter for next QR (q to stop)...")
	}

	line, err := readLine(ctx, p.in)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(line) {
	case "q", "quit", "n", "no":
		return false, nil
	default:
		return true, nil
	}
}

// readLine reads one trimmed line. A partial final line without a newline is
// returned; io.EOF is returned only when nothing was read.
func readLine(ctx context.Context, r *bufio.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
