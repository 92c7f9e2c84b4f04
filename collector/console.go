package collector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// console reads operator lines and writes prompts.
//
// Sources and operators sharing one terminal must be built over the same
// *bufio.Reader; bufio.NewReader hands it back unchanged, so no buffered
// input is lost when the collector switches source.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsole(in io.Reader, out io.Writer) console {
	if out == nil {
		out = io.Discard
	}
	return console{in: bufio.NewReader(in), out: out}
}

// ask prints prompt and reads one trimmed line. io.EOF is returned only when
// the input ended before anything was read.
func (c console) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prompt != "" {
		if _, err := io.WriteString(c.out, prompt); err != nil {
			return "", err
		}
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ConsoleOperator answers collector questions from a terminal.
type ConsoleOperator struct {
	console
}

// NewConsoleOperator creates an operator reading answers from in and writing
// questions to out.
func NewConsoleOperator(in io.Reader, out io.Writer) *ConsoleOperator {
	return &ConsoleOperator{console: newConsole(in, out)}
}

// Continue asks whether another chunk follows. "n", "no", "done" or end of
// input finishes collection; anything else continues.
func (o *ConsoleOperator) Continue(ctx context.Context, index int) (bool, error) {
	answer, err := o.ask(ctx, fmt.Sprintf("Chunk %d received. Continue to next chunk? (Y/n) ", index))
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "n", "no", Sentinel:
		return false, nil
	default:
		return true, nil
	}
}

// Recover reports err and asks how to proceed: Enter or "y" retries, "m"
// switches to manual paste, "n" or end of input stops.
func (o *ConsoleOperator) Recover(ctx context.Context, index int, err error) (Recovery, error) {
	fmt.Fprintf(o.out, "Could not read chunk %d: %v\n", index, err)
	answer, askErr := o.ask(ctx, "Try again? (Y = retry, m = paste base64 manually, n = stop) ")
	if errors.Is(askErr, io.EOF) {
		return RecoveryStop, nil
	}
	if askErr != nil {
		return RecoveryStop, askErr
	}
	switch strings.ToLower(answer) {
	case "m", "manual", "p", "paste":
		return RecoverySwitch, nil
	case "n", "no", "q", "quit", Sentinel:
		return RecoveryStop, nil
	default:
		return RecoveryRetry, nil
	}
}
