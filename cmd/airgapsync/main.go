package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/opd-ai/airgapsync"
	"github.com/opd-ai/airgapsync/collector"
	"github.com/opd-ai/airgapsync/emitter"
	"github.com/opd-ai/airgapsync/file"
	agcli "github.com/opd-ai/airgapsync/internal/cli"
	"github.com/opd-ai/airgapsync/qrscan"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp(os.Stdin, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	setupSignalHandling(cancel)

	if err := runApp(ctx, app, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
	cancel()
}

// newApp builds the command tree. Operator prompts and chunks are read from
// in and written to out.
func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:   "airgapsync",
		Reader: in,
		Writer: out,
		Usage: "Move an encrypted file across an air gap as a sequence of QR codes",
		Flags: agcli.GlobalFlags,
		Commands: []*cli.Command{
			{
				Name:      "send",
				Usage:     "Compress, encrypt and show a file as QR codes",
				ArgsUsage: "<file>",
				Flags:     agcli.SendFlags,
				Action:    runSend,
			},
			{
				Name:   "receive",
				Usage:  "Collect chunks, then decrypt and write the file",
				Flags:  agcli.ReceiveFlags,
				Action: runReceive,
			},
		},
	}
}

// runApp runs app with flags after positional arguments accepted.
func runApp(ctx context.Context, app *cli.App, args []string) error {
	return app.RunContext(ctx, hoistFlags(app, args))
}

// setupSignalHandling cancels the run on interrupt. Blocking terminal reads
// do not observe the context, so the process exits right after.
func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		sig := <-sigChan
		fmt.Fprintf(os.Stderr, "\n🛑 Received signal %v, stopping\n", sig)
		cancel()
		os.Exit(130)
	}()
}

// setup resolves the configuration of a command and applies its log level.
func setup(c *cli.Context) (*agcli.Config, airgapsync.Options, error) {
	cfg, err := agcli.NewConfigFromCLI(c)
	if err != nil {
		return nil, airgapsync.Options{}, err
	}
	if err := cfg.SetupLogging(os.Stderr); err != nil {
		return nil, airgapsync.Options{}, err
	}
	if err := cfg.CheckTransport(); err != nil {
		return nil, airgapsync.Options{}, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, airgapsync.Options{}, err
	}
	return cfg, opts, nil
}

func runSend(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("send takes exactly one file argument", 2)
	}
	cfg, opts, err := setup(c)
	if err != nil {
		return err
	}

	payload, err := file.ReadPayload(c.Args().First())
	if err != nil {
		return err
	}

	password, err := cfg.ReadPassword(agcli.TerminalPrompter(int(os.Stdin.Fd()), os.Stderr), true)
	if err != nil {
		return err
	}

	ecfg := opts.EmitterConfig(!cfg.NoQR)
	ecfg.PNGDir = cfg.PNGDir
	e, err := emitter.New(emitter.NewConsolePresenter(c.App.Reader, c.App.Writer), ecfg)
	if err != nil {
		return err
	}

	n, err := airgapsync.Send(c.Context, payload, password, e, opts)
	if errors.Is(err, emitter.ErrAborted) {
		fmt.Fprintf(c.App.Writer, "🛑 Stopped after %d chunk(s)\n", n)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "✅ Sent %d chunk(s) for %d byte(s)\n", n, len(payload))
	return nil
}

func runReceive(c *cli.Context) error {
	cfg, opts, err := setup(c)
	if err != nil {
		return err
	}
	if err := cfg.CheckInput(); err != nil {
		return err
	}
	output, err := file.ValidatePath(cfg.Output)
	if err != nil {
		return err
	}

	password, err := cfg.ReadPassword(agcli.TerminalPrompter(int(os.Stdin.Fd()), os.Stderr), false)
	if err != nil {
		return err
	}

	col, err := newCollector(cfg, bufio.NewReader(c.App.Reader), c.App.Writer)
	if err != nil {
		return err
	}

	payload, err := airgapsync.Receive(c.Context, col, password, opts)
	if err != nil {
		return err
	}

	if err := file.WriteAtomic(output, payload, file.DefaultPerm); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "runReceive",
		"output":   output,
		"size":     len(payload),
	}).Info("Payload written")

	fmt.Fprintf(c.App.Writer, "✅ Wrote %d byte(s) to %s\n", len(payload), output)
	return nil
}

// newCollector builds the collector for the configured input method. All
// sources share in so switching from images to pasting loses no input.
func newCollector(cfg *agcli.Config, in *bufio.Reader, out io.Writer) (*collector.Collector, error) {
	paste := collector.NewPasteSource(in, out)

	var (
		source   collector.Source = paste
		fallback collector.Source
	)
	if cfg.Input == agcli.InputImage {
		img := collector.NewImageSource(in, out, qrscan.NewScanner())
		img.OnDecode(func(index int, res qrscan.Result) {
			if res.Pass != qrscan.PassGrayscale {
				fmt.Fprintf(out, "📷 Chunk %d decoded after %s preprocessing\n", index, res.Pass)
			}
		})
		source = img
		fallback = paste
	}

	col, err := collector.New(source, collector.NewConsoleOperator(in, out), collector.Config{
		ConfirmEachChunk: cfg.ConfirmEach,
		Fallback:         fallback,
	})
	if err != nil {
		return nil, err
	}

	col.OnAppend(func(index, n int) {
		fmt.Fprintf(out, "Received chunk %d (%d bytes)\n", index, n)
	})
	// Acquisition failures are reported by the operator prompt.
	col.OnError(func(_ int, err error) {
		if errors.Is(err, collector.ErrEncoding) {
			fmt.Fprintf(out, "❌ %v, try again\n", err)
		}
	})
	return col, nil
}
