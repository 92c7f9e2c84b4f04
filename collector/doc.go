// Package collector reassembles a frame from chunks acquired one at a time.
//
// A Collector asks its Source for chunk 1, 2, 3 and so on until the operator
// enters "done". Each acquired text is base64-decoded and appended to a
// Buffer; text that fails to decode is reported and asked for again without
// touching the buffer. When a source fails, for example because no QR symbol
// could be found in an image, the Operator decides whether to retry, fall
// back to pasting the base64 by hand, or stop.
//
//	in := bufio.NewReader(os.Stdin)
//	src := collector.NewImageSource(in, os.Stdout, nil)
//	op := collector.NewConsoleOperator(in, os.Stdout)
//	c, err := collector.New(src, op, collector.Config{
//		Fallback: collector.NewPasteSource(in, os.Stdout),
//	})
//	if err != nil {
//		return err
//	}
//	frame, err := c.Collect(ctx)
//
// Chunks carry no index, so the buffer trusts the operator to supply them in
// order. A missing or reordered chunk is only detected when the frame fails
// authentication.
package collector
