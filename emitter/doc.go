// Package emitter implements the sending half of an airgapsync transfer.
//
// An Emitter slices a sealed frame into chunks, renders each chunk as base64
// text and, optionally, as a QR symbol, and hands it to a Presenter. After
// each chunk the Emitter blocks in Presenter.AwaitNext until the operator has
// captured it. There is never more than one chunk on display.
//
//	e, err := emitter.New(emitter.NewConsolePresenter(os.Stdin, os.Stdout), emitter.DefaultConfig())
//	n, err := e.Emit(ctx, frame)
//	if errors.Is(err, emitter.ErrAborted) {
//	    // operator typed q before the last chunk
//	}
//
// With Config.PNGDir set, every symbol is also written as chunk-0001.png,
// chunk-0002.png, ... so the codes can be relayed as image files and read
// back with the image input of the collector.
package emitter
