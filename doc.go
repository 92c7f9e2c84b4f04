// Package airgapsync moves a file across an air gap as a sequence of
// operator-relayed chunks.
//
// The sender compresses the file, encrypts it with a key derived from a
// shared password, and splits the resulting frame into base64 chunks that are
// shown one at a time as QR codes. The receiver captures the chunks in order,
// by pasting the text or by pointing at photos of the codes, and reverses the
// pipeline.
//
// # Wire Format
//
//	Frame := Nonce(12 bytes) || AEAD(Compress(file)) || Tag(16 bytes)
//
// The default pipeline is gzip and AES-256-GCM. The key is the SHA-256 of the
// password with no salt, which keeps old receivers compatible but means a
// weak password is cheap to guess offline.
//
// # Sending
//
//	opts := airgapsync.DefaultOptions()
//	e, err := emitter.New(emitter.NewConsolePresenter(os.Stdin, os.Stdout),
//	    opts.EmitterConfig(true))
//	if err != nil {
//	    return err
//	}
//	_, err = airgapsync.Send(ctx, payload, password, e, opts)
//
// # Receiving
//
//	in := bufio.NewReader(os.Stdin)
//	c, err := collector.New(collector.NewPasteSource(in, os.Stdout),
//	    collector.NewConsoleOperator(in, os.Stdout), collector.Config{})
//	if err != nil {
//	    return err
//	}
//	payload, err := airgapsync.Receive(ctx, c, password, opts)
//
// # Subpackages
//
//   - codec: gzip, zstd and xz compression
//   - crypto: key derivation and the AEAD suites
//   - frame: nonce and ciphertext framing
//   - chunk: splitting, base64 text and QR symbols
//   - emitter: the sending loop
//   - collector: the receiving loop
//   - qrscan: QR decoding from photos with fallback preprocessing
//   - file: bounded reads and atomic writes
//
// Chunks carry no sequence number. Receiving them out of order, or skipping
// one, is detected only when the assembled frame fails authentication.
package airgapsync
