// Package crypto implements the password-based authenticated encryption
// stage of the airgapsync pipeline.
//
// # Key Derivation
//
// DeriveKey hashes the password once with SHA-256. There is no salt and no
// work factor. Frames produced by existing senders depend on this exact
// derivation, so it is kept as is:
//
//	key := crypto.DeriveKey(password)
//	defer crypto.ZeroBytes(key[:])
//
// # Encryption and Decryption
//
// Encrypt draws a fresh 12-byte nonce from crypto/rand on every call and
// returns it next to the ciphertext. The ciphertext ends with a 16-byte tag:
//
//	ciphertext, nonce, err := crypto.Encrypt(compressed, password)
//
//	plaintext, err := crypto.Decrypt(ciphertext, nonce, password)
//	if errors.Is(err, crypto.ErrAuthentication) {
//	    // wrong password, corrupted frame, or chunks out of order
//	}
//
// # Cipher Suites
//
// SuiteAESGCM (AES-256-GCM) is the default. SuiteChaCha20Poly1305 is
// available for hardware without AES acceleration. Both produce the same
// frame layout; the suite is not recorded in the frame.
//
//	suite, err := crypto.ParseSuite("chacha20-poly1305")
//	ciphertext, nonce, err := suite.Encrypt(compressed, password)
//
// # Secrets
//
// Passwords are passed into every call and never stored. Derived keys are
// wiped with ZeroBytes once the AEAD has been constructed and used. Logging
// only ever records sizes and previews of non-secret values.
package crypto
