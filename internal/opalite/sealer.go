package opalite

import "io"

// Sealer wraps exports in an encrypted envelope. Sealing needs only the
// public key; opening a sealed file needs the passphrase that protects the
// private key.
type Sealer interface {
	// Setup generates a key pair, stores the public key in plaintext and the
	// private key encrypted with passphrase. Called by `opalite keys init`.
	Setup(passphrase string) error

	// Seal reads plaintext from r and writes the envelope to w.
	Seal(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key and returns an Unsealer for this session.
	Unlock(passphrase string) (Unsealer, error)

	// IsSealed reports whether data looks like an envelope this sealer produces.
	IsSealed(data []byte) bool

	// IsConfigured returns true if both key files exist.
	IsConfigured() bool

	// Extension is appended to the filename of a sealed export.
	Extension() string
}

// Unsealer holds an unlocked private key in memory. It is never written to disk.
type Unsealer interface {
	Unseal(r io.Reader, w io.Writer) error
}
