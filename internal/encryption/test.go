package encryption

import (
	"bytes"
	"fmt"
	"io"

	"opalite-go/internal/opalite"
)

// testHeader marks data sealed by TestSealer.
var testHeader = []byte("OPALSEAL")

// TestSealer is a deterministic sealer for tests. It prepends a fixed header
// and strips it again, so sealed output differs from plaintext without any
// key material.
type TestSealer struct {
	setupCalled bool
	passphrase  string
}

var _ opalite.Sealer = (*TestSealer)(nil)

func NewTestSealer() *TestSealer {
	return &TestSealer{}
}

// Setup records passphrase; Unlock then accepts only that passphrase.
func (s *TestSealer) Setup(passphrase string) error {
	s.setupCalled = true
	s.passphrase = passphrase
	return nil
}

func (s *TestSealer) Seal(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (s *TestSealer) Unlock(passphrase string) (opalite.Unsealer, error) {
	if s.setupCalled && passphrase != s.passphrase {
		return nil, fmt.Errorf("incorrect passphrase")
	}
	return &TestUnsealer{}, nil
}

func (s *TestSealer) IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, testHeader)
}

func (s *TestSealer) IsConfigured() bool { return true }

func (s *TestSealer) Extension() string { return ".sealed" }

// TestUnsealer strips the header added by TestSealer.
type TestUnsealer struct{}

var _ opalite.Unsealer = (*TestUnsealer)(nil)

func (u *TestUnsealer) Unseal(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test seal header")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
