package codec

import (
	"errors"
	"fmt"

	"opalite-go/internal/codec/native"
)

var (
	// ErrInvalidFormat means the input is not a parseable document at all.
	ErrInvalidFormat = native.ErrInvalidFormat
	// ErrMissingRequiredFields means the document parsed but lacked an id,
	// a color channel, or a palette name.
	ErrMissingRequiredFields = native.ErrMissingRequiredFields
	// ErrUnknownFormat is returned for a format id or extension not in the table.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnsupportedRecord means the format cannot carry the given record kind.
	ErrUnsupportedRecord = errors.New("format does not support this record")
)

// ExportError wraps a failure raised by an encoder.
type ExportError struct {
	Format FormatID
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// DecodeError wraps a decode failure that is neither ErrInvalidFormat nor
// ErrMissingRequiredFields.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// classifyDecode leaves the two known decode sentinels alone and wraps
// everything else in a DecodeError.
func classifyDecode(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrMissingRequiredFields) {
		return err
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Err: err}
}

// UserMessage renders err for display. Corrupt or unsupported files get a
// fixed message; other failures include the underlying cause.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrMissingRequiredFields) {
		return "This file is corrupted or unsupported."
	}

	var ee *ExportError
	if errors.As(err, &ee) {
		return fmt.Sprintf("Export failed: %v", ee.Err)
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return fmt.Sprintf("Import failed: %v", de.Err)
	}
	if errors.Is(err, ErrUnknownFormat) {
		return "This file type is not supported."
	}
	return fmt.Sprintf("Something went wrong: %v", err)
}
