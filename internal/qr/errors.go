package qr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEncodingCapacityExceeded is returned when the payload does not fit
	// any QR version at the requested error correction level.
	ErrEncodingCapacityExceeded = errors.New("encoding capacity exceeded")
	// ErrAssetUnavailable marks a logo or font that could not be read or decoded.
	// The pipeline never fails because of it; the step is skipped instead.
	ErrAssetUnavailable = errors.New("asset unavailable")
	// ErrInvalidColor is returned for malformed color values.
	ErrInvalidColor = errors.New("invalid color specification")
	// ErrInvalidConfig is returned when a GenerationConfig violates its invariants.
	ErrInvalidConfig = errors.New("invalid generation config")
)

// remedyCapacity is shown to users when the payload is too large.
const remedyCapacity = "shorten the content or lower the error correction level (e.g. to L)"

// CapacityError describes a payload that is too large for its error correction level.
type CapacityError struct {
	Level      ErrorCorrection
	PayloadLen int
	Remedy     string
	cause      error
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("content too large for a QR code at level %s (%d bytes): %s", e.Level, e.PayloadLen, e.Remedy)
}

// Is reports ErrEncodingCapacityExceeded so callers can match with errors.Is.
func (e *CapacityError) Is(target error) bool {
	return target == ErrEncodingCapacityExceeded
}

// Unwrap returns the encoder's original error.
func (e *CapacityError) Unwrap() error { return e.cause }

func newCapacityError(level ErrorCorrection, payload string, cause error) error {
	return &CapacityError{
		Level:      level,
		PayloadLen: len(payload),
		Remedy:     remedyCapacity,
		cause:      cause,
	}
}

// IsUserError reports whether err is caused by the request rather than the host.
func IsUserError(err error) bool {
	return errors.Is(err, ErrEncodingCapacityExceeded) ||
		errors.Is(err, ErrInvalidColor) ||
		errors.Is(err, ErrInvalidConfig)
}
