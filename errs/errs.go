// Package errs defines the sentinel errors for the error taxonomy used
// across the cbor codec: Range, Type, Framing, Protocol, Truncation, and
// Usage. Callers can test the category of a failure with errors.Is against
// these sentinels instead of matching error strings.
package errs

import (
	"errors"
	"fmt"
)

var (
	// Range indicates a numeric value outside its permitted range: an
	// integer operand beyond the encoder's 31-bit limit, a Simple value
	// outside [0, 255], or a decoded Array/Map length above the decoder's cap.
	Range = errors.New("range")

	// Type indicates an encoder saw an unsupported primitive or could not
	// read a stream value, or a tag decoder rejected its inner Item (wrong
	// variant, or content that does not parse or decompress).
	Type = errors.New("type")

	// Framing indicates an invalid additional-information byte during
	// decode.
	Framing = errors.New("framing")

	// Protocol indicates a tag immediately followed another tag.
	Protocol = errors.New("protocol")

	// Truncation indicates the input ended with a pending read still
	// outstanding.
	Truncation = errors.New("truncation")

	// Usage indicates the caller passed an argument of the wrong shape.
	Usage = errors.New("usage")
)

// WithRange wraps msg as a Range error.
func WithRange(msg string) error { return fmt.Errorf("%s: %w", msg, Range) }

// WithType wraps msg as a Type error.
func WithType(msg string) error { return fmt.Errorf("%s: %w", msg, Type) }

// WithFraming wraps msg as a Framing error.
func WithFraming(msg string) error { return fmt.Errorf("%s: %w", msg, Framing) }

// WithProtocol wraps msg as a Protocol error.
func WithProtocol(msg string) error { return fmt.Errorf("%s: %w", msg, Protocol) }

// WithTruncation wraps msg as a Truncation error.
func WithTruncation(msg string) error { return fmt.Errorf("%s: %w", msg, Truncation) }

// WithUsage wraps msg as a Usage error.
func WithUsage(msg string) error { return fmt.Errorf("%s: %w", msg, Usage) }
