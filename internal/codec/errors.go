package codec

import (
	"errors"
	"fmt"
)

var (
	ErrIO                 = errors.New("codec: io failure")
	ErrEncoding           = errors.New("codec: malformed encoding")
	ErrTruncated          = errors.New("codec: truncated data")
	ErrUnsupportedVersion = errors.New("codec: unsupported version")
	ErrUnknownKeyKind     = errors.New("codec: unknown key kind")
	ErrNonCanonical       = errors.New("codec: non-canonical compact size")
	ErrTooLarge           = errors.New("codec: sequence too large")
)

// FieldError reports a field whose bytes could not be decoded.
type FieldError struct {
	Field  string
	Offset int
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("codec: field %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is makes every FieldError an ErrEncoding.
func (e *FieldError) Is(target error) bool {
	return target == ErrEncoding
}

// VersionError reports a version marker newer (or older) than the reader understands.
type VersionError struct {
	Scope   string
	Version uint64
	Min     uint64
	Max     uint64
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("codec: unsupported %s version %d (supported %d..%d)", e.Scope, e.Version, e.Min, e.Max)
}

func (e *VersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// CheckVersion returns a *VersionError when v is outside [min, max].
func CheckVersion(scope string, v, min, max uint64) error {
	if v < min || v > max {
		return &VersionError{Scope: scope, Version: v, Min: min, Max: max}
	}
	return nil
}

// Malformed builds a FieldError for a structural violation at offset.
func Malformed(field string, offset int, format string, args ...any) error {
	return &FieldError{Field: field, Offset: offset, Err: fmt.Errorf(format, args...)}
}
