package nbt

import (
	"errors"
	"fmt"
)

// Decode failure kinds. Match them with errors.Is.
var (
	ErrEncoding    = errors.New("nbt: invalid base64")
	ErrCompression = errors.New("nbt: invalid gzip stream")
	ErrMalformed   = errors.New("nbt: malformed tag data")
)

// DecodeError reports why a blob could not be decoded.
type DecodeError struct {
	Kind error
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func malformed(format string, args ...any) error {
	return &DecodeError{Kind: ErrMalformed, Err: fmt.Errorf(format, args...)}
}
