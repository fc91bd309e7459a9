package cybersource

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingSignature  = errors.New("no signature field in payment data")
	ErrEmptySignature    = errors.New("no signature value in payment data")
	ErrSignatureMismatch = errors.New("signature does not match")

	ErrCurrencyNotSupported = errors.New("currency not supported by gateway")
)

// ConfigError reports malformed gateway configuration. Raised at adapter
// construction, never later.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration parameters: %s", strings.Join(e.Missing, ", "))
}

// MissingFieldError reports a field absent from payment data during
// canonicalization or lookup.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %q is missing in payment data", e.Field)
}

// FieldCheckError reports required fields absent from a build request.
type FieldCheckError struct {
	Missing []string
}

func (e *FieldCheckError) Error() string {
	return fmt.Sprintf("required field(s) missing: %s", strings.Join(e.Missing, ", "))
}

// AmountError reports a non-numeric amount value.
type AmountError struct {
	Value string
	Err   error
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("amount format or type is invalid: %q", e.Value)
}

func (e *AmountError) Unwrap() error { return e.Err }

// FieldNotFoundError is returned by Response.Field for absent fields.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("response has no field %q", e.Field)
}
