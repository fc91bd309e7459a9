package cybersource

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Separators of the canonical signing string. Fixed by the Secure
// Acceptance contract.
const (
	SignedFieldSep = ","
	SignedValueSep = "="
)

// Signer computes and verifies Secure Acceptance signatures. It is
// stateless apart from the secret key and safe for concurrent use.
type Signer struct {
	secret []byte
}

func NewSigner(secretKey string) *Signer {
	return &Signer{secret: []byte(secretKey)}
}

// Canonicalize renders fields in the caller-supplied order as
// "name{valueSep}value" pairs joined by fieldSep. An empty valueSep
// renders bare values. Order is significant: signature stability depends
// on the caller passing a stably sorted order, not on this function.
func Canonicalize(fields *Fields, order []string, fieldSep, valueSep string) (string, error) {
	parts := make([]string, 0, len(order))
	for _, name := range order {
		value, ok := fields.Get(name)
		if !ok {
			return "", &MissingFieldError{Field: name}
		}
		if valueSep == "" {
			parts = append(parts, value)
		} else {
			parts = append(parts, name+valueSep+value)
		}
	}
	return strings.Join(parts, fieldSep), nil
}

// Sign computes the base64 HMAC-SHA256 signature over the canonical
// string of the given fields in the given order. Deterministic for
// identical (fields restricted to order, order, secret).
func (s *Signer) Sign(fields *Fields, order []string) (string, error) {
	data, err := Canonicalize(fields, order, SignedFieldSep, SignedValueSep)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks the signature of an inbound field set against the order
// declared in its own signed_field_names and wraps it as a Response.
// Any failure discards the payload's trust entirely.
func (s *Signer) Verify(data map[string]string) (*Response, error) {
	fields := FieldsFrom(data)

	signature, ok := fields.Get(FieldSignature)
	if !ok {
		return nil, ErrMissingSignature
	}
	if signature == "" {
		return nil, ErrEmptySignature
	}

	names, ok := fields.Get(FieldSignedFieldNames)
	if !ok {
		return nil, &MissingFieldError{Field: FieldSignedFieldNames}
	}
	order := strings.Split(names, SignedFieldSep)

	want, err := s.Sign(fields, order)
	if err != nil {
		return nil, err
	}
	if !hmac.Equal([]byte(signature), []byte(want)) {
		return nil, ErrSignatureMismatch
	}
	return NewResponse(data), nil
}
