package cybersource

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-key"

// signedPayload signs every field of data over its own signed_field_names
// declaration, the way the gateway does on the way back.
func signedPayload(t *testing.T, secret string, data map[string]string) map[string]string {
	t.Helper()

	out := make(map[string]string, len(data)+2)
	for k, v := range data {
		out[k] = v
	}

	names := make([]string, 0, len(out)+1)
	for name := range out {
		names = append(names, name)
	}
	names = append(names, FieldSignedFieldNames)
	sort.Strings(names)
	out[FieldSignedFieldNames] = strings.Join(names, SignedFieldSep)

	sig, err := NewSigner(secret).Sign(FieldsFrom(out), names)
	require.NoError(t, err)
	out[FieldSignature] = sig
	return out
}

func TestCanonicalize(t *testing.T) {
	f := NewFields()
	f.Set("b", "2")
	f.Set("a", "1")

	s, err := Canonicalize(f, []string{"a", "b"}, ",", "=")
	require.NoError(t, err)
	assert.Equal(t, "a=1,b=2", s)

	s, err = Canonicalize(f, []string{"a", "b"}, "|", "")
	require.NoError(t, err)
	assert.Equal(t, "1|2", s)
}

func TestCanonicalizeMissingField(t *testing.T) {
	f := NewFields()
	f.Set("a", "1")

	_, err := Canonicalize(f, []string{"a", "b"}, ",", "=")
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "b", mfe.Field)
}

func TestSignDeterministic(t *testing.T) {
	f := NewFields()
	f.Set("amount", "10.00")
	f.Set("currency", "NPR")

	signer := NewSigner(testSecret)
	s1, err := signer.Sign(f, []string{"amount", "currency"})
	require.NoError(t, err)
	s2, err := signer.Sign(f, []string{"amount", "currency"})
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	// Order is part of the signed input.
	s3, err := signer.Sign(f, []string{"currency", "amount"})
	require.NoError(t, err)
	assert.NotEqual(t, s1, s3)
}

func TestVerifyRoundTrip(t *testing.T) {
	data := signedPayload(t, testSecret, map[string]string{
		FieldDecision:           "ACCEPT",
		FieldReasonCode:         "100",
		FieldReqReferenceNumber: "pay-1",
	})

	resp, err := NewSigner(testSecret).Verify(data)
	require.NoError(t, err)
	assert.Equal(t, StatusAccept, resp.Status())
	assert.Equal(t, 100, resp.Code())
	assert.Equal(t, "pay-1", resp.Get(FieldReqReferenceNumber, ""))
}

func TestVerifyRejectsTampering(t *testing.T) {
	data := signedPayload(t, testSecret, map[string]string{
		FieldDecision:  "ACCEPT",
		FieldReqAmount: "10.00",
	})
	data[FieldReqAmount] = "9999.00"

	_, err := NewSigner(testSecret).Verify(data)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	data := signedPayload(t, testSecret, map[string]string{
		FieldDecision: "ACCEPT",
	})

	_, err := NewSigner("other-secret").Verify(data)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyMissingSignature(t *testing.T) {
	_, err := NewSigner(testSecret).Verify(map[string]string{
		FieldDecision: "ACCEPT",
	})
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifyEmptySignature(t *testing.T) {
	_, err := NewSigner(testSecret).Verify(map[string]string{
		FieldDecision:  "ACCEPT",
		FieldSignature: "",
	})
	assert.ErrorIs(t, err, ErrEmptySignature)
}

func TestVerifyMissingSignedFieldNames(t *testing.T) {
	_, err := NewSigner(testSecret).Verify(map[string]string{
		FieldDecision:  "ACCEPT",
		FieldSignature: "Zm9v",
	})
	var mfe *MissingFieldError
	assert.True(t, errors.As(err, &mfe))
}

func TestVerifyIgnoresUnsignedFields(t *testing.T) {
	data := signedPayload(t, testSecret, map[string]string{
		FieldDecision: "ACCEPT",
	})

	// Fields outside signed_field_names carry no trust and never break
	// verification.
	data["utf8"] = "✓"

	resp, err := NewSigner(testSecret).Verify(data)
	require.NoError(t, err)
	assert.Equal(t, "✓", resp.Get("utf8", ""))
}

func TestVerifyDeclaredFieldAbsent(t *testing.T) {
	data := signedPayload(t, testSecret, map[string]string{
		FieldDecision:  "ACCEPT",
		FieldReqAmount: "10.00",
	})
	delete(data, FieldReqAmount)

	_, err := NewSigner(testSecret).Verify(data)
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, FieldReqAmount, mfe.Field)
}
