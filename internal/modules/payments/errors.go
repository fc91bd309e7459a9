package payments

import (
	"errors"
	"fmt"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrCheckoutNotFound     = errors.New("checkout not found for payment")
	ErrDuplicateTransaction = errors.New("transaction already recorded")
)

// Reason codes attached to boundary errors, matching the gateway's own
// numbering for log correlation.
const (
	CodeValidation = 50
	CodeSignature  = 99
)

// PaymentError is the only error kind surfaced across the adapter
// boundary. Internal causes stay wrapped and never reach HTTP responses.
type PaymentError struct {
	Code int
	Msg  string
	Err  error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *PaymentError) Unwrap() error { return e.Err }

// HandlerError reports a checkout/order-side failure during
// reconciliation; it rolls back the whole reconciliation transaction.
type HandlerError struct {
	Op  string
	Err error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("unable to process %s: %v", e.Op, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
