package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/monaltech/saleor/internal/modules/cybersource"
	"github.com/monaltech/saleor/internal/modules/orders"
)

// Reconciler turns validated gateway notifications into durable
// transaction and order state. All writes for one notification happen in
// a single Store.Atomic transaction; a retry of the same notification is
// a no-op.
type Reconciler struct {
	cfg    *cybersource.Config
	signer *cybersource.Signer
	store  Store
	logger *slog.Logger
}

func NewReconciler(cfg *cybersource.Config, store Store) *Reconciler {
	return &Reconciler{
		cfg:    cfg,
		signer: cybersource.NewSigner(cfg.SecretKey),
		store:  store,
		logger: slog.Default(),
	}
}

func (r *Reconciler) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

// HandleWebhook processes one notify or browser-return payload.
//
// Signature verification happens before any lookup; a payload that fails
// it is never trusted, not even partially. Confirmable decisions (ACCEPT,
// REVIEW) are reconciled inside one atomic transaction; failed decisions
// only echo back as a Response for the caller's redirect.
func (r *Reconciler) HandleWebhook(ctx context.Context, data map[string]string) (*cybersource.Response, error) {
	resp, err := r.signer.Verify(data)
	if err != nil {
		r.logger.WarnContext(ctx, "webhook validation failed",
			"reference_number", data[cybersource.FieldReqReferenceNumber],
			"err", err)
		return nil, translateVerify(err)
	}

	if !resp.Status().Confirmable() {
		r.logger.InfoContext(ctx, "webhook not confirmable",
			"reference_number", resp.Get(cybersource.FieldReqReferenceNumber, ""),
			"decision", string(resp.Status()),
			"reason_code", resp.Code())
		return resp, nil
	}

	if err := r.store.Atomic(ctx, func(s Store) error {
		return r.reconcile(ctx, s, resp)
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *Reconciler) reconcile(ctx context.Context, s Store, resp *cybersource.Response) error {
	reference, err := resp.Field(cybersource.FieldReqReferenceNumber)
	if err != nil {
		return &PaymentError{Code: CodeValidation, Msg: "notification carries no reference number", Err: err}
	}

	payment, err := s.PaymentByReference(ctx, reference)
	if err != nil {
		return &PaymentError{Msg: "error processing response from payment gateway", Err: err}
	}
	if payment == nil {
		// The gateway believes a real payment happened; this must
		// surface, not be swallowed.
		r.logger.WarnContext(ctx, "payment not found for webhook", "reference_number", reference)
		return &PaymentError{
			Msg: fmt.Sprintf("payment information not found for ref %s", reference),
			Err: ErrPaymentNotFound,
		}
	}

	if payment.ToConfirm {
		if err := r.confirm(ctx, s, payment, resp); err != nil {
			var he *HandlerError
			if errors.As(err, &he) {
				r.logger.ErrorContext(ctx, "webhook reconciliation failed",
					"reference_number", reference, "token", payment.Token, "err", err)
				return &PaymentError{Msg: he.Error(), Err: he}
			}
			var pe *PaymentError
			if errors.As(err, &pe) {
				return err
			}
			return &PaymentError{Msg: "error processing response from payment gateway", Err: err}
		}
	}

	if payment.OrderID != nil {
		resp.Add("order_id", *payment.OrderID)
	}
	return nil
}

// confirm performs the idempotent transaction upsert and drives order
// creation. The payment row is already locked by the caller's lookup.
func (r *Reconciler) confirm(ctx context.Context, s Store, payment *Payment, resp *cybersource.Response) error {
	token, err := resp.Field(cybersource.FieldReqTransactionUUID)
	if err != nil {
		return &PaymentError{Code: CodeValidation, Msg: "notification carries no transaction token", Err: err}
	}

	kind := ResolveKind(resp.Status(), resp.Get(cybersource.FieldReqTransactionType, ""), r.defaultKind())
	raw, err := json.Marshal(resp.Data())
	if err != nil {
		return err
	}

	existing, err := s.LastTransaction(ctx, TransactionFilter{
		PaymentID:      payment.ID,
		Token:          token,
		Kind:           KindActionToConfirm,
		ActionRequired: true,
		IsSuccess:      true,
	})
	if err != nil {
		return err
	}

	created := false
	if existing == nil {
		now := time.Now()
		txn := &Transaction{
			ID:             uuid.NewString(),
			PaymentID:      payment.ID,
			Kind:           kind,
			Token:          token,
			ActionRequired: kind == KindActionToConfirm,
			IsSuccess:      true,
			SearchableKey:  cybersource.Searchable(token),
			Amount:         resp.Get(cybersource.FieldReqAmount, ""),
			Currency:       resp.Get(cybersource.FieldReqCurrency, ""),
			RawResponse:    datatypes.JSON(raw),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		switch err := s.CreateTransaction(ctx, txn); {
		case err == nil:
			created = true
		case errors.Is(err, ErrDuplicateTransaction):
			// Concurrent delivery of the same notification already
			// recorded it; the row lock serialized us behind it.
			r.logger.InfoContext(ctx, "webhook deduplicated",
				"reference_number", payment.Reference, "token", token)
		default:
			return err
		}
	} else {
		cols := transactionChanges(existing, kind, kind == KindActionToConfirm, token, raw)
		if len(cols) > 0 {
			if err := s.SaveTransaction(ctx, existing, cols...); err != nil {
				return err
			}
		}
	}

	var payCols []string

	// Adopt the client token when the stored one predates the redirect.
	if payment.Token != token &&
		!cybersource.IsClientToken(payment.Token, false) &&
		cybersource.IsClientToken(token, false) {
		payment.Token = token
		payCols = append(payCols, "token")
	}

	if kind != KindActionToConfirm {
		if payment.OrderID == nil {
			if err := r.createOrder(ctx, s, payment, resp); err != nil {
				return err
			}
			payCols = append(payCols, "order_id")
		}
		if payment.ToConfirm {
			payment.ToConfirm = false
			payCols = append(payCols, "to_confirm")
		}
	}

	if err := s.SavePayment(ctx, payment, payCols...); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "webhook reconciled",
		"reference_number", payment.Reference,
		"token", token,
		"kind", string(kind),
		"created", created)
	return nil
}

// createOrder delegates to the checkout collaborator, exactly once and
// never retried here; its failure rolls the whole reconciliation back.
func (r *Reconciler) createOrder(ctx context.Context, s Store, payment *Payment, resp *cybersource.Response) error {
	ck, err := s.CheckoutForPayment(ctx, payment)
	if err != nil {
		return err
	}
	if ck == nil {
		r.logger.WarnContext(ctx, "checkout not found for payment",
			"reference_number", payment.Reference, "token", payment.Token)
		return &HandlerError{Op: "checkout", Err: ErrCheckoutNotFound}
	}

	order, err := s.CompleteCheckout(ctx, ck, resp.Data())
	if err != nil {
		return &HandlerError{Op: "order", Err: err}
	}
	payment.OrderID = &order.ID

	return s.EnsureFinancialEntry(ctx, &orders.FinancialEntry{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		Event:       "payment_confirmed",
		AmountCents: payment.TotalCents,
		Currency:    payment.Currency,
		RefType:     "payment",
		RefID:       payment.ID,
		CreatedAt:   time.Now(),
	})
}

func (r *Reconciler) defaultKind() TransactionKind {
	if r.cfg.AutoCapture {
		return KindCapture
	}
	return KindAuth
}

// transactionChanges applies the resolved state to an existing
// transaction and returns the columns that actually changed. Searchable
// key and raw response are only filled when unset, never overwritten.
func transactionChanges(t *Transaction, kind TransactionKind, actionRequired bool, token string, raw []byte) []string {
	var cols []string
	if t.Kind != kind {
		t.Kind = kind
		cols = append(cols, "kind")
	}
	if t.ActionRequired != actionRequired {
		t.ActionRequired = actionRequired
		cols = append(cols, "action_required")
	}
	if t.SearchableKey == "" {
		t.SearchableKey = cybersource.Searchable(token)
		cols = append(cols, "searchable_key")
	}
	if len(t.RawResponse) == 0 {
		t.RawResponse = raw
		cols = append(cols, "raw_response")
	}
	return cols
}

func translateVerify(err error) error {
	if errors.Is(err, cybersource.ErrSignatureMismatch) {
		return &PaymentError{
			Code: CodeSignature,
			Msg:  "cannot verify response data sent by payment gateway",
			Err:  err,
		}
	}
	return &PaymentError{
		Code: CodeValidation,
		Msg:  "unable to validate response sent by payment gateway",
		Err:  err,
	}
}
