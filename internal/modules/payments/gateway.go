package payments

import (
	"context"
	"log/slog"
	"sort"

	"github.com/monaltech/saleor/internal/modules/cybersource"
)

// PaymentData is the platform's view of one payment attempt handed to
// the gateway adapter.
type PaymentData struct {
	PaymentID string
	OrderID   string

	// Amount as a decimal string; the builder normalizes it to two
	// decimal places.
	Amount   string
	Currency string

	Token string
	Email string

	Billing *cybersource.Address

	// Data carries inbound gateway fields on the confirm path.
	Data map[string]string
}

// Reference returns the reference_number for this attempt: the order id
// when known, else the payment id.
func (d PaymentData) Reference() string {
	if d.OrderID != "" {
		return d.OrderID
	}
	return d.PaymentID
}

// RedirectData is everything the frontend needs to hand the customer off
// to the hosted payment page.
type RedirectData struct {
	Action string
	Fields *cybersource.Fields
	TxnID  string
}

// GatewayResponse is the adapter's answer to one gateway entry point.
type GatewayResponse struct {
	IsSuccess      bool
	ActionRequired bool

	ActionRequiredData *RedirectData

	Kind          TransactionKind
	Amount        string
	Currency      string
	TransactionID string
	SearchableKey string

	RawResponse map[string]string
	Error       string
}

// Gateway orchestrates the signing core and the store against the
// platform's payment-gateway contract.
type Gateway struct {
	cfg     *cybersource.Config
	builder *cybersource.Builder
	store   Store
	logger  *slog.Logger
}

// NewGateway fails fast on malformed configuration.
func NewGateway(cfg *cybersource.Config, store Store) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gateway{
		cfg:     cfg,
		builder: cybersource.NewBuilder(cfg),
		store:   store,
		logger:  slog.Default(),
	}, nil
}

func (g *Gateway) SetLogger(logger *slog.Logger) {
	g.logger = logger
}

// Builder exposes the request builder, mainly for test injection.
func (g *Gateway) Builder() *cybersource.Builder { return g.builder }

// DefaultKind is the kind recorded when the caller requests none.
func (g *Gateway) DefaultKind() TransactionKind {
	if g.cfg.AutoCapture {
		return KindCapture
	}
	return KindAuth
}

// SupportedCurrencies returns the profile's currency allowlist.
func (g *Gateway) SupportedCurrencies() []string {
	return g.cfg.SupportedCurrencies
}

func (g *Gateway) Authorize(info PaymentData) GatewayResponse {
	return g.simple(info, KindAuth)
}

func (g *Gateway) Capture(info PaymentData) GatewayResponse {
	return g.simple(info, KindCapture)
}

func (g *Gateway) Confirm(info PaymentData) GatewayResponse {
	return g.simple(info, KindCapture)
}

func (g *Gateway) Void(info PaymentData) GatewayResponse {
	return g.simple(info, KindVoid)
}

func (g *Gateway) Refund(info PaymentData) GatewayResponse {
	return g.simple(info, KindRefund)
}

// simple acknowledges lifecycle entry points that need no gateway
// round-trip in a redirect-based integration.
func (g *Gateway) simple(info PaymentData, kind TransactionKind) GatewayResponse {
	return GatewayResponse{
		IsSuccess:     true,
		Kind:          kind,
		Amount:        info.Amount,
		Currency:      info.Currency,
		TransactionID: info.Token,
	}
}

// ProcessPayment drives the redirect state machine.
//
// Without a well-formed client token the attempt has not been redirected
// yet: a fresh token and signed redirect payload are issued, idempotently
// on every call. With a token, the payment is looked up and the
// transaction kind resolved from the inbound decision.
func (g *Gateway) ProcessPayment(ctx context.Context, info PaymentData, requested TransactionKind) (GatewayResponse, error) {
	if requested == "" {
		requested = g.DefaultKind()
	}

	if !cybersource.IsClientToken(info.Token, false) {
		return g.createPayment(info)
	}

	payment, err := g.store.PaymentByID(ctx, info.PaymentID)
	if err != nil {
		return GatewayResponse{}, &PaymentError{Msg: "error processing payment", Err: err}
	}
	if payment == nil {
		return GatewayResponse{}, &PaymentError{
			Msg: "payment information not found for id " + info.PaymentID,
			Err: ErrPaymentNotFound,
		}
	}

	kind := requested
	if payment.ToConfirm {
		kind = ResolveKind(
			cybersource.Status(info.Data[cybersource.FieldDecision]),
			info.Data[cybersource.FieldReqTransactionType],
			requested)
	}

	resp := GatewayResponse{
		IsSuccess:      true,
		ActionRequired: kind == KindActionToConfirm,
		Kind:           kind,
		Amount:         info.Amount,
		Currency:       info.Currency,
		TransactionID:  info.Token,
		SearchableKey:  cybersource.Searchable(info.Token),
	}
	if len(info.Data) > 0 {
		raw := make(map[string]string, len(info.Data))
		for k, v := range info.Data {
			raw[k] = v
		}
		resp.RawResponse = raw
	}
	return resp, nil
}

func (g *Gateway) createPayment(info PaymentData) (GatewayResponse, error) {
	token := cybersource.NewClientToken()

	fields := cybersource.NewFields()
	fields.Set(cybersource.FieldAmount, info.Amount)
	if info.Currency != "" {
		fields.Set(cybersource.FieldCurrency, info.Currency)
	}
	fields.Set(cybersource.FieldReferenceNumber, info.Reference())
	fields.Set(cybersource.FieldTransactionUUID, cybersource.Searchable(token))

	billing := cybersource.MapAddress(info.Billing, info.Email)
	names := make([]string, 0, len(billing))
	for name := range billing {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fields.Set(name, billing[name])
	}

	built, err := g.builder.Build(fields)
	if err != nil {
		g.logger.Warn("payment request build failed",
			"reference_number", info.Reference(), "err", err)
		return GatewayResponse{}, &PaymentError{
			Code: CodeValidation,
			Msg:  "unable to build payment request",
			Err:  err,
		}
	}

	return GatewayResponse{
		IsSuccess:      true,
		ActionRequired: true,
		ActionRequiredData: &RedirectData{
			Action: g.cfg.Endpoint(),
			Fields: built,
			TxnID:  token,
		},
		Kind:          KindActionToConfirm,
		Amount:        built.Value(cybersource.FieldAmount),
		Currency:      built.Value(cybersource.FieldCurrency),
		TransactionID: token,
		SearchableKey: cybersource.Searchable(token),
	}, nil
}
