package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monaltech/saleor/internal/http/middleware"
	"github.com/monaltech/saleor/internal/modules/cybersource"
	"github.com/monaltech/saleor/internal/modules/payments"
)

type stubGateway struct {
	resp payments.GatewayResponse
	err  error
	got  payments.PaymentData
	kind payments.TransactionKind
}

func (s *stubGateway) ProcessPayment(_ context.Context, info payments.PaymentData, requested payments.TransactionKind) (payments.GatewayResponse, error) {
	s.got = info
	s.kind = requested
	return s.resp, s.err
}

func payRouter(g PaymentProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := testLogger()

	r := gin.New()
	r.Use(middleware.ErrorHandler(logger))
	r.POST("/pay", NewPaymentHandler(g, logger).Pay)
	return r
}

func redirectResponse() payments.GatewayResponse {
	fields := cybersource.NewFields()
	fields.Set(cybersource.FieldAmount, "50.00")
	fields.Set(cybersource.FieldSignature, "c2ln")
	return payments.GatewayResponse{
		IsSuccess:      true,
		ActionRequired: true,
		ActionRequiredData: &payments.RedirectData{
			Action: cybersource.TestURL,
			Fields: fields,
			TxnID:  "token-1",
		},
		Kind: payments.KindActionToConfirm,
	}
}

func validPayForm() url.Values {
	return url.Values{
		"payment_id": {"payment-1"},
		"amount":     {"50"},
		"email":      {"jane@example.com"},
		"first_name": {"Jane"},
	}
}

func TestPayRendersRedirectForm(t *testing.T) {
	stub := &stubGateway{resp: redirectResponse()}
	r := payRouter(stub)

	w := postForm(r, "/pay", validPayForm())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, `action="`+cybersource.TestURL+`"`)
	assert.Contains(t, body, `name="amount" value="50.00"`)
	assert.Contains(t, body, `name="signature"`)

	assert.Equal(t, "payment-1", stub.got.PaymentID)
	assert.Equal(t, "Jane", stub.got.Billing.FirstName)
	assert.Equal(t, payments.TransactionKind(""), stub.kind)
}

func TestPayReturnsJSONWhenAsked(t *testing.T) {
	stub := &stubGateway{resp: redirectResponse()}
	r := payRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/pay",
		strings.NewReader(validPayForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Action        string            `json:"action"`
		Fields        map[string]string `json:"fields"`
		TransactionID string            `json:"transaction_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, cybersource.TestURL, out.Action)
	assert.Equal(t, "50.00", out.Fields["amount"])
	assert.Equal(t, "token-1", out.TransactionID)
}

func TestPayValidatesInput(t *testing.T) {
	stub := &stubGateway{}
	r := payRouter(stub)

	form := validPayForm()
	form.Del("email")

	w := postForm(r, "/pay", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, stub.got.PaymentID, "processor must not run on invalid input")
}

func TestPayGatewayFailure(t *testing.T) {
	stub := &stubGateway{err: &payments.PaymentError{Code: payments.CodeValidation, Msg: "nope"}}
	r := payRouter(stub)

	w := postForm(r, "/pay", validPayForm())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "nope")
}

func TestPayNoRedirectNeeded(t *testing.T) {
	stub := &stubGateway{resp: payments.GatewayResponse{
		IsSuccess:     true,
		Kind:          payments.KindCapture,
		TransactionID: "token-1",
	}}
	r := payRouter(stub)

	form := validPayForm()
	form.Set("kind", "capture")

	w := postForm(r, "/pay", form)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, true, out["is_success"])
	assert.Equal(t, "capture", out["kind"])
	assert.Equal(t, payments.KindCapture, stub.kind)
}
