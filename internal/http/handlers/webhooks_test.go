package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monaltech/saleor/internal/modules/cybersource"
	"github.com/monaltech/saleor/internal/modules/payments"
)

type stubProcessor struct {
	resp *cybersource.Response
	err  error
	got  map[string]string
}

func (s *stubProcessor) HandleWebhook(_ context.Context, data map[string]string) (*cybersource.Response, error) {
	s.got = data
	return s.resp, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func webhookRouter(p WebhookProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &cybersource.Config{
		ReturnURL: "https://shop.example.com/payment/done",
		CancelURL: "https://shop.example.com/payment/cancelled",
	}
	h := NewWebhookHandler(p, cfg, testLogger())

	r := gin.New()
	r.POST("/webhooks/cybersource/notify", h.Notify)
	r.POST("/webhooks/cybersource/return", h.Return)
	r.GET("/webhooks/cybersource/return", h.Return)
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeReturnPayload(t *testing.T, location string) returnPayload {
	t.Helper()
	u, err := url.Parse(location)
	require.NoError(t, err)
	raw, err := base64.URLEncoding.DecodeString(u.Query().Get("payment"))
	require.NoError(t, err)
	var p returnPayload
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func TestNotifyOK(t *testing.T) {
	stub := &stubProcessor{resp: cybersource.NewResponse(map[string]string{
		cybersource.FieldDecision:   "ACCEPT",
		cybersource.FieldReasonCode: "100",
	})}
	r := webhookRouter(stub)

	w := postForm(r, "/webhooks/cybersource/notify", url.Values{
		"decision": {"ACCEPT"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.Equal(t, "ACCEPT", stub.got["decision"])
}

func TestNotifyError(t *testing.T) {
	stub := &stubProcessor{err: errors.New("boom")}
	r := webhookRouter(stub)

	w := postForm(r, "/webhooks/cybersource/notify", url.Values{})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "ERROR", w.Body.String())
}

func TestReturnRedirectsOnSuccess(t *testing.T) {
	stub := &stubProcessor{resp: cybersource.NewResponse(map[string]string{
		cybersource.FieldDecision:   "ACCEPT",
		cybersource.FieldReasonCode: "100",
		"order_id":                  "order-1",
	})}
	r := webhookRouter(stub)

	w := postForm(r, "/webhooks/cybersource/return", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "https://shop.example.com/payment/done?payment="), loc)

	p := decodeReturnPayload(t, loc)
	assert.Equal(t, 100, p.Code)
	assert.Equal(t, "Accepted", p.Label)
	assert.Equal(t, "ACCEPT", p.Status)
	assert.Equal(t, "order-1", p.OrderID)
}

func TestReturnRedirectsToCancelOnDecline(t *testing.T) {
	stub := &stubProcessor{resp: cybersource.NewResponse(map[string]string{
		cybersource.FieldDecision:   "DECLINE",
		cybersource.FieldReasonCode: "203",
	})}
	r := webhookRouter(stub)

	w := postForm(r, "/webhooks/cybersource/return", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "https://shop.example.com/payment/cancelled?payment="), loc)

	p := decodeReturnPayload(t, loc)
	assert.Equal(t, 203, p.Code)
	assert.Equal(t, "DECLINE", p.Status)
	assert.Equal(t, "Payment was declined", p.Message)
}

func TestReturnRedirectsOnVerificationFailure(t *testing.T) {
	stub := &stubProcessor{err: &payments.PaymentError{
		Code: payments.CodeSignature,
		Msg:  "cannot verify response data sent by payment gateway",
	}}
	r := webhookRouter(stub)

	w := postForm(r, "/webhooks/cybersource/return", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "https://shop.example.com/payment/cancelled?payment="), loc)

	p := decodeReturnPayload(t, loc)
	assert.Equal(t, payments.CodeSignature, p.Code)
	assert.Equal(t, "ERROR", p.Status)
	// Internal error text never leaks into the redirect.
	assert.NotContains(t, p.Message, "verify response data")
}

func TestReturnAcceptsGet(t *testing.T) {
	stub := &stubProcessor{resp: cybersource.NewResponse(map[string]string{
		cybersource.FieldDecision: "ACCEPT",
	})}
	r := webhookRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/webhooks/cybersource/return?decision=ACCEPT&req_amount=50.00", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "ACCEPT", stub.got["decision"])
	assert.Equal(t, "50.00", stub.got["req_amount"])
}

func TestFormDataPostWinsOverQuery(t *testing.T) {
	stub := &stubProcessor{resp: cybersource.NewResponse(nil)}
	r := webhookRouter(stub)

	req := httptest.NewRequest(http.MethodPost,
		"/webhooks/cybersource/notify?decision=DECLINE&extra=q",
		strings.NewReader(url.Values{"decision": {"ACCEPT"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "ACCEPT", stub.got["decision"])
	assert.Equal(t, "q", stub.got["extra"])
}
