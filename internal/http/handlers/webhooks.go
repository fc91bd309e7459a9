package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/monaltech/saleor/internal/http/middleware"
	"github.com/monaltech/saleor/internal/modules/cybersource"
	"github.com/monaltech/saleor/internal/modules/payments"
	"github.com/monaltech/saleor/internal/storage"
)

// WebhookProcessor reconciles one gateway notification payload.
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, data map[string]string) (*cybersource.Response, error)
}

type WebhookHandler struct {
	Processor WebhookProcessor
	Config    *cybersource.Config
	Logger    *slog.Logger

	// Archive keeps raw payloads for disputes; nil disables archival.
	Archive storage.Storage
}

func NewWebhookHandler(p WebhookProcessor, cfg *cybersource.Config, l *slog.Logger) *WebhookHandler {
	return &WebhookHandler{Processor: p, Config: cfg, Logger: l}
}

// Notify is the server-to-server notification endpoint. The gateway
// retries until it reads a 2xx, so the body is a bare OK/ERROR.
func (h *WebhookHandler) Notify(c *gin.Context) {
	data := formData(c)
	h.archive(c.Request.Context(), "notify", data)

	resp, err := h.Processor.HandleWebhook(c.Request.Context(), data)
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "notification rejected",
			"request_id", middleware.GetRequestID(c),
			"reference_number", data[cybersource.FieldReqReferenceNumber],
			"err", err)
		c.String(http.StatusInternalServerError, "ERROR")
		return
	}

	h.Logger.InfoContext(c.Request.Context(), "notification processed",
		"request_id", middleware.GetRequestID(c),
		"reference_number", resp.Get(cybersource.FieldReqReferenceNumber, ""),
		"decision", string(resp.Status()),
		"reason_code", resp.Code())
	c.String(http.StatusOK, "OK")
}

// returnPayload is what the storefront reads back out of the redirect.
type returnPayload struct {
	Code    int    `json:"code"`
	Label   string `json:"label"`
	Message string `json:"message"`
	Status  string `json:"status"`
	OrderID string `json:"order_id,omitempty"`
}

// Return handles the customer coming back from the hosted payment page.
// The browser always ends up on the storefront, whatever happened; the
// outcome travels as a base64 JSON blob in the payment query parameter.
func (h *WebhookHandler) Return(c *gin.Context) {
	data := formData(c)
	h.archive(c.Request.Context(), "return", data)

	var payload returnPayload

	resp, err := h.Processor.HandleWebhook(c.Request.Context(), data)
	switch {
	case err == nil:
		payload = returnPayload{
			Code:    resp.Code(),
			Label:   resp.Status().Label(),
			Message: resp.Message(),
			Status:  string(resp.Status()),
			OrderID: resp.Get("order_id", ""),
		}
	default:
		h.Logger.WarnContext(c.Request.Context(), "return rejected",
			"request_id", middleware.GetRequestID(c),
			"reference_number", data[cybersource.FieldReqReferenceNumber],
			"err", err)

		payload = returnPayload{
			Code:    payments.CodeValidation,
			Label:   cybersource.StatusError.Label(),
			Message: "Unable to process your payment. Please contact support.",
			Status:  string(cybersource.StatusError),
		}
		var pe *payments.PaymentError
		if errors.As(err, &pe) && pe.Code != 0 {
			payload.Code = pe.Code
		}
	}

	c.Redirect(http.StatusSeeOther, h.redirectTo(payload))
}

func (h *WebhookHandler) redirectTo(p returnPayload) string {
	base := h.Config.CancelURL
	if cybersource.Status(p.Status).Confirmable() {
		base = h.Config.ReturnURL
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return base
	}
	sep := "?"
	if u, err := url.Parse(base); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return base + sep + "payment=" + base64.URLEncoding.EncodeToString(raw)
}

func (h *WebhookHandler) archive(ctx context.Context, source string, data map[string]string) {
	if h.Archive == nil || len(data) == 0 {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	name := fmt.Sprintf("%s-%s-%d.json",
		source, data[cybersource.FieldReqReferenceNumber], time.Now().UnixNano())

	if _, err := h.Archive.Put(ctx, bytes.NewReader(raw), storage.PutInput{
		Filename:    name,
		ContentType: "application/json",
		Size:        int64(len(raw)),
	}); err != nil {
		h.Logger.WarnContext(ctx, "payload archive failed", "source", source, "err", err)
	}
}

// formData flattens POST form fields and query parameters into the flat
// map the verifier expects. POST fields win on collision.
func formData(c *gin.Context) map[string]string {
	data := map[string]string{}
	for name, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			data[name] = values[0]
		}
	}
	if err := c.Request.ParseForm(); err == nil {
		for name, values := range c.Request.PostForm {
			if len(values) > 0 {
				data[name] = values[0]
			}
		}
	}
	return data
}
