package handlers

import (
	"context"
	"html"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monaltech/saleor/internal/http/middleware"
	"github.com/monaltech/saleor/internal/http/validation"
	"github.com/monaltech/saleor/internal/modules/cybersource"
	"github.com/monaltech/saleor/internal/modules/payments"
	"github.com/monaltech/saleor/internal/shared/apperr"
)

// PaymentProcessor starts or resumes one payment attempt.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, info payments.PaymentData, requested payments.TransactionKind) (payments.GatewayResponse, error)
}

type PaymentHandler struct {
	Processor PaymentProcessor
	Logger    *slog.Logger
}

func NewPaymentHandler(p PaymentProcessor, l *slog.Logger) *PaymentHandler {
	return &PaymentHandler{Processor: p, Logger: l}
}

type payInput struct {
	PaymentID string `form:"payment_id" binding:"required"`
	OrderID   string `form:"order_id"`
	Amount    string `form:"amount" binding:"required"`
	Currency  string `form:"currency"`
	Email     string `form:"email" binding:"required,email"`
	Kind      string `form:"kind"`

	FirstName   string `form:"first_name"`
	LastName    string `form:"last_name"`
	Street1     string `form:"street_address_1"`
	Street2     string `form:"street_address_2"`
	City        string `form:"city"`
	PostalCode  string `form:"postal_code"`
	Country     string `form:"country"`
	CountryArea string `form:"country_area"`
	CityArea    string `form:"city_area"`
	Phone       string `form:"phone"`
}

// Pay builds the signed redirect for a new payment attempt. A browser
// gets a self-submitting form aimed at the hosted payment page; an API
// caller gets the action and fields as JSON and posts them itself.
func (h *PaymentHandler) Pay(c *gin.Context) {
	var in payInput
	if err := c.ShouldBind(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid payment request.", validation.FromBindError(err, &in)))
		return
	}

	info := payments.PaymentData{
		PaymentID: in.PaymentID,
		OrderID:   in.OrderID,
		Amount:    in.Amount,
		Currency:  in.Currency,
		Email:     in.Email,
		Billing: &cybersource.Address{
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Line1:       in.Street1,
			Line2:       in.Street2,
			City:        in.City,
			PostalCode:  in.PostalCode,
			Country:     in.Country,
			CountryArea: in.CountryArea,
			CityArea:    in.CityArea,
			Phone:       in.Phone,
		},
	}

	resp, err := h.Processor.ProcessPayment(c.Request.Context(), info, payments.TransactionKind(in.Kind))
	if err != nil {
		h.Logger.WarnContext(c.Request.Context(), "payment start failed",
			"request_id", middleware.GetRequestID(c),
			"payment_id", in.PaymentID,
			"err", err)
		middleware.Fail(c, apperr.InvalidErr("Unable to start the payment.", nil))
		return
	}

	if resp.ActionRequiredData == nil {
		c.JSON(http.StatusOK, gin.H{
			"is_success":      resp.IsSuccess,
			"action_required": resp.ActionRequired,
			"kind":            string(resp.Kind),
			"transaction_id":  resp.TransactionID,
		})
		return
	}

	redirect := resp.ActionRequiredData
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"action":         redirect.Action,
			"fields":         redirect.Fields.Map(),
			"transaction_id": redirect.TxnID,
		})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(redirectPage(redirect)))
}

// redirectPage renders the interstitial that forwards the browser to the
// gateway. JS submits immediately; the button covers scripts-off clients.
func redirectPage(r *payments.RedirectData) string {
	return `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<p>Redirecting you to the secure payment page&hellip;</p>
<form method="post" action="` + html.EscapeString(r.Action) + `">
` + cybersource.HiddenInputs(r.Fields, "\n", true) + `
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>`
}
