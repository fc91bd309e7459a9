package cybersource

// Status is the gateway decision on a payment attempt.
type Status string

const (
	StatusAccept  Status = "ACCEPT"
	StatusReview  Status = "REVIEW"
	StatusDecline Status = "DECLINE"
	StatusCancel  Status = "CANCEL"
	StatusError   Status = "ERROR"
)

var statusLabels = map[Status]string{
	StatusAccept:  "Accepted",
	StatusReview:  "In Review",
	StatusDecline: "Declined",
	StatusCancel:  "Cancelled",
	StatusError:   "Error!",
}

var statusMessages = map[Status]string{
	StatusAccept:  "Payment accepted",
	StatusReview:  "Payment is in review",
	StatusDecline: "Payment was declined",
	StatusCancel:  "Payment is cancelled",
	StatusError:   "Payment processing error",
}

// Label returns the display label, falling back to the raw status code.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Message returns the default customer message, or "" for unknown codes.
func (s Status) Message() string {
	return statusMessages[s]
}

// Confirmable reports whether the customer actually completed the hosted
// flow (ACCEPT or REVIEW) and the webhook should act on it.
func (s Status) Confirmable() bool {
	return s == StatusAccept || s == StatusReview
}

// Failed reports a terminal failure decision (CANCEL, DECLINE, ERROR).
func (s Status) Failed() bool {
	return s == StatusDecline || s == StatusCancel || s == StatusError
}
