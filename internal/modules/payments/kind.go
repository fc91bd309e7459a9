package payments

import "github.com/monaltech/saleor/internal/modules/cybersource"

// TransactionKind is where a payment attempt sits in the capture
// lifecycle.
type TransactionKind string

const (
	KindAuth    TransactionKind = "auth"
	KindCapture TransactionKind = "capture"
	KindConfirm TransactionKind = "confirm"
	KindVoid    TransactionKind = "void"
	KindRefund  TransactionKind = "refund"

	// KindActionToConfirm: the flow is paused awaiting the customer's
	// redirect round-trip.
	KindActionToConfirm TransactionKind = "action_to_confirm"
)

// ResolveKind maps an inbound gateway decision onto the transaction kind
// to record.
//
// A payment without a confirmable decision is still waiting on the
// redirect. A confirmable decision resolves a requested capture/confirm
// to CAPTURE only when the echoed transaction type explicitly signals a
// sale; an ambiguous accept is treated as authorization-only, never
// silently capturing funds. Other requested kinds pass through.
func ResolveKind(status cybersource.Status, echoedType string, requested TransactionKind) TransactionKind {
	if !status.Confirmable() {
		return KindActionToConfirm
	}
	if requested == KindCapture || requested == KindConfirm {
		if echoedType == cybersource.TransactionTypeCapture {
			return KindCapture
		}
		return KindAuth
	}
	return requested
}
