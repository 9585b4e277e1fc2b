package gateway

import "context"

// Outcome is the result of one client-side confirmation handshake.
type Outcome string

const (
	OutcomeSucceeded     Outcome = "SUCCEEDED"
	OutcomeFailed        Outcome = "FAILED"
	OutcomeUserCancelled Outcome = "USER_CANCELLED"
)

// IsValid checks if the outcome is valid
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSucceeded, OutcomeFailed, OutcomeUserCancelled:
		return true
	default:
		return false
	}
}

// BillingDetails is the customer information handed to the gateway SDK for
// the handshake.
type BillingDetails struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Confirmation is the gateway SDK's report on one confirmation attempt.
type Confirmation struct {
	Outcome                Outcome `json:"outcome"`
	GatewayIntentID        string  `json:"gatewayPaymentIntentId,omitempty"`
	GatewayPaymentMethodID string  `json:"gatewayPaymentMethodId,omitempty"`
	ErrorMessage           string  `json:"errorMessage,omitempty"`
	// GatewayUnavailable marks that the SDK itself failed to load, as
	// opposed to a decline of the charge.
	GatewayUnavailable bool `json:"gatewayUnavailable,omitempty"`
}

// Confirmer drives the client-side gateway handshake for one intent. It is
// the only component permitted to talk to the gateway's client SDK.
type Confirmer interface {
	ConfirmPayment(ctx context.Context, clientSecret string, billing BillingDetails) (*Confirmation, error)
}

// Canceler is implemented by confirmers that can abandon a pending
// handshake on the cashier's behalf, resolving it as USER_CANCELLED.
type Canceler interface {
	CancelPending() bool
}

// ValidationEvent is a field-level validation report from the gateway SDK,
// delivered independently of the main handshake so the UI can gate
// submission until the field is resolved.
type ValidationEvent struct {
	Field    string `json:"field"`
	Message  string `json:"message,omitempty"`
	Resolved bool   `json:"resolved"`
}

// ValidationNotifier is implemented by confirmers that surface field-level
// validation state as a side channel.
type ValidationNotifier interface {
	SetValidationHandler(fn func(ValidationEvent))
}
