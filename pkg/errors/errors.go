package errors

import "fmt"

// ErrValidation indicates user-correctable bad input. No network call was
// made when this is returned.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// ErrNetwork indicates a transport-level failure before any HTTP status was
// received.
type ErrNetwork struct {
	Op  string
	Err error
}

func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *ErrNetwork) Unwrap() error {
	return e.Err
}

// ErrServer indicates a backend-side failure (non-2xx HTTP status).
type ErrServer struct {
	Op   string
	Code int
	Body string
}

func (e *ErrServer) Error() string {
	return fmt.Sprintf("server error during %s: status %d: %s", e.Op, e.Code, e.Body)
}

// ErrGatewayDeclined indicates an authoritative charge failure reported by
// the gateway handshake.
type ErrGatewayDeclined struct {
	Message string
}

func (e *ErrGatewayDeclined) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Message)
}

// ErrGatewayUnavailable indicates the gateway client library could not be
// loaded or the gateway could not issue an intent.
type ErrGatewayUnavailable struct {
	Reason string
}

func (e *ErrGatewayUnavailable) Error() string {
	return fmt.Sprintf("payment gateway unavailable: %s", e.Reason)
}

// ErrReconciliationRequired indicates the verification call itself failed
// after the client reported a successful charge. The order is deliberately
// left PENDING because the charge may have actually succeeded; an operator
// must investigate.
type ErrReconciliationRequired struct {
	OrderID string
	Err     error
}

func (e *ErrReconciliationRequired) Error() string {
	return fmt.Sprintf("payment verification inconclusive for order %s, manual reconciliation required: %v", e.OrderID, e.Err)
}

func (e *ErrReconciliationRequired) Unwrap() error {
	return e.Err
}

// ErrUserCancelled indicates the cashier abandoned the gateway handshake.
type ErrUserCancelled struct{}

func (e *ErrUserCancelled) Error() string {
	return "payment cancelled by user"
}

// ErrBusy indicates a trigger was rejected because the session already has
// a checkout in flight.
type ErrBusy struct {
	Phase string
}

func (e *ErrBusy) Error() string {
	return fmt.Sprintf("checkout already in progress (phase %s)", e.Phase)
}

// ErrInvalidStateTransition indicates an attempted phase transition that the
// session state machine does not allow.
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrNotFound indicates a resource lookup failed.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}
