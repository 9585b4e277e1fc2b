package checkout

// Phase is the current position of a payment session in the checkout flow.
type Phase string

const (
	PhaseIdle                      Phase = "IDLE"
	PhaseSubmitting                Phase = "SUBMITTING"
	PhaseOrderCreated              Phase = "ORDER_CREATED"
	PhaseAwaitingGateway           Phase = "AWAITING_GATEWAY"
	PhaseVerifying                 Phase = "VERIFYING"
	PhaseSettled                   Phase = "SETTLED"
	PhaseFailedCleanedUp           Phase = "FAILED_CLEANED_UP"
	PhaseFailedNeedsReconciliation Phase = "FAILED_NEEDS_RECONCILIATION"
)

// IsValid checks if the phase is valid
func (p Phase) IsValid() bool {
	switch p {
	case PhaseIdle, PhaseSubmitting, PhaseOrderCreated, PhaseAwaitingGateway,
		PhaseVerifying, PhaseSettled, PhaseFailedCleanedUp,
		PhaseFailedNeedsReconciliation:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the session is finished. A terminal session
// accepts no further triggers; the cashier must start a new checkout.
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseSettled, PhaseFailedCleanedUp, PhaseFailedNeedsReconciliation:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a phase transition is valid
func (p Phase) CanTransitionTo(next Phase) bool {
	switch p {
	case PhaseIdle:
		return next == PhaseSubmitting
	case PhaseSubmitting:
		// Cash settles directly; electronic moves on to the gateway leg;
		// a failed order creation returns to idle for a fresh submission.
		return next == PhaseIdle ||
			next == PhaseSettled ||
			next == PhaseOrderCreated
	case PhaseOrderCreated:
		return next == PhaseAwaitingGateway
	case PhaseAwaitingGateway:
		return next == PhaseVerifying ||
			next == PhaseFailedCleanedUp
	case PhaseVerifying:
		// A business-level verification failure re-opens the gateway leg
		// with a fresh intent; a transport failure is terminal without
		// cleanup because the charge may have succeeded.
		return next == PhaseSettled ||
			next == PhaseAwaitingGateway ||
			next == PhaseFailedNeedsReconciliation
	case PhaseSettled, PhaseFailedCleanedUp, PhaseFailedNeedsReconciliation:
		return false // Terminal states
	default:
		return false
	}
}
