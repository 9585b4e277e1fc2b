package gateway

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ResultBridge bridges the gateway handshake between the checkout core and
// the terminal UI. The SDK runs in the cashier's browser; the core suspends
// in ConfirmPayment until the UI posts the SDK's outcome back, which
// resolves the pending handshake.
type ResultBridge struct {
	mu           sync.Mutex
	pending      chan *Confirmation
	fieldErrors  map[string]string
	onValidation func(ValidationEvent)
	logger       *zap.Logger
}

// NewResultBridge creates a new result bridge
func NewResultBridge(logger *zap.Logger) *ResultBridge {
	return &ResultBridge{
		fieldErrors: make(map[string]string),
		logger:      logger,
	}
}

// ConfirmPayment blocks until the UI reports the SDK outcome for this
// intent, the handshake is cancelled, or the context ends. Only one
// handshake may be pending at a time.
func (b *ResultBridge) ConfirmPayment(ctx context.Context, clientSecret string, billing BillingDetails) (*Confirmation, error) {
	b.mu.Lock()
	if b.pending != nil {
		b.mu.Unlock()
		return nil, fmt.Errorf("a confirmation handshake is already pending")
	}
	ch := make(chan *Confirmation, 1)
	b.pending = ch
	b.mu.Unlock()

	b.logger.Info("Awaiting gateway confirmation",
		zap.String("customer", billing.Name),
	)

	select {
	case conf := <-ch:
		return conf, nil
	case <-ctx.Done():
		b.mu.Lock()
		if b.pending == ch {
			b.pending = nil
		}
		b.mu.Unlock()
		return nil, ctx.Err()
	}
}

// Resolve delivers the SDK outcome reported by the UI to the suspended
// handshake. Returns an error if no handshake is pending.
func (b *ResultBridge) Resolve(conf *Confirmation) error {
	if !conf.Outcome.IsValid() {
		return fmt.Errorf("invalid confirmation outcome: %s", conf.Outcome)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		return fmt.Errorf("no confirmation handshake pending")
	}

	b.pending <- conf
	b.pending = nil
	return nil
}

// CancelPending resolves the pending handshake as USER_CANCELLED. Returns
// false if nothing was pending.
func (b *ResultBridge) CancelPending() bool {
	err := b.Resolve(&Confirmation{Outcome: OutcomeUserCancelled})
	return err == nil
}

// Pending reports whether a handshake is currently awaiting a result.
func (b *ResultBridge) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending != nil
}

// SetValidationHandler registers the side-channel callback for field-level
// validation events.
func (b *ResultBridge) SetValidationHandler(fn func(ValidationEvent)) {
	b.mu.Lock()
	b.onValidation = fn
	b.mu.Unlock()
}

// ReportValidation records a field-level validation event from the SDK and
// forwards it to the registered handler. Resolved events clear the field.
func (b *ResultBridge) ReportValidation(ev ValidationEvent) {
	b.mu.Lock()
	if ev.Resolved {
		delete(b.fieldErrors, ev.Field)
	} else {
		b.fieldErrors[ev.Field] = ev.Message
	}
	handler := b.onValidation
	b.mu.Unlock()

	if handler != nil {
		handler(ev)
	}
}

// FieldErrors returns a copy of the currently unresolved field errors.
func (b *ResultBridge) FieldErrors() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]string, len(b.fieldErrors))
	for k, v := range b.fieldErrors {
		out[k] = v
	}
	return out
}

// Blocked reports whether unresolved field errors should keep the UI from
// submitting the handshake.
func (b *ResultBridge) Blocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.fieldErrors) > 0
}
