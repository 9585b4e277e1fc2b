package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/pos-checkout/internal/billing"
	"github.com/jafarshop/pos-checkout/internal/client/payments"
	"github.com/jafarshop/pos-checkout/internal/domain"
	"github.com/jafarshop/pos-checkout/internal/gateway"
	"github.com/jafarshop/pos-checkout/pkg/errors"
)

// OrderService creates and deletes order records against the backend.
type OrderService interface {
	CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error)
	DeleteOrder(ctx context.Context, token string, orderID string) error
}

// PaymentService requests payment intents and verifies completed payments
// against the trusted backend.
type PaymentService interface {
	CreateIntent(ctx context.Context, token string, req payments.IntentRequest) (*domain.PaymentIntentRef, error)
	VerifyPayment(ctx context.Context, token string, req payments.VerifyRequest) (*payments.VerificationResult, error)
}

// SubmitInput is one checkout submission from the cashier.
type SubmitInput struct {
	CustomerName string
	PhoneNumber  string
	Lines        []domain.CartLine
	Method       domain.PaymentMethod
	BearerToken  string
}

// Snapshot is a read-only copy of the session state for the UI.
type Snapshot struct {
	ID        uuid.UUID              `json:"id"`
	Phase     Phase                  `json:"phase"`
	Totals    billing.Totals         `json:"totals"`
	Order     *domain.Order          `json:"order,omitempty"`
	Payment   *domain.PaymentDetails `json:"payment,omitempty"`
	LastError string                 `json:"lastError,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// Session owns the state of exactly one checkout attempt, from submission to
// a terminal outcome. One goroutine drives a submission end to end; the busy
// guard makes any second trigger fail fast instead of interleaving, so the
// session never has two outstanding network requests.
type Session struct {
	id        uuid.UUID
	orders    OrderService
	payments  PaymentService
	confirmer gateway.Confirmer
	currency  string
	logger    *zap.Logger

	mu              sync.Mutex
	phase           Phase
	totals          billing.Totals
	order           *domain.Order
	intent          *domain.PaymentIntentRef
	payment         *domain.PaymentDetails
	lastErr         error
	token           string
	input           SubmitInput
	updatedAt       time.Time
	cancelRequested bool
	cancelLeg       context.CancelFunc
}

// NewSession creates a new payment session in the idle phase.
func NewSession(
	orders OrderService,
	paySvc PaymentService,
	confirmer gateway.Confirmer,
	currency string,
	logger *zap.Logger,
) *Session {
	return &Session{
		id:        uuid.New(),
		orders:    orders,
		payments:  paySvc,
		confirmer: confirmer,
		currency:  currency,
		logger:    logger,
		phase:     PhaseIdle,
		updatedAt: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Snapshot returns a read-only copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.id,
		Phase:     s.phase,
		Totals:    s.totals,
		UpdatedAt: s.updatedAt,
	}
	if s.order != nil {
		orderCopy := *s.order
		snap.Order = &orderCopy
	}
	if s.payment != nil {
		paymentCopy := *s.payment
		snap.Payment = &paymentCopy
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Submit drives one checkout to a terminal outcome. It validates the input,
// creates the order, and for electronic payment runs the gateway leg with
// its compensating cleanup. It blocks until the session reaches a terminal
// phase (or, on order-creation failure, returns to idle).
func (s *Session) Submit(ctx context.Context, input SubmitInput) error {
	s.mu.Lock()
	if s.phase != PhaseIdle {
		phase := s.phase
		s.mu.Unlock()
		return &errors.ErrBusy{Phase: string(phase)}
	}
	if err := validateInput(input); err != nil {
		// Rejected before any network call; the session stays idle.
		s.mu.Unlock()
		return err
	}

	totals := billing.Calculate(input.Lines)
	s.totals = totals
	s.input = input
	s.token = input.BearerToken
	s.lastErr = nil
	s.setPhaseLocked(PhaseSubmitting)
	s.mu.Unlock()

	orderReq := domain.OrderRequest{
		CustomerName:  input.CustomerName,
		PhoneNumber:   input.PhoneNumber,
		CartItems:     input.Lines,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		GrandTotal:    totals.GrandTotal,
		PaymentMethod: input.Method,
	}

	order, err := s.orders.CreateOrder(ctx, s.token, orderReq)
	if err != nil {
		s.logger.Error("Order creation failed", zap.Error(err))
		s.mu.Lock()
		s.lastErr = err
		s.setPhaseLocked(PhaseIdle)
		s.mu.Unlock()
		return err
	}

	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	s.mu.Lock()
	s.order = order
	s.mu.Unlock()

	if input.Method == domain.PaymentMethodCash {
		// Cash settles immediately; no gateway call is ever made.
		s.mu.Lock()
		s.order.Status = domain.OrderStatusPaid
		s.lastErr = nil
		s.setPhaseLocked(PhaseSettled)
		s.mu.Unlock()
		s.logger.Info("Cash checkout settled", zap.String("order_id", order.OrderID))
		return nil
	}

	s.mu.Lock()
	s.setPhaseLocked(PhaseOrderCreated)
	s.mu.Unlock()

	return s.runGatewayLeg(ctx)
}

// runGatewayLeg drives intent creation, the confirmation handshake and
// verification. Every failure downstream of order creation that abandons the
// charge routes through exactly one compensating delete.
func (s *Session) runGatewayLeg(ctx context.Context) error {
	billingDetails := gateway.BillingDetails{
		Name:  s.input.CustomerName,
		Phone: s.input.PhoneNumber,
	}

	for {
		retry, err := s.gatewayAttempt(ctx, billingDetails)
		if !retry {
			return err
		}
	}
}

// gatewayAttempt runs one intent/confirm/verify round. retry is true when
// verification reported an authoritative failure and the leg should re-open
// with a fresh intent. The attempt's network calls run under a cancellable
// context so a manual cancel aborts an in-flight intent request too, not
// just a pending handshake.
func (s *Session) gatewayAttempt(ctx context.Context, billingDetails gateway.BillingDetails) (retry bool, err error) {
	legCtx, cancelLeg := context.WithCancel(ctx)
	defer cancelLeg()

	s.mu.Lock()
	s.intent = nil // a retry must request a fresh intent
	s.cancelLeg = cancelLeg
	s.setPhaseLocked(PhaseAwaitingGateway)
	grandTotal := s.totals.GrandTotal
	orderID := s.order.OrderID
	s.mu.Unlock()

	intent, err := s.payments.CreateIntent(legCtx, s.token, payments.IntentRequest{
		Amount:   grandTotal,
		Currency: s.currency,
	})
	if err != nil {
		if s.cancelled() {
			s.logger.Info("Payment cancelled during intent creation", zap.String("order_id", orderID))
			return false, s.failCleanedUp(ctx, &errors.ErrUserCancelled{})
		}
		s.logger.Error("Payment intent creation failed", zap.Error(err))
		return false, s.failCleanedUp(ctx, err)
	}

	s.mu.Lock()
	s.intent = intent
	s.mu.Unlock()

	conf, err := s.confirmer.ConfirmPayment(legCtx, intent.ClientSecret, billingDetails)
	if err != nil {
		if s.cancelled() {
			s.logger.Info("Payment cancelled by user", zap.String("order_id", orderID))
			return false, s.failCleanedUp(ctx, &errors.ErrUserCancelled{})
		}
		s.logger.Error("Gateway confirmation aborted", zap.Error(err))
		return false, s.failCleanedUp(ctx, err)
	}

	switch conf.Outcome {
	case gateway.OutcomeUserCancelled:
		s.logger.Info("Payment cancelled by user", zap.String("order_id", orderID))
		return false, s.failCleanedUp(ctx, &errors.ErrUserCancelled{})

	case gateway.OutcomeFailed:
		if conf.GatewayUnavailable {
			s.logger.Error("Gateway client unavailable", zap.String("reason", conf.ErrorMessage))
			return false, s.failCleanedUp(ctx, &errors.ErrGatewayUnavailable{Reason: conf.ErrorMessage})
		}
		s.logger.Warn("Gateway confirmation failed",
			zap.String("order_id", orderID),
			zap.String("message", conf.ErrorMessage),
		)
		return false, s.failCleanedUp(ctx, &errors.ErrGatewayDeclined{Message: conf.ErrorMessage})

	case gateway.OutcomeSucceeded:
		s.mu.Lock()
		s.setPhaseLocked(PhaseVerifying)
		s.mu.Unlock()

		intentID := conf.GatewayIntentID
		if intentID == "" {
			intentID = intent.GatewayIntentID
		}

		result, err := s.payments.VerifyPayment(ctx, s.token, payments.VerifyRequest{
			OrderID:                orderID,
			GatewayIntentID:        intentID,
			GatewayPaymentMethodID: conf.GatewayPaymentMethodID,
			ClientSecret:           intent.ClientSecret,
		})
		if err != nil {
			// The verification call itself failed after the client
			// reported success. The charge may have gone through, so the
			// order stays PENDING; deleting it here could lose a paid
			// order. An operator has to reconcile.
			reconcile := &errors.ErrReconciliationRequired{OrderID: orderID, Err: err}
			s.logger.Error("Payment verification inconclusive",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
			s.mu.Lock()
			s.lastErr = reconcile
			s.setPhaseLocked(PhaseFailedNeedsReconciliation)
			s.mu.Unlock()
			return false, reconcile
		}

		if result.Status == payments.VerificationCompleted {
			s.mu.Lock()
			s.payment = &domain.PaymentDetails{
				GatewayIntentID:        intentID,
				GatewayPaymentMethodID: conf.GatewayPaymentMethodID,
				ClientSecret:           intent.ClientSecret,
				Status:                 string(payments.VerificationCompleted),
			}
			s.order.Status = domain.OrderStatusPaid
			s.lastErr = nil
			s.setPhaseLocked(PhaseSettled)
			s.mu.Unlock()
			s.logger.Info("Payment settled",
				zap.String("order_id", orderID),
				zap.String("gateway_intent_id", intentID),
			)
			return false, nil
		}

		// Authoritative business failure: the order is legitimately
		// unpaid, so no cleanup. Re-open the gateway leg so the cashier
		// can retry with a fresh intent.
		s.logger.Warn("Payment verification reported failure, retrying handshake",
			zap.String("order_id", orderID),
		)
		s.mu.Lock()
		s.lastErr = &errors.ErrGatewayDeclined{Message: "payment verification reported failure"}
		s.mu.Unlock()
		return true, nil

	default:
		return false, s.failCleanedUp(ctx, &errors.ErrGatewayDeclined{Message: "unknown confirmation outcome"})
	}
}

// Cancel abandons the gateway leg on the cashier's behalf. It is accepted
// at any point while awaiting the gateway, including while the intent
// request is still in flight; once verification has been sent it must run
// to completion or error, otherwise a possibly-successful charge would be
// lost track of.
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.phase != PhaseAwaitingGateway {
		phase := s.phase
		s.mu.Unlock()
		return &errors.ErrInvalidStateTransition{
			From: string(phase),
			To:   string(PhaseFailedCleanedUp),
		}
	}
	s.cancelRequested = true
	cancelLeg := s.cancelLeg
	s.mu.Unlock()

	// A pending handshake resolves cleanly through the bridge; otherwise
	// abort whatever attempt call is in flight.
	if canceler, ok := s.confirmer.(gateway.Canceler); ok && canceler.CancelPending() {
		return nil
	}
	if cancelLeg != nil {
		cancelLeg()
	}
	return nil
}

func (s *Session) cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelRequested
}

// failCleanedUp runs the compensating delete and moves the session to its
// cleaned-up terminal phase. Every failure path downstream of order creation
// on the gateway leg funnels through here, so the delete is issued exactly
// once per session.
func (s *Session) failCleanedUp(ctx context.Context, cause error) error {
	s.mu.Lock()
	orderID := s.order.OrderID
	s.intent = nil
	s.lastErr = cause
	s.mu.Unlock()

	if err := s.orders.DeleteOrder(ctx, s.token, orderID); err != nil {
		// An orphaned PENDING order is a data-hygiene issue, not a checkout
		// failure; never escalate past here.
		s.logger.Warn("Compensating order delete failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}

	s.mu.Lock()
	if s.order != nil {
		s.order.Status = domain.OrderStatusCancelled
	}
	s.setPhaseLocked(PhaseFailedCleanedUp)
	s.mu.Unlock()

	return cause
}

// setPhaseLocked transitions the session phase. Callers hold s.mu.
func (s *Session) setPhaseLocked(next Phase) {
	if !s.phase.CanTransitionTo(next) {
		s.logger.Error("Invalid session phase transition",
			zap.String("from", string(s.phase)),
			zap.String("to", string(next)),
		)
		return
	}
	s.phase = next
	s.updatedAt = time.Now()
}

func validateInput(input SubmitInput) error {
	if !input.Method.IsValid() {
		return &errors.ErrValidation{Field: "paymentMethod", Message: "must be CASH or ELECTRONIC"}
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return &errors.ErrValidation{Field: "customerName", Message: "must not be empty"}
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		return &errors.ErrValidation{Field: "phoneNumber", Message: "must not be empty"}
	}
	if len(input.Lines) == 0 {
		return &errors.ErrValidation{Field: "cartItems", Message: "cart is empty"}
	}
	for _, line := range input.Lines {
		if line.UnitPrice <= 0 {
			return &errors.ErrValidation{Field: "cartItems", Message: "unit price must be positive"}
		}
		if line.Quantity <= 0 {
			return &errors.ErrValidation{Field: "cartItems", Message: "quantity must be positive"}
		}
	}
	return nil
}
