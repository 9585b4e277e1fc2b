package handlers

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/pos-checkout/internal/api/middleware"
	"github.com/jafarshop/pos-checkout/internal/checkout"
	"github.com/jafarshop/pos-checkout/internal/domain"
	"github.com/jafarshop/pos-checkout/internal/gateway"
	"github.com/jafarshop/pos-checkout/internal/receipt"
	"github.com/jafarshop/pos-checkout/pkg/errors"
)

// SubmitRequest is the checkout submission payload from the terminal UI.
type SubmitRequest struct {
	CustomerName  string     `json:"customerName" binding:"required"`
	PhoneNumber   string     `json:"phoneNumber" binding:"required"`
	Items         []CartLine `json:"cartItems" binding:"required,min=1"`
	PaymentMethod string     `json:"paymentMethod" binding:"required"`
}

type CartLine struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

// SubmitResponse carries the new session's identity back to the UI, which
// polls session state for progress.
type SubmitResponse struct {
	SessionID string         `json:"sessionId"`
	Phase     checkout.Phase `json:"phase"`
}

// GatewayResultRequest is the SDK outcome the browser posts back after the
// confirmation handshake.
type GatewayResultRequest struct {
	Outcome                string `json:"outcome" binding:"required"`
	GatewayIntentID        string `json:"gatewayPaymentIntentId"`
	GatewayPaymentMethodID string `json:"gatewayPaymentMethodId"`
	ErrorMessage           string `json:"errorMessage"`
	GatewayUnavailable     bool   `json:"gatewayUnavailable"`
}

// GatewayValidationRequest is a field-level validation event from the SDK's
// card fields, reported independently of submission.
type GatewayValidationRequest struct {
	Field    string `json:"field" binding:"required"`
	Message  string `json:"message"`
	Resolved bool   `json:"resolved"`
}

// HandleSubmitCheckout begins a session and dispatches the submission. The
// checkout runs asynchronously; the UI polls the session for its phase.
func HandleSubmitCheckout(manager *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		session, err := manager.Begin()
		if err != nil {
			respondError(c, logger, err)
			return
		}

		lines := make([]domain.CartLine, 0, len(req.Items))
		for _, item := range req.Items {
			lines = append(lines, domain.CartLine{
				ItemID:    item.ItemID,
				Name:      item.Name,
				UnitPrice: item.Price,
				Quantity:  item.Quantity,
			})
		}

		input := checkout.SubmitInput{
			CustomerName: req.CustomerName,
			PhoneNumber:  req.PhoneNumber,
			Lines:        lines,
			Method:       domain.PaymentMethod(req.PaymentMethod),
			BearerToken:  middleware.GetBearerToken(c),
		}

		// The gateway leg suspends on the browser handshake, so the
		// submission cannot be tied to this request's lifetime.
		go func() {
			if err := session.Submit(context.Background(), input); err != nil {
				logger.Warn("Checkout finished with error",
					zap.String("session_id", session.ID().String()),
					zap.Error(err),
				)
			}
		}()

		c.JSON(http.StatusAccepted, SubmitResponse{
			SessionID: session.ID().String(),
			Phase:     session.Phase(),
		})
	}
}

// HandleGetCheckout returns the session snapshot, including unresolved
// gateway field errors so the UI can gate submission.
func HandleGetCheckout(manager *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, bridge, ok := lookupSession(c, manager, logger)
		if !ok {
			return
		}

		snap := session.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"session":            snap,
			"gatewayFieldErrors": bridge.FieldErrors(),
			"submissionBlocked":  bridge.Blocked(),
		})
	}
}

// HandleGatewayResult resolves the pending confirmation handshake with the
// SDK outcome reported by the browser.
func HandleGatewayResult(manager *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, bridge, ok := lookupSession(c, manager, logger)
		if !ok {
			return
		}

		var req GatewayResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		conf := &gateway.Confirmation{
			Outcome:                gateway.Outcome(req.Outcome),
			GatewayIntentID:        req.GatewayIntentID,
			GatewayPaymentMethodID: req.GatewayPaymentMethodID,
			ErrorMessage:           req.ErrorMessage,
			GatewayUnavailable:     req.GatewayUnavailable,
		}

		if err := bridge.Resolve(conf); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleGatewayValidation records a field-level validation event from the
// SDK's card fields.
func HandleGatewayValidation(manager *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, bridge, ok := lookupSession(c, manager, logger)
		if !ok {
			return
		}

		var req GatewayValidationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		bridge.ReportValidation(gateway.ValidationEvent{
			Field:    req.Field,
			Message:  req.Message,
			Resolved: req.Resolved,
		})

		c.Status(http.StatusNoContent)
	}
}

// HandleCancelCheckout abandons the pending gateway handshake. Only valid
// while the session awaits the gateway.
func HandleCancelCheckout(manager *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _, ok := lookupSession(c, manager, logger)
		if !ok {
			return
		}

		if err := session.Cancel(); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleGetReceipt renders a printable receipt for a settled session.
func HandleGetReceipt(manager *checkout.Manager, presenter *receipt.Presenter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _, ok := lookupSession(c, manager, logger)
		if !ok {
			return
		}

		content, err := presenter.Render(session.Snapshot())
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		c.String(http.StatusOK, content)
	}
}

func lookupSession(c *gin.Context, manager *checkout.Manager, logger *zap.Logger) (*checkout.Session, *gateway.ResultBridge, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, nil, false
	}

	session, err := manager.Get(id)
	if err != nil {
		respondError(c, logger, err)
		return nil, nil, false
	}

	bridge, err := manager.BridgeFor(id)
	if err != nil {
		respondError(c, logger, err)
		return nil, nil, false
	}

	return session, bridge, true
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validationErr *errors.ErrValidation
		busyErr       *errors.ErrBusy
		notFoundErr   *errors.ErrNotFound
		transitionErr *errors.ErrInvalidStateTransition
	)

	switch {
	case stderrors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case stderrors.As(err, &busyErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case stderrors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case stderrors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled checkout error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
