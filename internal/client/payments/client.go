package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/pos-checkout/internal/config"
	"github.com/jafarshop/pos-checkout/internal/domain"
	"github.com/jafarshop/pos-checkout/pkg/errors"
)

// VerificationStatus is the backend's authoritative answer about a charge.
type VerificationStatus string

const (
	VerificationCompleted VerificationStatus = "COMPLETED"
	VerificationFailed    VerificationStatus = "FAILED"
)

// IntentRequest asks the gateway backend for a payment intent sized to the
// grand total.
type IntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// VerifyRequest asks the trusted backend to re-confirm a charge with the
// gateway. The client-side SDK's own "succeeded" signal is never final truth.
type VerifyRequest struct {
	OrderID                string `json:"orderId"`
	GatewayIntentID        string `json:"gatewayPaymentIntentId"`
	GatewayPaymentMethodID string `json:"gatewayPaymentMethodId"`
	ClientSecret           string `json:"clientSecret"`
}

// VerificationResult is the backend's verdict on a completed handshake.
type VerificationResult struct {
	Status VerificationStatus `json:"status"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new payment gateway backend client
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.PaymentServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CreateIntent requests a gateway-side payment intent. Amount must be
// positive.
func (c *Client) CreateIntent(ctx context.Context, token string, req IntentRequest) (*domain.PaymentIntentRef, error) {
	if req.Amount <= 0 {
		return nil, &errors.ErrValidation{Field: "amount", Message: "must be positive"}
	}

	body, err := c.post(ctx, token, "/payments/create-payment-intent", req, "createIntent")
	if err != nil {
		return nil, err
	}

	var ref domain.PaymentIntentRef
	if err := json.Unmarshal(body, &ref); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intent response: %w", err)
	}

	c.logger.Info("Payment intent created",
		zap.String("gateway_intent_id", ref.GatewayIntentID),
		zap.Float64("amount", req.Amount),
		zap.String("currency", req.Currency),
	)

	return &ref, nil
}

// VerifyPayment asks the backend to re-confirm the charge's authoritative
// status with the gateway. A transport or server error here is transient:
// the charge may have actually succeeded, so callers must not delete the
// order on this path.
func (c *Client) VerifyPayment(ctx context.Context, token string, req VerifyRequest) (*VerificationResult, error) {
	body, err := c.post(ctx, token, "/payments/verify", req, "verifyPayment")
	if err != nil {
		return nil, err
	}

	var result VerificationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification response: %w", err)
	}

	c.logger.Info("Payment verified",
		zap.String("order_id", req.OrderID),
		zap.String("gateway_intent_id", req.GatewayIntentID),
		zap.String("status", string(result.Status)),
	)

	return &result, nil
}

func (c *Client) post(ctx context.Context, token, path string, payload interface{}, op string) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &errors.ErrNetwork{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.ErrNetwork{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if op == "createIntent" && resp.StatusCode == http.StatusServiceUnavailable {
			return nil, &errors.ErrGatewayUnavailable{Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, string(body))}
		}
		return nil, &errors.ErrServer{Op: op, Code: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
