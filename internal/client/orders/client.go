package orders

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

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Order Service client
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.OrderServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CreateOrder submits an order request and returns the persisted order with
// its server-assigned orderId. The backend stores the order as PENDING.
func (c *Client) CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	url := fmt.Sprintf("%s/orders", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &errors.ErrNetwork{Op: "createOrder", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.ErrNetwork{Op: "createOrder", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &errors.ErrValidation{Message: fmt.Sprintf("order rejected by backend: %s", string(body))}
	default:
		return nil, &errors.ErrServer{Op: "createOrder", Code: resp.StatusCode, Body: string(body)}
	}

	var order domain.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order response: %w", err)
	}

	c.logger.Info("Order created",
		zap.String("order_id", order.OrderID),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.Float64("grand_total", order.GrandTotal),
	)

	return &order, nil
}

// DeleteOrder removes a PENDING order. A not-found response counts as
// success: the order is already gone, which is what the caller wanted. Used
// exclusively as a compensating action.
func (c *Client) DeleteOrder(ctx context.Context, token string, orderID string) error {
	url := fmt.Sprintf("%s/orders/%s", c.baseURL, orderID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &errors.ErrNetwork{Op: "deleteOrder", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.logger.Info("Order deleted", zap.String("order_id", orderID))
		return nil
	case resp.StatusCode == http.StatusNotFound:
		// Already removed; treat as success.
		c.logger.Info("Order already absent on delete", zap.String("order_id", orderID))
		return nil
	default:
		return &errors.ErrServer{Op: "deleteOrder", Code: resp.StatusCode, Body: string(body)}
	}
}
