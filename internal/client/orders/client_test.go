package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/pos-checkout/internal/config"
	"github.com/jafarshop/pos-checkout/internal/domain"
	"github.com/jafarshop/pos-checkout/pkg/errors"
)

func newTestClient(url string) *Client {
	return NewClient(config.BackendConfig{OrderServiceURL: url}, zap.NewNop())
}

func sampleRequest() domain.OrderRequest {
	return domain.OrderRequest{
		CustomerName: "Asha",
		PhoneNumber:  "9876543210",
		CartItems: []domain.CartLine{
			{ItemID: "item-1", Name: "Masala Dosa", UnitPrice: 100, Quantity: 2},
		},
		Subtotal:      200,
		Tax:           2,
		GrandTotal:    202,
		PaymentMethod: domain.PaymentMethodCash,
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.OrderRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Asha", req.CustomerName)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Order{
			OrderID:       "ord-42",
			CustomerName:  req.CustomerName,
			PhoneNumber:   req.PhoneNumber,
			CartItems:     req.CartItems,
			Subtotal:      req.Subtotal,
			Tax:           req.Tax,
			GrandTotal:    req.GrandTotal,
			PaymentMethod: req.PaymentMethod,
			Status:        domain.OrderStatusPending,
		})
	}))
	defer srv.Close()

	order, err := newTestClient(srv.URL).CreateOrder(context.Background(), "tok-123", sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "ord-42", order.OrderID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}

func TestCreateOrder_BackendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing customer fields", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateOrder(context.Background(), "tok", sampleRequest())
	var validationErr *errors.ErrValidation
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateOrder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateOrder(context.Background(), "tok", sampleRequest())
	var serverErr *errors.ErrServer
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.Code)
}

func TestCreateOrder_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newTestClient(srv.URL).CreateOrder(context.Background(), "tok", sampleRequest())
	var netErr *errors.ErrNetwork
	require.ErrorAs(t, err, &netErr)
}

func TestDeleteOrder(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/orders/ord-42", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, newTestClient(srv.URL).DeleteOrder(context.Background(), "tok", "ord-42"))
	assert.Equal(t, 1, calls)
}

func TestDeleteOrder_NotFoundIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such order", http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	// Deleting twice never produces an error: the second call is a no-op.
	require.NoError(t, client.DeleteOrder(context.Background(), "tok", "ord-42"))
	require.NoError(t, client.DeleteOrder(context.Background(), "tok", "ord-42"))
}

func TestDeleteOrder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).DeleteOrder(context.Background(), "tok", "ord-42")
	var serverErr *errors.ErrServer
	require.ErrorAs(t, err, &serverErr)
}
