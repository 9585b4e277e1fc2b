package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/pos-checkout/internal/api"
	"github.com/jafarshop/pos-checkout/internal/checkout"
	"github.com/jafarshop/pos-checkout/internal/client/orders"
	"github.com/jafarshop/pos-checkout/internal/client/payments"
	"github.com/jafarshop/pos-checkout/internal/config"
	"github.com/jafarshop/pos-checkout/internal/receipt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Backend clients
	orderClient := orders.NewClient(cfg.Backend, logger)
	paymentClient := payments.NewClient(cfg.Backend, logger)

	// Checkout core and receipt presenter
	manager := checkout.NewManager(orderClient, paymentClient, cfg.Payment.Currency, logger)
	presenter := receipt.NewPresenter(nil)

	router := api.NewRouter(cfg, manager, presenter, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("HTTP server shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	logger.Info("Starting checkout-service",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("currency", cfg.Payment.Currency),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
	<-idleConnsClosed
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
