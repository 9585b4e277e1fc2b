package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Backend     BackendConfig
	Payment     PaymentConfig
}

type BackendConfig struct {
	OrderServiceURL   string
	PaymentServiceURL string
	HTTPTimeout       time.Duration
}

type PaymentConfig struct {
	Currency string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8090")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", "30")
	viper.SetDefault("CURRENCY", "INR")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeoutSeconds := getEnvOrViperInt("HTTP_TIMEOUT_SECONDS", 30)

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8090"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Backend: BackendConfig{
			OrderServiceURL:   getEnvOrViper("ORDER_SERVICE_URL", ""),
			PaymentServiceURL: getEnvOrViper("PAYMENT_SERVICE_URL", ""),
			HTTPTimeout:       time.Duration(timeoutSeconds) * time.Second,
		},
		Payment: PaymentConfig{
			Currency: getEnvOrViper("CURRENCY", "INR"),
		},
	}

	// Validate required fields
	if cfg.Backend.OrderServiceURL == "" {
		return nil, fmt.Errorf("ORDER_SERVICE_URL is required")
	}
	if cfg.Backend.PaymentServiceURL == "" {
		return nil, fmt.Errorf("PAYMENT_SERVICE_URL is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getEnvOrViperInt(key string, defaultValue int) int {
	if viper.IsSet(key) {
		if v := viper.GetInt(key); v > 0 {
			return v
		}
	}
	return defaultValue
}
