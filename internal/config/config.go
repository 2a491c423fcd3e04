package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreSQLite   = "sqlite"
)

// Config is read from the environment. cmd/api loads .env first through
// godotenv/autoload.
//
// Supported env vars:
//   - PORT (default: 8080)
//   - LOG_LEVEL (debug|info|warn|error, default: info)
//   - RULES_FILE (optional YAML overlay for the pricing region)
//   - STORE (dynamodb|sqlite, default: dynamodb)
//   - SQLITE_PATH (default: restoredoc.db)
//   - GEMINI_API_KEY, GEMINI_MODEL (default: gemini-2.5-flash)
//   - VISION_MAX_RETRIES (default: 3), VISION_TIMEOUT (default: 90s)
//   - MERCADOPAGO_ACCESS_TOKEN, PAYMENT_GATEWAY_MOCK
//   - MERCADOPAGO_TEST_PAYER_EMAIL, MERCADOPAGO_TEST_PAYER_USER_ID (sandbox only)
type Config struct {
	Port      int
	LogLevel  string
	RulesFile string

	Store      string
	SQLitePath string

	GeminiAPIKey     string
	GeminiModel      string
	VisionMaxRetries uint64
	VisionTimeout    time.Duration

	MercadoPagoAccessToken string
	PaymentMock            bool
	TestPayerEmail         string
	TestPayerUserID        string
}

func Load() Config {
	return Config{
		Port:      getenvInt("PORT", 8080),
		LogLevel:  strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		RulesFile: os.Getenv("RULES_FILE"),

		Store:      strings.ToLower(getenvDefault("STORE", StoreDynamoDB)),
		SQLitePath: getenvDefault("SQLITE_PATH", "restoredoc.db"),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getenvDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		VisionMaxRetries: uint64(getenvInt("VISION_MAX_RETRIES", 3)),
		VisionTimeout:    getenvDuration("VISION_TIMEOUT", 90*time.Second),

		MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		PaymentMock:            IsPaymentGatewayMockEnabled(),
		TestPayerEmail:         strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL")),
		TestPayerUserID:        strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_USER_ID")),
	}
}

// IsPaymentGatewayMockEnabled reports whether payments skip the real provider.
func IsPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
