package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Admin     AdminConfig
	Processor ProcessorConfig
	SMTP      SMTPConfig
	Checkout  CheckoutConfig
	Merchant  MerchantConfig
}

// MerchantConfig is the payee contact shown in transfer/mobile-money
// instructions and email footers.
type MerchantConfig struct {
	Name     string
	Email    string
	Phone    string
	WhatsApp string
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// AdminConfig gates the order dashboard. PasswordHash is a bcrypt hash of the
// shared admin password; when empty, Password is hashed at startup.
type AdminConfig struct {
	Password     string
	PasswordHash string
	TokenSecret  string
	TokenExpiry  time.Duration
	Issuer       string
}

// ProcessorConfig holds card-processor credentials and the webhook signing secret.
type ProcessorConfig struct {
	BaseURL       string
	PublicKey     string
	SecretKey     string
	WebhookSecret string
	Timeout       time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Operator string
	Timeout  time.Duration
}

// CheckoutConfig carries the storefront money constants: flat shipping fee,
// base currency, and the fixed EUR->XOF display rate.
type CheckoutConfig struct {
	ShippingFee float64
	Currency    string
	EurToXof    float64
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "calabash:calabash@tcp(localhost:3306)/calabash?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		Admin: AdminConfig{
			Password:     getEnv("ADMIN_PASSWORD", "admin2024"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			TokenSecret:  getEnv("ADMIN_TOKEN_SECRET", "change-me-in-production"),
			TokenExpiry:  12 * time.Hour,
			Issuer:       "calabash",
		},
		Processor: ProcessorConfig{
			BaseURL:       getEnv("PROCESSOR_BASE_URL", "https://api.stripe.com"),
			PublicKey:     getEnv("STRIPE_PUBLIC_KEY", "pk_test_demo_key"),
			SecretKey:     getEnv("STRIPE_SECRET_KEY", "sk_test_demo_key"),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Timeout:       15 * time.Second,
		},
		SMTP: SMTPConfig{
			Host:     getEnv("EMAIL_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("EMAIL_PORT", 587),
			Username: getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "Calabash <orders@calabash.example>"),
			Operator: getEnv("EMAIL_OPERATOR", ""),
			Timeout:  15 * time.Second,
		},
		Merchant: MerchantConfig{
			Name:     getEnv("MERCHANT_NAME", "Calabash"),
			Email:    getEnv("MERCHANT_EMAIL", "orders@calabash.example"),
			Phone:    getEnv("MERCHANT_PHONE", "+229 0143515312"),
			WhatsApp: getEnv("MERCHANT_WHATSAPP", "+229 0143515312"),
		},
		Checkout: CheckoutConfig{
			ShippingFee: 2.50,
			Currency:    "EUR",
			EurToXof:    655.957,
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
