package config

import (
	"fmt"
	"os"
)

// Config holds every environment option the service recognizes.
type Config struct {
	Env  string
	Port string

	DatabaseURL string

	// RabbitMQ
	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	// Gateway selection: "razorpay" (signature flow) or "cashfree" (order flow).
	PaymentGateway string

	RazorpayKeyID     string
	RazorpayKeySecret string

	CashfreeClientID     string
	CashfreeClientSecret string
	CashfreeEnv          string // sandbox | production

	// Object store (bundle downloads)
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3Bucket           string

	// Outbound email
	MailHost string
	MailUser string
	MailPass string
	MailFrom string
	OpsEmail string

	// WhatsApp ops alerts
	WhatsAppAccessToken string
	WhatsAppPhoneID     string
	SupportWhatsApp     string

	// Site / analytics identifiers (passed through to clients, unused server-side)
	SiteURL          string
	GTMID            string
	MetaPixelID      string
	ClarityProjectID string
}

func Load() *Config {
	return &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RabbitUser: getEnv("RABBITMQ_USER", "guest"),
		RabbitPass: getEnv("RABBITMQ_PASS", "guest"),
		RabbitHost: getEnv("RABBITMQ_HOST", "localhost"),
		RabbitPort: getEnv("RABBITMQ_PORT", "5672"),

		PaymentGateway: getEnv("PAYMENT_GATEWAY", "razorpay"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),

		CashfreeClientID:     os.Getenv("CASHFREE_CLIENT_ID"),
		CashfreeClientSecret: os.Getenv("CASHFREE_CLIENT_SECRET"),
		CashfreeEnv:          getEnv("CASHFREE_ENV", "sandbox"),

		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          getEnv("AWS_REGION", "ap-south-1"),
		S3Bucket:           os.Getenv("S3_BUCKET"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: getEnv("MAIL_FROM", "no-reply@vidhiq.in"),
		OpsEmail: os.Getenv("OPS_EMAIL"),

		WhatsAppAccessToken: os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID:     os.Getenv("WHATSAPP_PHONE_ID"),
		SupportWhatsApp:     os.Getenv("SUPPORT_WHATSAPP"),

		SiteURL:          os.Getenv("SITE_URL"),
		GTMID:            os.Getenv("GTM_ID"),
		MetaPixelID:      os.Getenv("META_PIXEL_ID"),
		ClarityProjectID: os.Getenv("CLARITY_PROJECT_ID"),
	}
}

// Validate reports the credential sets required to boot. Optional
// integrations (mail, whatsapp, object store) degrade instead of failing.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.PaymentGateway {
	case "razorpay":
		if c.RazorpayKeyID == "" || c.RazorpayKeySecret == "" {
			return fmt.Errorf("razorpay selected but RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET missing")
		}
	case "cashfree":
		if c.CashfreeClientID == "" || c.CashfreeClientSecret == "" {
			return fmt.Errorf("cashfree selected but CASHFREE_CLIENT_ID/CASHFREE_CLIENT_SECRET missing")
		}
	default:
		return fmt.Errorf("unknown PAYMENT_GATEWAY %q", c.PaymentGateway)
	}

	return nil
}

// StorageConfigured reports whether the object-store credential set is present.
// Used by the download-bundle health check.
func (c *Config) StorageConfigured() bool {
	return c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != "" && c.S3Bucket != ""
}

func (c *Config) MailConfigured() bool {
	return c.MailHost != "" && c.MailUser != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
