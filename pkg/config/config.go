package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PGBookingDSN string `envconfig:"PG_BOOKING_DSN" required:"true"`
	// HTTP
	HTTPAddr      string `envconfig:"BOOKING_HTTP_ADDR" default:":8080"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:5173"`
	PublicAPIKey  string `envconfig:"PUBLIC_API_KEY" default:""`
	// JWT
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`
	// Seed staff login (created on startup when missing)
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:""`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`
	// Payments
	OmisePublicKey string `envconfig:"OMISE_PUBLIC_KEY" required:"true"`
	OmiseSecretKey string `envconfig:"OMISE_SECRET_KEY" required:"true"`
	Currency       string `envconfig:"BOOKING_CURRENCY" default:"usd"`
	SourceType     string `envconfig:"OMISE_SOURCE_TYPE" default:"alipay"`
	// RabbitMQ
	RabbitURL       string `envconfig:"RABBIT_URL" required:"true"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`
	PaymentExchange string `envconfig:"PAYMENT_EXCHANGE" default:"payment.exchange"`
	PaymentQueue    string `envconfig:"BOOKING_PAYMENT_QUEUE" default:"booking.payment.q"`
	// Reminder scan
	ReminderScanMin int `envconfig:"REMINDER_SCAN_MIN" default:"15"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
