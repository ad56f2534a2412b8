package config

import (
	"fmt"
	"strings"
	"time"

	"foodtruck_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Storage and provider selectors.
const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageMemory   = "memory"

	BlobPostgres   = "postgres"
	BlobFilesystem = "fs"
	BlobMemory     = "memory"

	ProviderStripe = "stripe"
	ProviderSquare = "square"
)

type Config struct {
	Port               string
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string

	StorageDriver string
	BlobDriver    string
	BlobDir       string

	Postgres PostgresConfig
	Mongo    MongoConfig
	NATS     NATSConfig
	Admin    AdminConfig
	Payments PaymentsConfig

	StoreTimeout    time.Duration
	ProviderTimeout time.Duration
}

type PostgresConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SchemaPath string
}

// DSN renders a lib/pq connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

type MongoConfig struct {
	URI string
	DB  string
}

type NATSConfig struct {
	URL string
}

type AdminConfig struct {
	Key        string
	KeyHash    string
	JWTSecret  string
	SessionTTL time.Duration
}

type PaymentsConfig struct {
	Provider string
	Stripe   StripeConfig
	Square   SquareConfig
}

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PublishableKey string
}

type SquareConfig struct {
	AccessToken         string
	LocationID          string
	ApplicationID       string
	Environment         string
	WebhookSignatureKey string
	WebhookURL          string
	DeviceID            string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               utils.Getenv("PORT", "8080"),
		LogLevel:           utils.Getenv("LOG_LEVEL", "info"),
		LogFormat:          utils.Getenv("LOG_FORMAT", "console"),
		CORSAllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),

		StorageDriver: strings.ToLower(utils.Getenv("STORAGE_DRIVER", StoragePostgres)),
		BlobDriver:    strings.ToLower(utils.Getenv("BLOB_DRIVER", BlobPostgres)),
		BlobDir:       utils.Getenv("BLOB_DIR", "./data/images"),

		Postgres: PostgresConfig{
			Host:       utils.Getenv("DB_HOST", "localhost"),
			Port:       utils.Getenv("DB_PORT", "5432"),
			User:       utils.Getenv("DB_USER", "foodtruck"),
			Password:   utils.Getenv("DB_PASSWORD", "foodtruck"),
			DBName:     utils.Getenv("DB_NAME", "foodtruck"),
			SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),
		},
		Mongo: MongoConfig{
			URI: utils.Getenv("MONGO_URI", "mongodb://localhost:27017"),
			DB:  utils.Getenv("MONGO_DB", "foodtruck"),
		},
		NATS: NATSConfig{
			URL: utils.Getenv("NATS_URL", ""),
		},
		Admin: AdminConfig{
			Key:        utils.Getenv("ADMIN_KEY", ""),
			KeyHash:    utils.Getenv("ADMIN_KEY_HASH", ""),
			JWTSecret:  utils.Getenv("ADMIN_JWT_SECRET", ""),
			SessionTTL: utils.GetenvDuration("ADMIN_SESSION_TTL", 12*time.Hour),
		},
		Payments: PaymentsConfig{
			Provider: strings.ToLower(utils.Getenv("PAYMENT_PROVIDER", ProviderStripe)),
			Stripe: StripeConfig{
				SecretKey:      utils.Getenv("STRIPE_SECRET_KEY", ""),
				WebhookSecret:  utils.Getenv("STRIPE_WEBHOOK_SECRET", ""),
				PublishableKey: utils.Getenv("STRIPE_PUBLISHABLE_KEY", utils.Getenv("VITE_STRIPE_PUBLISHABLE_KEY", "")),
			},
			Square: SquareConfig{
				AccessToken:         utils.Getenv("SQUARE_ACCESS_TOKEN", ""),
				LocationID:          utils.Getenv("SQUARE_LOCATION_ID", ""),
				ApplicationID:       utils.Getenv("SQUARE_APPLICATION_ID", ""),
				Environment:         strings.ToLower(utils.Getenv("SQUARE_ENVIRONMENT", "sandbox")),
				WebhookSignatureKey: utils.Getenv("SQUARE_WEBHOOK_SIGNATURE_KEY", ""),
				WebhookURL:          utils.Getenv("SQUARE_WEBHOOK_URL", ""),
				DeviceID:            utils.Getenv("SQUARE_DEVICE_ID", "default"),
			},
		},
		StoreTimeout:    utils.GetenvDuration("STORE_TIMEOUT", 5*time.Second),
		ProviderTimeout: utils.GetenvDuration("PROVIDER_TIMEOUT", 15*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Payments.Provider {
	case ProviderStripe, ProviderSquare:
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.Payments.Provider)
	}
	switch c.StorageDriver {
	case StoragePostgres, StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.BlobDriver {
	case BlobPostgres, BlobFilesystem, BlobMemory:
	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q", c.BlobDriver)
	}
	if c.BlobDriver == BlobPostgres && c.StorageDriver != StoragePostgres {
		return fmt.Errorf("BLOB_DRIVER=postgres requires STORAGE_DRIVER=postgres")
	}
	if c.BlobDriver == BlobFilesystem && c.BlobDir == "" {
		return fmt.Errorf("BLOB_DIR is required for BLOB_DRIVER=fs")
	}
	if c.StorageDriver == StorageMongo && (c.Mongo.URI == "" || c.Mongo.DB == "") {
		return fmt.Errorf("MONGO_URI and MONGO_DB are required for STORAGE_DRIVER=mongo")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}
