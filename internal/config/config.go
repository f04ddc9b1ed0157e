package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	RefreshTokenDur   time.Duration

	SNSRegion string

	StripeSecretKey string

	// Phone verification lifecycle.
	VerificationWindow      time.Duration
	VerificationMaxAttempts int
	VerificationSweepEvery  time.Duration

	GeocoderBaseURL string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users              string
	Sessions           string
	Swipes             string
	Matches            string
	Messages           string
	Subscriptions      string
	Payments           string
	Notifications      string
	PhoneVerifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "eu-central-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Users:              getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:           getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Swipes:             getEnv("DYNAMO_TABLE_SWIPES", "swipes"),
			Matches:            getEnv("DYNAMO_TABLE_MATCHES", "matches"),
			Messages:           getEnv("DYNAMO_TABLE_MESSAGES", "messages"),
			Subscriptions:      getEnv("DYNAMO_TABLE_SUBSCRIPTIONS", "subscriptions"),
			Payments:           getEnv("DYNAMO_TABLE_PAYMENTS", "payments"),
			Notifications:      getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			PhoneVerifications: getEnv("DYNAMO_TABLE_PHONE_VERIFICATIONS", "phone_verifications"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "dating-api-uploads"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		RefreshTokenDur:   time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		SNSRegion: getEnv("SNS_REGION", "eu-central-1"),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),

		VerificationWindow:      time.Duration(getEnvInt("VERIFICATION_WINDOW_MINUTES", 10)) * time.Minute,
		VerificationMaxAttempts: getEnvInt("VERIFICATION_MAX_ATTEMPTS", 3),
		VerificationSweepEvery:  time.Duration(getEnvInt("VERIFICATION_SWEEP_MINUTES", 5)) * time.Minute,

		GeocoderBaseURL: getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
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
