package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName         = "KoboPay"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultShutdownDelay   = 10 * time.Second
	defaultSessionTTL      = 24 * time.Hour
	defaultOTPTTL          = 5 * time.Minute
	defaultVerifiedTTL     = 10 * time.Minute
	defaultOTPCodeLength   = 6
	defaultUpstreamTimeout = 15 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultBlockchain      = "base"

	blockradarDefaultBaseURL = "https://api.blockradar.co/v1"
	swervpaySandboxBaseURL   = "https://sandbox.swervpay.co/api/v1"
	swervpayLiveBaseURL      = "https://api.swervpay.co/api/v1"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	CORSOrigins    string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	// Session token issuance.
	JWTSecret  string
	SessionTTL time.Duration

	// OTP policy. StaticOTP pins the generated code for deterministic
	// environments; it must stay empty in production.
	OTPCodeLength int
	OTPTTL        time.Duration
	VerifiedTTL   time.Duration
	StaticOTP     string

	// Blockradar custodial wallet provider.
	BlockradarBaseURL  string
	BlockradarAPIKey   string
	BlockradarWalletID string
	Blockchain         string

	// Swervpay card/bills provider.
	SwervpayBaseURL    string
	SwervpayBusinessID string
	SwervpaySecretKey  string

	UpstreamTimeout time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: defaultSessionTTL,

		OTPCodeLength: defaultOTPCodeLength,
		OTPTTL:        defaultOTPTTL,
		VerifiedTTL:   defaultVerifiedTTL,
		StaticOTP:     os.Getenv("OTP_STATIC_CODE"),

		BlockradarBaseURL:  getEnv("BLOCKRADAR_BASE_URL", blockradarDefaultBaseURL),
		BlockradarAPIKey:   os.Getenv("BLOCKRADAR_API_KEY"),
		BlockradarWalletID: os.Getenv("BLOCKRADAR_WALLET_ID"),
		Blockchain:         getEnv("BLOCKCHAIN", defaultBlockchain),

		SwervpayBusinessID: os.Getenv("SWERVPAY_BUSINESS_ID"),
		SwervpaySecretKey:  os.Getenv("SWERVPAY_SECRET_KEY"),

		UpstreamTimeout: defaultUpstreamTimeout,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TOKEN_TTL", cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.OTPTTL, err = durationEnv("OTP_TTL", cfg.OTPTTL); err != nil {
		return Config{}, err
	}
	if cfg.VerifiedTTL, err = durationEnv("VERIFIED_NUMBER_TTL", cfg.VerifiedTTL); err != nil {
		return Config{}, err
	}
	if cfg.UpstreamTimeout, err = durationEnv("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("OTP_CODE_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 4 || n > 10 {
			return Config{}, fmt.Errorf("invalid OTP_CODE_LENGTH: %q", v)
		}
		cfg.OTPCodeLength = n
	}

	// The provider base URL follows the environment unless pinned explicitly.
	if v := os.Getenv("SWERVPAY_BASE_URL"); v != "" {
		cfg.SwervpayBaseURL = v
	} else if cfg.IsProduction() {
		cfg.SwervpayBaseURL = swervpayLiveBaseURL
	} else {
		cfg.SwervpayBaseURL = swervpaySandboxBaseURL
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}
	if !cfg.IsDev() && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}
	if !cfg.IsDev() && cfg.StaticOTP != "" {
		return Config{}, fmt.Errorf("OTP_STATIC_CODE is only allowed in development")
	}
	if cfg.BlockradarAPIKey == "" || cfg.BlockradarWalletID == "" {
		return Config{}, fmt.Errorf("BLOCKRADAR_API_KEY and BLOCKRADAR_WALLET_ID must be set")
	}
	if cfg.SwervpayBusinessID == "" || cfg.SwervpaySecretKey == "" {
		return Config{}, fmt.Errorf("SWERVPAY_BUSINESS_ID and SWERVPAY_SECRET_KEY must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a development-like environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// IsProduction reports whether the app runs against live providers.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
