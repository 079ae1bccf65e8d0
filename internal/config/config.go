package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Identity holds the identity service's configuration.
type Identity struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	ResourceBaseURL    string
	ClientTimeout      time.Duration
	TokenTTL           time.Duration
	RSAKeyBits         int
	BcryptCost         int
	DatabaseURL        string
	DBMaxConns         int32
	DBMinConns         int32
	CORSOrigins        []string
	RateLimitRPM       int
	AuthRateLimitRPM   int
}

// Resource holds the resource service's configuration.
type Resource struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	JWKSURL            string
	JWKSFetchTimeout   time.Duration
	BcryptCost         int
	CORSOrigins        []string
	RateLimitRPM       int
	AuthRateLimitRPM   int
}

func LoadIdentity() (*Identity, error) {
	_ = godotenv.Load()

	cfg := &Identity{
		ServerPort:         getEnv("IDENTITY_PORT", "8081"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ResourceBaseURL:    getEnv("RESOURCE_BASE_URL", "http://localhost:8082"),
		ClientTimeout:      getDuration("CLIENT_TIMEOUT", 5*time.Second),
		TokenTTL:           getDuration("TOKEN_TTL", time.Hour),
		RSAKeyBits:         getInt("RSA_KEY_BITS", 2048),
		BcryptCost:         getInt("BCRYPT_COST", 12),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:         int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:         int32(getInt("DB_MIN_CONNS", 2)),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:   getInt("AUTH_RATE_LIMIT_RPM", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Identity) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("IDENTITY_PORT cannot be empty")
	}

	if strings.TrimSpace(c.ResourceBaseURL) == "" {
		return fmt.Errorf("RESOURCE_BASE_URL is required")
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.RSAKeyBits < 2048 {
		return fmt.Errorf("RSA_KEY_BITS must be at least 2048")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	return nil
}

func LoadResource() (*Resource, error) {
	_ = godotenv.Load()

	cfg := &Resource{
		ServerPort:         getEnv("RESOURCE_PORT", "8082"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		JWKSURL:            getEnv("JWKS_URL", "http://localhost:8081/oauth2/jwks"),
		JWKSFetchTimeout:   getDuration("JWKS_FETCH_TIMEOUT", 5*time.Second),
		BcryptCost:         getInt("BCRYPT_COST", 12),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:   getInt("AUTH_RATE_LIMIT_RPM", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Resource) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("RESOURCE_PORT cannot be empty")
	}

	if strings.TrimSpace(c.JWKSURL) == "" {
		return fmt.Errorf("JWKS_URL is required")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
