// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"checkout_phone_backend/platform/phone"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides limits for public checkout endpoints.
type RateLimitConfig interface {
	GetPublicRatePerMinute() int
	GetPublicRateBurst() int
}

// RedisConfig provides settings for the Redis connection used by caches.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the background task queue.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// PhonePolicyConfig provides the phone validation defaults used until an
// administrator saves settings.
type PhonePolicyConfig interface {
	GetPhoneValidationEnabled() bool
	GetPhoneDefaultCountry() string
	GetPhoneValidationMode() string
	GetPhoneOutputFormat() string
	GetPhoneFormatOnSave() bool
	GetPhoneSettingsCacheTTL() time.Duration
}

// LocaleConfig provides the fallback locale for checkout messages.
type LocaleConfig interface {
	GetDefaultLocale() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	JWTAccessSecret        string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	PublicRatePerMinute    int
	PublicRateBurst        int
	RedisURL               string
	RedisTLSInsecure       bool
	AsynqQueueName         string
	AsynqConcurrency       int
	PhoneValidationEnabled bool
	PhoneDefaultCountry    string
	PhoneValidationMode    string
	PhoneOutputFormat      string
	PhoneFormatOnSave      bool
	PhoneSettingsCacheTTL  time.Duration
	DefaultLocale          string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetPublicRatePerMinute() int { return c.PublicRatePerMinute }
func (c *Config) GetPublicRateBurst() int     { return c.PublicRateBurst }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool  { return c.RedisURL != "" }

// PhonePolicyConfig implementation
func (c *Config) GetPhoneValidationEnabled() bool { return c.PhoneValidationEnabled }
func (c *Config) GetPhoneDefaultCountry() string  { return c.PhoneDefaultCountry }
func (c *Config) GetPhoneValidationMode() string  { return c.PhoneValidationMode }
func (c *Config) GetPhoneOutputFormat() string    { return c.PhoneOutputFormat }
func (c *Config) GetPhoneFormatOnSave() bool      { return c.PhoneFormatOnSave }
func (c *Config) GetPhoneSettingsCacheTTL() time.Duration {
	return c.PhoneSettingsCacheTTL
}

// LocaleConfig implementation
func (c *Config) GetDefaultLocale() string { return c.DefaultLocale }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTAccessSecret:        getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		PublicRatePerMinute:    mustInt(getEnv("PUBLIC_RATE_PER_MINUTE", "60")),
		PublicRateBurst:        mustInt(getEnv("PUBLIC_RATE_BURST", "20")),
		RedisURL:               getEnv("REDIS_URL", ""),
		RedisTLSInsecure:       strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:       mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		PhoneValidationEnabled: strings.EqualFold(getEnv("PHONE_VALIDATION_ENABLED", "true"), "true"),
		PhoneDefaultCountry:    phone.NormalizeRegion(getEnv("PHONE_DEFAULT_COUNTRY", "PL")),
		PhoneValidationMode:    strings.ToLower(strings.TrimSpace(getEnv("PHONE_VALIDATION_MODE", "default_and_international"))),
		PhoneOutputFormat:      strings.ToUpper(strings.TrimSpace(getEnv("PHONE_OUTPUT_FORMAT", "E164"))),
		PhoneFormatOnSave:      strings.EqualFold(getEnv("PHONE_FORMAT_ON_SAVE", "true"), "true"),
		PhoneSettingsCacheTTL:  mustDuration(getEnv("PHONE_SETTINGS_CACHE_TTL", "5m")),
		DefaultLocale:          getEnv("DEFAULT_LOCALE", "en"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if !phone.IsSupportedRegion(cfg.PhoneDefaultCountry) {
		return nil, fmt.Errorf("PHONE_DEFAULT_COUNTRY %q is not a supported region", cfg.PhoneDefaultCountry)
	}
	if cfg.PhoneValidationMode != "default_and_international" && cfg.PhoneValidationMode != "international_only" {
		return nil, fmt.Errorf("PHONE_VALIDATION_MODE must be default_and_international or international_only")
	}
	if !phone.Style(cfg.PhoneOutputFormat).IsKnown() {
		return nil, fmt.Errorf("PHONE_OUTPUT_FORMAT must be one of E164, INTERNATIONAL, NATIONAL")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
