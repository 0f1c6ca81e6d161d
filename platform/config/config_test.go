package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/checkout")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200")
}

func TestLoadAppliesPhoneDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.GetPhoneValidationEnabled() || !cfg.GetPhoneFormatOnSave() {
		t.Fatal("expected validation and format-on-save enabled by default")
	}
	if cfg.GetPhoneDefaultCountry() != "PL" {
		t.Fatalf("expected PL default country, got %q", cfg.GetPhoneDefaultCountry())
	}
	if cfg.GetPhoneValidationMode() != "default_and_international" {
		t.Fatalf("unexpected default mode %q", cfg.GetPhoneValidationMode())
	}
	if cfg.GetPhoneOutputFormat() != "E164" {
		t.Fatalf("unexpected default output format %q", cfg.GetPhoneOutputFormat())
	}
	if cfg.GetPhoneSettingsCacheTTL() != 5*time.Minute {
		t.Fatalf("unexpected cache ttl %s", cfg.GetPhoneSettingsCacheTTL())
	}
}

func TestLoadNormalizesPhoneSettings(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PHONE_DEFAULT_COUNTRY", " de ")
	t.Setenv("PHONE_VALIDATION_MODE", "International_Only")
	t.Setenv("PHONE_OUTPUT_FORMAT", "national")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PhoneDefaultCountry != "DE" || cfg.PhoneValidationMode != "international_only" || cfg.PhoneOutputFormat != "NATIONAL" {
		t.Fatalf("unexpected normalized phone settings: %+v", cfg)
	}
}

func TestLoadRejectsInvalidPhoneSettings(t *testing.T) {
	cases := map[string]string{
		"PHONE_DEFAULT_COUNTRY": "XX",
		"PHONE_VALIDATION_MODE": "strict",
		"PHONE_OUTPUT_FORMAT":   "RFC3966",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}
