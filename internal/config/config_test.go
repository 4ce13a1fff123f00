package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.NITokenRefreshInterval != 30*time.Minute {
		t.Errorf("NITokenRefreshInterval = %v, want 30m", cfg.NITokenRefreshInterval)
	}
	if cfg.MocksEnabled() {
		t.Error("mocks should be disabled by default")
	}
	if cfg.MeasurementRadiusKm != 25 {
		t.Errorf("MeasurementRadiusKm = %v, want 25", cfg.MeasurementRadiusKm)
	}
}

func TestMocksEnabled(t *testing.T) {
	tests := []struct {
		enabled, disabled, want bool
	}{
		{true, false, true},
		{true, true, false},
		{false, false, false},
		{false, true, false},
	}
	for _, tt := range tests {
		v := viper.New()
		v.Set("ENABLED_MOCK", tt.enabled)
		v.Set("DISABLE_TEST_MOCKS", tt.disabled)
		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom: %v", err)
		}
		if got := cfg.MocksEnabled(); got != tt.want {
			t.Errorf("ENABLED_MOCK=%v DISABLE_TEST_MOCKS=%v: MocksEnabled() = %v, want %v",
				tt.enabled, tt.disabled, got, tt.want)
		}
	}
}

func TestLoadFromInvalidDuration(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_TIMEOUT", "soon")
	if _, err := LoadFrom(v); err == nil {
		t.Fatal("expected an error for an invalid HTTP_TIMEOUT")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENABLED_MOCK", "true")
	t.Setenv("DISABLE_TEST_MOCKS", "false")

	v := viper.New()
	v.AutomaticEnv()
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Port != "9090" || !cfg.MocksEnabled() {
		t.Errorf("environment not applied: %+v", cfg)
	}
}
