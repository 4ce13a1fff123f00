package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	// Upstream APIs.
	ForecastsAPIURL           string
	DailySummaryAPIURL        string
	MeasurementsAPIURL        string
	RicardoMeasurementsAPIURL string
	OSNamesAPIURL             string
	OSNamesAPIKey             string
	NIPlacesAPIURL            string

	// NI Places OAuth client credentials.
	NIOAuthTokenURL        string
	NIOAuthClientID        string
	NIOAuthClientSecret    string
	NIOAuthScope           string
	NITokenRefreshInterval time.Duration

	DisableTestMocks                 bool
	EnabledMock                      bool
	UseNewRicardoMeasurementsEnabled bool

	SessionTimeout      time.Duration
	SessionCookieSecure bool

	ViewsDir            string
	MeasurementRadiusKm float64
	// UpstreamRateLimit is the outbound calls per second per API; 0 disables it.
	UpstreamRateLimit float64
}

// MocksEnabled reports whether the mock query parameters are honoured.
func (c *AppConfig) MocksEnabled() bool {
	return c.EnabledMock && !c.DisableTestMocks
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("OS_NAMES_API_URL", "https://api.os.uk/search/names/v1/find")
	v.SetDefault("NI_TOKEN_REFRESH_INTERVAL", "30m")
	v.SetDefault("DISABLE_TEST_MOCKS", true)
	v.SetDefault("ENABLED_MOCK", false)
	v.SetDefault("USE_NEW_RICARDO_MEASUREMENTS_ENABLED", false)
	v.SetDefault("SESSION_TIMEOUT", "24h")
	v.SetDefault("SESSION_COOKIE_SECURE", true)
	v.SetDefault("VIEWS_DIR", "./views")
	v.SetDefault("MEASUREMENT_RADIUS_KM", 25)
	v.SetDefault("UPSTREAM_RATE_LIMIT", 0)
}

// Load reads configuration from .env, an optional config.yaml and the
// environment, with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return LoadFrom(v)
}

// LoadFrom builds the configuration from an already populated viper
// instance.
func LoadFrom(v *viper.Viper) (*AppConfig, error) {
	setDefaults(v)

	cfg := &AppConfig{
		Port:                             v.GetString("PORT"),
		ForecastsAPIURL:                  v.GetString("FORECASTS_API_URL"),
		DailySummaryAPIURL:               v.GetString("DAILY_SUMMARY_API_URL"),
		MeasurementsAPIURL:               v.GetString("MEASUREMENTS_API_URL"),
		RicardoMeasurementsAPIURL:        v.GetString("RICARDO_MEASUREMENTS_API_URL"),
		OSNamesAPIURL:                    v.GetString("OS_NAMES_API_URL"),
		OSNamesAPIKey:                    v.GetString("OS_NAMES_API_KEY"),
		NIPlacesAPIURL:                   v.GetString("NI_PLACES_API_URL"),
		NIOAuthTokenURL:                  v.GetString("NI_OAUTH_TOKEN_URL"),
		NIOAuthClientID:                  v.GetString("NI_OAUTH_CLIENT_ID"),
		NIOAuthClientSecret:              v.GetString("NI_OAUTH_CLIENT_SECRET"),
		NIOAuthScope:                     v.GetString("NI_OAUTH_SCOPE"),
		DisableTestMocks:                 v.GetBool("DISABLE_TEST_MOCKS"),
		EnabledMock:                      v.GetBool("ENABLED_MOCK"),
		UseNewRicardoMeasurementsEnabled: v.GetBool("USE_NEW_RICARDO_MEASUREMENTS_ENABLED"),
		SessionCookieSecure:              v.GetBool("SESSION_COOKIE_SECURE"),
		ViewsDir:                         v.GetString("VIEWS_DIR"),
		MeasurementRadiusKm:              v.GetFloat64("MEASUREMENT_RADIUS_KM"),
		UpstreamRateLimit:                v.GetFloat64("UPSTREAM_RATE_LIMIT"),
	}

	var err error
	if cfg.HTTPTimeout, err = duration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.NITokenRefreshInterval, err = duration(v, "NI_TOKEN_REFRESH_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.SessionTimeout, err = duration(v, "SESSION_TIMEOUT"); err != nil {
		return nil, err
	}

	if cfg.ForecastsAPIURL == "" || cfg.DailySummaryAPIURL == "" {
		log.Printf("WARN: FORECASTS_API_URL or DAILY_SUMMARY_API_URL not set; location pages will fail")
	}
	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
