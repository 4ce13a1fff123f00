package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2/clientcredentials"

	_ "time/tzdata"

	httpapi "github.com/aqie/air-quality-forecast/internal/api/http"
	"github.com/aqie/air-quality-forecast/internal/config"
	"github.com/aqie/air-quality-forecast/internal/content"
	"github.com/aqie/air-quality-forecast/internal/mock"
	"github.com/aqie/air-quality-forecast/internal/scheduler"
	"github.com/aqie/air-quality-forecast/internal/session"
	"github.com/aqie/air-quality-forecast/internal/store"
	"github.com/aqie/air-quality-forecast/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bundles, err := content.Load()
	if err != nil {
		log.Fatalf("failed to load content: %v", err)
	}

	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		log.Fatalf("failed to load time zone: %v", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	fetcher := func(name string) *upstream.Fetcher {
		return upstream.NewFetcher(httpClient, upstream.FetcherConfig{
			Name:          name,
			RatePerSecond: cfg.UpstreamRateLimit,
			Burst:         5,
		})
	}

	tokens := upstream.NewTokenCache(clientcredentials.Config{
		ClientID:     cfg.NIOAuthClientID,
		ClientSecret: cfg.NIOAuthClientSecret,
		TokenURL:     cfg.NIOAuthTokenURL,
		Scopes:       scopes(cfg.NIOAuthScope),
	}, httpClient)

	sessions := store.NewMemoryStore(cfg.SessionTimeout)

	sched := scheduler.New(tokens, cfg.NITokenRefreshInterval, sessions, 10*time.Minute)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	var overlay *mock.Overlay
	if cfg.MocksEnabled() {
		log.Printf("WARN: mock query parameters are enabled")
		overlay = mock.New()
	}

	app := fiber.New(fiber.Config{
		AppName:               "air-quality-forecast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		Views:                 html.New(cfg.ViewsDir, ".html"),
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Forecasts:    upstream.NewForecastsClient(fetcher("forecasts"), cfg.ForecastsAPIURL),
		Summary:      upstream.NewSummaryClient(fetcher("daily-summary"), cfg.DailySummaryAPIURL),
		Measurements: upstream.NewMeasurementsClient(fetcher("measurements"), cfg.MeasurementsAPIURL, cfg.RicardoMeasurementsAPIURL, cfg.UseNewRicardoMeasurementsEnabled),
		UK:           upstream.NewOSNamesClient(fetcher("os-names"), cfg.OSNamesAPIURL, cfg.OSNamesAPIKey),
		NI:           upstream.NewNIPlacesClient(fetcher("ni-places"), cfg.NIPlacesAPIURL),
		Tokens:       tokens,
		Sessions: httpapi.NewFiberSessions(fibersession.New(fibersession.Config{
			Storage:        sessions,
			Expiration:     cfg.SessionTimeout,
			KeyGenerator:   uuid.NewString,
			CookieSecure:   cfg.SessionCookieSecure,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		})),
		Bundles:  bundles,
		Manager:  session.NewManager(bundles),
		Mocks:    overlay,
		RadiusKm: cfg.MeasurementRadiusKm,
		Now:      func() time.Time { return time.Now().In(london) },
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	if err := sessions.Close(); err != nil {
		log.Printf("error closing session store: %v", err)
	}
}

func scopes(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
