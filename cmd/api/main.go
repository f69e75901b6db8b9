// Package main is the entrypoint for the PawMart API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/config"
	"github.com/pawmart/pawmart/internal/handler"
	"github.com/pawmart/pawmart/internal/metrics"
	"github.com/pawmart/pawmart/internal/middleware"
	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/router"
	"github.com/pawmart/pawmart/internal/server"
	"github.com/pawmart/pawmart/internal/service"
	"github.com/pawmart/pawmart/internal/store"
	"github.com/pawmart/pawmart/internal/store/mongo"
	"github.com/pawmart/pawmart/internal/store/postgres"
)

// startupTimeout bounds connecting to the store and the identity provider.
const startupTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Initialize document store
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to document store",
			slog.String("driver", cfg.StoreDriver),
			slog.String("error", sanitizeError(err, cfg.MongoConnectionURI(), cfg.DatabaseURL, cfg.DBPass)),
		)
		os.Exit(1)
	}
	logger.Info("connected to document store",
		slog.String("driver", cfg.StoreDriver),
		slog.String("uri", redactURL(storeURL(cfg))),
	)

	// Initialize identity provider
	tokens, err := newTokenVerifier(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize identity provider",
			slog.String("provider", cfg.AuthProvider),
			slog.String("error", err.Error()),
		)
		_ = st.Close(context.Background())
		os.Exit(1)
	}
	logger.Info("identity provider ready", slog.String("provider", cfg.AuthProvider))

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	userService := service.NewUserService(st, metricsRecorder)
	listingService := service.NewListingService(st, cfg.LatestListingsLimit, metricsRecorder)
	orderService := service.NewOrderService(st, metricsRecorder)

	// Initialize handlers
	handlers := router.Handlers{
		Root:     handler.New(),
		Health:   handler.NewHealthHandler(st, logger),
		Metrics:  handler.NewMetricsHandler(metricsRecorder),
		Users:    handler.NewUserHandler(userService, logger),
		Listings: handler.NewListingHandler(listingService, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
	}

	// Setup router
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := router.New(router.Config{
		Logger:   logger,
		Verifier: auth.NewVerifier(tokens, logger),
		Metrics:  metricsRecorder,
		Security: middleware.SecurityConfig{
			IsDevelopment:      cfg.IsDevelopment(),
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		CORS: corsCfg,
	}, handlers)

	// Create and run server
	srv := server.New(r, server.Config{
		Port:            cfg.ListenPort(),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("document store", st.Close)

	logger.Info("starting server",
		"port", cfg.ListenPort(),
		"env", cfg.AppEnv,
		"store", cfg.StoreDriver,
		"auth", cfg.AuthProvider,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore connects the backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	case config.StoreMongo:
		st, err := mongo.New(ctx, mongo.Config{
			URI:              cfg.MongoConnectionURI(),
			Database:         cfg.MongoDatabase,
			CollectionSuffix: cfg.MongoCollectionSuffix,
			MaxPoolSize:      50,
			ConnectTimeout:   10 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		if err := st.EnsureUniqueIndex(ctx, model.CollectionUsers, model.UserFieldEmail); err != nil {
			_ = st.Close(context.Background())
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// newTokenVerifier builds the backend selected by AUTH_PROVIDER.
func newTokenVerifier(ctx context.Context, cfg *config.Config) (auth.TokenVerifier, error) {
	switch cfg.AuthProvider {
	case config.AuthJWT:
		return auth.NewJWT(cfg.JWTSecret, cfg.JWTIssuer), nil
	case config.AuthFirebase:
		key, err := auth.DecodeServiceKey(cfg.FBServiceKey)
		if err != nil {
			return nil, err
		}
		return auth.NewFirebase(ctx, key)
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.AuthProvider)
	}
}

func storeURL(cfg *config.Config) string {
	if cfg.StoreDriver == config.StorePostgres {
		return cfg.DatabaseURL
	}
	return cfg.MongoConnectionURI()
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL strips the password from a connection string.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return passwordPattern.ReplaceAllString(parsed.String(), "password=redacted")
}

// sanitizeError replaces every secret in err's message with its redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" || redacted == secret {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
