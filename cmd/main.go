package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/catalog"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/events"
	h "github.com/lucasdickey/a-ok-shop-sub000/internal/http"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/payment"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/pricing"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/service"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/store"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/webhook"
)

type Config struct {
	HTTPPort        string
	APIKey          string
	RedisAddr       string
	RedisPassword   string
	StripeSecretKey string

	WebhookURL     string
	WebhookSecret  string
	InboundSecrets []string

	KafkaBrokers []string

	CatalogDBHost     string
	CatalogDBPort     int
	CatalogDBUser     string
	CatalogDBPassword string
	CatalogDBName     string
	MigrationsDir     string

	RequestTimeout  time.Duration
	ChargeTimeout   time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	port, err := strconv.Atoi(getEnv("CATALOG_DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid CATALOG_DB_PORT: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIKey:          getEnv("ACP_API_KEY", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),

		WebhookURL:     getEnv("PLATFORM_WEBHOOK_URL", ""),
		WebhookSecret:  getEnv("WEBHOOK_SECRET", ""),
		InboundSecrets: splitList(getEnv("WEBHOOK_SECRETS", getEnv("WEBHOOK_SECRET", ""))),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),

		CatalogDBHost:     getEnv("CATALOG_DB_HOST", ""),
		CatalogDBPort:     port,
		CatalogDBUser:     getEnv("CATALOG_DB_USER", "postgres"),
		CatalogDBPassword: getEnv("CATALOG_DB_PASSWORD", "postgres"),
		CatalogDBName:     getEnv("CATALOG_DB_NAME", "catalog"),
		MigrationsDir:     getEnv("MIGRATIONS_DIR", "migrations"),

		RequestTimeout:  30 * time.Second,
		ChargeTimeout:   30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func main() {
	cfg := loadConfig()

	if cfg.StripeSecretKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}
	if cfg.APIKey == "" {
		log.Fatal("ACP_API_KEY is required")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	cat := buildCatalog(cfg)
	engine := pricing.NewEngine(cat, pricing.NewRateTableCalculator())
	sessionStore := store.NewRedisStore(redisClient)
	processor := payment.NewStripeProcessor(cfg.StripeSecretKey)
	notifier := webhook.NewNotifier(cfg.WebhookURL, cfg.WebhookSecret)

	var publisher service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("lifecycle events enabled, brokers: %v", cfg.KafkaBrokers)
	}

	svc := service.New(sessionStore, engine, processor, notifier, publisher, cfg.ChargeTimeout)
	checkoutHandler := h.NewCheckoutHandler(svc)
	webhookHandler := h.NewWebhookHandler(cfg.InboundSecrets)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(h.BearerAuth(cfg.APIKey))
		checkoutHandler.Routes(r)
	})
	r.Post("/webhooks/inbound", webhookHandler.HandleEvent)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "checkout-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("checkout API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// buildCatalog uses Postgres when configured and falls back to the
// built-in product set for local development.
func buildCatalog(cfg *Config) catalog.Catalog {
	if cfg.CatalogDBHost == "" {
		log.Println("CATALOG_DB_HOST not set, using in-memory catalog")
		return catalog.NewMemoryCatalog(
			&catalog.Product{Handle: "a-ok-classic-tee", Title: "A-OK Classic Tee", UnitPrice: 2800, Currency: "usd"},
			&catalog.Product{Handle: "a-ok-zip-hoodie", Title: "A-OK Zip Hoodie", UnitPrice: 6400, Currency: "usd"},
			&catalog.Product{Handle: "a-ok-dad-cap", Title: "A-OK Dad Cap", UnitPrice: 2400, Currency: "usd"},
			&catalog.Product{Handle: "a-ok-sticker-pack", Title: "A-OK Sticker Pack", UnitPrice: 800, Currency: "usd"},
		)
	}

	cred := &catalog.Credentials{
		Host:              cfg.CatalogDBHost,
		Port:              cfg.CatalogDBPort,
		User:              cfg.CatalogDBUser,
		Password:          cfg.CatalogDBPassword,
		DBName:            cfg.CatalogDBName,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	repo, err := catalog.NewRepository(cred)
	if err != nil {
		log.Fatalf("failed to connect to catalog database: %v", err)
	}
	if err := repo.RunMigrations(cred); err != nil {
		log.Fatalf("failed to run catalog migrations: %v", err)
	}
	return repo
}
