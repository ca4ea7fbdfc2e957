package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vendorhub/internal/admin"
	adminhandler "vendorhub/internal/admin/handler"
	"vendorhub/internal/audit"
	"vendorhub/internal/directory/store/claims"
	"vendorhub/internal/directory/store/notifications"
	"vendorhub/internal/directory/store/settings"
	"vendorhub/internal/directory/store/vendors"
	"vendorhub/internal/identity"
	identitystore "vendorhub/internal/identity/store"
	"vendorhub/internal/news"
	"vendorhub/internal/platform/config"
	"vendorhub/internal/platform/httpserver"
	"vendorhub/internal/platform/logger"
	"vendorhub/internal/platform/metrics"
	"vendorhub/internal/platform/middleware"
	platformredis "vendorhub/internal/platform/redis"
)

// stores groups the persistence handles main wires into the services.
type stores struct {
	db            *sql.DB
	vendorStore   admin.VendorStore
	claimStore    admin.ClaimStore
	notifStore    admin.NotificationStore
	settingsStore admin.SettingsStore
	userStore     identity.UserStore
	auditStore    audit.Store
}

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal services; nothing here is a process-global.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	st, err := buildStores(cfg.PostgresDSN)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	if st.db != nil {
		defer st.db.Close()
		log.Info("using postgres-backed stores")
	} else {
		log.Info("POSTGRES_DSN not set, using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()

	tokens := identity.NewTokenService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	resolver := identity.NewResolver(st.userStore)

	adminService := admin.NewService(
		st.vendorStore,
		st.claimStore,
		st.notifStore,
		st.settingsStore,
		audit.NewPublisher(st.auditStore),
		log,
		m,
	)
	adminHandler := adminhandler.New(
		adminService,
		log,
		m,
		identity.NewTokenServiceAdapter(tokens),
		resolver,
	)

	newsClient := news.NewClient(cfg.NewsAPIBaseURL, cfg.NewsAPIKey, cfg.RequestTimeout, log)
	newsHandler := news.NewHandler(
		newsClient,
		news.NewRedisCache(redisClient),
		cfg.NewsCacheTTL,
		log,
		m,
	)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.ClientMetadata)

	adminHandler.Register(router)
	newsHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", healthHandler(st.db, redisClient))

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting vendorhub server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildStores selects the backing implementation per the DSN. Both variants
// satisfy the same service interfaces, so everything downstream is agnostic.
func buildStores(dsn string) (*stores, error) {
	if dsn == "" {
		return &stores{
			vendorStore:   vendors.NewInMemoryStore(),
			claimStore:    claims.NewInMemoryStore(),
			notifStore:    notifications.NewInMemoryStore(),
			settingsStore: settings.NewInMemoryStore(),
			userStore:     identitystore.NewInMemoryUserStore(),
			auditStore:    audit.NewInMemoryStore(),
		}, nil
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		db:            db,
		vendorStore:   vendors.NewPostgres(db),
		claimStore:    claims.NewPostgres(db),
		notifStore:    notifications.NewPostgres(db),
		settingsStore: settings.NewPostgres(db),
		userStore:     identitystore.NewPostgresUserStore(db),
		auditStore:    audit.NewPostgres(db),
	}, nil
}

func healthHandler(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
