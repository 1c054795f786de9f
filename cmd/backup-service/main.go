package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"raindoor/internal/catalog"
	"raindoor/internal/home"
	"raindoor/internal/oauth"
	"raindoor/internal/shopify"
	"raindoor/pkg/config"
	"raindoor/pkg/credentials"
	"raindoor/pkg/db"
	"raindoor/pkg/logger"
	"raindoor/pkg/middleware"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	if cfg.APIKey == "" || cfg.APISecret == "" {
		log.Fatalw("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required")
	}

	var store credentials.Store
	if pool := db.MustConnect(cfg, log); pool != nil {
		if err := credentials.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		store = credentials.NewPostgresStore(pool, log)
	} else if cli := db.MustRedis(cfg, log); cli != nil {
		store = credentials.NewRedisStore(cli)
	} else {
		store = credentials.NewMemoryStore()
	}
	if err := credentials.SeedFromFile(context.Background(), store, cfg.CredentialSeedFile); err != nil {
		log.Warnw("credential seed", "err", err)
	}

	exporter := catalog.NewExporter(log, store,
		shopify.NewGraphQLClient(cfg.APIVersion, cfg.PageTimeout),
		cfg.ExportMaxPages, cfg.PageTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.FrameAncestors())
	r.Use(middleware.Tracing())
	r.Use(middleware.SessionToken(cfg.APIKey, cfg.APISecret, cfg.RequireSessionToken))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	home.NewHandler(store).Register(r)
	oauth.NewHandler(cfg, log, store).Register(r)
	catalog.NewHandler(log, exporter).Register(r)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("backup-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("backup-service stopped")
}
