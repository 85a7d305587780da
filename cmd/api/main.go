package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"authorsite/internal/auth"
	"authorsite/internal/catalog"
	"authorsite/internal/config"
	"authorsite/internal/redirect"
	"authorsite/internal/upcoming"
	"authorsite/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dbPool := mustOpenDB(cfg.DatabaseDSN)
	defer dbPool.Close()

	validator := validation.New()

	catalogService := catalog.NewService(catalog.NewPostgresRepo(dbPool, cfg.DBTimeout))
	upcomingService := upcoming.NewService(upcoming.NewPostgresStore(dbPool, cfg.DBTimeout))
	authService := auth.NewService(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPasswordHash)
	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		log.Println("admin login disabled: ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set")
	}

	handler := newRouter(routes{
		cfg:                cfg,
		books:              catalog.NewHTTPHandler(catalogService, validator),
		upcoming:           upcoming.NewHTTPHandler(upcomingService, validator),
		auth:               auth.NewHTTPHandler(authService, validator),
		booksRedirect:      redirect.NewResolver(catalogService, redirect.Books),
		multimediaRedirect: redirect.NewResolver(catalogService, redirect.Multimedia),
		ready:              dbPool.Ping,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on %s", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped")
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", config.RedactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}
