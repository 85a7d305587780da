package main

import (
	"context"
	"net/http"
	"time"

	"authorsite/internal/auth"
	"authorsite/internal/catalog"
	"authorsite/internal/config"
	"authorsite/internal/httpx"
	"authorsite/internal/platform/crypto"
	"authorsite/internal/upcoming"
)

type routes struct {
	cfg                config.Config
	books              *catalog.HTTPHandler
	upcoming           *upcoming.HTTPHandler
	auth               *auth.HTTPHandler
	booksRedirect      http.Handler
	multimediaRedirect http.Handler
	ready              func(ctx context.Context) error
}

func newRouter(rt routes) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// Legacy redirect endpoints keep their serverless paths.
	router.Handle("GET /.netlify/functions/redirect-books", rt.booksRedirect)
	router.Handle("GET /.netlify/functions/redirect-multimedia", rt.multimediaRedirect)
	router.Handle("GET /redirect/books", rt.booksRedirect)
	router.Handle("GET /redirect/multimedia", rt.multimediaRedirect)

	router.HandleFunc("GET /v1/books", rt.books.List)
	router.HandleFunc("GET /v1/books/{path}", rt.books.GetByPath)
	router.HandleFunc("GET /v1/upcoming-books", rt.upcoming.List)
	router.HandleFunc("GET /v1/upcoming-books/{id}", rt.upcoming.Get)
	router.HandleFunc("POST /v1/admin/login", rt.auth.Login)

	admin := httpx.RequireRole(rt.cfg.JWTSecret, crypto.RoleAdmin)
	router.Handle("POST /v1/admin/upcoming-books", admin(http.HandlerFunc(rt.upcoming.Create)))
	router.Handle("PUT /v1/admin/upcoming-books/{id}", admin(http.HandlerFunc(rt.upcoming.Update)))
	router.Handle("DELETE /v1/admin/upcoming-books/{id}", admin(http.HandlerFunc(rt.upcoming.Delete)))
	router.Handle("POST /v1/admin/books", admin(http.HandlerFunc(rt.books.Create)))

	limiter := httpx.NewRateLimitMiddleware(rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware,
		httpx.AccessLogMiddleware,
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(rt.cfg.AllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(rt.cfg.MaxBodyBytes),
	)
}
