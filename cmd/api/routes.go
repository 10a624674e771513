package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"bookregistry/internal/config"
	"bookregistry/internal/httpx"
	"bookregistry/internal/registration"
)

type routerDeps struct {
	cfg           *config.Config
	logger        zerolog.Logger
	registrations *registration.HTTPHandler
	// ready reports whether backing services are reachable; nil means always ready.
	ready func(context.Context) error
}

func newRouter(ctx context.Context, deps routerDeps) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := deps.ready(ctx); err != nil {
				httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "database not ready", nil)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	internalOnly := httpx.InternalSecretMiddleware(deps.cfg.InternalSecret)
	router.HandleFunc("POST /registrations", deps.registrations.Register)
	router.Handle("GET /registrations", internalOnly(http.HandlerFunc(deps.registrations.List)))
	router.Handle("GET /registrations/{id}", internalOnly(http.HandlerFunc(deps.registrations.Get)))

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, deps.cfg.RateLimitRPS, deps.cfg.RateLimitBurst, deps.cfg.TrustProxy)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(deps.logger),
		httpx.RecoveryMiddleware(deps.logger),
		httpx.SecurityHeadersMiddleware(deps.cfg.EnableHSTS),
		httpx.CORSMiddleware(deps.cfg.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(deps.cfg.MaxBodyBytes),
		rateLimiter.Middleware,
	)
}
