package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"memorial-platform/internal/usecase"
)

// RateLimiter caps payment-claim submissions per principal. Implemented by
// the Redis fixed-window limiter; nil disables limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	entUC   *usecase.EntitlementUseCase
	subUC   *usecase.SubscriptionUseCase
	txUC    *usecase.TransactionUseCase
	limiter RateLimiter

	jwtSecret      string
	submitLimit    int
	submitWindow   time.Duration
	requestTimeout time.Duration
	log            *zerolog.Logger
}

type Options struct {
	JWTSecret      string
	SubmitLimit    int
	SubmitWindow   time.Duration
	RequestTimeout time.Duration
}

func NewServer(
	entUC *usecase.EntitlementUseCase,
	subUC *usecase.SubscriptionUseCase,
	txUC *usecase.TransactionUseCase,
	limiter RateLimiter,
	opts Options,
	logger *zerolog.Logger,
) *Server {
	webLog := logger.With().Str("component", "WebServer").Logger()
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	return &Server{
		entUC:          entUC,
		subUC:          subUC,
		txUC:           txUC,
		limiter:        limiter,
		jwtSecret:      opts.JWTSecret,
		submitLimit:    opts.SubmitLimit,
		submitWindow:   opts.SubmitWindow,
		requestTimeout: opts.RequestTimeout,
		log:            &webLog,
	}
}

// Router assembles the full route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(TraceID)
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(middleware.Timeout(s.requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", s.handleListPlans)

		// Authenticated principal surface.
		r.Group(func(r chi.Router) {
			r.Use(s.Authenticator)
			r.Get("/me/entitlements", s.handleMyEntitlements)
			r.Get("/me/subscriptions", s.handleMySubscriptions)
			r.Get("/me/transactions", s.handleMyTransactions)
			r.Post("/transactions", s.handleSubmitTransaction)
			r.Get("/transactions/{id}", s.handleGetTransaction)
			r.Post("/subscriptions/{id}/cancel", s.handleCancelSubscription)
		})

		// Admin review surface.
		r.Group(func(r chi.Router) {
			r.Use(s.Authenticator, s.RequireAdmin)
			r.Get("/transactions", s.handleReviewQueue)
			r.Post("/transactions/{id}/review", s.handleReviewTransaction)
		})
	})
	return r
}
