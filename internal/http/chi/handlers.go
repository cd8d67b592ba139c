package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"

	"github.com/signalbridge/webhook-relay/config"
	"github.com/signalbridge/webhook-relay/relay"
)

// ServerInfo carries the immutable facts the info endpoints report.
type ServerInfo struct {
	Config    *config.Config
	StartedAt time.Time
}

// Handlers sets up the relay API routes
func Handlers(ctx context.Context, relayService relay.UseCase, info ServerInfo, logger zerolog.Logger, metricsHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Method(http.MethodGet, "/", home(info))
	r.Method(http.MethodPost, "/webhook", postWebhook(relayService))
	r.Method(http.MethodGet, "/test", triggerTest(relayService))
	r.Method(http.MethodPost, "/test", triggerTest(relayService))
	r.Method(http.MethodGet, "/status", getStatus(info))
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	r.NotFound(notFound)

	return r
}
