package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	chatHandler "github.com/vivahdesk/leadbot/backend/internal/handler/chat"
	middlewarePkg "github.com/vivahdesk/leadbot/backend/internal/middleware"
	"github.com/vivahdesk/leadbot/backend/internal/service/conversation"
)

// NewRouter wires HTTP routes to the conversation engine. webDir holds the
// static chat widget; pass "" to disable it.
func NewRouter(conv *conversation.Service, logger *zap.Logger, webDir string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(conv, logger).RegisterRoutes(api)
	})

	if webDir != "" {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, webDir+"/index.html")
		})
	}

	return r
}
