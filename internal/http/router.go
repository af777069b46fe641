package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"pollit/internal/domain/comment"
	"pollit/internal/domain/poll"
	"pollit/internal/domain/vote"
	"pollit/internal/identity"
	"pollit/internal/worker"
)

type Handler struct {
	pollSvc    *poll.Service
	voteSvc    *vote.Service
	commentSvc *comment.Service
	ident      identity.Deriver
	events     chan<- worker.Event
	ws         http.Handler
	db         *sql.DB
	logger     *zap.Logger
}

func NewRouter(
	pollSvc *poll.Service,
	voteSvc *vote.Service,
	commentSvc *comment.Service,
	ident identity.Deriver,
	events chan<- worker.Event,
	ws http.Handler,
	db *sql.DB,
	logger *zap.Logger,
) http.Handler {
	h := &Handler{
		pollSvc:    pollSvc,
		voteSvc:    voteSvc,
		commentSvc: commentSvc,
		ident:      ident,
		events:     events,
		ws:         ws,
		db:         db,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	if ws != nil {
		r.Get("/ws", ws.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Timeout(60 * time.Second))

		r.Post("/polls", h.handleCreatePoll)
		r.Get("/polls", h.handleListPolls)
		r.Get("/polls/{id}", h.handleGetPoll)

		r.With(RateLimitVotes(rate.Every(time.Minute/30), 5)).Post("/polls/{id}/vote", h.handleVote)
		r.Get("/polls/{id}/vote-status", h.handleVoteStatus)
		r.Get("/polls/{id}/results", h.handlePollResults)

		r.Post("/polls/{id}/comments", h.handleCreateComment)
		r.Get("/polls/{id}/comments", h.handleListComments)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parsePollID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
