package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const LeaderboardPath = "/leaderboard/top14"

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(accessLogMiddleware)

	r.Get(LeaderboardPath, s.getLeaderboard)
	r.Get("/healthz", s.getHealth)

	return r
}
