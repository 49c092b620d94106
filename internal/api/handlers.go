package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type healthResponse struct {
	Status    string     `json:"status"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	StartAt   string     `json:"startAt,omitempty"`
	EndAt     string     `json:"endAt,omitempty"`
	Entries   int        `json:"entries"`
}

// getLeaderboard serves the cached snapshot. It never fetches and never
// fails: before the first successful refresh it returns an empty array.
func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Get().Entries)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := s.store.Get()

	resp := healthResponse{
		Status:  "ok",
		Entries: len(snapshot.Entries),
	}
	if !snapshot.IsEmpty() {
		updatedAt := snapshot.UpdatedAt.UTC()
		resp.UpdatedAt = &updatedAt
		resp.StartAt = snapshot.Window.StartDate()
		resp.EndAt = snapshot.Window.EndDate()
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}
