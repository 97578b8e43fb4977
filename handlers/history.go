package handlers

import (
	"net/http"
	"strconv"

	"github.com/camden-git/emotionsysbackend/database"
	"github.com/camden-git/emotionsysbackend/services"
)

// HistoryHandler exposes the observation log and its aggregate statistics
type HistoryHandler struct {
	Store *database.EmotionStore
}

// GetHistory returns logged observations, newest first, optionally limited to
// the last ?days=N days
func (hh *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteAPIError(w, http.StatusBadRequest, "invalid_days", "'days' must be a non-negative integer")
			return
		}
		days = parsed
	}

	history := hh.Store.LoadHistory(days)
	if history == nil {
		history = []database.EmotionRecord{}
	}
	writeJSON(w, http.StatusOK, history)
}

// GetHistoryStats returns per-emotion counts and mean confidences over the
// whole observation log
func (hh *HistoryHandler) GetHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats := services.ComputeHistoryStats(hh.Store.LoadHistory(0))
	writeJSON(w, http.StatusOK, stats)
}
