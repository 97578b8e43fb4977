package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"github.com/camden-git/emotionsysbackend/database"
	"github.com/camden-git/emotionsysbackend/realtime"
	"github.com/camden-git/emotionsysbackend/services"
)

const defaultSnapshotLimit = 50

// AnalysisHandler runs wellness analyses on demand and serves persisted
// snapshots
type AnalysisHandler struct {
	Analyzer *services.Analyzer
	DB       *sql.DB
	Hub      *realtime.Hub
}

// RunAnalysis computes a full wellness analysis over the observation log and
// returns it. The result is also pushed to connected websocket clients.
func (ah *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	result := ah.Analyzer.RunFullAnalysis()

	if ah.Hub != nil {
		ah.Hub.Broadcast(realtime.Event{Type: realtime.EventAnalysisCompleted, Payload: result})
	}

	writeJSON(w, http.StatusOK, result)
}

// ListSnapshots returns persisted analysis snapshots, newest first.
// ?since=<unix> filters by creation time and ?limit=<n> caps the result size.
func (ah *AnalysisHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			WriteAPIError(w, http.StatusBadRequest, "invalid_since", "'since' must be a non-negative unix timestamp")
			return
		}
		since = parsed
	}

	limit := defaultSnapshotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteAPIError(w, http.StatusBadRequest, "invalid_limit", "'limit' must be a positive integer")
			return
		}
		limit = parsed
	}

	rows, err := database.ListAnalysisSnapshots(ah.DB, since, limit)
	if err != nil {
		log.Printf("analysis: failed to list snapshots: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "database_error", "Failed to list analysis snapshots")
		return
	}
	if rows == nil {
		rows = []database.AnalysisSnapshotRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}
