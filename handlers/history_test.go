package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/camden-git/emotionsysbackend/database"
	"github.com/camden-git/emotionsysbackend/services"
	"github.com/go-chi/chi/v5"
)

func newHistoryRouter(t *testing.T) (*chi.Mux, *database.EmotionStore) {
	t.Helper()
	store, err := database.NewEmotionStore(filepath.Join(t.TempDir(), "emotion_history.csv"))
	if err != nil {
		t.Fatalf("NewEmotionStore() error = %v", err)
	}

	handler := &HistoryHandler{Store: store}
	r := chi.NewRouter()
	r.Get("/api/history", handler.GetHistory)
	r.Get("/api/history/stats", handler.GetHistoryStats)
	return r, store
}

func TestGetHistoryEmpty(t *testing.T) {
	router, _ := newHistoryRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []database.EmotionRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not a JSON array: %v (%s)", err, rec.Body.String())
	}
	if len(got) != 0 {
		t.Fatalf("expected empty array, got %+v", got)
	}
}

func TestGetHistoryDaysFilter(t *testing.T) {
	router, store := newHistoryRouter(t)

	old := database.EmotionRecord{Timestamp: time.Now().AddDate(0, 0, -5), Emotion: "sad", Confidence: 0.4}
	recent := database.EmotionRecord{Timestamp: time.Now().Add(-time.Minute), Emotion: "happy", Confidence: 0.9, FaceID: "alice"}
	for _, r := range []database.EmotionRecord{old, recent} {
		if err := store.Append(r); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/history?days=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var got []database.EmotionRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].Emotion != "happy" || got[0].FaceID != "alice" {
		t.Fatalf("GetHistory(days=1) = %+v, want only the recent record", got)
	}
}

func TestGetHistoryRejectsBadDays(t *testing.T) {
	router, _ := newHistoryRouter(t)

	for _, raw := range []string{"abc", "-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/history?days="+raw, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("days=%s status = %d, want 400", raw, rec.Code)
		}
	}
}

func TestGetHistoryStats(t *testing.T) {
	router, store := newHistoryRouter(t)

	for _, rec := range []database.EmotionRecord{
		{Emotion: "happy", Confidence: 0.8},
		{Emotion: "happy", Confidence: 0.6},
		{Emotion: "sad", Confidence: 0.5},
	} {
		if err := store.Append(rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/history/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got services.HistoryStats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.EmotionCounts["happy"] != 2 || got.EmotionCounts["sad"] != 1 {
		t.Fatalf("EmotionCounts = %v", got.EmotionCounts)
	}
}
