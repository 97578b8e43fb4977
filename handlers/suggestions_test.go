package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/camden-git/emotionsysbackend/services"
	"github.com/go-chi/chi/v5"
)

func newSuggestionsRouter() *chi.Mux {
	handler := &SuggestionsHandler{Suggester: services.NewSuggester(services.SuggesterConfig{})}
	r := chi.NewRouter()
	r.Get("/api/suggestions/{emotion}", handler.GetSuggestion)
	return r
}

func TestGetSuggestionKnownEmotion(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/suggestions/happy", nil)
	rec := httptest.NewRecorder()
	newSuggestionsRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var got SuggestionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Emotion != "happy" || got.Display != "Mutlu" {
		t.Fatalf("response = %+v, want happy/Mutlu", got)
	}
	if got.Suggestion == "" {
		t.Fatalf("expected a non-empty suggestion")
	}
}

func TestGetSuggestionIsCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/suggestions/HAPPY", nil)
	rec := httptest.NewRecorder()
	newSuggestionsRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetSuggestionUnknownEmotion(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/suggestions/bored", nil)
	rec := httptest.NewRecorder()
	newSuggestionsRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
