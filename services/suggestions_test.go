package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStaticResponseKnownAndUnknownEmotions(t *testing.T) {
	if got := StaticResponse("happy"); got != defaultResponses["happy"] {
		t.Fatalf("StaticResponse(happy) = %q", got)
	}
	if got := StaticResponse("confused"); got != fallbackResponse {
		t.Fatalf("StaticResponse(confused) = %q, want fallback", got)
	}
}

func TestGetResponseWithoutAPIKeyUsesStaticTable(t *testing.T) {
	s := NewSuggester(SuggesterConfig{})
	if got := s.GetResponse(context.Background(), "sad"); got != defaultResponses["sad"] {
		t.Fatalf("GetResponse without API key = %q, want static response", got)
	}
}

func TestGetResponseFromRemote(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Bir kahve molası iyi gelir.  "}}]}`))
	}))
	defer server.Close()

	s := NewSuggester(SuggesterConfig{APIKey: "test-key", APIURL: server.URL, Model: "test-model"})
	got := s.GetResponse(context.Background(), "angry")

	if got != "Bir kahve molası iyi gelir." {
		t.Fatalf("GetResponse = %q, want trimmed remote content", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Authorization = %q, want Bearer test-key", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("request model = %q, want test-model", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || !strings.Contains(gotReq.Messages[1].Content, "angry") {
		t.Fatalf("request messages = %+v, want user prompt mentioning the emotion", gotReq.Messages)
	}
}

func TestGetResponseFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := NewSuggester(SuggesterConfig{APIKey: "test-key", APIURL: server.URL, Model: "test-model"})
	if got := s.GetResponse(context.Background(), "fear"); got != defaultResponses["fear"] {
		t.Fatalf("GetResponse on server error = %q, want static response", got)
	}
}

func TestGetResponseFallsBackOnEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	s := NewSuggester(SuggesterConfig{APIKey: "test-key", APIURL: server.URL, Model: "test-model"})
	if got := s.GetResponse(context.Background(), "neutral"); got != defaultResponses["neutral"] {
		t.Fatalf("GetResponse on empty choices = %q, want static response", got)
	}
}
