package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/camden-git/emotionsysbackend/media"
	"github.com/go-chi/chi/v5"
)

func newAssetRouter(t *testing.T) (*chi.Mux, media.Store) {
	t.Helper()
	store, err := media.NewLocalStorage(t.TempDir(), map[media.AssetType]string{
		media.AssetTypeFrame: "frames",
	})
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}

	server := NewAssetServer(store, []string{"frames"})
	r := chi.NewRouter()
	r.Get("/api/*", server.ServeAsset)
	return r, store
}

func TestServeAsset(t *testing.T) {
	router, store := newAssetRouter(t)

	relPath, err := store.Save(media.AssetTypeFrame, "frame.jpg", ".jpg", bytes.NewReader([]byte("jpeg-bytes")))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/"+relPath, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("Content-Type = %q, want image/jpeg", ct)
	}
}

func TestServeAssetRejectsTraversalAndUnknownDirs(t *testing.T) {
	router, _ := newAssetRouter(t)

	tests := []struct {
		path string
		want int
	}{
		{"/api/frames/../secret.txt", http.StatusBadRequest},
		{"/api/elsewhere/file.jpg", http.StatusNotFound},
		{"/api/frames/missing.jpg", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Fatalf("GET %s status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}
