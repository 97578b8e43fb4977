package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/camden-git/emotionsysbackend/media"
	"github.com/go-chi/chi/v5"
)

// AssetServer serves generated assets (reference images, thumbnails,
// annotated frames) straight from the store
type AssetServer struct {
	Store media.Store
	// allowed maps the first path segment of a request to whether it may be
	// served; everything else is rejected before touching the filesystem
	allowed map[string]bool
}

// NewAssetServer creates an asset server restricted to the given store
// subdirectories
func NewAssetServer(store media.Store, servableDirs []string) *AssetServer {
	allowed := make(map[string]bool, len(servableDirs))
	for _, dir := range servableDirs {
		allowed[dir] = true
	}
	return &AssetServer{Store: store, allowed: allowed}
}

// ServeAsset streams the asset at the wildcard path, with content type
// derived from the file extension
func (as *AssetServer) ServeAsset(w http.ResponseWriter, r *http.Request) {
	relativePath := chi.URLParam(r, "*")
	if relativePath == "" || strings.Contains(relativePath, "..") {
		WriteAPIError(w, http.StatusBadRequest, "invalid_path", "Invalid asset path")
		return
	}

	topDir := relativePath
	if idx := strings.IndexByte(relativePath, '/'); idx >= 0 {
		topDir = relativePath[:idx]
	}
	if !as.allowed[topDir] {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Asset not found")
		return
	}

	reader, info, err := as.Store.Get(relativePath)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Asset not found")
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(relativePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Cache-Control", "private, max-age=3600")

	if _, err := io.Copy(w, reader); err != nil {
		// client likely disconnected mid-transfer, nothing useful to do
		return
	}
}
