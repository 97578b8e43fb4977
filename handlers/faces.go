package handlers

import (
	"bytes"
	"errors"
	"image"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/camden-git/emotionsysbackend/media"
	"github.com/camden-git/emotionsysbackend/models"
	"github.com/camden-git/emotionsysbackend/repository"
	"github.com/camden-git/emotionsysbackend/utils"
	"github.com/go-chi/chi/v5"
	"gocv.io/x/gocv"
	"gorm.io/gorm"
)

// FacesHandler manages the enrolled identity gallery over HTTP
type FacesHandler struct {
	Gallery   *media.Gallery
	Detector  *media.DNNFaceDetector
	Repo      repository.PersonRepositoryInterface
	Store     media.Store
	ThumbSize int
}

// FaceInfo is one enrolled identity in the listing response
type FaceInfo struct {
	Name          string  `json:"name"`
	ImagePath     string  `json:"image_path,omitempty"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	CameraMake    *string `json:"camera_make,omitempty"`
	CameraModel   *string `json:"camera_model,omitempty"`
	TakenAt       *int64  `json:"taken_at,omitempty"`
	CreatedAt     int64   `json:"created_at,omitempty"`
	UpdatedAt     int64   `json:"updated_at,omitempty"`
}

// validFaceName rejects names that would escape the gallery directory or
// produce an unusable filename stem
func validFaceName(name string) bool {
	if name == "" || name != strings.TrimSpace(name) {
		return false
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return false
	}
	return name != "." && name != ".."
}

// ListFaces returns all enrolled identities in natural order, joined with
// their stored metadata
func (fh *FacesHandler) ListFaces(w http.ResponseWriter, r *http.Request) {
	people, err := fh.Repo.ListAll()
	if err != nil {
		log.Printf("faces: failed to list people: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "database_error", "Failed to list enrolled identities")
		return
	}

	byName := make(map[string]models.Person, len(people))
	for _, person := range people {
		byName[person.Name] = person
	}

	infos := make([]FaceInfo, 0)
	for _, name := range fh.Gallery.Names() {
		info := FaceInfo{Name: name}
		if person, ok := byName[name]; ok {
			info.ImagePath = person.ImagePath
			info.ThumbnailPath = person.ThumbnailPath
			info.CameraMake = person.CameraMake
			info.CameraModel = person.CameraModel
			info.TakenAt = person.TakenAt
			info.CreatedAt = person.CreatedAt
			info.UpdatedAt = person.UpdatedAt
		}
		infos = append(infos, info)
	}

	writeJSON(w, http.StatusOK, infos)
}

// EnrollFace accepts a multipart name + image, crops the dominant face out of
// the upload, stores it as the identity's reference image, and reloads the
// gallery so the identity is recognizable immediately
func (fh *FacesHandler) EnrollFace(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "Failed to parse multipart form: "+err.Error())
		return
	}

	name := r.FormValue("name")
	if !validFaceName(name) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_name", "Identity name is missing or contains path characters")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "missing_image", "Missing 'image' form file")
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "Failed to read uploaded image")
		return
	}

	frame, err := gocv.IMDecode(buf.Bytes(), gocv.IMReadColor)
	if err != nil || frame.Empty() {
		WriteAPIError(w, http.StatusBadRequest, "invalid_image", "Uploaded data is not a decodable image")
		return
	}
	defer frame.Close()

	// store the cropped face when one is found; the whole frame is still a
	// usable reference image otherwise, matching the gallery loader
	region := frame
	detections := fh.Detector.DetectFaces(frame)
	if best, ok := media.LargestFace(detections); ok {
		region = frame.Region(image.Rect(best.X, best.Y, best.X+best.W, best.Y+best.H))
		defer region.Close()
	} else {
		log.Printf("faces: no face detected in enrollment image for %s, storing full frame", name)
	}

	encoded, err := gocv.IMEncode(gocv.JPEGFileExt, region)
	if err != nil {
		log.Printf("faces: failed to encode reference image for %s: %v", name, err)
		WriteAPIError(w, http.StatusInternalServerError, "encode_error", "Failed to encode reference image")
		return
	}
	defer encoded.Close()

	imageRelPath, err := fh.Store.Save(media.AssetTypeKnownFace, name+".jpg", ".jpg", bytes.NewReader(encoded.GetBytes()))
	if err != nil {
		log.Printf("faces: failed to store reference image for %s: %v", name, err)
		WriteAPIError(w, http.StatusInternalServerError, "storage_error", "Failed to store reference image")
		return
	}

	person := &models.Person{Name: name, ImagePath: imageRelPath}

	meta := utils.GetCaptureMetadata(buf.Bytes())
	person.CameraMake = meta.CameraMake
	person.CameraModel = meta.CameraModel
	person.TakenAt = meta.TakenAt

	fullImagePath, err := fh.Store.GetFullPath(imageRelPath)
	if err == nil {
		thumbRelPath, thumbErr := media.GenerateGalleryThumbnail(fh.Store, fullImagePath, name, fh.ThumbSize)
		if thumbErr != nil {
			log.Printf("faces: failed to generate thumbnail for %s: %v", name, thumbErr)
		} else {
			person.ThumbnailPath = &thumbRelPath
		}
	}

	if err := fh.Repo.Upsert(person); err != nil {
		log.Printf("faces: failed to upsert person %s: %v", name, err)
		WriteAPIError(w, http.StatusInternalServerError, "database_error", "Failed to record enrolled identity")
		return
	}

	if err := fh.Gallery.Reload(); err != nil {
		log.Printf("faces: gallery reload after enrolling %s failed: %v", name, err)
		WriteAPIError(w, http.StatusInternalServerError, "gallery_error", "Identity stored but gallery reload failed")
		return
	}

	log.Printf("faces: enrolled %s (%s)", name, imageRelPath)
	writeJSON(w, http.StatusCreated, FaceInfo{
		Name:          name,
		ImagePath:     person.ImagePath,
		ThumbnailPath: person.ThumbnailPath,
		CameraMake:    person.CameraMake,
		CameraModel:   person.CameraModel,
		TakenAt:       person.TakenAt,
	})
}

// DeleteFace removes an identity's reference image, thumbnail, and metadata
// row, then reloads the gallery
func (fh *FacesHandler) DeleteFace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validFaceName(name) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_name", "Identity name is missing or contains path characters")
		return
	}

	person, err := fh.Repo.GetByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("faces: failed to look up person %s: %v", name, err)
		WriteAPIError(w, http.StatusInternalServerError, "database_error", "Failed to look up identity")
		return
	}

	removed := false
	if person != nil {
		if person.ImagePath != "" {
			if err := fh.Store.Delete(person.ImagePath); err != nil {
				log.Printf("faces: failed to delete reference image for %s: %v", name, err)
			} else {
				removed = true
			}
		}
		if person.ThumbnailPath != nil {
			if err := fh.Store.Delete(*person.ThumbnailPath); err != nil {
				log.Printf("faces: failed to delete thumbnail for %s: %v", name, err)
			}
		}
	}

	// also sweep reference images enrolled out-of-band by dropping files into
	// the directory, which have no database row
	knownFacesDir, err := fh.Store.EnsureDir(media.AssetTypeKnownFace)
	if err == nil {
		for _, ext := range []string{".jpg", ".jpeg", ".png"} {
			candidate := filepath.Join(knownFacesDir, name+ext)
			if _, statErr := os.Stat(candidate); statErr != nil {
				continue
			}
			if rmErr := os.Remove(candidate); rmErr != nil {
				log.Printf("faces: failed to remove %s: %v", candidate, rmErr)
				continue
			}
			removed = true
		}
	}

	if err := fh.Repo.DeleteByName(name); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("faces: failed to delete person row for %s: %v", name, err)
			WriteAPIError(w, http.StatusInternalServerError, "database_error", "Failed to delete identity record")
			return
		}
	} else {
		removed = true
	}

	if !removed {
		WriteAPIError(w, http.StatusNotFound, "not_found", "No enrolled identity named '"+name+"'")
		return
	}

	if err := fh.Gallery.Reload(); err != nil {
		log.Printf("faces: gallery reload after deleting %s failed: %v", name, err)
	}

	w.WriteHeader(http.StatusNoContent)
}
