package media

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/facette/natsort"
	"gocv.io/x/gocv"
)

// galleryImageExtensions are the reference image formats accepted for
// enrollment; the filename stem is the identity's display name
var galleryImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsGalleryImage checks if the filename has a supported reference image extension
func IsGalleryImage(filename string) bool {
	return galleryImageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Gallery holds the enrolled known faces for the current session. Entries are
// immutable once loaded; Reload rebuilds the whole set from the reference
// image directory.
type Gallery struct {
	dir      string
	detector *DNNFaceDetector
	encoder  *FaceEncoder

	mu      sync.RWMutex
	entries []KnownFace
}

// NewGallery creates a gallery over the given reference image directory and
// performs the initial load
func NewGallery(dir string, detector *DNNFaceDetector, encoder *FaceEncoder) (*Gallery, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create known faces directory '%s': %w", dir, err)
	}

	g := &Gallery{dir: dir, detector: detector, encoder: encoder}
	if err := g.Reload(); err != nil {
		return nil, err
	}
	return g, nil
}

// Entries returns the current gallery snapshot
func (g *Gallery) Entries() []KnownFace {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.entries
}

// Names returns the enrolled identity names in natural order
func (g *Gallery) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.entries))
	for _, entry := range g.entries {
		names = append(names, entry.Name)
	}
	natsort.Sort(names)
	return names
}

// Reload rescans the reference image directory and replaces the gallery
// wholesale. Files whose face cannot be detected or encoded are skipped with
// a diagnostic; for duplicate stems the last file in natural order wins.
func (g *Gallery) Reload() error {
	dirEntries, err := os.ReadDir(g.dir)
	if err != nil {
		return fmt.Errorf("failed to read known faces directory '%s': %w", g.dir, err)
	}

	files := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() || !IsGalleryImage(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	natsort.Sort(files)

	if len(files) == 0 {
		log.Printf("gallery: no reference images found in %s", g.dir)
	}

	byName := make(map[string]KnownFace)
	order := []string{}
	for _, file := range files {
		name := strings.TrimSuffix(file, filepath.Ext(file))
		if name == "" {
			log.Printf("gallery: skipping %s: empty identity name", file)
			continue
		}

		encoding := g.encodeReferenceImage(filepath.Join(g.dir, file))
		if encoding == nil {
			log.Printf("gallery: WARNING - no usable face in %s, skipping", file)
			continue
		}

		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = KnownFace{Name: name, Encoding: encoding}
		log.Printf("gallery: loaded face for %s", name)
	}

	entries := make([]KnownFace, 0, len(order))
	for _, name := range order {
		entries = append(entries, byName[name])
	}

	g.mu.Lock()
	g.entries = entries
	g.mu.Unlock()

	log.Printf("gallery: loaded %d known face(s) from %s", len(entries), g.dir)
	return nil
}

// encodeReferenceImage extracts the encoding of the dominant face in a
// reference image, or nil when detection or encoding fails
func (g *Gallery) encodeReferenceImage(path string) []float32 {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		log.Printf("gallery: failed to read image %s", path)
		return nil
	}
	defer img.Close()

	// reference images are usually pre-cropped at enrollment; fall back to
	// encoding the whole image when the detector finds nothing
	region := img
	detections := g.detector.DetectFaces(img)
	if best, ok := LargestFace(detections); ok {
		region = img.Region(image.Rect(best.X, best.Y, best.X+best.W, best.Y+best.H))
		defer region.Close()
	}

	return g.encoder.ExtractEncoding(region)
}

// GenerateGalleryThumbnail writes a bounded-size thumbnail of a reference
// image through the store, returning the saved relative path
func GenerateGalleryThumbnail(store Store, referencePath string, name string, maxSize int) (string, error) {
	img, err := imaging.Open(referencePath)
	if err != nil {
		return "", fmt.Errorf("failed to open reference image '%s': %w", referencePath, err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	reader, writer := io.Pipe()
	go func() {
		err := imaging.Encode(writer, thumb, imaging.JPEG, imaging.JPEGQuality(90))
		if err != nil {
			log.Printf("gallery: failed to encode thumbnail for %s: %v", name, err)
		}
		writer.CloseWithError(err)
	}()

	savedRelPath, err := store.Save(AssetTypeGalleryThumb, name+".jpg", ".jpg", reader)
	if err != nil {
		return "", fmt.Errorf("failed to save thumbnail via store: %w", err)
	}
	return savedRelPath, nil
}
