package database

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// historyHeader is the fixed header row of the emotion history file.
// Legacy rows may carry fewer or more columns; readers tolerate both.
var historyHeader = []string{"timestamp", "emotion", "confidence", "face_id"}

// EmotionRecord is one observed emotion, the durable unit of history
type EmotionRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	FaceID     string    `json:"face_id"` // identity name, possibly empty
}

// EmotionStore appends and reads emotion observations backed by a flat CSV
// file. Appends are line-oriented; reads are full-file scans. A single mutex
// serializes writers since the file format has no concurrency control of its
// own.
type EmotionStore struct {
	path string
	mu   sync.Mutex
}

// NewEmotionStore creates the store, the data directory, and the history file
// with its header row if it does not exist yet
func NewEmotionStore(path string) (*EmotionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory for %s: %w", path, err)
	}

	s := &EmotionStore{path: path}
	if err := s.ensureHeader(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path
func (s *EmotionStore) Path() string {
	return s.path
}

func (s *EmotionStore) ensureHeader() error {
	info, err := os.Stat(s.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat history file %s: %w", s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create history file %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(historyHeader); err != nil {
		return fmt.Errorf("failed to write history header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Append durably appends one record. Records are never rejected for content
// reasons (a blank identity is fine); only an underlying I/O fault errors,
// and callers in the pipeline log and swallow it.
func (s *EmotionStore) Append(rec EmotionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHeader(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file for append: %w", err)
	}
	defer f.Close()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	// identity names are stored trimmed; stray commas from legacy callers are
	// stripped rather than rejected
	faceID := strings.Trim(strings.TrimSpace(rec.FaceID), ",")

	w := csv.NewWriter(f)
	err = w.Write([]string{
		ts.Format(time.RFC3339),
		rec.Emotion,
		strconv.FormatFloat(rec.Confidence, 'f', -1, 64),
		faceID,
	})
	if err != nil {
		return fmt.Errorf("failed to append emotion record: %w", err)
	}
	w.Flush()
	return w.Error()
}

// ParseRecord converts one raw CSV row into an EmotionRecord, or reports why
// the row must be skipped. Rows need at least timestamp, emotion and
// confidence; a fourth identity column is optional and extra columns are
// ignored.
func ParseRecord(fields []string) (EmotionRecord, error) {
	if len(fields) < 3 {
		return EmotionRecord{}, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[0]))
	if err != nil {
		return EmotionRecord{}, fmt.Errorf("bad timestamp %q: %w", fields[0], err)
	}

	confidence, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return EmotionRecord{}, fmt.Errorf("bad confidence %q: %w", fields[2], err)
	}

	rec := EmotionRecord{
		Timestamp:  ts,
		Emotion:    strings.TrimSpace(fields[1]),
		Confidence: confidence,
	}
	if len(fields) > 3 {
		rec.FaceID = strings.Trim(strings.TrimSpace(fields[3]), ",")
	}
	return rec, nil
}

// LoadHistory reads all records, newest first. maxAgeDays > 0 keeps only
// records newer than now minus that many days. A missing, empty or malformed
// file yields an empty slice, never an error; individually corrupt rows are
// skipped with a diagnostic.
func (s *EmotionStore) LoadHistory(maxAgeDays int) []EmotionRecord {
	f, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("history: failed to open %s: %v", s.path, err)
		}
		return []EmotionRecord{}
	}
	defer f.Close()

	var cutoff time.Time
	if maxAgeDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -maxAgeDays)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records := []EmotionRecord{}
	first := true
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("history: skipping unreadable row: %v", err)
			continue
		}
		if first {
			first = false
			if len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "timestamp") {
				continue
			}
		}

		rec, err := ParseRecord(fields)
		if err != nil {
			log.Printf("history: skipping malformed row: %v", err)
			continue
		}
		if maxAgeDays > 0 && rec.Timestamp.Before(cutoff) {
			continue
		}
		records = append(records, rec)
	}

	// file order is append order (oldest first); consumers expect newest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records
}
