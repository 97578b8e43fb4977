package services

import (
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/camden-git/emotionsysbackend/database"
	"github.com/camden-git/emotionsysbackend/media"
	"github.com/camden-git/emotionsysbackend/models"
	"github.com/camden-git/emotionsysbackend/repository"
)

// emotionWeights maps each recognized emotion to its signed valence, used by
// the stress and sleep-quality metrics. Unrecognized labels weigh 0.
var emotionWeights = map[string]float64{
	media.EmotionHappy:    1.0,
	media.EmotionNeutral:  0.5,
	media.EmotionSad:      -0.5,
	media.EmotionAngry:    -1.0,
	media.EmotionFear:     -0.8,
	media.EmotionSurprise: 0.3,
	media.EmotionDisgust:  -0.7,
}

// positiveEmotions are the labels counted toward the productivity score
var positiveEmotions = map[string]bool{
	media.EmotionHappy:    true,
	media.EmotionNeutral:  true,
	media.EmotionSurprise: true,
}

const (
	stressWindow       = 10 // most recent records considered for stress
	sleepQualityWindow = 24 // most recent records considered for sleep quality
)

// usableConfidence guards against degenerate confidence values that slipped
// into legacy rows, falling back to the historical 0.5 default
func usableConfidence(c float64) float64 {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0.5
	}
	return c
}

// StressLevel computes the mean weighted valence of the most recent records.
// History is expected newest first. Records with an unrecognized emotion fall
// back to neutral; an empty history scores 0.0.
func StressLevel(history []database.EmotionRecord) float64 {
	recent := history
	if len(recent) > stressWindow {
		recent = recent[:stressWindow]
	}
	if len(recent) == 0 {
		return 0.0
	}

	var sum float64
	for _, rec := range recent {
		emotion := rec.Emotion
		if _, ok := emotionWeights[emotion]; !ok {
			emotion = media.EmotionNeutral
		}
		sum += emotionWeights[emotion] * usableConfidence(rec.Confidence)
	}
	return sum / float64(len(recent))
}

// ProductivityScore is the percentage of recognized records carrying a
// positive emotion. Despite its day-oriented intent the filter is shape-only;
// no timestamp bound is applied (see DESIGN.md).
func ProductivityScore(history []database.EmotionRecord) float64 {
	total := 0
	positive := 0
	for _, rec := range history {
		if _, ok := emotionWeights[rec.Emotion]; !ok {
			continue
		}
		total++
		if positiveEmotions[rec.Emotion] {
			positive++
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(positive) / float64(total) * 100
}

// SleepQuality computes the mean weighted valence over the most recent
// records with a recognized emotion. As with ProductivityScore no night-hours
// filter is applied; only the record window and label validity bound the set.
func SleepQuality(history []database.EmotionRecord) float64 {
	window := history
	if len(window) > sleepQualityWindow {
		window = window[:sleepQualityWindow]
	}

	var sum float64
	count := 0
	for _, rec := range window {
		weight, ok := emotionWeights[rec.Emotion]
		if !ok {
			continue
		}
		sum += weight * usableConfidence(rec.Confidence)
		count++
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// EmotionTrends tallies occurrences of each recognized emotion across the
// whole provided history
func EmotionTrends(history []database.EmotionRecord) map[string]int {
	counts := map[string]int{}
	for _, rec := range history {
		if _, ok := emotionWeights[rec.Emotion]; ok {
			counts[rec.Emotion]++
		}
	}
	return counts
}

// GroupEmotion derives a dominant emotion for a set of faces in one frame:
// the emotion of the single highest-confidence face, not a population vote.
// The distribution sums confidence per label across all faces.
func GroupEmotion(faces []media.RecognizedFace) (string, map[string]float64) {
	if len(faces) == 0 {
		return media.EmotionNeutral, map[string]float64{}
	}

	best := 0
	distribution := map[string]float64{}
	for i, face := range faces {
		distribution[face.Emotion] += face.EmotionConfidence
		if face.EmotionConfidence > faces[best].EmotionConfidence {
			best = i
		}
	}
	return faces[best].Emotion, distribution
}

// HistoryStats summarizes the raw history: occurrence counts and mean
// confidence per emotion label. Unlike the weighted metrics this includes
// unrecognized labels, since it reports the file as-is.
type HistoryStats struct {
	EmotionCounts   map[string]int     `json:"emotion_counts"`
	ConfidenceMeans map[string]float64 `json:"confidence_means"`
}

// ComputeHistoryStats tallies the full provided history
func ComputeHistoryStats(history []database.EmotionRecord) HistoryStats {
	counts := map[string]int{}
	sums := map[string]float64{}
	for _, rec := range history {
		counts[rec.Emotion]++
		sums[rec.Emotion] += rec.Confidence
	}

	means := map[string]float64{}
	for emotion, sum := range sums {
		means[emotion] = sum / float64(counts[emotion])
	}
	return HistoryStats{EmotionCounts: counts, ConfidenceMeans: means}
}

// AnalysisData carries the non-scalar outputs of a full analysis run
type AnalysisData struct {
	EmotionTrends map[string]map[string]int `json:"emotion_trends"`
	Timestamp     string                    `json:"timestamp"`
	Error         string                    `json:"error,omitempty"`
}

// AnalysisResult is the always-complete output of RunFullAnalysis
type AnalysisResult struct {
	StressLevel       float64      `json:"stress_level"`
	ProductivityScore float64      `json:"productivity_score"`
	SleepQuality      float64      `json:"sleep_quality"`
	AnalysisData      AnalysisData `json:"analysis_data"`
}

// Analyzer derives summary metrics from the emotion history and persists
// snapshots of each run
type Analyzer struct {
	Store *database.EmotionStore
	Repo  repository.AnalysisRepositoryInterface
}

// NewAnalyzer creates an analyzer over the given history store and snapshot
// repository
func NewAnalyzer(store *database.EmotionStore, repo repository.AnalysisRepositoryInterface) *Analyzer {
	return &Analyzer{Store: store, Repo: repo}
}

func emptyResult() AnalysisResult {
	return AnalysisResult{
		AnalysisData: AnalysisData{
			EmotionTrends: map[string]map[string]int{"all_days": {}},
			Timestamp:     time.Now().Format(time.RFC3339),
		},
	}
}

// RunFullAnalysis loads the history, filters it to rows with a recognized
// emotion, computes all metrics, and persists the snapshot. It always returns
// a complete result: persistence failure is logged and swallowed, and total
// failure yields zeroed metrics with an error annotation instead of an error.
func (a *Analyzer) RunFullAnalysis() AnalysisResult {
	history := a.Store.LoadHistory(0)

	clean := make([]database.EmotionRecord, 0, len(history))
	for _, rec := range history {
		if _, ok := emotionWeights[rec.Emotion]; ok {
			clean = append(clean, rec)
		}
	}

	if len(clean) == 0 {
		return emptyResult()
	}

	result := AnalysisResult{
		StressLevel:       StressLevel(clean),
		ProductivityScore: ProductivityScore(clean),
		SleepQuality:      SleepQuality(clean),
		AnalysisData: AnalysisData{
			EmotionTrends: map[string]map[string]int{"all_days": EmotionTrends(clean)},
			Timestamp:     time.Now().Format(time.RFC3339),
		},
	}

	a.persist(result)
	return result
}

func (a *Analyzer) persist(result AnalysisResult) {
	if a.Repo == nil {
		return
	}

	trendsJSON, err := json.Marshal(result.AnalysisData.EmotionTrends)
	if err != nil {
		log.Printf("analyzer: failed to serialize trends: %v", err)
		trendsJSON = []byte("{}")
	}

	snapshot := &models.AnalysisSnapshot{
		StressLevel:       result.StressLevel,
		ProductivityScore: result.ProductivityScore,
		SleepQuality:      result.SleepQuality,
		TrendsJSON:        string(trendsJSON),
	}
	if result.AnalysisData.Error != "" {
		snapshot.Error = &result.AnalysisData.Error
	}

	if err := a.Repo.Save(snapshot); err != nil {
		log.Printf("analyzer: failed to persist analysis snapshot: %v", err)
	}
}
