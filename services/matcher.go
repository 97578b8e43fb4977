package services

import (
	"image"
	"log"
	"math"
	"time"

	"github.com/camden-git/emotionsysbackend/database"
	"github.com/camden-git/emotionsysbackend/media"
	"gocv.io/x/gocv"
)

// MatchResult is the outcome of resolving one encoding against the gallery
type MatchResult struct {
	Name     string
	Distance float64
}

// Matcher resolves detected face encodings to enrolled identities
type Matcher struct {
	// Tolerance is the maximum acceptable distance for a match; lower is
	// stricter. 0.6 is the canonical default.
	Tolerance float64
}

// NewMatcher creates a matcher with the given acceptance tolerance
func NewMatcher(tolerance float64) *Matcher {
	if tolerance <= 0 {
		tolerance = 0.6
	}
	return &Matcher{Tolerance: tolerance}
}

// EncodingDistance computes the Euclidean distance between two encodings.
// Mismatched lengths report the sentinel maximum.
func EncodingDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return media.MaxDistance
	}
	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// Match finds the closest gallery identity for an encoding. An empty gallery
// or nil encoding always reports Unknown at the sentinel distance. A closest
// match beyond tolerance is rejected but keeps its computed distance for
// diagnostics.
func (m *Matcher) Match(encoding []float32, gallery []media.KnownFace) MatchResult {
	if encoding == nil || len(gallery) == 0 {
		return MatchResult{Name: media.UnknownIdentity, Distance: media.MaxDistance}
	}

	bestIdx := 0
	bestDistance := EncodingDistance(encoding, gallery[0].Encoding)
	for i := 1; i < len(gallery); i++ {
		if d := EncodingDistance(encoding, gallery[i].Encoding); d < bestDistance {
			bestIdx = i
			bestDistance = d
		}
	}

	if bestDistance > m.Tolerance {
		log.Printf("matcher: closest face is %s but distance is too high: %.2f > %.2f", gallery[bestIdx].Name, bestDistance, m.Tolerance)
		return MatchResult{Name: media.UnknownIdentity, Distance: bestDistance}
	}

	return MatchResult{Name: gallery[bestIdx].Name, Distance: bestDistance}
}

// Pipeline runs the end-to-end per-frame flow: detect, encode, classify,
// match, record. One synchronous run per request, no overlap.
type Pipeline struct {
	Detector   *media.DNNFaceDetector
	Encoder    *media.FaceEncoder
	Classifier *media.EmotionClassifier
	Gallery    *media.Gallery
	Matcher    *Matcher
	Store      *database.EmotionStore
}

// RecognizeFrame detects every face in the frame, attaches an emotion label
// and the closest enrolled identity to each, and appends one history record
// per face. Persistence failures are logged and swallowed; the recognition
// result is returned regardless.
func (p *Pipeline) RecognizeFrame(frame gocv.Mat) []media.RecognizedFace {
	detections := p.Detector.DetectFaces(frame)
	gallery := p.Gallery.Entries()

	if len(gallery) == 0 {
		log.Println("matcher: gallery is empty, every face will be reported as Unknown")
	}

	recognized := make([]media.RecognizedFace, 0, len(detections))
	for _, det := range detections {
		region := frame.Region(image.Rect(det.X, det.Y, det.X+det.W, det.Y+det.H))

		encoding := p.Encoder.ExtractEncoding(region)

		// the classifier runs on the cropped region regardless of whether
		// encoding extraction succeeded
		emotion, confidence := p.Classifier.Predict(region)
		region.Close()

		match := p.Matcher.Match(encoding, gallery)
		if match.Name != media.UnknownIdentity {
			log.Printf("matcher: recognized %s (distance: %.2f)", match.Name, match.Distance)
		}

		face := media.RecognizedFace{
			DetectedFace: media.DetectedFace{
				Box:               det,
				Encoding:          encoding,
				Emotion:           emotion,
				EmotionConfidence: confidence,
			},
			Name:     match.Name,
			Distance: match.Distance,
		}
		recognized = append(recognized, face)

		record := database.EmotionRecord{
			Timestamp:  time.Now(),
			Emotion:    emotion,
			Confidence: confidence,
			FaceID:     match.Name,
		}
		if err := p.Store.Append(record); err != nil {
			log.Printf("matcher: failed to persist emotion record: %v", err)
		}
	}

	return recognized
}
