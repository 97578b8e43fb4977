package media

type AssetType string

const (
	AssetTypeKnownFace    AssetType = "known_face"
	AssetTypeGalleryThumb AssetType = "gallery_thumbnail"
	AssetTypeFrame        AssetType = "annotated_frame"
)

// UnknownIdentity is reported when a detected face matches no gallery entry
const UnknownIdentity = "Unknown"

// MaxDistance is the sentinel match distance used when no comparison was
// possible (empty gallery or failed encoding extraction)
const MaxDistance = 1.0

// Emotion labels form a fixed enumeration; EmotionUnknown is the classifier's
// failure value and never participates in weighted aggregation.
const (
	EmotionHappy    = "happy"
	EmotionSad      = "sad"
	EmotionAngry    = "angry"
	EmotionFear     = "fear"
	EmotionSurprise = "surprise"
	EmotionDisgust  = "disgust"
	EmotionNeutral  = "neutral"
	EmotionUnknown  = "unknown"
)

// RecognizedEmotions is the set of labels valid for matching and aggregation
var RecognizedEmotions = map[string]bool{
	EmotionHappy:    true,
	EmotionSad:      true,
	EmotionAngry:    true,
	EmotionFear:     true,
	EmotionSurprise: true,
	EmotionDisgust:  true,
	EmotionNeutral:  true,
}

// localizedEmotionNames are the display names drawn onto annotated frames,
// kept from the original deployment
var localizedEmotionNames = map[string]string{
	EmotionHappy:    "Mutlu",
	EmotionSad:      "Uzgun",
	EmotionAngry:    "Kizgin",
	EmotionFear:     "Korku",
	EmotionSurprise: "Saskin",
	EmotionDisgust:  "Igrenme",
	EmotionNeutral:  "Notr",
}

// LocalizedEmotion returns the display name for a label, falling back to the
// label itself
func LocalizedEmotion(emotion string) string {
	if name, ok := localizedEmotionNames[emotion]; ok {
		return name
	}
	return emotion
}

// DetectionResult is one detected face region in a frame
type DetectionResult struct {
	X          int
	Y          int
	W          int
	H          int
	Confidence float32
}

// DetectedFace is a detected region with its extracted encoding and emotion.
// Encoding is nil when extraction failed; Emotion/EmotionConfidence are the
// classifier's failure values in that boundary's failure case.
type DetectedFace struct {
	Box               DetectionResult `json:"box"`
	Encoding          []float32       `json:"-"`
	Emotion           string          `json:"emotion"`
	EmotionConfidence float64         `json:"confidence"`
}

// RecognizedFace is a DetectedFace resolved against the gallery
type RecognizedFace struct {
	DetectedFace
	Name     string  `json:"name"`     // UnknownIdentity when unmatched
	Distance float64 `json:"distance"` // lower is better; MaxDistance sentinel when incomparable
}

// KnownFace is one enrolled gallery entry: identity name plus its reference
// encoding. Immutable during a session; the gallery is rebuilt wholesale on
// reload.
type KnownFace struct {
	Name     string
	Encoding []float32
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minFloat32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxFloat32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
