package media

import (
	"image/color"
	"testing"
)

func TestMatchColor(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		distance float64
		want     string
	}{
		{"unknown is alert regardless of distance", UnknownIdentity, 0.1, "alert"},
		{"strong match", "alice", 0.39, "strong"},
		{"weak match", "alice", 0.45, "weak"},
		{"borderline match", "alice", 0.58, "borderline"},
	}
	colors := map[string]color.RGBA{
		"alert":      alertColor,
		"strong":     strongMatchColor,
		"weak":       weakMatchColor,
		"borderline": borderlineColor,
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchColor(tt.identity, tt.distance)
			if got != colors[tt.want] {
				t.Fatalf("MatchColor(%q, %v) = %v, want %s", tt.identity, tt.distance, got, tt.want)
			}
		})
	}
}

func TestFaceLabel(t *testing.T) {
	face := RecognizedFace{
		DetectedFace: DetectedFace{Emotion: EmotionHappy, EmotionConfidence: 0.876},
		Name:         "alice",
	}
	if got := FaceLabel(face); got != "alice | Mutlu (0.88)" {
		t.Fatalf("FaceLabel = %q", got)
	}
}

func TestLocalizedEmotion(t *testing.T) {
	if got := LocalizedEmotion(EmotionSad); got != "Uzgun" {
		t.Fatalf("LocalizedEmotion(sad) = %q", got)
	}
	if got := LocalizedEmotion("confused"); got != "confused" {
		t.Fatalf("LocalizedEmotion falls back to label, got %q", got)
	}
}
