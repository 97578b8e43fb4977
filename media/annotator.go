package media

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Match-quality presentation tiers. Thresholds are fixed display policy,
// unrelated to the matcher's acceptance tolerance.
const (
	strongMatchDistance = 0.4
	weakMatchDistance   = 0.55
)

var (
	strongMatchColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	weakMatchColor   = color.RGBA{R: 128, G: 255, B: 0, A: 0}
	borderlineColor  = color.RGBA{R: 255, G: 165, B: 0, A: 0}
	alertColor       = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	labelTextColor   = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// MatchColor maps a face's match quality to its box color: a pure function of
// identity and distance
func MatchColor(name string, distance float64) color.RGBA {
	if name == UnknownIdentity {
		return alertColor
	}
	switch {
	case distance < strongMatchDistance:
		return strongMatchColor
	case distance < weakMatchDistance:
		return weakMatchColor
	default:
		return borderlineColor
	}
}

// FaceLabel renders the annotation text for one recognized face
func FaceLabel(face RecognizedFace) string {
	return fmt.Sprintf("%s | %s (%.2f)", face.Name, LocalizedEmotion(face.Emotion), face.EmotionConfidence)
}

// AnnotateFrame draws a bounding box and identity/emotion label for every
// recognized face. The frame buffer is mutated in place and returned; no
// other state is touched.
func AnnotateFrame(frame *gocv.Mat, faces []RecognizedFace) *gocv.Mat {
	for _, face := range faces {
		frameColor := MatchColor(face.Name, face.Distance)
		box := image.Rect(face.Box.X, face.Box.Y, face.Box.X+face.Box.W, face.Box.Y+face.Box.H)

		gocv.Rectangle(frame, box, frameColor, 2)

		label := FaceLabel(face)
		yPos := maxInt(face.Box.Y-10, 10)

		textSize := gocv.GetTextSize(label, gocv.FontHersheySimplex, 0.7, 2)
		background := image.Rect(face.Box.X, yPos-textSize.Y-5, face.Box.X+textSize.X+5, yPos+5)
		gocv.Rectangle(frame, background, frameColor, -1)

		gocv.PutText(frame, label, image.Pt(face.Box.X, yPos), gocv.FontHersheySimplex, 0.7, labelTextColor, 2)
	}
	return frame
}
