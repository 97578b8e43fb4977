package media

import (
	"image"
	"log"
	"os"

	"gocv.io/x/gocv"
)

// emotionClasses is the output ordering of the pretrained classifier
var emotionClasses = []string{
	EmotionAngry,
	EmotionDisgust,
	EmotionFear,
	EmotionHappy,
	EmotionSad,
	EmotionSurprise,
	EmotionNeutral,
}

// EmotionClassifier runs a pretrained emotion network over cropped face
// regions. Any failure at this boundary yields ("unknown", 0.0) rather than
// an error, so downstream aggregation never sees an absent confidence.
type EmotionClassifier struct {
	Net     gocv.Net
	Enabled bool

	InputSizeW int
	InputSizeH int
}

// NewEmotionClassifier loads the pretrained emotion model from disk
func NewEmotionClassifier(modelPath string) *EmotionClassifier {
	if modelPath == "" {
		log.Println("emotion: model path is empty, disabling emotion classification")
		return &EmotionClassifier{Enabled: false}
	}

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		log.Printf("emotion: ERROR - Model file does not exist: %s", modelPath)
		return &EmotionClassifier{Enabled: false}
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		log.Printf("emotion: ERROR - ReadNet returned an empty network. Check file path and integrity.")
		return &EmotionClassifier{Enabled: false}
	}
	log.Println("emotion: successfully loaded emotion classification model")

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &EmotionClassifier{
		Net:        net,
		Enabled:    true,
		InputSizeW: 48,
		InputSizeH: 48,
	}
}

func (e *EmotionClassifier) Close() {
	if e != nil && e.Enabled {
		e.Net.Close()
		log.Println("emotion: closed network")
		e.Enabled = false
	}
}

// Predict classifies the emotion of a cropped face region. The region is
// converted to grayscale, resized to the network input and scaled to [0,1]
// before inference; the argmax class and its score are returned.
func (e *EmotionClassifier) Predict(faceRegion gocv.Mat) (string, float64) {
	if e == nil || !e.Enabled || faceRegion.Empty() {
		return EmotionUnknown, 0.0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if faceRegion.Channels() == 3 {
		gocv.CvtColor(faceRegion, &gray, gocv.ColorBGRToGray)
	} else {
		faceRegion.CopyTo(&gray)
	}

	blob := gocv.BlobFromImage(gray, 1.0/255.0, image.Pt(e.InputSizeW, e.InputSizeH), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	e.Net.SetInput(blob, "")
	output := e.Net.Forward("")
	defer output.Close()

	scores := flattenOutput(output)
	if len(scores) < len(emotionClasses) {
		log.Printf("emotion: WARNING - unexpected output size %d, want at least %d", len(scores), len(emotionClasses))
		return EmotionUnknown, 0.0
	}

	best := 0
	for i := 1; i < len(emotionClasses); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return emotionClasses[best], float64(scores[best])
}
