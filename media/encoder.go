package media

import (
	"image"
	"log"
	"math"
	"os"

	"gocv.io/x/gocv"
)

// FaceEncoder extracts identity encodings from face regions using a
// pretrained embedding network (ArcFace, FaceNet, etc.)
type FaceEncoder struct {
	Net       gocv.Net
	Enabled   bool
	ModelName string

	// Configuration parameters
	InputSizeW  int
	InputSizeH  int
	ScaleFactor float64
	MeanVal     gocv.Scalar
}

// NewFaceEncoder loads the embedding model. A missing or unreadable model
// disables encoding: detection and emotion classification still run, every
// face just reports Unknown.
func NewFaceEncoder(modelPath string, modelName string) *FaceEncoder {
	if modelPath == "" {
		log.Println("recognition: model path is empty, disabling face encoding")
		return &FaceEncoder{Enabled: false}
	}

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		log.Printf("recognition: ERROR - Model file does not exist: %s", modelPath)
		return &FaceEncoder{Enabled: false}
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		log.Printf("recognition: ERROR - ReadNet returned an empty network for %s. Check file path and integrity.", modelName)
		return &FaceEncoder{Enabled: false}
	}

	log.Printf("recognition: successfully loaded %s model", modelName)

	cudaBackendErr := net.SetPreferableBackend(gocv.NetBackendCUDA)
	cudaTargetErr := net.SetPreferableTarget(gocv.NetTargetCUDA)

	if cudaBackendErr == nil && cudaTargetErr == nil {
		log.Printf("recognition: Set backend/target to CUDA for %s", modelName)
	} else {
		net.SetPreferableBackend(gocv.NetBackendDefault)
		net.SetPreferableTarget(gocv.NetTargetCPU)
		log.Printf("recognition: Set backend/target to CPU (Default) for %s", modelName)
	}

	var inputSizeW, inputSizeH int
	switch modelName {
	case "facenet":
		inputSizeW, inputSizeH = 160, 160
	default: // arcface and compatible 112x112 models
		inputSizeW, inputSizeH = 112, 112
	}

	return &FaceEncoder{
		Net:         net,
		Enabled:     true,
		ModelName:   modelName,
		InputSizeW:  inputSizeW,
		InputSizeH:  inputSizeH,
		ScaleFactor: 1.0 / 255.0,
		MeanVal:     gocv.NewScalar(0, 0, 0, 0),
	}
}

func (f *FaceEncoder) Close() {
	if f != nil && f.Enabled {
		f.Net.Close()
		log.Printf("recognition: closed %s network", f.ModelName)
		f.Enabled = false
	}
}

// ExtractEncoding extracts an L2-normalized encoding from a face region.
// Returns nil on any failure; callers treat a nil encoding as
// extraction-failed and match it to Unknown.
func (f *FaceEncoder) ExtractEncoding(faceRegion gocv.Mat) []float32 {
	if f == nil || !f.Enabled || faceRegion.Empty() {
		return nil
	}

	processed := f.preprocessFace(faceRegion)
	if processed.Empty() {
		log.Printf("recognition: ERROR - preprocessing returned empty matrix")
		return nil
	}
	defer processed.Close()

	blob := gocv.BlobFromImage(processed, f.ScaleFactor, image.Pt(f.InputSizeW, f.InputSizeH), f.MeanVal, false, false)
	defer blob.Close()

	f.Net.SetInput(blob, "")
	output := f.Net.Forward("")
	defer output.Close()

	encoding := flattenOutput(output)
	if len(encoding) == 0 {
		log.Printf("recognition: WARNING - model produced an empty encoding")
		return nil
	}

	return normalizeEncoding(encoding)
}

// preprocessFace prepares a face region for encoding extraction
func (f *FaceEncoder) preprocessFace(faceRegion gocv.Mat) gocv.Mat {
	if faceRegion.Empty() {
		return gocv.Mat{}
	}

	// the embedding nets expect RGB input; gocv decodes BGR
	var processed gocv.Mat
	if faceRegion.Channels() == 3 {
		processed = gocv.NewMat()
		gocv.CvtColor(faceRegion, &processed, gocv.ColorBGRToRGB)
	} else {
		processed = faceRegion.Clone()
	}

	aligned := gocv.NewMat()
	gocv.Resize(processed, &aligned, image.Pt(f.InputSizeW, f.InputSizeH), 0, 0, gocv.InterpolationLinear)
	processed.Close()

	normalized := gocv.NewMat()
	aligned.ConvertTo(&normalized, gocv.MatTypeCV32F)
	aligned.Close()

	return normalized
}

// flattenOutput extracts the encoding vector from the model output
func flattenOutput(output gocv.Mat) []float32 {
	sizes := output.Size()
	if len(sizes) == 0 {
		return nil
	}

	flattened := output.Reshape(1, 1)
	defer flattened.Close()

	encodingSize := flattened.Cols()
	encoding := make([]float32, encodingSize)
	for i := 0; i < encodingSize; i++ {
		encoding[i] = flattened.GetFloatAt(0, i)
	}
	return encoding
}

// normalizeEncoding normalizes the encoding vector to unit length
func normalizeEncoding(encoding []float32) []float32 {
	var norm float32
	for _, val := range encoding {
		norm += val * val
	}
	norm = float32(math.Sqrt(float64(norm)))
	if norm == 0 {
		return encoding
	}

	normalized := make([]float32, len(encoding))
	for i, val := range encoding {
		normalized[i] = val / norm
	}
	return normalized
}
