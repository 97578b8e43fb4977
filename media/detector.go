package media

import (
	"image"
	"log"

	"gocv.io/x/gocv"
)

// DNNFaceDetector detects faces with an SSD network loaded from disk
type DNNFaceDetector struct {
	Net     gocv.Net
	Enabled bool

	// configuration parameters used during detection
	InputSizeW    int
	InputSizeH    int
	ScaleFactor   float64
	MeanVal       gocv.Scalar
	ConfThreshold float32
}

// NewDNNFaceDetector loads the DNN model
func NewDNNFaceDetector(configPath, modelPath string) *DNNFaceDetector {
	if configPath == "" || modelPath == "" {
		log.Println("detection: config or model path is empty, disabling DNN detector")
		return &DNNFaceDetector{Enabled: false}
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		log.Printf("detection: ERROR loading network model: config=%s, model=%s", configPath, modelPath)
		return &DNNFaceDetector{Enabled: false}
	}
	log.Printf("detection: successfully loaded face detection model")

	cudaBackendErr := net.SetPreferableBackend(gocv.NetBackendCUDA)
	cudaTargetErr := net.SetPreferableTarget(gocv.NetTargetCUDA)

	if cudaBackendErr == nil && cudaTargetErr == nil {
		log.Println("detection: Set backend/target to CUDA")
	} else {
		if cudaBackendErr != nil {
			log.Printf("detection: CUDA Backend not available or failed: %v. Using default backend.", cudaBackendErr)
		}
		if cudaTargetErr != nil {
			log.Printf("detection: CUDA Target not available or failed: %v. Using default target.", cudaTargetErr)
		}

		net.SetPreferableBackend(gocv.NetBackendDefault)
		net.SetPreferableTarget(gocv.NetTargetCPU)
		log.Println("detection: Set backend/target to CPU (Default)")
	}

	return &DNNFaceDetector{
		Net:           net,
		Enabled:       true,
		InputSizeW:    300,
		InputSizeH:    300,
		ScaleFactor:   1.0,
		MeanVal:       gocv.NewScalar(104.0, 177.0, 123.0, 0),
		ConfThreshold: 0.5,
	}
}

func (d *DNNFaceDetector) Close() {
	if d != nil && d.Enabled {
		d.Net.Close()
		log.Println("detection: closed network")
		d.Enabled = false
	}
}

// DetectFaces runs face detection using the loaded DNN model
func (d *DNNFaceDetector) DetectFaces(img gocv.Mat) []DetectionResult {
	if d == nil || !d.Enabled || img.Empty() {
		return nil
	}

	imgHeight := float32(img.Rows())
	imgWidth := float32(img.Cols())

	blob := gocv.BlobFromImage(img, d.ScaleFactor, image.Pt(d.InputSizeW, d.InputSizeH), d.MeanVal, false, false)
	defer blob.Close()

	d.Net.SetInput(blob, "")
	detectionsMat := d.Net.Forward("")
	defer detectionsMat.Close()

	results := []DetectionResult{}

	sizes := detectionsMat.Size()
	if len(sizes) != 4 || sizes[0] != 1 || sizes[1] != 1 {
		log.Printf("detection: Warning - Unexpected output matrix dimensions: %v", sizes)

		if len(sizes) < 3 {
			log.Printf("detection: Error - Output matrix dimensions too small to parse")
			return results
		}
	}

	numDetections := sizes[2]
	if numDetections == 0 {
		return results
	}

	// reshape the Mat to 2D: [N, 7] for easier access with GetFloatAt(row, col)
	detections2D := detectionsMat.Reshape(1, numDetections*sizes[3])
	detectionsData := detections2D.Reshape(1, numDetections)
	defer detectionsData.Close()

	for i := 0; i < numDetections; i++ {
		confidence := detectionsData.GetFloatAt(i, 2)

		if confidence > d.ConfThreshold {
			xMin := detectionsData.GetFloatAt(i, 3) * imgWidth
			yMin := detectionsData.GetFloatAt(i, 4) * imgHeight
			xMax := detectionsData.GetFloatAt(i, 5) * imgWidth
			yMax := detectionsData.GetFloatAt(i, 6) * imgHeight

			xMin = maxFloat32(0, xMin)
			yMin = maxFloat32(0, yMin)
			xMax = minFloat32(imgWidth, xMax)
			yMax = minFloat32(imgHeight, yMax)

			if xMax > xMin && yMax > yMin {
				results = append(results, DetectionResult{
					X:          int(xMin),
					Y:          int(yMin),
					W:          int(xMax - xMin),
					H:          int(yMax - yMin),
					Confidence: confidence,
				})
			}
		}
	}

	return results
}

// LargestFace returns the detection with the biggest area, for enrollment
// flows that expect one dominant face per reference image
func LargestFace(detections []DetectionResult) (DetectionResult, bool) {
	if len(detections) == 0 {
		return DetectionResult{}, false
	}
	best := detections[0]
	for _, det := range detections[1:] {
		if det.W*det.H > best.W*best.H {
			best = det
		}
	}
	return best, true
}
