package handlers

import (
	"bytes"
	"log"
	"net/http"

	"github.com/camden-git/emotionsysbackend/media"
	"github.com/camden-git/emotionsysbackend/realtime"
	"github.com/camden-git/emotionsysbackend/services"
	"gocv.io/x/gocv"
)

const maxUploadBytes = 20 << 20 // 20 MiB

// AnalyzeHandler runs the full recognition pipeline over an uploaded frame
type AnalyzeHandler struct {
	Pipeline  *services.Pipeline
	Suggester *services.Suggester
	Store     media.Store
	Hub       *realtime.Hub
}

// AnalyzeResponse is the result of one pipeline run over one frame
type AnalyzeResponse struct {
	Faces        []media.RecognizedFace `json:"faces"`
	GroupEmotion string                 `json:"group_emotion"`
	Distribution map[string]float64     `json:"distribution"`
	Suggestion   string                 `json:"suggestion,omitempty"`
	FrameURL     string                 `json:"frame_url,omitempty"`
	Message      string                 `json:"message,omitempty"`
}

// AnalyzeFrame accepts a multipart image upload, recognizes every face in it,
// and returns the results plus a URL to the annotated frame
func (ah *AnalyzeHandler) AnalyzeFrame(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "Failed to parse multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "missing_image", "Missing 'image' form file")
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "Failed to read uploaded image")
		return
	}

	frame, err := gocv.IMDecode(buf.Bytes(), gocv.IMReadColor)
	if err != nil || frame.Empty() {
		WriteAPIError(w, http.StatusBadRequest, "invalid_image", "Uploaded data is not a decodable image")
		return
	}
	defer frame.Close()

	faces := ah.Pipeline.RecognizeFrame(frame)
	if len(faces) == 0 {
		writeJSON(w, http.StatusOK, AnalyzeResponse{
			Faces:        []media.RecognizedFace{},
			GroupEmotion: media.EmotionNeutral,
			Distribution: map[string]float64{},
			Message:      "No face detected in the uploaded image",
		})
		return
	}

	groupEmotion, distribution := services.GroupEmotion(faces)

	resp := AnalyzeResponse{
		Faces:        faces,
		GroupEmotion: groupEmotion,
		Distribution: distribution,
		Suggestion:   ah.Suggester.GetResponse(r.Context(), faces[0].Emotion),
	}

	// annotation and frame persistence are best-effort; recognition results
	// are returned even if the annotated image cannot be produced
	media.AnnotateFrame(&frame, faces)
	if encoded, err := gocv.IMEncode(gocv.JPEGFileExt, frame); err == nil {
		savedPath, saveErr := ah.Store.Save(media.AssetTypeFrame, "", ".jpg", bytes.NewReader(encoded.GetBytes()))
		encoded.Close()
		if saveErr != nil {
			log.Printf("analyze: failed to save annotated frame: %v", saveErr)
		} else {
			resp.FrameURL = "/api/" + savedPath
		}
	} else {
		log.Printf("analyze: failed to encode annotated frame: %v", err)
	}

	if ah.Hub != nil {
		ah.Hub.Broadcast(realtime.Event{Type: realtime.EventObservation, Payload: resp})
	}

	writeJSON(w, http.StatusOK, resp)
}
