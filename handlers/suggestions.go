package handlers

import (
	"net/http"
	"strings"

	"github.com/camden-git/emotionsysbackend/media"
	"github.com/camden-git/emotionsysbackend/services"
	"github.com/go-chi/chi/v5"
)

// SuggestionsHandler serves coping suggestions for a given emotion
type SuggestionsHandler struct {
	Suggester *services.Suggester
}

// SuggestionResponse carries a suggestion for one emotion label
type SuggestionResponse struct {
	Emotion    string `json:"emotion"`
	Display    string `json:"display"`
	Suggestion string `json:"suggestion"`
}

// GetSuggestion returns a coping suggestion for the emotion in the URL. The
// language model is consulted when configured, with static fallbacks
// otherwise.
func (sh *SuggestionsHandler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	emotion := strings.ToLower(chi.URLParam(r, "emotion"))
	if !media.RecognizedEmotions[emotion] {
		WriteAPIError(w, http.StatusBadRequest, "invalid_emotion", "Unknown emotion label '"+emotion+"'")
		return
	}

	writeJSON(w, http.StatusOK, SuggestionResponse{
		Emotion:    emotion,
		Display:    media.LocalizedEmotion(emotion),
		Suggestion: sh.Suggester.GetResponse(r.Context(), emotion),
	})
}
