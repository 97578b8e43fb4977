package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// defaultResponses are the per-emotion fallback messages used whenever the
// remote suggestion API cannot be reached, kept from the original deployment
var defaultResponses = map[string]string{
	"happy":    "Mutlu olduğunu görmek harika! Bu enerjiyi sürdürmek için sevdiğin bir şarkı dinleyebilir veya arkadaşlarınla vakit geçirebilirsin. Bugün, mutluluğunu paylaşarak etrafındakilere de pozitif enerji verebilirsin.",
	"sad":      "Üzgün hissetmek de normal. Kendine biraz zaman ayırabilir, sevdiğin bir filmi izleyebilir veya rahatlatıcı bir müzik dinleyebilirsin. Belki sıcak bir çay veya kahve iyi gelebilir. Unutma, her zor duygu geçicidir.",
	"angry":    "Öfke, enerjini tüketebilir. Derin nefes alma egzersizleri yapmayı, kısa bir yürüyüşe çıkmayı veya sakinleştirici bir müzik dinlemeyi deneyebilirsin. Duygularını bir yere yazmak da yardımcı olabilir.",
	"surprise": "Şaşkınlık, hayatın bize sunduğu ilginç anlardan biri! Bu duyguyu değerlendir ve yeni keşifler yapmak için bir fırsat olarak gör. Belki de günün geri kalanında başka sürprizler de seni bekliyor olabilir.",
	"fear":     "Korku hissettiğinde, güvenli hissettiğin bir yere gitmeyi ve sevdiğin biriyle konuşmayı deneyebilirsin. Derin nefes alıp vermen ve 'şu anda güvendeyim' diye kendine hatırlatman yardımcı olabilir.",
	"disgust":  "Hoşnut olmadığın bir durumla karşılaştığında, dikkatini daha pozitif şeylere yönlendirmek iyi gelebilir. Belki sevdiğin bir hobi ile uğraşabilir veya temiz havada kısa bir yürüyüş yapabilirsin.",
	"neutral":  "Nötr hissetmek, yeni deneyimlere açık olduğun bir an olabilir. Belki yeni bir kitap okumayı, yeni bir yemek denemeyi veya sevdiğin bir aktiviteye zaman ayırmayı düşünebilirsin.",
}

const fallbackResponse = "Bu duygu için henüz bir önerim yok, ama seninle konuşmak her zaman güzel."

// SuggesterConfig configures the remote suggestion client
type SuggesterConfig struct {
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
}

// Suggester produces coping suggestions for an emotion via a remote
// chat-completions API, falling back to the static per-emotion table on any
// failure. No retries are attempted.
type Suggester struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewSuggester creates a suggester. An empty API key is allowed; every call
// then serves the static fallback.
func NewSuggester(cfg SuggesterConfig) *Suggester {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Suggester{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// StaticResponse returns the canned message for an emotion
func StaticResponse(emotion string) string {
	if resp, ok := defaultResponses[emotion]; ok {
		return resp
	}
	return fallbackResponse
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GetResponse returns suggestion text for the given emotion, remote first,
// static table on any failure
func (s *Suggester) GetResponse(ctx context.Context, emotion string) string {
	if s.apiKey == "" {
		return StaticResponse(emotion)
	}

	text, err := s.requestSuggestion(ctx, emotion)
	if err != nil {
		log.Printf("suggestions: API call failed, using static response: %v", err)
		return StaticResponse(emotion)
	}
	return text
}

func (s *Suggester) requestSuggestion(ctx context.Context, emotion string) (string, error) {
	prompt := fmt.Sprintf("Sen bir duygu asistanısın. Kullanıcı şu anda '%s' hissediyor. "+
		"Ona moral verecek, eğlendirecek veya ilgisini dağıtacak önerilerde bulun. "+
		"Bunlar arasında bir şarkı önerisi, bir kahve önerisi ve güncel genel kültürden kısa bir bilgi olabilir. "+
		"Cevabını samimi ve kısa tut. Türkçe yaz.", emotion)

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "Sen yardımcı bir asistanısın."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   200,
		Temperature: 0.8,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("response contained empty content")
	}
	return text, nil
}
