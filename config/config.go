package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DefaultKnownFacesSubDir    = "known_faces"
	DefaultGalleryThumbsSubDir = "gallery_thumbnails"
	DefaultFramesSubDir        = "annotated_frames"
)

const (
	defaultMatchTolerance   = 0.6
	defaultGalleryThumbSize = 150
)

type Config struct {
	// root for generated data (history file, gallery, annotated frames)
	DataPath string

	// emotion history CSV path
	EmotionHistoryPath string

	// database path (people registry, analysis snapshots)
	DatabasePath string

	// gallery configuration
	KnownFacesPath      string // reference images, one per identity
	GalleryThumbsPath   string // full-calculated path for gallery thumbnails
	AnnotatedFramesPath string
	GalleryThumbSize    int

	// face detection model paths (DNN)
	FaceDNNNetConfigPath string
	FaceDNNNetModelPath  string

	// face recognition (embedding) model
	RecognitionModelPath string
	RecognitionModelName string

	// emotion classification model
	EmotionModelPath string

	// matching settings
	MatchTolerance float64

	// suggestion service (Groq)
	GroqAPIKey string
	GroqAPIURL string
	GroqModel  string

	// optional bcrypt hash guarding mutating routes; empty disables the check
	AdminPasswordHash string

	// periodic analysis worker; zero disables it
	AnalysisInterval time.Duration

	AllowedOrigin string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %g. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvDurationOrDefault(envVar string, defaultVal time.Duration) time.Duration {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := time.ParseDuration(valStr)
	if err != nil || val < 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %s. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dataPath := getEnvOrDefault("DATA_PATH", filepath.Join(".", "data"))
	absDataPath, err := filepath.Abs(dataPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for data directory '%s': %w", dataPath, err)
	}

	historyPath := getEnvOrDefault("EMOTION_HISTORY_PATH", filepath.Join(absDataPath, "emotion_history.csv"))
	dbPath := getEnvOrDefault("DATABASE_PATH", filepath.Join(absDataPath, "emotions.db"))

	knownFacesSubDir := getEnvOrDefault("KNOWN_FACES_SUBDIR", DefaultKnownFacesSubDir)
	absKnownFacesPath := filepath.Join(absDataPath, knownFacesSubDir)

	thumbsSubDir := getEnvOrDefault("GALLERY_THUMBS_SUBDIR", DefaultGalleryThumbsSubDir)
	absGalleryThumbsPath := filepath.Join(absDataPath, thumbsSubDir)

	framesSubDir := getEnvOrDefault("FRAMES_SUBDIR", DefaultFramesSubDir)
	absFramesPath := filepath.Join(absDataPath, framesSubDir)

	faceDNNConfig := getEnvOrDefault("FACE_DNN_CONFIG_PATH", "./models/deploy.prototxt.txt")
	faceDNNModel := getEnvOrDefault("FACE_DNN_MODEL_PATH", "./models/res10_300x300_ssd_iter_140000_fp16.caffemodel")

	recognitionModel := getEnvOrDefault("RECOGNITION_MODEL_PATH", "./models/arcface.onnx")
	recognitionModelName := getEnvOrDefault("RECOGNITION_MODEL_NAME", "arcface")

	emotionModel := getEnvOrDefault("EMOTION_MODEL_PATH", "./models/emotion_model.onnx")

	cfg := Config{
		DataPath:             absDataPath,
		EmotionHistoryPath:   historyPath,
		DatabasePath:         dbPath,
		KnownFacesPath:       absKnownFacesPath,
		GalleryThumbsPath:    absGalleryThumbsPath,
		AnnotatedFramesPath:  absFramesPath,
		GalleryThumbSize:     getEnvIntOrDefault("GALLERY_THUMB_SIZE", defaultGalleryThumbSize),
		FaceDNNNetConfigPath: faceDNNConfig,
		FaceDNNNetModelPath:  faceDNNModel,
		RecognitionModelPath: recognitionModel,
		RecognitionModelName: recognitionModelName,
		EmotionModelPath:     emotionModel,
		MatchTolerance:       getEnvFloatOrDefault("MATCH_TOLERANCE", defaultMatchTolerance),
		GroqAPIKey:           os.Getenv("GROQ_API_KEY"),
		GroqAPIURL:           getEnvOrDefault("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqModel:            getEnvOrDefault("GROQ_MODEL", "llama3-8b-8192"),
		AdminPasswordHash:    os.Getenv("ADMIN_PASSWORD_HASH"),
		AnalysisInterval:     getEnvDurationOrDefault("ANALYSIS_INTERVAL", 0),
		AllowedOrigin:        getEnvOrDefault("ALLOWED_ORIGIN", "http://localhost:5173"),
	}

	return cfg, nil
}
