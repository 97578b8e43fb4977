package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/camden-git/emotionsysbackend/config"
	"github.com/camden-git/emotionsysbackend/database"
	"github.com/camden-git/emotionsysbackend/handlers"
	"github.com/camden-git/emotionsysbackend/media"
	"github.com/camden-git/emotionsysbackend/realtime"
	"github.com/camden-git/emotionsysbackend/repository"
	"github.com/camden-git/emotionsysbackend/services"
	"github.com/camden-git/emotionsysbackend/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.KnownFacesPath, cfg.GalleryThumbsPath, cfg.AnnotatedFramesPath, filepath.Dir(cfg.DatabasePath), filepath.Dir(cfg.EmotionHistoryPath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	gormDB, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to access underlying database handle: %v", err)
	}
	defer sqlDB.Close()

	emotionStore, err := database.NewEmotionStore(cfg.EmotionHistoryPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize emotion history store: %v", err)
	}

	assetSubDirs := map[media.AssetType]string{
		media.AssetTypeKnownFace:    filepath.Base(cfg.KnownFacesPath),
		media.AssetTypeGalleryThumb: filepath.Base(cfg.GalleryThumbsPath),
		media.AssetTypeFrame:        filepath.Base(cfg.AnnotatedFramesPath),
	}
	assetStore, err := media.NewLocalStorage(cfg.DataPath, assetSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize asset store: %v", err)
	}

	detector := media.NewDNNFaceDetector(cfg.FaceDNNNetConfigPath, cfg.FaceDNNNetModelPath)
	defer detector.Close()
	encoder := media.NewFaceEncoder(cfg.RecognitionModelPath, cfg.RecognitionModelName)
	defer encoder.Close()
	classifier := media.NewEmotionClassifier(cfg.EmotionModelPath)
	defer classifier.Close()

	gallery, err := media.NewGallery(cfg.KnownFacesPath, detector, encoder)
	if err != nil {
		log.Fatalf("FATAL: Failed to load known faces gallery: %v", err)
	}

	personRepo := repository.NewPersonRepository(gormDB)
	analysisRepo := repository.NewAnalysisRepository(gormDB)

	pipeline := &services.Pipeline{
		Detector:   detector,
		Encoder:    encoder,
		Classifier: classifier,
		Gallery:    gallery,
		Matcher:    services.NewMatcher(cfg.MatchTolerance),
		Store:      emotionStore,
	}
	analyzer := services.NewAnalyzer(emotionStore, analysisRepo)
	suggester := services.NewSuggester(services.SuggesterConfig{
		APIKey: cfg.GroqAPIKey,
		APIURL: cfg.GroqAPIURL,
		Model:  cfg.GroqModel,
	})

	hub := realtime.NewHub()
	go hub.Run()

	analysisWorker := workers.NewAnalysisWorker(analyzer, hub, cfg.AnalysisInterval)
	analysisWorker.Start()
	defer analysisWorker.Stop()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Emotion history: %s", cfg.EmotionHistoryPath)
	log.Printf("Known faces gallery: %s (%d enrolled)", cfg.KnownFacesPath, len(gallery.Entries()))
	log.Printf("Match tolerance: %.2f", cfg.MatchTolerance)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Password"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	analyzeHandler := &handlers.AnalyzeHandler{Pipeline: pipeline, Suggester: suggester, Store: assetStore, Hub: hub}
	facesHandler := &handlers.FacesHandler{Gallery: gallery, Detector: detector, Repo: personRepo, Store: assetStore, ThumbSize: cfg.GalleryThumbSize}
	historyHandler := &handlers.HistoryHandler{Store: emotionStore}
	analysisHandler := &handlers.AnalysisHandler{Analyzer: analyzer, DB: sqlDB, Hub: hub}
	suggestionsHandler := &handlers.SuggestionsHandler{Suggester: suggester}

	requireAdmin := handlers.RequireAdmin(cfg.AdminPasswordHash)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", analyzeHandler.AnalyzeFrame)

		r.Route("/faces", func(r chi.Router) {
			r.Get("/", facesHandler.ListFaces)
			r.With(requireAdmin).Post("/", facesHandler.EnrollFace)
			r.With(requireAdmin).Delete("/{name}", facesHandler.DeleteFace)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", historyHandler.GetHistory)
			r.Get("/stats", historyHandler.GetHistoryStats)
		})

		r.Route("/analysis", func(r chi.Router) {
			r.Get("/", analysisHandler.ListSnapshots)
			r.With(requireAdmin).Post("/run", analysisHandler.RunAnalysis)
		})

		r.Get("/suggestions/{emotion}", suggestionsHandler.GetSuggestion)

		assetServer := handlers.NewAssetServer(assetStore, []string{
			filepath.Base(cfg.KnownFacesPath),
			filepath.Base(cfg.GalleryThumbsPath),
			filepath.Base(cfg.AnnotatedFramesPath),
		})
		r.Get("/*", assetServer.ServeAsset)
	})

	r.Get("/ws", hub.ServeWS)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("FATAL: Server failed to start: %v", err)
	}
}
