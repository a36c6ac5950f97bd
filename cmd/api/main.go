package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"postpulse/db"
	"postpulse/internal/handler"
	"postpulse/internal/insight"
	"postpulse/internal/repository"
	"postpulse/pkg/embed"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const sweepInterval = time.Hour

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	postRepo := repository.NewPostRepository(db.DB)
	embeddingRepo := repository.NewEmbeddingRepository(db.DB)
	cacheRepo := repository.NewInsightCacheRepository(db.DB)

	embedder := embed.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"))

	index := insight.NewIndex(embedder, embeddingRepo)
	ranker := insight.NewRanker(embedder)
	service := insight.NewService(ranker, index, cacheRepo, postRepo)

	insightHandler := handler.NewInsightHandler(service, cacheRepo)

	go sweepLoop(cacheRepo)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/insights", insightHandler.GetInsight)
	r.GET("/insights/cache/stats", insightHandler.GetCacheStats)
	r.POST("/admin/cache/sweep", insightHandler.SweepCache)
	r.GET("/health", insightHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// sweepLoop deletes expired insight entries once an hour. Expired entries are
// never served either way; this just keeps the table from growing unbounded.
func sweepLoop(cacheRepo *repository.InsightCacheRepository) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		deleted, err := cacheRepo.SweepExpired()
		if err != nil {
			slog.Error("error sweeping expired insights", "error", err)
			continue
		}
		if deleted > 0 {
			slog.Info("expired insights swept", "deleted", deleted)
		}
	}
}
