package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"postpulse/db"
	"postpulse/internal/insight"
	"postpulse/internal/repository"
	"postpulse/pkg/embed"

	"github.com/joho/godotenv"
)

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

	embedder := embed.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"))
	index := insight.NewIndex(embedder, embeddingRepo)
	tiering := insight.NewTieringEngine(embeddingRepo)

	populator := insight.NewPopulator(postRepo, index, tiering)

	// SIGINT/SIGTERM stops the job between batches; the current batch still
	// finishes and tiers are still recomputed.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := populator.PopulateAll(ctx)
	if err != nil {
		log.Fatalf("error populating embeddings: %v", err)
	}

	slog.Info("populator finished", "processed", summary.Processed, "skipped", summary.Skipped, "errors", summary.Errors)
}
