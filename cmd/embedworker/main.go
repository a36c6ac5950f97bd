package main

import (
	"errors"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"postpulse/db"
	"postpulse/internal/insight"
	"postpulse/internal/repository"
	"postpulse/pkg/embed"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const popTimeout = 30 * time.Second

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	postRepo := repository.NewPostRepository(db.DB)
	embeddingRepo := repository.NewEmbeddingRepository(db.DB)

	embedder := embed.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"))
	index := insight.NewIndex(embedder, embeddingRepo)

	for {
		id, err := db.PopFromQueue(db.EmbedQueueKey, popTimeout)
		if errors.Is(err, redis.Nil) {
			// Queue idle, BRPop timed out.
			continue
		}
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		postID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			slog.Error("invalid post id in queue", "id", id, "error", err)
			continue
		}

		post, err := postRepo.GetByID(postID)
		if err != nil {
			slog.Error("error getting post from DB", "error", err, "post_id", postID)
			continue
		}

		if post == nil {
			slog.Warn("post not found in DB", "post_id", postID)
			continue
		}

		stored, err := index.Upsert(post)
		if err != nil {
			slog.Error("error embedding post", "error", err, "post_id", postID)
			if pushErr := db.PushToQueue(db.DeadLetterKey, id); pushErr != nil {
				slog.Error("error pushing to dead letter queue", "error", pushErr, "post_id", postID)
			}
			continue
		}

		if !stored {
			slog.Info("post skipped, content too short", "post_id", postID)
			continue
		}

		slog.Info("post embedded", "post_id", postID)
	}
}
