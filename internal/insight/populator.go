package insight

import (
	"context"
	"log/slog"
	"time"

	"postpulse/internal/model"
)

// Rate limiting is two-tiered: a short pause between individual embedding
// calls and a longer one between batches, to stay under provider throughput
// limits.
const (
	PopulatorBatchSize = 10
	PerPostDelay       = 500 * time.Millisecond
	BatchDelay         = 2 * time.Second

	populatorFetchLimit = 1000
)

type UnembeddedSource interface {
	GetUnembedded(limit int) ([]model.Post, error)
}

type Populator struct {
	posts   UnembeddedSource
	index   *Index
	tiering *TieringEngine

	BatchSize    int
	PerPostDelay time.Duration
	BatchDelay   time.Duration
}

func NewPopulator(posts UnembeddedSource, index *Index, tiering *TieringEngine) *Populator {
	return &Populator{
		posts:        posts,
		index:        index,
		tiering:      tiering,
		BatchSize:    PopulatorBatchSize,
		PerPostDelay: PerPostDelay,
		BatchDelay:   BatchDelay,
	}
}

type PopulateSummary struct {
	Processed int
	Skipped   int
	Errors    int
}

// PopulateAll embeds every unembedded post in batches. Per-post failures are
// counted and logged, never fatal. Context cancellation is honored between
// batches, not mid-batch. Tier assignment runs once at the end no matter how
// many items failed, so tiers reflect whatever did get stored.
func (p *Populator) PopulateAll(ctx context.Context) (PopulateSummary, error) {
	var summary PopulateSummary

	posts, err := p.posts.GetUnembedded(populatorFetchLimit)
	if err != nil {
		return summary, err
	}

	slog.Info("starting embedding population", "pending", len(posts), "batch_size", p.BatchSize)

	for start := 0; start < len(posts); start += p.BatchSize {
		if ctx.Err() != nil {
			slog.Warn("stop requested, not starting next batch", "processed", summary.Processed)
			break
		}

		end := start + p.BatchSize
		if end > len(posts) {
			end = len(posts)
		}

		for i := start; i < end; i++ {
			post := posts[i]

			stored, err := p.index.Upsert(&post)
			if err != nil {
				summary.Errors++
				slog.Error("error embedding post", "error", err, "post_id", post.ID)
			} else if !stored {
				summary.Skipped++
				slog.Info("post skipped, content too short", "post_id", post.ID, "char_count", post.CharCount)
			} else {
				summary.Processed++
			}

			time.Sleep(p.PerPostDelay)
		}

		if end < len(posts) {
			time.Sleep(p.BatchDelay)
		}
	}

	updated, err := p.tiering.UpdateTiers()
	if err != nil {
		slog.Error("error updating tiers after population", "error", err)
		return summary, err
	}

	slog.Info("embedding population complete",
		"processed", summary.Processed, "skipped", summary.Skipped, "errors", summary.Errors, "tiers_updated", updated)

	return summary, nil
}
