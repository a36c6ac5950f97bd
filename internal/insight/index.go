package insight

import (
	"strings"

	"postpulse/internal/model"
	"postpulse/pkg/embed"
)

// MinContentChars is the skip-short threshold: anything shorter is not
// meaningful content and would pollute similarity results.
const MinContentChars = 50

type EmbeddingStore interface {
	Upsert(rec *model.EmbeddingRecord) error
	QueryRecent(maxAgeDays, limit int) ([]model.EmbeddingRecord, error)
}

// Index owns the embedding side of a post: it generates the vector, snapshots
// the performance score, and persists the full record in one write.
type Index struct {
	provider embed.Provider
	store    EmbeddingStore
}

func NewIndex(provider embed.Provider, store EmbeddingStore) *Index {
	return &Index{provider: provider, store: store}
}

// Upsert embeds a post and stores the record. Returns false when the post was
// skipped for being too short. A provider failure leaves no partial row: the
// store write only happens after a successful embed.
func (ix *Index) Upsert(post *model.Post) (bool, error) {
	content := strings.TrimSpace(post.Content)
	if len(content) < MinContentChars {
		return false, nil
	}

	vector, err := ix.provider.Embed(content)
	if err != nil {
		return false, err
	}

	rec := &model.EmbeddingRecord{
		PostID:      post.ID,
		Vector:      vector,
		ViralScore:  ViralScore(post),
		Tier:        model.TierAverage,
		HasQuestion: HasQuestion(content),
		HasStory:    HasStory(content),
		HasCTA:      HasCTA(content),
		PostedAt:    post.PostedAt,
	}

	if err := ix.store.Upsert(rec); err != nil {
		return false, err
	}

	return true, nil
}

func (ix *Index) QueryRecent(maxAgeDays, limit int) ([]model.EmbeddingRecord, error) {
	return ix.store.QueryRecent(maxAgeDays, limit)
}
