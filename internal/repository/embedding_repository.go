package repository

import (
	"database/sql"
	"postpulse/internal/model"

	"github.com/lib/pq"
)

type EmbeddingRepository struct {
	db *sql.DB
}

func NewEmbeddingRepository(db *sql.DB) *EmbeddingRepository {
	return &EmbeddingRepository{db: db}
}

// Upsert writes a complete embedding row in one statement; a post either has
// a full record or none at all.
func (r *EmbeddingRepository) Upsert(rec *model.EmbeddingRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO post_embedding(post_id, vector, viral_score, performance_tier, has_question, has_story, has_cta, posted_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (post_id) DO UPDATE
		SET vector = EXCLUDED.vector,
			viral_score = EXCLUDED.viral_score,
			performance_tier = EXCLUDED.performance_tier,
			has_question = EXCLUDED.has_question,
			has_story = EXCLUDED.has_story,
			has_cta = EXCLUDED.has_cta,
			posted_at = EXCLUDED.posted_at,
			embedded_at = now()
	`, rec.PostID, pq.Array(rec.Vector), rec.ViralScore, rec.Tier, rec.HasQuestion, rec.HasStory, rec.HasCTA, rec.PostedAt)
	return err
}

func (r *EmbeddingRepository) QueryRecent(maxAgeDays, limit int) ([]model.EmbeddingRecord, error) {
	rows, err := r.db.Query(`
		SELECT post_id, vector, viral_score, performance_tier, has_question, has_story, has_cta, posted_at, embedded_at
		FROM post_embedding
		WHERE posted_at > now() - ($1 * interval '1 day')
		ORDER BY posted_at DESC
		LIMIT $2
	`, maxAgeDays, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.EmbeddingRecord
	for rows.Next() {
		var rec model.EmbeddingRecord
		var vector pq.Float64Array
		err := rows.Scan(&rec.PostID, &vector, &rec.ViralScore, &rec.Tier, &rec.HasQuestion, &rec.HasStory, &rec.HasCTA, &rec.PostedAt, &rec.EmbeddedAt)
		if err != nil {
			return nil, err
		}
		rec.Vector = vector
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// GetScores returns every stored (post_id, viral_score) pair, highest score
// first, for percentile tier assignment.
func (r *EmbeddingRepository) GetScores() ([]model.PostScore, error) {
	rows, err := r.db.Query(`
		SELECT post_id, viral_score
		FROM post_embedding
		ORDER BY viral_score DESC, post_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []model.PostScore
	for rows.Next() {
		var s model.PostScore
		if err := rows.Scan(&s.PostID, &s.ViralScore); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *EmbeddingRepository) UpdateTier(postID int64, tier string) error {
	_, err := r.db.Exec(`
		UPDATE post_embedding SET performance_tier = $2 WHERE post_id = $1
	`, postID, tier)
	return err
}

func (r *EmbeddingRepository) GetEmbeddingTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM post_embedding`).Scan(&total)
	return total, err
}
