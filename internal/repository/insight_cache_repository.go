package repository

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"postpulse/internal/model"

	"github.com/lib/pq"
)

type InsightCacheRepository struct {
	db *sql.DB
}

func NewInsightCacheRepository(db *sql.DB) *InsightCacheRepository {
	return &InsightCacheRepository{db: db}
}

// Get returns the live entry for a query hash, or nil when the hash is
// unknown or the entry has expired. A hit bumps hit_count and
// last_accessed_at; the bump is best effort and does not fail the read.
func (r *InsightCacheRepository) Get(queryHash string) (*model.TopicInsight, error) {
	row := r.db.QueryRow(`
		SELECT id, query_hash, topic, related_post_ids, top_performer_ids,
			content_patterns, voice_patterns, performance_context,
			confidence_level, created_at, expires_at, hit_count, last_accessed_at
		FROM topic_insight
		WHERE query_hash = $1 AND expires_at > now()
	`, queryHash)

	insight, err := scanInsight(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(`
		UPDATE topic_insight
		SET hit_count = hit_count + 1, last_accessed_at = now()
		WHERE id = $1
	`, insight.ID)
	if err != nil {
		slog.Error("error updating cache hit metadata", "error", err, "query_hash", queryHash)
	} else {
		insight.HitCount++
	}

	return insight, nil
}

func (r *InsightCacheRepository) Put(insight *model.TopicInsight) error {
	content, err := json.Marshal(insight.ContentPatterns)
	if err != nil {
		return err
	}
	voice, err := json.Marshal(insight.VoicePatterns)
	if err != nil {
		return err
	}
	perf, err := json.Marshal(insight.PerformanceContext)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO topic_insight(query_hash, topic, related_post_ids, top_performer_ids,
			content_patterns, voice_patterns, performance_context, confidence_level, expires_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (query_hash) DO UPDATE
		SET topic = EXCLUDED.topic,
			related_post_ids = EXCLUDED.related_post_ids,
			top_performer_ids = EXCLUDED.top_performer_ids,
			content_patterns = EXCLUDED.content_patterns,
			voice_patterns = EXCLUDED.voice_patterns,
			performance_context = EXCLUDED.performance_context,
			confidence_level = EXCLUDED.confidence_level,
			created_at = now(),
			expires_at = EXCLUDED.expires_at,
			hit_count = 0,
			last_accessed_at = NULL
		RETURNING id
	`, insight.QueryHash, insight.Topic, pq.Array(insight.RelatedPostIDs), pq.Array(insight.TopPerformerIDs),
		content, voice, perf, insight.ConfidenceLevel, insight.ExpiresAt).Scan(&insight.ID)
}

func (r *InsightCacheRepository) SweepExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM topic_insight WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *InsightCacheRepository) GetStats() (*model.CacheStats, error) {
	var stats model.CacheStats
	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(hit_count), 0)
		FROM topic_insight
		WHERE expires_at > now()
	`).Scan(&stats.EntryCount, &stats.TotalHits)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanInsight(row *sql.Row) (*model.TopicInsight, error) {
	var i model.TopicInsight
	var related, top pq.Int64Array
	var content, voice, perf []byte

	err := row.Scan(&i.ID, &i.QueryHash, &i.Topic, &related, &top,
		&content, &voice, &perf,
		&i.ConfidenceLevel, &i.CreatedAt, &i.ExpiresAt, &i.HitCount, &i.LastAccessedAt)
	if err != nil {
		return nil, err
	}

	i.RelatedPostIDs = related
	i.TopPerformerIDs = top

	if err := json.Unmarshal(content, &i.ContentPatterns); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(voice, &i.VoicePatterns); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(perf, &i.PerformanceContext); err != nil {
		return nil, err
	}

	return &i, nil
}
