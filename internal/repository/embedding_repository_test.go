package repository

import (
	"testing"
	"time"

	"postpulse/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingUpsert(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("INSERT INTO post_embedding").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEmbeddingRepository(mockDB)

	rec := &model.EmbeddingRecord{
		PostID:     7,
		Vector:     []float64{0.1, 0.2, 0.3},
		ViralScore: 42.5,
		Tier:       model.TierAverage,
		PostedAt:   time.Now(),
	}

	require.NoError(t, repo.Upsert(rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddingQueryRecent(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"post_id", "vector", "viral_score", "performance_tier",
		"has_question", "has_story", "has_cta", "posted_at", "embedded_at"}).
		AddRow(int64(1), []byte("{0.5,0.5}"), 12.5, model.TierTop10, true, false, true, now, now).
		AddRow(int64(2), []byte("{0.1,0.9}"), 3.0, model.TierBelowAverage, false, false, false, now, now)

	mock.ExpectQuery("SELECT (.+) FROM post_embedding").
		WithArgs(90, 500).
		WillReturnRows(rows)

	repo := NewEmbeddingRepository(mockDB)

	records, err := repo.QueryRecent(90, 500)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(1), records[0].PostID)
	assert.Equal(t, []float64{0.5, 0.5}, records[0].Vector)
	assert.Equal(t, model.TierTop10, records[0].Tier)
	assert.True(t, records[0].HasQuestion)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddingGetScores(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"post_id", "viral_score"}).
		AddRow(int64(3), 90.0).
		AddRow(int64(1), 40.0).
		AddRow(int64(2), 5.0)

	mock.ExpectQuery("SELECT post_id, viral_score").
		WillReturnRows(rows)

	repo := NewEmbeddingRepository(mockDB)

	scores, err := repo.GetScores()
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, int64(3), scores[0].PostID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddingUpdateTier(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("UPDATE post_embedding").
		WithArgs(int64(7), model.TierTop25).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEmbeddingRepository(mockDB)

	require.NoError(t, repo.UpdateTier(7, model.TierTop25))
	assert.NoError(t, mock.ExpectationsWereMet())
}
