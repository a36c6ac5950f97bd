package insight

import (
	"math"
	"reflect"
	"testing"
	"time"

	"postpulse/internal/model"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2, 3},
			want: 1,
		},
		{
			name: "orthogonal vectors",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0,
		},
		{
			name: "opposite vectors",
			a:    []float64{1, 0},
			b:    []float64{-1, 0},
			want: -1,
		},
		{
			name: "zero norm guard",
			a:    []float64{0, 0},
			b:    []float64{1, 2},
			want: 0,
		},
		{
			name: "length mismatch",
			a:    []float64{1, 2},
			b:    []float64{1, 2, 3},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

// Candidates with similarities 0.9, 0.5 and 0.2 against the query vector;
// the 0.2 one must never pass the 0.3 threshold.
func rankerFixture() ([]float64, []model.EmbeddingRecord) {
	query := []float64{1, 0}
	candidates := []model.EmbeddingRecord{
		{PostID: 1, Vector: []float64{0.9, math.Sqrt(1 - 0.81)}, ViralScore: 10, PostedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{PostID: 2, Vector: []float64{0.5, math.Sqrt(1 - 0.25)}, ViralScore: 40, PostedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{PostID: 3, Vector: []float64{0.2, math.Sqrt(1 - 0.04)}, ViralScore: 99, PostedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	return query, candidates
}

func TestRankByVectorThresholdFilter(t *testing.T) {
	query, candidates := rankerFixture()

	ranked := RankByVector(query, candidates, 5, 0.3)

	if len(ranked) != 2 {
		t.Fatalf("got %d candidates, want 2", len(ranked))
	}

	for _, rc := range ranked {
		if rc.SimilarityScore < 0.3 {
			t.Errorf("candidate %d similarity %v below threshold", rc.PostID, rc.SimilarityScore)
		}
		if rc.PostID == 3 {
			t.Error("low-similarity candidate survived the filter")
		}
	}
}

func TestRankByVectorCombinedScore(t *testing.T) {
	query, candidates := rankerFixture()

	ranked := RankByVector(query, candidates, 5, 0.3)

	// Max viral among survivors is 40, so post 1 normalizes to 0.25 and
	// post 2 to 1.0.
	wantFirst := 0.9*SimilarityWeight + 0.25*PerformanceWeight
	wantSecond := 0.5*SimilarityWeight + 1.0*PerformanceWeight

	if ranked[0].PostID != 1 {
		t.Fatalf("first ranked = %d, want 1", ranked[0].PostID)
	}
	if math.Abs(ranked[0].CombinedScore-wantFirst) > 1e-9 {
		t.Errorf("first combined = %v, want %v", ranked[0].CombinedScore, wantFirst)
	}
	if math.Abs(ranked[1].CombinedScore-wantSecond) > 1e-9 {
		t.Errorf("second combined = %v, want %v", ranked[1].CombinedScore, wantSecond)
	}
}

func TestRankByVectorDeterminism(t *testing.T) {
	query, candidates := rankerFixture()

	first := RankByVector(query, candidates, 5, 0.3)
	for i := 0; i < 10; i++ {
		again := RankByVector(query, candidates, 5, 0.3)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different order", i)
		}
	}
}

func TestRankByVectorTieBreaks(t *testing.T) {
	query := []float64{1, 0}
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Same vector, same viral score: the more recent post wins.
	candidates := []model.EmbeddingRecord{
		{PostID: 1, Vector: []float64{1, 0}, ViralScore: 10, PostedAt: older},
		{PostID: 2, Vector: []float64{1, 0}, ViralScore: 10, PostedAt: newer},
	}

	ranked := RankByVector(query, candidates, 5, 0.3)
	if ranked[0].PostID != 2 {
		t.Errorf("first ranked = %d, want the more recent post 2", ranked[0].PostID)
	}

	// Same vector, different viral score: higher viral wins regardless of
	// recency.
	candidates = []model.EmbeddingRecord{
		{PostID: 1, Vector: []float64{1, 0}, ViralScore: 50, PostedAt: older},
		{PostID: 2, Vector: []float64{1, 0}, ViralScore: 20, PostedAt: newer},
	}

	ranked = RankByVector(query, candidates, 5, 0.3)
	if ranked[0].PostID != 1 {
		t.Errorf("first ranked = %d, want the higher-viral post 1", ranked[0].PostID)
	}
}

func TestRankByVectorTruncation(t *testing.T) {
	query := []float64{1, 0}

	var candidates []model.EmbeddingRecord
	for i := 1; i <= 8; i++ {
		candidates = append(candidates, model.EmbeddingRecord{
			PostID:     int64(i),
			Vector:     []float64{1, 0},
			ViralScore: float64(i),
		})
	}

	ranked := RankByVector(query, candidates, 3, 0.3)
	if len(ranked) != 3 {
		t.Errorf("got %d candidates, want 3", len(ranked))
	}

	// Fewer than k survivors is fine, never an error.
	ranked = RankByVector(query, candidates[:2], 5, 0.3)
	if len(ranked) != 2 {
		t.Errorf("got %d candidates, want 2", len(ranked))
	}

	ranked = RankByVector(query, nil, 5, 0.3)
	if len(ranked) != 0 {
		t.Errorf("got %d candidates from empty input, want 0", len(ranked))
	}
}
