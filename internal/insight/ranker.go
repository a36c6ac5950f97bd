package insight

import (
	"math"
	"sort"

	"postpulse/internal/model"
	"postpulse/pkg/embed"
)

// Blend weights for the combined score. Similarity dominates so that a
// mediocre post on the right topic always beats a viral post on the wrong
// one.
const (
	SimilarityWeight  = 0.7
	PerformanceWeight = 0.3
)

const DefaultSimilarityThreshold = 0.3

type Ranker struct {
	provider embed.Provider
}

func NewRanker(provider embed.Provider) *Ranker {
	return &Ranker{provider: provider}
}

// Rank embeds the query text and orders candidates by combined score. The
// one provider call is the only side effect; everything after it is pure.
func (r *Ranker) Rank(queryText string, candidates []model.EmbeddingRecord, k int, threshold float64) ([]model.RankedCandidate, error) {
	queryVec, err := r.provider.Embed(queryText)
	if err != nil {
		return nil, err
	}
	return RankByVector(queryVec, candidates, k, threshold), nil
}

// RankByVector filters candidates below the similarity threshold, blends
// similarity with normalized viral score, and returns the top k. Ordering is
// deterministic: combined score descending, ties broken by viral score, then
// by more recent posted date.
func RankByVector(queryVec []float64, candidates []model.EmbeddingRecord, k int, threshold float64) []model.RankedCandidate {
	var ranked []model.RankedCandidate
	maxViral := 0.0

	for _, c := range candidates {
		sim := CosineSimilarity(queryVec, c.Vector)
		if sim < threshold {
			continue
		}
		ranked = append(ranked, model.RankedCandidate{
			PostID:          c.PostID,
			SimilarityScore: sim,
			ViralScore:      c.ViralScore,
			PostedAt:        c.PostedAt,
		})
		if c.ViralScore > maxViral {
			maxViral = c.ViralScore
		}
	}

	for i := range ranked {
		normalized := 0.0
		if maxViral > 0 {
			normalized = ranked[i].ViralScore / maxViral
		}
		ranked[i].CombinedScore = ranked[i].SimilarityScore*SimilarityWeight + normalized*PerformanceWeight
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CombinedScore != ranked[j].CombinedScore {
			return ranked[i].CombinedScore > ranked[j].CombinedScore
		}
		if ranked[i].ViralScore != ranked[j].ViralScore {
			return ranked[i].ViralScore > ranked[j].ViralScore
		}
		return ranked[i].PostedAt.After(ranked[j].PostedAt)
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}

	return ranked
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Zero-norm or mismatched-length inputs score 0 instead of dividing by zero.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
