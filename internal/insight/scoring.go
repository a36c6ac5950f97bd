package insight

import (
	"sort"

	"postpulse/internal/model"
)

// Viral score weights. The score is a fixed linear blend of the engagement
// counters plus the engagement rate (interactions per 100 impressions).
const (
	ReactionWeight       = 0.4
	CommentWeight        = 3.0
	RepostWeight         = 5.0
	ShareWeight          = 0.1
	EngagementRateWeight = 2.0
)

// Percentile cutoffs for tier assignment, counted from the top of the
// corpus sorted by viral score descending.
const (
	top10Cut = 0.10
	top25Cut = 0.25
	avgCut   = 0.75
)

func ViralScore(post *model.Post) float64 {
	reactions := float64(post.Engagement.TotalReactions())
	comments := float64(post.Engagement.Comments)
	reposts := float64(post.Engagement.Reposts)
	shares := float64(post.Engagement.Shares)

	return reactions*ReactionWeight +
		comments*CommentWeight +
		reposts*RepostWeight +
		shares*ShareWeight +
		engagementRate(post)*EngagementRateWeight
}

func engagementRate(post *model.Post) float64 {
	if post.Impressions <= 0 {
		return 0
	}
	interactions := float64(post.Engagement.TotalReactions() +
		post.Engagement.Comments + post.Engagement.Reposts + post.Engagement.Shares)
	return interactions / float64(post.Impressions) * 100
}

// AssignTiers buckets posts into percentile tiers by viral score. Tiers are
// relative to the corpus passed in, so labels shift as the corpus grows.
// A corpus of zero or one posts gets no meaningful percentiles and lands
// entirely in the average tier.
func AssignTiers(scores []model.PostScore) map[int64]string {
	tiers := make(map[int64]string, len(scores))

	if len(scores) <= 1 {
		for _, s := range scores {
			tiers[s.PostID] = model.TierAverage
		}
		return tiers
	}

	sorted := make([]model.PostScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ViralScore != sorted[j].ViralScore {
			return sorted[i].ViralScore > sorted[j].ViralScore
		}
		return sorted[i].PostID < sorted[j].PostID
	})

	n := len(sorted)
	top10Count := int(float64(n) * top10Cut)
	top25Count := int(float64(n) * top25Cut)
	avgCount := int(float64(n) * avgCut)

	for i, s := range sorted {
		switch {
		case i < top10Count:
			tiers[s.PostID] = model.TierTop10
		case i < top25Count:
			tiers[s.PostID] = model.TierTop25
		case i < avgCount:
			tiers[s.PostID] = model.TierAverage
		default:
			tiers[s.PostID] = model.TierBelowAverage
		}
	}

	return tiers
}

type TierStore interface {
	GetScores() ([]model.PostScore, error)
	UpdateTier(postID int64, tier string) error
}

type TieringEngine struct {
	store TierStore
}

func NewTieringEngine(store TierStore) *TieringEngine {
	return &TieringEngine{store: store}
}

// UpdateTiers recomputes percentile tiers over the whole stored corpus and
// persists them. Returns the number of rows updated.
func (t *TieringEngine) UpdateTiers() (int, error) {
	scores, err := t.store.GetScores()
	if err != nil {
		return 0, err
	}

	tiers := AssignTiers(scores)

	updated := 0
	for postID, tier := range tiers {
		if err := t.store.UpdateTier(postID, tier); err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}
