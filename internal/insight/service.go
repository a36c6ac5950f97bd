package insight

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"postpulse/internal/model"
)

var ErrValidation = errors.New("invalid lookup parameters")

const (
	DefaultMaxPosts      = 10
	DefaultTimeframeDays = 90
	DefaultCacheTTL      = 7 * 24 * time.Hour

	maxPostsLimit      = 50
	timeframeDaysLimit = 365

	// candidateScanLimit bounds the recent-embedding scan a single lookup
	// walks through; similarity is computed in process.
	candidateScanLimit = 500
)

type CacheStore interface {
	Get(queryHash string) (*model.TopicInsight, error)
	Put(insight *model.TopicInsight) error
}

type PostReader interface {
	GetByIDs(ids []int64) ([]model.Post, error)
}

type LookupParams struct {
	Topic         string
	MaxPosts      int
	TimeframeDays int
	ForceRefresh  bool
}

// normalize validates the topic and fills defaults before any I/O happens.
func (p *LookupParams) normalize() error {
	p.Topic = strings.TrimSpace(p.Topic)
	if p.Topic == "" {
		return fmt.Errorf("%w: topic is required", ErrValidation)
	}

	if p.MaxPosts <= 0 {
		p.MaxPosts = DefaultMaxPosts
	}
	if p.MaxPosts > maxPostsLimit {
		p.MaxPosts = maxPostsLimit
	}

	if p.TimeframeDays <= 0 {
		p.TimeframeDays = DefaultTimeframeDays
	}
	if p.TimeframeDays > timeframeDaysLimit {
		p.TimeframeDays = timeframeDaysLimit
	}

	return nil
}

// QueryHash derives the deterministic cache key for a lookup. The topic is
// case-folded and whitespace-trimmed first so equivalent requests share an
// entry.
func QueryHash(topic string, maxPosts, timeframeDays int) string {
	normalized := strings.ToLower(strings.TrimSpace(topic))
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", normalized, maxPosts, timeframeDays)))
	return hex.EncodeToString(sum[:])
}

type Service struct {
	ranker    *Ranker
	index     *Index
	cache     CacheStore
	posts     PostReader
	threshold float64
	cacheTTL  time.Duration
}

func NewService(ranker *Ranker, index *Index, cache CacheStore, posts PostReader) *Service {
	return &Service{
		ranker:    ranker,
		index:     index,
		cache:     cache,
		posts:     posts,
		threshold: DefaultSimilarityThreshold,
		cacheTTL:  DefaultCacheTTL,
	}
}

// Lookup answers a topic request: cache first, then rank recent embeddings,
// aggregate patterns, and write the fresh insight back. The bool reports
// whether the result came from cache. Concurrent misses for one hash each
// recompute and upsert; last write wins.
func (s *Service) Lookup(params LookupParams) (*model.TopicInsight, bool, error) {
	if err := params.normalize(); err != nil {
		return nil, false, err
	}

	queryHash := QueryHash(params.Topic, params.MaxPosts, params.TimeframeDays)

	if !params.ForceRefresh {
		cached, err := s.cache.Get(queryHash)
		if err != nil {
			return nil, false, fmt.Errorf("cache lookup failed: %w", err)
		}
		if cached != nil {
			return cached, true, nil
		}
	}

	candidates, err := s.index.QueryRecent(params.TimeframeDays, candidateScanLimit)
	if err != nil {
		return nil, false, fmt.Errorf("candidate scan failed: %w", err)
	}

	k := params.MaxPosts
	ranked, err := s.ranker.Rank(params.Topic, candidates, k, s.threshold)
	if err != nil {
		return nil, false, fmt.Errorf("ranking failed for topic %q: %w", params.Topic, err)
	}

	topPerformerIDs := topPerformers(ranked, candidates)

	var posts []model.Post
	if len(ranked) > 0 {
		ids := make([]int64, len(ranked))
		for i, rc := range ranked {
			ids[i] = rc.PostID
		}
		posts, err = s.posts.GetByIDs(ids)
		if err != nil {
			return nil, false, fmt.Errorf("post fetch failed: %w", err)
		}
	}

	postsByID := make(map[int64]model.Post, len(posts))
	for _, p := range posts {
		postsByID[p.ID] = p
	}

	content, voice, confidence := Aggregate(ranked, postsByID, len(topPerformerIDs))

	insight := &model.TopicInsight{
		QueryHash:          queryHash,
		Topic:              params.Topic,
		RelatedPostIDs:     rankedIDs(ranked),
		TopPerformerIDs:    topPerformerIDs,
		ContentPatterns:    content,
		VoicePatterns:      voice,
		PerformanceContext: performanceContext(ranked),
		ConfidenceLevel:    confidence,
		CreatedAt:          time.Now(),
		ExpiresAt:          time.Now().Add(s.cacheTTL),
	}

	if err := s.cache.Put(insight); err != nil {
		// The insight is still usable; a failed cache write only costs the
		// next caller a recompute.
		slog.Error("error caching insight", "error", err, "query_hash", queryHash)
	}

	return insight, false, nil
}

func rankedIDs(ranked []model.RankedCandidate) []int64 {
	ids := make([]int64, len(ranked))
	for i, rc := range ranked {
		ids[i] = rc.PostID
	}
	return ids
}

// topPerformers picks the ranked posts sitting in the top two stored tiers.
func topPerformers(ranked []model.RankedCandidate, candidates []model.EmbeddingRecord) []int64 {
	tierByID := make(map[int64]string, len(candidates))
	for _, c := range candidates {
		tierByID[c.PostID] = c.Tier
	}

	ids := []int64{}
	for _, rc := range ranked {
		tier := tierByID[rc.PostID]
		if tier == model.TierTop10 || tier == model.TierTop25 {
			ids = append(ids, rc.PostID)
		}
	}
	return ids
}

func performanceContext(ranked []model.RankedCandidate) model.PerformanceContext {
	ctx := model.PerformanceContext{CandidateCount: len(ranked)}
	if len(ranked) == 0 {
		return ctx
	}

	total := 0.0
	for _, rc := range ranked {
		total += rc.ViralScore
		if rc.ViralScore > ctx.TopViralScore {
			ctx.TopViralScore = rc.ViralScore
		}
	}
	ctx.AvgViralScore = total / float64(len(ranked))

	return ctx
}
