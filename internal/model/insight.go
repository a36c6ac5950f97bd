package model

import "time"

type RankedCandidate struct {
	PostID          int64
	SimilarityScore float64
	ViralScore      float64
	CombinedScore   float64
	PostedAt        time.Time
}

type ContentPatterns struct {
	AvgWordCount       int      `json:"avg_word_count"`
	OpeningPhrases     []string `json:"opening_phrases"`
	StructuralTags     []string `json:"structural_tags"`
	EngagementTriggers []string `json:"engagement_triggers"`
}

type VoicePatterns struct {
	DominantTone       string  `json:"dominant_tone"`
	AuthenticityScore  float64 `json:"authenticity_score"`
	AuthorityScore     float64 `json:"authority_score"`
	VulnerabilityScore float64 `json:"vulnerability_score"`
}

type PerformanceContext struct {
	AvgViralScore  float64 `json:"avg_viral_score"`
	TopViralScore  float64 `json:"top_viral_score"`
	CandidateCount int     `json:"candidate_count"`
}

type TopicInsight struct {
	ID                 int64
	QueryHash          string
	Topic              string
	RelatedPostIDs     []int64
	TopPerformerIDs    []int64
	ContentPatterns    ContentPatterns
	VoicePatterns      VoicePatterns
	PerformanceContext PerformanceContext
	ConfidenceLevel    float64
	CreatedAt          time.Time
	ExpiresAt          time.Time
	HitCount           int
	LastAccessedAt     *time.Time
}

type CacheStats struct {
	EntryCount int
	TotalHits  int
}
