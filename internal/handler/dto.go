package handler

type InsightRequest struct {
	Topic         string `json:"topic"`
	MaxPosts      int    `json:"max_posts"`
	TimeframeDays int    `json:"timeframe_days"`
	ForceRefresh  bool   `json:"force_refresh"`
}

type ContentPatternsResponse struct {
	AvgWordCount       int      `json:"avg_word_count"`
	OpeningPhrases     []string `json:"opening_phrases"`
	StructuralTags     []string `json:"structural_tags"`
	EngagementTriggers []string `json:"engagement_triggers"`
}

type VoicePatternsResponse struct {
	DominantTone       string  `json:"dominant_tone"`
	AuthenticityScore  float64 `json:"authenticity_score"`
	AuthorityScore     float64 `json:"authority_score"`
	VulnerabilityScore float64 `json:"vulnerability_score"`
}

type PerformanceContextResponse struct {
	AvgViralScore  float64 `json:"avg_viral_score"`
	TopViralScore  float64 `json:"top_viral_score"`
	CandidateCount int     `json:"candidate_count"`
}

type InsightResponse struct {
	Topic              string                     `json:"topic"`
	RelatedPostIDs     []int64                    `json:"related_post_ids"`
	TopPerformerIDs    []int64                    `json:"top_performer_ids"`
	ContentPatterns    ContentPatternsResponse    `json:"content_patterns"`
	VoicePatterns      VoicePatternsResponse      `json:"voice_patterns"`
	PerformanceContext PerformanceContextResponse `json:"performance_context"`
	ConfidenceLevel    float64                    `json:"confidence_level"`
	CreatedAt          string                     `json:"created_at"`
	ExpiresAt          string                     `json:"expires_at"`
	Cached             bool                       `json:"cached"`
}

type CacheStatsResponse struct {
	EntryCount int `json:"entry_count"`
	TotalHits  int `json:"total_hits"`
}

type SweepResponse struct {
	Deleted int64 `json:"deleted"`
}
