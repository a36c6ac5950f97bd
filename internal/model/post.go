package model

import "time"

const (
	TierTop10        = "top_10_percent"
	TierTop25        = "top_25_percent"
	TierAverage      = "average"
	TierBelowAverage = "below_average"
)

type Post struct {
	ID          int64
	ExternalID  string
	Author      string
	Content     string
	WordCount   int
	CharCount   int
	Hashtags    []string
	Mentions    []string
	PostedAt    time.Time
	ScrapedAt   time.Time
	Engagement  Engagement
	Impressions int
}

type Engagement struct {
	Likes      int
	Loves      int
	Supports   int
	Celebrates int
	Insights   int
	Comments   int
	Reposts    int
	Shares     int
}

// TotalReactions sums the reaction-type counters, excluding comments,
// reposts and shares, which carry their own weights in the viral score.
func (e Engagement) TotalReactions() int {
	return e.Likes + e.Loves + e.Supports + e.Celebrates + e.Insights
}

type PostScore struct {
	PostID     int64
	ViralScore float64
}

type EmbeddingRecord struct {
	PostID      int64
	Vector      []float64
	ViralScore  float64
	Tier        string
	HasQuestion bool
	HasStory    bool
	HasCTA      bool
	PostedAt    time.Time
	EmbeddedAt  time.Time
}
