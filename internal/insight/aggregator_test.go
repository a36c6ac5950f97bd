package insight

import (
	"math"
	"strings"
	"testing"

	"postpulse/internal/model"
)

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		name    string
		related int
		top     int
		want    float64
	}{
		{name: "empty corpus floor", related: 0, top: 0, want: 0.1},
		{name: "base only", related: 3, top: 1, want: 0.3},
		{name: "related bonus", related: 10, top: 1, want: 0.6},
		{name: "related and top bonus", related: 12, top: 5, want: 0.8},
		{name: "all bonuses capped", related: 25, top: 8, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfidenceLevel(tt.related, tt.top)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ConfidenceLevel(%d, %d) = %v, want %v", tt.related, tt.top, got, tt.want)
			}
		})
	}
}

func TestConfidenceMonotonicity(t *testing.T) {
	high := ConfidenceLevel(25, 5)
	mid := ConfidenceLevel(5, 1)
	low := ConfidenceLevel(0, 0)

	if high < mid || mid < low {
		t.Errorf("confidence not monotonic: %v, %v, %v", high, mid, low)
	}
	if low != 0.1 {
		t.Errorf("empty confidence = %v, want 0.1", low)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	content, voice, confidence := Aggregate(nil, nil, 0)

	if confidence != 0.1 {
		t.Errorf("confidence = %v, want 0.1", confidence)
	}
	if content.OpeningPhrases == nil || content.StructuralTags == nil || content.EngagementTriggers == nil {
		t.Error("empty insight must have non-nil pattern slices")
	}
	if voice.DominantTone == "" {
		t.Error("empty insight must still carry a tone")
	}
}

func TestAggregateRankedWithoutPosts(t *testing.T) {
	// Candidates whose posts have since vanished from the store must still
	// produce a well-formed insight, not a divide by zero.
	ranked := []model.RankedCandidate{{PostID: 42, SimilarityScore: 0.9}}

	content, voice, confidence := Aggregate(ranked, map[int64]model.Post{}, 0)

	if math.Abs(confidence-0.3) > 1e-9 {
		t.Errorf("confidence = %v, want 0.3 for one related post", confidence)
	}
	if content.OpeningPhrases == nil || content.StructuralTags == nil || content.EngagementTriggers == nil {
		t.Error("insight must have non-nil pattern slices when posts are missing")
	}
	if content.AvgWordCount != 0 {
		t.Errorf("avg word count = %d, want 0", content.AvgWordCount)
	}
	if voice.DominantTone == "" {
		t.Error("insight must still carry a tone when posts are missing")
	}
	if math.IsNaN(voice.AuthenticityScore) || math.IsNaN(voice.AuthorityScore) || math.IsNaN(voice.VulnerabilityScore) {
		t.Error("voice scores must not be NaN when posts are missing")
	}
}

func TestAggregateSamplesEveryTopPost(t *testing.T) {
	posts := make(map[int64]model.Post)
	var ranked []model.RankedCandidate
	for i := int64(1); i <= 8; i++ {
		posts[i] = model.Post{ID: i, Content: "Leadership lessons from a decade of shipping products and teams."}
		ranked = append(ranked, model.RankedCandidate{PostID: i})
	}

	content, _, _ := Aggregate(ranked, posts, 0)

	if len(content.OpeningPhrases) != 8 {
		t.Errorf("got %d opening phrases, want one per top post (8)", len(content.OpeningPhrases))
	}
}

func TestAggregatePatterns(t *testing.T) {
	posts := map[int64]model.Post{
		1: {ID: 1, Content: "When I started out I failed badly. What do you think? Comment below and let me know."},
		2: {ID: 2, Content: "Years ago I made a mistake that changed everything. Have you ever struggled like this?"},
		3: {ID: 3, Content: "I remember my first launch. It flopped. Honest lesson: ship smaller. What would you do?"},
	}

	ranked := []model.RankedCandidate{
		{PostID: 1, SimilarityScore: 0.9},
		{PostID: 2, SimilarityScore: 0.8},
		{PostID: 3, SimilarityScore: 0.7},
	}

	content, voice, _ := Aggregate(ranked, posts, 1)

	if len(content.OpeningPhrases) != 3 {
		t.Errorf("got %d opening phrases, want 3", len(content.OpeningPhrases))
	}
	if !strings.HasPrefix(content.OpeningPhrases[0], "When I started") {
		t.Errorf("first opening phrase = %q, want prefix of post 1", content.OpeningPhrases[0])
	}

	if !containsString(content.StructuralTags, "story-driven") {
		t.Errorf("structural tags %v missing story-driven", content.StructuralTags)
	}
	if !containsString(content.StructuralTags, "question-driven") {
		t.Errorf("structural tags %v missing question-driven", content.StructuralTags)
	}

	if !containsString(content.EngagementTriggers, "question") {
		t.Errorf("triggers %v missing question", content.EngagementTriggers)
	}
	if !containsString(content.EngagementTriggers, "vulnerability") {
		t.Errorf("triggers %v missing vulnerability", content.EngagementTriggers)
	}
	if !containsString(content.EngagementTriggers, "call_to_action") {
		t.Errorf("triggers %v missing call_to_action", content.EngagementTriggers)
	}

	if voice.VulnerabilityScore <= 0 {
		t.Errorf("vulnerability score = %v, want > 0", voice.VulnerabilityScore)
	}
	if voice.AuthenticityScore <= 0 {
		t.Errorf("authenticity score = %v, want > 0", voice.AuthenticityScore)
	}
	if voice.AuthenticityScore > 100 || voice.AuthorityScore > 100 || voice.VulnerabilityScore > 100 {
		t.Error("voice scores must stay within [0,100]")
	}
}

func TestAggregateAvgWordCount(t *testing.T) {
	posts := map[int64]model.Post{
		1: {ID: 1, WordCount: 100, Content: "ignored"},
		2: {ID: 2, WordCount: 200, Content: "ignored"},
	}
	ranked := []model.RankedCandidate{{PostID: 1}, {PostID: 2}}

	content, _, _ := Aggregate(ranked, posts, 0)
	if content.AvgWordCount != 150 {
		t.Errorf("avg word count = %d, want 150", content.AvgWordCount)
	}
}

func TestClassifyToneStable(t *testing.T) {
	text := "Here is the research and data behind our proven framework. The study results speak for themselves."
	first := classifyTone(text)
	if first != "authoritative" {
		t.Errorf("tone = %q, want authoritative", first)
	}
	for i := 0; i < 5; i++ {
		if classifyTone(text) != first {
			t.Fatal("tone classification not deterministic")
		}
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
