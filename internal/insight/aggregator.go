package insight

import (
	"strings"

	"postpulse/internal/model"
)

// Confidence formula: a fixed base plus volume bonuses. Reproducible from
// the two counts alone.
const (
	confidenceBase         = 0.3
	confidenceEmpty        = 0.1
	relatedBonusThreshold  = 10
	relatedBonus           = 0.3
	topBonusThreshold      = 5
	topBonus               = 0.2
	manyRelatedThreshold   = 20
	manyRelatedBonus       = 0.2
	openingPhraseWordLimit = 12
)

var tones = []string{"conversational", "inspirational", "educational", "authoritative"}

var toneKeywords = map[string][]string{
	"conversational": {"you", "your", "we", "let's", "think about", "?"},
	"inspirational":  {"believe", "dream", "grow", "journey", "possible", "never give up", "inspire"},
	"educational":    {"how to", "steps", "learn", "guide", "tip", "lesson", "here's why"},
	"authoritative":  {"research", "data", "proven", "results", "study", "framework"},
}

// Aggregate derives content and voice patterns from the ranked posts plus a
// confidence level. Zero candidates is not an error: the caller still gets a
// fully formed insight with empty patterns and floor confidence.
func Aggregate(ranked []model.RankedCandidate, posts map[int64]model.Post, topPerformers int) (model.ContentPatterns, model.VoicePatterns, float64) {
	confidence := ConfidenceLevel(len(ranked), topPerformers)

	var ordered []model.Post
	for _, rc := range ranked {
		if p, ok := posts[rc.PostID]; ok {
			ordered = append(ordered, p)
		}
	}

	// Zero candidates, or candidates whose posts are gone from the store,
	// still yield a well-formed insight.
	if len(ordered) == 0 {
		content, voice := emptyPatterns()
		return content, voice, confidence
	}

	content := contentPatterns(ordered)
	voice := voicePatterns(ordered)

	return content, voice, confidence
}

func emptyPatterns() (model.ContentPatterns, model.VoicePatterns) {
	return model.ContentPatterns{
		OpeningPhrases:     []string{},
		StructuralTags:     []string{},
		EngagementTriggers: []string{},
	}, model.VoicePatterns{DominantTone: "conversational"}
}

// ConfidenceLevel maps supporting-data volume to a trust score in [0.1, 1].
func ConfidenceLevel(related, topPerformers int) float64 {
	if related == 0 {
		return confidenceEmpty
	}

	confidence := confidenceBase
	if related >= relatedBonusThreshold {
		confidence += relatedBonus
	}
	if topPerformers >= topBonusThreshold {
		confidence += topBonus
	}
	if related >= manyRelatedThreshold {
		confidence += manyRelatedBonus
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return confidence
}

func contentPatterns(posts []model.Post) model.ContentPatterns {
	patterns := model.ContentPatterns{
		OpeningPhrases:     []string{},
		StructuralTags:     []string{},
		EngagementTriggers: []string{},
	}

	totalWords := 0
	storyCount, listCount, questionCount := 0, 0, 0
	hasQuestion, hasVulnerability, hasCTA := false, false, false

	for _, p := range posts {
		totalWords += wordCount(p)

		patterns.OpeningPhrases = append(patterns.OpeningPhrases, openingPhrase(p.Content, openingPhraseWordLimit))

		if HasStory(p.Content) {
			storyCount++
		}
		if hasListStructure(p.Content) {
			listCount++
		}
		if HasQuestion(p.Content) {
			questionCount++
			hasQuestion = true
		}
		lower := strings.ToLower(p.Content)
		if containsAny(lower, vulnerabilityKeywords) {
			hasVulnerability = true
		}
		if HasCTA(p.Content) {
			hasCTA = true
		}
	}

	patterns.AvgWordCount = totalWords / len(posts)

	// A structural tag counts as common once a third of the posts carry it.
	third := (len(posts) + 2) / 3
	if storyCount >= third {
		patterns.StructuralTags = append(patterns.StructuralTags, "story-driven")
	}
	if listCount >= third {
		patterns.StructuralTags = append(patterns.StructuralTags, "list")
	}
	if questionCount >= third {
		patterns.StructuralTags = append(patterns.StructuralTags, "question-driven")
	}

	if hasQuestion {
		patterns.EngagementTriggers = append(patterns.EngagementTriggers, "question")
	}
	if hasVulnerability {
		patterns.EngagementTriggers = append(patterns.EngagementTriggers, "vulnerability")
	}
	if hasCTA {
		patterns.EngagementTriggers = append(patterns.EngagementTriggers, "call_to_action")
	}

	return patterns
}

func voicePatterns(posts []model.Post) model.VoicePatterns {
	toneVotes := make(map[string]int)
	var authenticity, authority, vulnerability float64

	for _, p := range posts {
		toneVotes[classifyTone(p.Content)]++
		authenticity += authenticityScore(p.Content)
		authority += authorityScore(p.Content)
		vulnerability += vulnerabilityScore(p.Content)
	}

	n := float64(len(posts))

	return model.VoicePatterns{
		DominantTone:       dominantTone(toneVotes),
		AuthenticityScore:  authenticity / n,
		AuthorityScore:     authority / n,
		VulnerabilityScore: vulnerability / n,
	}
}

func classifyTone(text string) string {
	lower := strings.ToLower(text)
	best := tones[0]
	bestScore := -1

	for _, tone := range tones {
		score := countMatches(lower, toneKeywords[tone])
		if score > bestScore {
			best = tone
			bestScore = score
		}
	}

	return best
}

// dominantTone is the majority vote; ties resolve in declared tone order so
// the result is stable for a fixed input.
func dominantTone(votes map[string]int) string {
	best := tones[0]
	bestVotes := -1
	for _, tone := range tones {
		if votes[tone] > bestVotes {
			best = tone
			bestVotes = votes[tone]
		}
	}
	return best
}

func authenticityScore(text string) float64 {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)
	if len(words) == 0 {
		return 0
	}

	firstPerson := 0
	for _, w := range words {
		switch strings.Trim(w, ".,!?;:'\"") {
		case "i", "me", "my", "mine", "i'm", "i've", "i'd":
			firstPerson++
		}
	}

	return clampScore(float64(firstPerson) / float64(len(words)) * 100 * 8)
}

func authorityScore(text string) float64 {
	lower := strings.ToLower(text)
	return clampScore(float64(countMatches(lower, authorityKeywords)) * 15)
}

func vulnerabilityScore(text string) float64 {
	lower := strings.ToLower(text)
	return clampScore(float64(countMatches(lower, vulnerabilityKeywords)) * 20)
}

func clampScore(score float64) float64 {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func wordCount(p model.Post) int {
	if p.WordCount > 0 {
		return p.WordCount
	}
	return len(strings.Fields(p.Content))
}
