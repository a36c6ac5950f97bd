package insight

import (
	"strings"
	"unicode"
)

var storyMarkers = []string{
	"i remember", "years ago", "when i", "my story", "back then",
	"one day", "last year", "last week", "true story", "i learned",
}

var ctaPhrases = []string{
	"comment below", "let me know", "share this", "follow me", "dm me",
	"sign up", "join us", "check out", "link in", "what do you think",
	"agree?", "tag someone", "repost if",
}

var vulnerabilityKeywords = []string{
	"failed", "failure", "mistake", "struggled", "struggle", "scared",
	"afraid", "honest", "honestly", "vulnerable", "hard truth",
	"i was wrong", "burnout", "imposter", "lost",
}

var authorityKeywords = []string{
	"research", "data", "study", "studies", "proven", "results",
	"experience", "framework", "strategy", "%",
}

func HasQuestion(text string) bool {
	return strings.Contains(text, "?")
}

func HasStory(text string) bool {
	return containsAny(strings.ToLower(text), storyMarkers)
}

func HasCTA(text string) bool {
	return containsAny(strings.ToLower(text), ctaPhrases)
}

func hasListStructure(text string) bool {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		first := []rune(trimmed)[0]
		if unicode.IsDigit(first) || first == '-' || first == '*' || first == '•' {
			count++
		}
	}
	return count >= 2
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func countMatches(text string, needles []string) int {
	count := 0
	for _, n := range needles {
		count += strings.Count(text, n)
	}
	return count
}

// openingPhrase returns the first words of a post, capped at maxWords, as a
// sample of how top performers hook the reader.
func openingPhrase(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
