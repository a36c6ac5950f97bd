package embed

import "errors"

// ErrProvider marks embedding generation failures (quota, network, bad
// response). Callers decide whether it is fatal or a count-and-continue.
var ErrProvider = errors.New("embedding provider error")

// MaxInputChars is the most text sent to the provider per call; longer
// inputs are truncated, not rejected.
const MaxInputChars = 8000

type Provider interface {
	Embed(text string) ([]float64, error)
	Dimensions() int
	Model() string
}

func truncate(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
