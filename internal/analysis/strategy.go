package analysis

import (
	"time"

	"docwizard-backend/internal/doctypes"
	"docwizard-backend/internal/llm"
)

// Strategy is one analysis pipeline variant. Request builds the provider
// request (truncating document text to the variant's bound) and Parse is
// total: every reply, including an empty absence signal, yields a complete
// Result.
type Strategy interface {
	Name() string
	Timeout() time.Duration
	Request(doc doctypes.Type, text string) llm.Request
	Parse(reply string, doc doctypes.Type, now time.Time) Result
}

// truncate returns the first limit characters of text. Truncation is
// silent; document text beyond the bound is never sent to the provider.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
