package intent

import (
	"regexp"
	"strings"

	"moviebot/internal/domain"
)

var (
	recommendKeywords = []string{
		"recommend", "suggest", "any good", "something to watch", "what should i watch",
		"recommend me", "suggest me",
	}
	lookupKeywords = []string{
		"who", "what is the rating", "rating of", "stars in", "cast of", "who starred",
	}
	chitChatKeywords = []string{
		"hi", "hello", "how are you", "bye", "thanks", "thank you", "what's up",
	}
	factWordRe = regexp.MustCompile(`\b(when|year|rating|genre|who|what|where)\b`)
)

// ClassifyRules evaluates the keyword rules in priority order:
// recommendation, lookup, chit-chat, unknown. It always succeeds.
func ClassifyRules(text string) domain.IntentResult {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, recommendKeywords):
		return domain.IntentResult{Intent: domain.IntentRecommendation, Confidence: 0.85, Source: domain.SourceRule}
	case containsAny(t, lookupKeywords) || factWordRe.MatchString(t):
		return domain.IntentResult{Intent: domain.IntentLookup, Confidence: 0.7, Source: domain.SourceRule}
	case containsAny(t, chitChatKeywords):
		return domain.IntentResult{Intent: domain.IntentChitChat, Confidence: 0.8, Source: domain.SourceRule}
	}
	return domain.IntentResult{Intent: domain.IntentUnknown, Confidence: 0.4, Source: domain.SourceRule}
}

// containsAny uses substring matching, so "hi" also matches inside "this".
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
