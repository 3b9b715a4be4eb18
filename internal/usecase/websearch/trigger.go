package websearch

import "strings"

// indicators are phrases whose presence suggests the user wants current or
// comparative information that a static knowledge base cannot answer.
var indicators = []string{
	"latest", "recent", "new", "current", "update",
	"research", "study", "studies", "paper",
	"what is", "how to", "why does", "when to",
	"best practice", "guideline", "recommendation",
	"prevalence", "statistics", "data",
	"compare", "difference between", "vs", "alternative", "option", "other",
}

// NeedsWebSearch reports whether the message should trigger web enrichment.
func NeedsWebSearch(message string) bool {
	lower := strings.ToLower(message)
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}
