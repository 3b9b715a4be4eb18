package lookup

import (
	"strings"

	"github.com/animora/vetassist/internal/domain"
)

// questionPhrases are interrogative and politeness words stripped from
// queries before matching. Multi-word phrases collapse to single tokens
// after punctuation removal, so single-token forms cover them.
var questionPhrases = map[string]struct{}{
	"what": {}, "whats": {}, "who": {}, "where": {}, "when": {}, "why": {},
	"how": {}, "explain": {}, "define": {}, "definition": {}, "tell": {},
	"tellme": {}, "give": {}, "info": {}, "information": {}, "details": {},
	"show": {}, "please": {}, "could": {}, "would": {}, "want": {}, "need": {},
}

var stopWords = map[string]struct{}{
	"is": {}, "are": {}, "am": {}, "do": {}, "does": {}, "did": {},
	"can": {}, "should": {}, "will": {}, "the": {}, "a": {}, "an": {},
	"in": {}, "on": {}, "about": {}, "for": {}, "of": {}, "to": {},
	"me": {}, "my": {}, "i": {}, "you": {},
}

// Normalize canonicalizes a raw user query for knowledge-base search:
// lower-case, punctuation replaced with spaces, question phrasing and
// stop-words removed, whitespace collapsed. Given non-empty input the
// result is always non-empty: a query made entirely of stop-words falls
// back to its longer tokens, and finally to the trimmed original.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", domain.ErrEmptyQuery
	}

	tokens := tokenize(strings.ToLower(trimmed))

	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, drop := questionPhrases[tok]; drop {
			continue
		}
		if _, drop := stopWords[tok]; drop {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) > 0 {
		return strings.Join(kept, " "), nil
	}

	// Entirely stop-words: keep tokens longer than 2 characters.
	long := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) > 2 {
			long = append(long, tok)
		}
	}
	if len(long) > 0 {
		return strings.Join(long, " "), nil
	}

	return trimmed, nil
}

// tokenize splits on everything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		}
		return true
	})
}
