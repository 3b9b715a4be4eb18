package lookup

import "strings"

// FuzzyMatch is the best candidate found by BestMatch.
type FuzzyMatch struct {
	Index int // position in the candidate slice
	Score float64
}

// levenshtein computes the classic edit distance (insert, delete and
// substitute all cost 1) between two strings.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Single-row rolling computation.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Similarity normalizes edit distance into [0, 1]: identical strings score 1,
// two empty strings score 1, and the function is symmetric. Inputs are
// compared case-insensitively.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == "" && b == "" {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// BestMatch scores the query against each candidate's fields, taking the
// maximum similarity across fields per candidate and the global maximum
// across candidates. Ties go to the first candidate in input order. Returns
// ok=false for an empty candidate list. Cost is
// O(candidates x fields x query-length x field-length), acceptable only
// because candidate counts stay in the tens to low hundreds.
func BestMatch(query string, candidates [][]string) (FuzzyMatch, bool) {
	if len(candidates) == 0 {
		return FuzzyMatch{}, false
	}

	best := FuzzyMatch{Index: 0, Score: -1}
	for i, fields := range candidates {
		fieldBest := 0.0
		for _, val := range fields {
			if score := Similarity(query, val); score > fieldBest {
				fieldBest = score
			}
		}
		if fieldBest > best.Score {
			best = FuzzyMatch{Index: i, Score: fieldBest}
		}
	}
	return best, true
}
