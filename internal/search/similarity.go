package search

import "strings"

// Similarity returns a normalized edit similarity between two course codes
// in [0,1]: 1 - levenshtein(a,b)/max(len(a),len(b)). Comparison is
// case-insensitive.
func Similarity(a, b string) float64 {
	a = strings.ToUpper(a)
	b = strings.ToUpper(b)
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// BestMatch returns the candidate most similar to the query along with its
// similarity, or ok=false when no candidate clears the cutoff. Ties keep
// the earlier candidate so results are stable for a fixed universe order.
func BestMatch(query string, candidates []string, cutoff float64) (string, float64, bool) {
	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score := Similarity(query, candidate)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if best == "" || bestScore < cutoff {
		return "", 0, false
	}
	return best, bestScore, true
}

func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
