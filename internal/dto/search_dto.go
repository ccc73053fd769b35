package dto

// ScoredCourse is a search result: a hydrated course plus the relevance
// assigned by the strategy that produced it (1.0 exact, 0.95 fuzzy,
// [0,1) vector similarity) and the strategy name.
type ScoredCourse struct {
	CourseResponse
	Relevance float64 `json:"relevance_score"`
	Strategy  string  `json:"match_strategy"`
}
