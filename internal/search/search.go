// Package search defines the ports the hybrid search resolver depends on:
// the opaque text-embedding service and the vector index kept by the
// document backend.
package search

import "context"

// Embedder converts text into a fixed-length vector. Implementations are
// treated as pure: deterministic for identical input and side-effect free.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Filters narrow the semantic strategy's candidate pool. All supplied
// filters must hold (AND semantics); zero values mean "not filtered".
type Filters struct {
	Term       string `json:"term,omitempty"`
	Level      int    `json:"level,omitempty"`
	Instructor string `json:"instructor,omitempty"`
	Major      string `json:"major,omitempty"`
}

// Empty reports whether no filter is active.
func (f Filters) Empty() bool {
	return f.Term == "" && f.Level == 0 && f.Instructor == "" && f.Major == ""
}

// Hit is a raw nearest-neighbour result: a course identifier and its
// similarity score in [0,1], before hydration.
type Hit struct {
	CourseCode string
	Score      float64
}

// VectorIndex runs approximate-nearest-neighbour queries over the search
// document collection. Only the document backend provides one.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, filters Filters, numCandidates, limit int) ([]Hit, error)
}
