package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/dto"
	"github.com/campuscore/catalog-api/internal/observability"
	"github.com/campuscore/catalog-api/internal/search"
	"github.com/campuscore/catalog-api/internal/store"
)

// Relevance assigned by each strategy. Exact always beats fuzzy, and both
// beat vector similarity, which lives in [0,1).
const (
	exactRelevance = 1.0
	fuzzyRelevance = 0.95
)

// courseCodePattern is the canonical course-code shape: 1-4 letters,
// 3-4 digits, optional trailing letter.
var courseCodePattern = regexp.MustCompile(`^[A-Za-z]{1,4}[0-9]{3,4}[A-Za-z]?$`)

// looksLikeCode is the looser eligibility test for fuzzy correction. A
// typo can break the strict shape itself (a letter O where a zero
// belongs, as in "INF2OO2"), so fuzzy accepts any short unbroken
// alphanumeric token that mixes letters and digits.
func looksLikeCode(s string) bool {
	if len(s) < 4 || len(s) > 9 {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}

// SearchService resolves noisy catalog queries through an ordered strategy
// chain: exact code match, fuzzy code correction, then semantic vector
// search. The first strategy to produce results wins.
type SearchService interface {
	Search(ctx context.Context, query string, filters search.Filters) ([]dto.ScoredCourse, error)
}

// searchQuery is the pre-parsed request handed to each strategy.
type searchQuery struct {
	raw        string
	code       string
	codeShaped bool
	codeLike   bool
	filters    search.Filters
}

// searchStrategy is one link of the resolution chain. A (nil, nil) return
// means "no opinion, try the next strategy".
type searchStrategy interface {
	name() string
	tryResolve(ctx context.Context, query searchQuery) ([]dto.ScoredCourse, error)
}

type searchService struct {
	strategies []searchStrategy
	logger     zerolog.Logger
}

// SearchConfig carries the resolver knobs.
type SearchConfig struct {
	FuzzyCutoff   float64
	NumCandidates int
	ResultLimit   int
}

// NewSearchService constructs the resolver over the active store, the
// vector index of the document backend, and the embedding service.
func NewSearchService(st store.Store, index search.VectorIndex, embedder search.Embedder, cfg SearchConfig, logger zerolog.Logger) SearchService {
	if cfg.FuzzyCutoff <= 0 {
		cfg.FuzzyCutoff = 0.6
	}
	if cfg.NumCandidates <= 0 {
		cfg.NumCandidates = 100
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = 10
	}

	return &searchService{
		strategies: []searchStrategy{
			&exactCodeStrategy{store: st},
			&fuzzyCodeStrategy{store: st, cutoff: cfg.FuzzyCutoff},
			&vectorStrategy{
				store:         st,
				index:         index,
				embedder:      embedder,
				numCandidates: cfg.NumCandidates,
				limit:         cfg.ResultLimit,
			},
		},
		logger: logger.With().Str("component", "search_service").Logger(),
	}
}

func (s *searchService) Search(ctx context.Context, rawQuery string, filters search.Filters) ([]dto.ScoredCourse, error) {
	trimmed := strings.TrimSpace(rawQuery)
	if trimmed == "" {
		return nil, ErrInvalidQuery
	}

	code := stripWhitespace(trimmed)
	query := searchQuery{
		raw:        trimmed,
		code:       code,
		codeShaped: courseCodePattern.MatchString(code),
		codeLike:   looksLikeCode(code),
		filters:    filters,
	}

	for _, strategy := range s.strategies {
		results, err := strategy.tryResolve(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			observability.SearchResolutions().WithLabelValues(strategy.name()).Inc()
			s.logger.Debug().
				Str("strategy", strategy.name()).
				Str("query", trimmed).
				Int("results", len(results)).
				Msg("search resolved")
			return results, nil
		}
	}

	observability.SearchResolutions().WithLabelValues("none").Inc()
	return []dto.ScoredCourse{}, nil
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// exactCodeStrategy matches code-shaped queries against course codes
// case-insensitively.
type exactCodeStrategy struct {
	store store.Store
}

func (s *exactCodeStrategy) name() string { return "exact" }

func (s *exactCodeStrategy) tryResolve(ctx context.Context, query searchQuery) ([]dto.ScoredCourse, error) {
	if !query.codeShaped {
		return nil, nil
	}

	course, err := s.store.FindCourseByCode(ctx, query.code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("exact code lookup: %w", err)
	}

	return []dto.ScoredCourse{{
		CourseResponse: dto.NewCourseResponse(course),
		Relevance:      exactRelevance,
		Strategy:       s.name(),
	}}, nil
}

// fuzzyCodeStrategy recovers single-character typos in code-like queries
// by picking the most edit-similar known course code above the cutoff.
// Eligibility is deliberately looser than the exact strategy's shape test
// because the typo being corrected may be what broke the shape.
type fuzzyCodeStrategy struct {
	store  store.Store
	cutoff float64
}

func (s *fuzzyCodeStrategy) name() string { return "fuzzy" }

func (s *fuzzyCodeStrategy) tryResolve(ctx context.Context, query searchQuery) ([]dto.ScoredCourse, error) {
	if !query.codeLike {
		return nil, nil
	}

	codes, err := s.store.ListCourseCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fuzzy code universe: %w", err)
	}

	best, _, ok := search.BestMatch(query.code, codes, s.cutoff)
	if !ok {
		return nil, nil
	}

	course, err := s.store.FindCourseByCode(ctx, best)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy code lookup: %w", err)
	}

	return []dto.ScoredCourse{{
		CourseResponse: dto.NewCourseResponse(course),
		Relevance:      fuzzyRelevance,
		Strategy:       s.name(),
	}}, nil
}

// vectorStrategy embeds the query and runs nearest-neighbour search over
// the document backend, then hydrates full records through the storage
// port in the exact similarity-descending order of the raw hits.
type vectorStrategy struct {
	store         store.Store
	index         search.VectorIndex
	embedder      search.Embedder
	numCandidates int
	limit         int
}

func (s *vectorStrategy) name() string { return "semantic" }

func (s *vectorStrategy) tryResolve(ctx context.Context, query searchQuery) ([]dto.ScoredCourse, error) {
	if s.embedder == nil || s.index == nil {
		return nil, fmt.Errorf("%w: embedding service not configured", ErrSearchUnavailable)
	}

	vector, err := s.embedder.Embed(ctx, query.raw)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrSearchUnavailable, err)
	}

	hits, err := s.index.Query(ctx, vector, query.filters, s.numCandidates, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: vector index: %v", ErrSearchUnavailable, err)
	}
	if len(hits) == 0 {
		return []dto.ScoredCourse{}, nil
	}

	codes := make([]string, len(hits))
	scores := make(map[string]float64, len(hits))
	for i, hit := range hits {
		codes[i] = hit.CourseCode
		scores[strings.ToUpper(hit.CourseCode)] = hit.Score
	}

	// FindCoursesByCodes preserves input order, so hydrated results stay
	// aligned with the similarity-descending hit order.
	courses, err := s.store.FindCoursesByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("hydrate vector hits: %w", err)
	}

	results := make([]dto.ScoredCourse, len(courses))
	for i, course := range courses {
		results[i] = dto.ScoredCourse{
			CourseResponse: dto.NewCourseResponse(course),
			Relevance:      scores[strings.ToUpper(course.Code)],
			Strategy:       s.name(),
		}
	}
	return results, nil
}
