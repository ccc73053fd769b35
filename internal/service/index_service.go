package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/models"
	"github.com/campuscore/catalog-api/internal/search"
	"github.com/campuscore/catalog-api/internal/store"
)

// DocumentIndexer is the write surface of the document backend used by
// the index rebuild: search-document and user projections.
type DocumentIndexer interface {
	UpsertSearchDocuments(ctx context.Context, docs []models.SearchDocument) error
	UpsertUser(ctx context.Context, user models.User) error
}

// IndexService rebuilds the document backend's search projection from the
// relational system of record: it re-reads every course, re-embeds its
// canonical text and upserts the resulting search documents. This is an
// explicit administrative batch step; between runs the two stores are
// allowed to drift (accepted staleness, not reconciled per request).
type IndexService interface {
	Rebuild(ctx context.Context) (int, error)
}

type indexService struct {
	source   store.Store
	indexer  DocumentIndexer
	embedder search.Embedder
	logger   zerolog.Logger
}

// NewIndexService constructs the search index builder. The source must be
// the relational backend; the indexer is the document backend.
func NewIndexService(source store.Store, indexer DocumentIndexer, embedder search.Embedder, logger zerolog.Logger) IndexService {
	return &indexService{
		source:   source,
		indexer:  indexer,
		embedder: embedder,
		logger:   logger.With().Str("component", "index_service").Logger(),
	}
}

// Rebuild projects every course and user into the document backend and
// returns how many search documents were written.
func (s *indexService) Rebuild(ctx context.Context) (int, error) {
	courses, err := s.source.ListCourses(ctx)
	if err != nil {
		return 0, fmt.Errorf("load courses: %w", err)
	}

	docs := make([]models.SearchDocument, 0, len(courses))
	for _, course := range courses {
		vector, err := s.embedder.Embed(ctx, models.EmbeddingText(course))
		if err != nil {
			return 0, fmt.Errorf("%w: embed course %s: %v", ErrSearchUnavailable, course.Code, err)
		}
		docs = append(docs, models.NewSearchDocument(course, vector))
	}

	if err := s.indexer.UpsertSearchDocuments(ctx, docs); err != nil {
		return 0, fmt.Errorf("store search documents: %w", err)
	}

	users, err := s.source.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("load users: %w", err)
	}
	for _, user := range users {
		if err := s.indexer.UpsertUser(ctx, user); err != nil {
			return 0, fmt.Errorf("store user projection: %w", err)
		}
	}

	s.logger.Info().Int("courses", len(docs)).Int("users", len(users)).Msg("search index rebuilt")
	return len(docs), nil
}
