package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campuscore/catalog-api/internal/models"
)

type fakeIndexer struct {
	docs  []models.SearchDocument
	users []models.User
	err   error
}

func (f *fakeIndexer) UpsertSearchDocuments(_ context.Context, docs []models.SearchDocument) error {
	if f.err != nil {
		return f.err
	}
	f.docs = docs
	return nil
}

func (f *fakeIndexer) UpsertUser(_ context.Context, user models.User) error {
	if f.err != nil {
		return f.err
	}
	f.users = append(f.users, user)
	return nil
}

func TestRebuildProjectsCoursesAndUsers(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestCourse(t, db, "CS101", 30)
	seedTestCourse(t, db, "INF2002", 30)
	seedTestStudent(t, db, 1)

	indexer := &fakeIndexer{}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	svc := NewIndexService(st, indexer, embedder, zerolog.Nop())

	count, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, 2, embedder.calls)

	require.Len(t, indexer.docs, 2)
	require.Equal(t, "CS101", indexer.docs[0].CourseCode)
	require.Equal(t, []float32{0.1, 0.2}, indexer.docs[0].Embedding)
	require.Equal(t, 2000, indexer.docs[1].CourseLevel)

	require.Len(t, indexer.users, 1)
	require.Equal(t, uint(1), indexer.users[0].ID)
}

func TestRebuildFailsWhenEmbedderFails(t *testing.T) {
	st, db := setupServiceDB(t)
	seedTestCourse(t, db, "CS101", 30)

	embedder := &fakeEmbedder{err: errors.New("provider down")}
	svc := NewIndexService(st, &fakeIndexer{}, embedder, zerolog.Nop())

	_, err := svc.Rebuild(context.Background())
	require.ErrorIs(t, err, ErrSearchUnavailable)
}
