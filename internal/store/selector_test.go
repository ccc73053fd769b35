package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campuscore/catalog-api/internal/models"
)

type stubStore struct {
	Store
	name string
}

func (s stubStore) Name() string { return s.name }

func (s stubStore) FindCourseByCode(_ context.Context, _ string) (models.Course, error) {
	return models.Course{Code: s.name}, nil
}

func TestSelectorRejectsUnknownInitialBackend(t *testing.T) {
	backends := map[string]Store{"sql": stubStore{name: "sql"}}

	_, err := NewSelector(backends, "bolt", zerolog.Nop())
	require.Error(t, err)
}

func TestSelectorDelegatesToActiveBackend(t *testing.T) {
	backends := map[string]Store{
		"sql":   stubStore{name: "sql"},
		"mongo": stubStore{name: "mongo"},
	}

	selector, err := NewSelector(backends, "sql", zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "sql", selector.Name())

	course, err := selector.FindCourseByCode(context.Background(), "CS101")
	require.NoError(t, err)
	require.Equal(t, "sql", course.Code)

	require.NoError(t, selector.Use("mongo"))
	require.Equal(t, "mongo", selector.Name())

	course, err = selector.FindCourseByCode(context.Background(), "CS101")
	require.NoError(t, err)
	require.Equal(t, "mongo", course.Code)

	require.Error(t, selector.Use("bolt"))
	require.Equal(t, "mongo", selector.Name(), "failed switch keeps the active backend")
}
