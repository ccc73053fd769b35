package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campuscore/catalog-api/internal/dto"
	"github.com/campuscore/catalog-api/internal/search"
	"github.com/campuscore/catalog-api/internal/service"
	"github.com/campuscore/catalog-api/internal/utils"
)

type stubSearchService struct {
	results []dto.ScoredCourse
	err     error

	lastQuery   string
	lastFilters search.Filters
}

func (s *stubSearchService) Search(_ context.Context, query string, filters search.Filters) ([]dto.ScoredCourse, error) {
	s.lastQuery = query
	s.lastFilters = filters
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func newSearchApp(svc service.SearchService) *fiber.App {
	app := fiber.New()
	NewSearchHandler(svc, zerolog.Nop()).Register(app.Group("/search"))
	return app
}

func getSearch(t *testing.T, app *fiber.App, target string) (*http.Response, utils.APIResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestSearchHandlerPassesQueryAndFilters(t *testing.T) {
	svc := &stubSearchService{results: []dto.ScoredCourse{}}
	app := newSearchApp(svc)

	resp, envelope := getSearch(t, app, "/search?q=databases&term=Fall+2026&level=2000&instructor=Dana+Wells&major=CS")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	require.Equal(t, "databases", svc.lastQuery)
	require.Equal(t, "Fall 2026", svc.lastFilters.Term)
	require.Equal(t, 2000, svc.lastFilters.Level)
	require.Equal(t, "Dana Wells", svc.lastFilters.Instructor)
	require.Equal(t, "CS", svc.lastFilters.Major)
}

func TestSearchHandlerIgnoresUnparsableLevel(t *testing.T) {
	svc := &stubSearchService{results: []dto.ScoredCourse{}}
	app := newSearchApp(svc)

	resp, _ := getSearch(t, app, "/search?q=databases&level=graduate")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Zero(t, svc.lastFilters.Level)
}

func TestSearchHandlerInvalidQuery(t *testing.T) {
	app := newSearchApp(&stubSearchService{err: service.ErrInvalidQuery})

	resp, envelope := getSearch(t, app, "/search?q=")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, KindInvalidQuery, envelope.Kind)
}

func TestSearchHandlerUnavailable(t *testing.T) {
	app := newSearchApp(&stubSearchService{err: service.ErrSearchUnavailable})

	resp, envelope := getSearch(t, app, "/search?q=databases")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, KindSearchUnavailable, envelope.Kind)
}
