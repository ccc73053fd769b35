package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campuscore/catalog-api/internal/service"
	"github.com/campuscore/catalog-api/internal/store"
	"github.com/campuscore/catalog-api/internal/utils"
)

type namedStore struct {
	store.Store
	name string
}

func (s namedStore) Name() string { return s.name }

type stubIndexService struct {
	count int
	err   error
}

func (s *stubIndexService) Rebuild(_ context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.count, nil
}

func newAdminApp(t *testing.T, indexer service.IndexService) (*fiber.App, *store.Selector) {
	t.Helper()
	selector, err := store.NewSelector(map[string]store.Store{
		"sql":   namedStore{name: "sql"},
		"mongo": namedStore{name: "mongo"},
	}, "sql", zerolog.Nop())
	require.NoError(t, err)

	app := fiber.New()
	NewAdminHandler(selector, indexer, zerolog.Nop()).Register(app.Group("/admin"))
	return app, selector
}

func postAdmin(t *testing.T, app *fiber.App, target, body string) (*http.Response, utils.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestSwitchBackend(t *testing.T) {
	app, selector := newAdminApp(t, &stubIndexService{})

	resp, envelope := postAdmin(t, app, "/admin/backend", `{"backend":"mongo"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)
	require.Equal(t, "mongo", selector.Name())

	resp, envelope = postAdmin(t, app, "/admin/backend", `{"backend":"bolt"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, KindInvalidRequest, envelope.Kind)
	require.Equal(t, "mongo", selector.Name())
}

func TestRebuildIndex(t *testing.T) {
	app, _ := newAdminApp(t, &stubIndexService{count: 7})

	resp, envelope := postAdmin(t, app, "/admin/reindex", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	data := envelope.Data.(map[string]interface{})
	require.Equal(t, float64(7), data["courses_indexed"])
}

func TestRebuildIndexWithoutIndexer(t *testing.T) {
	app, _ := newAdminApp(t, nil)

	resp, envelope := postAdmin(t, app, "/admin/reindex", "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, KindSearchUnavailable, envelope.Kind)
}
