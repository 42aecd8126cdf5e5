package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

func TestRetrieveDatabase(t *testing.T) {
	var gotPath, gotVersion, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.Header.Get("Notion-Version")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9",
			"title": [{"plain_text": "アニメ"}, {"plain_text": "一覧"}],
			"properties": {
				"名前": {"type": "title", "title": {}},
				"評価": {"type": "number", "number": {}}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key", zap.NewNop())
	handle, err := c.RetrieveDatabase(context.Background(), "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9")
	require.NoError(t, err)

	// Identifier punctuation is stripped before hitting the wire.
	require.Equal(t, "/v1/databases/0a1b2c3d4e5f60718293a4b5c6d7e8f9", gotPath)
	require.Equal(t, "2022-06-28", gotVersion)
	require.Equal(t, "Bearer secret-key", gotAuth)

	require.Equal(t, "0a1b2c3d4e5f60718293a4b5c6d7e8f9", handle.ID)
	require.Equal(t, "アニメ一覧", handle.Title)
	require.Equal(t, "名前", handle.TitleColumn)
	require.Len(t, handle.Schema, 2)
}

func TestRetrieveDatabaseTitleColumnFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "abc", "title": [], "properties": {"感想": {"type": "rich_text"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", zap.NewNop())
	handle, err := c.RetrieveDatabase(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, types.DefaultTitleColumn, handle.TitleColumn)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusUnauthorized, types.ErrAuth},
		{http.StatusForbidden, types.ErrAuth},
		{http.StatusNotFound, types.ErrNotFound},
		{http.StatusBadRequest, types.ErrUpstream},
		{http.StatusInternalServerError, types.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "k", zap.NewNop())
			_, err := c.RetrieveDatabase(context.Background(), "abc")
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestSearch(t *testing.T) {
	var gotBody searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"results": [
			{"id": "aa-bb", "title": [{"plain_text": "アニメ一覧"}], "last_edited_time": "2026-08-30T00:00:00.000Z"},
			{"id": "cc-dd", "title": [{"plain_text": "アニメ一覧 (old)"}], "last_edited_time": "2026-01-01T00:00:00.000Z"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", zap.NewNop())
	candidates, err := c.Search(context.Background(), "アニメ一覧")
	require.NoError(t, err)

	require.Equal(t, "アニメ一覧", gotBody.Query)
	require.Equal(t, searchFilter{Property: "object", Value: "database"}, gotBody.Filter)
	require.Equal(t, searchSort{Direction: "descending", Timestamp: "last_edited_time"}, gotBody.Sort)

	require.Len(t, candidates, 2)
	require.Equal(t, "aabb", candidates[0].ID)
	require.Equal(t, "アニメ一覧", candidates[0].Title)
}

func TestCreatePage(t *testing.T) {
	var gotBody createPageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/pages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"url": "https://notion.example/p/123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", zap.NewNop())
	props := WireProperties{"名前": titleShape("牛乳を買う")}
	url, err := c.CreatePage(context.Background(), "ab-cd", props)
	require.NoError(t, err)
	require.Equal(t, "https://notion.example/p/123", url)
	require.Equal(t, "abcd", gotBody.Parent.DatabaseID)
	require.Contains(t, gotBody.Properties, "名前")
}
