package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/starfolk/internal/catalog"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, Options{Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestSearchEncodesQuery(t *testing.T) {
	var gotQuery, gotID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/characters", r.URL.Path)
		gotQuery = r.URL.Query().Get("search")
		gotID = r.Header.Get(RequestIDHeader)
		_, _ = w.Write([]byte(`[{"id":3,"name":"Leia Organa","side":"light"}]`))
	})

	got, err := c.Search(context.Background(), "leia organa")
	require.NoError(t, err)
	require.Equal(t, "leia organa", gotQuery)
	require.NotEmpty(t, gotID)
	require.Equal(t, []catalog.Summary{{ID: 3, Name: "Leia Organa", Side: "light"}}, got)
}

func TestSearchBlankOmitsParameter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	})
	got, err := c.Search(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestListRejectsNonArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	})
	_, err := c.Featured(context.Background())
	require.ErrorIs(t, err, catalog.ErrMalformed)
}

func TestListRejectsBrokenJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":`))
	})
	_, err := c.Search(context.Background(), "x")
	require.ErrorIs(t, err, catalog.ErrMalformed)
}

func TestNonSuccessStatusFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.Search(context.Background(), "x")
	require.Error(t, err)
	require.NotErrorIs(t, err, catalog.ErrNotFound)
}

func TestCharacterNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/characters/99", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	})
	_, err := c.Character(context.Background(), 99)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCharacterDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"name":"Luke","traits":["Brave"],"films":["IV"]}`))
	})
	d, err := c.Character(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Luke", d.Name)
	require.Equal(t, []string{"Brave"}, d.Traits)
}

func TestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Featured(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api", Options{})
	require.Error(t, err)
}
