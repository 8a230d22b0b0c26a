package recipe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"product-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecipeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/Products.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"MixRecipes": [`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Load(t *testing.T) {
	srv := newRecipeServer(t)
	cfg := testConfig("")
	cfg.Finder.RemoteTimeout = 5 * time.Second

	idx, stats, err := NewFetcher(cfg).Load(context.Background(), srv.URL+"/Products.json")

	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, srv.URL+"/Products.json", stats.Source)
}

func TestFetcher_Errors(t *testing.T) {
	srv := newRecipeServer(t)
	cfg := testConfig("")
	cfg.Finder.RemoteTimeout = 5 * time.Second
	f := NewFetcher(cfg)

	tests := []struct {
		name string
		url  string
	}{
		{name: "not found", url: srv.URL + "/missing.json"},
		{name: "malformed", url: srv.URL + "/broken.json"},
		{name: "unreachable", url: "http://127.0.0.1:1/Products.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.Load(context.Background(), tt.url)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrLoadFailure))
		})
	}
}

func TestSession_LoadURLKeepsPreviousOnFailure(t *testing.T) {
	srv := newRecipeServer(t)
	s := NewSession(testConfig(""), nil)

	stats, err := s.LoadURL(context.Background(), srv.URL+"/Products.json")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Recipes)
	before := s.Index()

	_, err = s.LoadURL(context.Background(), srv.URL+"/missing.json")
	require.Error(t, err)
	assert.Same(t, before, s.Index())
}
