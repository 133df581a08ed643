package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
	"github.com/unclebandit/jobseeker-backend/internal/model"
)

func TestInvokeSendsConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scrape-recruiters", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cfg-1", req.ConfigID)
		assert.Equal(t, []string{"US"}, req.Countries)

		w.Write([]byte(`{"success":true,"added":4,"skipped":2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-key", time.Second)
	out, err := c.Invoke(context.Background(), model.ScraperConfig{ID: "cfg-1", Platform: "linkedin", TargetCountries: []string{"US"}})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Added)
	assert.Equal(t, 2, out.Skipped)
}

func TestInvokeFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		},
		"success false": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"error":"quota exceeded"}`))
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := NewClient(srv.URL, "k", time.Second).Invoke(context.Background(), model.ScraperConfig{ID: "cfg"})
			assert.True(t, appErrors.IsUpstream(err), "got %v", err)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.True(t, appErrors.IsConfiguration(NewClient("", "k", time.Second).Validate()))
	assert.True(t, appErrors.IsConfiguration(NewClient("http://x", "", time.Second).Validate()))
	assert.NoError(t, NewClient("http://x", "k", time.Second).Validate())
}
