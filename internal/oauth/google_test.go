package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
)

func TestExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "client", r.PostForm.Get("client_id"))
		assert.Equal(t, "https://app/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	g := NewGoogleExchanger("client", "secret")
	g.Endpoint = oauth2.Endpoint{TokenURL: srv.URL, AuthStyle: oauth2.AuthStyleInParams}

	tok, err := g.Exchange(context.Background(), "auth-code", "https://app/callback")
	require.NoError(t, err)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Equal(t, "rt", tok.RefreshToken)
	assert.False(t, tok.Expiry.IsZero())
}

func TestExchangeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	g := NewGoogleExchanger("client", "secret")
	g.Endpoint = oauth2.Endpoint{TokenURL: srv.URL, AuthStyle: oauth2.AuthStyleInParams}

	_, err := g.Exchange(context.Background(), "bad", "https://app/callback")
	assert.True(t, appErrors.IsUpstream(err))
}

func TestExchangeUnconfigured(t *testing.T) {
	_, err := NewGoogleExchanger("", "secret").Exchange(context.Background(), "c", "r")
	assert.True(t, appErrors.IsConfiguration(err))

	_, err = NewGoogleExchanger("id", "").Exchange(context.Background(), "c", "r")
	assert.True(t, appErrors.IsConfiguration(err))
}
