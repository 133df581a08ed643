package oauth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
	"github.com/unclebandit/jobseeker-backend/internal/model"
)

var GoogleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

var GmailScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",
}

// GoogleExchanger trades an authorization code for Gmail tokens.
type GoogleExchanger struct {
	ClientID     string
	ClientSecret string
	Endpoint     oauth2.Endpoint
	HTTPClient   *http.Client
}

func NewGoogleExchanger(clientID, clientSecret string) *GoogleExchanger {
	return &GoogleExchanger{ClientID: clientID, ClientSecret: clientSecret, Endpoint: GoogleEndpoint}
}

func (g *GoogleExchanger) Exchange(ctx context.Context, code, redirectURI string) (*model.GmailToken, error) {
	if g.ClientID == "" {
		return nil, appErrors.NewConfigurationError("GOOGLE_CLIENT_ID")
	}
	if g.ClientSecret == "" {
		return nil, appErrors.NewConfigurationError("GOOGLE_CLIENT_SECRET")
	}

	conf := &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     g.Endpoint,
		Scopes:       GmailScopes,
	}
	if g.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, g.HTTPClient)
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, &appErrors.UpstreamError{Service: "google-oauth", Err: err}
	}
	return &model.GmailToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}, nil
}
