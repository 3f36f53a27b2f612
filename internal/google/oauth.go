package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Credentials are the client and refresh token values needed for a refresh grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// TokenURL overrides the token endpoint. Empty means TokenURL.
	TokenURL string
}

// Credential is the result of a successful refresh. Source keeps the refresh
// token and client credentials so the access token can be renewed.
type Credential struct {
	AccessToken string
	Expiry      time.Time
	Source      oauth2.TokenSource
}

// OAuthConfig returns the OAuth2 configuration for the given credentials.
func OAuthConfig(creds Credentials) *oauth2.Config {
	endpoint := google.Endpoint
	if creds.TokenURL != "" {
		endpoint.TokenURL = creds.TokenURL
	} else {
		endpoint.TokenURL = TokenURL
	}
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       DriveScopes,
	}
}

// RefreshCredential performs a refresh-token grant and returns the new access token.
// httpClient may be nil to use the default client.
func RefreshCredential(ctx context.Context, creds Credentials, httpClient *http.Client) (*Credential, error) {
	if creds.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token available")
	}

	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	conf := OAuthConfig(creds)
	ts := oauth2.ReuseTokenSource(nil, conf.TokenSource(ctx, &oauth2.Token{
		RefreshToken: creds.RefreshToken,
	}))

	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("token endpoint returned an empty access token")
	}

	return &Credential{
		AccessToken: token.AccessToken,
		Expiry:      token.Expiry,
		Source:      ts,
	}, nil
}

// NewHTTPClient returns an HTTP client authenticated with the credential.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
func NewHTTPClient(ctx context.Context, cred *Credential) (*http.Client, error) {
	if cred == nil || cred.Source == nil {
		return nil, fmt.Errorf("no credential available")
	}

	client := oauth2.NewClient(ctx, cred.Source)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}

	return client, nil
}

// RetrieveError extracts the OAuth error code from a failed refresh, such as
// "invalid_grant" for a revoked or expired refresh token.
func RetrieveError(err error) (string, bool) {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return re.ErrorCode, true
	}
	return "", false
}
