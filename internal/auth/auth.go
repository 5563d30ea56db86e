// Package auth obtains a login token from the authentication provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const DefaultClientID = "veloren-inventory-bot"

var ErrIssuerMismatch = errors.New("auth: token issuer does not match provider")

type Provider struct {
	URL        string
	ClientID   string
	HTTPClient *http.Client
}

// Trusts reports whether the provider a server announces is this one.
func (p Provider) Trusts(announced string) bool {
	return normalize(announced) == normalize(p.URL)
}

// Login trades username/password for an access token using the password
// grant. The token must be a JWT issued by the provider itself.
func (p Provider) Login(ctx context.Context, username, password string) (string, error) {
	if p.URL == "" {
		return "", fmt.Errorf("auth: empty provider url")
	}
	clientID := p.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	cfg := oauth2.Config{
		ClientID: clientID,
		Endpoint: oauth2.Endpoint{
			TokenURL:  normalize(p.URL) + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	if p.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.HTTPClient)
	}
	tok, err := cfg.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return "", fmt.Errorf("auth: token request: %w", err)
	}
	if err := p.checkIssuer(tok.AccessToken); err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// checkIssuer only inspects claims; the world server verifies the signature.
func (p Provider) checkIssuer(raw string) error {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return fmt.Errorf("auth: parse token: %w", err)
	}
	if normalize(claims.Issuer) != normalize(p.URL) {
		return fmt.Errorf("%w: %q", ErrIssuerMismatch, claims.Issuer)
	}
	return nil
}

func normalize(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
