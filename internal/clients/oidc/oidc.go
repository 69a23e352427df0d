// Package oidc signs users in through an OpenID Connect provider using the
// authorization code flow with PKCE.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/retry"
	"golang.org/x/oauth2"
)

// Identity is what the provider asserts about the signed in user.
type Identity struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

type IdentityProviderI interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*Identity, error)
}

type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Client struct {
	httpClient *http.Client
	oauth      oauth2.Config
	verifier   *gooidc.IDTokenVerifier
}

// NewClient discovers the provider configuration. ctx must outlive the
// client: signing keys are fetched with it.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.IssuerURL == "" || cfg.ClientID == "" {
		return nil, errors.New("oidc: issuer url and client id are required")
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	ctx = gooidc.ClientContext(ctx, httpClient)

	provider, err := retry.DoRetryWithResult(ctx, func() (*gooidc.Provider, error) {
		return gooidc.NewProvider(ctx, cfg.IssuerURL)
	}, retry.HTTPRetryConfig)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider %s: %w", cfg.IssuerURL, err)
	}

	client := Client{
		httpClient: httpClient,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}
	return &client, nil
}

func (client *Client) AuthCodeURL(state, verifier string) string {
	return client.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades the authorization code for tokens and verifies the ID token.
func (client *Client) Exchange(ctx context.Context, code, verifier string) (*Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, client.httpClient)

	token, err := client.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, customerror.NewAuthenticationError(fmt.Sprintf("exchange authorization code: %v", err))
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, customerror.NewAuthenticationError("token response has no id_token")
	}

	idToken, err := client.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, customerror.NewAuthenticationError(fmt.Sprintf("verify id token: %v", err))
	}

	var identity Identity
	if err = idToken.Claims(&identity); err != nil {
		return nil, fmt.Errorf("decode id token claims: %w", err)
	}
	identity.Subject = idToken.Subject

	return &identity, nil
}
