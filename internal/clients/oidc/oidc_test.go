package oidc

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testClientID = "doccheck"
	testCode     = "auth-code"
	testKeyID    = "test-key"
)

type fakeProvider struct {
	server   *httptest.Server
	key      *rsa.PrivateKey
	verifier string
	audience string
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &fakeProvider{key: key, verifier: oauth2.GenerateVerifier(), audience: testClientID}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"issuer":                                p.server.URL,
			"authorization_endpoint":                p.server.URL + "/authorize",
			"token_endpoint":                        p.server.URL + "/token",
			"jwks_uri":                              p.server.URL + "/keys",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"kid": testKeyID,
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("code") != testCode || r.PostForm.Get("code_verifier") != p.verifier {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}

		writeJSON(w, map[string]any{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     p.idToken(t),
		})
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) idToken(t *testing.T) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":         p.server.URL,
		"sub":         "user-1",
		"aud":         p.audience,
		"iat":         now.Unix(),
		"exp":         now.Add(time.Hour).Unix(),
		"email":       "ann@example.com",
		"given_name":  "Ann",
		"family_name": "Lee",
	})
	token.Header["kid"] = testKeyID

	signed, err := token.SignedString(p.key)
	require.NoError(t, err)
	return signed
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, p *fakeProvider) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), Config{
		IssuerURL:    p.server.URL,
		ClientID:     testClientID,
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/api/auth/callback",
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresIssuer(t *testing.T) {
	client, err := NewClient(context.Background(), Config{ClientID: testClientID})

	assert.Nil(t, client)
	assert.Error(t, err)
}

func TestClient_AuthCodeURL(t *testing.T) {
	// Arrange
	p := newFakeProvider(t)
	client := newTestClient(t, p)

	// Act
	raw := client.AuthCodeURL("state-1", p.verifier)

	// Assert
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "/authorize", parsed.Path)
	assert.Equal(t, "state-1", query.Get("state"))
	assert.Equal(t, "S256", query.Get("code_challenge_method"))
	assert.Equal(t, oauth2.S256ChallengeFromVerifier(p.verifier), query.Get("code_challenge"))
	assert.Contains(t, query.Get("scope"), "openid")
}

func TestClient_Exchange(t *testing.T) {
	// Arrange
	p := newFakeProvider(t)
	client := newTestClient(t, p)

	// Act
	identity, err := client.Exchange(context.Background(), testCode, p.verifier)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &Identity{
		Subject:    "user-1",
		Email:      "ann@example.com",
		GivenName:  "Ann",
		FamilyName: "Lee",
	}, identity)
}

func TestClient_Exchange_Rejected(t *testing.T) {
	testCases := []struct {
		name     string
		code     string
		verifier func(p *fakeProvider) string
		audience string
	}{
		{
			name:     "wrong verifier",
			code:     testCode,
			verifier: func(*fakeProvider) string { return oauth2.GenerateVerifier() },
			audience: testClientID,
		},
		{
			name:     "unknown code",
			code:     "other",
			verifier: func(p *fakeProvider) string { return p.verifier },
			audience: testClientID,
		},
		{
			name:     "token for another client",
			code:     testCode,
			verifier: func(p *fakeProvider) string { return p.verifier },
			audience: "someone-else",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			p := newFakeProvider(t)
			p.audience = tc.audience
			client := newTestClient(t, p)

			// Act
			identity, err := client.Exchange(context.Background(), tc.code, tc.verifier(p))

			// Assert
			assert.Nil(t, identity)
			var authErr *customerror.AuthenticationError
			assert.ErrorAs(t, err, &authErr)
		})
	}
}
