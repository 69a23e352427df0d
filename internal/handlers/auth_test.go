package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doccheck/marketplace/internal/clients/oidc"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenTTL: time.Hour,
		AfterLoginURL:  "/dashboard",
	}
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginHandler_RedirectsWithStateAndVerifier(t *testing.T) {
	// Arrange
	identity := new(MockIdentityProvider)
	identity.On("AuthCodeURL", mock.Anything, mock.Anything).Return("https://idp.example/authorize?client_id=doccheck")
	handler := NewAuthHandler(testJWTConfig(), new(MockUserRepository), identity)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)

	// Act
	handler.LoginHandler(rr, req)

	// Assert
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://idp.example/authorize?client_id=doccheck", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	state := cookieByName(cookies, stateCookie)
	verifier := cookieByName(cookies, verifierCookie)
	require.NotNil(t, state)
	require.NotNil(t, verifier)
	assert.True(t, state.HttpOnly)
	assert.Equal(t, "/api/auth", state.Path)

	call := identity.Calls[0]
	assert.Equal(t, state.Value, call.Arguments.String(0))
	assert.Equal(t, verifier.Value, call.Arguments.String(1))
}

func TestLoginHandler_NotConfigured(t *testing.T) {
	// Arrange
	handler := NewAuthHandler(testJWTConfig(), new(MockUserRepository), nil)
	rr := httptest.NewRecorder()

	// Act
	handler.LoginHandler(rr, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	// Assert
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func callbackRequest(query string, state, verifier string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?"+query, nil)
	if state != "" {
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: state})
	}
	if verifier != "" {
		req.AddCookie(&http.Cookie{Name: verifierCookie, Value: verifier})
	}
	return req
}

func TestCallbackHandler_SignsInUser(t *testing.T) {
	// Arrange
	identity := new(MockIdentityProvider)
	users := new(MockUserRepository)
	handler := NewAuthHandler(testJWTConfig(), users, identity)

	identity.On("Exchange", mock.Anything, "code-1", "verifier-1").Return(&oidc.Identity{
		Subject:    "sub-1",
		Email:      "jane@example.com",
		GivenName:  "Jane",
		FamilyName: "Doe",
	}, nil)
	users.On("Upsert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == "sub-1" && u.Email == "jane@example.com" && u.FirstName == "Jane"
	})).Return(&models.User{ID: "sub-1", Email: "jane@example.com", Role: models.RoleCustomer}, nil)

	rr := httptest.NewRecorder()

	// Act
	handler.CallbackHandler(rr, callbackRequest("code=code-1&state=state-1", "state-1", "verifier-1"))

	// Assert
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))

	session := cookieByName(rr.Result().Cookies(), AccessTokenCookie)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)

	claims, err := handler.ValidateToken(session.Value)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims.UserID)
	assert.Equal(t, models.RoleCustomer, claims.Role)

	identity.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestCallbackHandler_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		state    string
		verifier string
	}{
		{name: "provider error", query: "error=access_denied&state=s", state: "s", verifier: "v"},
		{name: "state mismatch", query: "code=c&state=other", state: "s", verifier: "v"},
		{name: "missing state cookie", query: "code=c&state=s", verifier: "v"},
		{name: "missing verifier", query: "code=c&state=s", state: "s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			identity := new(MockIdentityProvider)
			handler := NewAuthHandler(testJWTConfig(), new(MockUserRepository), identity)
			rr := httptest.NewRecorder()

			// Act
			handler.CallbackHandler(rr, callbackRequest(tt.query, tt.state, tt.verifier))

			// Assert
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			identity.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCallbackHandler_ExchangeFails(t *testing.T) {
	// Arrange
	identity := new(MockIdentityProvider)
	users := new(MockUserRepository)
	handler := NewAuthHandler(testJWTConfig(), users, identity)
	identity.On("Exchange", mock.Anything, "c", "v").Return(nil, customerror.NewAuthenticationError("invalid id token"))
	rr := httptest.NewRecorder()

	// Act
	handler.CallbackHandler(rr, callbackRequest("code=c&state=s", "s", "v"))

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, cookieByName(rr.Result().Cookies(), AccessTokenCookie))
	users.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestValidateToken(t *testing.T) {
	handler := NewAuthHandler(testJWTConfig(), new(MockUserRepository), nil)

	valid, err := handler.generateToken(&models.User{ID: "u-1", Role: models.RoleReviewer})
	require.NoError(t, err)

	otherSecret := NewAuthHandler(&JWTConfig{SecretKey: "other", AccessTokenTTL: time.Hour}, nil, nil)
	foreign, err := otherSecret.generateToken(&models.User{ID: "u-1"})
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: valid},
		{name: "signed with another secret", token: foreign, wantErr: true},
		{name: "expired", token: expired, wantErr: true},
		{name: "no user", token: anonymous, wantErr: true},
		{name: "garbage", token: "not-a-token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := handler.ValidateToken(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u-1", claims.UserID)
			assert.Equal(t, models.RoleReviewer, claims.Role)
		})
	}
}

func TestLogoutHandler_ClearsSession(t *testing.T) {
	// Arrange
	handler := NewAuthHandler(testJWTConfig(), new(MockUserRepository), nil)
	rr := httptest.NewRecorder()

	// Act
	handler.LogoutHandler(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	session := cookieByName(rr.Result().Cookies(), AccessTokenCookie)
	require.NotNil(t, session)
	assert.Empty(t, session.Value)
	assert.True(t, session.Expires.Before(time.Now()))
}

func TestUserHandler(t *testing.T) {
	handler := NewAuthHandler(testJWTConfig(), new(MockUserRepository), nil)

	t.Run("signed in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodGet, "/api/auth/user", nil), customerUser)

		handler.UserHandler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"cust@example.com"`)
	})

	t.Run("anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()

		handler.UserHandler(rr, httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
