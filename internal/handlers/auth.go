package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/doccheck/marketplace/internal/clients/oidc"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/handlers/schemas"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	AccessTokenCookie = "access_token"
	stateCookie       = "oauth_state"
	verifierCookie    = "oauth_verifier"
	loginFlowTTL      = 10 * time.Minute
)

type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	// SecureCookies marks session cookies as HTTPS only.
	SecureCookies bool
	// AfterLoginURL is where the browser lands once signed in.
	AfterLoginURL string
}

type AuthHandler struct {
	jwtConfig   *JWTConfig
	UserStorage repository.UserStorageRepositoryI
	identity    oidc.IdentityProviderI
}

func NewAuthHandler(jwtConfig *JWTConfig, storage repository.UserStorageRepositoryI, identity oidc.IdentityProviderI) *AuthHandler {
	return &AuthHandler{
		jwtConfig:   jwtConfig,
		UserStorage: storage,
		identity:    identity,
	}
}

// LoginHandler starts the authorization code flow. State and PKCE verifier
// travel in short lived cookies scoped to the auth routes.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if h.identity == nil {
		writeJSON(w, http.StatusServiceUnavailable, schemas.ErrorResponse{Error: "sign in is not configured"})
		return
	}

	state, err := randomString()
	if err != nil {
		writeError(w, r, fmt.Errorf("generate state: %w", err))
		return
	}
	verifier := oauth2.GenerateVerifier()

	h.setFlowCookie(w, stateCookie, state, loginFlowTTL)
	h.setFlowCookie(w, verifierCookie, verifier, loginFlowTTL)

	http.Redirect(w, r, h.identity.AuthCodeURL(state, verifier), http.StatusFound)
}

func (h *AuthHandler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	if h.identity == nil {
		writeJSON(w, http.StatusServiceUnavailable, schemas.ErrorResponse{Error: "sign in is not configured"})
		return
	}

	query := r.URL.Query()
	if providerErr := query.Get("error"); providerErr != "" {
		writeError(w, r, customerror.NewAuthenticationError("sign in was rejected: "+providerErr))
		return
	}

	stateFromCookie, err := r.Cookie(stateCookie)
	if err != nil || stateFromCookie.Value == "" || stateFromCookie.Value != query.Get("state") {
		writeError(w, r, customerror.NewAuthenticationError("invalid sign in state"))
		return
	}
	verifier, err := r.Cookie(verifierCookie)
	if err != nil || verifier.Value == "" {
		writeError(w, r, customerror.NewAuthenticationError("missing sign in verifier"))
		return
	}
	h.setFlowCookie(w, stateCookie, "", -1)
	h.setFlowCookie(w, verifierCookie, "", -1)

	identity, err := h.identity.Exchange(r.Context(), query.Get("code"), verifier.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.UserStorage.Upsert(r.Context(), &models.User{
		ID:              identity.Subject,
		Email:           identity.Email,
		FirstName:       identity.GivenName,
		LastName:        identity.FamilyName,
		ProfileImageURL: identity.Picture,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		writeError(w, r, fmt.Errorf("sign session token: %w", err))
		return
	}
	h.setTokenCookie(w, token, time.Now().Add(h.jwtConfig.AccessTokenTTL))

	logger.Log.Info("user signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	redirectTo := h.jwtConfig.AfterLoginURL
	if redirectTo == "" {
		redirectTo = "/"
	}
	http.Redirect(w, r, redirectTo, http.StatusFound)
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", time.Unix(0, 0))
	writeJSON(w, http.StatusOK, schemas.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) UserHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtConfig.SecretKey))
}

func (h *AuthHandler) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(h.jwtConfig.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user")
	}

	return claims, nil
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.jwtConfig.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) setFlowCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/api/auth",
		HttpOnly: true,
		Secure:   h.jwtConfig.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
}

func randomString() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
