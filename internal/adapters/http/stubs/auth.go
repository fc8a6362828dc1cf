package stubs

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okian/aithena/pkg/logger"
)

// Claims are the stub token claims; the subject is the login email.
type Claims struct {
	jwt.RegisteredClaims
}

type user struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  user   `json:"user"`
}

// IssueToken signs an HS256 token for email.
func (h *Handler) IssueToken(email string) (string, error) {
	now := h.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}

// ParseToken validates tokenString and returns the email it was issued for.
func (h *Handler) ParseToken(tokenString string) (string, error) {
	keyFunc := func(*jwt.Token) (interface{}, error) { return h.secret, nil }
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(h.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// HandleLogin handles POST /auth/login?email&password. Any credentials are
// accepted.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	email := strings.TrimSpace(q.Get("email"))
	if email == "" || !q.Has("password") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: email and password are required", ErrBadQuery))
		return
	}
	token, err := h.IssueToken(email)
	if err != nil {
		h.logger.Error(r.Context(), "sign token failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user{Email: email}})
}

// HandleMe handles GET /auth/me. A valid bearer token yields its subject;
// anything else yields the demo user.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	email := DemoEmail
	if raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		if sub, err := h.ParseToken(strings.TrimSpace(raw)); err == nil {
			email = sub
		}
	}
	writeJSON(w, http.StatusOK, user{Email: email})
}
