package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/services/auth"
)

// handleAuthLogin handles POST /api/auth/login — authenticate with email
// and password, returning a session token and the account projection.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, err := s.app.AuthService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Both failure causes collapse to the same client message so the
		// endpoint cannot be used to enumerate accounts.
		if errors.Is(err, auth.ErrNoSuchUser) || errors.Is(err, auth.ErrBadPassword) {
			s.logger.Debug().Err(err).Str("email", req.Email).Msg("Login rejected")
			WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error().Err(err).Msg("Login failed")
		WriteError(w, http.StatusInternalServerError, "authentication unavailable")
		return
	}

	token, err := signJWT(account, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT for login")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"token": token,
			"user":  accountProjection(account),
		},
	})
}

// handleAuthValidate handles POST /api/auth/validate — validate a session
// token and return the projection it carries, without a store read.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		WriteError(w, http.StatusUnauthorized, "missing or invalid Authorization header")
		return
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := validateJWT(tokenString, []byte(s.app.Config.Auth.JWTSecret))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	sess, err := sessionFromClaims(claims)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid token claims")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"user": sessionProjection(sess),
		},
	})
}

// sessionProjection builds the client-safe view of a session.
func sessionProjection(sess *common.Session) map[string]interface{} {
	return map[string]interface{}{
		"id":                  sess.AccountID,
		"email":               sess.Email,
		"username":            sess.Username,
		"role":                sess.Role,
		"isVerified":          sess.IsVerified,
		"isAcceptingMessages": sess.IsAcceptingMessages,
		"money":               sess.Money,
		"presentMoney":        sess.PresentMoney,
		"profit":              sess.Profit,
		"transactions":        sess.Transactions,
	}
}
