package server

import (
	"errors"
	"net/http"

	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/models"
	"github.com/wrenlabs/slate/internal/services/auth"
)

// accountProjection builds the client-safe view of an account. The stored
// password hash never leaves the server.
func accountProjection(account *models.Account) map[string]interface{} {
	return map[string]interface{}{
		"id":                  account.ID,
		"email":               account.Email,
		"username":            account.Username,
		"role":                account.Role,
		"isVerified":          account.IsVerified,
		"isAcceptingMessages": account.IsAcceptingMessages,
		"money":               account.Money,
		"presentMoney":        account.PresentMoney,
		"profit":              account.Profit,
		"transactions":        account.Transactions,
	}
}

// loadSessionAccount fetches the caller's account by session id. A lookup
// miss is a hard authentication failure: the caller must log in again, the
// server never substitutes another record.
func (s *Server) loadSessionAccount(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	sess, ok := requireSession(w, r, s.app.Config)
	if !ok {
		return nil, false
	}

	account, err := s.app.Storage.AccountStore().GetByID(r.Context(), sess.AccountID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Str("account_id", sess.AccountID).Msg("Session references missing account")
			WriteError(w, http.StatusUnauthorized, "session is no longer valid")
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Account lookup failed")
		WriteError(w, http.StatusInternalServerError, "failed to load account")
		return nil, false
	}
	return account, true
}

// handleUserFinances handles GET /api/user/update-finances — return the
// caller's current account projection from the store.
func (s *Server) handleUserFinances(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	account, ok := s.loadSessionAccount(w, r)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"user": accountProjection(account),
		},
	})
}

// handleUserProfile handles PUT /api/user/update-profile — update only the
// supplied fields (username and/or password).
func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	account, ok := s.loadSessionAccount(w, r)
	if !ok {
		return
	}

	var req struct {
		Username    string `json:"username"`
		NewPassword string `json:"newPassword"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" && req.NewPassword == "" {
		WriteError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Username != "" {
		account.Username = req.Username
	}
	if req.NewPassword != "" {
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash new password")
			WriteError(w, http.StatusInternalServerError, "failed to update password")
			return
		}
		account.PasswordHash = hash
	}

	if err := s.app.Storage.AccountStore().Save(r.Context(), account); err != nil {
		if errors.Is(err, interfaces.ErrUsernameTaken) {
			WriteError(w, http.StatusConflict, "username is already taken")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to save profile update")
		WriteError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"user": accountProjection(account),
		},
	})
}
