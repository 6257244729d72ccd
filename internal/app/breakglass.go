package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/models"
	"github.com/wrenlabs/slate/internal/services/auth"
)

// breakglassEmail identifies the break-glass admin account.
const breakglassEmail = "breakglass@slate.agency"

// ensureBreakglassAdmin creates the break-glass admin account if it does not
// already exist. This is a separate, dedicated credential: regular admin
// accounts have no master-password override.
// Returns the cleartext password if a new account was created, or "" if the
// account already exists.
func ensureBreakglassAdmin(ctx context.Context, store interfaces.AccountStore, logger *common.Logger) (string, error) {
	// Idempotent
	_, err := store.GetByEmail(ctx, breakglassEmail)
	if err == nil {
		logger.Info().Msg("Break-glass admin already exists")
		return "", nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return "", fmt.Errorf("failed to check for break-glass admin: %w", err)
	}

	// Generate 24-char cryptographically random password
	buf := make([]byte, 18) // 18 bytes -> 24 chars in base64
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate break-glass password: %w", err)
	}
	password := base64.RawURLEncoding.EncodeToString(buf)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash break-glass password: %w", err)
	}

	account := &models.Account{
		Email:        breakglassEmail,
		Username:     "breakglass-admin",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsVerified:   true,
	}

	if err := store.Save(ctx, account); err != nil {
		return "", fmt.Errorf("failed to save break-glass admin account: %w", err)
	}

	logger.Warn().
		Str("email", breakglassEmail).
		Str("password", password).
		Msg("Break-glass admin created")

	return password, nil
}
