// Package auth verifies account credentials and manages password hashes.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Authentication failures are deliberately split so callers can log the
// cause, but handlers must collapse both into one generic client message.
var (
	ErrNoSuchUser  = errors.New("no account for email")
	ErrBadPassword = errors.New("password mismatch")
)

// Service authenticates accounts against the account store.
type Service struct {
	store  interfaces.AccountStore
	logger *common.Logger
}

func NewService(store interfaces.AccountStore, logger *common.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Authenticate verifies an email/password pair and returns the account.
//
// A missing account is a hard failure: there is no fallback to another
// record. Stored hashes are normally bcrypt; records imported from the
// legacy system may still hold a plaintext password, which is accepted
// once via constant-time compare and rehashed in place.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNoSuchUser
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if isBcryptHash(account.PasswordHash) {
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), truncateForBcrypt(password)); err != nil {
			return nil, ErrBadPassword
		}
		return account, nil
	}

	// Legacy plaintext record
	if subtle.ConstantTimeCompare([]byte(account.PasswordHash), []byte(password)) != 1 {
		return nil, ErrBadPassword
	}
	if err := s.rehash(ctx, account, password); err != nil {
		// Login still succeeds; the migration retries on the next login.
		s.logger.Warn().Err(err).Str("account_id", account.ID).Msg("Failed to rehash legacy password")
	}
	return account, nil
}

// rehash upgrades a legacy plaintext credential to bcrypt.
func (s *Service) rehash(ctx context.Context, account *models.Account, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	if err := s.store.Save(ctx, account); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", account.ID).Msg("Legacy password upgraded to bcrypt")
	return nil
}

// HashPassword hashes a password with bcrypt at cost 10, truncating input
// to bcrypt's 72-byte limit.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncateForBcrypt(password), 10)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func truncateForBcrypt(password string) []byte {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}

// isBcryptHash reports whether the stored credential looks like a bcrypt
// hash ("$2a$", "$2b$", "$2y$") rather than a legacy plaintext value.
func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2") && len(hash) >= 20
}
