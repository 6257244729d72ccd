package badgerdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/models"
)

// AccountStore implements interfaces.AccountStore using BadgerHold.
// Accounts are keyed by ID; email and username lookups scan the index.
type AccountStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func (s *AccountStore) GetByID(_ context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Get(id, &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("account '%s': %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account '%s': %w", id, err)
	}
	return &account, nil
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return s.findOne("Email", normalizeEmail(email))
}

func (s *AccountStore) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	return s.findOne("Username", username)
}

func (s *AccountStore) findOne(field, value string) (*models.Account, error) {
	var matches []models.Account
	if err := s.db.Find(&matches, badgerhold.Where(field).Eq(value)); err != nil {
		return nil, fmt.Errorf("failed to find account by %s: %w", strings.ToLower(field), err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("account with %s '%s': %w", strings.ToLower(field), value, interfaces.ErrNotFound)
	}
	return &matches[0], nil
}

// Save upserts the account, enforcing global uniqueness of email and
// username across all other accounts.
func (s *AccountStore) Save(_ context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = fmt.Sprintf("acct_%s", uuid.New().String()[:8])
	}
	account.Email = normalizeEmail(account.Email)

	if err := s.checkUnique("Email", account.Email, account.ID, interfaces.ErrEmailTaken); err != nil {
		return err
	}
	if err := s.checkUnique("Username", account.Username, account.ID, interfaces.ErrUsernameTaken); err != nil {
		return err
	}

	now := time.Now()
	var existing models.Account
	if err := s.db.Get(account.ID, &existing); err == nil {
		account.CreatedAt = existing.CreatedAt
	} else if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.ModifiedAt = now

	if err := s.db.Upsert(account.ID, account); err != nil {
		return fmt.Errorf("failed to save account '%s': %w", account.ID, err)
	}
	s.logger.Debug().Str("account_id", account.ID).Msg("Account saved")
	return nil
}

func (s *AccountStore) checkUnique(field, value, selfID string, conflict error) error {
	if value == "" {
		return nil
	}
	var matches []models.Account
	if err := s.db.Find(&matches, badgerhold.Where(field).Eq(value)); err != nil {
		return fmt.Errorf("failed to check %s uniqueness: %w", strings.ToLower(field), err)
	}
	for i := range matches {
		if matches[i].ID != selfID {
			return fmt.Errorf("%s '%s': %w", strings.ToLower(field), value, conflict)
		}
	}
	return nil
}

func (s *AccountStore) Delete(_ context.Context, id string) error {
	if err := s.db.Delete(id, models.Account{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete account '%s': %w", id, err)
	}
	s.logger.Debug().Str("account_id", id).Msg("Account deleted")
	return nil
}

func (s *AccountStore) ListIDs(_ context.Context) ([]string, error) {
	var accounts []models.Account
	if err := s.db.Find(&accounts, nil); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return ids, nil
}

// AppendTransaction records a ledger entry against the account and adjusts
// its balance by the signed amount (credits add, debits subtract).
func (s *AccountStore) AppendTransaction(ctx context.Context, id string, tx models.Transaction) error {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tx.ID == "" {
		tx.ID = fmt.Sprintf("txn_%s", uuid.New().String()[:8])
	}
	if tx.At.IsZero() {
		tx.At = time.Now()
	}
	account.Transactions = append(account.Transactions, tx)
	switch tx.Kind {
	case models.TransactionDebit:
		account.Money -= tx.Amount
	default:
		account.Money += tx.Amount
	}
	account.ModifiedAt = time.Now()

	if err := s.db.Upsert(account.ID, account); err != nil {
		return fmt.Errorf("failed to append transaction for account '%s': %w", id, err)
	}
	return nil
}

func (s *AccountStore) Close() error {
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Compile-time check
var _ interfaces.AccountStore = (*AccountStore)(nil)
