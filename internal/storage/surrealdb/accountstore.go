package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/models"
)

// accountSelectFields aliases accountId to id for struct mapping, keeping
// the SurrealDB record id out of the projection. Field names mirror the
// model's json tags so query results decode directly.
const accountSelectFields = `accountId as id, email, username, passwordHash, role,
	isVerified, isAcceptingMessages, money, presentMoney, profit,
	transactions, createdAt, modifiedAt`

// AccountStore implements interfaces.AccountStore using SurrealDB.
type AccountStore struct {
	m      *Manager
	logger *common.Logger
}

func (s *AccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	db, err := s.m.conn(ctx)
	if err != nil {
		return nil, err
	}

	sql := "SELECT " + accountSelectFields + " FROM $rid"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("account", id)}

	results, err := surrealdb.Query[[]models.Account](ctx, db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("account '%s': %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("account '%s': %w", id, interfaces.ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, "email", normalizeEmail(email))
}

func (s *AccountStore) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.findOne(ctx, "username", username)
}

func (s *AccountStore) findOne(ctx context.Context, field, value string) (*models.Account, error) {
	db, err := s.m.conn(ctx)
	if err != nil {
		return nil, err
	}

	sql := "SELECT " + accountSelectFields + " FROM account WHERE " + field + " = $value LIMIT 1"
	vars := map[string]any{"value": value}

	results, err := surrealdb.Query[[]models.Account](ctx, db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by %s: %w", field, err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("account with %s '%s': %w", field, value, interfaces.ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

// Save upserts the account, enforcing global uniqueness of email and
// username across all other accounts.
func (s *AccountStore) Save(ctx context.Context, account *models.Account) error {
	db, err := s.m.conn(ctx)
	if err != nil {
		return err
	}

	if account.ID == "" {
		account.ID = fmt.Sprintf("acct_%s", uuid.New().String()[:8])
	}
	account.Email = normalizeEmail(account.Email)

	if err := s.checkUnique(ctx, db, "email", account.Email, account.ID, interfaces.ErrEmailTaken); err != nil {
		return err
	}
	if err := s.checkUnique(ctx, db, "username", account.Username, account.ID, interfaces.ErrUsernameTaken); err != nil {
		return err
	}

	now := time.Now()
	if existing, err := s.GetByID(ctx, account.ID); err == nil {
		account.CreatedAt = existing.CreatedAt
	} else if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.ModifiedAt = now

	sql := `UPSERT $rid SET
		accountId = $accountId, email = $email, username = $username,
		passwordHash = $passwordHash, role = $role,
		isVerified = $isVerified, isAcceptingMessages = $isAcceptingMessages,
		money = $money, presentMoney = $presentMoney, profit = $profit,
		transactions = $transactions, createdAt = $createdAt, modifiedAt = $modifiedAt`
	vars := map[string]any{
		"rid":                 surrealmodels.NewRecordID("account", account.ID),
		"accountId":           account.ID,
		"email":               account.Email,
		"username":            account.Username,
		"passwordHash":        account.PasswordHash,
		"role":                account.Role,
		"isVerified":          account.IsVerified,
		"isAcceptingMessages": account.IsAcceptingMessages,
		"money":               account.Money,
		"presentMoney":        account.PresentMoney,
		"profit":              account.Profit,
		"transactions":        account.Transactions,
		"createdAt":           account.CreatedAt,
		"modifiedAt":          account.ModifiedAt,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, db, sql, vars)
		if err == nil {
			s.logger.Debug().Str("account_id", account.ID).Msg("Account saved")
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save account after retries: %w", lastErr)
}

func (s *AccountStore) checkUnique(ctx context.Context, db *surrealdb.DB, field, value, selfID string, conflict error) error {
	if value == "" {
		return nil
	}
	sql := "SELECT accountId as id FROM account WHERE " + field + " = $value AND accountId != $self LIMIT 1"
	vars := map[string]any{"value": value, "self": selfID}

	results, err := surrealdb.Query[[]models.Account](ctx, db, sql, vars)
	if err != nil {
		return fmt.Errorf("failed to check %s uniqueness: %w", field, err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return fmt.Errorf("%s '%s': %w", field, value, conflict)
	}
	return nil
}

func (s *AccountStore) Delete(ctx context.Context, id string) error {
	db, err := s.m.conn(ctx)
	if err != nil {
		return err
	}
	_, err = surrealdb.Delete[models.Account](ctx, db, surrealmodels.NewRecordID("account", id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (s *AccountStore) ListIDs(ctx context.Context) ([]string, error) {
	db, err := s.m.conn(ctx)
	if err != nil {
		return nil, err
	}

	type idResult struct {
		ID string `json:"id"`
	}
	sql := "SELECT accountId as id FROM account"
	results, err := surrealdb.Query[[]idResult](ctx, db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	var ids []string
	if results != nil && len(*results) > 0 {
		for _, r := range (*results)[0].Result {
			ids = append(ids, r.ID)
		}
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
	return s.Save(ctx, account)
}

func (s *AccountStore) Close() error {
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Compile-time check
var _ interfaces.AccountStore = (*AccountStore)(nil)
