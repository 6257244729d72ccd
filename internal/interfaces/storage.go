// Package interfaces defines service contracts for Slate
package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/wrenlabs/slate/internal/models"
)

// Sentinel errors shared across storage backends. Backends wrap these so
// callers can match with errors.Is regardless of the backend in use.
var (
	ErrNotFound      = errors.New("record not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

// StorageManager coordinates the document store backends.
type StorageManager interface {
	AccountStore() AccountStore
	InquiryStore() InquiryStore

	// Lifecycle
	Close() error
}

// AccountStore manages user accounts.
//
// Email and username are each globally unique; Save enforces both and
// returns ErrEmailTaken or ErrUsernameTaken when violated.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
	ListIDs(ctx context.Context) ([]string, error)
	AppendTransaction(ctx context.Context, id string, tx models.Transaction) error

	Close() error
}

// InquiryStore manages submitted inquiry records. Records are append-only:
// there is no update operation, and duplicate submissions produce
// duplicate records.
type InquiryStore interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	Get(ctx context.Context, id string) (*models.Inquiry, error)
	List(ctx context.Context, opts InquiryListOptions) ([]*models.Inquiry, int, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*models.InquirySummary, error)

	Close() error
}

// InquiryListOptions filters and paginates inquiry listings.
type InquiryListOptions struct {
	Variant string
	Email   string
	Since   *time.Time
	Before  *time.Time
	Sort    string // "created_at_desc" (default), "created_at_asc"
	Page    int
	PerPage int
}
