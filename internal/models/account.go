// Package models defines the document shapes persisted by Slate.
package models

import "time"

// Account represents a user account: identity plus the financial display
// fields shown on the post-login dashboard.
type Account struct {
	ID                  string        `json:"id"`
	Email               string        `json:"email"`
	Username            string        `json:"username"`
	PasswordHash        string        `json:"passwordHash"`
	Role                string        `json:"role"`
	IsVerified          bool          `json:"isVerified"`
	IsAcceptingMessages bool          `json:"isAcceptingMessages"`
	Money               float64       `json:"money"`
	PresentMoney        float64       `json:"presentMoney"`
	Profit              float64       `json:"profit"`
	Transactions        []Transaction `json:"transactions"`
	CreatedAt           time.Time     `json:"createdAt"`
	ModifiedAt          time.Time     `json:"modifiedAt"`
}

// Transaction is a single append-only entry in an account's ledger.
type Transaction struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"` // "credit" or "debit"
	Amount float64   `json:"amount"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// Account role constants.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Transaction kind constants.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// ValidRoles is the set of allowed account roles.
var ValidRoles = map[string]bool{
	RoleUser:  true,
	RoleAdmin: true,
}
