package interfaces

import "context"

// MailClient sends transactional email through the configured provider.
// Implementations must be safe for concurrent use.
type MailClient interface {
	// Send delivers a single HTML email and returns the provider message id.
	Send(ctx context.Context, from, to, subject, html string) (string, error)
}
