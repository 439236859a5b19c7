package tokenstore

import "context"

// Backend is the durable storage behind a Store. It holds exactly one key:
// the bearer credential string.
type Backend interface {
	// Load returns the persisted credential, or "" when none is stored.
	Load(ctx context.Context) (string, error)

	// Save replaces the persisted credential.
	Save(ctx context.Context, token string) error

	// Delete removes the persisted credential. Deleting a missing credential is not an error.
	Delete(ctx context.Context) error
}
