package ports

import "context"

// TokenCache memoizes token key to account ID lookups.
type TokenCache interface {
	// Get reports the cached account ID for key. ok is false on a miss.
	Get(ctx context.Context, key string) (accountID int64, ok bool, err error)
	Set(ctx context.Context, key string, accountID int64) error
}
