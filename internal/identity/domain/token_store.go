package domain

import (
	"context"
	"time"
)

// TokenStore resolves opaque bearer tokens to principals.
type TokenStore interface {
	Lookup(ctx context.Context, token string) (Principal, error)
}

// TokenWriter stores tokens. A zero ttl means the token never expires.
type TokenWriter interface {
	Save(ctx context.Context, token string, principal Principal, ttl time.Duration) error
	Revoke(ctx context.Context, token string) error
}
