// Package application contains the identity use cases.
package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/tracker/internal/identity/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

const tokenBytes = 32

// Authenticator resolves bearer credentials to principals.
type Authenticator struct {
	store  domain.TokenStore
	logger *slog.Logger
}

// NewAuthenticator creates a new authenticator.
func NewAuthenticator(store domain.TokenStore, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Authenticator{store: store, logger: logger}
}

// Authenticate parses an Authorization header value of the form
// "Bearer <token>" or "Token <token>".
func (a *Authenticator) Authenticate(ctx context.Context, header string) (domain.Principal, error) {
	token, ok := parseAuthorization(header)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	principal, err := a.store.Lookup(ctx, token)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "token lookup failed", observability.ErrorKey, err)
		return domain.Principal{}, fmt.Errorf("token lookup: %w", err)
	}
	return principal, nil
}

// Authorize authenticates and then applies policy.
func (a *Authenticator) Authorize(ctx context.Context, header string, policy domain.Policy) (domain.Principal, error) {
	principal, err := a.Authenticate(ctx, header)
	if err != nil {
		return domain.Principal{}, err
	}
	if err := policy(principal); err != nil {
		return domain.Principal{}, err
	}
	return principal, nil
}

func parseAuthorization(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// IssueTokenCommand describes a token to mint.
type IssueTokenCommand struct {
	Name string
	Role domain.Role
	TTL  time.Duration
}

// TokenIssuer mints opaque tokens and stores them.
type TokenIssuer struct {
	writer domain.TokenWriter
}

// NewTokenIssuer creates a new issuer.
func NewTokenIssuer(writer domain.TokenWriter) *TokenIssuer {
	return &TokenIssuer{writer: writer}
}

// Handle mints a token for cmd and returns its plaintext. Only a digest of
// the token is kept by the store.
func (i *TokenIssuer) Handle(ctx context.Context, cmd IssueTokenCommand) (string, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return "", fmt.Errorf("token name is required")
	}
	if !cmd.Role.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, cmd.Role)
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	principal := domain.Principal{Name: cmd.Name, Roles: []domain.Role{cmd.Role}}
	if err := i.writer.Save(ctx, token, principal, cmd.TTL); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}
	return token, nil
}

// Revoke deletes token. Unknown tokens are not an error.
func (i *TokenIssuer) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if err := i.writer.Revoke(ctx, token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
