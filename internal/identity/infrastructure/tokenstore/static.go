// Package tokenstore implements identity token stores.
package tokenstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/tracker/internal/identity/domain"
)

// Digest returns the hex SHA-256 of a token. Stores index tokens by digest
// so plaintext tokens are never kept.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// StaticStore serves a fixed set of tokens from configuration.
type StaticStore struct {
	principals map[string]domain.Principal
}

var _ domain.TokenStore = (*StaticStore)(nil)

// ParseStatic parses "token:role:name" entries separated by commas. The name
// may contain colons.
func ParseStatic(list string) (*StaticStore, error) {
	s := &StaticStore{principals: make(map[string]domain.Principal)}
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid token entry %q: want token:role:name", entry)
		}
		role, err := domain.ParseRole(parts[1])
		if err != nil {
			return nil, err
		}
		s.principals[Digest(parts[0])] = domain.Principal{Name: parts[2], Roles: []domain.Role{role}}
	}
	return s, nil
}

// Len returns the number of configured tokens.
func (s *StaticStore) Len() int {
	return len(s.principals)
}

// Lookup implements domain.TokenStore.
func (s *StaticStore) Lookup(_ context.Context, token string) (domain.Principal, error) {
	p, ok := s.principals[Digest(token)]
	if !ok {
		return domain.Principal{}, domain.ErrTokenNotFound
	}
	return p, nil
}
