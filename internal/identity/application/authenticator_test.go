package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tracker/internal/identity/domain"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Lookup(ctx context.Context, token string) (domain.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Principal), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, token string, p domain.Principal, ttl time.Duration) error {
	return m.Called(ctx, token, p, ttl).Error(0)
}

func (m *mockStore) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestAuthenticator_Authorize(t *testing.T) {
	ctx := context.Background()
	manager := domain.Principal{Name: "maria", Roles: []domain.Role{domain.RoleManager}}
	employee := domain.Principal{Name: "egor", Roles: []domain.Role{domain.RoleEmployee}}

	store := new(mockStore)
	store.On("Lookup", ctx, "mgr-token").Return(manager, nil)
	store.On("Lookup", ctx, "emp-token").Return(employee, nil)
	store.On("Lookup", ctx, "unknown").Return(domain.Principal{}, domain.ErrTokenNotFound)
	store.On("Lookup", ctx, "broken").Return(domain.Principal{}, errors.New("redis: connection pool timeout"))

	auth := NewAuthenticator(store, nil)

	tests := []struct {
		name    string
		header  string
		want    domain.Principal
		wantErr error
	}{
		{"bearer manager", "Bearer mgr-token", manager, nil},
		{"token scheme", "Token mgr-token", manager, nil},
		{"employee forbidden", "Bearer emp-token", domain.Principal{}, domain.ErrForbidden},
		{"unknown token", "Bearer unknown", domain.Principal{}, domain.ErrUnauthenticated},
		{"missing header", "", domain.Principal{}, domain.ErrUnauthenticated},
		{"basic scheme", "Basic dXNlcjpwYXNz", domain.Principal{}, domain.ErrUnauthenticated},
		{"empty token", "Bearer  ", domain.Principal{}, domain.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.Authorize(ctx, tt.header, domain.AnalyticsPolicy())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("store failure is not an auth failure", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "Bearer broken")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestTokenIssuer_Handle(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	want := domain.Principal{Name: "ops", Roles: []domain.Role{domain.RoleAdmin}}
	store.On("Save", ctx, mock.AnythingOfType("string"), want, time.Hour).Return(nil)

	token, err := NewTokenIssuer(store).Handle(ctx, IssueTokenCommand{Name: "ops", Role: domain.RoleAdmin, TTL: time.Hour})
	require.NoError(t, err)
	assert.Len(t, token, 64)
	store.AssertExpectations(t)

	_, err = NewTokenIssuer(store).Handle(ctx, IssueTokenCommand{Name: "ops", Role: "Owner"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = NewTokenIssuer(store).Handle(ctx, IssueTokenCommand{Role: domain.RoleAdmin})
	assert.ErrorContains(t, err, "name is required")
}

func TestTokenIssuer_Revoke(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	store.On("Revoke", ctx, "abc").Return(nil)
	store.On("Revoke", ctx, "down").Return(errors.New("redis: closed"))
	issuer := NewTokenIssuer(store)

	require.NoError(t, issuer.Revoke(ctx, " abc "))
	assert.ErrorContains(t, issuer.Revoke(ctx, "down"), "revoke token")
	assert.Error(t, issuer.Revoke(ctx, "  "))
	store.AssertExpectations(t)
}
