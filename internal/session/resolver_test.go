package session

import (
	"context"
	"testing"
	"time"

	"github.com/abgdnv/giftshop/internal/store"
	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var testRetry = config.RetryConfig{Retries: 2, Delay: time.Millisecond}

func TestResolver_Resolve(t *testing.T) {
	id := Identity{UserID: uuid.New(), Email: "jane.doe@acme.test"}
	stored := store.Profile{ID: id.UserID, Name: "Jane Doe", Email: "jane@acme.test", Company: "Acme", Role: "admin"}

	testCases := []struct {
		name            string
		failures        int
		hasProfile      bool
		expected        User
		expectedLookups int
	}{
		{
			name:            "profile found on first lookup",
			hasProfile:      true,
			expected:        User{ID: id.UserID, Name: "Jane Doe", Email: "jane@acme.test", Company: "Acme", Role: RoleAdmin},
			expectedLookups: 1,
		},
		{
			name:            "profile found after two failures",
			failures:        2,
			hasProfile:      true,
			expected:        User{ID: id.UserID, Name: "Jane Doe", Email: "jane@acme.test", Company: "Acme", Role: RoleAdmin},
			expectedLookups: 3,
		},
		{
			name:            "retries exhausted falls back to token identity",
			failures:        5,
			hasProfile:      true,
			expected:        User{ID: id.UserID, Name: "jane.doe", Email: "jane.doe@acme.test", Company: DefaultCompany, Role: RoleBuyer},
			expectedLookups: 3,
		},
		{
			name:            "missing profile is retried then falls back",
			expected:        User{ID: id.UserID, Name: "jane.doe", Email: "jane.doe@acme.test", Company: DefaultCompany, Role: RoleBuyer},
			expectedLookups: 3,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			profiles := newFakeProfiles()
			profiles.failures = tc.failures
			if tc.hasProfile {
				profiles.profiles[id.UserID] = stored
			}
			resolver := NewResolver(profiles, testRetry, discardLog)

			// when
			user := resolver.Resolve(context.Background(), id)

			// then
			assert.Equal(t, tc.expected, user)
			assert.Equal(t, tc.expectedLookups, profiles.lookups)
		})
	}
}

func TestIdentity_DisplayName(t *testing.T) {
	testCases := []struct {
		identity Identity
		expected string
	}{
		{identity: Identity{Name: "Jane Doe", Username: "jane", Email: "j@acme.test"}, expected: "Jane Doe"},
		{identity: Identity{Username: "jane", Email: "j@acme.test"}, expected: "jane"},
		{identity: Identity{Email: "j@acme.test"}, expected: "j"},
		{identity: Identity{Email: "@acme.test"}, expected: DefaultName},
		{identity: Identity{}, expected: DefaultName},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.identity.DisplayName())
	}
}

func TestProfileUser_FillsBlanks(t *testing.T) {
	id := Identity{UserID: uuid.New(), Email: "jane@acme.test"}

	user := profileUser(id, &store.Profile{Role: "superuser"})

	assert.Equal(t, "jane", user.Name)
	assert.Equal(t, "jane@acme.test", user.Email)
	assert.Equal(t, DefaultCompany, user.Company)
	assert.Equal(t, RoleBuyer, user.Role)
}
