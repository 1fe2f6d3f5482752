package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	adminGate := []Role{RoleAdmin, RoleSuperAdmin}

	assert.Error(t, RequireRole(&Principal{ID: 1, Role: RoleVendor}, adminGate...))
	assert.Error(t, RequireRole(&Principal{ID: 1, Role: RoleClient}, adminGate...))
	assert.NoError(t, RequireRole(&Principal{ID: 1, Role: RoleAdmin}, adminGate...))
	assert.NoError(t, RequireRole(&Principal{ID: 1, Role: RoleSuperAdmin}, adminGate...))

	assert.Error(t, RequireRole(nil, adminGate...))

	err := RequireRole(&Principal{ID: 1, Role: RoleVendor}, adminGate...)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRequireOwnerOrRole(t *testing.T) {
	cases := []struct {
		name    string
		p       *Principal
		ownerID int64
		allow   bool
	}{
		{"owner with standard role", &Principal{ID: 1, Role: RoleClient}, 1, true},
		{"non-owner with standard role", &Principal{ID: 2, Role: RoleClient}, 1, false},
		{"non-owner admin", &Principal{ID: 2, Role: RoleAdmin}, 1, true},
		{"non-owner super admin", &Principal{ID: 2, Role: RoleSuperAdmin}, 1, true},
		{"non-owner vendor", &Principal{ID: 2, Role: RoleVendor}, 1, false},
		{"owner admin", &Principal{ID: 1, Role: RoleAdmin}, 1, true},
		{"nil principal", nil, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireOwnerOrRole(tc.p, tc.ownerID, AdminRoles()...)
			if tc.allow {
				assert.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestRequireActiveVerified(t *testing.T) {
	assert.NoError(t, RequireActiveVerified(&Principal{ID: 1, IsActive: true}, false))
	assert.NoError(t, RequireActiveVerified(&Principal{ID: 1, IsActive: true, IsVerified: true}, true))

	require.ErrorIs(t, RequireActiveVerified(&Principal{ID: 1, IsActive: false}, false), ErrForbidden)
	require.ErrorIs(t, RequireActiveVerified(&Principal{ID: 1, IsActive: true, IsVerified: false}, true), ErrForbidden)
	require.ErrorIs(t, RequireActiveVerified(nil, false), ErrForbidden)
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"CLIENT", "VENDOR", "ADMIN", "SUPER_ADMIN"} {
		role, ok := ParseRole(valid)
		require.True(t, ok, valid)
		assert.Equal(t, Role(valid), role)
	}
	for _, invalid := range []string{"", "client", "ROOT", "ADMINISTRATOR"} {
		_, ok := ParseRole(invalid)
		assert.False(t, ok, invalid)
	}
}
