//go:build unit

package user_test

import (
	"testing"

	"car-rental-core/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	r, err := user.NewRole("admin")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, r)

	r, err = user.NewRole("customer")
	require.NoError(t, err)
	assert.Equal(t, user.RoleCustomer, r)

	_, err = user.NewRole("operator")
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestActor_CanAccess(t *testing.T) {
	owner := uuid.New()

	assert.True(t, user.NewActor(owner, user.RoleCustomer).CanAccess(owner))
	assert.False(t, user.NewActor(uuid.New(), user.RoleCustomer).CanAccess(owner))
	assert.True(t, user.NewActor(uuid.New(), user.RoleAdmin).CanAccess(owner))
	assert.True(t, user.SystemActor().CanAccess(owner))
	assert.True(t, user.SystemActor().IsAdmin())
}
