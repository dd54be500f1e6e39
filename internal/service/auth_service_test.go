package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/util"
	"eventhub/pkg/rbac"
)

const testSecret = "test-secret"

func TestRegisterDefaultsToMemberRole(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), testSecret)

	u, err := svc.Register(context.Background(), "Mia", "mia@example.com", "hunter2hunter2", "")
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleMember, u.Role)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), testSecret)

	_, err := svc.Register(context.Background(), "Mia", "mia@example.com", "hunter2hunter2", "SUPERUSER")
	assert.Error(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), testSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Mia", "mia@example.com", "hunter2hunter2", rbac.RoleLead)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Mia", "mia@example.com", "hunter2hunter2", rbac.RoleLead)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginReturnsUsableJWT(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), testSecret)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Fran", "fran@example.com", "hunter2hunter2", rbac.RoleFinance)
	require.NoError(t, err)

	token, err := svc.Login(ctx, "fran@example.com", "hunter2hunter2")
	require.NoError(t, err)

	userID, role, err := util.ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, rbac.RoleFinance, role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), testSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Fran", "fran@example.com", "hunter2hunter2", rbac.RoleFinance)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "fran@example.com", "wrong-password")
	assert.Error(t, err)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	assert.Error(t, err)
}
