package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventhub/pkg/rbac"
)

func newYearFixture() (*YearService, *memYearStore) {
	years := newMemYearStore()
	return NewYearService(years, zap.NewNop()), years
}

func TestCreateYearDerivesEndBoundary(t *testing.T) {
	svc, _ := newYearFixture()
	actor := Actor{ID: 1, Role: rbac.RoleAdmin}

	y, err := svc.Create(context.Background(), actor, CreateYearParams{StartMonth: 9, StartYear: 2025})
	require.NoError(t, err)
	assert.Equal(t, 8, y.EndMonth)
	assert.Equal(t, 2026, y.EndYear)
	assert.Equal(t, "2025-2026", y.Label, "label defaults to the span")
}

func TestCreateYearJanuaryStartEndsSameYear(t *testing.T) {
	svc, _ := newYearFixture()

	y, err := svc.Create(context.Background(), Actor{ID: 1, Role: rbac.RoleAdmin}, CreateYearParams{StartMonth: 1, StartYear: 2026})
	require.NoError(t, err)
	assert.Equal(t, 12, y.EndMonth)
	assert.Equal(t, 2026, y.EndYear)
}

func TestCreateYearInvalidMonthDefaultsToSeptember(t *testing.T) {
	svc, _ := newYearFixture()

	y, err := svc.Create(context.Background(), Actor{ID: 1, Role: rbac.RoleAdmin}, CreateYearParams{StartMonth: 14, StartYear: 2025})
	require.NoError(t, err)
	assert.Equal(t, 9, y.StartMonth)
}

func TestMakeCurrentDisplacesPreviousCurrent(t *testing.T) {
	svc, years := newYearFixture()
	ctx := context.Background()
	actor := Actor{ID: 1, Role: rbac.RoleAdmin}

	first, err := svc.Create(ctx, actor, CreateYearParams{StartMonth: 9, StartYear: 2024, MakeCurrent: true})
	require.NoError(t, err)
	second, err := svc.Create(ctx, actor, CreateYearParams{StartMonth: 9, StartYear: 2025, MakeCurrent: true})
	require.NoError(t, err)

	current, err := years.FindCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	old, _ := years.FindByID(ctx, first.ID)
	assert.False(t, old.IsCurrent, "at most one current year")
}

func TestSwitchMovesCurrentFlag(t *testing.T) {
	svc, years := newYearFixture()
	ctx := context.Background()
	actor := Actor{ID: 1, Role: rbac.RoleAdmin}

	first, _ := svc.Create(ctx, actor, CreateYearParams{StartMonth: 9, StartYear: 2024, MakeCurrent: true})
	second, _ := svc.Create(ctx, actor, CreateYearParams{StartMonth: 9, StartYear: 2025})

	require.NoError(t, svc.Switch(ctx, actor, second.ID))

	current, err := years.FindCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	old, _ := years.FindByID(ctx, first.ID)
	assert.False(t, old.IsCurrent)
}

func TestSwitchUnknownYear(t *testing.T) {
	svc, _ := newYearFixture()

	err := svc.Switch(context.Background(), Actor{ID: 1, Role: rbac.RoleAdmin}, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSettingsPatchesBudget(t *testing.T) {
	svc, years := newYearFixture()
	ctx := context.Background()
	actor := Actor{ID: 1, Role: rbac.RoleAdmin}

	y, _ := svc.Create(ctx, actor, CreateYearParams{StartMonth: 9, StartYear: 2025})
	budget := 5000.0
	require.NoError(t, svc.UpdateSettings(ctx, actor, y.ID, UpdateYearParams{Budget: &budget}))

	got, _ := years.FindByID(ctx, y.ID)
	require.NotNil(t, got.Budget)
	assert.Equal(t, 5000.0, *got.Budget)
	assert.Equal(t, 9, got.StartMonth)
}
