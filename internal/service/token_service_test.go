package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/pkg/rbac"
)

type appliedDecision struct {
	DeciderID int64
	EventID   int64
	Decision  string
}

type fakeApplier struct {
	applied []appliedDecision
}

func (f *fakeApplier) ApplyTokenDecision(_ context.Context, deciderID, eventID int64, decision string) error {
	f.applied = append(f.applied, appliedDecision{DeciderID: deciderID, EventID: eventID, Decision: decision})
	return nil
}

func newTokenFixture() (*TokenService, *memTokenStore, *memEventStore, *fakeApplier) {
	tokens := newMemTokenStore()
	events := newMemEventStore()
	applier := &fakeApplier{}
	svc := NewTokenService(tokens, events, zap.NewNop())
	svc.BindDecisions(applier)
	return svc, tokens, events, applier
}

func TestIssueAndResolveAppliesDecisionOnce(t *testing.T) {
	svc, _, events, applier := newTokenFixture()
	event := events.add("Demo Day")
	ctx := context.Background()

	token, err := svc.Issue(ctx, event.ID, 42, model.TokenApprove, 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	result, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, model.TokenApprove, result.Decision)
	assert.Equal(t, event.ID, result.EventID)
	assert.Equal(t, "Demo Day", result.EventTitle)

	require.Len(t, applier.applied, 1)
	assert.EqualValues(t, 42, applier.applied[0].DeciderID)

	// Second click on the same link.
	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrTokenAlreadyUsed)
	assert.Len(t, applier.applied, 1, "decision must apply exactly once")
}

// Wires the real token and catering services together, the way the
// server does, so the emailed one-click path is covered end to end
// rather than with a stand-in on either side of the seam.
func TestResolvedLinkDrivesCateringDecision(t *testing.T) {
	f := newCateringFixture()
	tokens := newMemTokenStore()
	tokenSvc := NewTokenService(tokens, f.events, zap.NewNop())
	notifier := newTestNotifier(newMemEmailLogStore(), f.sender, nil)
	cateringSvc := NewCateringService(f.events, f.catering, f.users, tokenSvc, notifier, f.recorder, "http://app.local", zap.NewNop())
	tokenSvc.BindDecisions(cateringSvc)

	event := f.seedEventWithCatering(model.CateringAwaitingApproval)
	f.users.add("Pat Payments", "pat@example.com", rbac.RolePaymentAdmin)
	ctx := context.Background()

	approve, err := tokenSvc.Issue(ctx, event.ID, 7, model.TokenApprove, 0)
	require.NoError(t, err)

	result, err := tokenSvc.Resolve(ctx, approve)
	require.NoError(t, err)
	assert.Equal(t, model.TokenApprove, result.Decision)

	c, err := f.catering.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CateringApproved, c.Status)
	assert.Equal(t, model.PaymentRequested, c.PaymentStatus, "approval by link raises the payment request")
	require.NotNil(t, c.DecidedByID)
	assert.EqualValues(t, 7, *c.DecidedByID)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "pat@example.com", f.sender.sent[0].To)
}

func TestResolvedRejectLinkRejectsCatering(t *testing.T) {
	f := newCateringFixture()
	tokens := newMemTokenStore()
	tokenSvc := NewTokenService(tokens, f.events, zap.NewNop())
	notifier := newTestNotifier(newMemEmailLogStore(), f.sender, nil)
	cateringSvc := NewCateringService(f.events, f.catering, f.users, tokenSvc, notifier, f.recorder, "http://app.local", zap.NewNop())
	tokenSvc.BindDecisions(cateringSvc)

	event := f.seedEventWithCatering(model.CateringAwaitingApproval)
	ctx := context.Background()

	reject, err := tokenSvc.Issue(ctx, event.ID, 7, model.TokenReject, 0)
	require.NoError(t, err)

	_, err = tokenSvc.Resolve(ctx, reject)
	require.NoError(t, err)

	c, err := f.catering.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CateringRejected, c.Status)
	assert.Equal(t, model.PaymentPending, c.PaymentStatus)
	assert.Empty(t, f.sender.sent)
}

func TestResolveUnknownToken(t *testing.T) {
	svc, _, _, applier := newTokenFixture()

	_, err := svc.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, applier.applied)
}

func TestResolveExpiredToken(t *testing.T) {
	svc, tokens, events, applier := newTokenFixture()
	event := events.add("Demo Day")
	ctx := context.Background()

	expired := &model.ActionToken{
		Token:     "expired-token",
		Type:      model.TokenReject,
		EventID:   event.ID,
		UserID:    42,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, tokens.Create(ctx, expired))

	_, err := svc.Resolve(ctx, "expired-token")
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Empty(t, applier.applied)
}

func TestResolveExpiredWinsOverUsed(t *testing.T) {
	svc, tokens, events, _ := newTokenFixture()
	event := events.add("Demo Day")
	ctx := context.Background()

	used := time.Now().Add(-2 * time.Hour)
	stale := &model.ActionToken{
		Token:     "stale-token",
		Type:      model.TokenApprove,
		EventID:   event.ID,
		UserID:    42,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, tokens.Create(ctx, stale))
	_, err := tokens.MarkUsed(ctx, stale.ID, used)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, "stale-token")
	assert.ErrorIs(t, err, ErrTokenExpired, "an expired link reads as expired even after consumption")
}

func TestIssueDefaultsTTL(t *testing.T) {
	svc, tokens, events, _ := newTokenFixture()
	event := events.add("Demo Day")
	ctx := context.Background()

	token, err := svc.Issue(ctx, event.ID, 1, model.TokenRequestChanges, 0)
	require.NoError(t, err)

	stored, err := tokens.FindByToken(ctx, token)
	require.NoError(t, err)
	remaining := time.Until(stored.ExpiresAt)
	assert.Greater(t, remaining, 71*time.Hour)
	assert.LessOrEqual(t, remaining, 72*time.Hour)
}

func TestIssuedTokensAreUnique(t *testing.T) {
	svc, _, events, _ := newTokenFixture()
	event := events.add("Demo Day")
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		token, err := svc.Issue(ctx, event.ID, 1, model.TokenApprove, time.Hour)
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}
