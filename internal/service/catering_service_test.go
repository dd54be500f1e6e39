package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/pkg/rbac"
)

type cateringFixture struct {
	events   *memEventStore
	catering *memCateringStore
	users    *memUserStore
	sender   *fakeSender
	recorder *memRecorder
	svc      *CateringService
}

func newCateringFixture() *cateringFixture {
	f := &cateringFixture{
		events:   newMemEventStore(),
		catering: newMemCateringStore(),
		users:    newMemUserStore(),
		sender:   &fakeSender{},
		recorder: &memRecorder{},
	}
	notifier := newTestNotifier(newMemEmailLogStore(), f.sender, nil)
	f.svc = NewCateringService(f.events, f.catering, f.users, &fakeIssuer{}, notifier, f.recorder, "http://app.local", zap.NewNop())
	return f
}

func (f *cateringFixture) seedEventWithCatering(status string) *model.Event {
	event := f.events.add("Spring Mixer")
	_ = f.catering.Create(context.Background(), &model.CateringApproval{
		EventID:       event.ID,
		Status:        status,
		PaymentStatus: model.PaymentPending,
	})
	return event
}

func TestSubmitMovesToAwaitingApproval(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringDraft)
	f.users.add("Fran Finance", "fran@example.com", rbac.RoleFinance)
	actor := Actor{ID: 9, Role: rbac.RoleMember}

	require.NoError(t, f.svc.Submit(context.Background(), actor, event.ID))

	c, err := f.catering.Get(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CateringAwaitingApproval, c.Status)
	assert.NotNil(t, c.SubmittedAt)
	assert.Equal(t, 0, c.RevisionCount, "first submission is revision zero")
}

func TestSubmitNotifiesEveryApproverWithDecisionLinks(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringDraft)
	f.users.add("Fran Finance", "fran@example.com", rbac.RoleFinance)
	f.users.add("Felix Finance", "felix@example.com", rbac.RoleFinance)
	f.users.add("Ada Admin", "ada@example.com", rbac.RoleAdmin)
	f.users.add("Mia Member", "mia@example.com", rbac.RoleMember)

	require.NoError(t, f.svc.Submit(context.Background(), Actor{ID: 1, Role: rbac.RoleFinance}, event.ID))

	require.Len(t, f.sender.sent, 3, "everyone who can decide gets an approval request")
	for _, m := range f.sender.sent {
		assert.Contains(t, m.Body, "/api/actions?token=")
	}
}

func TestResubmissionFromChangesRequestedBumpsRevision(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringChangesRequested)
	ctx := context.Background()

	require.NoError(t, f.svc.Submit(ctx, Actor{ID: 1, Role: rbac.RoleMember}, event.ID))
	c, _ := f.catering.Get(ctx, event.ID)
	assert.Equal(t, 1, c.RevisionCount)

	// Submitting again without an intervening CHANGES_REQUESTED decision
	// must not bump the count a second time.
	require.NoError(t, f.svc.Submit(ctx, Actor{ID: 1, Role: rbac.RoleMember}, event.ID))
	c, _ = f.catering.Get(ctx, event.ID)
	assert.Equal(t, 1, c.RevisionCount)
}

func TestDecideRequiresApprovalCapability(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringAwaitingApproval)

	err := f.svc.Decide(context.Background(), Actor{ID: 3, Role: rbac.RoleMember}, event.ID, model.CateringApproved, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.svc.Decide(context.Background(), Actor{ID: 3, Role: rbac.RoleLead}, event.ID, model.CateringApproved, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApproveRaisesPaymentRequest(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringAwaitingApproval)
	f.users.add("Pat Payments", "pat@example.com", rbac.RolePaymentAdmin)
	ctx := context.Background()

	require.NoError(t, f.svc.Decide(ctx, Actor{ID: 7, Role: rbac.RoleFinance}, event.ID, model.CateringApproved, ""))

	c, _ := f.catering.Get(ctx, event.ID)
	assert.Equal(t, model.CateringApproved, c.Status)
	assert.Equal(t, model.PaymentRequested, c.PaymentStatus, "approval auto-raises the payment request")
	require.NotNil(t, c.DecidedByID)
	assert.EqualValues(t, 7, *c.DecidedByID)
	assert.NotNil(t, c.DecidedAt)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "pat@example.com", f.sender.sent[0].To)
}

func TestApproveDoesNotRegressSettledPayment(t *testing.T) {
	f := newCateringFixture()
	event := f.events.add("Alumni Night")
	ctx := context.Background()
	_ = f.catering.Create(ctx, &model.CateringApproval{
		EventID:       event.ID,
		Status:        model.CateringAwaitingApproval,
		PaymentStatus: model.PaymentPaid,
	})

	require.NoError(t, f.svc.Decide(ctx, Actor{ID: 7, Role: rbac.RoleAdmin}, event.ID, model.CateringApproved, ""))

	c, _ := f.catering.Get(ctx, event.ID)
	assert.Equal(t, model.PaymentPaid, c.PaymentStatus, "only PENDING may move to REQUESTED")
}

func TestRejectLeavesPaymentPending(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringAwaitingApproval)
	ctx := context.Background()

	require.NoError(t, f.svc.Decide(ctx, Actor{ID: 7, Role: rbac.RoleFinance}, event.ID, model.CateringRejected, ""))

	c, _ := f.catering.Get(ctx, event.ID)
	assert.Equal(t, model.CateringRejected, c.Status)
	assert.Equal(t, model.PaymentPending, c.PaymentStatus)
	assert.Empty(t, f.sender.sent)
}

func TestChangesRequestedKeepsNotes(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringAwaitingApproval)
	ctx := context.Background()

	require.NoError(t, f.svc.Decide(ctx, Actor{ID: 7, Role: rbac.RoleFinance}, event.ID, model.CateringChangesRequested, "need a cheaper vendor"))
	c, _ := f.catering.Get(ctx, event.ID)
	require.NotNil(t, c.ChangeNotes)
	assert.Equal(t, "need a cheaper vendor", *c.ChangeNotes)

	// A later approval clears the stale notes.
	require.NoError(t, f.svc.Decide(ctx, Actor{ID: 7, Role: rbac.RoleFinance}, event.ID, model.CateringApproved, ""))
	c, _ = f.catering.Get(ctx, event.ID)
	assert.Nil(t, c.ChangeNotes)
}

func TestDecideRejectsUnknownDecision(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringAwaitingApproval)

	err := f.svc.Decide(context.Background(), Actor{ID: 7, Role: rbac.RoleFinance}, event.ID, "MAYBE", "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTokenDecisionBypassesRoleCheck(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringAwaitingApproval)
	ctx := context.Background()

	// The token was minted for an approver at issue time; resolution
	// applies the decision without re-checking the role.
	require.NoError(t, f.svc.ApplyTokenDecision(ctx, 42, event.ID, model.TokenApprove))

	c, _ := f.catering.Get(ctx, event.ID)
	assert.Equal(t, model.CateringApproved, c.Status)
	assert.Equal(t, model.PaymentRequested, c.PaymentStatus)
	require.NotNil(t, c.DecidedByID)
	assert.EqualValues(t, 42, *c.DecidedByID)
}

func TestTokenDecisionRejectsUnknownKind(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringAwaitingApproval)

	err := f.svc.ApplyTokenDecision(context.Background(), 42, event.ID, "APPROVED")
	assert.ErrorIs(t, err, ErrInvalidState, "statuses are not token kinds")

	c, _ := f.catering.Get(context.Background(), event.ID)
	assert.Equal(t, model.CateringAwaitingApproval, c.Status)
}

func TestRequestPaymentRequiresApprovedStatus(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringAwaitingApproval)

	err := f.svc.RequestPayment(context.Background(), Actor{ID: 1, Role: rbac.RoleMember}, event.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMarkPaidSettlesPaymentAxis(t *testing.T) {
	f := newCateringFixture()
	event := f.events.add("Guest Lecture")
	ctx := context.Background()
	_ = f.catering.Create(ctx, &model.CateringApproval{
		EventID:       event.ID,
		Status:        model.CateringApproved,
		PaymentStatus: model.PaymentRequested,
	})

	require.NoError(t, f.svc.MarkPaid(ctx, Actor{ID: 5, Role: rbac.RolePaymentAdmin}, event.ID, ""))

	c, _ := f.catering.Get(ctx, event.ID)
	assert.Equal(t, model.PaymentPaid, c.PaymentStatus)
	require.NotNil(t, c.PaymentNote)
	assert.Equal(t, "Done", *c.PaymentNote, "empty note defaults")
	require.NotNil(t, c.PaidByID)
	assert.EqualValues(t, 5, *c.PaidByID)
	assert.NotNil(t, c.PaidAt)
}

func TestMarkPaidRequiresCapabilityAndApproval(t *testing.T) {
	f := newCateringFixture()
	event := f.seedEventWithCatering(model.CateringAwaitingApproval)
	ctx := context.Background()

	err := f.svc.MarkPaid(ctx, Actor{ID: 5, Role: rbac.RoleMember}, event.ID, "paid")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.svc.MarkPaid(ctx, Actor{ID: 5, Role: rbac.RoleFinance}, event.ID, "paid")
	assert.ErrorIs(t, err, ErrInvalidState, "cannot settle an unapproved order")
}

func TestUpdateDetailsPatchesOnlyProvidedFields(t *testing.T) {
	f := newCateringFixture()
	event := f.events.add("Hack Night")
	ctx := context.Background()
	vendor := "Old Vendor"
	cost := 150.0
	_ = f.catering.Create(ctx, &model.CateringApproval{
		EventID:       event.ID,
		Status:        model.CateringDraft,
		PaymentStatus: model.PaymentPending,
		Vendor:        &vendor,
		EstimatedCost: &cost,
	})

	newVendor := "Taco Cart"
	require.NoError(t, f.svc.UpdateDetails(ctx, Actor{ID: 1, Role: rbac.RoleMember}, event.ID, UpdateCateringParams{
		Vendor: &newVendor,
	}))

	c, _ := f.catering.Get(ctx, event.ID)
	assert.Equal(t, "Taco Cart", *c.Vendor)
	require.NotNil(t, c.EstimatedCost)
	assert.Equal(t, 150.0, *c.EstimatedCost, "nil params leave stored values alone")
}
