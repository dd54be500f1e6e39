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

type taskFixture struct {
	events   *memEventStore
	users    *memUserStore
	catering *memCateringStore
	rooms    *memRoomStore
	flyers   *memFlyerStore
	sender   *fakeSender
	svc      *TaskService
}

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		events:   newMemEventStore(),
		users:    newMemUserStore(),
		catering: newMemCateringStore(),
		rooms:    newMemRoomStore(),
		flyers:   newMemFlyerStore(),
		sender:   &fakeSender{},
	}
	notifier := newTestNotifier(newMemEmailLogStore(), f.sender, nil)
	f.svc = NewTaskService(f.events, f.users, f.catering, f.rooms, f.flyers, notifier, &memRecorder{}, zap.NewNop())
	return f
}

func TestAssignCreatesRecordAndNotifies(t *testing.T) {
	f := newTaskFixture()
	event := f.events.add("Career Fair")
	lead := f.users.add("Lee Lead", "lee@example.com", rbac.RoleLead)
	admin := Actor{ID: 99, Role: rbac.RoleAdmin}

	require.NoError(t, f.svc.Assign(context.Background(), admin, event.ID, model.TaskRoom, lead.ID))

	room, err := f.rooms.Get(context.Background(), event.ID)
	require.NoError(t, err)
	require.NotNil(t, room.AssigneeID)
	assert.Equal(t, lead.ID, *room.AssigneeID)
	assert.Equal(t, model.RoomPending, room.Status)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "lee@example.com", f.sender.sent[0].To)
}

func TestAssignRejectsNonLeadAssignee(t *testing.T) {
	f := newTaskFixture()
	event := f.events.add("Career Fair")
	member := f.users.add("Mia Member", "mia@example.com", rbac.RoleMember)

	err := f.svc.Assign(context.Background(), Actor{ID: 1, Role: rbac.RoleAdmin}, event.ID, model.TaskFlyer, member.ID)
	assert.ErrorIs(t, err, ErrInvalidAssignee)
}

func TestAssignRejectsUnknownTaskType(t *testing.T) {
	f := newTaskFixture()
	event := f.events.add("Career Fair")
	lead := f.users.add("Lee Lead", "lee@example.com", rbac.RoleLead)

	err := f.svc.Assign(context.Background(), Actor{ID: 1, Role: rbac.RoleAdmin}, event.ID, "banquet", lead.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReassignmentRestartsAcceptanceClock(t *testing.T) {
	f := newTaskFixture()
	event := f.events.add("Career Fair")
	first := f.users.add("First Lead", "first@example.com", rbac.RoleLead)
	second := f.users.add("Second Lead", "second@example.com", rbac.RoleLead)
	ctx := context.Background()
	admin := Actor{ID: 99, Role: rbac.RoleAdmin}

	require.NoError(t, f.svc.Assign(ctx, admin, event.ID, model.TaskCatering, first.ID))
	require.NoError(t, f.svc.Accept(ctx, Actor{ID: first.ID, Role: rbac.RoleLead}, event.ID, model.TaskCatering))

	c, _ := f.catering.Get(ctx, event.ID)
	require.NotNil(t, c.AcceptedAt)

	// Hand the task to someone else: the previous acceptance must not
	// carry over.
	require.NoError(t, f.svc.Assign(ctx, admin, event.ID, model.TaskCatering, second.ID))

	c, _ = f.catering.Get(ctx, event.ID)
	assert.Equal(t, second.ID, *c.AssigneeID)
	assert.Nil(t, c.AcceptedAt)
	assert.Nil(t, c.ReminderSentAt)
}

func TestAcceptOnlyByCurrentAssignee(t *testing.T) {
	f := newTaskFixture()
	event := f.events.add("Career Fair")
	lead := f.users.add("Lee Lead", "lee@example.com", rbac.RoleLead)
	ctx := context.Background()

	require.NoError(t, f.svc.Assign(ctx, Actor{ID: 1, Role: rbac.RoleAdmin}, event.ID, model.TaskFlyer, lead.ID))

	err := f.svc.Accept(ctx, Actor{ID: 777, Role: rbac.RoleLead}, event.ID, model.TaskFlyer)
	assert.ErrorIs(t, err, ErrUnauthorized)

	fl, _ := f.flyers.Get(ctx, event.ID)
	assert.Nil(t, fl.AcceptedAt)
}

func TestAcceptRoomAdvancesStatus(t *testing.T) {
	f := newTaskFixture()
	event := f.events.add("Career Fair")
	lead := f.users.add("Lee Lead", "lee@example.com", rbac.RoleLead)
	ctx := context.Background()

	require.NoError(t, f.svc.Assign(ctx, Actor{ID: 1, Role: rbac.RoleAdmin}, event.ID, model.TaskRoom, lead.ID))
	require.NoError(t, f.svc.Accept(ctx, Actor{ID: lead.ID, Role: rbac.RoleLead}, event.ID, model.TaskRoom))

	room, _ := f.rooms.Get(ctx, event.ID)
	assert.NotNil(t, room.AcceptedAt)
	assert.Equal(t, model.RoomAccepted, room.Status, "room acceptance also advances its workflow")
}

func TestUpdateRoomStampsConfirmedAtOnce(t *testing.T) {
	f := newTaskFixture()
	event := f.events.add("Career Fair")
	ctx := context.Background()
	actor := Actor{ID: 1, Role: rbac.RoleMember}
	name := "Auditorium B"

	require.NoError(t, f.svc.UpdateRoom(ctx, actor, event.ID, UpdateRoomParams{
		RoomName: &name,
		Status:   model.RoomConfirmed,
	}))
	room, _ := f.rooms.Get(ctx, event.ID)
	require.NotNil(t, room.ConfirmedAt)
	stamped := *room.ConfirmedAt

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, f.svc.UpdateRoom(ctx, actor, event.ID, UpdateRoomParams{
		RoomName: &name,
		Status:   model.RoomConfirmed,
	}))
	room, _ = f.rooms.Get(ctx, event.ID)
	assert.True(t, room.ConfirmedAt.Equal(stamped), "confirmedAt must not move on repeat confirmation")
}

func TestUpdateRoomPreservesAssignment(t *testing.T) {
	f := newTaskFixture()
	event := f.events.add("Career Fair")
	lead := f.users.add("Lee Lead", "lee@example.com", rbac.RoleLead)
	ctx := context.Background()

	require.NoError(t, f.svc.Assign(ctx, Actor{ID: 1, Role: rbac.RoleAdmin}, event.ID, model.TaskRoom, lead.ID))
	require.NoError(t, f.svc.Accept(ctx, Actor{ID: lead.ID, Role: rbac.RoleLead}, event.ID, model.TaskRoom))

	name := "Room 101"
	require.NoError(t, f.svc.UpdateRoom(ctx, Actor{ID: 1, Role: rbac.RoleMember}, event.ID, UpdateRoomParams{
		RoomName: &name,
		Status:   model.RoomAccepted,
	}))

	room, _ := f.rooms.Get(ctx, event.ID)
	require.NotNil(t, room.AssigneeID)
	assert.Equal(t, lead.ID, *room.AssigneeID)
	assert.NotNil(t, room.AcceptedAt, "detail edits must not reset acceptance")
}

func TestUpdateFlyerUpserts(t *testing.T) {
	f := newTaskFixture()
	event := f.events.add("Career Fair")
	ctx := context.Background()
	url := "https://cdn.example.com/flyer.png"

	require.NoError(t, f.svc.UpdateFlyer(ctx, Actor{ID: 1, Role: rbac.RoleMember}, event.ID, UpdateFlyerParams{
		FlyerURL:     &url,
		DesignStatus: model.FlyerInProgress,
		DistPortal:   true,
		DistEmail:    true,
	}))

	fl, err := f.flyers.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FlyerInProgress, fl.DesignStatus)
	assert.True(t, fl.DistPortal)
	assert.True(t, fl.DistEmail)
	assert.False(t, fl.DistTeams)
}
