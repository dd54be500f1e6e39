package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/pkg/rbac"
)

// TaskService implements the assignment/acceptance protocol shared by
// the three sub-workflows, plus the room and flyer upserts.
type TaskService struct {
	events   EventStore
	users    UserStore
	catering CateringStore
	rooms    RoomStore
	flyers   FlyerStore
	notifier *Notifier
	recorder EventRecorder
	logger   *zap.Logger
}

func NewTaskService(
	events EventStore,
	users UserStore,
	catering CateringStore,
	rooms RoomStore,
	flyers FlyerStore,
	notifier *Notifier,
	recorder EventRecorder,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		events:   events,
		users:    users,
		catering: catering,
		rooms:    rooms,
		flyers:   flyers,
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
	}
}

// Assign hands a sub-workflow to a lead. Assignment always restarts the
// acceptance clock: acceptedAt and reminderSentAt are cleared even when
// the previous assignee had already accepted.
func (s *TaskService) Assign(ctx context.Context, actor Actor, eventID int64, taskType string, assigneeID int64) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !model.ValidTaskType(taskType) {
		return fmt.Errorf("%w: unknown task type %q", ErrInvalidState, taskType)
	}

	assignee, err := s.users.FindByID(ctx, assigneeID)
	if err != nil {
		return err
	}
	if !rbac.HasCapability(assignee.Role, rbac.CapAssignable) {
		return ErrInvalidAssignee
	}

	switch taskType {
	case model.TaskCatering:
		err = s.assignCatering(ctx, eventID, assigneeID)
	case model.TaskRoom:
		err = s.assignRoom(ctx, eventID, assigneeID)
	case model.TaskFlyer:
		err = s.assignFlyer(ctx, eventID, assigneeID)
	}
	if err != nil {
		return err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}

	s.notifier.SendTaskAssignment(ctx, event, taskType, assignee)
	s.record(ctx, eventID, "task.assigned", map[string]any{
		"event_id":    eventID,
		"task_type":   taskType,
		"assignee_id": assigneeID,
	})

	s.logger.Info("Task assigned",
		zap.Int64("event_id", eventID),
		zap.String("task_type", taskType),
		zap.Int64("assignee_id", assigneeID),
	)
	return nil
}

func (s *TaskService) assignCatering(ctx context.Context, eventID, assigneeID int64) error {
	existing, err := s.catering.Get(ctx, eventID)
	if errors.Is(err, ErrNotFound) {
		return s.catering.Create(ctx, &model.CateringApproval{
			EventID:       eventID,
			Status:        model.CateringDraft,
			PaymentStatus: model.PaymentPending,
			AssigneeID:    &assigneeID,
		})
	}
	if err != nil {
		return err
	}
	existing.AssigneeID = &assigneeID
	existing.AcceptedAt = nil
	existing.ReminderSentAt = nil
	return s.catering.Save(ctx, existing)
}

func (s *TaskService) assignRoom(ctx context.Context, eventID, assigneeID int64) error {
	existing, err := s.rooms.Get(ctx, eventID)
	if errors.Is(err, ErrNotFound) {
		return s.rooms.Create(ctx, &model.RoomReservation{
			EventID:    eventID,
			Status:     model.RoomPending,
			AssigneeID: &assigneeID,
		})
	}
	if err != nil {
		return err
	}
	existing.AssigneeID = &assigneeID
	existing.AcceptedAt = nil
	existing.ReminderSentAt = nil
	return s.rooms.Save(ctx, existing)
}

func (s *TaskService) assignFlyer(ctx context.Context, eventID, assigneeID int64) error {
	existing, err := s.flyers.Get(ctx, eventID)
	if errors.Is(err, ErrNotFound) {
		return s.flyers.Create(ctx, &model.FlyerTask{
			EventID:      eventID,
			DesignStatus: model.FlyerNotStarted,
			AssigneeID:   &assigneeID,
		})
	}
	if err != nil {
		return err
	}
	existing.AssigneeID = &assigneeID
	existing.AcceptedAt = nil
	existing.ReminderSentAt = nil
	return s.flyers.Save(ctx, existing)
}

// Accept records explicit acceptance. Only the current assignee may
// accept; accepting a room also advances it to ACCEPTED.
func (s *TaskService) Accept(ctx context.Context, actor Actor, eventID int64, taskType string) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !model.ValidTaskType(taskType) {
		return fmt.Errorf("%w: unknown task type %q", ErrInvalidState, taskType)
	}

	now := time.Now()

	switch taskType {
	case model.TaskCatering:
		c, err := s.catering.Get(ctx, eventID)
		if err != nil {
			return err
		}
		if c.AssigneeID == nil || *c.AssigneeID != actor.ID {
			return ErrUnauthorized
		}
		c.AcceptedAt = &now
		return s.catering.Save(ctx, c)
	case model.TaskRoom:
		r, err := s.rooms.Get(ctx, eventID)
		if err != nil {
			return err
		}
		if r.AssigneeID == nil || *r.AssigneeID != actor.ID {
			return ErrUnauthorized
		}
		r.AcceptedAt = &now
		r.Status = model.RoomAccepted
		return s.rooms.Save(ctx, r)
	case model.TaskFlyer:
		f, err := s.flyers.Get(ctx, eventID)
		if err != nil {
			return err
		}
		if f.AssigneeID == nil || *f.AssigneeID != actor.ID {
			return ErrUnauthorized
		}
		f.AcceptedAt = &now
		return s.flyers.Save(ctx, f)
	}
	return nil
}

// UpdateRoomParams mirrors the room form. Status defaults to PENDING on
// create; nil detail pointers clear nothing on update.
type UpdateRoomParams struct {
	RoomName       *string
	ReservationURL *string
	ConfirmationID *string
	Notes          *string
	Status         string
}

// UpdateRoom upserts the room reservation. Updating preserves identity
// and assignment history; a transition to CONFIRMED stamps confirmedAt
// once.
func (s *TaskService) UpdateRoom(ctx context.Context, actor Actor, eventID int64, params UpdateRoomParams) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if params.Status == "" {
		params.Status = model.RoomPending
	}

	room, err := s.rooms.Get(ctx, eventID)
	if errors.Is(err, ErrNotFound) {
		room = &model.RoomReservation{
			EventID: eventID,
			Status:  model.RoomPending,
		}
		if err := s.rooms.Create(ctx, room); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	room.RoomName = params.RoomName
	room.ReservationURL = params.ReservationURL
	room.ConfirmationID = params.ConfirmationID
	room.Notes = params.Notes
	room.Status = params.Status
	if params.Status == model.RoomConfirmed && room.ConfirmedAt == nil {
		now := time.Now()
		room.ConfirmedAt = &now
	}

	return s.rooms.Save(ctx, room)
}

type UpdateFlyerParams struct {
	FlyerURL     *string
	DesignStatus string
	DistPortal   bool
	DistEmail    bool
	DistWhatsApp bool
	DistTeams    bool
	DistOther    *string
	Notes        *string
}

// UpdateFlyer upserts the flyer task, preserving assignment history.
func (s *TaskService) UpdateFlyer(ctx context.Context, actor Actor, eventID int64, params UpdateFlyerParams) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if params.DesignStatus == "" {
		params.DesignStatus = model.FlyerNotStarted
	}

	flyer, err := s.flyers.Get(ctx, eventID)
	if errors.Is(err, ErrNotFound) {
		flyer = &model.FlyerTask{
			EventID:      eventID,
			DesignStatus: model.FlyerNotStarted,
		}
		if err := s.flyers.Create(ctx, flyer); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	flyer.FlyerURL = params.FlyerURL
	flyer.DesignStatus = params.DesignStatus
	flyer.DistPortal = params.DistPortal
	flyer.DistEmail = params.DistEmail
	flyer.DistWhatsApp = params.DistWhatsApp
	flyer.DistTeams = params.DistTeams
	flyer.DistOther = params.DistOther
	flyer.Notes = params.Notes

	return s.flyers.Save(ctx, flyer)
}

func (s *TaskService) record(ctx context.Context, eventID int64, routingKey string, payload any) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, "task", &eventID, routingKey, payload); err != nil {
		s.logger.Error("Failed to record domain event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
