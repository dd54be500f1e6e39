package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/pkg/metrics"
)

// staleAfter is how long an unaccepted assignment may sit before the
// sweep reminds the assignee.
const staleAfter = 7 * 24 * time.Hour

// ReminderService scans the three sub-workflows for stale, unaccepted
// assignments and nudges the assignee. The sweep is stateless and
// idempotent: stamping reminderSentAt gates re-firing, so overlapping
// invocations are safe without a lock.
type ReminderService struct {
	events   EventStore
	users    UserStore
	catering CateringStore
	rooms    RoomStore
	flyers   FlyerStore
	notifier *Notifier
	recorder EventRecorder
	logger   *zap.Logger
}

func NewReminderService(
	events EventStore,
	users UserStore,
	catering CateringStore,
	rooms RoomStore,
	flyers FlyerStore,
	notifier *Notifier,
	recorder EventRecorder,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
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

// Sweep runs one pass over all sub-workflow tasks and returns how many
// reminders were dispatched.
func (s *ReminderService) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-staleAfter)
	sent := 0

	cateringTasks, err := s.catering.ListStale(ctx, cutoff)
	if err != nil {
		return sent, err
	}
	for i := range cateringTasks {
		task := &cateringTasks[i]
		if s.remind(ctx, task.EventID, model.TaskCatering, *task.AssigneeID) {
			now := time.Now()
			task.ReminderSentAt = &now
			if err := s.catering.Save(ctx, task); err != nil {
				s.logger.Error("Failed to stamp catering reminder", zap.Int64("event_id", task.EventID), zap.Error(err))
				continue
			}
			sent++
		}
	}

	roomTasks, err := s.rooms.ListStale(ctx, cutoff)
	if err != nil {
		return sent, err
	}
	for i := range roomTasks {
		task := &roomTasks[i]
		if s.remind(ctx, task.EventID, model.TaskRoom, *task.AssigneeID) {
			now := time.Now()
			task.ReminderSentAt = &now
			if err := s.rooms.Save(ctx, task); err != nil {
				s.logger.Error("Failed to stamp room reminder", zap.Int64("event_id", task.EventID), zap.Error(err))
				continue
			}
			sent++
		}
	}

	flyerTasks, err := s.flyers.ListStale(ctx, cutoff)
	if err != nil {
		return sent, err
	}
	for i := range flyerTasks {
		task := &flyerTasks[i]
		if s.remind(ctx, task.EventID, model.TaskFlyer, *task.AssigneeID) {
			now := time.Now()
			task.ReminderSentAt = &now
			if err := s.flyers.Save(ctx, task); err != nil {
				s.logger.Error("Failed to stamp flyer reminder", zap.Int64("event_id", task.EventID), zap.Error(err))
				continue
			}
			sent++
		}
	}

	s.logger.Info("Reminder sweep completed", zap.Int("reminders_sent", sent))
	return sent, nil
}

func (s *ReminderService) remind(ctx context.Context, eventID int64, taskType string, assigneeID int64) bool {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		s.logger.Error("Failed to load event for reminder",
			zap.Int64("event_id", eventID),
			zap.Error(err),
		)
		return false
	}
	assignee, err := s.users.FindByID(ctx, assigneeID)
	if err != nil {
		s.logger.Error("Failed to load assignee for reminder",
			zap.Int64("assignee_id", assigneeID),
			zap.Error(err),
		)
		return false
	}

	s.notifier.SendTaskReminder(ctx, event, taskType, assignee)
	metrics.RemindersSent.WithLabelValues(taskType).Inc()

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, "task", &eventID, "reminder.sent", map[string]any{
			"event_id":    eventID,
			"task_type":   taskType,
			"assignee_id": assigneeID,
		}); err != nil {
			s.logger.Error("Failed to record reminder event", zap.Error(err))
		}
	}
	return true
}
