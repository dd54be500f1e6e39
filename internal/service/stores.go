package service

import (
	"context"
	"time"

	"eventhub/internal/model"
)

// Store contracts implemented by the pgx repositories. Services depend
// on these rather than the concrete repositories so the state-machine
// logic is testable against in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListByRoles(ctx context.Context, roles ...string) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	FindByID(ctx context.Context, id int64) (*model.Event, error)
	Save(ctx context.Context, e *model.Event) error
	List(ctx context.Context) ([]model.Event, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

type CateringStore interface {
	Get(ctx context.Context, eventID int64) (*model.CateringApproval, error)
	Create(ctx context.Context, c *model.CateringApproval) error
	Save(ctx context.Context, c *model.CateringApproval) error
	// ListStale returns records eligible for an acceptance reminder:
	// assignee set, unaccepted, unreminded, created before the cutoff,
	// approval axis not terminal.
	ListStale(ctx context.Context, cutoff time.Time) ([]model.CateringApproval, error)
}

type RoomStore interface {
	Get(ctx context.Context, eventID int64) (*model.RoomReservation, error)
	Create(ctx context.Context, r *model.RoomReservation) error
	Save(ctx context.Context, r *model.RoomReservation) error
	ListStale(ctx context.Context, cutoff time.Time) ([]model.RoomReservation, error)
}

type FlyerStore interface {
	Get(ctx context.Context, eventID int64) (*model.FlyerTask, error)
	Create(ctx context.Context, f *model.FlyerTask) error
	Save(ctx context.Context, f *model.FlyerTask) error
	ListStale(ctx context.Context, cutoff time.Time) ([]model.FlyerTask, error)
}

type TokenStore interface {
	Create(ctx context.Context, t *model.ActionToken) error
	FindByToken(ctx context.Context, token string) (*model.ActionToken, error)
	// MarkUsed stamps usedAt if and only if it is still null. Returns
	// false when another resolution already consumed the token.
	MarkUsed(ctx context.Context, id int64, at time.Time) (bool, error)
}

type EmailLogStore interface {
	Append(ctx context.Context, l *model.EmailLog) error
	// FindRecentByDedupeKey returns the most recent log entry with the
	// given dedupe key sent after since, or ErrNotFound.
	FindRecentByDedupeKey(ctx context.Context, key string, since time.Time) (*model.EmailLog, error)
}

type YearStore interface {
	Create(ctx context.Context, y *model.AcademicYear) error
	FindByID(ctx context.Context, id int64) (*model.AcademicYear, error)
	FindCurrent(ctx context.Context) (*model.AcademicYear, error)
	Save(ctx context.Context, y *model.AcademicYear) error
	List(ctx context.Context) ([]model.AcademicYear, error)
	// SwitchCurrent clears every isCurrent flag and sets the given row,
	// in one transaction.
	SwitchCurrent(ctx context.Context, id int64) error
	ClearCurrent(ctx context.Context) error
}

type ChecklistStore interface {
	SeedDefaults(ctx context.Context, eventID int64) error
}

// EventRecorder appends domain events for asynchronous publication.
// Implemented by the outbox repository.
type EventRecorder interface {
	Record(ctx context.Context, aggregateType string, aggregateID *int64, routingKey string, payload any) error
}
