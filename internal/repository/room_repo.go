package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/internal/service"
)

type RoomRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRoomRepository(db *pgxpool.Pool, logger *zap.Logger) *RoomRepository {
	return &RoomRepository{db: db, logger: logger}
}

const roomColumns = `
	id, event_id, room_name, reservation_url, confirmation_id, notes,
	status, confirmed_at,
	assignee_id, accepted_at, reminder_sent_at,
	created_at, updated_at`

func scanRoom(row pgx.Row) (*model.RoomReservation, error) {
	var rr model.RoomReservation
	err := row.Scan(
		&rr.ID, &rr.EventID, &rr.RoomName, &rr.ReservationURL, &rr.ConfirmationID, &rr.Notes,
		&rr.Status, &rr.ConfirmedAt,
		&rr.AssigneeID, &rr.AcceptedAt, &rr.ReminderSentAt,
		&rr.CreatedAt, &rr.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rr, nil
}

func (r *RoomRepository) Get(ctx context.Context, eventID int64) (*model.RoomReservation, error) {
	query := `SELECT ` + roomColumns + ` FROM room_reservations WHERE event_id = $1`
	return scanRoom(r.db.QueryRow(ctx, query, eventID))
}

func (r *RoomRepository) Create(ctx context.Context, rr *model.RoomReservation) error {
	if rr.Status == "" {
		rr.Status = model.RoomPending
	}
	query := `
        INSERT INTO room_reservations (
            event_id, room_name, reservation_url, confirmation_id, notes,
            status, confirmed_at, assignee_id,
            created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		rr.EventID, rr.RoomName, rr.ReservationURL, rr.ConfirmationID, rr.Notes,
		rr.Status, rr.ConfirmedAt, rr.AssigneeID,
	).Scan(&rr.ID, &rr.CreatedAt, &rr.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert room reservation",
			zap.Error(err),
			zap.Int64("event_id", rr.EventID),
		)
		return err
	}
	return nil
}

func (r *RoomRepository) Save(ctx context.Context, rr *model.RoomReservation) error {
	query := `
        UPDATE room_reservations SET
            room_name = $2, reservation_url = $3, confirmation_id = $4, notes = $5,
            status = $6, confirmed_at = $7,
            assignee_id = $8, accepted_at = $9, reminder_sent_at = $10,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		rr.ID,
		rr.RoomName, rr.ReservationURL, rr.ConfirmationID, rr.Notes,
		rr.Status, rr.ConfirmedAt,
		rr.AssigneeID, rr.AcceptedAt, rr.ReminderSentAt,
	)
	if err != nil {
		r.logger.Error("Failed to update room reservation",
			zap.Error(err),
			zap.Int64("event_id", rr.EventID),
		)
		return err
	}
	return nil
}

func (r *RoomRepository) ListStale(ctx context.Context, cutoff time.Time) ([]model.RoomReservation, error) {
	query := `
        SELECT ` + roomColumns + `
        FROM room_reservations
        WHERE assignee_id IS NOT NULL
        AND accepted_at IS NULL
        AND reminder_sent_at IS NULL
        AND created_at < $1
        AND status NOT IN ($2, $3)
    `
	rows, err := r.db.Query(ctx, query, cutoff, model.RoomConfirmed, model.RoomCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale room tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.RoomReservation{}
	for rows.Next() {
		var rr model.RoomReservation
		if err := rows.Scan(
			&rr.ID, &rr.EventID, &rr.RoomName, &rr.ReservationURL, &rr.ConfirmationID, &rr.Notes,
			&rr.Status, &rr.ConfirmedAt,
			&rr.AssigneeID, &rr.AcceptedAt, &rr.ReminderSentAt,
			&rr.CreatedAt, &rr.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, rr)
	}
	return tasks, rows.Err()
}
