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

type FlyerRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFlyerRepository(db *pgxpool.Pool, logger *zap.Logger) *FlyerRepository {
	return &FlyerRepository{db: db, logger: logger}
}

const flyerColumns = `
	id, event_id, flyer_url, design_status,
	dist_portal, dist_email, dist_whatsapp, dist_teams, dist_other, notes,
	assignee_id, accepted_at, reminder_sent_at,
	created_at, updated_at`

func scanFlyer(row pgx.Row) (*model.FlyerTask, error) {
	var f model.FlyerTask
	err := row.Scan(
		&f.ID, &f.EventID, &f.FlyerURL, &f.DesignStatus,
		&f.DistPortal, &f.DistEmail, &f.DistWhatsApp, &f.DistTeams, &f.DistOther, &f.Notes,
		&f.AssigneeID, &f.AcceptedAt, &f.ReminderSentAt,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FlyerRepository) Get(ctx context.Context, eventID int64) (*model.FlyerTask, error) {
	query := `SELECT ` + flyerColumns + ` FROM flyer_tasks WHERE event_id = $1`
	return scanFlyer(r.db.QueryRow(ctx, query, eventID))
}

func (r *FlyerRepository) Create(ctx context.Context, f *model.FlyerTask) error {
	if f.DesignStatus == "" {
		f.DesignStatus = model.FlyerNotStarted
	}
	query := `
        INSERT INTO flyer_tasks (
            event_id, flyer_url, design_status,
            dist_portal, dist_email, dist_whatsapp, dist_teams, dist_other, notes,
            assignee_id,
            created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		f.EventID, f.FlyerURL, f.DesignStatus,
		f.DistPortal, f.DistEmail, f.DistWhatsApp, f.DistTeams, f.DistOther, f.Notes,
		f.AssigneeID,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert flyer task",
			zap.Error(err),
			zap.Int64("event_id", f.EventID),
		)
		return err
	}
	return nil
}

func (r *FlyerRepository) Save(ctx context.Context, f *model.FlyerTask) error {
	query := `
        UPDATE flyer_tasks SET
            flyer_url = $2, design_status = $3,
            dist_portal = $4, dist_email = $5, dist_whatsapp = $6, dist_teams = $7, dist_other = $8,
            notes = $9,
            assignee_id = $10, accepted_at = $11, reminder_sent_at = $12,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		f.ID,
		f.FlyerURL, f.DesignStatus,
		f.DistPortal, f.DistEmail, f.DistWhatsApp, f.DistTeams, f.DistOther,
		f.Notes,
		f.AssigneeID, f.AcceptedAt, f.ReminderSentAt,
	)
	if err != nil {
		r.logger.Error("Failed to update flyer task",
			zap.Error(err),
			zap.Int64("event_id", f.EventID),
		)
		return err
	}
	return nil
}

func (r *FlyerRepository) ListStale(ctx context.Context, cutoff time.Time) ([]model.FlyerTask, error) {
	query := `
        SELECT ` + flyerColumns + `
        FROM flyer_tasks
        WHERE assignee_id IS NOT NULL
        AND accepted_at IS NULL
        AND reminder_sent_at IS NULL
        AND created_at < $1
        AND design_status <> $2
    `
	rows, err := r.db.Query(ctx, query, cutoff, model.FlyerDone)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale flyer tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.FlyerTask{}
	for rows.Next() {
		var f model.FlyerTask
		if err := rows.Scan(
			&f.ID, &f.EventID, &f.FlyerURL, &f.DesignStatus,
			&f.DistPortal, &f.DistEmail, &f.DistWhatsApp, &f.DistTeams, &f.DistOther, &f.Notes,
			&f.AssigneeID, &f.AcceptedAt, &f.ReminderSentAt,
			&f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, f)
	}
	return tasks, rows.Err()
}
