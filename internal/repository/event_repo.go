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

type EventRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewEventRepository(db *pgxpool.Pool, logger *zap.Logger) *EventRepository {
	return &EventRepository{db: db, logger: logger}
}

const eventColumns = `
	id, title, description, date, time, location, semester, tags,
	is_on_campus, is_virtual, is_hybrid, virtual_link,
	speaker_name, speaker_email, speaker_phone, speaker_org,
	poc_name, poc_email, poc_phone,
	status, budget_amount,
	headcount, do_again, reinvite_speaker, retrospective_notes,
	created_by_id, academic_year_id,
	created_at, updated_at, deleted_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location, &e.Semester, &e.Tags,
		&e.IsOnCampus, &e.IsVirtual, &e.IsHybrid, &e.VirtualLink,
		&e.SpeakerName, &e.SpeakerEmail, &e.SpeakerPhone, &e.SpeakerOrg,
		&e.POCName, &e.POCEmail, &e.POCPhone,
		&e.Status, &e.BudgetAmount,
		&e.Headcount, &e.DoAgain, &e.ReinviteSpeaker, &e.RetrospectiveNotes,
		&e.CreatedByID, &e.AcademicYearID,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	r.logger.Debug("Inserting event", zap.String("title", e.Title))
	query := `
        INSERT INTO events (
            title, description, date, time, location, semester, tags,
            is_on_campus, is_virtual, is_hybrid, virtual_link,
            speaker_name, speaker_email, speaker_phone, speaker_org,
            poc_name, poc_email, poc_phone,
            status, budget_amount, created_by_id, academic_year_id,
            created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
                $15, $16, $17, $18, $19, $20, $21, $22, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		e.Title, e.Description, e.Date, e.Time, e.Location, e.Semester, e.Tags,
		e.IsOnCampus, e.IsVirtual, e.IsHybrid, e.VirtualLink,
		e.SpeakerName, e.SpeakerEmail, e.SpeakerPhone, e.SpeakerOrg,
		e.POCName, e.POCEmail, e.POCPhone,
		e.Status, e.BudgetAmount, e.CreatedByID, e.AcademicYearID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert event", zap.Error(err), zap.String("title", e.Title))
		return err
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND deleted_at IS NULL`
	return scanEvent(r.db.QueryRow(ctx, query, id))
}

func (r *EventRepository) Save(ctx context.Context, e *model.Event) error {
	query := `
        UPDATE events SET
            title = $2, description = $3, date = $4, time = $5, location = $6,
            semester = $7, tags = $8,
            is_on_campus = $9, is_virtual = $10, is_hybrid = $11, virtual_link = $12,
            speaker_name = $13, speaker_email = $14, speaker_phone = $15, speaker_org = $16,
            poc_name = $17, poc_email = $18, poc_phone = $19,
            status = $20, budget_amount = $21,
            headcount = $22, do_again = $23, reinvite_speaker = $24, retrospective_notes = $25,
            academic_year_id = $26,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		e.ID,
		e.Title, e.Description, e.Date, e.Time, e.Location, e.Semester, e.Tags,
		e.IsOnCampus, e.IsVirtual, e.IsHybrid, e.VirtualLink,
		e.SpeakerName, e.SpeakerEmail, e.SpeakerPhone, e.SpeakerOrg,
		e.POCName, e.POCEmail, e.POCPhone,
		e.Status, e.BudgetAmount,
		e.Headcount, e.DoAgain, e.ReinviteSpeaker, e.RetrospectiveNotes,
		e.AcademicYearID,
	)
	if err != nil {
		r.logger.Error("Failed to update event", zap.Error(err), zap.Int64("event_id", e.ID))
		return err
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE deleted_at IS NULL ORDER BY date DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location, &e.Semester, &e.Tags,
			&e.IsOnCampus, &e.IsVirtual, &e.IsHybrid, &e.VirtualLink,
			&e.SpeakerName, &e.SpeakerEmail, &e.SpeakerPhone, &e.SpeakerOrg,
			&e.POCName, &e.POCEmail, &e.POCPhone,
			&e.Status, &e.BudgetAmount,
			&e.Headcount, &e.DoAgain, &e.ReinviteSpeaker, &e.RetrospectiveNotes,
			&e.CreatedByID, &e.AcademicYearID,
			&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SoftDelete stamps deleted_at; the row is never physically removed.
func (r *EventRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE events SET deleted_at = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.logger.Error("Failed to soft-delete event", zap.Error(err), zap.Int64("event_id", id))
	}
	return err
}
