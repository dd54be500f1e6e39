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

type CateringRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCateringRepository(db *pgxpool.Pool, logger *zap.Logger) *CateringRepository {
	return &CateringRepository{db: db, logger: logger}
}

const cateringColumns = `
	id, event_id, status, payment_status,
	vendor, estimated_cost, actual_cost, menu_details, dietary_notes, headcount,
	order_link, invoice_url, invoice_img_url,
	submitted_at, revision_count, change_notes, decided_by_id, decided_at,
	paid_by_id, paid_at, payment_note,
	assignee_id, accepted_at, reminder_sent_at,
	created_at, updated_at`

func scanCatering(row pgx.Row) (*model.CateringApproval, error) {
	var c model.CateringApproval
	err := row.Scan(
		&c.ID, &c.EventID, &c.Status, &c.PaymentStatus,
		&c.Vendor, &c.EstimatedCost, &c.ActualCost, &c.MenuDetails, &c.DietaryNotes, &c.Headcount,
		&c.OrderLink, &c.InvoiceURL, &c.InvoiceImgURL,
		&c.SubmittedAt, &c.RevisionCount, &c.ChangeNotes, &c.DecidedByID, &c.DecidedAt,
		&c.PaidByID, &c.PaidAt, &c.PaymentNote,
		&c.AssigneeID, &c.AcceptedAt, &c.ReminderSentAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CateringRepository) Get(ctx context.Context, eventID int64) (*model.CateringApproval, error) {
	query := `SELECT ` + cateringColumns + ` FROM catering_approvals WHERE event_id = $1`
	return scanCatering(r.db.QueryRow(ctx, query, eventID))
}

func (r *CateringRepository) Create(ctx context.Context, c *model.CateringApproval) error {
	if c.Status == "" {
		c.Status = model.CateringDraft
	}
	if c.PaymentStatus == "" {
		c.PaymentStatus = model.PaymentPending
	}
	query := `
        INSERT INTO catering_approvals (
            event_id, status, payment_status,
            vendor, estimated_cost, actual_cost, menu_details, dietary_notes, headcount,
            order_link, invoice_url, invoice_img_url, assignee_id,
            created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		c.EventID, c.Status, c.PaymentStatus,
		c.Vendor, c.EstimatedCost, c.ActualCost, c.MenuDetails, c.DietaryNotes, c.Headcount,
		c.OrderLink, c.InvoiceURL, c.InvoiceImgURL, c.AssigneeID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert catering approval",
			zap.Error(err),
			zap.Int64("event_id", c.EventID),
		)
		return err
	}
	return nil
}

func (r *CateringRepository) Save(ctx context.Context, c *model.CateringApproval) error {
	query := `
        UPDATE catering_approvals SET
            status = $2, payment_status = $3,
            vendor = $4, estimated_cost = $5, actual_cost = $6,
            menu_details = $7, dietary_notes = $8, headcount = $9,
            order_link = $10, invoice_url = $11, invoice_img_url = $12,
            submitted_at = $13, revision_count = $14, change_notes = $15,
            decided_by_id = $16, decided_at = $17,
            paid_by_id = $18, paid_at = $19, payment_note = $20,
            assignee_id = $21, accepted_at = $22, reminder_sent_at = $23,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.Status, c.PaymentStatus,
		c.Vendor, c.EstimatedCost, c.ActualCost,
		c.MenuDetails, c.DietaryNotes, c.Headcount,
		c.OrderLink, c.InvoiceURL, c.InvoiceImgURL,
		c.SubmittedAt, c.RevisionCount, c.ChangeNotes,
		c.DecidedByID, c.DecidedAt,
		c.PaidByID, c.PaidAt, c.PaymentNote,
		c.AssigneeID, c.AcceptedAt, c.ReminderSentAt,
	)
	if err != nil {
		r.logger.Error("Failed to update catering approval",
			zap.Error(err),
			zap.Int64("event_id", c.EventID),
		)
		return err
	}
	return nil
}

// ListStale selects reminder-eligible records: assigned, unaccepted,
// unreminded, older than the cutoff, approval axis not terminal.
func (r *CateringRepository) ListStale(ctx context.Context, cutoff time.Time) ([]model.CateringApproval, error) {
	query := `
        SELECT ` + cateringColumns + `
        FROM catering_approvals
        WHERE assignee_id IS NOT NULL
        AND accepted_at IS NULL
        AND reminder_sent_at IS NULL
        AND created_at < $1
        AND status NOT IN ($2, $3)
    `
	rows, err := r.db.Query(ctx, query, cutoff, model.CateringApproved, model.CateringRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale catering tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.CateringApproval{}
	for rows.Next() {
		var c model.CateringApproval
		if err := rows.Scan(
			&c.ID, &c.EventID, &c.Status, &c.PaymentStatus,
			&c.Vendor, &c.EstimatedCost, &c.ActualCost, &c.MenuDetails, &c.DietaryNotes, &c.Headcount,
			&c.OrderLink, &c.InvoiceURL, &c.InvoiceImgURL,
			&c.SubmittedAt, &c.RevisionCount, &c.ChangeNotes, &c.DecidedByID, &c.DecidedAt,
			&c.PaidByID, &c.PaidAt, &c.PaymentNote,
			&c.AssigneeID, &c.AcceptedAt, &c.ReminderSentAt,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, c)
	}
	return tasks, rows.Err()
}
