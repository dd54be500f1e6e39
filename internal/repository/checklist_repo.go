package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/internal/service"
)

type ChecklistRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChecklistRepository(db *pgxpool.Pool, logger *zap.Logger) *ChecklistRepository {
	return &ChecklistRepository{db: db, logger: logger}
}

// SeedDefaults inserts the standard day-of checklist for a freshly
// created event, in one transaction.
func (r *ChecklistRepository) SeedDefaults(ctx context.Context, eventID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO checklist_items (event_id, label, is_checked, is_custom, sort_order, created_at)
        VALUES ($1, $2, FALSE, FALSE, $3, NOW())
    `
	for i, label := range model.DefaultChecklistItems {
		if _, err := tx.Exec(ctx, query, eventID, label, i); err != nil {
			r.logger.Error("Failed to seed checklist item",
				zap.Error(err),
				zap.Int64("event_id", eventID),
			)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ChecklistRepository) Add(ctx context.Context, item *model.ChecklistItem) error {
	query := `
        INSERT INTO checklist_items (event_id, label, is_checked, is_custom, sort_order, created_at)
        VALUES ($1, $2, $3, TRUE, $4, NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		item.EventID, item.Label, item.IsChecked, item.SortOrder,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert checklist item",
			zap.Error(err),
			zap.Int64("event_id", item.EventID),
		)
		return err
	}
	item.IsCustom = true
	return nil
}

func (r *ChecklistRepository) SetChecked(ctx context.Context, id int64, checked bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE checklist_items SET is_checked = $2 WHERE id = $1`, id, checked,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (r *ChecklistRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM checklist_items WHERE id = $1 AND is_custom`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (r *ChecklistRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.ChecklistItem, error) {
	query := `
        SELECT id, event_id, label, is_checked, is_custom, sort_order, created_at
        FROM checklist_items
        WHERE event_id = $1
        ORDER BY sort_order, id
    `
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.ChecklistItem{}
	for rows.Next() {
		var it model.ChecklistItem
		if err := rows.Scan(
			&it.ID, &it.EventID, &it.Label, &it.IsChecked, &it.IsCustom, &it.SortOrder, &it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
