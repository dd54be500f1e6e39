package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/internal/service"
)

type ExpenseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewExpenseRepository(db *pgxpool.Pool, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{db: db, logger: logger}
}

const expenseColumns = `id, event_id, description, amount, category, vendor, notes, is_paid, paid_date, created_at`

func (r *ExpenseRepository) Create(ctx context.Context, e *model.Expense) error {
	query := `
        INSERT INTO expenses (event_id, description, amount, category, vendor, notes, is_paid, paid_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		e.EventID, e.Description, e.Amount, e.Category, e.Vendor, e.Notes, e.IsPaid, e.PaidDate,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert expense", zap.Error(err), zap.Int64("event_id", e.EventID))
		return err
	}
	return nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id int64) (*model.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	var e model.Expense
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.EventID, &e.Description, &e.Amount, &e.Category,
		&e.Vendor, &e.Notes, &e.IsPaid, &e.PaidDate, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) Save(ctx context.Context, e *model.Expense) error {
	query := `
        UPDATE expenses SET
            description = $2, amount = $3, category = $4, vendor = $5, notes = $6,
            is_paid = $7, paid_date = $8
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		e.ID, e.Description, e.Amount, e.Category, e.Vendor, e.Notes, e.IsPaid, e.PaidDate,
	)
	if err != nil {
		r.logger.Error("Failed to update expense", zap.Error(err), zap.Int64("expense_id", e.ID))
		return err
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE event_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		var e model.Expense
		if err := rows.Scan(
			&e.ID, &e.EventID, &e.Description, &e.Amount, &e.Category,
			&e.Vendor, &e.Notes, &e.IsPaid, &e.PaidDate, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// SumByEvent totals the recorded spend for one event.
func (r *ExpenseRepository) SumByEvent(ctx context.Context, eventID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE event_id = $1`, eventID,
	).Scan(&total)
	return total, err
}
