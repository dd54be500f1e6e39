package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/internal/service"
)

type AcademicYearRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAcademicYearRepository(db *pgxpool.Pool, logger *zap.Logger) *AcademicYearRepository {
	return &AcademicYearRepository{db: db, logger: logger}
}

const yearColumns = `id, label, start_month, start_year, end_month, end_year, budget, is_current, created_at`

func scanYear(row pgx.Row) (*model.AcademicYear, error) {
	var y model.AcademicYear
	err := row.Scan(
		&y.ID, &y.Label, &y.StartMonth, &y.StartYear, &y.EndMonth, &y.EndYear,
		&y.Budget, &y.IsCurrent, &y.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &y, nil
}

func (r *AcademicYearRepository) Create(ctx context.Context, y *model.AcademicYear) error {
	query := `
        INSERT INTO academic_years (label, start_month, start_year, end_month, end_year, budget, is_current, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		y.Label, y.StartMonth, y.StartYear, y.EndMonth, y.EndYear, y.Budget, y.IsCurrent,
	).Scan(&y.ID, &y.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert academic year", zap.Error(err), zap.String("label", y.Label))
		return err
	}
	return nil
}

func (r *AcademicYearRepository) FindByID(ctx context.Context, id int64) (*model.AcademicYear, error) {
	query := `SELECT ` + yearColumns + ` FROM academic_years WHERE id = $1`
	return scanYear(r.db.QueryRow(ctx, query, id))
}

func (r *AcademicYearRepository) FindCurrent(ctx context.Context) (*model.AcademicYear, error) {
	query := `SELECT ` + yearColumns + ` FROM academic_years WHERE is_current ORDER BY id LIMIT 1`
	return scanYear(r.db.QueryRow(ctx, query))
}

func (r *AcademicYearRepository) Save(ctx context.Context, y *model.AcademicYear) error {
	query := `
        UPDATE academic_years SET
            label = $2, start_month = $3, start_year = $4, end_month = $5, end_year = $6,
            budget = $7, is_current = $8
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		y.ID, y.Label, y.StartMonth, y.StartYear, y.EndMonth, y.EndYear, y.Budget, y.IsCurrent,
	)
	if err != nil {
		r.logger.Error("Failed to update academic year", zap.Error(err), zap.Int64("year_id", y.ID))
		return err
	}
	return nil
}

func (r *AcademicYearRepository) List(ctx context.Context) ([]model.AcademicYear, error) {
	query := `SELECT ` + yearColumns + ` FROM academic_years ORDER BY start_year DESC, start_month DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := []model.AcademicYear{}
	for rows.Next() {
		var y model.AcademicYear
		if err := rows.Scan(
			&y.ID, &y.Label, &y.StartMonth, &y.StartYear, &y.EndMonth, &y.EndYear,
			&y.Budget, &y.IsCurrent, &y.CreatedAt,
		); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// SwitchCurrent moves the current flag to the given year inside one
// transaction so there is never a window with two current rows.
func (r *AcademicYearRepository) SwitchCurrent(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE academic_years SET is_current = FALSE WHERE is_current`); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `UPDATE academic_years SET is_current = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *AcademicYearRepository) ClearCurrent(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `UPDATE academic_years SET is_current = FALSE WHERE is_current`)
	return err
}
