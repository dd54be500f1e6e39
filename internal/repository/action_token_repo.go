package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/internal/service"
)

type ActionTokenRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewActionTokenRepository(db *pgxpool.Pool, logger *zap.Logger) *ActionTokenRepository {
	return &ActionTokenRepository{db: db, logger: logger}
}

func (r *ActionTokenRepository) Create(ctx context.Context, t *model.ActionToken) error {
	query := `
        INSERT INTO action_tokens (token, type, event_id, user_id, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Token, t.Type, t.EventID, t.UserID, t.ExpiresAt,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert action token",
			zap.Error(err),
			zap.Int64("event_id", t.EventID),
			zap.String("type", t.Type),
		)
		return err
	}
	return nil
}

func (r *ActionTokenRepository) FindByToken(ctx context.Context, token string) (*model.ActionToken, error) {
	query := `
        SELECT id, token, type, event_id, user_id, expires_at, used_at, created_at
        FROM action_tokens
        WHERE token = $1
    `
	var t model.ActionToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&t.ID, &t.Token, &t.Type, &t.EventID, &t.UserID, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkUsed is a compare-and-set: the WHERE clause only matches an
// unconsumed token, so concurrent resolutions race on the database row
// and exactly one wins.
func (r *ActionTokenRepository) MarkUsed(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `UPDATE action_tokens SET used_at = $2 WHERE id = $1 AND used_at IS NULL`
	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.logger.Error("Failed to mark action token used",
			zap.Error(err),
			zap.Int64("token_id", id),
		)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
