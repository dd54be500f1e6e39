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

type EmailLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewEmailLogRepository(db *pgxpool.Pool, logger *zap.Logger) *EmailLogRepository {
	return &EmailLogRepository{db: db, logger: logger}
}

func (r *EmailLogRepository) Append(ctx context.Context, l *model.EmailLog) error {
	query := `
        INSERT INTO email_logs (to_email, subject, reason, status, event_id, recipient_id, dedupe_key, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id, sent_at
    `
	err := r.db.QueryRow(ctx, query,
		l.ToEmail, l.Subject, l.Reason, l.Status, l.EventID, l.RecipientID, l.DedupeKey,
	).Scan(&l.ID, &l.SentAt)
	if err != nil {
		r.logger.Error("Failed to append email log",
			zap.Error(err),
			zap.String("to", l.ToEmail),
			zap.String("reason", l.Reason),
		)
		return err
	}
	return nil
}

func (r *EmailLogRepository) FindRecentByDedupeKey(ctx context.Context, key string, since time.Time) (*model.EmailLog, error) {
	query := `
        SELECT id, to_email, subject, reason, status, event_id, recipient_id, dedupe_key, sent_at
        FROM email_logs
        WHERE dedupe_key = $1 AND sent_at > $2
        ORDER BY sent_at DESC
        LIMIT 1
    `
	var l model.EmailLog
	err := r.db.QueryRow(ctx, query, key, since).Scan(
		&l.ID, &l.ToEmail, &l.Subject, &l.Reason, &l.Status, &l.EventID, &l.RecipientID, &l.DedupeKey, &l.SentAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByEvent returns the delivery history for one event, newest first.
func (r *EmailLogRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.EmailLog, error) {
	query := `
        SELECT id, to_email, subject, reason, status, event_id, recipient_id, dedupe_key, sent_at
        FROM email_logs
        WHERE event_id = $1
        ORDER BY sent_at DESC
    `
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.EmailLog{}
	for rows.Next() {
		var l model.EmailLog
		if err := rows.Scan(
			&l.ID, &l.ToEmail, &l.Subject, &l.Reason, &l.Status, &l.EventID, &l.RecipientID, &l.DedupeKey, &l.SentAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
