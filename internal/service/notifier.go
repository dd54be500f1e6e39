package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/pkg/metrics"
)

// dedupeWindow is the trailing window within which a repeated dedupe key
// suppresses delivery.
const dedupeWindow = 24 * time.Hour

// MailSender is the outbound mail transport.
type MailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// DedupeGuard is an optional fast-path compare-and-set on the dedupe key,
// protecting against concurrent callers racing the log scan.
type DedupeGuard interface {
	AcquireOnce(ctx context.Context, key string) bool
}

type Message struct {
	To          string
	Subject     string
	Body        string
	Reason      string
	EventID     *int64
	RecipientID *int64
	DedupeKey   *string
}

// Notifier builds and dispatches email notifications, enforcing
// per-event per-reason per-recipient deduplication and recording every
// attempt in the email log.
type Notifier struct {
	emailLog EmailLogStore
	sender   MailSender
	guard    DedupeGuard
	logger   *zap.Logger

	appName string
	baseURL string
}

func NewNotifier(emailLog EmailLogStore, sender MailSender, guard DedupeGuard, appName, baseURL string, logger *zap.Logger) *Notifier {
	return &Notifier{
		emailLog: emailLog,
		sender:   sender,
		guard:    guard,
		logger:   logger,
		appName:  appName,
		baseURL:  baseURL,
	}
}

// Send attempts delivery and reports whether the message actually went
// out. A dedupe suppression is a silent no-op, not an error. A transport
// failure degrades to a FAILED log row; it never propagates to the
// triggering business operation.
func (n *Notifier) Send(ctx context.Context, msg Message) bool {
	if msg.DedupeKey != nil {
		if n.guard != nil && !n.guard.AcquireOnce(ctx, *msg.DedupeKey) {
			metrics.EmailsDeduped.WithLabelValues(msg.Reason).Inc()
			n.logger.Info("Notification suppressed by dedupe guard",
				zap.String("dedupe_key", *msg.DedupeKey),
			)
			return false
		}

		since := time.Now().Add(-dedupeWindow)
		existing, err := n.emailLog.FindRecentByDedupeKey(ctx, *msg.DedupeKey, since)
		if err != nil && !errors.Is(err, ErrNotFound) {
			n.logger.Error("Dedupe lookup failed, proceeding with delivery",
				zap.String("dedupe_key", *msg.DedupeKey),
				zap.Error(err),
			)
		}
		if existing != nil {
			metrics.EmailsDeduped.WithLabelValues(msg.Reason).Inc()
			n.logger.Info("Notification suppressed by dedupe key",
				zap.String("dedupe_key", *msg.DedupeKey),
				zap.String("reason", msg.Reason),
			)
			return false
		}
	}

	status := model.EmailSent
	if err := n.sender.Send(ctx, msg.To, msg.Subject, msg.Body); err != nil {
		status = model.EmailFailed
		n.logger.Error("Mail transport failed",
			zap.String("to", msg.To),
			zap.String("reason", msg.Reason),
			zap.Error(err),
		)
	}

	entry := &model.EmailLog{
		ToEmail:     msg.To,
		Subject:     msg.Subject,
		Reason:      msg.Reason,
		Status:      status,
		EventID:     msg.EventID,
		RecipientID: msg.RecipientID,
		DedupeKey:   msg.DedupeKey,
		SentAt:      time.Now(),
	}
	if err := n.emailLog.Append(ctx, entry); err != nil {
		n.logger.Error("Failed to append email log entry",
			zap.String("to", msg.To),
			zap.Error(err),
		)
	}

	metrics.EmailsSent.WithLabelValues(msg.Reason, status).Inc()
	return status == model.EmailSent
}
