package model

import "time"

// Email dispatch reasons.
const (
	ReasonApprovalRequest = "APPROVAL_REQUEST"
	ReasonPaymentRequest  = "PAYMENT_REQUEST"
	ReasonTaskAssignment  = "TASK_ASSIGNMENT"
	ReasonTaskReminder    = "TASK_REMINDER"
	ReasonManual          = "MANUAL"
)

const (
	EmailSent   = "SENT"
	EmailFailed = "FAILED"
)

// EmailLog is an append-only record of every delivery attempt. It also
// doubles as the deduplication index via DedupeKey.
type EmailLog struct {
	ID          int64
	ToEmail     string
	Subject     string
	Reason      string
	Status      string
	EventID     *int64
	RecipientID *int64
	DedupeKey   *string
	SentAt      time.Time
}
