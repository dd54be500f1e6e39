package model

import "time"

// Approval axis.
const (
	CateringDraft            = "DRAFT"
	CateringAwaitingApproval = "AWAITING_APPROVAL"
	CateringApproved         = "APPROVED"
	CateringRejected         = "REJECTED"
	CateringChangesRequested = "CHANGES_REQUESTED"
)

// Payment axis. Orthogonal to the approval axis but may only leave
// PaymentPending once the approval axis is APPROVED.
const (
	PaymentPending   = "PENDING"
	PaymentRequested = "REQUESTED"
	PaymentPaid      = "PAID"
)

// CateringApproval carries two state machines on one record: the
// approval axis and the payment axis, plus the shared task-assignment
// fields.
type CateringApproval struct {
	ID      int64
	EventID int64

	Status        string
	PaymentStatus string

	Vendor        *string
	EstimatedCost *float64
	ActualCost    *float64
	MenuDetails   *string
	DietaryNotes  *string
	Headcount     *int
	OrderLink     *string
	InvoiceURL    *string
	InvoiceImgURL *string

	SubmittedAt   *time.Time
	RevisionCount int
	ChangeNotes   *string
	DecidedByID   *int64
	DecidedAt     *time.Time

	PaidByID    *int64
	PaidAt      *time.Time
	PaymentNote *string

	AssigneeID     *int64
	AcceptedAt     *time.Time
	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApprovalTerminal reports whether the approval axis has reached a state
// the reminder sweep treats as finished.
func (c *CateringApproval) ApprovalTerminal() bool {
	return c.Status == CateringApproved || c.Status == CateringRejected
}
