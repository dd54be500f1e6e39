package model

import "time"

const (
	RoomPending   = "PENDING"
	RoomAccepted  = "ACCEPTED"
	RoomConfirmed = "CONFIRMED"
	RoomCancelled = "CANCELLED"
)

type RoomReservation struct {
	ID      int64
	EventID int64

	RoomName       *string
	ReservationURL *string
	ConfirmationID *string
	Notes          *string

	Status      string
	ConfirmedAt *time.Time

	AssigneeID     *int64
	AcceptedAt     *time.Time
	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *RoomReservation) Terminal() bool {
	return r.Status == RoomConfirmed || r.Status == RoomCancelled
}
