package model

import "time"

const (
	FlyerNotStarted = "NOT_STARTED"
	FlyerInProgress = "IN_PROGRESS"
	FlyerDone       = "DONE"
)

type FlyerTask struct {
	ID      int64
	EventID int64

	FlyerURL     *string
	DesignStatus string

	// Distribution channels.
	DistPortal   bool
	DistEmail    bool
	DistWhatsApp bool
	DistTeams    bool
	DistOther    *string

	Notes *string

	AssigneeID     *int64
	AcceptedAt     *time.Time
	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (f *FlyerTask) Terminal() bool {
	return f.DesignStatus == FlyerDone
}
