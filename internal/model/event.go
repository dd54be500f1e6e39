package model

import "time"

// Event lifecycle statuses. The setter is deliberately permissive: any
// authenticated actor may move an event to any status.
const (
	EventDraft      = "DRAFT"
	EventPlanning   = "PLANNING"
	EventReady      = "READY"
	EventInProgress = "IN_PROGRESS"
	EventCompleted  = "COMPLETED"
	EventArchived   = "ARCHIVED"
)

var EventStatuses = []string{
	EventDraft, EventPlanning, EventReady, EventInProgress, EventCompleted, EventArchived,
}

func ValidEventStatus(s string) bool {
	for _, v := range EventStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Event struct {
	ID          int64
	Title       string
	Description *string
	Date        time.Time
	Time        *string
	Location    *string
	Semester    *string
	Tags        string

	IsOnCampus  bool
	IsVirtual   bool
	IsHybrid    bool
	VirtualLink *string

	SpeakerName  *string
	SpeakerEmail *string
	SpeakerPhone *string
	SpeakerOrg   *string

	POCName  *string
	POCEmail *string
	POCPhone *string

	Status       string
	BudgetAmount *float64

	// Retrospective, recorded on completion.
	Headcount          *int
	DoAgain            *bool
	ReinviteSpeaker    *bool
	RetrospectiveNotes *string

	CreatedByID    int64
	AcademicYearID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
