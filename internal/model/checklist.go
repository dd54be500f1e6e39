package model

import "time"

// DefaultChecklistItems seed every new event's day-of checklist.
var DefaultChecklistItems = []string{
	"Confirm room/venue is unlocked and set up",
	"Test A/V equipment (mic, projector, screen)",
	"Set up catering / food display",
	"Print and post directional signage",
	"Prepare sign-in sheet or QR code",
	"Greet and brief speaker",
	"Assign door greeter / welcome person",
	"Take event photos",
	"Collect attendee headcount",
	"Clean up after event",
}

type ChecklistItem struct {
	ID        int64
	EventID   int64
	Label     string
	IsChecked bool
	IsCustom  bool
	SortOrder int
	CreatedAt time.Time
}
