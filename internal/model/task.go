package model

// Sub-workflow task types used by the assignment protocol and the
// reminder sweep.
const (
	TaskCatering = "catering"
	TaskRoom     = "room"
	TaskFlyer    = "flyer"
)

func ValidTaskType(t string) bool {
	return t == TaskCatering || t == TaskRoom || t == TaskFlyer
}

// TaskLabel is the human-readable name used in notification subjects.
func TaskLabel(t string) string {
	switch t {
	case TaskCatering:
		return "Catering"
	case TaskRoom:
		return "Room Reservation"
	case TaskFlyer:
		return "Flyer"
	default:
		return t
	}
}
