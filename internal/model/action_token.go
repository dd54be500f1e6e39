package model

import "time"

// Action token decision kinds. Each maps to exactly one catering
// approval-axis transition.
const (
	TokenApprove        = "APPROVE"
	TokenReject         = "REJECT"
	TokenRequestChanges = "CHANGES_REQUESTED"
)

// DecisionForTokenType maps a token kind to the approval status it
// carries. The second return is false for an unknown kind.
func DecisionForTokenType(tokenType string) (string, bool) {
	switch tokenType {
	case TokenApprove:
		return CateringApproved, true
	case TokenReject:
		return CateringRejected, true
	case TokenRequestChanges:
		return CateringChangesRequested, true
	}
	return "", false
}

// ActionToken is a single-use, time-limited credential embedded in an
// outbound email. Never updated after consumption, never deleted.
type ActionToken struct {
	ID        int64
	Token     string
	Type      string
	EventID   int64
	UserID    int64
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
