package model

import "time"

// AcademicYear is the single-row-current configuration entity: exactly
// one row has IsCurrent set at any time, enforced by an atomic switch.
type AcademicYear struct {
	ID         int64
	Label      string
	StartMonth int
	StartYear  int
	EndMonth   int
	EndYear    int
	Budget     *float64
	IsCurrent  bool
	CreatedAt  time.Time
}
