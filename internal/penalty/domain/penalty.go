package domain

import "time"

// Point is one assessed disciplinary entry. Rows are never physically
// deleted; removal flips IsActive so the history stays auditable.
// AutoRemoveAt is advisory: an external sweep may act on it, the engine
// never does at request time.
type Point struct {
	ID           string
	MemberID     string
	Points       int
	Reason       string
	AssignedBy   string
	AssignedAt   time.Time
	AutoRemoveAt *time.Time
	IsActive     bool
}
