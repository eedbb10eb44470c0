package domain

import "time"

// Session is a training session. MaxParticipants nil means unbounded.
// IsAHATraining marks paid, externally certified courses; payment
// confirmation only exists for those. Cost fields are display-only.
type Session struct {
	ID              string
	Name            string
	Description     string
	Location        string
	Date            time.Time
	StartTime       string // "HH:MM", display only
	EndTime         string
	MaxParticipants *int
	IsAHATraining   bool
	CostMember      *float64
	CostNonMember   *float64
	CostRecert      *float64
	Contact         string
	CreatedBy       string
	CreatedAt       time.Time
}

// Signup relates one member to one training session. At most one row per
// (session, member) pair; PaymentConfirmed flips true at most once.
type Signup struct {
	ID               string
	TrainingID       string
	MemberID         string
	SignupType       string
	SignedUpAt       time.Time
	PaymentConfirmed bool
	ConfirmedBy      *string
	ConfirmedAt      *time.Time
}
