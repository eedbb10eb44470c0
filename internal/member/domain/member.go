package domain

import "time"

// AccountStatus is the lifecycle state of a member account. Accounts are
// never deleted, only left pending or deactivated by administrators.
type AccountStatus string

const (
	StatusPending AccountStatus = "pending"
	StatusActive  AccountStatus = "active"
)

// Position codes stored on the member record. Lower number means higher
// privilege; see internal/role for the derived ordering.
const (
	PositionAdmin      = 0
	PositionBoard      = 1
	PositionSupervisor = 2
	PositionMember     = 3
)

// Member is a registered member of the squad.
type Member struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	AccountStatus AccountStatus
	PositionWeb   int
	DuesPaid      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
