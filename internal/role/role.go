// Package role derives a member's effective role from raw membership state.
// Role is computed on demand and never persisted, so it cannot go stale
// relative to the member record it was derived from.
package role

import (
	memberdomain "squad-portal/backend/internal/member/domain"
)

// Role is an ordered privilege tier. Higher values carry more privilege;
// AtLeast is the single comparison every authorization check goes through.
type Role int

const (
	Public Role = iota
	Pending
	General
	Certified
	Supervisor
	Board
	Admin
)

func (r Role) String() string {
	switch r {
	case Public:
		return "public"
	case Pending:
		return "pending"
	case General:
		return "general"
	case Certified:
		return "certified"
	case Supervisor:
		return "supervisor"
	case Board:
		return "board"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// AtLeast reports whether r meets the required tier. Unknown or out-of-range
// roles never satisfy a requirement above Public (fail closed).
func (r Role) AtLeast(required Role) bool {
	if r < Public || r > Admin {
		return false
	}
	return r >= required
}

// Resolve maps a member record to its effective role.
//
// A pending account is Pending no matter what the rest of the record says; an
// active account maps its position (0=admin, 1=board, 2=supervisor), and
// everyone else is General only once dues are paid.
func Resolve(m *memberdomain.Member) Role {
	if m == nil {
		return Public
	}
	if m.AccountStatus == memberdomain.StatusPending {
		return Pending
	}
	switch m.PositionWeb {
	case memberdomain.PositionAdmin:
		return Admin
	case memberdomain.PositionBoard:
		return Board
	case memberdomain.PositionSupervisor:
		return Supervisor
	}
	if m.DuesPaid {
		return General
	}
	return Pending
}
