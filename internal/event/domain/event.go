package domain

import "time"

// Event is a shift with a date/time window that members can sign up for.
// Events carry no capacity ceiling: scarcity is resolved by explicit
// assignment off the waitlist, not by blocking signup.
type Event struct {
	ID        string
	Title     string
	Location  string
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedBy string
	CreatedAt time.Time
}

// Signup relates one member to one event. At most one row exists per
// (event, member) pair, enforced by a unique index. IsAssigned flips true at
// most once and never back.
type Signup struct {
	ID           string
	EventID      string
	MemberID     string
	PositionType string // optional requested position, e.g. "driver", "crew"
	SignedUpAt   time.Time
	IsAssigned   bool
	AssignedBy   *string
	AssignedAt   *time.Time
}

// WaitlistEntry is a display projection over unassigned signups: the signup
// plus its 1-based first-come-first-served position. It is not a scheduling
// guarantee.
type WaitlistEntry struct {
	Signup   *Signup
	Position int
}
