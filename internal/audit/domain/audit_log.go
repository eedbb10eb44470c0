package domain

import "time"

// Entry is one audit event for a privileged action (assignment, payment
// confirmation, penalty changes, member administration).
type Entry struct {
	ID        string
	ActorID   string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
