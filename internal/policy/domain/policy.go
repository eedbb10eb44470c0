package domain

import "time"

// Policy is a stored eligibility policy: Rego source evaluated at event
// signup time. Only the most recently created enabled policy is applied.
type Policy struct {
	ID        string
	Rules     string
	Enabled   bool
	CreatedAt time.Time
}
