package engine

import "context"

// SignupInput is the evaluation input for an event signup: the member's
// derived state and the event being joined.
type SignupInput struct {
	MemberID            string
	Role                string
	DuesPaid            bool
	ActivePenaltyPoints int
	EventID             string
}

// Decision is the outcome of an eligibility evaluation. Reason is only set
// when Allow is false.
type Decision struct {
	Allow  bool
	Reason string
}

// Evaluator evaluates event signup eligibility. The event workflow treats a
// nil Evaluator as allow-all.
type Evaluator interface {
	EvaluateSignup(ctx context.Context, input SignupInput) (Decision, error)
}
