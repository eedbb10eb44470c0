package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/rs/zerolog/log"

	"squad-portal/backend/internal/policy/repository"
)

const policyPackage = "squadportal.eligibility"

// DefaultRegoPolicy is the built-in eligibility policy, used when no stored
// policy is enabled. It lets the penalty ledger modulate eligibility: six or
// more active points block new event signups.
const DefaultRegoPolicy = `package squadportal.eligibility

default allow = true
default reason = ""

allow = false if {
	input.member.active_penalty_points >= 6
}

reason = "too many active penalty points" if {
	input.member.active_penalty_points >= 6
}
`

// OPAEvaluator evaluates event signup eligibility using OPA Rego. A stored
// enabled policy overrides the default; a policy that fails to compile is
// logged and the default applies instead, so a bad upload cannot lock every
// member out.
type OPAEvaluator struct {
	policyRepo repository.Repository
}

// NewOPAEvaluator returns an OPA-based eligibility evaluator. policyRepo may
// be nil; then only the default policy is used.
func NewOPAEvaluator(policyRepo repository.Repository) *OPAEvaluator {
	return &OPAEvaluator{policyRepo: policyRepo}
}

// EvaluateSignup evaluates the policy for the given input.
func (e *OPAEvaluator) EvaluateSignup(ctx context.Context, input SignupInput) (Decision, error) {
	source := DefaultRegoPolicy
	if e.policyRepo != nil {
		stored, err := e.policyRepo.GetEnabled(ctx)
		if err != nil {
			return Decision{}, fmt.Errorf("load eligibility policy: %w", err)
		}
		if stored != nil && stored.Rules != "" {
			source = stored.Rules
		}
	}

	compiler, err := ast.CompileModules(map[string]string{"eligibility.rego": source})
	if err != nil {
		if source == DefaultRegoPolicy {
			return Decision{}, fmt.Errorf("compile eligibility policy: %w", err)
		}
		log.Warn().Err(err).Msg("policy: stored policy does not compile, falling back to default")
		compiler, err = ast.CompileModules(map[string]string{"eligibility.rego": DefaultRegoPolicy})
		if err != nil {
			return Decision{}, fmt.Errorf("compile default eligibility policy: %w", err)
		}
	}

	regoInput := map[string]interface{}{
		"member": map[string]interface{}{
			"id":                    input.MemberID,
			"role":                  input.Role,
			"dues_paid":             input.DuesPaid,
			"active_penalty_points": input.ActivePenaltyPoints,
		},
		"event": map[string]interface{}{
			"id": input.EventID,
		},
	}

	q := rego.New(
		rego.Query(fmt.Sprintf("allow = data.%s.allow; reason = data.%s.reason", policyPackage, policyPackage)),
		rego.Compiler(compiler),
		rego.Input(regoInput),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("eval eligibility policy: %w", err)
	}
	if len(rs) == 0 {
		// Policy defines neither allow nor reason; fail closed.
		return Decision{Allow: false, Reason: "policy returned no decision"}, nil
	}

	decision := Decision{Allow: false}
	if allow, ok := rs[0].Bindings["allow"].(bool); ok {
		decision.Allow = allow
	}
	if reason, ok := rs[0].Bindings["reason"].(string); ok {
		decision.Reason = reason
	}
	return decision, nil
}

// HealthCheck verifies the in-process Rego engine can compile and evaluate
// the default policy. Does not touch the policy repo or database.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	_, err := (&OPAEvaluator{}).EvaluateSignup(ctx, SignupInput{MemberID: "healthcheck", Role: "general"})
	return err
}
