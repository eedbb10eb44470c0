package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"squad-portal/backend/internal/audit"
	"squad-portal/backend/internal/event/domain"
	eventrepo "squad-portal/backend/internal/event/repository"
	"squad-portal/backend/internal/gate"
	"squad-portal/backend/internal/notification"
	notifdomain "squad-portal/backend/internal/notification/domain"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/platform/rbac"
	"squad-portal/backend/internal/policy/engine"
	"squad-portal/backend/internal/role"
)

// PenaltyCounter exposes the active penalty point total the eligibility
// policy takes as input. Implemented by the penalty repository.
type PenaltyCounter interface {
	CountActiveByMember(ctx context.Context, memberID string) (int, error)
}

// CreateEventInput is the validated payload for creating an event.
type CreateEventInput struct {
	Title    string    `validate:"required"`
	Location string    `validate:"required"`
	StartsAt time.Time `validate:"required"`
	EndsAt   time.Time `validate:"required,gtfield=StartsAt"`
}

// Service implements the event signup workflow: open signup onto a waitlist,
// explicit assignment off it by a board member.
type Service struct {
	events    eventrepo.Repository
	members   rbac.MemberGetter
	penalties PenaltyCounter
	policy    engine.Evaluator
	emitter   notification.Emitter
	auditor   *audit.Logger
	validate  *validator.Validate
}

// NewService returns an event Service. policy, emitter, and auditor may be
// nil; then eligibility is not policy-checked, no notifications fire, and no
// audit entries are written.
func NewService(
	events eventrepo.Repository,
	members rbac.MemberGetter,
	penalties PenaltyCounter,
	policy engine.Evaluator,
	emitter notification.Emitter,
	auditor *audit.Logger,
) *Service {
	return &Service{
		events:    events,
		members:   members,
		penalties: penalties,
		policy:    policy,
		emitter:   emitter,
		auditor:   auditor,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Create creates an event. Requires Board.
func (s *Service) Create(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.Board)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.Validation(validationMessage(err))
	}
	e := &domain.Event{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(input.Title),
		Location:  strings.TrimSpace(input.Location),
		StartsAt:  input.StartsAt.UTC(),
		EndsAt:    input.EndsAt.UTC(),
		CreatedBy: actor.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.events.CreateEvent(ctx, e); err != nil {
		return nil, apperror.Internal(err)
	}
	return e, nil
}

// List returns upcoming events. Any authenticated member may read the list.
func (s *Service) List(ctx context.Context) ([]*domain.Event, error) {
	if _, _, err := rbac.ResolveActor(ctx, s.members); err != nil {
		return nil, err
	}
	events, err := s.events.ListEvents(ctx, time.Now().UTC())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return events, nil
}

// SignUp signs the acting member up for the event. Requires General: pending
// accounts and unpaid members cannot join the waitlist. The eligibility
// policy may additionally deny.
func (s *Service) SignUp(ctx context.Context, eventID, positionType string) (*domain.Signup, error) {
	actor, actorRole, err := rbac.RequireRole(ctx, s.members, role.General)
	if err != nil {
		return nil, err
	}
	if _, err := gate.CheckEventSignup(ctx, s.events, eventID, actor.ID); err != nil {
		return nil, err
	}
	if err := s.checkEligibility(ctx, actor.ID, actorRole, actor.DuesPaid, eventID); err != nil {
		return nil, err
	}
	signup := &domain.Signup{
		ID:           uuid.New().String(),
		EventID:      eventID,
		MemberID:     actor.ID,
		PositionType: strings.TrimSpace(positionType),
		SignedUpAt:   time.Now().UTC(),
		IsAssigned:   false,
	}
	if err := s.events.CreateSignup(ctx, signup); err != nil {
		if errors.Is(err, eventrepo.ErrDuplicateSignup) {
			return nil, apperror.Conflict("already signed up for this event")
		}
		return nil, apperror.Internal(err)
	}
	notification.EmitAsync(s.emitter, notifdomain.New(
		notifdomain.KindEventSignupCreated, actor.ID, "", "event", eventID, signup))
	return signup, nil
}

// Assign marks the signup as assigned to the event. Requires Board. The flip
// is monotonic: an already-assigned signup is a Conflict, never re-stamped.
func (s *Service) Assign(ctx context.Context, eventID, signupID string) (*domain.Signup, error) {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.Board)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if event == nil {
		return nil, apperror.NotFound("event not found")
	}
	signup, err := s.events.GetSignupByIDAndEvent(ctx, signupID, eventID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if signup == nil {
		return nil, apperror.NotFound("signup not found for this event")
	}
	if signup.IsAssigned {
		return nil, apperror.Conflict("signup is already assigned")
	}
	now := time.Now().UTC()
	ok, err := s.events.MarkAssigned(ctx, signupID, eventID, actor.ID, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		// Lost the race to a concurrent assignment.
		return nil, apperror.Conflict("signup is already assigned")
	}
	signup.IsAssigned = true
	signup.AssignedBy = &actor.ID
	signup.AssignedAt = &now
	notification.EmitAsync(s.emitter, notifdomain.New(
		notifdomain.KindEventSignupAssigned, signup.MemberID, actor.ID, "event", eventID, signup))
	s.auditor.Log(ctx, actor.ID, "event.assign", "event:"+eventID, `{"signupId":"`+signupID+`"}`)
	return signup, nil
}

// Waitlist returns the unassigned signups for the event in
// first-come-first-served order with 1-based positions. Requires Supervisor.
func (s *Service) Waitlist(ctx context.Context, eventID string) ([]*domain.WaitlistEntry, error) {
	if _, _, err := rbac.RequireRole(ctx, s.members, role.Supervisor); err != nil {
		return nil, err
	}
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if event == nil {
		return nil, apperror.NotFound("event not found")
	}
	signups, err := s.events.ListUnassignedByEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	entries := make([]*domain.WaitlistEntry, 0, len(signups))
	for i, su := range signups {
		entries = append(entries, &domain.WaitlistEntry{Signup: su, Position: i + 1})
	}
	return entries, nil
}

// checkEligibility consults the policy evaluator. An evaluator failure is
// logged and treated as allow, so a broken policy engine cannot block all
// signups; a clean deny is Forbidden.
func (s *Service) checkEligibility(ctx context.Context, memberID string, memberRole role.Role, duesPaid bool, eventID string) error {
	if s.policy == nil {
		return nil
	}
	points := 0
	if s.penalties != nil {
		n, err := s.penalties.CountActiveByMember(ctx, memberID)
		if err != nil {
			return apperror.Internal(err)
		}
		points = n
	}
	decision, err := s.policy.EvaluateSignup(ctx, engine.SignupInput{
		MemberID:            memberID,
		Role:                memberRole.String(),
		DuesPaid:            duesPaid,
		ActivePenaltyPoints: points,
		EventID:             eventID,
	})
	if err != nil {
		log.Warn().Err(err).Str("event_id", eventID).Msg("event: eligibility evaluation failed, allowing signup")
		return nil
	}
	if !decision.Allow {
		msg := decision.Reason
		if msg == "" {
			msg = "not eligible to sign up for this event"
		}
		return apperror.Forbidden(msg)
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid field: " + verrs[0].Field()
	}
	return "invalid payload"
}
