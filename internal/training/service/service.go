package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"squad-portal/backend/internal/audit"
	"squad-portal/backend/internal/gate"
	"squad-portal/backend/internal/notification"
	notifdomain "squad-portal/backend/internal/notification/domain"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/platform/rbac"
	"squad-portal/backend/internal/role"
	"squad-portal/backend/internal/training/domain"
	trainingrepo "squad-portal/backend/internal/training/repository"
)

// CreateSessionInput is the validated payload for creating a training session.
// Times are display strings in HH:MM.
type CreateSessionInput struct {
	Name            string    `validate:"required"`
	Description     string    `validate:"-"`
	Location        string    `validate:"required"`
	Date            time.Time `validate:"required"`
	StartTime       string    `validate:"required,len=5"`
	EndTime         string    `validate:"required,len=5"`
	MaxParticipants *int      `validate:"omitempty,gt=0"`
	IsAHATraining   bool      `validate:"-"`
	CostMember      *float64  `validate:"omitempty,gte=0"`
	CostNonMember   *float64  `validate:"omitempty,gte=0"`
	CostRecert      *float64  `validate:"omitempty,gte=0"`
	Contact         string    `validate:"-"`
}

// SessionSummary is a session plus its current signup count, for listing.
type SessionSummary struct {
	Session     *domain.Session
	SignupCount int
}

// Service implements the training signup workflow: capacity-bounded signup
// and one-way payment confirmation for AHA sessions.
type Service struct {
	trainings trainingrepo.Repository
	members   rbac.MemberGetter
	emitter   notification.Emitter
	auditor   *audit.Logger
	validate  *validator.Validate
}

// NewService returns a training Service. emitter and auditor may be nil.
func NewService(trainings trainingrepo.Repository, members rbac.MemberGetter, emitter notification.Emitter, auditor *audit.Logger) *Service {
	return &Service{
		trainings: trainings,
		members:   members,
		emitter:   emitter,
		auditor:   auditor,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Create creates a training session. Requires Board.
func (s *Service) Create(ctx context.Context, input CreateSessionInput) (*domain.Session, error) {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.Board)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.Validation(validationMessage(err))
	}
	session := &domain.Session{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		Location:        strings.TrimSpace(input.Location),
		Date:            input.Date.UTC(),
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		MaxParticipants: input.MaxParticipants,
		IsAHATraining:   input.IsAHATraining,
		CostMember:      input.CostMember,
		CostNonMember:   input.CostNonMember,
		CostRecert:      input.CostRecert,
		Contact:         strings.TrimSpace(input.Contact),
		CreatedBy:       actor.ID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.trainings.CreateSession(ctx, session); err != nil {
		return nil, apperror.Internal(err)
	}
	return session, nil
}

// List returns upcoming sessions with their signup counts. Any authenticated
// member may read the list.
func (s *Service) List(ctx context.Context) ([]*SessionSummary, error) {
	if _, _, err := rbac.ResolveActor(ctx, s.members); err != nil {
		return nil, err
	}
	sessions, err := s.trainings.ListSessions(ctx, time.Now().UTC())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out := make([]*SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		count, err := s.trainings.CountSignupsByTraining(ctx, session.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		out = append(out, &SessionSummary{Session: session, SignupCount: count})
	}
	return out, nil
}

// SignUp signs the acting member up for the session. Requires General. The
// gate pre-checks capacity; the repository re-checks it inside the insert
// transaction, so two concurrent signups cannot both take the last seat.
func (s *Service) SignUp(ctx context.Context, trainingID, signupType string) (*domain.Signup, error) {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.General)
	if err != nil {
		return nil, err
	}
	if _, err := gate.CheckTrainingSignup(ctx, s.trainings, trainingID, actor.ID); err != nil {
		return nil, err
	}
	signup := &domain.Signup{
		ID:         uuid.New().String(),
		TrainingID: trainingID,
		MemberID:   actor.ID,
		SignupType: strings.TrimSpace(signupType),
		SignedUpAt: time.Now().UTC(),
	}
	if err := s.trainings.CreateSignup(ctx, signup); err != nil {
		switch {
		case errors.Is(err, trainingrepo.ErrDuplicateSignup):
			return nil, apperror.Conflict("already signed up for this training")
		case errors.Is(err, trainingrepo.ErrSessionFull):
			return nil, apperror.Conflict("training session is full")
		case errors.Is(err, trainingrepo.ErrSessionNotFound):
			return nil, apperror.NotFound("training session not found")
		default:
			return nil, apperror.Internal(err)
		}
	}
	notification.EmitAsync(s.emitter, notifdomain.New(
		notifdomain.KindTrainingSignupCreated, actor.ID, "", "training", trainingID, signup))
	return signup, nil
}

// ConfirmPayment records that the member paid for an AHA session. Requires
// Board. The flip is one-way: confirming twice is a Conflict.
func (s *Service) ConfirmPayment(ctx context.Context, trainingID, signupID string) (*domain.Signup, error) {
	actor, _, err := rbac.RequireRole(ctx, s.members, role.Board)
	if err != nil {
		return nil, err
	}
	session, err := s.trainings.GetSessionByID(ctx, trainingID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if session == nil {
		return nil, apperror.NotFound("training session not found")
	}
	if !session.IsAHATraining {
		return nil, apperror.Validation("payment confirmation only applies to AHA trainings")
	}
	signup, err := s.trainings.GetSignupByIDAndTraining(ctx, signupID, trainingID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if signup == nil {
		return nil, apperror.NotFound("signup not found for this training")
	}
	if signup.PaymentConfirmed {
		return nil, apperror.Conflict("payment is already confirmed")
	}
	now := time.Now().UTC()
	ok, err := s.trainings.ConfirmPayment(ctx, signupID, trainingID, actor.ID, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.Conflict("payment is already confirmed")
	}
	signup.PaymentConfirmed = true
	signup.ConfirmedBy = &actor.ID
	signup.ConfirmedAt = &now
	notification.EmitAsync(s.emitter, notifdomain.New(
		notifdomain.KindTrainingPaymentConfirmed, signup.MemberID, actor.ID, "training", trainingID, signup))
	s.auditor.Log(ctx, actor.ID, "training.confirm_payment", "training:"+trainingID, `{"signupId":"`+signupID+`"}`)
	return signup, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid field: " + verrs[0].Field()
	}
	return "invalid payload"
}
