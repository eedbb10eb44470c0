package service

import (
	"context"
	"testing"
	"time"

	memberdomain "squad-portal/backend/internal/member/domain"
	notifdomain "squad-portal/backend/internal/notification/domain"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/server/middleware"
	"squad-portal/backend/internal/training/domain"
	trainingrepo "squad-portal/backend/internal/training/repository"
)

type fakeTrainingRepo struct {
	sessions map[string]*domain.Session
	signups  map[string]*domain.Signup
}

func newFakeTrainingRepo() *fakeTrainingRepo {
	return &fakeTrainingRepo{
		sessions: make(map[string]*domain.Session),
		signups:  make(map[string]*domain.Signup),
	}
}

func (r *fakeTrainingRepo) GetSessionByID(_ context.Context, id string) (*domain.Session, error) {
	return r.sessions[id], nil
}

func (r *fakeTrainingRepo) ListSessions(_ context.Context, from time.Time) ([]*domain.Session, error) {
	var out []*domain.Session
	for _, s := range r.sessions {
		if !s.Date.Before(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeTrainingRepo) CreateSession(_ context.Context, s *domain.Session) error {
	r.sessions[s.ID] = s
	return nil
}

// CreateSignup mirrors the transactional guarantees of the Postgres
// repository: missing session, duplicate pair, and capacity are all checked
// at insert time.
func (r *fakeTrainingRepo) CreateSignup(_ context.Context, s *domain.Signup) error {
	session := r.sessions[s.TrainingID]
	if session == nil {
		return trainingrepo.ErrSessionNotFound
	}
	count := 0
	for _, existing := range r.signups {
		if existing.TrainingID != s.TrainingID {
			continue
		}
		if existing.MemberID == s.MemberID {
			return trainingrepo.ErrDuplicateSignup
		}
		count++
	}
	if session.MaxParticipants != nil && count >= *session.MaxParticipants {
		return trainingrepo.ErrSessionFull
	}
	cp := *s
	r.signups[s.ID] = &cp
	return nil
}

func (r *fakeTrainingRepo) GetSignupByTrainingAndMember(_ context.Context, trainingID, memberID string) (*domain.Signup, error) {
	for _, s := range r.signups {
		if s.TrainingID == trainingID && s.MemberID == memberID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeTrainingRepo) GetSignupByIDAndTraining(_ context.Context, signupID, trainingID string) (*domain.Signup, error) {
	s := r.signups[signupID]
	if s == nil || s.TrainingID != trainingID {
		return nil, nil
	}
	return s, nil
}

func (r *fakeTrainingRepo) CountSignupsByTraining(_ context.Context, trainingID string) (int, error) {
	count := 0
	for _, s := range r.signups {
		if s.TrainingID == trainingID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTrainingRepo) ConfirmPayment(_ context.Context, signupID, trainingID, confirmedBy string, at time.Time) (bool, error) {
	s := r.signups[signupID]
	if s == nil || s.TrainingID != trainingID || s.PaymentConfirmed {
		return false, nil
	}
	s.PaymentConfirmed = true
	s.ConfirmedBy = &confirmedBy
	s.ConfirmedAt = &at
	return true, nil
}

type fakeMemberGetter struct {
	members map[string]*memberdomain.Member
}

func (g *fakeMemberGetter) GetByID(_ context.Context, id string) (*memberdomain.Member, error) {
	return g.members[id], nil
}

type chanEmitter struct {
	ch chan *notifdomain.Event
}

func (e *chanEmitter) Emit(_ context.Context, event *notifdomain.Event) error {
	e.ch <- event
	return nil
}

func testMembers() *fakeMemberGetter {
	return &fakeMemberGetter{members: map[string]*memberdomain.Member{
		"board":   {ID: "board", AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionBoard},
		"general": {ID: "general", AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionMember, DuesPaid: true},
		"other":   {ID: "other", AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionMember, DuesPaid: true},
		"pending": {ID: "pending", AccountStatus: memberdomain.StatusPending, PositionWeb: memberdomain.PositionMember},
	}}
}

func asMember(id string) context.Context {
	return middleware.WithMemberID(context.Background(), id)
}

func seedSession(repo *fakeTrainingRepo, id string, max *int, aha bool) {
	repo.sessions[id] = &domain.Session{
		ID:              id,
		Name:            "Session " + id,
		Location:        "Training room",
		Date:            time.Now().UTC().Add(7 * 24 * time.Hour),
		StartTime:       "09:00",
		EndTime:         "12:00",
		MaxParticipants: max,
		IsAHATraining:   aha,
	}
}

func TestTrainingSignUp(t *testing.T) {
	t.Run("member signs up and a notification fires", func(t *testing.T) {
		repo := newFakeTrainingRepo()
		seedSession(repo, "tr1", nil, false)
		emitter := &chanEmitter{ch: make(chan *notifdomain.Event, 1)}
		svc := NewService(repo, testMembers(), emitter, nil)

		signup, err := svc.SignUp(asMember("general"), "tr1", "participant")
		if err != nil {
			t.Fatalf("SignUp() err = %v, want nil", err)
		}
		if signup.PaymentConfirmed {
			t.Error("new signup should not be payment-confirmed")
		}
		select {
		case evt := <-emitter.ch:
			if evt.Kind != notifdomain.KindTrainingSignupCreated {
				t.Errorf("kind = %q, want %q", evt.Kind, notifdomain.KindTrainingSignupCreated)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for notification event")
		}
	})

	t.Run("last seat goes to exactly one member", func(t *testing.T) {
		repo := newFakeTrainingRepo()
		one := 1
		seedSession(repo, "tr1", &one, false)
		svc := NewService(repo, testMembers(), nil, nil)

		if _, err := svc.SignUp(asMember("general"), "tr1", ""); err != nil {
			t.Fatalf("first SignUp() err = %v", err)
		}
		_, err := svc.SignUp(asMember("other"), "tr1", "")
		if !apperror.IsKind(err, apperror.KindConflict) {
			t.Errorf("err = %v, want Conflict when session is full", err)
		}
	})

	t.Run("duplicate signup is conflict", func(t *testing.T) {
		repo := newFakeTrainingRepo()
		seedSession(repo, "tr1", nil, false)
		svc := NewService(repo, testMembers(), nil, nil)

		if _, err := svc.SignUp(asMember("general"), "tr1", ""); err != nil {
			t.Fatalf("first SignUp() err = %v", err)
		}
		_, err := svc.SignUp(asMember("general"), "tr1", "")
		if !apperror.IsKind(err, apperror.KindConflict) {
			t.Errorf("err = %v, want Conflict", err)
		}
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		svc := NewService(newFakeTrainingRepo(), testMembers(), nil, nil)
		_, err := svc.SignUp(asMember("general"), "missing", "")
		if !apperror.IsKind(err, apperror.KindNotFound) {
			t.Errorf("err = %v, want NotFound", err)
		}
	})

	t.Run("pending member is forbidden", func(t *testing.T) {
		repo := newFakeTrainingRepo()
		seedSession(repo, "tr1", nil, false)
		svc := NewService(repo, testMembers(), nil, nil)
		_, err := svc.SignUp(asMember("pending"), "tr1", "")
		if !apperror.IsKind(err, apperror.KindForbidden) {
			t.Errorf("err = %v, want Forbidden", err)
		}
	})
}

func TestConfirmPayment(t *testing.T) {
	setup := func(t *testing.T, aha bool) (*Service, *fakeTrainingRepo, string) {
		t.Helper()
		repo := newFakeTrainingRepo()
		seedSession(repo, "tr1", nil, aha)
		svc := NewService(repo, testMembers(), nil, nil)
		signup, err := svc.SignUp(asMember("general"), "tr1", "")
		if err != nil {
			t.Fatalf("SignUp() err = %v", err)
		}
		return svc, repo, signup.ID
	}

	t.Run("board confirms an AHA signup once", func(t *testing.T) {
		svc, repo, signupID := setup(t, true)
		confirmed, err := svc.ConfirmPayment(asMember("board"), "tr1", signupID)
		if err != nil {
			t.Fatalf("ConfirmPayment() err = %v, want nil", err)
		}
		if !confirmed.PaymentConfirmed {
			t.Error("signup should be payment-confirmed")
		}
		if confirmed.ConfirmedBy == nil || *confirmed.ConfirmedBy != "board" {
			t.Errorf("ConfirmedBy = %v, want board", confirmed.ConfirmedBy)
		}
		if repo.signups[signupID].ConfirmedAt == nil {
			t.Error("ConfirmedAt should be stamped")
		}
	})

	t.Run("non-AHA session fails validation", func(t *testing.T) {
		svc, _, signupID := setup(t, false)
		_, err := svc.ConfirmPayment(asMember("board"), "tr1", signupID)
		if !apperror.IsKind(err, apperror.KindValidation) {
			t.Errorf("err = %v, want Validation", err)
		}
	})

	t.Run("general member cannot confirm", func(t *testing.T) {
		svc, _, signupID := setup(t, true)
		_, err := svc.ConfirmPayment(asMember("general"), "tr1", signupID)
		if !apperror.IsKind(err, apperror.KindForbidden) {
			t.Errorf("err = %v, want Forbidden", err)
		}
	})

	t.Run("second confirmation is conflict and keeps the first stamp", func(t *testing.T) {
		svc, repo, signupID := setup(t, true)
		if _, err := svc.ConfirmPayment(asMember("board"), "tr1", signupID); err != nil {
			t.Fatalf("first ConfirmPayment() err = %v", err)
		}
		firstAt := *repo.signups[signupID].ConfirmedAt
		_, err := svc.ConfirmPayment(asMember("board"), "tr1", signupID)
		if !apperror.IsKind(err, apperror.KindConflict) {
			t.Errorf("err = %v, want Conflict", err)
		}
		if !repo.signups[signupID].ConfirmedAt.Equal(firstAt) {
			t.Error("confirmation stamp changed on repeated confirm")
		}
	})

	t.Run("signup under a different session is not found", func(t *testing.T) {
		svc, repo, signupID := setup(t, true)
		seedSession(repo, "tr2", nil, true)
		_, err := svc.ConfirmPayment(asMember("board"), "tr2", signupID)
		if !apperror.IsKind(err, apperror.KindNotFound) {
			t.Errorf("err = %v, want NotFound", err)
		}
	})
}

func TestCreateSession(t *testing.T) {
	svc := NewService(newFakeTrainingRepo(), testMembers(), nil, nil)
	date := time.Now().UTC().Add(14 * 24 * time.Hour)

	t.Run("board creates a session", func(t *testing.T) {
		max := 12
		cost := 45.0
		s, err := svc.Create(asMember("board"), CreateSessionInput{
			Name:            "AHA BLS Provider",
			Location:        "Training room A",
			Date:            date,
			StartTime:       "09:00",
			EndTime:         "15:00",
			MaxParticipants: &max,
			IsAHATraining:   true,
			CostMember:      &cost,
		})
		if err != nil {
			t.Fatalf("Create() err = %v, want nil", err)
		}
		if s.CreatedBy != "board" {
			t.Errorf("CreatedBy = %q, want board", s.CreatedBy)
		}
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		_, err := svc.Create(asMember("board"), CreateSessionInput{
			Location:  "Training room A",
			Date:      date,
			StartTime: "09:00",
			EndTime:   "15:00",
		})
		if !apperror.IsKind(err, apperror.KindValidation) {
			t.Errorf("err = %v, want Validation", err)
		}
	})

	t.Run("zero capacity fails validation", func(t *testing.T) {
		zero := 0
		_, err := svc.Create(asMember("board"), CreateSessionInput{
			Name:            "x",
			Location:        "y",
			Date:            date,
			StartTime:       "09:00",
			EndTime:         "15:00",
			MaxParticipants: &zero,
		})
		if !apperror.IsKind(err, apperror.KindValidation) {
			t.Errorf("err = %v, want Validation", err)
		}
	})

	t.Run("general member cannot create", func(t *testing.T) {
		_, err := svc.Create(asMember("general"), CreateSessionInput{
			Name:      "x",
			Location:  "y",
			Date:      date,
			StartTime: "09:00",
			EndTime:   "15:00",
		})
		if !apperror.IsKind(err, apperror.KindForbidden) {
			t.Errorf("err = %v, want Forbidden", err)
		}
	})
}

func TestListSessions(t *testing.T) {
	repo := newFakeTrainingRepo()
	seedSession(repo, "tr1", nil, false)
	svc := NewService(repo, testMembers(), nil, nil)

	if _, err := svc.SignUp(asMember("general"), "tr1", ""); err != nil {
		t.Fatalf("SignUp() err = %v", err)
	}
	if _, err := svc.SignUp(asMember("other"), "tr1", ""); err != nil {
		t.Fatalf("SignUp() err = %v", err)
	}

	summaries, err := svc.List(asMember("general"))
	if err != nil {
		t.Fatalf("List() err = %v, want nil", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}
	if summaries[0].SignupCount != 2 {
		t.Errorf("SignupCount = %d, want 2", summaries[0].SignupCount)
	}
}
