package service

import (
	"context"
	"sort"
	"testing"
	"time"

	memberdomain "squad-portal/backend/internal/member/domain"
	"squad-portal/backend/internal/penalty/domain"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/server/middleware"
)

type fakePenaltyRepo struct {
	points map[string]*domain.Point
}

func newFakePenaltyRepo() *fakePenaltyRepo {
	return &fakePenaltyRepo{points: make(map[string]*domain.Point)}
}

func (r *fakePenaltyRepo) Create(_ context.Context, p *domain.Point) error {
	cp := *p
	r.points[p.ID] = &cp
	return nil
}

func (r *fakePenaltyRepo) GetByID(_ context.Context, id string) (*domain.Point, error) {
	return r.points[id], nil
}

func (r *fakePenaltyRepo) ListActiveByMember(_ context.Context, memberID string) ([]*domain.Point, error) {
	var out []*domain.Point
	for _, p := range r.points {
		if p.MemberID == memberID && p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

func (r *fakePenaltyRepo) CountActiveByMember(_ context.Context, memberID string) (int, error) {
	count := 0
	for _, p := range r.points {
		if p.MemberID == memberID && p.IsActive {
			count += p.Points
		}
	}
	return count, nil
}

func (r *fakePenaltyRepo) Deactivate(_ context.Context, id string) (bool, error) {
	p := r.points[id]
	if p == nil || !p.IsActive {
		return false, nil
	}
	p.IsActive = false
	return true, nil
}

type fakeMemberGetter struct {
	members map[string]*memberdomain.Member
}

func (g *fakeMemberGetter) GetByID(_ context.Context, id string) (*memberdomain.Member, error) {
	return g.members[id], nil
}

func testMembers() *fakeMemberGetter {
	return &fakeMemberGetter{members: map[string]*memberdomain.Member{
		"board":   {ID: "board", AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionBoard},
		"super":   {ID: "super", AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionSupervisor},
		"general": {ID: "general", AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionMember, DuesPaid: true},
		"other":   {ID: "other", AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionMember, DuesPaid: true},
	}}
}

func asMember(id string) context.Context {
	return middleware.WithMemberID(context.Background(), id)
}

func TestAddPoints(t *testing.T) {
	t.Run("board assesses points", func(t *testing.T) {
		repo := newFakePenaltyRepo()
		svc := NewService(repo, testMembers(), nil, nil)
		p, err := svc.AddPoints(asMember("board"), "general", 3, "missed mandatory shift", nil)
		if err != nil {
			t.Fatalf("AddPoints() err = %v, want nil", err)
		}
		if !p.IsActive {
			t.Error("new point should be active")
		}
		if p.AssignedBy != "board" {
			t.Errorf("AssignedBy = %q, want board", p.AssignedBy)
		}
	})

	t.Run("supervisor cannot assess", func(t *testing.T) {
		svc := NewService(newFakePenaltyRepo(), testMembers(), nil, nil)
		_, err := svc.AddPoints(asMember("super"), "general", 1, "late", nil)
		if !apperror.IsKind(err, apperror.KindForbidden) {
			t.Errorf("err = %v, want Forbidden", err)
		}
	})

	t.Run("non-positive points fail validation", func(t *testing.T) {
		svc := NewService(newFakePenaltyRepo(), testMembers(), nil, nil)
		for _, points := range []int{0, -2} {
			_, err := svc.AddPoints(asMember("board"), "general", points, "reason", nil)
			if !apperror.IsKind(err, apperror.KindValidation) {
				t.Errorf("points=%d: err = %v, want Validation", points, err)
			}
		}
	})

	t.Run("blank reason fails validation", func(t *testing.T) {
		svc := NewService(newFakePenaltyRepo(), testMembers(), nil, nil)
		_, err := svc.AddPoints(asMember("board"), "general", 2, "   ", nil)
		if !apperror.IsKind(err, apperror.KindValidation) {
			t.Errorf("err = %v, want Validation", err)
		}
	})

	t.Run("unknown target member is not found", func(t *testing.T) {
		svc := NewService(newFakePenaltyRepo(), testMembers(), nil, nil)
		_, err := svc.AddPoints(asMember("board"), "ghost", 2, "reason", nil)
		if !apperror.IsKind(err, apperror.KindNotFound) {
			t.Errorf("err = %v, want NotFound", err)
		}
	})
}

func TestActivePoints(t *testing.T) {
	repo := newFakePenaltyRepo()
	svc := NewService(repo, testMembers(), nil, nil)
	base := time.Now().UTC()
	repo.points["p1"] = &domain.Point{ID: "p1", MemberID: "general", Points: 2, Reason: "a", AssignedAt: base.Add(-time.Hour), IsActive: true}
	repo.points["p2"] = &domain.Point{ID: "p2", MemberID: "general", Points: 3, Reason: "b", AssignedAt: base, IsActive: true}
	repo.points["p3"] = &domain.Point{ID: "p3", MemberID: "general", Points: 5, Reason: "c", AssignedAt: base, IsActive: false}

	t.Run("member reads own ledger, inactive excluded, most recent first", func(t *testing.T) {
		entries, total, err := svc.ActivePoints(asMember("general"), "general")
		if err != nil {
			t.Fatalf("ActivePoints() err = %v, want nil", err)
		}
		if len(entries) != 2 {
			t.Fatalf("len(entries) = %d, want 2", len(entries))
		}
		if entries[0].ID != "p2" {
			t.Errorf("first entry = %s, want p2", entries[0].ID)
		}
		if total != 5 {
			t.Errorf("total = %d, want 5", total)
		}
	})

	t.Run("supervisor reads another member's ledger", func(t *testing.T) {
		if _, _, err := svc.ActivePoints(asMember("super"), "general"); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})

	t.Run("peer cannot read another member's ledger", func(t *testing.T) {
		_, _, err := svc.ActivePoints(asMember("other"), "general")
		if !apperror.IsKind(err, apperror.KindForbidden) {
			t.Errorf("err = %v, want Forbidden", err)
		}
	})
}

func TestRemovePoint(t *testing.T) {
	setup := func(t *testing.T) (*Service, *fakePenaltyRepo, string) {
		t.Helper()
		repo := newFakePenaltyRepo()
		svc := NewService(repo, testMembers(), nil, nil)
		p, err := svc.AddPoints(asMember("board"), "general", 2, "late to drill", nil)
		if err != nil {
			t.Fatalf("AddPoints() err = %v", err)
		}
		return svc, repo, p.ID
	}

	t.Run("board deactivates without deleting the row", func(t *testing.T) {
		svc, repo, id := setup(t)
		if err := svc.RemovePoint(asMember("board"), id); err != nil {
			t.Fatalf("RemovePoint() err = %v, want nil", err)
		}
		p := repo.points[id]
		if p == nil {
			t.Fatal("row was deleted, want soft-deactivate")
		}
		if p.IsActive {
			t.Error("point should be inactive")
		}
	})

	t.Run("removing twice is not found", func(t *testing.T) {
		svc, _, id := setup(t)
		if err := svc.RemovePoint(asMember("board"), id); err != nil {
			t.Fatalf("first RemovePoint() err = %v", err)
		}
		err := svc.RemovePoint(asMember("board"), id)
		if !apperror.IsKind(err, apperror.KindNotFound) {
			t.Errorf("err = %v, want NotFound", err)
		}
	})

	t.Run("supervisor cannot remove", func(t *testing.T) {
		svc, _, id := setup(t)
		err := svc.RemovePoint(asMember("super"), id)
		if !apperror.IsKind(err, apperror.KindForbidden) {
			t.Errorf("err = %v, want Forbidden", err)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _, _ := setup(t)
		err := svc.RemovePoint(asMember("board"), "ghost")
		if !apperror.IsKind(err, apperror.KindNotFound) {
			t.Errorf("err = %v, want NotFound", err)
		}
	})
}
