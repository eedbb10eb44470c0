package role

import (
	"testing"

	memberdomain "squad-portal/backend/internal/member/domain"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		member *memberdomain.Member
		want   Role
	}{
		{"nil member is public", nil, Public},
		{
			"pending status overrides admin position",
			&memberdomain.Member{AccountStatus: memberdomain.StatusPending, PositionWeb: memberdomain.PositionAdmin, DuesPaid: true},
			Pending,
		},
		{
			"active admin position",
			&memberdomain.Member{AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionAdmin},
			Admin,
		},
		{
			"active board position",
			&memberdomain.Member{AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionBoard},
			Board,
		},
		{
			"active supervisor position",
			&memberdomain.Member{AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionSupervisor},
			Supervisor,
		},
		{
			"plain member with dues paid",
			&memberdomain.Member{AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionMember, DuesPaid: true},
			General,
		},
		{
			"plain member without dues",
			&memberdomain.Member{AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionMember, DuesPaid: false},
			Pending,
		},
		{
			"unknown position code falls back to dues check",
			&memberdomain.Member{AccountStatus: memberdomain.StatusActive, PositionWeb: 7, DuesPaid: true},
			General,
		},
		{
			"board position without dues is still board",
			&memberdomain.Member{AccountStatus: memberdomain.StatusActive, PositionWeb: memberdomain.PositionBoard, DuesPaid: false},
			Board,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.member); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAtLeast(t *testing.T) {
	if !Admin.AtLeast(Board) {
		t.Error("Admin.AtLeast(Board) = false, want true")
	}
	if !Board.AtLeast(Board) {
		t.Error("Board.AtLeast(Board) = false, want true")
	}
	if Supervisor.AtLeast(Board) {
		t.Error("Supervisor.AtLeast(Board) = true, want false")
	}
	if Pending.AtLeast(General) {
		t.Error("Pending.AtLeast(General) = true, want false")
	}
	if !Public.AtLeast(Public) {
		t.Error("Public.AtLeast(Public) = false, want true")
	}
}

func TestAtLeastFailsClosedOutOfRange(t *testing.T) {
	if Role(99).AtLeast(General) {
		t.Error("out-of-range role satisfied General, want deny")
	}
	if Role(-1).AtLeast(Public) {
		t.Error("negative role satisfied Public, want deny")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		r    Role
		want string
	}{
		{Public, "public"},
		{Pending, "pending"},
		{General, "general"},
		{Certified, "certified"},
		{Supervisor, "supervisor"},
		{Board, "board"},
		{Admin, "admin"},
		{Role(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}
