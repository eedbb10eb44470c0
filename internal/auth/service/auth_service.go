package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	memberdomain "squad-portal/backend/internal/member/domain"
	memberrepo "squad-portal/backend/internal/member/repository"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/security"
)

// Sentinel errors for the auth service; the handler maps them to the error
// envelope.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

// AuthResult holds the outcome of a successful Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	MemberID  string
}

// AuthService implements password register and login. New accounts start
// pending; an administrator activates them, which is what promotes the member
// out of the Pending role.
type AuthService struct {
	members memberrepo.Repository
	hasher  *security.Hasher
	tokens  *security.TokenProvider
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(members memberrepo.Repository, hasher *security.Hasher, tokens *security.TokenProvider) *AuthService {
	return &AuthService{members: members, hasher: hasher, tokens: tokens}
}

// Register creates a pending member account with the given email and password.
// Returns the new member id.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return "", err
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.Validation("name is required")
	}
	existing, err := s.members.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrEmailAlreadyRegistered
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	m := &memberdomain.Member{
		ID:            uuid.New().String(),
		Email:         email,
		Name:          name,
		PasswordHash:  hashed,
		AccountStatus: memberdomain.StatusPending,
		PositionWeb:   memberdomain.PositionMember,
		DuesPaid:      false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.members.Create(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}

// Login authenticates with email/password and returns a session token.
// Pending accounts can log in; their derived role limits what they can do.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	m, err := s.members.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if m == nil || m.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(m.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(m.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, MemberID: m.ID}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperror.Validation("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return apperror.Validation("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 10 {
		return apperror.Validation("password must be at least 10 characters")
	}
	return nil
}
