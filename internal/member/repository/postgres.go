package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"squad-portal/backend/internal/member/domain"
)

const memberColumns = "id, email, name, password_hash, account_status, position_web, dues_paid, created_at, updated_at"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a member repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the member for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = $1", id)
	return scanMember(row)
}

// GetByEmail returns the member with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE email = $1", email)
	return scanMember(row)
}

// Create persists the member. The member must have ID set; it is not assigned here.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Member) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO member (id, email, name, password_hash, account_status, position_web, dues_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, m.ID, m.Email, m.Name, m.PasswordHash, string(m.AccountStatus), m.PositionWeb, m.DuesPaid, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// List returns all members ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+memberColumns+" FROM member ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var out []*domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SetAccountStatus updates the account status and returns the updated member,
// or nil if no member with that id exists.
func (r *PostgresRepository) SetAccountStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE member SET account_status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+memberColumns, id, string(status))
	return scanMember(row)
}

// SetPositionWeb updates the stored position code and returns the updated
// member, or nil if no member with that id exists.
func (r *PostgresRepository) SetPositionWeb(ctx context.Context, id string, position int) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE member SET position_web = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+memberColumns, id, position)
	return scanMember(row)
}

// SetDuesPaid updates the dues flag and returns the updated member, or nil if
// no member with that id exists.
func (r *PostgresRepository) SetDuesPaid(ctx context.Context, id string, paid bool) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE member SET dues_paid = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+memberColumns, id, paid)
	return scanMember(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var m domain.Member
	var status string
	err := row.Scan(&m.ID, &m.Email, &m.Name, &m.PasswordHash, &status, &m.PositionWeb, &m.DuesPaid, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	m.AccountStatus = domain.AccountStatus(status)
	return &m, nil
}
