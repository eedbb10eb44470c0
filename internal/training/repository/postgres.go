package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"squad-portal/backend/internal/db"
	"squad-portal/backend/internal/training/domain"
)

const sessionColumns = "id, name, description, location, date, start_time, end_time, max_participants, is_aha_training, cost_member, cost_non_member, cost_recert, contact, created_by, created_at"
const signupColumns = "id, training_session_id, member_id, signup_type, signed_up_at, payment_confirmed, confirmed_by, confirmed_at"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a training repository that uses the given db for persistence.
func NewPostgresRepository(database *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: database}
}

// GetSessionByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM training_session WHERE id = $1", id)
	return scanSession(row)
}

// ListSessions returns sessions on or after from, soonest first.
func (r *PostgresRepository) ListSessions(ctx context.Context, from time.Time) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM training_session WHERE date >= $1 ORDER BY date, id", from)
	if err != nil {
		return nil, fmt.Errorf("query training sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateSession persists the session. The session must have ID set.
func (r *PostgresRepository) CreateSession(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO training_session
			(id, name, description, location, date, start_time, end_time, max_participants,
			 is_aha_training, cost_member, cost_non_member, cost_recert, contact, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, s.ID, s.Name, s.Description, s.Location, s.Date, s.StartTime, s.EndTime, s.MaxParticipants,
		s.IsAHATraining, s.CostMember, s.CostNonMember, s.CostRecert, s.Contact, s.CreatedBy, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert training session: %w", err)
	}
	return nil
}

// CreateSignup inserts the signup in one transaction: the session row is
// locked FOR UPDATE, the current count is taken under that lock, and only
// then is the row inserted. Two concurrent signups for the last seat
// serialize on the lock; the loser sees ErrSessionFull. The unique index on
// (training_session_id, member_id) catches duplicates regardless.
func (r *PostgresRepository) CreateSignup(ctx context.Context, s *domain.Signup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin training signup tx: %w", err)
	}
	defer tx.Rollback()

	var max sql.NullInt64
	err = tx.QueryRowContext(ctx,
		"SELECT max_participants FROM training_session WHERE id = $1 FOR UPDATE", s.TrainingID).Scan(&max)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("lock training session: %w", err)
	}

	if max.Valid {
		var count int64
		err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM training_signup WHERE training_session_id = $1", s.TrainingID).Scan(&count)
		if err != nil {
			return fmt.Errorf("count training signups: %w", err)
		}
		if count >= max.Int64 {
			return ErrSessionFull
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO training_signup (id, training_session_id, member_id, signup_type, signed_up_at, payment_confirmed)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`, s.ID, s.TrainingID, s.MemberID, s.SignupType, s.SignedUpAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateSignup
		}
		return fmt.Errorf("insert training signup: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit training signup: %w", err)
	}
	return nil
}

// GetSignupByTrainingAndMember returns the signup for the pair, or nil if not found.
func (r *PostgresRepository) GetSignupByTrainingAndMember(ctx context.Context, trainingID, memberID string) (*domain.Signup, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+signupColumns+" FROM training_signup WHERE training_session_id = $1 AND member_id = $2", trainingID, memberID)
	return scanSignup(row)
}

// GetSignupByIDAndTraining returns the signup matching both id and training,
// or nil if the pair does not match a row.
func (r *PostgresRepository) GetSignupByIDAndTraining(ctx context.Context, signupID, trainingID string) (*domain.Signup, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+signupColumns+" FROM training_signup WHERE id = $1 AND training_session_id = $2", signupID, trainingID)
	return scanSignup(row)
}

// CountSignupsByTraining returns the number of signups for the session.
func (r *PostgresRepository) CountSignupsByTraining(ctx context.Context, trainingID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM training_signup WHERE training_session_id = $1", trainingID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count training signups: %w", err)
	}
	return count, nil
}

// ConfirmPayment flips payment_confirmed exactly once, guarded in the WHERE
// clause the same way event assignment is.
func (r *PostgresRepository) ConfirmPayment(ctx context.Context, signupID, trainingID, confirmedBy string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE training_signup
		SET payment_confirmed = TRUE, confirmed_by = $3, confirmed_at = $4
		WHERE id = $1 AND training_session_id = $2 AND payment_confirmed = FALSE
	`, signupID, trainingID, confirmedBy, at)
	if err != nil {
		return false, fmt.Errorf("confirm training payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var description, contact sql.NullString
	var max sql.NullInt64
	var costMember, costNonMember, costRecert sql.NullFloat64
	err := row.Scan(&s.ID, &s.Name, &description, &s.Location, &s.Date, &s.StartTime, &s.EndTime,
		&max, &s.IsAHATraining, &costMember, &costNonMember, &costRecert, &contact, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan training session: %w", err)
	}
	s.Description = description.String
	s.Contact = contact.String
	if max.Valid {
		v := int(max.Int64)
		s.MaxParticipants = &v
	}
	if costMember.Valid {
		s.CostMember = &costMember.Float64
	}
	if costNonMember.Valid {
		s.CostNonMember = &costNonMember.Float64
	}
	if costRecert.Valid {
		s.CostRecert = &costRecert.Float64
	}
	return &s, nil
}

func scanSignup(row rowScanner) (*domain.Signup, error) {
	var s domain.Signup
	var confirmedBy sql.NullString
	var confirmedAt sql.NullTime
	err := row.Scan(&s.ID, &s.TrainingID, &s.MemberID, &s.SignupType, &s.SignedUpAt, &s.PaymentConfirmed, &confirmedBy, &confirmedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan training signup: %w", err)
	}
	if confirmedBy.Valid {
		s.ConfirmedBy = &confirmedBy.String
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		s.ConfirmedAt = &t
	}
	return &s, nil
}
