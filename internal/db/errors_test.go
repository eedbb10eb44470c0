package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !IsUniqueViolation(dup) {
		t.Error("IsUniqueViolation(23505) = false, want true")
	}
	if !IsUniqueViolation(fmt.Errorf("insert signup: %w", dup)) {
		t.Error("wrapped 23505 not detected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation misreported as unique violation")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Error("plain error misreported as unique violation")
	}
	if IsUniqueViolation(nil) {
		t.Error("nil misreported as unique violation")
	}
}
