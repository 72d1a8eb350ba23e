package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgErrorHelpers(t *testing.T) {
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: invitationProfessionalFK})

	if !isForeignKeyViolation(fk) || isUniqueViolation(fk) {
		t.Fatalf("expected a foreign key violation")
	}
	if got := violatedConstraint(fk); got != invitationProfessionalFK {
		t.Fatalf("constraint = %q", got)
	}
	if got := violatedConstraint(fmt.Errorf("plain")); got != "" {
		t.Fatalf("expected no constraint, got %q", got)
	}
}
