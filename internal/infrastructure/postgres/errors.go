package postgres

import (
	"errors"
	"fmt"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Messages for unique indexes whose violation has a user-facing meaning.
var conflictMessages = map[string]string{
	"accounts_email_key":           "email already registered",
	"accounts_firebase_uid_key":    "identity already linked to another account",
	"company_profile_owner_id_key": "company profile already exists for this user",
}

// mapError translates driver errors into domain sentinels; what names the
// entity for not-found messages.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s not found: %w", what, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		msg, ok := conflictMessages[pgErr.ConstraintName]
		if !ok {
			msg = "duplicate entry found"
		}
		return fmt.Errorf("%s: %w", msg, domain.ErrConflict)
	case codeForeignKeyViolation:
		return fmt.Errorf("referenced record not found: %w", domain.ErrNotFound)
	case codeCheckViolation:
		return domain.NewValidationError("invalid value", pgErr.ConstraintName)
	}
	return err
}
