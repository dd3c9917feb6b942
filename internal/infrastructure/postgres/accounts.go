package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, email, password_hash, full_name, gender, mobile_no, signup_type,
	firebase_uid, is_email_verified, is_mobile_verified, created_at, updated_at`

// Columns a profile update may touch.
var accountProfileColumns = map[string]bool{
	"full_name": true,
	"gender":    true,
}

// AccountRepo is the credential store.
type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.Gender, &a.MobileNo, &a.SignupType,
		&a.FirebaseUID, &a.IsEmailVerified, &a.IsMobileVerified, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "account")
	}
	return &a, nil
}

// Create inserts a new account. A duplicate email surfaces as domain.ErrConflict.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, full_name, gender, mobile_no, signup_type,
			firebase_uid, is_email_verified, is_mobile_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.Email, a.PasswordHash, a.FullName, a.Gender, a.MobileNo, a.SignupType,
		a.FirebaseUID, a.IsEmailVerified, a.IsMobileVerified, a.CreatedAt, a.UpdatedAt,
	)
	return mapError(err, "account")
}

func (r *AccountRepo) Get(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

// UpdateProfile applies a partial update restricted to the profile columns.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (*domain.Account, error) {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		if !accountProfileColumns[k] {
			return nil, fmt.Errorf("column %q is not updatable: %w", k, domain.ErrValidation)
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, domain.NewValidationError("no valid fields to update")
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+1)
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, updates[k])
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	sql := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountColumns)
	return scanAccount(r.pool.QueryRow(ctx, sql, args...))
}

// UpdatePhone stores a new number and clears its verification in one statement.
func (r *AccountRepo) UpdatePhone(ctx context.Context, id, e164 string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		UPDATE accounts SET mobile_no = $1, is_mobile_verified = FALSE, updated_at = now()
		WHERE id = $2
		RETURNING `+accountColumns, e164, id))
}

func (r *AccountRepo) MarkEmailVerified(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		UPDATE accounts SET is_email_verified = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns, id))
}

func (r *AccountRepo) MarkMobileVerified(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		UPDATE accounts SET is_mobile_verified = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns, id))
}

// ReplacePasswordHash reads the current hash and writes the one returned by
// next on a single dedicated connection. next sees the stored hash and may
// refuse the change by returning an error, in which case nothing is written.
// The two statements are not wrapped in a transaction.
func (r *AccountRepo) ReplacePasswordHash(ctx context.Context, id string, next func(current string) (string, error)) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var current string
	if err := conn.QueryRow(ctx, `SELECT password_hash FROM accounts WHERE id = $1`, id).Scan(&current); err != nil {
		return mapError(err, "account")
	}
	newHash, err := next(current)
	if err != nil {
		return err
	}
	tag, err := conn.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2`, newHash, id)
	if err != nil {
		return mapError(err, "account")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	return nil
}
