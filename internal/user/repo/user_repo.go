package repo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/marketbay/service-account-go/internal/user/entity"
)

// ErrDuplicateEmail reports a violation of the unique email constraint. The
// service pre-checks for existing emails, but two concurrent signups can both
// pass that check; the constraint is the actual backstop and its violation is
// translated here.
var ErrDuplicateEmail = errors.New("duplicate email")

// uniqueViolation is the Postgres error code for unique_violation.
const uniqueViolation = "23505"

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new user row and returns the generated ID. A unique
// constraint violation on email is returned as ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (int64, error) {
	const q = `INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &u.ID, q, u.Name, u.Email, u.PasswordHash, u.Role); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return u.ID, nil
}

// GetByEmail returns a user matched by email or sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByID fetches a full user row or sql.ErrNoRows.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	const q = `SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE id=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	const q = `SELECT id, name, email, password_hash, role, created_at
		FROM users ORDER BY id`
	rows := []entity.User{}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByID removes a user row and reports whether a row was deleted.
func (r *UserRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM users WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
