package repo

import (
	"context"
	"database/sql"

	"github.com/marketbay/service-account-go/internal/category/entity"
)

// Repo is the repository for categories backed by PostgreSQL.
type Repo struct {
	db *sql.DB
}

// NewRepo constructs a new Repo with an existing *sql.DB connection.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// EnsureTable creates the categories table if it does not already exist.
func (r *Repo) EnsureTable(ctx context.Context) error {
	const tbl = `
	CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	_, err := r.db.ExecContext(ctx, tbl)
	return err
}

// List returns all categories ordered by id.
func (r *Repo) List(ctx context.Context) ([]entity.Category, error) {
	const q = `SELECT id, name, created_at FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Category{}
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a category and returns the generated id.
func (r *Repo) Create(ctx context.Context, name string) (int64, error) {
	const q = `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Delete removes a category by id and returns the number of rows deleted.
func (r *Repo) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM categories WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
