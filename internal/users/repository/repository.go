package repository

import (
	"context"
	"time"

	"user_management_backend/internal/users"
	"user_management_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id, email, full_name, role::text, status::text, last_login, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (users.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1`, id)
	profile, err := scanProfile(row)
	if err != nil {
		return users.Profile{}, db.TranslateError("users.GetByID", err)
	}
	return profile, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, db.TranslateError("users.Count", err)
	}
	return total, nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]users.Profile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM users
		ORDER BY created_at DESC, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, db.TranslateError("users.List", err)
	}
	defer rows.Close()

	items := make([]users.Profile, 0, limit)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, db.TranslateError("users.List", err)
		}
		items = append(items, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, db.TranslateError("users.List", err)
	}
	return items, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, update users.ProfileUpdate) (users.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
			email = COALESCE($3, email),
			updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, update.FullName, update.Email,
	)
	profile, err := scanProfile(row)
	if err != nil {
		return users.Profile{}, db.TranslateError("users.Update", err)
	}
	return profile, nil
}

func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status users.Status) (users.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET status = $2::user_status, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, string(status),
	)
	profile, err := scanProfile(row)
	if err != nil {
		return users.Profile{}, db.TranslateError("users.SetStatus", err)
	}
	return profile, nil
}

func (r *Repository) SetRole(ctx context.Context, id uuid.UUID, role users.Role) (users.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET role = $2::user_role, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, string(role),
	)
	profile, err := scanProfile(row)
	if err != nil {
		return users.Profile{}, db.TranslateError("users.SetRole", err)
	}
	return profile, nil
}

func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return db.TranslateError("users.TouchLastLogin", err)
	}
	if tag.RowsAffected() == 0 {
		return db.TranslateError("users.TouchLastLogin", pgx.ErrNoRows)
	}
	return nil
}

func scanProfile(row pgx.Row) (users.Profile, error) {
	var (
		p      users.Profile
		role   string
		status string
	)
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&role,
		&status,
		&p.LastLogin,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return users.Profile{}, err
	}
	p.Role = users.Role(role)
	p.Status = users.Status(status)
	return p, nil
}
