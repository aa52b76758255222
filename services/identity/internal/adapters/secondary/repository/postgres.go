package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/domain"
)

// sqlUser est le DTO tampon entre la table et le domaine.
type sqlUser struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	ProfilePhoto string
	IsPrivate    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const userColumns = `id, first_name, last_name, email, profile_photo, is_private, created_at, updated_at`

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: pool}
}

func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	q := `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			first_name    TEXT        NOT NULL,
			last_name     TEXT        NOT NULL,
			email         TEXT        NOT NULL UNIQUE,
			profile_photo TEXT        NOT NULL DEFAULT '',
			is_private    BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("identity schema: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (` + userColumns + `)
		VALUES (@id, @first_name, @last_name, @email, @profile_photo, @is_private, @created_at, @updated_at)
	`
	args := pgx.NamedArgs{
		"id":            user.ID,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"email":         user.Email,
		"profile_photo": user.ProfilePhoto,
		"is_private":    user.IsPrivate,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return r.handleError(err)
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u sqlUser
	err := r.db.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.ProfilePhoto, &u.IsPrivate, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db: get by id: %w", err)
	}
	return toDomain(&u), nil
}

func (r *PostgresRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("db: get by ids: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *PostgresRepo) Search(ctx context.Context, query string) ([]*domain.User, error) {
	q := `
		SELECT ` + userColumns + ` FROM users
		WHERE first_name ILIKE '%' || $1 || '%'
		   OR last_name  ILIKE '%' || $1 || '%'
		   OR email      ILIKE '%' || $1 || '%'
		ORDER BY first_name, last_name
		LIMIT 50
	`
	rows, err := r.db.Query(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("db: search: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *PostgresRepo) Update(ctx context.Context, user *domain.User) error {
	q := `
		UPDATE users
		SET first_name = @first_name, last_name = @last_name, profile_photo = @profile_photo,
		    is_private = @is_private, updated_at = @updated_at
		WHERE id = @id
	`
	args := pgx.NamedArgs{
		"id":            user.ID,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"profile_photo": user.ProfilePhoto,
		"is_private":    user.IsPrivate,
		"updated_at":    user.UpdatedAt,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return r.handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// --- HELPERS ---

func collectUsers(rows pgx.Rows) ([]*domain.User, error) {
	var out []*domain.User
	for rows.Next() {
		var u sqlUser
		err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.ProfilePhoto, &u.IsPrivate, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db: scan user: %w", err)
		}
		out = append(out, toDomain(&u))
	}
	return out, rows.Err()
}

func toDomain(u *sqlUser) *domain.User {
	return &domain.User{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
		IsPrivate:    u.IsPrivate,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *PostgresRepo) handleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return domain.ErrEmailAlreadyExists
		}
	}
	return err
}
