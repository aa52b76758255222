package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
)

// sqlFollowRequest est le DTO tampon entre la table et le domaine.
// Les deux snapshots de participants sont aplatis en colonnes : c'est la
// dénormalisation assumée (copie figée, pas de jointure vivante).
type sqlFollowRequest struct {
	ID             string
	RequestByID    string
	RequestByFirst string
	RequestByLast  string
	RequestByPhoto string
	RequestByPriv  bool
	RequestToID    string
	RequestToFirst string
	RequestToLast  string
	RequestToPhoto string
	RequestToPriv  bool
	Token          string
	Status         string
	IsExpired      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const followRequestColumns = `
	id,
	request_by_id, request_by_first_name, request_by_last_name, request_by_photo, request_by_private,
	request_to_id, request_to_first_name, request_to_last_name, request_to_photo, request_to_private,
	request_token, status, is_expired, created_at, updated_at`

type PostgresRequestRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRequestRepo(pool *pgxpool.Pool) *PostgresRequestRepo {
	return &PostgresRequestRepo{db: pool}
}

// EnsureSchema pose la table et les index (idempotent). L'index partiel
// ferme la course check-then-insert sur les demandes en attente : la
// contrainte de la base est la sécurité ultime contre le double-insert.
func (r *PostgresRequestRepo) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS follow_requests (
			id                     UUID PRIMARY KEY,
			request_by_id          UUID        NOT NULL,
			request_by_first_name  TEXT        NOT NULL,
			request_by_last_name   TEXT        NOT NULL,
			request_by_photo       TEXT        NOT NULL DEFAULT '',
			request_by_private     BOOLEAN     NOT NULL DEFAULT FALSE,
			request_to_id          UUID        NOT NULL,
			request_to_first_name  TEXT        NOT NULL,
			request_to_last_name   TEXT        NOT NULL,
			request_to_photo       TEXT        NOT NULL DEFAULT '',
			request_to_private     BOOLEAN     NOT NULL DEFAULT FALSE,
			request_token          TEXT        NOT NULL UNIQUE,
			status                 TEXT        NOT NULL DEFAULT 'PENDING',
			is_expired             BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at             TIMESTAMPTZ NOT NULL,
			updated_at             TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS follow_requests_active_pair
			ON follow_requests (request_by_id, request_to_id)
			WHERE NOT is_expired AND status = 'PENDING'`,
		`CREATE INDEX IF NOT EXISTS follow_requests_pending_to
			ON follow_requests (request_to_id)
			WHERE NOT is_expired AND status = 'PENDING'`,
	}

	for _, q := range statements {
		if _, err := r.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("friendship schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresRequestRepo) Create(ctx context.Context, req *domain.FollowRequest) error {
	q := `
		INSERT INTO follow_requests (` + followRequestColumns + `)
		VALUES (
			@id,
			@request_by_id, @request_by_first_name, @request_by_last_name, @request_by_photo, @request_by_private,
			@request_to_id, @request_to_first_name, @request_to_last_name, @request_to_photo, @request_to_private,
			@request_token, @status, @is_expired, @created_at, @updated_at
		)
	`

	args := pgx.NamedArgs{
		"id":                    req.ID,
		"request_by_id":         req.RequestBy.ID,
		"request_by_first_name": req.RequestBy.FirstName,
		"request_by_last_name":  req.RequestBy.LastName,
		"request_by_photo":      req.RequestBy.ProfilePhoto,
		"request_by_private":    req.RequestBy.IsPrivate,
		"request_to_id":         req.RequestTo.ID,
		"request_to_first_name": req.RequestTo.FirstName,
		"request_to_last_name":  req.RequestTo.LastName,
		"request_to_photo":      req.RequestTo.ProfilePhoto,
		"request_to_private":    req.RequestTo.IsPrivate,
		"request_token":         req.Token,
		"status":                string(req.Status),
		"is_expired":            req.IsExpired,
		"created_at":            req.CreatedAt,
		"updated_at":            req.UpdatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return r.handleError(err)
	}
	return nil
}

func (r *PostgresRequestRepo) FindActive(ctx context.Context, byID, toID string) (*domain.FollowRequest, error) {
	q := `SELECT ` + followRequestColumns + `
		FROM follow_requests
		WHERE request_by_id = $1 AND request_to_id = $2 AND NOT is_expired AND status = 'PENDING'`

	return r.queryOne(ctx, q, byID, toID)
}

func (r *PostgresRequestRepo) FindPendingFor(ctx context.Context, userID string) ([]*domain.FollowRequest, error) {
	q := `SELECT ` + followRequestColumns + `
		FROM follow_requests
		WHERE request_to_id = $1 AND NOT is_expired AND status = 'PENDING'
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("db: pending requests: %w", err)
	}
	defer rows.Close()

	var out []*domain.FollowRequest
	for rows.Next() {
		req, err := scanFollowRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *PostgresRequestRepo) FindPendingBetween(ctx context.Context, byID, toID string) (*domain.FollowRequest, error) {
	return r.FindActive(ctx, byID, toID)
}

func (r *PostgresRequestRepo) ResolveByToken(ctx context.Context, token string, status domain.FollowRequestStatus) (*domain.FollowRequest, error) {
	// Find-and-update atomique : la garde NOT is_expired rend le rejeu inerte.
	q := `
		UPDATE follow_requests
		SET status = $2, is_expired = TRUE, updated_at = now()
		WHERE request_token = $1 AND NOT is_expired
		RETURNING ` + followRequestColumns

	return r.queryOne(ctx, q, token, string(status))
}

func (r *PostgresRequestRepo) Revoke(ctx context.Context, byID, toID string) (*domain.FollowRequest, error) {
	// Le statut reste PENDING : c'est ce qui distingue "révoquée" de
	// "répondue" à l'audit.
	q := `
		UPDATE follow_requests
		SET is_expired = TRUE, updated_at = now()
		WHERE request_by_id = $1 AND request_to_id = $2 AND NOT is_expired
		RETURNING ` + followRequestColumns

	return r.queryOne(ctx, q, byID, toID)
}

// --- HELPERS ---

func (r *PostgresRequestRepo) queryOne(ctx context.Context, q string, args ...any) (*domain.FollowRequest, error) {
	req, err := scanFollowRequest(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db: follow request: %w", err)
	}
	return req, nil
}

func scanFollowRequest(row pgx.Row) (*domain.FollowRequest, error) {
	var u sqlFollowRequest
	err := row.Scan(
		&u.ID,
		&u.RequestByID, &u.RequestByFirst, &u.RequestByLast, &u.RequestByPhoto, &u.RequestByPriv,
		&u.RequestToID, &u.RequestToFirst, &u.RequestToLast, &u.RequestToPhoto, &u.RequestToPriv,
		&u.Token, &u.Status, &u.IsExpired, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return toDomain(&u), nil
}

func toDomain(u *sqlFollowRequest) *domain.FollowRequest {
	return &domain.FollowRequest{
		ID: u.ID,
		RequestBy: domain.Participant{
			ID:           u.RequestByID,
			FirstName:    u.RequestByFirst,
			LastName:     u.RequestByLast,
			ProfilePhoto: u.RequestByPhoto,
			IsPrivate:    u.RequestByPriv,
		},
		RequestTo: domain.Participant{
			ID:           u.RequestToID,
			FirstName:    u.RequestToFirst,
			LastName:     u.RequestToLast,
			ProfilePhoto: u.RequestToPhoto,
			IsPrivate:    u.RequestToPriv,
		},
		Token:     u.Token,
		Status:    domain.FollowRequestStatus(u.Status),
		IsExpired: u.IsExpired,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// handleError traduit les codes PostgreSQL en erreurs du domaine.
func (r *PostgresRequestRepo) handleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = violation d'unicité : une course qui a traversé le
		// check-then-insert retombe sur l'index partiel.
		if pgErr.Code == "23505" && pgErr.ConstraintName == "follow_requests_active_pair" {
			return domain.ErrDuplicateRequest
		}
	}
	return err
}
