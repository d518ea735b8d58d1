package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRecord captures one discovery request for the search history table.
// It is append-only: nothing in the pipeline ever reads it back.
type AuditRecord struct {
	RequesterID    string
	RequesterName  string
	RequesterEmail string
	SearchType     string
	Query          string
	City           string
	Region         string
	Niche          string
	ResultCount    int
	CreditsUsed    int
	CreatedAt      time.Time
}

// Requester is the display identity read back to enrich an audit row.
type Requester struct {
	Name  string
	Email string
}

// ErrRequesterNotFound is returned when no affiliate matches the identity.
var ErrRequesterNotFound = errors.New("requester not found")

// AuditRepository persists search history rows and resolves requester
// identities.
type AuditRepository interface {
	InsertSearch(ctx context.Context, rec AuditRecord) error
	FindRequester(ctx context.Context, id string) (Requester, error)
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGXAuditRepository implements AuditRepository using pgx.
type PGXAuditRepository struct {
	pool pgxPool
}

// NewPGXAuditRepository wires a pgx backed audit repository.
func NewPGXAuditRepository(pool *pgxpool.Pool) *PGXAuditRepository {
	return &PGXAuditRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)
var _ AuditRepository = (*PGXAuditRepository)(nil)

// InsertSearch appends one row to the search history.
func (r *PGXAuditRepository) InsertSearch(ctx context.Context, rec AuditRecord) error {
	affiliateID, err := uuid.Parse(rec.RequesterID)
	if err != nil {
		return fmt.Errorf("%w: invalid requester id %q", ErrRequesterNotFound, rec.RequesterID)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.pool.Exec(ctx, `
        INSERT INTO search_history (
            id, affiliate_id, affiliate_name, affiliate_email,
            search_type, query, city, region, niche,
            result_count, credits_used, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `,
		uuid.New(),
		affiliateID,
		rec.RequesterName,
		rec.RequesterEmail,
		rec.SearchType,
		rec.Query,
		rec.City,
		rec.Region,
		rec.Niche,
		rec.ResultCount,
		rec.CreditsUsed,
		createdAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: %v", ErrRequesterNotFound, pgErr)
		}
		return fmt.Errorf("insert search history: %w", err)
	}
	return nil
}

// FindRequester resolves the affiliate display name and email by identity.
func (r *PGXAuditRepository) FindRequester(ctx context.Context, id string) (Requester, error) {
	affiliateID, err := uuid.Parse(id)
	if err != nil {
		return Requester{}, fmt.Errorf("%w: invalid requester id %q", ErrRequesterNotFound, id)
	}

	row := r.pool.QueryRow(ctx, `SELECT name, email FROM affiliates WHERE id = $1`, affiliateID)

	var requester Requester
	if err := row.Scan(&requester.Name, &requester.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Requester{}, ErrRequesterNotFound
		}
		return Requester{}, fmt.Errorf("query requester by id: %w", err)
	}
	return requester, nil
}
