package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubPool struct {
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *stubPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if s.execFunc != nil {
		return s.execFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, errors.New("exec not implemented")
}

func (s *stubPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, sql, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return errors.New("query row not implemented") }}
}

type stubRow struct {
	scan func(dest ...any) error
}

func (s *stubRow) Scan(dest ...any) error {
	return s.scan(dest...)
}

func TestInsertSearch(t *testing.T) {
	affiliateID := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	var captured []any
	repo := &PGXAuditRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			captured = args
			return pgconn.CommandTag{}, nil
		},
	}}

	rec := AuditRecord{
		RequesterID:   affiliateID.String(),
		RequesterName: "Carlos",
		SearchType:    "business_discovery",
		Query:         "barbearia em Fortaleza, CE",
		City:          "Fortaleza",
		Region:        "CE",
		Niche:         "barbearia",
		ResultCount:   7,
		CreditsUsed:   7,
	}
	if err := repo.InsertSearch(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captured) != 12 {
		t.Fatalf("expected 12 args, got %d", len(captured))
	}
	if captured[1] != affiliateID {
		t.Fatalf("expected affiliate id arg, got %v", captured[1])
	}
	if captured[9] != 7 || captured[10] != 7 {
		t.Fatalf("expected result count and credits, got %v %v", captured[9], captured[10])
	}
	if ts, ok := captured[11].(time.Time); !ok || ts.IsZero() {
		t.Fatalf("expected a created_at timestamp, got %v", captured[11])
	}
}

func TestInsertSearch_InvalidRequesterID(t *testing.T) {
	repo := &PGXAuditRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			t.Fatalf("exec must not be called for an invalid id")
			return pgconn.CommandTag{}, nil
		},
	}}

	err := repo.InsertSearch(context.Background(), AuditRecord{RequesterID: "not-a-uuid"})
	if !errors.Is(err, ErrRequesterNotFound) {
		t.Fatalf("expected ErrRequesterNotFound, got %v", err)
	}
}

func TestInsertSearch_ForeignKeyViolation(t *testing.T) {
	repo := &PGXAuditRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23503", Message: "violates foreign key"}
		},
	}}

	err := repo.InsertSearch(context.Background(), AuditRecord{
		RequesterID: uuid.NewString(),
	})
	if !errors.Is(err, ErrRequesterNotFound) {
		t.Fatalf("expected ErrRequesterNotFound for fk violation, got %v", err)
	}
}

func TestFindRequester(t *testing.T) {
	repo := &PGXAuditRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*string) = "Carlos Silva"
				*dest[1].(*string) = "carlos@example.com"
				return nil
			}}
		},
	}}

	requester, err := repo.FindRequester(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requester.Name != "Carlos Silva" || requester.Email != "carlos@example.com" {
		t.Fatalf("unexpected requester: %+v", requester)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	if _, err := repo.FindRequester(context.Background(), uuid.NewString()); !errors.Is(err, ErrRequesterNotFound) {
		t.Fatalf("expected ErrRequesterNotFound, got %v", err)
	}

	if _, err := repo.FindRequester(context.Background(), "nope"); !errors.Is(err, ErrRequesterNotFound) {
		t.Fatalf("expected ErrRequesterNotFound for invalid id, got %v", err)
	}
}
