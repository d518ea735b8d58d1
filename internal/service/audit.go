package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/primecutstudio/outreach/internal/repository"
)

const auditWriteTimeout = 5 * time.Second

// AuditRecorder writes search history on a best-effort basis. This is the one
// place in the pipeline where failure is explicitly non-propagating: every
// problem is logged and swallowed so the already-computed response is never
// affected.
type AuditRecorder struct {
	repo repository.AuditRepository
}

// NewAuditRecorder wires a recorder. A nil repository disables persistence
// entirely, which keeps the pipeline usable without a database.
func NewAuditRecorder(repo repository.AuditRepository) *AuditRecorder {
	return &AuditRecorder{repo: repo}
}

// Record enriches and persists one history row. It never returns an error.
// The write runs against a fresh background context so a caller disconnect
// cannot cancel it mid-flight.
func (r *AuditRecorder) Record(rec repository.AuditRecord) {
	if r == nil || r.repo == nil {
		return
	}
	if rec.RequesterID == "" {
		log.Printf("audit: skipping history write, requester identity missing")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	requester, err := r.repo.FindRequester(ctx, rec.RequesterID)
	switch {
	case err == nil:
		if requester.Name != "" {
			rec.RequesterName = requester.Name
		}
		rec.RequesterEmail = requester.Email
	case errors.Is(err, repository.ErrRequesterNotFound):
		// keep the caller-supplied name and an empty email
	default:
		log.Printf("audit: requester lookup failed: %v", err)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := r.repo.InsertSearch(ctx, rec); err != nil {
		log.Printf("audit: history write failed: %v", err)
	}
}
