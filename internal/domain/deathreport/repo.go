package deathreport

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists death reports. Lookups return db.ErrNotFound when no
// report matches; Create returns ErrDuplicateReport when the participant
// already has one.
type Repository interface {
	Create(ctx context.Context, r *DeathReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*DeathReport, error)
	GetBySubject(ctx context.Context, subjectIdentifier string) (*DeathReport, error)
	Update(ctx context.Context, r *DeathReport) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*DeathReport, int, error)
}
