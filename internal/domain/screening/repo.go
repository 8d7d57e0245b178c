package screening

import (
	"context"
	"errors"
)

var (
	ErrDuplicateScreening      = errors.New("participant has already been screened")
	ErrDuplicateConsentVersion = errors.New("consent version already recorded for this screening")
	ErrUnknownScreening        = errors.New("no screening with this screening identifier")
)

// Repository stores screenings of every kind. Lookups return db.ErrNotFound
// when nothing matches.
type Repository interface {
	Create(ctx context.Context, s *Screening) error
	GetBySubject(ctx context.Context, kind Kind, subjectIdentifier string) (*Screening, error)
	GetByScreeningIdentifier(ctx context.Context, screeningIdentifier string) (*Screening, error)
}

type ConsentVersionRepository interface {
	Create(ctx context.Context, cv *ConsentVersion) error
	GetByScreeningIdentifier(ctx context.Context, screeningIdentifier string) (*ConsentVersion, error)
}
