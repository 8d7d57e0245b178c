package deathreport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/flourish/flourish-prn/internal/platform/db"
)

// ScreeningSource finds the screening identifier recorded for a participant.
// Implementations return db.ErrNotFound when the participant was not
// screened through them.
type ScreeningSource interface {
	Name() string
	ScreeningIdentifier(ctx context.Context, subjectIdentifier string) (string, error)
}

// ConsentVersionSource finds the consent version recorded for a screening.
// It returns db.ErrNotFound when none exists.
type ConsentVersionSource interface {
	ConsentVersion(ctx context.Context, screeningIdentifier string) (string, error)
}

// NormalizeSubjectIdentifier strips the trailing sub-identifier segment from
// a four-segment identifier ("B142-040990462-6-10" becomes
// "B142-040990462-6"). Other identifiers are returned unchanged.
func NormalizeSubjectIdentifier(id string) string {
	if strings.Count(id, "-") != 3 {
		return id
	}
	return id[:strings.LastIndex(id, "-")]
}

// ConsentResolver derives a participant's consent version from the
// screening record and the consent version record it points to.
type ConsentResolver struct {
	screenings []ScreeningSource
	versions   ConsentVersionSource
}

// NewConsentResolver tries screenings in the given order; the first source
// that knows the participant wins.
func NewConsentResolver(versions ConsentVersionSource, screenings ...ScreeningSource) *ConsentResolver {
	return &ConsentResolver{screenings: screenings, versions: versions}
}

// Resolve returns the consent version for subjectIdentifier.
// ErrMissingScreeningForm and ErrMissingConsentVersionForm report an
// incomplete prerequisite form; any other error is a fault.
func (r *ConsentResolver) Resolve(ctx context.Context, subjectIdentifier string) (string, error) {
	log := zerolog.Ctx(ctx)
	key := NormalizeSubjectIdentifier(subjectIdentifier)

	screeningID, source, err := r.findScreening(ctx, key)
	if err != nil {
		return "", err
	}

	version, err := r.versions.ConsentVersion(ctx, screeningID)
	if errors.Is(err, db.ErrNotFound) {
		log.Debug().Str("subject_identifier", key).Str("screening_identifier", screeningID).
			Msg("no consent version for screening")
		return "", ErrMissingConsentVersionForm
	}
	if err != nil {
		return "", fmt.Errorf("look up consent version for %s: %w", screeningID, err)
	}

	log.Debug().
		Str("subject_identifier", key).
		Str("screening_source", source).
		Str("screening_identifier", screeningID).
		Str("consent_version", version).
		Msg("consent version resolved")
	return version, nil
}

func (r *ConsentResolver) findScreening(ctx context.Context, key string) (string, string, error) {
	for _, src := range r.screenings {
		id, err := src.ScreeningIdentifier(ctx, key)
		if err == nil {
			return id, src.Name(), nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return "", "", fmt.Errorf("look up %s screening for %s: %w", src.Name(), key, err)
		}
	}
	zerolog.Ctx(ctx).Debug().Str("subject_identifier", key).Msg("participant not screened")
	return "", "", ErrMissingScreeningForm
}
