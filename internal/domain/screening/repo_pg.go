package screening

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flourish/flourish-prn/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// maternalCol is selected as NULL for tables without the column so every
// kind scans the same way.
func maternalCol(k Kind) string {
	if k == KindPriorParticipant {
		return "study_maternal_identifier"
	}
	return "NULL::VARCHAR"
}

func selectSQL(k Kind, where string) string {
	return fmt.Sprintf(`SELECT id, screening_identifier, subject_identifier, %s,
		report_datetime, created_at, updated_at FROM %s WHERE %s`, maternalCol(k), k.table(), where)
}

func scanScreening(k Kind, row pgx.Row) (*Screening, error) {
	s := Screening{Kind: k}
	err := row.Scan(&s.ID, &s.ScreeningIdentifier, &s.SubjectIdentifier, &s.StudyMaternalIdentifier,
		&s.ReportDatetime, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *Screening) error {
	if s.Kind.table() == "" {
		return fmt.Errorf("unknown screening kind %q", s.Kind)
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	q := db.Conn(ctx, r.pool)
	var err error
	if s.Kind == KindPriorParticipant {
		err = q.QueryRow(ctx, `
			INSERT INTO screening_prior_bhp_participants (id, screening_identifier, subject_identifier,
				study_maternal_identifier, report_datetime)
			VALUES ($1,$2,$3,$4,$5) RETURNING created_at, updated_at`,
			s.ID, s.ScreeningIdentifier, s.SubjectIdentifier, s.StudyMaternalIdentifier, s.ReportDatetime,
		).Scan(&s.CreatedAt, &s.UpdatedAt)
	} else {
		err = q.QueryRow(ctx, `
			INSERT INTO screening_preg_women (id, screening_identifier, subject_identifier, report_datetime)
			VALUES ($1,$2,$3,$4) RETURNING created_at, updated_at`,
			s.ID, s.ScreeningIdentifier, s.SubjectIdentifier, s.ReportDatetime,
		).Scan(&s.CreatedAt, &s.UpdatedAt)
	}
	if db.IsUniqueViolation(err) {
		return ErrDuplicateScreening
	}
	if err != nil {
		return fmt.Errorf("insert %s screening: %w", s.Kind, err)
	}
	return nil
}

func (r *repoPG) GetBySubject(ctx context.Context, kind Kind, subjectIdentifier string) (*Screening, error) {
	if kind.table() == "" {
		return nil, fmt.Errorf("unknown screening kind %q", kind)
	}
	return scanScreening(kind, db.Conn(ctx, r.pool).QueryRow(ctx,
		selectSQL(kind, "subject_identifier = $1"), subjectIdentifier))
}

func (r *repoPG) GetByScreeningIdentifier(ctx context.Context, screeningIdentifier string) (*Screening, error) {
	for _, k := range Kinds {
		s, err := scanScreening(k, db.Conn(ctx, r.pool).QueryRow(ctx,
			selectSQL(k, "screening_identifier = $1"), screeningIdentifier))
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("look up %s screening %s: %w", k, screeningIdentifier, err)
		}
	}
	return nil, db.ErrNotFound
}

type consentRepoPG struct{ pool *pgxpool.Pool }

func NewConsentVersionRepoPG(pool *pgxpool.Pool) ConsentVersionRepository {
	return &consentRepoPG{pool: pool}
}

func (r *consentRepoPG) Create(ctx context.Context, cv *ConsentVersion) error {
	if cv.ID == uuid.Nil {
		cv.ID = uuid.New()
	}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO flourish_consent_version (id, screening_identifier, version, child_version, report_datetime)
		VALUES ($1,$2,$3,$4,$5) RETURNING created_at, updated_at`,
		cv.ID, cv.ScreeningIdentifier, cv.Version, cv.ChildVersion, cv.ReportDatetime,
	).Scan(&cv.CreatedAt, &cv.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateConsentVersion
	}
	if err != nil {
		return fmt.Errorf("insert consent version: %w", err)
	}
	return nil
}

func (r *consentRepoPG) GetByScreeningIdentifier(ctx context.Context, screeningIdentifier string) (*ConsentVersion, error) {
	var cv ConsentVersion
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, screening_identifier, version, child_version, report_datetime, created_at, updated_at
		FROM flourish_consent_version WHERE screening_identifier = $1`, screeningIdentifier,
	).Scan(&cv.ID, &cv.ScreeningIdentifier, &cv.Version, &cv.ChildVersion,
		&cv.ReportDatetime, &cv.CreatedAt, &cv.UpdatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &cv, nil
}
