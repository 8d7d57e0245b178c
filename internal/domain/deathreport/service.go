package deathreport

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flourish/flourish-prn/internal/platform/auth"
	"github.com/flourish/flourish-prn/internal/platform/db"
	"github.com/flourish/flourish-prn/internal/platform/events"
)

// TxFunc runs fn in a transaction carried by the context it passes on.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func noTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type Service struct {
	repo     Repository
	validate *Validator
	consent  *ConsentResolver
	label    LabelFormat
	tx       TxFunc
	events   events.Publisher
}

func NewService(repo Repository, v *Validator, consent *ConsentResolver, label LabelFormat) *Service {
	return &Service{repo: repo, validate: v, consent: consent, label: label, tx: noTx, events: events.Nop{}}
}

// SetTx makes Save run its lookups and the write in one transaction.
func (s *Service) SetTx(tx TxFunc) {
	if tx == nil {
		tx = noTx
	}
	s.tx = tx
}

// SetPublisher announces saved and deleted reports on p.
func (s *Service) SetPublisher(p events.Publisher) {
	if p == nil {
		p = events.Nop{}
	}
	s.events = p
}

// publish never fails the operation that triggered it; the record is
// already committed.
func (s *Service) publish(ctx context.Context, typ string, r *DeathReport) {
	e := events.Event{
		Type:              typ,
		RecordID:          r.ID.String(),
		SubjectIdentifier: r.SubjectIdentifier,
		ConsentVersion:    r.ConsentVersion,
		UserID:            auth.UserIDFromContext(ctx),
		OccurredAt:        s.validate.Rules().now().UTC(),
	}
	if err := s.events.Publish(ctx, e); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("type", typ).Str("id", e.RecordID).Msg("event not published")
	}
}

// Label renders r with the configured short-date format.
func (s *Service) Label(r *DeathReport) string { return r.RenderLabel(s.label) }

// ResolveConsentVersion derives the consent version for r's participant.
func (s *Service) ResolveConsentVersion(ctx context.Context, r *DeathReport) (string, error) {
	return s.consent.Resolve(ctx, r.SubjectIdentifier)
}

// Create records a new report from f. An absent report_datetime means now.
func (s *Service) Create(ctx context.Context, f *Form) (*DeathReport, error) {
	if f.ReportDatetime == nil {
		now := s.validate.Rules().now()
		f.ReportDatetime = &now
	}
	r, err := s.fromForm(f, uuid.New())
	if err != nil {
		return nil, err
	}
	r.CreatedBy = auth.UserIDFromContext(ctx)
	if err := s.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the report id with the contents of f. An absent
// report_datetime keeps the stored one.
func (s *Service) Update(ctx context.Context, id uuid.UUID, f *Form) (*DeathReport, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.ReportDatetime == nil {
		rd := existing.ReportDatetime
		f.ReportDatetime = &rd
	}
	r, err := s.fromForm(f, id)
	if err != nil {
		return nil, err
	}
	r.CreatedBy = existing.CreatedBy
	if err := s.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) fromForm(f *Form, id uuid.UUID) (*DeathReport, error) {
	if err := s.validate.Validate(f); err != nil {
		return nil, err
	}
	return f.Record(id)
}

// Save validates r, assigns its consent version and writes it, inserting
// when no report with r.ID exists yet. Nothing is written when any step
// fails.
func (s *Service) Save(ctx context.Context, r *DeathReport) error {
	log := zerolog.Ctx(ctx)
	if r.ReportDatetime.IsZero() {
		r.ReportDatetime = s.validate.Rules().now().UTC()
	}
	f := FormOf(r)
	if err := s.validate.Validate(&f); err != nil {
		log.Warn().Err(err).Str("subject_identifier", r.SubjectIdentifier).Msg("death report rejected")
		return err
	}

	err := s.tx(ctx, func(ctx context.Context) error {
		version, err := s.ResolveConsentVersion(ctx, r)
		if err != nil {
			return err
		}
		r.ConsentVersion = version

		if r.ID == uuid.Nil {
			return s.repo.Create(ctx, r)
		}
		_, err = s.repo.GetByID(ctx, r.ID)
		switch {
		case errors.Is(err, db.ErrNotFound):
			return s.repo.Create(ctx, r)
		case err != nil:
			return fmt.Errorf("load death report %s: %w", r.ID, err)
		}
		return s.repo.Update(ctx, r)
	})
	if err != nil {
		if _, ok := AsFailures(err); ok {
			log.Warn().Err(err).Str("subject_identifier", r.SubjectIdentifier).Msg("death report rejected")
		}
		return err
	}

	log.Info().
		Str("id", r.ID.String()).
		Str("subject_identifier", r.SubjectIdentifier).
		Str("consent_version", r.ConsentVersion).
		Msg("death report saved")
	s.publish(ctx, events.TypeDeathReportSaved, r)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DeathReport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySubject(ctx context.Context, subjectIdentifier string) (*DeathReport, error) {
	return s.repo.GetBySubject(ctx, subjectIdentifier)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*DeathReport, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("id", id.String()).Msg("death report deleted")
	s.publish(ctx, events.TypeDeathReportDeleted, r)
	return nil
}
