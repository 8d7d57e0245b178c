package screening

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flourish/flourish-prn/internal/platform/db"
)

type Service struct {
	repo     Repository
	versions ConsentVersionRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, versions ConsentVersionRepository) *Service {
	s := &Service{repo: repo, versions: versions, now: time.Now}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	if err := v.RegisterValidation("not_future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.After(s.now())
	}); err != nil {
		panic(err)
	}
	s.validate = v
	return s
}

func (s *Service) RegisterPregnancyScreening(ctx context.Context, req *ScreeningRequest) (*Screening, error) {
	return s.register(ctx, KindPregnancy, req)
}

func (s *Service) RegisterPriorParticipantScreening(ctx context.Context, req *ScreeningRequest) (*Screening, error) {
	return s.register(ctx, KindPriorParticipant, req)
}

// register records a screening. A participant is screened once, through one
// kind only. An empty screening identifier is generated.
func (s *Service) register(ctx context.Context, kind Kind, req *ScreeningRequest) (*Screening, error) {
	s.defaultTime(&req.ReportDatetime)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	for _, k := range Kinds {
		_, err := s.repo.GetBySubject(ctx, k, req.SubjectIdentifier)
		if err == nil {
			return nil, ErrDuplicateScreening
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("check existing screening: %w", err)
		}
	}

	sc := &Screening{
		Kind:                kind,
		ScreeningIdentifier: req.ScreeningIdentifier,
		SubjectIdentifier:   req.SubjectIdentifier,
		ReportDatetime:      req.ReportDatetime.UTC(),
	}
	if sc.ScreeningIdentifier == "" {
		sc.ScreeningIdentifier = NewScreeningIdentifier()
	}
	if kind == KindPriorParticipant && req.StudyMaternalIdentifier != "" {
		m := req.StudyMaternalIdentifier
		sc.StudyMaternalIdentifier = &m
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("kind", string(kind)).
		Str("subject_identifier", sc.SubjectIdentifier).
		Str("screening_identifier", sc.ScreeningIdentifier).
		Msg("screening registered")
	return sc, nil
}

// RegisterConsentVersion records the consent version signed for an existing
// screening.
func (s *Service) RegisterConsentVersion(ctx context.Context, req *ConsentVersionRequest) (*ConsentVersion, error) {
	s.defaultTime(&req.ReportDatetime)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByScreeningIdentifier(ctx, req.ScreeningIdentifier); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUnknownScreening
		}
		return nil, fmt.Errorf("check screening: %w", err)
	}

	cv := &ConsentVersion{
		ScreeningIdentifier: req.ScreeningIdentifier,
		Version:             req.Version,
		ReportDatetime:      req.ReportDatetime.UTC(),
	}
	if req.ChildVersion != "" {
		child := req.ChildVersion
		cv.ChildVersion = &child
	}
	if err := s.versions.Create(ctx, cv); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("screening_identifier", cv.ScreeningIdentifier).
		Str("version", cv.Version).
		Msg("consent version registered")
	return cv, nil
}

// GetBySubject returns the participant's screening, whichever kind it is.
func (s *Service) GetBySubject(ctx context.Context, subjectIdentifier string) (*Screening, error) {
	for _, k := range Kinds {
		sc, err := s.repo.GetBySubject(ctx, k, subjectIdentifier)
		if !errors.Is(err, db.ErrNotFound) {
			return sc, err
		}
	}
	return nil, db.ErrNotFound
}

func (s *Service) GetConsentVersion(ctx context.Context, screeningIdentifier string) (*ConsentVersion, error) {
	return s.versions.GetByScreeningIdentifier(ctx, screeningIdentifier)
}

func (s *Service) defaultTime(t **time.Time) {
	if *t == nil {
		now := s.now()
		*t = &now
	}
}

// NewScreeningIdentifier returns an identifier of the form "S" followed by
// seven uppercase hex digits.
func NewScreeningIdentifier() string {
	return "S" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:7])
}
