package deathreport

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/flourish/flourish-prn/internal/platform/db"
)

var (
	testNow       = time.Date(2021, 3, 7, 10, 0, 0, 0, time.UTC)
	testStudyOpen = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	testZone      = time.FixedZone("CAT", 2*60*60)
)

func testRules() Rules {
	return Rules{StudyOpen: testStudyOpen, Now: func() time.Time { return testNow }, Location: testZone}
}

func intPtr(i int) *int { return &i }

func validForm() *Form {
	rd := testNow.Add(-time.Hour)
	return &Form{
		SubjectIdentifier:       "B142-040990462-6",
		ReportDatetime:          &rd,
		DeathDate:               "2021-03-01",
		Cause:                   "death_certificate",
		PerformAutopsy:          No,
		CauseCategory:           "hiv_related",
		IllnessDuration:         intPtr(5),
		MedicalResponsibility:   "doctor",
		ParticipantHospitalized: Yes,
		ReasonHospitalized:      "pneumonia",
		DaysHospitalized:        3,
	}
}

// -- Lookup fakes --

type mapSource struct {
	name  string
	ids   map[string]string
	err   error
	calls int
}

func (m *mapSource) Name() string { return m.name }

func (m *mapSource) ScreeningIdentifier(_ context.Context, subject string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	id, ok := m.ids[subject]
	if !ok {
		return "", db.ErrNotFound
	}
	return id, nil
}

type mapVersions struct {
	versions map[string]string
	err      error
	calls    int
}

func (m *mapVersions) ConsentVersion(_ context.Context, screeningID string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.versions[screeningID]
	if !ok {
		return "", db.ErrNotFound
	}
	return v, nil
}

// -- Mock Repository --

type mockRepo struct {
	reports map[uuid.UUID]*DeathReport
	writes  int
	failGet error
}

func newMockRepo() *mockRepo {
	return &mockRepo{reports: make(map[uuid.UUID]*DeathReport)}
}

func (m *mockRepo) Create(_ context.Context, r *DeathReport) error {
	for _, existing := range m.reports {
		if existing.SubjectIdentifier == r.SubjectIdentifier {
			return ErrDuplicateReport
		}
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = testNow
	r.UpdatedAt = testNow
	cp := *r
	m.reports[r.ID] = &cp
	m.writes++
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*DeathReport, error) {
	if m.failGet != nil {
		return nil, m.failGet
	}
	r, ok := m.reports[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) GetBySubject(_ context.Context, subject string) (*DeathReport, error) {
	for _, r := range m.reports {
		if r.SubjectIdentifier == subject {
			cp := *r
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, r *DeathReport) error {
	if _, ok := m.reports[r.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *r
	m.reports[r.ID] = &cp
	m.writes++
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.reports[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*DeathReport, int, error) {
	var result []*DeathReport
	for _, r := range m.reports {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubjectIdentifier < result[j].SubjectIdentifier })
	total := len(result)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return result[offset:end], total, nil
}

type fixture struct {
	svc      *Service
	repo     *mockRepo
	preg     *mapSource
	prior    *mapSource
	versions *mapVersions
}

// newFixture screens B142-040990462-6 through the pregnancy table with
// consent version "3".
func newFixture() *fixture {
	f := &fixture{
		repo:     newMockRepo(),
		preg:     &mapSource{name: "pregnancy", ids: map[string]string{"B142-040990462-6": "S100"}},
		prior:    &mapSource{name: "prior_participant", ids: map[string]string{}},
		versions: &mapVersions{versions: map[string]string{"S100": "3"}},
	}
	resolver := NewConsentResolver(f.versions, f.preg, f.prior)
	f.svc = NewService(f.repo, NewValidator(testRules()), resolver, NewLabelFormat("d/m/Y", testZone))
	return f
}

func hasFailure(err error, field, code string) bool {
	return errors.Is(err, &ValidationFailure{Field: field, Code: code})
}
