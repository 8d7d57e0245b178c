package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/flourish/flourish-prn/internal/domain/deathreport"
	"github.com/flourish/flourish-prn/internal/platform/db"
)

var (
	_ deathreport.ScreeningSource      = Lookup{}
	_ deathreport.ConsentVersionSource = VersionLookup{}
)

func newResolver(repo Repository, versions ConsentVersionRepository) *deathreport.ConsentResolver {
	lookups := Lookups(repo)
	sources := make([]deathreport.ScreeningSource, len(lookups))
	for i, l := range lookups {
		sources[i] = l
	}
	return deathreport.NewConsentResolver(NewVersionLookup(versions), sources...)
}

func TestLookup_ResolvesThroughScreenings(t *testing.T) {
	svc, repo, versions := newTestService()
	ctx := context.Background()
	if _, err := svc.RegisterPriorParticipantScreening(ctx, &ScreeningRequest{ScreeningIdentifier: "S7", SubjectIdentifier: "B142-040990462-6"}); err != nil {
		t.Fatalf("register screening: %v", err)
	}
	resolver := newResolver(repo, versions)

	if _, err := resolver.Resolve(ctx, "B142-040990462-6-10"); !errors.Is(err, deathreport.ErrMissingConsentVersionForm) {
		t.Fatalf("expected ErrMissingConsentVersionForm, got %v", err)
	}

	if _, err := svc.RegisterConsentVersion(ctx, &ConsentVersionRequest{ScreeningIdentifier: "S7", Version: "2"}); err != nil {
		t.Fatalf("register consent version: %v", err)
	}
	got, err := resolver.Resolve(ctx, "B142-040990462-6-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2" {
		t.Errorf("expected version 2, got %q", got)
	}
}

func TestLookup_NotScreened(t *testing.T) {
	_, repo, versions := newTestService()
	_, err := newResolver(repo, versions).Resolve(context.Background(), "B999")
	if !errors.Is(err, deathreport.ErrMissingScreeningForm) {
		t.Fatalf("expected ErrMissingScreeningForm, got %v", err)
	}
}

func TestLookup_Names(t *testing.T) {
	lookups := Lookups(&mockRepo{})
	if len(lookups) != 2 || lookups[0].Name() != "pregnancy" || lookups[1].Name() != "prior_participant" {
		t.Errorf("unexpected lookup order %v", lookups)
	}
	if _, err := lookups[0].ScreeningIdentifier(context.Background(), "x"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
