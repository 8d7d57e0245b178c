package screening

import "context"

// Lookup finds screening identifiers in one screening table. It satisfies
// deathreport.ScreeningSource.
type Lookup struct {
	repo Repository
	kind Kind
}

func NewLookup(repo Repository, kind Kind) Lookup {
	return Lookup{repo: repo, kind: kind}
}

// Lookups returns one Lookup per kind, in search order.
func Lookups(repo Repository) []Lookup {
	out := make([]Lookup, len(Kinds))
	for i, k := range Kinds {
		out[i] = NewLookup(repo, k)
	}
	return out
}

func (l Lookup) Name() string { return string(l.kind) }

func (l Lookup) ScreeningIdentifier(ctx context.Context, subjectIdentifier string) (string, error) {
	s, err := l.repo.GetBySubject(ctx, l.kind, subjectIdentifier)
	if err != nil {
		return "", err
	}
	return s.ScreeningIdentifier, nil
}

// VersionLookup reads consent versions. It satisfies
// deathreport.ConsentVersionSource.
type VersionLookup struct {
	repo ConsentVersionRepository
}

func NewVersionLookup(repo ConsentVersionRepository) VersionLookup {
	return VersionLookup{repo: repo}
}

func (l VersionLookup) ConsentVersion(ctx context.Context, screeningIdentifier string) (string, error) {
	cv, err := l.repo.GetByScreeningIdentifier(ctx, screeningIdentifier)
	if err != nil {
		return "", err
	}
	return cv.Version, nil
}
