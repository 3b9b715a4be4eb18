package lookup

import (
	"context"

	"github.com/animora/vetassist/internal/domain"
)

// mockPrimary implements PrimaryStore for tests.
type mockPrimary struct {
	findFn       func(ctx context.Context, query string) (*domain.DiseaseRecord, error)
	candidatesFn func(ctx context.Context) ([]domain.SearchCandidate, error)
	getFn        func(ctx context.Context, id string) (*domain.DiseaseRecord, error)
	listFn       func(ctx context.Context) ([]domain.DiseaseRecord, error)
}

func (m *mockPrimary) FindSubstring(ctx context.Context, query string) (*domain.DiseaseRecord, error) {
	if m.findFn != nil {
		return m.findFn(ctx, query)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPrimary) Candidates(ctx context.Context) ([]domain.SearchCandidate, error) {
	if m.candidatesFn != nil {
		return m.candidatesFn(ctx)
	}
	return nil, nil
}

func (m *mockPrimary) Get(ctx context.Context, id string) (*domain.DiseaseRecord, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPrimary) List(ctx context.Context) ([]domain.DiseaseRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// mockSnapshot implements Snapshot for tests.
type mockSnapshot struct {
	records []domain.DiseaseRecord
}

func (m *mockSnapshot) FindSubstring(query string) *domain.DiseaseRecord {
	for i := range m.records {
		if containsFold(m.records[i].Name, query) {
			return &m.records[i]
		}
	}
	return nil
}

func (m *mockSnapshot) Candidates() []domain.SearchCandidate {
	cands := make([]domain.SearchCandidate, len(m.records))
	for i, r := range m.records {
		cands[i] = domain.SearchCandidate{ID: r.ID, Name: r.Name}
	}
	return cands
}

func (m *mockSnapshot) Get(id string) *domain.DiseaseRecord {
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i]
		}
	}
	return nil
}
