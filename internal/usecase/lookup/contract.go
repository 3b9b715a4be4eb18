package lookup

import (
	"context"

	"github.com/animora/vetassist/internal/domain"
)

// PrimaryStore is the primary knowledge-store contract.
type PrimaryStore interface {
	FindSubstring(ctx context.Context, query string) (*domain.DiseaseRecord, error)
	Candidates(ctx context.Context) ([]domain.SearchCandidate, error)
	Get(ctx context.Context, id string) (*domain.DiseaseRecord, error)
	List(ctx context.Context) ([]domain.DiseaseRecord, error)
}

// Snapshot is the bundled fallback store contract. Snapshot lookups cannot
// fail, so the methods return nil instead of errors.
type Snapshot interface {
	FindSubstring(query string) *domain.DiseaseRecord
	Candidates() []domain.SearchCandidate
	Get(id string) *domain.DiseaseRecord
}
