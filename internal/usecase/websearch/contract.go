package websearch

import (
	"context"

	"github.com/animora/vetassist/internal/domain"
)

// QuickAnswerProvider serves instant-answer lookups (DuckDuckGo-style).
type QuickAnswerProvider interface {
	Lookup(ctx context.Context, query string) (*domain.QuickAnswer, error)
}

// EncyclopediaProvider serves encyclopedic extracts (Wikipedia-style).
type EncyclopediaProvider interface {
	Lookup(ctx context.Context, query string) (*domain.Article, error)
}

// LiteratureProvider serves research citations (PubMed-style).
type LiteratureProvider interface {
	Search(ctx context.Context, query string) ([]domain.Citation, error)
}

// MetaSearchProvider serves general web results (SearXNG-style).
type MetaSearchProvider interface {
	Search(ctx context.Context, query string) ([]domain.WebResult, error)
}
