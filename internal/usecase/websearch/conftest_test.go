package websearch

import (
	"context"

	"github.com/animora/vetassist/internal/domain"
)

type mockQuick struct {
	fn func(ctx context.Context, query string) (*domain.QuickAnswer, error)
}

func (m *mockQuick) Lookup(ctx context.Context, query string) (*domain.QuickAnswer, error) {
	return m.fn(ctx, query)
}

type mockEncyclopedia struct {
	fn func(ctx context.Context, query string) (*domain.Article, error)
}

func (m *mockEncyclopedia) Lookup(ctx context.Context, query string) (*domain.Article, error) {
	return m.fn(ctx, query)
}

type mockLiterature struct {
	fn func(ctx context.Context, query string) ([]domain.Citation, error)
}

func (m *mockLiterature) Search(ctx context.Context, query string) ([]domain.Citation, error) {
	return m.fn(ctx, query)
}

type mockMeta struct {
	fn func(ctx context.Context, query string) ([]domain.WebResult, error)
}

func (m *mockMeta) Search(ctx context.Context, query string) ([]domain.WebResult, error) {
	return m.fn(ctx, query)
}
