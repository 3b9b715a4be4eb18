package vision

import (
	"context"

	"github.com/animora/vetassist/internal/domain"
)

type mockDescriber struct {
	gotPrompt string
	fn        func(ctx context.Context, imageBase64, prompt string) (string, error)
}

func (m *mockDescriber) Describe(ctx context.Context, imageBase64, prompt string) (string, error) {
	m.gotPrompt = prompt
	return m.fn(ctx, imageBase64, prompt)
}

type mockCompleter struct {
	gotMessages []domain.Turn
	fn          func(ctx context.Context, messages []domain.Turn, maxTokens int) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, messages []domain.Turn, maxTokens int) (string, error) {
	m.gotMessages = messages
	return m.fn(ctx, messages, maxTokens)
}

type mockSearcher struct {
	gotSymptoms []string
	gotSpecies  string
	records     []domain.DiseaseRecord
}

func (m *mockSearcher) FindBySymptoms(_ context.Context, symptoms []string, species string, _ int) []domain.DiseaseRecord {
	m.gotSymptoms = symptoms
	m.gotSpecies = species
	return m.records
}
