package vision

import (
	"context"

	"github.com/animora/vetassist/internal/domain"
)

// Describer turns an image into a free-text veterinary description.
type Describer interface {
	Describe(ctx context.Context, imageBase64, prompt string) (string, error)
}

// Completer generates a chat completion from a message sequence.
type Completer interface {
	Complete(ctx context.Context, messages []domain.Turn, maxTokens int) (string, error)
}

// SymptomSearcher finds knowledge-base records matching observed symptoms.
type SymptomSearcher interface {
	FindBySymptoms(ctx context.Context, symptoms []string, species string, limit int) []domain.DiseaseRecord
}
