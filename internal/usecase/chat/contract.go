package chat

import (
	"context"

	"github.com/animora/vetassist/internal/domain"
)

// Resolver finds the best knowledge-base record for a normalized query.
type Resolver interface {
	Resolve(ctx context.Context, query string) (domain.MatchResult, error)
}

// WebSearcher aggregates supplementary information from web providers.
type WebSearcher interface {
	Search(ctx context.Context, query string) domain.WebAggregateResult
}

// Completer generates a chat completion from a message sequence.
type Completer interface {
	Complete(ctx context.Context, messages []domain.Turn, maxTokens int) (string, error)
}

// Sessions stores conversation history between exchanges.
type Sessions interface {
	Get(id string) []domain.Turn
	Append(id string, userTurn, assistantTurn domain.Turn) []domain.Turn
}
