package health

import "context"

// DBPinger checks primary store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CompletionChecker checks language-model provider availability.
type CompletionChecker interface {
	HealthCheck(ctx context.Context) error
}
