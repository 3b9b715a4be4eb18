package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/animora/vetassist/internal/domain"
)

func TestRespondEmptyMessage(t *testing.T) {
	svc := New(&mockResolver{fn: matchFor(nil, domain.SourceNone)}, nil, &mockSessions{},
		&mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) { return "", nil }},
		0, 0, zap.NewNop())

	_, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "   ", UseAI: true})
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestRespondSuccess(t *testing.T) {
	sessions := &mockSessions{}
	completer := &mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) {
		return "Mastitis is an inflammation of the mammary gland.", nil
	}}
	svc := New(&mockResolver{fn: matchFor(testRecord(), domain.SourceDatabase)}, nil, sessions, completer, 0, 0, zap.NewNop())

	got, err := svc.Respond(context.Background(), domain.ChatRequest{
		Message:   "Tell me about bovine mastitis",
		SessionID: "s1",
		UseAI:     true,
	})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !got.DiseaseFound || got.Source != domain.SourceDatabase {
		t.Fatalf("unexpected match metadata: found=%v source=%s", got.DiseaseFound, got.Source)
	}
	if got.SessionID != "s1" {
		t.Fatalf("session id = %q", got.SessionID)
	}
	if sessions.appends != 1 || len(got.History) != 2 {
		t.Fatalf("expected one appended exchange, appends=%d history=%d", sessions.appends, len(got.History))
	}
	if got.History[0].Role != domain.RoleUser || got.History[1].Role != domain.RoleAssistant {
		t.Fatal("history roles out of order")
	}

	system := completer.gotMessages[0]
	if system.Role != domain.RoleSystem {
		t.Fatal("first message must be the system persona")
	}
	if !strings.Contains(system.Content, "Database:") {
		t.Fatal("system prompt missing knowledge context")
	}
	if !strings.Contains(system.Content, "Bovine Mastitis") {
		t.Fatal("knowledge context missing record data")
	}
}

func TestRespondGeneratesSessionID(t *testing.T) {
	svc := New(&mockResolver{fn: matchFor(nil, domain.SourceNone)}, nil, &mockSessions{},
		&mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) { return "Hello!", nil }},
		0, 0, zap.NewNop())

	got, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "hello", UseAI: true})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got.SessionID == "" {
		t.Fatal("expected a server-generated session id")
	}
}

func TestRespondHistoryWindow(t *testing.T) {
	var history []domain.Turn
	for i := 0; i < 10; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		history = append(history, domain.Turn{Role: role, Content: fmt.Sprintf("turn-%d", i)})
	}
	sessions := &mockSessions{history: history}
	completer := &mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) { return "ok", nil }}
	svc := New(&mockResolver{fn: matchFor(nil, domain.SourceNone)}, nil, sessions, completer, 0, 0, zap.NewNop())

	if _, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "hello", SessionID: "s1", UseAI: true}); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	// system + 6 history turns + current user message
	if len(completer.gotMessages) != 8 {
		t.Fatalf("expected 8 messages, got %d", len(completer.gotMessages))
	}
	if completer.gotMessages[1].Content != "turn-4" {
		t.Fatalf("history window starts at %q, want turn-4", completer.gotMessages[1].Content)
	}
}

func TestRespondWebSearchGating(t *testing.T) {
	searcher := &mockSearcher{fn: func(context.Context, string) domain.WebAggregateResult {
		return domain.WebAggregateResult{HasResults: true, Summary: "FMD outbreaks reported in 2025."}
	}}
	completer := &mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) { return "ok", nil }}
	svc := New(&mockResolver{fn: matchFor(nil, domain.SourceNone)}, searcher, &mockSessions{}, completer, 0, 0, zap.NewNop())

	got, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "latest research on FMD", SessionID: "s1", UseAI: true})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if searcher.calls != 1 || !got.WebSearchUsed {
		t.Fatalf("expected one web search, calls=%d used=%v", searcher.calls, got.WebSearchUsed)
	}
	if !strings.Contains(completer.gotMessages[0].Content, "Web Info:") {
		t.Fatal("system prompt missing web context")
	}

	if _, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "my cow has a swollen udder", SessionID: "s1", UseAI: true}); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if searcher.calls != 1 {
		t.Fatalf("plain symptom report must not trigger web search, calls=%d", searcher.calls)
	}
}

func TestRespondCompletionFallback(t *testing.T) {
	sessions := &mockSessions{}
	completer := &mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) {
		return "", fmt.Errorf("completion: %w", domain.ErrProviderUnavailable)
	}}
	svc := New(&mockResolver{fn: matchFor(testRecord(), domain.SourceLocal)}, nil, sessions, completer, 0, 0, zap.NewNop())

	got, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "bovine mastitis", SessionID: "s1", UseAI: true})
	if err != nil {
		t.Fatalf("expected degraded reply, got error %v", err)
	}
	if !got.Degraded {
		t.Fatal("expected Degraded flag")
	}
	if !strings.Contains(got.Reply, "**Bovine Mastitis**") || !strings.Contains(got.Reply, "fallback formatting") {
		t.Fatalf("unexpected fallback reply:\n%s", got.Reply)
	}
	if sessions.appends != 0 {
		t.Fatal("failed exchange must not touch the session")
	}
}

func TestRespondFatalProviderErrors(t *testing.T) {
	for _, sentinel := range []error{domain.ErrProviderAuth, domain.ErrProviderBadRequest} {
		completer := &mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) {
			return "", fmt.Errorf("completion: %w", sentinel)
		}}
		svc := New(&mockResolver{fn: matchFor(testRecord(), domain.SourceDatabase)}, nil, &mockSessions{}, completer, 0, 0, zap.NewNop())

		_, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "bovine mastitis", SessionID: "s1", UseAI: true})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected %v to surface, got %v", sentinel, err)
		}
	}
}

func TestRespondFailureWithoutRecord(t *testing.T) {
	completer := &mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) {
		return "", fmt.Errorf("completion: %w", domain.ErrProviderTimeout)
	}}
	svc := New(&mockResolver{fn: matchFor(nil, domain.SourceNone)}, nil, &mockSessions{}, completer, 0, 0, zap.NewNop())

	_, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "unknown thing", SessionID: "s1", UseAI: true})
	if !errors.Is(err, domain.ErrProviderTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestRespondLegacyMode(t *testing.T) {
	sessions := &mockSessions{}
	svc := New(&mockResolver{fn: matchFor(testRecord(), domain.SourceLocal)}, nil, sessions,
		&mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) {
			t.Fatal("legacy mode must not call the completer")
			return "", nil
		}}, 0, 0, zap.NewNop())

	got, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "bovine mastitis", SessionID: "s1"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(got.Reply, "**Bovine Mastitis**") {
		t.Fatalf("expected formatted record, got:\n%s", got.Reply)
	}
	if sessions.appends != 0 {
		t.Fatal("legacy mode must not touch the session")
	}
}

func TestRespondLegacyModeNoMatch(t *testing.T) {
	svc := New(&mockResolver{fn: matchFor(nil, domain.SourceNone)}, nil, &mockSessions{},
		&mockCompleter{fn: func(context.Context, []domain.Turn, int) (string, error) { return "", nil }},
		0, 0, zap.NewNop())

	got, err := svc.Respond(context.Background(), domain.ChatRequest{Message: "what is glitterpox"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(got.Reply, `"glitterpox"`) {
		t.Fatalf("fallback must quote the unmatched term:\n%s", got.Reply)
	}
	if got.Source != domain.SourceNone || got.DiseaseFound {
		t.Fatalf("unexpected match metadata: %+v", got)
	}
}
