package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/animora/vetassist/internal/domain"
	"github.com/animora/vetassist/internal/usecase/lookup"
	"github.com/animora/vetassist/internal/usecase/websearch"
)

// Service orchestrates one chat exchange: knowledge lookup, optional web
// enrichment, completion, and session bookkeeping.
type Service struct {
	resolver      Resolver
	searcher      WebSearcher // nil disables web enrichment
	sessions      Sessions
	completer     Completer
	maxTokens     int
	historyWindow int
	logger        *zap.Logger
}

// New creates a chat service.
func New(resolver Resolver, searcher WebSearcher, sessions Sessions, completer Completer, maxTokens, historyWindow int, logger *zap.Logger) *Service {
	if maxTokens <= 0 {
		maxTokens = 1500
	}
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Service{
		resolver:      resolver,
		searcher:      searcher,
		sessions:      sessions,
		completer:     completer,
		maxTokens:     maxTokens,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

// Respond handles one exchange. A missing knowledge-base match never fails
// the exchange; completion failures fall back to the deterministic record
// template when a record exists. Auth and bad-request provider errors are
// configuration problems and always surface to the caller. Sessions are only
// updated after a successful completion, so failed or cancelled exchanges
// leave history untouched.
func (s *Service) Respond(ctx context.Context, req domain.ChatRequest) (domain.ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return domain.ChatReply{}, domain.ErrEmptyQuery
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	query, err := lookup.Normalize(message)
	if err != nil {
		return domain.ChatReply{}, err
	}

	match, err := s.resolver.Resolve(ctx, query)
	if err != nil && !errors.Is(err, domain.ErrNoMatch) {
		return domain.ChatReply{}, fmt.Errorf("resolve query: %w", err)
	}

	if !req.UseAI {
		return s.respondLegacy(sessionID, query, match), nil
	}

	history := req.History
	if len(history) == 0 {
		history = s.sessions.Get(sessionID)
	}
	if len(history) > s.historyWindow {
		history = history[len(history)-s.historyWindow:]
	}

	var web *domain.WebAggregateResult
	if s.searcher != nil && websearch.NeedsWebSearch(message) {
		r := s.searcher.Search(ctx, message)
		web = &r
	}
	webUsed := web != nil && web.HasResults

	var records []domain.DiseaseRecord
	if match.Found() {
		records = []domain.DiseaseRecord{*match.Record}
	}
	messages := BuildMessages(message, history, records, web)

	answer, err := s.completer.Complete(ctx, messages, s.maxTokens)
	if err != nil {
		return s.respondFailed(sessionID, match, webUsed, err)
	}

	updated := s.sessions.Append(sessionID,
		domain.Turn{Role: domain.RoleUser, Content: message},
		domain.Turn{Role: domain.RoleAssistant, Content: answer},
	)

	return domain.ChatReply{
		Reply:         answer,
		SessionID:     sessionID,
		Source:        match.Source,
		DiseaseFound:  match.Found(),
		WebSearchUsed: webUsed,
		History:       updated,
	}, nil
}

func (s *Service) respondLegacy(sessionID, query string, match domain.MatchResult) domain.ChatReply {
	reply := FallbackReply(query)
	if match.Found() {
		reply = FormatRecord(match.Record)
	}
	return domain.ChatReply{
		Reply:        reply,
		SessionID:    sessionID,
		Source:       match.Source,
		DiseaseFound: match.Found(),
	}
}

func (s *Service) respondFailed(sessionID string, match domain.MatchResult, webUsed bool, err error) (domain.ChatReply, error) {
	if errors.Is(err, domain.ErrProviderAuth) || errors.Is(err, domain.ErrProviderBadRequest) {
		return domain.ChatReply{}, fmt.Errorf("generate response: %w", err)
	}

	if match.Found() {
		s.logger.Warn("completion failed, using record fallback", zap.Error(err))
		return domain.ChatReply{
			Reply:         FormatRecord(match.Record) + degradedNote,
			SessionID:     sessionID,
			Source:        match.Source,
			DiseaseFound:  true,
			WebSearchUsed: webUsed,
			Degraded:      true,
		}, nil
	}

	return domain.ChatReply{}, fmt.Errorf("generate response: %w", err)
}
