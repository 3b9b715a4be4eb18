package websearch

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/animora/vetassist/internal/domain"
)

// Service aggregates veterinary information from independent web providers.
// Any provider may be nil (disabled); a nil or failing provider contributes
// nothing and never aborts the others.
type Service struct {
	quick        QuickAnswerProvider
	encyclopedia EncyclopediaProvider
	literature   LiteratureProvider
	meta         MetaSearchProvider
	maxChars     int
	legs         *prometheus.CounterVec
	logger       *zap.Logger
}

// New creates an aggregator. legs may be nil.
func New(
	quick QuickAnswerProvider,
	encyclopedia EncyclopediaProvider,
	literature LiteratureProvider,
	meta MetaSearchProvider,
	maxChars int,
	legs *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	if maxChars <= 0 {
		maxChars = 3000
	}
	return &Service{
		quick:        quick,
		encyclopedia: encyclopedia,
		literature:   literature,
		meta:         meta,
		maxChars:     maxChars,
		legs:         legs,
		logger:       logger,
	}
}

// Search fans out to all providers concurrently and waits for every leg to
// settle before composing the summary. Partial results are valuable, so this
// is wait-for-all with errors absorbed per leg, never fail-fast.
func (s *Service) Search(ctx context.Context, query string) domain.WebAggregateResult {
	result := domain.WebAggregateResult{Query: query}

	var g errgroup.Group

	g.Go(func() error {
		if s.quick == nil {
			return nil
		}
		qa, err := s.quick.Lookup(ctx, query)
		result.QuickAnswer = settle(s, "duckduckgo", qa, err, qa != nil && qa.Abstract != "")
		return nil
	})
	g.Go(func() error {
		if s.encyclopedia == nil {
			return nil
		}
		art, err := s.encyclopedia.Lookup(ctx, query)
		result.Article = settle(s, "wikipedia", art, err, art != nil && art.Extract != "")
		return nil
	})
	g.Go(func() error {
		if s.literature == nil {
			return nil
		}
		cits, err := s.literature.Search(ctx, query)
		if s.settleSlice("pubmed", len(cits), err) {
			result.Citations = cits
		}
		return nil
	})
	g.Go(func() error {
		if s.meta == nil {
			return nil
		}
		hits, err := s.meta.Search(ctx, query)
		if s.settleSlice("searxng", len(hits), err) {
			result.WebResults = hits
		}
		return nil
	})

	_ = g.Wait() // legs never return errors

	result.HasResults = result.QuickAnswer != nil || result.Article != nil ||
		len(result.Citations) > 0 || len(result.WebResults) > 0
	result.Summary = truncate(s.buildSummary(&result), s.maxChars)
	return result
}

// settle logs and counts a pointer-payload leg, dropping failed or empty results.
func settle[T any](s *Service, provider string, payload *T, err error, hasContent bool) *T {
	if err != nil {
		s.logger.Warn("web search provider failed", zap.String("provider", provider), zap.Error(err))
		s.leg(provider, "error")
		return nil
	}
	if !hasContent {
		s.leg(provider, "empty")
		return nil
	}
	s.leg(provider, "ok")
	return payload
}

func (s *Service) settleSlice(provider string, n int, err error) bool {
	if err != nil {
		s.logger.Warn("web search provider failed", zap.String("provider", provider), zap.Error(err))
		s.leg(provider, "error")
		return false
	}
	if n == 0 {
		s.leg(provider, "empty")
		return false
	}
	s.leg(provider, "ok")
	return true
}

func (s *Service) leg(provider, result string) {
	if s.legs != nil {
		s.legs.WithLabelValues(provider, result).Inc()
	}
}

// buildSummary composes the provider sections in fixed order: quick answer,
// encyclopedia, research citations, meta-search snippets. Sections with no
// content are omitted entirely.
func (s *Service) buildSummary(r *domain.WebAggregateResult) string {
	var b strings.Builder

	if r.QuickAnswer != nil && r.QuickAnswer.Abstract != "" {
		fmt.Fprintf(&b, "**Quick Answer** (%s):\n%s\n\n", r.QuickAnswer.Source, r.QuickAnswer.Abstract)
	}

	if r.Article != nil && r.Article.Extract != "" {
		fmt.Fprintf(&b, "**Encyclopedia** (Wikipedia):\n%s\n\n", r.Article.Extract)
		if r.Article.URL != "" {
			fmt.Fprintf(&b, "Read more: %s\n\n", r.Article.URL)
		}
	}

	if len(r.Citations) > 0 {
		b.WriteString("**Recent Research** (PubMed):\n")
		for i, c := range r.Citations {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, c.Title, c.PubDate)
			fmt.Fprintf(&b, "   Authors: %s\n", c.Authors)
			fmt.Fprintf(&b, "   %s\n", c.URL)
		}
		b.WriteString("\n")
	}

	if len(r.WebResults) > 0 {
		b.WriteString("**Additional Resources**:\n")
		for i, hit := range r.WebResults {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, hit.Title)
			if hit.Content != "" {
				fmt.Fprintf(&b, "   %s...\n", truncate(hit.Content, 150))
			}
			fmt.Fprintf(&b, "   %s\n", hit.URL)
		}
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "No comprehensive summary available from web sources."
	}
	return summary
}

// truncate cuts at a byte budget, backing off to a rune boundary so the
// result stays valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
