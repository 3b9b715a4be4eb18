package websearch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/animora/vetassist/internal/domain"
)

func TestSearchPartialFailure(t *testing.T) {
	quick := &mockQuick{fn: func(context.Context, string) (*domain.QuickAnswer, error) {
		return &domain.QuickAnswer{Abstract: "Mastitis is inflammation of the mammary gland.", Source: "Wikipedia"}, nil
	}}
	enc := &mockEncyclopedia{fn: func(context.Context, string) (*domain.Article, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	lit := &mockLiterature{fn: func(context.Context, string) ([]domain.Citation, error) {
		return []domain.Citation{{
			Title:   "Bovine mastitis control",
			Authors: "Smith J, Jones A",
			PubDate: "2025",
			URL:     "https://pubmed.ncbi.nlm.nih.gov/12345/",
		}}, nil
	}}
	meta := &mockMeta{fn: func(context.Context, string) ([]domain.WebResult, error) {
		return nil, errors.New("timeout")
	}}

	svc := New(quick, enc, lit, meta, 0, nil, zap.NewNop())
	got := svc.Search(context.Background(), "bovine mastitis")

	if !got.HasResults {
		t.Fatal("expected HasResults with two successful legs")
	}
	if got.QuickAnswer == nil || got.Article != nil {
		t.Fatalf("expected quick answer only, got article=%v", got.Article)
	}
	if len(got.Citations) != 1 || len(got.WebResults) != 0 {
		t.Fatalf("unexpected slices: citations=%d webResults=%d", len(got.Citations), len(got.WebResults))
	}

	qaIdx := strings.Index(got.Summary, "**Quick Answer**")
	litIdx := strings.Index(got.Summary, "**Recent Research**")
	if qaIdx == -1 || litIdx == -1 {
		t.Fatalf("summary missing sections:\n%s", got.Summary)
	}
	if qaIdx > litIdx {
		t.Fatal("quick answer section must precede research section")
	}
	if strings.Contains(got.Summary, "**Encyclopedia**") || strings.Contains(got.Summary, "**Additional Resources**") {
		t.Fatalf("failed legs must not contribute sections:\n%s", got.Summary)
	}
}

func TestSearchAllFail(t *testing.T) {
	boom := errors.New("boom")
	svc := New(
		&mockQuick{fn: func(context.Context, string) (*domain.QuickAnswer, error) { return nil, boom }},
		&mockEncyclopedia{fn: func(context.Context, string) (*domain.Article, error) { return nil, boom }},
		&mockLiterature{fn: func(context.Context, string) ([]domain.Citation, error) { return nil, boom }},
		&mockMeta{fn: func(context.Context, string) ([]domain.WebResult, error) { return nil, boom }},
		0, nil, zap.NewNop(),
	)

	got := svc.Search(context.Background(), "anything")
	if got.HasResults {
		t.Fatal("expected HasResults=false when every leg fails")
	}
	if got.Summary != "No comprehensive summary available from web sources." {
		t.Fatalf("unexpected placeholder summary: %q", got.Summary)
	}
}

func TestSearchNilProviders(t *testing.T) {
	svc := New(nil, nil, nil, nil, 0, nil, zap.NewNop())
	got := svc.Search(context.Background(), "rabies")
	if got.HasResults {
		t.Fatal("disabled providers must yield no results")
	}
}

func TestSearchEmptyPayloadsDropped(t *testing.T) {
	svc := New(
		&mockQuick{fn: func(context.Context, string) (*domain.QuickAnswer, error) {
			return &domain.QuickAnswer{Source: "DuckDuckGo"}, nil
		}},
		&mockEncyclopedia{fn: func(context.Context, string) (*domain.Article, error) {
			return &domain.Article{Title: "Stub"}, nil
		}},
		nil, nil, 0, nil, zap.NewNop(),
	)
	got := svc.Search(context.Background(), "rabies")
	if got.QuickAnswer != nil || got.Article != nil {
		t.Fatal("payloads without content must be dropped")
	}
	if got.HasResults {
		t.Fatal("expected no results")
	}
}

func TestSearchSummaryCapsAndTruncates(t *testing.T) {
	cits := make([]domain.Citation, 5)
	for i := range cits {
		cits[i] = domain.Citation{Title: "Paper", Authors: "A", PubDate: "2024", URL: "https://example.org"}
	}
	hits := make([]domain.WebResult, 5)
	for i := range hits {
		hits[i] = domain.WebResult{Title: "Hit", Content: strings.Repeat("x", 400), URL: "https://example.org"}
	}
	svc := New(
		nil, nil,
		&mockLiterature{fn: func(context.Context, string) ([]domain.Citation, error) { return cits, nil }},
		&mockMeta{fn: func(context.Context, string) ([]domain.WebResult, error) { return hits, nil }},
		200, nil, zap.NewNop(),
	)

	got := svc.Search(context.Background(), "rabies")
	if n := strings.Count(got.Summary, "Paper"); n > 3 {
		t.Fatalf("citations must cap at 3, saw %d", n)
	}
	if len(got.Summary) > 200 {
		t.Fatalf("summary must respect max chars, got %d", len(got.Summary))
	}
	if len(got.Citations) != 5 {
		t.Fatal("raw citations must be returned uncapped")
	}
}

func TestSearchSummaryTruncatesOnRuneBoundary(t *testing.T) {
	qa := &domain.QuickAnswer{
		Abstract: strings.Repeat("é", 200), // every cut offset inside is mid-rune
		Source:   "DuckDuckGo",
	}
	svc := New(
		&mockQuick{fn: func(context.Context, string) (*domain.QuickAnswer, error) { return qa, nil }},
		nil, nil, nil,
		100, nil, zap.NewNop(),
	)

	got := svc.Search(context.Background(), "rinderpest")
	if len(got.Summary) > 100 {
		t.Fatalf("summary must respect max chars, got %d", len(got.Summary))
	}
	if !utf8.ValidString(got.Summary) {
		t.Fatalf("summary is not valid UTF-8: %q", got.Summary)
	}
}
