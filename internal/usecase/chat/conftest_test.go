package chat

import (
	"context"

	"github.com/animora/vetassist/internal/domain"
)

type mockResolver struct {
	fn func(ctx context.Context, query string) (domain.MatchResult, error)
}

func (m *mockResolver) Resolve(ctx context.Context, query string) (domain.MatchResult, error) {
	return m.fn(ctx, query)
}

type mockSearcher struct {
	calls int
	fn    func(ctx context.Context, query string) domain.WebAggregateResult
}

func (m *mockSearcher) Search(ctx context.Context, query string) domain.WebAggregateResult {
	m.calls++
	return m.fn(ctx, query)
}

type mockCompleter struct {
	gotMessages []domain.Turn
	fn          func(ctx context.Context, messages []domain.Turn, maxTokens int) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, messages []domain.Turn, maxTokens int) (string, error) {
	m.gotMessages = messages
	return m.fn(ctx, messages, maxTokens)
}

type mockSessions struct {
	history []domain.Turn
	appends int
}

func (m *mockSessions) Get(string) []domain.Turn {
	return m.history
}

func (m *mockSessions) Append(_ string, userTurn, assistantTurn domain.Turn) []domain.Turn {
	m.appends++
	m.history = append(m.history, userTurn, assistantTurn)
	return m.history
}

func matchFor(rec *domain.DiseaseRecord, source domain.MatchSource) func(context.Context, string) (domain.MatchResult, error) {
	return func(context.Context, string) (domain.MatchResult, error) {
		if rec == nil {
			return domain.MatchResult{Source: domain.SourceNone}, domain.ErrNoMatch
		}
		return domain.MatchResult{Record: rec, Score: 1, Source: source}, nil
	}
}

func testRecord() *domain.DiseaseRecord {
	rec := &domain.DiseaseRecord{
		ID:      "bovine-mastitis",
		Name:    "Bovine Mastitis",
		Species: []string{"Cattle"},
		ClinicalFindings: []domain.ClinicalFinding{
			{Category: "Udder", Findings: []string{"Swelling", "Heat and pain"}},
		},
		DiagnosticTests: []domain.DiagnosticTest{
			{Test: "California Mastitis Test", Type: "field", ExpectedFinding: "Gel formation"},
		},
		Treatment: []domain.Treatment{
			{
				Modality:    "Intramammary antibiotics",
				Antibiotics: []string{"Cloxacillin"},
			},
		},
		PrevalenceRegions: []string{"Worldwide"},
	}
	rec.Normalize()
	return rec
}
