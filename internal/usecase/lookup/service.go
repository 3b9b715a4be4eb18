package lookup

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/animora/vetassist/internal/domain"
)

// Service resolves a normalized query to a disease record across the primary
// store and the bundled snapshot.
type Service struct {
	primary   PrimaryStore
	snapshot  Snapshot
	threshold float64
	lookups   *prometheus.CounterVec
	logger    *zap.Logger
}

// New creates a lookup service. primary may be nil (snapshot-only mode);
// lookups may be nil.
func New(primary PrimaryStore, snap Snapshot, threshold float64, lookups *prometheus.CounterVec, logger *zap.Logger) *Service {
	return &Service{
		primary:   primary,
		snapshot:  snap,
		threshold: threshold,
		lookups:   lookups,
		logger:    logger,
	}
}

// Resolve finds the best-matching record for a normalized query. The stages
// run in order, short-circuiting on first success: primary substring, primary
// fuzzy, snapshot substring, snapshot fuzzy. The fuzzy stages only run when
// the cheaper substring stage found nothing, because they fetch and score
// every record. A primary-store failure logs and degrades to the snapshot;
// the only error this method returns is domain.ErrNoMatch.
func (s *Service) Resolve(ctx context.Context, query string) (domain.MatchResult, error) {
	if s.primary != nil {
		if res, ok := s.resolvePrimary(ctx, query); ok {
			s.count(res.Source)
			return res, nil
		}
	}

	if res, ok := s.resolveSnapshot(query); ok {
		s.count(res.Source)
		return res, nil
	}

	s.count(domain.SourceNone)
	return domain.MatchResult{Source: domain.SourceNone}, domain.ErrNoMatch
}

func (s *Service) resolvePrimary(ctx context.Context, query string) (domain.MatchResult, bool) {
	rec, err := s.primary.FindSubstring(ctx, query)
	if err == nil {
		return domain.MatchResult{Record: rec, Score: 1, Source: domain.SourceDatabase}, true
	}
	if !isNotFound(err) {
		s.logger.Warn("primary store search failed, falling back to snapshot", zap.Error(err))
		return domain.MatchResult{}, false
	}

	candidates, err := s.primary.Candidates(ctx)
	if err != nil {
		s.logger.Warn("primary store candidate fetch failed, falling back to snapshot", zap.Error(err))
		return domain.MatchResult{}, false
	}

	match, ok := bestCandidate(query, candidates, s.threshold)
	if !ok {
		return domain.MatchResult{}, false
	}

	rec, err = s.primary.Get(ctx, candidates[match.Index].ID)
	if err != nil {
		s.logger.Warn("primary store fetch of fuzzy match failed",
			zap.String("id", candidates[match.Index].ID), zap.Error(err))
		return domain.MatchResult{}, false
	}
	return domain.MatchResult{Record: rec, Score: match.Score, Source: domain.SourceDatabaseFuzzy}, true
}

func (s *Service) resolveSnapshot(query string) (domain.MatchResult, bool) {
	if rec := s.snapshot.FindSubstring(query); rec != nil {
		return domain.MatchResult{Record: rec, Score: 1, Source: domain.SourceLocal}, true
	}

	candidates := s.snapshot.Candidates()
	match, ok := bestCandidate(query, candidates, s.threshold)
	if !ok {
		return domain.MatchResult{}, false
	}

	rec := s.snapshot.Get(candidates[match.Index].ID)
	if rec == nil {
		return domain.MatchResult{}, false
	}
	return domain.MatchResult{Record: rec, Score: match.Score, Source: domain.SourceLocalFuzzy}, true
}

// FindBySymptoms returns up to limit records whose name or clinical findings
// contain any of the symptom keywords, or whose species list contains the
// given species. Used by the image-analysis path. Primary-store failures
// degrade to the snapshot, same as Resolve.
func (s *Service) FindBySymptoms(ctx context.Context, symptoms []string, species string, limit int) []domain.DiseaseRecord {
	if limit <= 0 {
		limit = 3
	}

	var records []domain.DiseaseRecord
	if s.primary != nil {
		var err error
		records, err = s.primary.List(ctx)
		if err != nil {
			s.logger.Warn("primary store list failed for symptom search", zap.Error(err))
			records = nil
		}
	}
	if len(records) == 0 {
		for _, c := range s.snapshot.Candidates() {
			if rec := s.snapshot.Get(c.ID); rec != nil {
				records = append(records, *rec)
			}
		}
	}

	lowered := make([]string, len(symptoms))
	for i, sym := range symptoms {
		lowered[i] = strings.ToLower(sym)
	}
	speciesLower := strings.ToLower(species)

	matched := make([]domain.DiseaseRecord, 0, limit)
	for i := range records {
		if matchesSymptoms(&records[i], lowered, speciesLower) {
			matched = append(matched, records[i])
			if len(matched) == limit {
				break
			}
		}
	}
	return matched
}

func matchesSymptoms(rec *domain.DiseaseRecord, symptoms []string, species string) bool {
	name := strings.ToLower(rec.Name)
	for _, sym := range symptoms {
		if strings.Contains(name, sym) {
			return true
		}
		for _, cf := range rec.ClinicalFindings {
			for _, f := range cf.Findings {
				if strings.Contains(strings.ToLower(f), sym) {
					return true
				}
			}
		}
	}
	if species != "" {
		for _, sp := range rec.Species {
			if strings.ToLower(sp) == species {
				return true
			}
		}
	}
	return false
}

// bestCandidate runs the fuzzy matcher over (name, species) projections and
// applies the acceptance threshold.
func bestCandidate(query string, candidates []domain.SearchCandidate, threshold float64) (FuzzyMatch, bool) {
	fields := make([][]string, len(candidates))
	for i, c := range candidates {
		fields[i] = []string{c.Name, c.Species}
	}
	match, ok := BestMatch(query, fields)
	if !ok || match.Score < threshold {
		return FuzzyMatch{}, false
	}
	return match, true
}

func (s *Service) count(source domain.MatchSource) {
	if s.lookups != nil {
		s.lookups.WithLabelValues(string(source)).Inc()
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
