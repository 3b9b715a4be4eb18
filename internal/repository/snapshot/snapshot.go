// Package snapshot serves disease lookups from a bundled record file.
// It is the read-only fallback used when the primary store is empty or
// unreachable, and mirrors the primary repository's search operations.
package snapshot

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/animora/vetassist/internal/domain"
)

//go:embed diseases.json
var seedData []byte

// Repo is an in-memory snapshot of disease records.
type Repo struct {
	records []domain.DiseaseRecord
}

// New loads the bundled snapshot.
func New() (*Repo, error) {
	return load(seedData)
}

func load(data []byte) (*Repo, error) {
	var file struct {
		Diseases []domain.DiseaseRecord `json:"diseases"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	for i := range file.Diseases {
		file.Diseases[i].Normalize()
	}
	return &Repo{records: file.Diseases}, nil
}

// Len returns the number of bundled records.
func (r *Repo) Len() int {
	return len(r.records)
}

// FindSubstring returns the first record whose name or any treatment modality
// contains the query, case-insensitive.
func (r *Repo) FindSubstring(query string) *domain.DiseaseRecord {
	q := strings.ToLower(query)
	for i := range r.records {
		rec := &r.records[i]
		if strings.Contains(strings.ToLower(rec.Name), q) {
			return rec
		}
		for _, t := range rec.Treatment {
			if t.Modality != "" && strings.Contains(strings.ToLower(t.Modality), q) {
				return rec
			}
		}
	}
	return nil
}

// Candidates returns projections of every bundled record for fuzzy matching.
func (r *Repo) Candidates() []domain.SearchCandidate {
	candidates := make([]domain.SearchCandidate, 0, len(r.records))
	for _, rec := range r.records {
		candidates = append(candidates, domain.SearchCandidate{
			ID:      rec.ID,
			Name:    rec.Name,
			Species: strings.Join(rec.Species, " "),
		})
	}
	return candidates
}

// Get returns a record by snapshot ID, or nil.
func (r *Repo) Get(id string) *domain.DiseaseRecord {
	for i := range r.records {
		if r.records[i].ID == id {
			return &r.records[i]
		}
	}
	return nil
}
