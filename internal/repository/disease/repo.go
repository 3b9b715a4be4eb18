// Package disease stores disease records as JSON documents in the primary store.
package disease

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/animora/vetassist/internal/db"
	"github.com/animora/vetassist/internal/domain"
)

// store is the consumer interface for record storage (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the knowledge-store contract over a db.Store.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a disease repository. keyPrefix namespaces record keys
// (e.g. "vetassist:").
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Upsert creates or updates a record. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, rec *domain.DiseaseRecord) (bool, error) {
	if rec.ID == "" {
		return false, fmt.Errorf("record id is required")
	}
	rec.Normalize()

	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	key := r.key(rec.ID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, wrapStoreErr(err))
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, wrapStoreErr(err))
	}

	return !exists, nil
}

// Get returns a record by ID.
func (r *Repo) Get(ctx context.Context, id string) (*domain.DiseaseRecord, error) {
	key := r.key(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, wrapStoreErr(err))
	}
	return parseRecord(id, raw)
}

// Delete removes a record by ID.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, wrapStoreErr(err))
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, wrapStoreErr(err))
	}
	return nil
}

// List returns every stored record. Record counts are small (tens to low
// hundreds), so a SCAN plus per-key fetch is acceptable here.
func (r *Repo) List(ctx context.Context) ([]domain.DiseaseRecord, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+"disease:*")
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", wrapStoreErr(err))
	}

	records := make([]domain.DiseaseRecord, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and fetch
			}
			return nil, fmt.Errorf("json.get %s: %w", key, wrapStoreErr(err))
		}
		rec, err := parseRecord(strings.TrimPrefix(key, r.keyPrefix+"disease:"), raw)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// FindSubstring returns the first record whose name or any treatment modality
// contains the query, case-insensitive.
func (r *Repo) FindSubstring(ctx context.Context, query string) (*domain.DiseaseRecord, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	for i := range records {
		if matchesSubstring(&records[i], q) {
			return &records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Candidates returns lightweight projections for fuzzy matching.
func (r *Repo) Candidates(ctx context.Context) ([]domain.SearchCandidate, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.SearchCandidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, domain.SearchCandidate{
			ID:      rec.ID,
			Name:    rec.Name,
			Species: strings.Join(rec.Species, " "),
		})
	}
	return candidates, nil
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "disease:" + id
}

// wrapStoreErr marks failed store commands with the unreachable sentinel so
// transport answers 503 instead of a generic 500. Key misses are handled
// before this point and are not store failures.
func wrapStoreErr(err error) error {
	var dbErr *db.Error
	if errors.As(err, &dbErr) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnreachable, err)
	}
	return err
}

func matchesSubstring(rec *domain.DiseaseRecord, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(rec.Name), loweredQuery) {
		return true
	}
	for _, t := range rec.Treatment {
		if t.Modality != "" && strings.Contains(strings.ToLower(t.Modality), loweredQuery) {
			return true
		}
	}
	return false
}

// parseRecord decodes a JSON.GET result. With the "$" path the store returns
// a one-element array wrapping the document.
func parseRecord(id string, raw []byte) (*domain.DiseaseRecord, error) {
	var wrapped []domain.DiseaseRecord
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped) == 1 {
		rec := wrapped[0]
		rec.ID = id
		rec.Normalize()
		return &rec, nil
	}

	var rec domain.DiseaseRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", id, err)
	}
	rec.ID = id
	rec.Normalize()
	return &rec, nil
}
