package websearch

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/animora/vetassist/internal/domain"
)

const maxWebResults = 5

// SearXNG queries a SearXNG meta-search instance, scoped to the science
// category with veterinary terms appended.
type SearXNG struct {
	http     *http.Client
	instance string
}

// NewSearXNG creates a client. instance defaults to a public one.
func NewSearXNG(hc *http.Client, instance string) *SearXNG {
	if instance == "" {
		instance = "https://searx.be"
	}
	return &SearXNG{http: hc, instance: strings.TrimSuffix(instance, "/")}
}

// Search returns up to five meta-search hits.
func (s *SearXNG) Search(ctx context.Context, query string) ([]domain.WebResult, error) {
	params := url.Values{}
	params.Set("q", query+" veterinary animal health")
	params.Set("format", "json")
	params.Set("categories", "science")
	params.Set("language", "en")

	var resp struct {
		Results []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			URL     string `json:"url"`
			Engine  string `json:"engine"`
		} `json:"results"`
	}
	if err := getJSON(ctx, s.http, s.instance+"/search", params, &resp); err != nil {
		return nil, err
	}

	var results []domain.WebResult
	for i, r := range resp.Results {
		if i == maxWebResults {
			break
		}
		results = append(results, domain.WebResult{
			Title:   r.Title,
			Content: r.Content,
			URL:     r.URL,
			Engine:  r.Engine,
		})
	}
	return results, nil
}
