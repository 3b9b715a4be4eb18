package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/animora/vetassist/internal/domain"
)

const (
	maxCitations = 3
	maxAuthors   = 3
)

// PubMed queries the NCBI E-utilities: an esearch for article IDs, then an
// esummary for their metadata. Queries are scoped to veterinary literature.
type PubMed struct {
	http    *http.Client
	baseURL string
}

// NewPubMed creates a client. baseURL defaults to the public E-utilities.
func NewPubMed(hc *http.Client, baseURL string) *PubMed {
	if baseURL == "" {
		baseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	}
	return &PubMed{http: hc, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Search returns recent citations, or nil when nothing matches.
func (p *PubMed) Search(ctx context.Context, query string) ([]domain.Citation, error) {
	ids, err := p.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return p.summaries(ctx, ids)
}

func (p *PubMed) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query+" AND (veterinary OR animal)")
	params.Set("retmax", fmt.Sprint(maxCitations))
	params.Set("retmode", "json")

	var resp struct {
		Result struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := getJSON(ctx, p.http, p.baseURL+"/esearch.fcgi", params, &resp); err != nil {
		return nil, fmt.Errorf("esearch: %w", err)
	}
	return resp.Result.IDList, nil
}

func (p *PubMed) summaries(ctx context.Context, ids []string) ([]domain.Citation, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "json")

	var resp struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := getJSON(ctx, p.http, p.baseURL+"/esummary.fcgi", params, &resp); err != nil {
		return nil, fmt.Errorf("esummary: %w", err)
	}

	var citations []domain.Citation
	for _, id := range ids {
		raw, ok := resp.Result[id]
		if !ok {
			continue
		}
		var article struct {
			Title   string `json:"title"`
			Source  string `json:"source"`
			PubDate string `json:"pubdate"`
			Authors []struct {
				Name string `json:"name"`
			} `json:"authors"`
		}
		if err := json.Unmarshal(raw, &article); err != nil {
			continue
		}

		var names []string
		for i, a := range article.Authors {
			if i == maxAuthors {
				break
			}
			names = append(names, a.Name)
		}

		citations = append(citations, domain.Citation{
			Title:   article.Title,
			Authors: strings.Join(names, ", "),
			Source:  article.Source,
			PubDate: article.PubDate,
			URL:     fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", id),
		})
	}
	return citations, nil
}
