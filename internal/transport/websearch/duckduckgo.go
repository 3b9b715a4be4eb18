package websearch

import (
	"context"
	"net/http"
	"net/url"

	"github.com/animora/vetassist/internal/domain"
)

const maxRelatedTopics = 5

// DuckDuckGo queries the Instant Answer API.
type DuckDuckGo struct {
	http    *http.Client
	baseURL string
}

// NewDuckDuckGo creates a client. baseURL defaults to the public API.
func NewDuckDuckGo(hc *http.Client, baseURL string) *DuckDuckGo {
	if baseURL == "" {
		baseURL = "https://api.duckduckgo.com/"
	}
	return &DuckDuckGo{http: hc, baseURL: baseURL}
}

// Lookup fetches an instant answer. The API always answers 200 with possibly
// empty fields; the caller decides whether the payload has content.
func (d *DuckDuckGo) Lookup(ctx context.Context, query string) (*domain.QuickAnswer, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	var resp struct {
		Abstract       string `json:"Abstract"`
		AbstractSource string `json:"AbstractSource"`
		AbstractURL    string `json:"AbstractURL"`
		Definition     string `json:"Definition"`
		RelatedTopics  []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	if err := getJSON(ctx, d.http, d.baseURL, params, &resp); err != nil {
		return nil, err
	}

	answer := &domain.QuickAnswer{
		Abstract:   resp.Abstract,
		Source:     resp.AbstractSource,
		URL:        resp.AbstractURL,
		Definition: resp.Definition,
	}
	for i, topic := range resp.RelatedTopics {
		if i == maxRelatedTopics {
			break
		}
		answer.RelatedTopics = append(answer.RelatedTopics, domain.RelatedTopic{
			Text: topic.Text,
			URL:  topic.FirstURL,
		})
	}
	return answer, nil
}
