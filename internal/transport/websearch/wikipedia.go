package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/animora/vetassist/internal/domain"
)

const maxExtractChars = 1000

// Wikipedia queries the MediaWiki action API: an opensearch for matching
// titles, then an intro extract for the best one.
type Wikipedia struct {
	http    *http.Client
	baseURL string
}

// NewWikipedia creates a client. baseURL defaults to English Wikipedia.
func NewWikipedia(hc *http.Client, baseURL string) *Wikipedia {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org/w/api.php"
	}
	return &Wikipedia{http: hc, baseURL: baseURL}
}

// Lookup returns the intro extract of the best-matching article, or nil when
// nothing matches.
func (w *Wikipedia) Lookup(ctx context.Context, query string) (*domain.Article, error) {
	titles, urls, err := w.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, nil
	}

	extract, err := w.extract(ctx, titles[0])
	if err != nil {
		return nil, err
	}
	if len(extract) > maxExtractChars {
		cut := maxExtractChars
		for cut > 0 && !utf8.RuneStart(extract[cut]) {
			cut--
		}
		extract = extract[:cut]
	}

	article := &domain.Article{
		Title:   titles[0],
		Extract: extract,
	}
	if len(urls) > 0 {
		article.URL = urls[0]
	}
	for i := 1; i < len(titles); i++ {
		related := domain.RelatedTopic{Text: titles[i]}
		if i < len(urls) {
			related.URL = urls[i]
		}
		article.Related = append(article.Related, related)
	}
	return article, nil
}

// search runs an opensearch. The response is a positional JSON array:
// [query, titles, descriptions, urls].
func (w *Wikipedia) search(ctx context.Context, query string) (titles, urls []string, err error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", "3")
	params.Set("namespace", "0")
	params.Set("format", "json")

	var resp []json.RawMessage
	if err := getJSON(ctx, w.http, w.baseURL, params, &resp); err != nil {
		return nil, nil, err
	}
	if len(resp) < 4 {
		return nil, nil, fmt.Errorf("opensearch: malformed response with %d elements", len(resp))
	}
	if err := json.Unmarshal(resp[1], &titles); err != nil {
		return nil, nil, fmt.Errorf("opensearch titles: %w", err)
	}
	if err := json.Unmarshal(resp[3], &urls); err != nil {
		return nil, nil, fmt.Errorf("opensearch urls: %w", err)
	}
	return titles, urls, nil
}

func (w *Wikipedia) extract(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("titles", title)
	params.Set("format", "json")

	var resp struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := getJSON(ctx, w.http, w.baseURL, params, &resp); err != nil {
		return "", err
	}
	for _, page := range resp.Query.Pages {
		return page.Extract, nil
	}
	return "", nil
}
