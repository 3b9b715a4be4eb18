package domain

// QuickAnswer is a DuckDuckGo-style instant answer.
type QuickAnswer struct {
	Abstract      string
	Source        string
	URL           string
	Definition    string
	RelatedTopics []RelatedTopic
}

// RelatedTopic is a related link for a quick answer.
type RelatedTopic struct {
	Text string
	URL  string
}

// Article is an encyclopedic extract with related entries.
type Article struct {
	Title   string
	Extract string
	URL     string
	Related []RelatedTopic
}

// Citation is one research-literature reference.
type Citation struct {
	Title   string
	Authors string
	Source  string
	PubDate string
	URL     string
}

// WebResult is one meta-search hit.
type WebResult struct {
	Title   string
	Content string
	URL     string
	Engine  string
}

// WebAggregateResult holds the four provider payloads (nil on failure) and
// the composed summary. Built fresh per query, never cached across queries.
type WebAggregateResult struct {
	Query       string
	QuickAnswer *QuickAnswer
	Article     *Article
	Citations   []Citation
	WebResults  []WebResult
	Summary     string
	HasResults  bool
}
