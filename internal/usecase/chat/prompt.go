package chat

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/animora/vetassist/internal/domain"
)

const (
	maxKnowledgeContextChars = 1500
	maxWebContextChars       = 800

	// DefaultHistoryWindow is how many history turns go to the model when
	// the configuration does not say otherwise.
	DefaultHistoryWindow = 6
)

const personaTemplate = `You are Animora AI, a friendly veterinary assistant for LIVESTOCK and FARM ANIMALS.

CRITICAL: FMD = Foot and Mouth Disease (livestock), NOT feline disease.

CONVERSATIONAL HANDLING:
- For greetings (hello, hi, hey, etc.): Respond warmly and briefly, then ask how you can help with animal health
- For casual questions: Answer naturally and conversationally
- For disease queries: Provide comprehensive technical information

DATA EXPLOITATION - EXTRACT EVERYTHING:
1. EXTRACT ALL data from the knowledge base - every field, every detail, NOTHING left out
2. EXTRACT ALL unique information from web search - every fact, every detail
3. MERGE intelligently - combine overlapping info, eliminate exact duplicates only
4. COMPREHENSIVE OUTPUT - if the knowledge base has treatments/dosages/pathogens/steps, include EVERY SINGLE ONE
5. If web search adds new angles (economic impact, global context, etc.), ADD them
6. Present as ONE complete, exhaustive resource

Formatting Rules for Disease Info:
- Use ONLY "-" bullets (NEVER "+")
- Use "**bold**" ONLY for the main disease name at the very top
- Use regular heading format (##) for sections like Overview, Clinical Signs, Treatment, etc.
- NO bold for section headings - just use markdown headings
- Clear hierarchical organization
- NO References section
- NO end notes about sources or "consult veterinarian" disclaimers at the end
- Integrate "consult veterinarian for serious cases" naturally within relevant sections

%s
Deliver exhaustive, professional veterinary information. Be friendly for casual chat, comprehensive for disease queries.`

// BuildMessages assembles the completion request: system persona with
// interpolated knowledge and web context, the provided history turns, and
// the current user message. Callers window the history; at most two records
// go into the context, and a single record is clipped to keep the prompt
// inside the token budget.
func BuildMessages(userMessage string, history []domain.Turn, records []domain.DiseaseRecord, web *domain.WebAggregateResult) []domain.Turn {
	context := ""
	switch {
	case len(records) == 1:
		if raw, err := json.Marshal(records[0]); err == nil {
			context = "Database: " + clip(string(raw), maxKnowledgeContextChars)
		}
	case len(records) > 1:
		if raw, err := json.Marshal(records[:2]); err == nil {
			context = "Database: " + string(raw)
		}
	}
	if web != nil && web.HasResults && web.Summary != "" {
		webInfo := "Web Info: " + clip(web.Summary, maxWebContextChars)
		if context != "" {
			context += "\n\n" + webInfo
		} else {
			context = webInfo
		}
	}
	if context != "" {
		context += "\n"
	}

	messages := make([]domain.Turn, 0, len(history)+2)
	messages = append(messages, domain.Turn{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf(personaTemplate, context),
	})
	messages = append(messages, history...)

	messages = append(messages, domain.Turn{Role: domain.RoleUser, Content: userMessage})
	return messages
}

// clip cuts at a byte budget, backing off to a rune boundary so the context
// block stays valid UTF-8.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
