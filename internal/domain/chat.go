package domain

// Message roles for conversation turns.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is an inbound chat exchange.
type ChatRequest struct {
	Message   string
	SessionID string
	History   []Turn // caller-supplied history overrides the stored session
	UseAI     bool
}

// ChatReply is the outcome of one resolved chat exchange.
type ChatReply struct {
	Reply         string
	SessionID     string
	Source        MatchSource
	DiseaseFound  bool
	WebSearchUsed bool
	History       []Turn
	Degraded      bool // response came from the deterministic fallback template
}
