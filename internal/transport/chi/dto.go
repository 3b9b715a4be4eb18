package chi

import (
	"github.com/animora/vetassist/internal/domain"
	"github.com/animora/vetassist/internal/usecase/vision"
)

type turnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func turnsToDTO(turns []domain.Turn) []turnDTO {
	if len(turns) == 0 {
		return nil
	}
	out := make([]turnDTO, len(turns))
	for i, t := range turns {
		out[i] = turnDTO{Role: t.Role, Content: t.Content}
	}
	return out
}

func turnsFromDTO(turns []turnDTO) []domain.Turn {
	if len(turns) == 0 {
		return nil
	}
	out := make([]domain.Turn, len(turns))
	for i, t := range turns {
		out[i] = domain.Turn{Role: t.Role, Content: t.Content}
	}
	return out
}

// chatRequest accepts the message under several historical field names.
type chatRequest struct {
	Message             string    `json:"message"`
	Query               string    `json:"query"`
	Input               string    `json:"input"`
	SessionID           string    `json:"sessionId"`
	ConversationHistory []turnDTO `json:"conversationHistory"`
	UseAI               *bool     `json:"useAI"`
}

func (r *chatRequest) message() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Query != "" {
		return r.Query
	}
	return r.Input
}

type chatResponse struct {
	Reply               string    `json:"reply"`
	SessionID           string    `json:"sessionId"`
	Source              string    `json:"source"`
	DiseaseFound        bool      `json:"diseaseFound"`
	WebSearchUsed       bool      `json:"webSearchUsed"`
	ConversationHistory []turnDTO `json:"conversationHistory,omitempty"`
	Degraded            bool      `json:"degraded,omitempty"`
}

type imageRequest struct {
	Image               string    `json:"image"`
	Species             string    `json:"species"`
	Question            string    `json:"question"`
	ConversationHistory []turnDTO `json:"conversationHistory"`
}

type imageAnalysisDTO struct {
	RawAnalysis string   `json:"rawAnalysis"`
	Severity    string   `json:"severity"`
	Urgency     string   `json:"urgency"`
	Symptoms    []string `json:"symptoms"`
	RequiresVet bool     `json:"requiresVet"`
}

type diseaseRefDTO struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Species []string `json:"species"`
}

type imageResponse struct {
	Success          bool             `json:"success"`
	Response         string           `json:"response"`
	ImageAnalysis    imageAnalysisDTO `json:"imageAnalysis"`
	MatchingDiseases []diseaseRefDTO  `json:"matchingDiseases"`
	Alert            domain.Alert     `json:"alert"`
	Degraded         bool             `json:"degraded,omitempty"`
}

func imageResponseFrom(res vision.Result) imageResponse {
	resp := imageResponse{
		Success:  true,
		Response: res.Response,
		ImageAnalysis: imageAnalysisDTO{
			RawAnalysis: res.Finding.Analysis,
			Severity:    string(res.Finding.Severity),
			Urgency:     string(res.Finding.Urgency),
			Symptoms:    res.Finding.Symptoms,
			RequiresVet: res.Finding.RequiresVet,
		},
		MatchingDiseases: make([]diseaseRefDTO, 0, len(res.Matches)),
		Alert:            res.Alert,
		Degraded:         res.Degraded,
	}
	for _, m := range res.Matches {
		resp.MatchingDiseases = append(resp.MatchingDiseases, diseaseRefDTO{
			ID:      m.ID,
			Name:    m.Name,
			Species: m.Species,
		})
	}
	return resp
}

type errorResponse struct {
	Error string `json:"error"`
	Reply string `json:"reply,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type deleteResponse struct {
	Message string `json:"message"`
}
