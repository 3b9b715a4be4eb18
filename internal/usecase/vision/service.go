package vision

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/animora/vetassist/internal/domain"
	"github.com/animora/vetassist/internal/usecase/chat"
)

const assessmentMaxTokens = 1200

// Request is one image submission.
type Request struct {
	ImageBase64 string
	Species     string
	Question    string
	History     []domain.Turn
}

// Result is the full outcome of an image analysis.
type Result struct {
	Response string
	Finding  domain.ImageFinding
	Matches  []domain.DiseaseRecord
	Alert    domain.Alert
	Degraded bool // assessment fell back to the raw vision output
}

// Service runs the image-analysis pipeline: describe, extract findings, match
// the knowledge base, then synthesize an assessment.
type Service struct {
	describer Describer
	completer Completer
	searcher  SymptomSearcher
	logger    *zap.Logger
}

// New creates a vision service.
func New(describer Describer, completer Completer, searcher SymptomSearcher, logger *zap.Logger) *Service {
	return &Service{
		describer: describer,
		completer: completer,
		searcher:  searcher,
		logger:    logger,
	}
}

// Analyze runs the pipeline for one image. Description failures are fatal;
// a knowledge-base miss or a completion failure degrades to the raw vision
// output rather than failing the request.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	image := stripDataURL(strings.TrimSpace(req.ImageBase64))
	if image == "" {
		return Result{}, domain.ErrEmptyQuery
	}

	species := req.Species
	if species == "" {
		species = "cattle"
	}

	analysis, err := s.describer.Describe(ctx, image, visionPrompt(species, req.Question))
	if err != nil {
		return Result{}, fmt.Errorf("describe image: %w", err)
	}

	finding := Extract(analysis)

	var matches []domain.DiseaseRecord
	if len(finding.Symptoms) > 0 {
		matches = s.searcher.FindBySymptoms(ctx, finding.Symptoms, species, 3)
	}

	prompt := req.Question
	if prompt == "" {
		prompt = assessmentPrompt(finding, matches)
	}

	result := Result{
		Finding: finding,
		Matches: matches,
		Alert:   AlertFor(finding.Urgency),
	}

	history := req.History
	if len(history) > chat.DefaultHistoryWindow {
		history = history[len(history)-chat.DefaultHistoryWindow:]
	}
	messages := chat.BuildMessages(prompt, history, matches, nil)
	response, err := s.completer.Complete(ctx, messages, assessmentMaxTokens)
	if err != nil {
		s.logger.Warn("assessment completion failed, returning raw vision output", zap.Error(err))
		result.Response = analysis
		result.Degraded = true
		return result, nil
	}

	result.Response = response
	return result, nil
}

func visionPrompt(species, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert veterinarian analyzing a %s health image.

Examine this image carefully and provide:
1. What you observe (visible symptoms, abnormalities, conditions)
2. Possible health issues or diseases indicated
3. Severity level (mild, moderate, severe, emergency)
4. Recommended immediate actions
5. Whether veterinary consultation is needed

Focus on: wounds, lesions, swelling, parasites, skin conditions, udder issues, limb problems, eye problems, discharge, and any visible abnormalities.
`, species)
	if question != "" {
		fmt.Fprintf(&b, "\nSpecific question: %s\n", question)
	}
	b.WriteString("\nProvide a clear, actionable assessment.")
	return b.String()
}

func assessmentPrompt(finding domain.ImageFinding, matches []domain.DiseaseRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Based on this image analysis, provide a comprehensive veterinary assessment and recommendations:

Vision Analysis Results:
%s

Detected Symptoms: %s
Severity: %s
Urgency: %s
`, finding.Analysis, orNone(finding.Symptoms), finding.Severity, finding.Urgency)

	if len(matches) > 0 {
		b.WriteString("\nPossible Diseases from Database:\n")
		for _, m := range matches {
			fmt.Fprintf(&b, "- %s\n", m.Name)
		}
	}

	b.WriteString(`
Please provide:
1. Summary of what you see in the image
2. Likely diagnosis or conditions
3. Recommended immediate actions
4. Whether veterinary visit is needed (and how urgently)
5. Any relevant information from the disease database`)
	return b.String()
}

func orNone(symptoms []string) string {
	if len(symptoms) == 0 {
		return "None specific"
	}
	return strings.Join(symptoms, ", ")
}

func stripDataURL(image string) string {
	if !strings.HasPrefix(image, "data:image/") {
		return image
	}
	if i := strings.Index(image, ";base64,"); i >= 0 {
		return image[i+len(";base64,"):]
	}
	return image
}
