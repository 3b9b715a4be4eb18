package vision

import (
	"strings"

	"github.com/animora/vetassist/internal/domain"
)

var (
	severityLevels = []struct {
		level    domain.Severity
		keywords []string
	}{
		{domain.SeverityEmergency, []string{"emergency", "critical", "life-threatening"}},
		{domain.SeveritySevere, []string{"severe", "serious", "significant"}},
		{domain.SeverityModerate, []string{"moderate"}},
		{domain.SeverityMild, []string{"mild", "minor"}},
	}

	emergencyKeywords = []string{"emergency", "immediate", "urgent", "critical", "life-threatening", "toxic", "shock"}
	urgentKeywords    = []string{"requires veterinary", "consult vet", "see a vet", "veterinary attention", "within 24 hours"}

	symptomVocabulary = []string{
		"wound", "lesion", "swelling", "inflammation", "redness", "discharge",
		"parasite", "tick", "lice", "mange", "abscess", "infection",
		"mastitis", "udder", "teat", "lameness", "hoof", "foot rot",
		"skin condition", "rash", "hair loss", "crust", "scab",
		"eye problem", "conjunctivitis", "blindness", "cloudy eye",
	}
)

// Extract derives structured findings from a vision model's free-text
// description. Severity is the highest level whose keywords appear; urgency
// is determined independently and then floored by severity.
func Extract(analysis string) domain.ImageFinding {
	lower := strings.ToLower(analysis)

	severity := domain.SeverityUnknown
	for _, lvl := range severityLevels {
		if containsAny(lower, lvl.keywords) {
			severity = lvl.level
			break
		}
	}

	var urgency domain.Urgency
	switch {
	case containsAny(lower, emergencyKeywords) || severity == domain.SeverityEmergency:
		urgency = domain.UrgencyEmergency
	case containsAny(lower, urgentKeywords) || severity == domain.SeveritySevere:
		urgency = domain.UrgencyUrgent
	case severity == domain.SeverityModerate:
		urgency = domain.UrgencyModerate
	default:
		urgency = domain.UrgencyMonitor
	}

	var symptoms []string
	for _, kw := range symptomVocabulary {
		if strings.Contains(lower, kw) {
			symptoms = append(symptoms, kw)
		}
	}

	return domain.ImageFinding{
		Analysis:    analysis,
		Severity:    severity,
		Urgency:     urgency,
		Symptoms:    symptoms,
		RequiresVet: urgency == domain.UrgencyUrgent || urgency == domain.UrgencyEmergency,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
