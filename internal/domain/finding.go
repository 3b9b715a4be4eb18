package domain

// Severity of a condition observed in an image analysis.
type Severity string

// Severity levels, most to least serious.
const (
	SeverityEmergency Severity = "emergency"
	SeveritySevere    Severity = "severe"
	SeverityModerate  Severity = "moderate"
	SeverityMild      Severity = "mild"
	SeverityUnknown   Severity = "unknown"
)

// Urgency of veterinary follow-up.
type Urgency string

// Urgency levels.
const (
	UrgencyEmergency Urgency = "emergency"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyModerate  Urgency = "moderate"
	UrgencyMonitor   Urgency = "monitor"
)

// ImageFinding is what the extractor derives from a vision model's free-text
// description of an uploaded image. Transient, derived per submission.
type ImageFinding struct {
	Analysis    string
	Severity    Severity
	Urgency     Urgency
	Symptoms    []string
	RequiresVet bool
}

// Alert is the user-facing escalation message for an urgency level.
type Alert struct {
	Level   Urgency `json:"level"`
	Message string  `json:"message"`
	Action  string  `json:"action"`
}
