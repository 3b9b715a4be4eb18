package vision

import "github.com/animora/vetassist/internal/domain"

var alerts = map[domain.Urgency]domain.Alert{
	domain.UrgencyEmergency: {
		Level:   domain.UrgencyEmergency,
		Message: "EMERGENCY: Immediate veterinary attention required! This condition could be life-threatening.",
		Action:  "Contact a veterinarian IMMEDIATELY or visit the nearest clinic NOW.",
	},
	domain.UrgencyUrgent: {
		Level:   domain.UrgencyUrgent,
		Message: "URGENT: Veterinary consultation needed within 24 hours.",
		Action:  "Schedule a vet visit as soon as possible. Do not delay treatment.",
	},
	domain.UrgencyModerate: {
		Level:   domain.UrgencyModerate,
		Message: "MODERATE: Veterinary consultation recommended within 2-3 days.",
		Action:  "Monitor the condition closely and contact a vet if symptoms worsen.",
	},
	domain.UrgencyMonitor: {
		Level:   domain.UrgencyMonitor,
		Message: "MONITOR: Keep observing the animal's condition.",
		Action:  "Watch for any changes. Contact a vet if new symptoms develop or condition worsens.",
	},
}

// AlertFor maps an urgency level to its user-facing escalation message.
// Unknown levels fall back to the monitor alert.
func AlertFor(urgency domain.Urgency) domain.Alert {
	if a, ok := alerts[urgency]; ok {
		return a
	}
	return alerts[domain.UrgencyMonitor]
}
