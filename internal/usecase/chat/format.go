package chat

import (
	"fmt"
	"strings"

	"github.com/animora/vetassist/internal/domain"
)

// FormatRecord renders a disease record as a structured markdown reply. Used
// in legacy (non-AI) mode and as the deterministic fallback when the language
// model is unavailable.
func FormatRecord(d *domain.DiseaseRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🦠 **%s**\n\n", d.Name)

	if len(d.Species) > 0 {
		b.WriteString("🐾 **Species Affected:**\n")
		for _, s := range d.Species {
			fmt.Fprintf(&b, "• %s\n", s)
		}
		b.WriteString("\n")
	}

	if len(d.ClinicalFindings) > 0 {
		b.WriteString("🩺 **Clinical Diagnosis & Findings:**\n")
		for _, sec := range d.ClinicalFindings {
			fmt.Fprintf(&b, "\n**%s:**\n", sec.Category)
			for _, f := range sec.Findings {
				fmt.Fprintf(&b, "• %s\n", f)
			}
		}
		b.WriteString("\n")
	}

	if len(d.DiagnosticTests) > 0 {
		b.WriteString("🔬 **Diagnostic Tests:**\n")
		for _, t := range d.DiagnosticTests {
			fmt.Fprintf(&b, "• **%s** (%s) → %s\n", t.Test, orDefault(t.Type, "unknown"), orDefault(t.ExpectedFinding, "N/A"))
		}
		b.WriteString("\n")
	}

	if len(d.Treatment) > 0 {
		b.WriteString("💊 **Treatment:**\n")
		for _, t := range d.Treatment {
			fmt.Fprintf(&b, "• %s\n", t.Modality)
			for _, x := range t.Details {
				fmt.Fprintf(&b, "   - %s\n", x)
			}
			writeDetailList(&b, "Target Pathogens", t.TargetPathogens)
			writeDetailList(&b, "Antibiotics", t.Antibiotics)
			writeDetailList(&b, "Preparation & Administration", t.Administration)
			writeDetailList(&b, "Considerations", t.Considerations)
			for _, tp := range t.Types {
				fmt.Fprintf(&b, "   - %s: %s\n", tp.Type, tp.Use)
				if len(tp.Antibiotics) > 0 {
					fmt.Fprintf(&b, "      Antibiotics: %s\n", strings.Join(tp.Antibiotics, ", "))
				}
				if tp.Adjunct != "" {
					fmt.Fprintf(&b, "      Adjunct: %s\n", tp.Adjunct)
				}
			}
			if t.Note != "" {
				fmt.Fprintf(&b, "   - Note: %s\n", t.Note)
			}
		}
		b.WriteString("\n")
	}

	if len(d.PrevalenceRegions) > 0 {
		fmt.Fprintf(&b, "🌍 **Regions Affected:** %s\n\n", strings.Join(d.PrevalenceRegions, ", "))
	}

	risk := "No"
	if d.ZoonoticRisk {
		risk = "Yes"
	}
	fmt.Fprintf(&b, "⚠️ **Zoonotic Risk:** %s", risk)

	return strings.TrimSpace(b.String())
}

func writeDetailList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "   - %s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "      • %s\n", item)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// FallbackReply is the reply when no knowledge-base record matched the query.
func FallbackReply(query string) string {
	return fmt.Sprintf(`⚠️ Sorry, I couldn't find a disease matching %q.

Here's some general advice:
- Consult a qualified veterinarian for diagnosis.
- Observe any unusual signs in your animals: lethargy, loss of appetite, fever, abnormal discharge.
- Maintain hygiene, vaccination, and preventive care.
- Record symptoms and duration before visiting a vet.`, query)
}

// degradedNote is appended to fallback-formatted replies when the language
// model failed mid-request.
const degradedNote = "\n\n_Note: Using fallback formatting due to AI service unavailability._"
