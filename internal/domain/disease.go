package domain

// DiseaseRecord is a structured knowledge-base entry for one animal disease.
// Name is always present; list fields default to empty slices, never nil,
// so formatting code does not need nil checks.
type DiseaseRecord struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Species           []string          `json:"species"`
	ClinicalFindings  []ClinicalFinding `json:"clinical_diagnosis_and_findings"`
	DiagnosticTests   []DiagnosticTest  `json:"diagnostic_tests"`
	Treatment         []Treatment       `json:"treatment"`
	Category          string            `json:"category,omitempty"`
	PrevalenceRegions []string          `json:"prevalence_regions"`
	ZoonoticRisk      bool              `json:"zoonotic_risk"`
}

// ClinicalFinding groups findings under a clinical category.
type ClinicalFinding struct {
	Category string   `json:"category"`
	Findings []string `json:"findings"`
}

// DiagnosticTest describes one diagnostic procedure and its expected outcome.
type DiagnosticTest struct {
	Test            string `json:"test"`
	Type            string `json:"type,omitempty"`
	ExpectedFinding string `json:"expected_finding,omitempty"`
}

// Treatment describes one treatment modality with optional detail lists.
type Treatment struct {
	Modality        string          `json:"modality"`
	Details         []string        `json:"details,omitempty"`
	TargetPathogens []string        `json:"target_pathogens,omitempty"`
	Antibiotics     []string        `json:"antibiotics,omitempty"`
	Administration  []string        `json:"preparation_and_administration,omitempty"`
	Considerations  []string        `json:"considerations,omitempty"`
	Types           []TreatmentType `json:"types,omitempty"`
	Note            string          `json:"note,omitempty"`
}

// TreatmentType is a nested treatment sub-type (legacy record shape).
type TreatmentType struct {
	Type        string   `json:"type"`
	Use         string   `json:"use,omitempty"`
	Antibiotics []string `json:"relevant_antibiotics,omitempty"`
	Adjunct     string   `json:"adjunct,omitempty"`
}

// Normalize replaces nil list fields with empty slices.
func (d *DiseaseRecord) Normalize() {
	if d.Species == nil {
		d.Species = []string{}
	}
	if d.ClinicalFindings == nil {
		d.ClinicalFindings = []ClinicalFinding{}
	}
	if d.DiagnosticTests == nil {
		d.DiagnosticTests = []DiagnosticTest{}
	}
	if d.Treatment == nil {
		d.Treatment = []Treatment{}
	}
	if d.PrevalenceRegions == nil {
		d.PrevalenceRegions = []string{}
	}
}

// SearchCandidate is a lightweight projection of a record used for fuzzy
// matching. Built transiently per search, never persisted.
type SearchCandidate struct {
	ID      string
	Name    string
	Species string // species list joined with spaces
}

// MatchSource identifies which lookup path produced a match.
type MatchSource string

const (
	// SourceDatabase is an exact substring match in the primary store.
	SourceDatabase MatchSource = "database"
	// SourceDatabaseFuzzy is an edit-distance match in the primary store.
	SourceDatabaseFuzzy MatchSource = "database-fuzzy"
	// SourceLocal is an exact substring match in the bundled snapshot.
	SourceLocal MatchSource = "local-json"
	// SourceLocalFuzzy is an edit-distance match in the bundled snapshot.
	SourceLocalFuzzy MatchSource = "local-json-fuzzy"
	// SourceNone means no source yielded a candidate.
	SourceNone MatchSource = "none"
)

// MatchResult is the outcome of a knowledge lookup. Record is a read-only
// reference valid for the current request only.
type MatchResult struct {
	Record *DiseaseRecord
	Score  float64
	Source MatchSource
}

// Found reports whether the lookup produced a record.
func (m MatchResult) Found() bool {
	return m.Record != nil && m.Source != SourceNone
}
