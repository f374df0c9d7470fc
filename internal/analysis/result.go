package analysis

import "time"

// Status is the three-state presence verdict for a single expected element.
type Status string

const (
	StatusExists  Status = "EXISTS"
	StatusPartial Status = "PARTIAL"
	StatusMissing Status = "MISSING"
)

// ElementFinding is the checklist verdict for one expected element.
type ElementFinding struct {
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Description string `json:"description"`
	Action      string `json:"action,omitempty"`
}

// Summary aggregates finding statuses. The three counts always sum to the
// number of findings; they are recomputed from parsed statuses, never
// trusted from the model.
type Summary struct {
	Exists  int `json:"exists"`
	Partial int `json:"partial"`
	Missing int `json:"missing"`
}

// Result is the validated output of one analysis invocation. Exactly one of
// the two shapes is populated: checklist (Elements, Summary,
// Recommendations) or freeform (Structure, Suggestions). QualityScore and
// AnalyzedAt are always set; a Result is never partially constructed.
type Result struct {
	Strategy        string           `json:"strategy"`
	Elements        []ElementFinding `json:"elements,omitempty"`
	Summary         *Summary         `json:"summary,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
	Structure       []string         `json:"structure,omitempty"`
	Suggestions     []string         `json:"suggestions,omitempty"`
	QualityScore    int              `json:"quality_score"`
	AnalyzedAt      time.Time        `json:"analyzed_at"`

	// Fallback marks a result synthesized from the deterministic defaults
	// rather than a usable model reply. Not part of the API payload.
	Fallback bool `json:"-"`
}
