package doctypes

import "fmt"

// Type describes one document type the wizard can work with: its display
// metadata, the structural elements a complete document is expected to
// contain, and the template/sample artifacts offered for download.
type Type struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	TemplateFile string   `json:"templateFile"`
	SampleFile   string   `json:"sampleFile"`
	Elements     []string `json:"elements"`
}

// DefaultElements is the element list applied when a type declares none.
var DefaultElements = []string{
	"Executive Summary",
	"Introduction",
	"Problem Statement",
	"Methodology",
	"Analysis",
	"Results",
	"Recommendations",
	"Conclusion",
}

var registry = map[string]Type{
	"bestPractices": {
		ID:           "bestPractices",
		Title:        "Best Practices",
		Description:  "Document proven methods and techniques that deliver superior results.",
		TemplateFile: "best_practices_template.docx",
		SampleFile:   "best_practices_sample.docx",
		Elements: []string{
			"Executive Summary",
			"Introduction",
			"Scope and Context",
			"Best Practice Description",
			"Implementation Guidelines",
			"Benefits and Outcomes",
			"Supporting Evidence",
			"Recommendations",
			"Conclusion",
		},
	},
	"lessonsLearned": {
		ID:           "lessonsLearned",
		Title:        "Lessons Learned",
		Description:  "Capture insights from projects and experiences for future reference.",
		TemplateFile: "lessons_learned_template.docx",
		SampleFile:   "lessons_learned_sample.docx",
		Elements: []string{
			"Executive Summary",
			"Project Background",
			"Problem Statement",
			"What Went Well",
			"What Went Wrong",
			"Root Cause Analysis",
			"Lessons Learned",
			"Recommendations",
			"Action Items",
		},
	},
	"engineeringReport": {
		ID:           "engineeringReport",
		Title:        "Engineering Report",
		Description:  "Create formal technical reports with comprehensive analysis.",
		TemplateFile: "engineering_report_template.docx",
		SampleFile:   "engineering_report_sample.docx",
		Elements: []string{
			"Title Page",
			"Abstract",
			"Table of Contents",
			"Introduction",
			"Methodology",
			"Results and Analysis",
			"Discussion",
			"Conclusions",
			"Recommendations",
			"References",
		},
	},
	"engineeringStandards": {
		ID:           "engineeringStandards",
		Title:        "Engineering Standards",
		Description:  "Authoritative documents for technical criteria, methods, and practices in engineering.",
		TemplateFile: "engineering_standards_template.docx",
		SampleFile:   "engineering_standards_sample.docx",
		Elements: []string{
			"Title and Identification",
			"Scope",
			"Normative References",
			"Terms and Definitions",
			"Technical Requirements",
			"Test Methods",
			"Compliance Criteria",
			"Quality Assurance",
			"Documentation Requirements",
		},
	},
}

// Get returns the type for the given identifier.
func Get(id string) (Type, error) {
	t, ok := registry[id]
	if !ok {
		return Type{}, fmt.Errorf("unknown document type: %s", id)
	}
	return t, nil
}

// Valid reports whether id names a registered document type.
func Valid(id string) bool {
	_, ok := registry[id]
	return ok
}

// All returns every registered type keyed by identifier.
func All() map[string]Type {
	out := make(map[string]Type, len(registry))
	for id, t := range registry {
		out[id] = t
	}
	return out
}

// ExpectedElements returns the type's element list, falling back to
// DefaultElements when the type declares none.
func (t Type) ExpectedElements() []string {
	if len(t.Elements) == 0 {
		return append([]string(nil), DefaultElements...)
	}
	return append([]string(nil), t.Elements...)
}
