package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"docwizard-backend/internal/doctypes"
	"docwizard-backend/internal/llm"
)

const (
	checklistPromptChars    = 4000
	checklistMaxTokens      = 1500
	checklistTemperature    = 0.3
	checklistFallbackScore  = 50
	checklistFallbackLimit  = 5
	checklistDefaultTimeout = 30 * time.Second

	checklistSystemPrompt = "You are a technical document analyst. Analyze documents by evaluating the presence and quality of required elements. Always respond with valid JSON."

	fallbackDescription = "Unable to analyze - please try again"
	fallbackAction      = "Re-run the analysis to get detailed feedback"
)

func defaultRecommendations() []string {
	return []string{
		"Ensure all required sections are present",
		"Add more detailed content to each section",
		"Include supporting evidence and examples",
	}
}

// Checklist evaluates each expected element of a document type individually
// and expects a structured JSON reply.
type Checklist struct {
	timeout time.Duration
}

// NewChecklist constructs the checklist strategy with the given call timeout.
func NewChecklist(timeout time.Duration) *Checklist {
	if timeout <= 0 {
		timeout = checklistDefaultTimeout
	}
	return &Checklist{timeout: timeout}
}

func (s *Checklist) Name() string { return "checklist" }

func (s *Checklist) Timeout() time.Duration { return s.timeout }

// Request builds the element-checklist prompt with at most the first 4000
// characters of document text.
func (s *Checklist) Request(doc doctypes.Type, text string) llm.Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s document and evaluate the following required elements.\n", doc.Title)
	b.WriteString("For each element, determine its status: EXISTS (complete and well-documented), PARTIAL (present but needs improvement), or MISSING (completely absent).\n\n")
	b.WriteString("Required Elements to Check:\n")
	for _, elem := range doc.ExpectedElements() {
		fmt.Fprintf(&b, "- %s\n", elem)
	}
	b.WriteString(`
For each element, provide:
1. Status (EXISTS, PARTIAL, or MISSING)
2. Brief description of what you found (or what's missing)
3. Specific action needed to improve (if PARTIAL or MISSING)

Also provide:
- Overall quality score (0-100)
- 3-5 overall recommendations for the document

Format your response as JSON:
{
    "elements": [
        {
            "name": "Element Name",
            "status": "EXISTS|PARTIAL|MISSING",
            "description": "What was found or what's missing",
            "action": "What needs to be done (if applicable)"
        }
    ],
    "quality_score": 75,
    "recommendations": ["Recommendation 1", "Recommendation 2"]
}

Document Content:
`)
	b.WriteString(truncate(text, checklistPromptChars))

	return llm.Request{
		System:      checklistSystemPrompt,
		Prompt:      b.String(),
		MaxTokens:   checklistMaxTokens,
		Temperature: checklistTemperature,
	}
}

type checklistReply struct {
	Elements        []ElementFinding `json:"elements"`
	QualityScore    int              `json:"quality_score"`
	Recommendations []string         `json:"recommendations"`
}

// Parse converts the raw reply into a checklist Result. Summary counts are
// recomputed from the parsed statuses; a malformed or absent reply yields
// the deterministic fallback.
func (s *Checklist) Parse(reply string, doc doctypes.Type, now time.Time) Result {
	elements := doc.ExpectedElements()

	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return s.fallback(elements, now)
	}

	payload := stripCodeFence(trimmed)
	var parsed checklistReply
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil || len(parsed.Elements) == 0 {
		return s.fallback(elements, now)
	}

	findings := make([]ElementFinding, 0, len(parsed.Elements))
	summary := Summary{}
	for _, f := range parsed.Elements {
		f.Status = normalizeStatus(f.Status)
		switch f.Status {
		case StatusExists:
			summary.Exists++
		case StatusMissing:
			summary.Missing++
		default:
			summary.Partial++
		}
		findings = append(findings, f)
	}

	recs := parsed.Recommendations
	if len(recs) < 3 {
		recs = defaultRecommendations()
	}
	if len(recs) > 5 {
		recs = recs[:5]
	}

	return Result{
		Strategy:        s.Name(),
		Elements:        findings,
		Summary:         &summary,
		Recommendations: recs,
		QualityScore:    clampScore(parsed.QualityScore),
		AnalyzedAt:      now,
	}
}

func (s *Checklist) fallback(elements []string, now time.Time) Result {
	n := len(elements)
	if n > checklistFallbackLimit {
		n = checklistFallbackLimit
	}

	findings := make([]ElementFinding, 0, n)
	for _, name := range elements[:n] {
		findings = append(findings, ElementFinding{
			Name:        name,
			Status:      StatusPartial,
			Description: fallbackDescription,
			Action:      fallbackAction,
		})
	}

	return Result{
		Strategy:        s.Name(),
		Elements:        findings,
		Summary:         &Summary{Partial: n},
		Recommendations: defaultRecommendations(),
		QualityScore:    checklistFallbackScore,
		AnalyzedAt:      now,
		Fallback:        true,
	}
}

// normalizeStatus maps the model's status onto the fixed vocabulary. An
// unknown status becomes PARTIAL so summary counts always sum to the
// finding count.
func normalizeStatus(raw Status) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(string(raw)))) {
	case StatusExists:
		return StatusExists
	case StatusMissing:
		return StatusMissing
	default:
		return StatusPartial
	}
}

// stripCodeFence unwraps a fenced reply: a ```json block is preferred, then
// the first generic fence, else the text is returned as-is.
func stripCodeFence(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		rest := s[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	return s
}

var _ Strategy = (*Checklist)(nil)
